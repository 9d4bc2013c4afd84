package browser

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// rescanMsg asks for a wholesale rebuild of the object list.
type rescanMsg struct{}

// watcherReadyMsg delivers the started watcher to the model.
type watcherReadyMsg struct {
	w *baseWatcher
}

// baseWatcher turns filesystem changes in the current base directory
// into rescan messages. It never mutates state itself; the Bubble Tea
// loop owns every rebuild.
type baseWatcher struct {
	fs *fsnotify.Watcher
}

func newBaseWatcher(dir string) (*baseWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	return &baseWatcher{fs: fs}, nil
}

// retarget switches the watch to a new base directory.
func (w *baseWatcher) retarget(old, dir string) {
	_ = w.fs.Remove(old)
	_ = w.fs.Add(dir)
}

// wait blocks until something changes in the watched directory.
func (w *baseWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case _, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				return rescanMsg{}
			case _, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				// Watch errors only ever cost the auto-refresh.
			}
		}
	}
}

func (w *baseWatcher) close() {
	w.fs.Close()
}

// Package history persists completed launches back into the object tree.
// Each recorded entry becomes an ordinary descriptor (+ detail page +
// optional replay script) in the history directory, so launch history is
// browsable and replayable with the same machinery as everything else.
package history

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry describes one completed launch.
type Entry struct {
	Title        string
	Icon         string
	Options      map[string]string
	ReplayScript string
}

// Recorder writes history entries into a directory. Recording is
// best-effort: callers log the returned error and move on; a failed
// recording never interrupts the launch it describes.
type Recorder struct {
	dir    string
	logger *logrus.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRecorder creates a recorder writing into dir. The directory is
// created on first use.
func NewRecorder(dir string, logger *logrus.Logger) *Recorder {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Recorder{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the history directory.
func (r *Recorder) Dir() string { return r.dir }

// historyDescriptor is the generated descriptor shape. It always carries
// details and icon; openaction is present only when a replay script was
// written.
type historyDescriptor struct {
	Title      string             `json:"title"`
	Icon       string             `json:"icon"`
	Details    string             `json:"details"`
	OpenAction *historyOpenAction `json:"openaction,omitempty"`
}

type historyOpenAction struct {
	Command string `json:"command"`
	Arg0    string `json:"arg0"`
}

// Record persists entry as a descriptor/detail/script triple sharing a
// timestamp-derived stem. Entries without a title or icon are dropped.
// The descriptor file is written last: it alone makes the entry visible
// to a scan, so a failed recording leaves at worst orphan .sh/.html
// files that are never surfaced as launchable objects.
func (r *Recorder) Record(entry Entry) error {
	if entry.Title == "" || entry.Icon == "" {
		r.logger.Debug("history: entry without title or icon, not recording")
		return nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	stem := r.freeStem()

	desc := historyDescriptor{
		Title:   entry.Title,
		Icon:    entry.Icon,
		Details: stem + ".html",
	}

	if strings.TrimSpace(entry.ReplayScript) != "" {
		script := entry.ReplayScript
		if !strings.HasSuffix(script, "\n") {
			script += "\n"
		}
		scriptPath := filepath.Join(r.dir, stem+".sh")
		if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
			return fmt.Errorf("write replay script: %w", err)
		}
		desc.OpenAction = &historyOpenAction{Command: "shell", Arg0: stem + ".sh"}
	}

	if err := r.writeDetails(stem, entry.Options); err != nil {
		// The descriptor's details path will dangle; viewers fall back
		// to the default page, so this is not fatal to the entry.
		r.logger.WithError(err).Warn("history: detail page not written")
	}

	descPath := filepath.Join(r.dir, stem+".json")
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history descriptor: %w", err)
	}
	if err := os.WriteFile(descPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write history descriptor: %w", err)
	}
	return nil
}

// freeStem returns a second-resolution timestamp stem that collides with
// no existing artifact, probing -1, -2, ... monotonically.
func (r *Recorder) freeStem() string {
	base := r.now().Format("20060102-150405")
	stem := base
	for n := 1; r.stemTaken(stem); n++ {
		stem = fmt.Sprintf("%s-%d", base, n)
	}
	return stem
}

func (r *Recorder) stemTaken(stem string) bool {
	for _, ext := range []string{".json", ".sh", ".html"} {
		if _, err := os.Stat(filepath.Join(r.dir, stem+ext)); err == nil {
			return true
		}
	}
	return false
}

// writeDetails renders Options as an escaped key/value list.
func (r *Recorder) writeDetails(stem string, options map[string]string) error {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body>\n<dl>\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "<dt>%s</dt><dd>%s</dd>\n", html.EscapeString(k), html.EscapeString(options[k]))
	}
	b.WriteString("</dl>\n</body>\n</html>\n")

	return os.WriteFile(filepath.Join(r.dir, stem+".html"), []byte(b.String()), 0644)
}

// Package nav tracks the launcher's current position in the object tree.
// The state is a single current directory; the root is fixed for the
// life of the process. Breadcrumbs are always recomputed from scratch
// from (current, root) so the trail can never drift from the actual
// directory, no matter how many transitions occurred.
package nav

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// HomeLabel is the label of the first breadcrumb.
const HomeLabel = "Home"

// Crumb is one step of the breadcrumb trail.
type Crumb struct {
	Label string
	Path  string
}

// State is the navigation state machine. It has no terminal state and
// lives for the whole session.
type State struct {
	root    string
	current string
	logger  *logrus.Logger
}

// New creates a navigation state rooted at root, which must be an
// existing directory.
func New(root string, logger *logrus.Logger) (*State, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	return &State{root: abs, current: abs, logger: logger}, nil
}

// Root returns the fixed root directory.
func (s *State) Root() string { return s.root }

// Current returns the current base directory.
func (s *State) Current() string { return s.current }

// ChangeBase transitions to path if it is an existing directory and
// reports whether the transition happened. An invalid target leaves the
// state unchanged. Re-entering the root is an ordinary transition.
func (s *State) ChangeBase(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Debug("nav: unresolvable target")
		return false
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		s.logger.WithField("path", abs).Debug("nav: target is not a directory, staying put")
		return false
	}
	s.current = abs
	return true
}

// Breadcrumbs returns the trail for the current position.
func (s *State) Breadcrumbs() []Crumb {
	return Breadcrumbs(s.current, s.root)
}

// Breadcrumbs computes the trail from root to current as a pure function
// of the two paths. The first crumb is always ("Home", root); when
// current equals root it is the only crumb. Each later crumb extends the
// previous crumb's path by exactly one segment of rel(current, root).
// A current outside the root yields the Home crumb plus a single crumb
// for current itself.
func Breadcrumbs(current, root string) []Crumb {
	crumbs := []Crumb{{Label: HomeLabel, Path: root}}

	if current == root {
		return crumbs
	}
	rel, err := filepath.Rel(root, current)
	if err != nil || rel == "." {
		return crumbs
	}
	if strings.HasPrefix(rel, "..") {
		// Escaped the root; show the current directory as one crumb.
		return append(crumbs, Crumb{Label: current, Path: current})
	}

	accum := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" {
			continue
		}
		accum = filepath.Join(accum, part)
		crumbs = append(crumbs, Crumb{Label: part, Path: accum})
	}
	return crumbs
}

package descriptor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Ext is the file extension that marks an object descriptor.
const Ext = ".json"

// Store scans directories for object descriptors. A scan is always a
// wholesale rebuild; results are never mutated in place.
type Store struct {
	logger *logrus.Logger
}

// NewStore creates a descriptor store. A nil logger is replaced with a
// discard-level default so callers in tests can pass nil.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Store{logger: logger}
}

// Scan enumerates descriptor files in dir (non-recursive), sorted
// lexicographically by filename. Malformed files are skipped; a missing
// directory yields an empty result. One bad file never fails the scan.
func (s *Store) Scan(dir string) []*Object {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.WithError(err).WithField("dir", dir).Debug("descriptor scan: directory unreadable")
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	objects := make([]*Object, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		obj, err := Load(path)
		if err != nil {
			s.logger.WithError(err).WithField("file", name).Debug("descriptor scan: skipping malformed file")
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

// Package launcher wires the descriptor store, navigation state,
// dispatcher, plugin host, history recorder and session registry into
// one service. All state here is owned by a single control goroutine;
// scans rebuild the object list wholesale instead of mutating it.
package launcher

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/dispatch"
	"github.com/hpcdesk/launchpad/pkg/history"
	"github.com/hpcdesk/launchpad/pkg/nav"
	"github.com/hpcdesk/launchpad/pkg/pluginhost"
	"github.com/hpcdesk/launchpad/pkg/resolve"
	"github.com/hpcdesk/launchpad/pkg/session"
)

// Config holds service configuration.
type Config struct {
	// Root is the initial (and permanent) base directory.
	Root string
	// DataDir holds the session database.
	DataDir string
	// HistoryDir receives recorded launches. Defaults to Root/History
	// so recorded entries show up in the tree.
	HistoryDir string
	// PluginDir is the administrator-controlled handler location.
	PluginDir string
	// RegistryPath is the handlers.yaml manifest. Empty means no
	// registered handlers.
	RegistryPath string
	// IndexPage is the default detail page name looked up in the
	// current base when an object has no details of its own.
	IndexPage string
}

// Service is the launcher core.
type Service struct {
	cfg    Config
	logger *logrus.Logger

	store      *descriptor.Store
	nav        *nav.State
	host       *pluginhost.Host
	dispatcher *dispatch.Dispatcher
	recorder   *history.Recorder
	sessions   *session.Registry

	objects []*descriptor.Object
}

// New creates a launcher service rooted at cfg.Root and performs the
// initial scan.
func New(cfg Config, logger *logrus.Logger) (*Service, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	if cfg.IndexPage == "" {
		cfg.IndexPage = "index.html"
	}

	state, err := nav.New(cfg.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize navigation: %w", err)
	}

	if cfg.HistoryDir == "" {
		cfg.HistoryDir = filepath.Join(state.Root(), "History")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(state.Root(), ".launchpad")
	}

	sessions, err := session.NewRegistry(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open session registry: %w", err)
	}

	recorder := history.NewRecorder(cfg.HistoryDir, logger)

	registry := map[string]string{}
	if cfg.RegistryPath != "" {
		registry, err = pluginhost.LoadRegistry(cfg.RegistryPath)
		if err != nil {
			// A broken manifest disables registered handlers but not
			// the launcher.
			logger.WithError(err).Warn("handler registry unusable, continuing without it")
			registry = map[string]string{}
		}
	}

	allowedRoots := []string{state.Root()}
	if cfg.PluginDir != "" {
		allowedRoots = append(allowedRoots, cfg.PluginDir)
	}

	services := &hostServices{sessions: sessions, recorder: recorder, logger: logger}
	host := pluginhost.New(services, registry, allowedRoots, logger)

	s := &Service{
		cfg:        cfg,
		logger:     logger,
		store:      descriptor.NewStore(logger),
		nav:        state,
		host:       host,
		dispatcher: dispatch.New(state.Root(), host, logger),
		recorder:   recorder,
		sessions:   sessions,
	}
	s.Rescan()
	return s, nil
}

// Objects returns the descriptors of the current base directory.
func (s *Service) Objects() []*descriptor.Object { return s.objects }

// Root returns the fixed root directory.
func (s *Service) Root() string { return s.nav.Root() }

// Current returns the current base directory.
func (s *Service) Current() string { return s.nav.Current() }

// Breadcrumbs returns the trail for the current position.
func (s *Service) Breadcrumbs() []nav.Crumb { return s.nav.Breadcrumbs() }

// Host exposes the plugin host, for UI-handle bookkeeping.
func (s *Service) Host() *pluginhost.Host { return s.host }

// Sessions exposes the session registry.
func (s *Service) Sessions() *session.Registry { return s.sessions }

// Recorder exposes the history recorder.
func (s *Service) Recorder() *history.Recorder { return s.recorder }

// Rescan rebuilds the object list from the current base.
func (s *Service) Rescan() {
	s.objects = s.store.Scan(s.nav.Current())
}

// ChangeBase transitions to dir and rescans. Invalid targets leave both
// the position and the object list untouched.
func (s *Service) ChangeBase(dir string) bool {
	if !s.nav.ChangeBase(dir) {
		return false
	}
	s.Rescan()
	return true
}

// Open dispatches obj's open action. Navigation outcomes are applied
// (base change plus rescan); script outcomes are recorded in the
// session registry. The returned outcome is what actually happened.
func (s *Service) Open(obj *descriptor.Object) dispatch.Outcome {
	out := s.dispatcher.Dispatch(obj, s.nav.Current())

	switch out.Kind {
	case dispatch.OutcomeNavigate:
		if !s.ChangeBase(out.NewBase) {
			// The directory vanished between resolution and the
			// transition; treat as the usual silent miss.
			return dispatch.Outcome{Kind: dispatch.OutcomeNone}
		}
	case dispatch.OutcomeScript:
		label := ""
		if obj != nil {
			label = obj.Title
		}
		if err := s.sessions.Add(out.PID, label, out.PGID); err != nil {
			s.logger.WithError(err).Warn("session not recorded")
		}
	}
	return out
}

// DetailsPath resolves the detail page for obj: the object's own
// details first, then the index page of the current base. Empty string
// means the caller should show its built-in page.
func (s *Service) DetailsPath(obj *descriptor.Object) string {
	if obj != nil && obj.Details != "" {
		if path, ok := resolve.Asset(s.nav.Current(), obj.Details); ok {
			return path
		}
	}
	if path, ok := resolve.Asset(s.nav.Current(), s.cfg.IndexPage); ok {
		return path
	}
	return ""
}

// IconPath resolves obj's icon; ok is false when the caller should use
// a default icon.
func (s *Service) IconPath(obj *descriptor.Object) (string, bool) {
	if obj == nil {
		return "", false
	}
	return resolve.Asset(s.nav.Current(), obj.Icon)
}

// Close releases plugin handles and the session registry.
func (s *Service) Close() error {
	s.host.Shutdown()
	return s.sessions.Close()
}

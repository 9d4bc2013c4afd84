// Package pluginhost loads external UI handlers and keeps their handles
// alive. Handlers run as separate processes behind a handshake-checked
// protocol; a misbehaving handler can never take the host down.
package pluginhost

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-plugin"
	"github.com/sirupsen/logrus"

	"github.com/hpcdesk/launchpad/pkg/launchplug"
	"github.com/hpcdesk/launchpad/pkg/resolve"
)

// Handle is an owned reference to a produced UI. Releasing the handle
// ends the handler process; until then the host keeps it alive.
type Handle struct {
	ID    string
	Title string

	client *plugin.Client
}

// Close ends the handler process behind the handle.
func (h *Handle) Close() {
	if h.client != nil {
		h.client.Kill()
	}
}

// Host invokes handlers and owns the handles they produce.
type Host struct {
	services launchplug.HostServices
	registry map[string]string
	// allowedRoots bounds where handler binaries may live when a
	// descriptor names a path rather than a registered identifier.
	allowedRoots []string
	logger       *logrus.Logger

	mu      sync.Mutex
	handles map[string]*Handle
}

// New creates a host. registry maps stable handler identifiers to
// binaries (see LoadRegistry); allowedRoots are the directories a
// path-named handler must live under.
func New(services launchplug.HostServices, registry map[string]string, allowedRoots []string, logger *logrus.Logger) *Host {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	if registry == nil {
		registry = map[string]string{}
	}
	roots := make([]string, 0, len(allowedRoots))
	for _, r := range allowedRoots {
		if abs, err := filepath.Abs(r); err == nil {
			roots = append(roots, abs)
		}
	}
	return &Host{
		services:     services,
		registry:     registry,
		allowedRoots: roots,
		logger:       logger,
		handles:      map[string]*Handle{},
	}
}

// Resolve maps a descriptor's handler reference to an invocable binary.
// A registered identifier wins over path resolution; a path must exist
// under an allowed root and be executable. The boolean is false when
// nothing trustworthy matched.
func (h *Host) Resolve(base, ref string) (string, bool) {
	if bin, ok := h.registry[ref]; ok {
		if executable(bin) {
			return bin, true
		}
		h.logger.WithField("handler", ref).Warn("plugin host: registered handler binary missing or not executable")
		return "", false
	}

	path, ok := resolve.Asset(base, ref)
	if !ok {
		return "", false
	}
	if !h.allowed(path) {
		h.logger.WithField("path", path).Warn("plugin host: handler outside allowed roots, refusing")
		return "", false
	}
	if !executable(path) {
		h.logger.WithField("path", path).Warn("plugin host: handler is not executable, refusing")
		return "", false
	}
	return path, true
}

func (h *Host) allowed(path string) bool {
	for _, root := range h.allowedRoots {
		rel, err := filepath.Rel(root, path)
		if err != nil || filepath.IsAbs(rel) {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

func executable(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode()&0111 != 0
}

// Invoke launches the handler binary and calls its factory with ctx.
// Every failure mode (handshake, dispense, factory error, nil UI) is
// absorbed: the handler produced nothing, the retained-handle list is
// unchanged, and the caller gets nil.
func (h *Host) Invoke(handlerPath string, ctx launchplug.Context) *Handle {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: launchplug.Handshake,
		Plugins: map[string]plugin.Plugin{
			launchplug.HandlerPluginName: &launchplug.HandlerPlugin{},
		},
		Cmd: exec.Command(handlerPath),
	})

	rpcClient, err := client.Client()
	if err != nil {
		h.logger.WithError(err).WithField("handler", handlerPath).Warn("plugin host: handler did not come up")
		client.Kill()
		return nil
	}

	raw, err := rpcClient.Dispense(launchplug.HandlerPluginName)
	if err != nil {
		h.logger.WithError(err).WithField("handler", handlerPath).Warn("plugin host: dispense failed")
		client.Kill()
		return nil
	}
	handler, ok := raw.(launchplug.Handler)
	if !ok {
		h.logger.WithField("handler", handlerPath).Warn("plugin host: unexpected plugin type")
		client.Kill()
		return nil
	}

	ui, err := handler.Build(h.services, ctx)
	if err != nil {
		h.logger.WithError(err).WithField("handler", handlerPath).Warn("plugin host: handler factory failed")
		client.Kill()
		return nil
	}
	if ui == nil {
		h.logger.WithField("handler", handlerPath).Debug("plugin host: handler produced no UI")
		client.Kill()
		return nil
	}

	handle := &Handle{ID: uuid.NewString(), Title: ui.Title, client: client}
	h.mu.Lock()
	h.handles[handle.ID] = handle
	h.mu.Unlock()
	return handle
}

// Handles returns the currently retained handles.
func (h *Host) Handles() []*Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Handle, 0, len(h.handles))
	for _, handle := range h.handles {
		out = append(out, handle)
	}
	return out
}

// Release closes and forgets one handle. Used when a UI reports
// closure; plain ownership rather than keeping references forever.
func (h *Host) Release(id string) {
	h.mu.Lock()
	handle, ok := h.handles[id]
	delete(h.handles, id)
	h.mu.Unlock()
	if ok {
		handle.Close()
	}
}

// Shutdown releases every retained handle.
func (h *Host) Shutdown() {
	h.mu.Lock()
	handles := h.handles
	h.handles = map[string]*Handle{}
	h.mu.Unlock()
	for _, handle := range handles {
		handle.Close()
	}
}

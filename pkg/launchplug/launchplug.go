// Package launchplug defines the contract between the launcher and
// external UI handlers. Handlers are separate executables spoken to over
// hashicorp/go-plugin; they expose a single factory operation and run
// inside the host's session, never their own. The context shape and the
// two host callbacks below are the entire surface a handler can touch.
package launchplug

import (
	"github.com/hashicorp/go-plugin"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/history"
)

// HandlerPluginName is the dispense key for the handler plugin.
const HandlerPluginName = "handler"

// Handshake guards against the host executing something that is not a
// launchpad handler at all.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "LAUNCHPAD_PLUGIN",
	MagicCookieValue: "b2f1a7c4d9e3",
}

// Context is the invocation context handed to a handler's factory.
type Context struct {
	BasePath     string
	RootBasePath string
	Descriptor   descriptor.Object
	SourcePath   string
}

// UI describes the user interface a handler produced. Returning nil
// means the handler produced nothing and the host releases it.
type UI struct {
	Title string
}

// HistoryEntry is re-exported so handler binaries only ever import this
// package.
type HistoryEntry = history.Entry

// HostServices is the callback surface a handler may use while it is
// building its UI. These callbacks are the only channel back to the
// host beyond the UI handle itself.
type HostServices interface {
	// RegisterStartedSession records a background process the handler
	// launched, for later visibility. Purely informational.
	RegisterStartedSession(pid int, label string, pgid int) error

	// RecordHistory persists a completed launch as a new descriptor in
	// the history tree. Best-effort.
	RecordHistory(entry history.Entry) error
}

// Handler is implemented by plugin binaries. Build is the single
// factory operation of the contract.
type Handler interface {
	Build(host HostServices, ctx Context) (*UI, error)
}

// Serve runs a handler implementation as a plugin binary. Plugin main
// functions call this and nothing else.
func Serve(h Handler) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			HandlerPluginName: &HandlerPlugin{Impl: h},
		},
	})
}

// Package dispatch routes an activated object to its open action:
// change the current directory, invoke a UI handler, or run a script as
// a detached process. Malformed and stale descriptors are expected, so
// every failure here degrades to an explicit, logged no-op; nothing in
// this package surfaces an error to the user.
package dispatch

import (
	"os/exec"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/launchplug"
	"github.com/hpcdesk/launchpad/pkg/pluginhost"
	"github.com/hpcdesk/launchpad/pkg/resolve"
)

// OutcomeKind classifies what a dispatch did.
type OutcomeKind int

const (
	// OutcomeNone means the action was absent, unknown, or its target
	// was missing. The launcher state is unchanged.
	OutcomeNone OutcomeKind = iota
	// OutcomeNavigate requests a base-directory transition.
	OutcomeNavigate
	// OutcomePlugin means a handler produced a UI, now retained by the
	// plugin host.
	OutcomePlugin
	// OutcomeScript means a detached process was started.
	OutcomeScript
)

// Outcome reports what dispatching an object did.
type Outcome struct {
	Kind OutcomeKind

	// NewBase is set for OutcomeNavigate.
	NewBase string

	// Handle is set for OutcomePlugin.
	Handle *pluginhost.Handle

	// PID and PGID identify the detached process for OutcomeScript.
	// They are bookkeeping identifiers only; the process is not
	// supervised and outlives the launcher.
	PID  int
	PGID int
}

// Dispatcher interprets open actions. The root base is fixed; the
// current base is supplied per call because arg0 is always resolved at
// dispatch time, never from load time.
type Dispatcher struct {
	root   string
	host   *pluginhost.Host
	logger *logrus.Logger
}

// New creates a dispatcher. host handles plugin-invoke actions.
func New(root string, host *pluginhost.Host, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Dispatcher{root: root, host: host, logger: logger}
}

// Dispatch runs obj's open action against base. A nil object, a
// browsable-only object, an unknown command, or a missing target all
// yield OutcomeNone.
func (d *Dispatcher) Dispatch(obj *descriptor.Object, base string) Outcome {
	if obj == nil || !obj.Launchable() {
		d.logger.Debug("dispatch: object has no open action")
		return Outcome{Kind: OutcomeNone}
	}

	action := obj.OpenAction
	log := d.logger.WithFields(logrus.Fields{
		"command": action.Command,
		"arg0":    action.Arg0,
		"source":  obj.Source,
	})

	switch action.Command {
	case descriptor.CommandPath:
		target, ok := resolve.Dir(base, action.Arg0)
		if !ok {
			log.Debug("dispatch: directory target missing, ignoring")
			return Outcome{Kind: OutcomeNone}
		}
		return Outcome{Kind: OutcomeNavigate, NewBase: target}

	case descriptor.CommandPlugin:
		handlerPath, ok := d.host.Resolve(base, action.Arg0)
		if !ok {
			log.Debug("dispatch: handler target missing or refused, ignoring")
			return Outcome{Kind: OutcomeNone}
		}
		ctx := launchplug.Context{
			BasePath:     base,
			RootBasePath: d.root,
			Descriptor:   *obj,
			SourcePath:   obj.Source,
		}
		handle := d.host.Invoke(handlerPath, ctx)
		if handle == nil {
			log.Debug("dispatch: handler produced nothing")
			return Outcome{Kind: OutcomeNone}
		}
		return Outcome{Kind: OutcomePlugin, Handle: handle}

	case descriptor.CommandShell:
		script, ok := resolve.Asset(base, action.Arg0)
		if !ok {
			log.Debug("dispatch: script target missing, ignoring")
			return Outcome{Kind: OutcomeNone}
		}
		pid, pgid, err := startDetached(script, base)
		if err != nil {
			log.WithError(err).Warn("dispatch: script did not start")
			return Outcome{Kind: OutcomeNone}
		}
		return Outcome{Kind: OutcomeScript, PID: pid, PGID: pgid}

	default:
		log.Warn("dispatch: unknown command, ignoring")
		return Outcome{Kind: OutcomeNone}
	}
}

// startDetached runs script in its own session so its lifetime is
// independent of the launcher's: the launcher can exit without taking
// the script down, and vice versa. The dispatcher never waits.
func startDetached(script, dir string) (pid, pgid int, err error) {
	cmd := exec.Command("/bin/sh", script)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, 0, err
	}
	pid = cmd.Process.Pid
	// A new session makes the child its own process-group leader.
	pgid = pid
	if err := cmd.Process.Release(); err != nil {
		return pid, pgid, err
	}
	return pid, pgid, nil
}

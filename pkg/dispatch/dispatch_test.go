package dispatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/history"
	"github.com/hpcdesk/launchpad/pkg/pluginhost"
)

type nopServices struct{}

func (nopServices) RegisterStartedSession(int, string, int) error { return nil }
func (nopServices) RecordHistory(history.Entry) error             { return nil }

func newDispatcher(t *testing.T, root string) *Dispatcher {
	t.Helper()
	host := pluginhost.New(nopServices{}, nil, []string{root}, nil)
	return New(root, host, nil)
}

func obj(cmd descriptor.Command, arg0 string) *descriptor.Object {
	return &descriptor.Object{
		Title:      "test",
		OpenAction: &descriptor.OpenAction{Command: cmd, Arg0: arg0},
	}
}

func TestDispatchPath(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	d := newDispatcher(t, base)

	out := d.Dispatch(obj(descriptor.CommandPath, "sub"), base)
	if out.Kind != OutcomeNavigate {
		t.Fatalf("kind = %v, want navigate", out.Kind)
	}
	if out.NewBase != sub {
		t.Errorf("new base = %s, want %s", out.NewBase, sub)
	}
}

func TestDispatchPathMissingTarget(t *testing.T) {
	base := t.TempDir()
	d := newDispatcher(t, base)

	out := d.Dispatch(obj(descriptor.CommandPath, "sub"), base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for missing directory", out.Kind)
	}
}

func TestDispatchPathTargetIsFile(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "sub"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out := newDispatcher(t, base).Dispatch(obj(descriptor.CommandPath, "sub"), base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for file target", out.Kind)
	}
}

func TestDispatchBrowsableObject(t *testing.T) {
	base := t.TempDir()
	d := newDispatcher(t, base)

	out := d.Dispatch(&descriptor.Object{Title: "docs"}, base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for browsable object", out.Kind)
	}
	if out = d.Dispatch(nil, base); out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for nil object", out.Kind)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	base := t.TempDir()
	out := newDispatcher(t, base).Dispatch(obj("teleport", "anywhere"), base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for unknown command", out.Kind)
	}
}

func TestDispatchPluginMissingHandler(t *testing.T) {
	base := t.TempDir()
	out := newDispatcher(t, base).Dispatch(obj(descriptor.CommandPlugin, "handler"), base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for missing handler", out.Kind)
	}
}

func TestDispatchShellMissingScript(t *testing.T) {
	base := t.TempDir()
	out := newDispatcher(t, base).Dispatch(obj(descriptor.CommandShell, "run.sh"), base)
	if out.Kind != OutcomeNone {
		t.Fatalf("kind = %v, want none for missing script", out.Kind)
	}
}

func TestDispatchShellStartsDetached(t *testing.T) {
	base := t.TempDir()
	marker := filepath.Join(base, "ran")
	script := filepath.Join(base, "run.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho done > \""+marker+"\"\n"), 0755); err != nil {
		t.Fatal(err)
	}

	out := newDispatcher(t, base).Dispatch(obj(descriptor.CommandShell, "run.sh"), base)
	if out.Kind != OutcomeScript {
		t.Fatalf("kind = %v, want script", out.Kind)
	}
	if out.PID <= 0 {
		t.Errorf("pid = %d, want positive", out.PID)
	}
	if out.PGID != out.PID {
		t.Errorf("pgid = %d, want session leader (= pid %d)", out.PGID, out.PID)
	}

	// The dispatcher does not wait, so poll for the side effect.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("script never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

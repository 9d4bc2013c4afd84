//go:build integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/dispatch"
	"github.com/hpcdesk/launchpad/pkg/history"
	"github.com/hpcdesk/launchpad/pkg/launcher"
)

func TestIntegration(t *testing.T) {
	// Skip if not running integration tests
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	root := t.TempDir()
	sub := filepath.Join(root, "Apps")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	write := func(dir, name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(root, "apps.json", `{"title": "Apps", "openaction": {"command": "path", "arg0": "Apps"}}`)
	write(root, "broken.json", `{{{`)
	write(sub, "job.json", `{"title": "Job", "openaction": {"command": "shell", "arg0": "job.sh"}}`)
	if err := os.WriteFile(filepath.Join(sub, "job.sh"), []byte("#!/bin/sh\ntrue\n"), 0755); err != nil {
		t.Fatal(err)
	}

	svc, err := launcher.New(launcher.Config{Root: root, DataDir: filepath.Join(t.TempDir(), "data")}, nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	t.Run("ScanSkipsBroken", func(t *testing.T) {
		if got := len(svc.Objects()); got != 1 {
			t.Fatalf("Expected 1 object at root, got %d", got)
		}
	})

	t.Run("NavigateAndLaunch", func(t *testing.T) {
		out := svc.Open(svc.Objects()[0])
		if out.Kind != dispatch.OutcomeNavigate {
			t.Fatalf("Expected navigation, got %v", out.Kind)
		}
		if len(svc.Breadcrumbs()) != 2 {
			t.Fatalf("Expected two crumbs, got %d", len(svc.Breadcrumbs()))
		}

		out = svc.Open(svc.Objects()[0])
		if out.Kind != dispatch.OutcomeScript {
			t.Fatalf("Expected script launch, got %v", out.Kind)
		}

		sessions, err := svc.Sessions().List()
		if err != nil {
			t.Fatal(err)
		}
		if len(sessions) != 1 || sessions[0].PID != out.PID {
			t.Fatalf("Expected recorded session for pid %d, got %+v", out.PID, sessions)
		}
	})

	t.Run("HistoryBecomesLaunchable", func(t *testing.T) {
		err := svc.Recorder().Record(history.Entry{
			Title:        "Job replay",
			Icon:         "job.png",
			Options:      map[string]string{"node": "gpu01"},
			ReplayScript: "#!/bin/sh\ntrue",
		})
		if err != nil {
			t.Fatal(err)
		}

		if !svc.ChangeBase(svc.Recorder().Dir()) {
			t.Fatal("Failed to enter history directory")
		}
		objects := svc.Objects()
		if len(objects) != 1 {
			t.Fatalf("Expected 1 history object, got %d", len(objects))
		}
		if objects[0].OpenAction == nil || objects[0].OpenAction.Command != descriptor.CommandShell {
			t.Fatalf("History object not replayable: %+v", objects[0])
		}
	})
}

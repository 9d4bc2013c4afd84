package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/dispatch"
	"github.com/hpcdesk/launchpad/pkg/history"
	"github.com/hpcdesk/launchpad/pkg/nav"
)

func historyEntry(title, icon, script string) history.Entry {
	return history.Entry{Title: title, Icon: icon, ReplayScript: script}
}

func newService(t *testing.T) *Service {
	t.Helper()
	root := t.TempDir()
	svc, err := New(Config{Root: root, DataDir: filepath.Join(t.TempDir(), "data")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func writeDescriptor(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestNewRequiresDirectoryRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := New(Config{Root: file}, nil)
	assert.Error(t, err)
}

func TestOpenNavigatesAndRescans(t *testing.T) {
	svc := newService(t)
	root := svc.Root()

	sub := filepath.Join(root, "apps")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeDescriptor(t, root, "apps.json", `{"title": "Apps", "openaction": {"command": "path", "arg0": "apps"}}`)
	writeDescriptor(t, sub, "inner.json", `{"title": "Inner"}`)
	svc.Rescan()

	require.Len(t, svc.Objects(), 1)
	out := svc.Open(svc.Objects()[0])
	require.Equal(t, dispatch.OutcomeNavigate, out.Kind)

	assert.Equal(t, sub, svc.Current())
	require.Len(t, svc.Objects(), 1)
	assert.Equal(t, "Inner", svc.Objects()[0].Title)

	crumbs := svc.Breadcrumbs()
	require.Len(t, crumbs, 2)
	assert.Equal(t, nav.HomeLabel, crumbs[0].Label)
	assert.Equal(t, "apps", crumbs[1].Label)
}

func TestOpenMissingDirectoryIsNoop(t *testing.T) {
	svc := newService(t)
	writeDescriptor(t, svc.Root(), "ghost.json", `{"openaction": {"command": "path", "arg0": "gone"}}`)
	svc.Rescan()

	out := svc.Open(svc.Objects()[0])
	assert.Equal(t, dispatch.OutcomeNone, out.Kind)
	assert.Equal(t, svc.Root(), svc.Current())
}

func TestOpenScriptRecordsSession(t *testing.T) {
	svc := newService(t)
	root := svc.Root()

	script := filepath.Join(root, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ntrue\n"), 0755))
	writeDescriptor(t, root, "job.json", `{"title": "Job", "openaction": {"command": "shell", "arg0": "run.sh"}}`)
	svc.Rescan()

	out := svc.Open(svc.Objects()[0])
	require.Equal(t, dispatch.OutcomeScript, out.Kind)

	sessions, err := svc.Sessions().List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, out.PID, sessions[0].PID)
	assert.Equal(t, "Job", sessions[0].Label)
}

func TestDetailsPathFallbacks(t *testing.T) {
	svc := newService(t)
	root := svc.Root()

	obj := &descriptor.Object{Title: "x", Details: "x.html"}

	// Nothing on disk: built-in page.
	assert.Equal(t, "", svc.DetailsPath(obj))

	// Index page present: fallback target.
	index := filepath.Join(root, "index.html")
	require.NoError(t, os.WriteFile(index, []byte("<html/>"), 0644))
	assert.Equal(t, index, svc.DetailsPath(obj))
	assert.Equal(t, index, svc.DetailsPath(nil))

	// Own details present: wins.
	own := filepath.Join(root, "x.html")
	require.NoError(t, os.WriteFile(own, []byte("<html/>"), 0644))
	assert.Equal(t, own, svc.DetailsPath(obj))
}

func TestHistoryRoundTripThroughService(t *testing.T) {
	svc := newService(t)

	hs := &hostServices{sessions: svc.Sessions(), recorder: svc.Recorder(), logger: svc.logger}
	require.NoError(t, hs.RecordHistory(historyEntry("Launched", "icon.png", "#!/bin/sh\ntrue")))

	require.True(t, svc.ChangeBase(svc.Recorder().Dir()))
	objects := svc.Objects()
	require.Len(t, objects, 1)
	assert.Equal(t, "Launched", objects[0].Title)
	require.NotNil(t, objects[0].OpenAction)
	assert.Equal(t, descriptor.CommandShell, objects[0].OpenAction.Command)
}

func TestRegistryManifestFailureIsNonFatal(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "handlers.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(":\n - ["), 0644))

	svc, err := New(Config{Root: root, DataDir: t.TempDir(), RegistryPath: manifest}, nil)
	require.NoError(t, err)
	svc.Close()
}

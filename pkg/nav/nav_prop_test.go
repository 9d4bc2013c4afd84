package nav

import (
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Breadcrumb invariants must hold for arbitrary directory chains: the
// trail starts at Home, has one crumb per path segment, and every crumb
// extends its predecessor by exactly that segment.
func TestBreadcrumbsProperties(t *testing.T) {
	segment := rapid.StringMatching(`[a-zA-Z0-9][a-zA-Z0-9_.-]{0,11}`).
		Filter(func(s string) bool { return s != "." && s != ".." })

	rapid.Check(t, func(t *rapid.T) {
		root := "/srv/objects"
		segments := rapid.SliceOfN(segment, 0, 6).Draw(t, "segments")

		current := root
		for _, s := range segments {
			current = filepath.Join(current, s)
		}

		crumbs := Breadcrumbs(current, root)

		if len(crumbs) != len(segments)+1 {
			t.Fatalf("trail length %d, want %d", len(crumbs), len(segments)+1)
		}
		if crumbs[0].Label != HomeLabel || crumbs[0].Path != root {
			t.Fatalf("first crumb %+v, want {Home %s}", crumbs[0], root)
		}
		for i := 1; i < len(crumbs); i++ {
			if crumbs[i].Label != segments[i-1] {
				t.Fatalf("crumb %d label %q, want %q", i, crumbs[i].Label, segments[i-1])
			}
			wantPath := filepath.Join(crumbs[i-1].Path, segments[i-1])
			if crumbs[i].Path != wantPath {
				t.Fatalf("crumb %d path %q, want %q", i, crumbs[i].Path, wantPath)
			}
			if !strings.HasPrefix(crumbs[i].Path, crumbs[i-1].Path+string(filepath.Separator)) {
				t.Fatalf("crumb %d does not extend its predecessor", i)
			}
		}
		if crumbs[len(crumbs)-1].Path != current {
			t.Fatalf("last crumb %q, want %q", crumbs[len(crumbs)-1].Path, current)
		}
	})
}

package integration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/pllr/internal/engine"
)

func TestRun_AssetsLandInRoot(t *testing.T) {
	p := setupProject(t, `{"items":[{"get":"printf one > a.txt && printf two > b.txt","assets":["a.txt","b.txt"]}]}`)

	if _, err := p.run(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("a.txt"), "one")
	assertFileContent(t, p.path("b.txt"), "two")
	p.assertWorkspacesRemoved(t)
}

func TestRun_DestDirectory(t *testing.T) {
	p := setupProject(t, `{"items":[{"get":"printf foo > foo.txt","dest":"out","assets":["foo.txt"]}]}`)

	if _, err := p.run(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("out", "foo.txt"), "foo")
}

func TestRun_BuildInSource(t *testing.T) {
	p := setupProject(t, `{"items":[{
		"get":"mkdir built",
		"source":"built",
		"build":"printf bin > x.bin && pwd > where",
		"assets":["x.bin","where"]
	}]}`)

	result, err := p.run(t)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("x.bin"), "bin")
	if got := filepath.Base(result.Items[0].Source); got != "built" {
		t.Errorf("source = %s, want the workspace's built/ directory", result.Items[0].Source)
	}
	p.assertWorkspacesRemoved(t)
}

func TestRun_OverwritePresence(t *testing.T) {
	tests := []struct {
		name      string
		overwrite string
		want      string
	}{
		{"absent keeps the existing file", ``, "local"},
		{"true replaces", `,"overwrite":true`, "fetched"},
		{"false replaces too", `,"overwrite":false`, "fetched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupProject(t, fmt.Sprintf(`{"items":[{"get":"printf fetched > conf","assets":["conf"]%s}]}`, tt.overwrite))
			writeFile(t, p.path("conf"), "local")

			if _, err := p.run(t); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			assertFileContent(t, p.path("conf"), tt.want)
		})
	}
}

func TestRun_NestedChildren(t *testing.T) {
	p := setupProject(t, `{"items":[{
		"get":"printf parent > p.txt",
		"dest":"a",
		"assets":["p.txt"],
		"children":[
			{"get":"printf child > c.txt","dest":"b","assets":["c.txt"]},
			{"get":"printf inherit > i.txt","assets":["i.txt"]}
		]
	}]}`)

	result, err := p.run(t)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("a", "p.txt"), "parent")
	assertFileContent(t, p.path("a", "b", "c.txt"), "child")
	assertFileContent(t, p.path("a", "i.txt"), "inherit")
	if len(result.Items) != 3 {
		t.Errorf("processed %d items, want 3", len(result.Items))
	}
	p.assertWorkspacesRemoved(t)
}

func TestRun_GetFailure(t *testing.T) {
	p := setupProject(t, `{"items":[
		{"get":"printf x > x.txt; echo 'clone failed' >&2; exit 1","dest":"out","assets":["x.txt"]},
		{"get":"printf y > y.txt","assets":["y.txt"]}
	]}`)

	_, err := p.run(t)
	if err == nil {
		t.Fatal("expected the run to fail")
	}
	if !errors.Is(err, engine.ErrCommand) {
		t.Errorf("expected ErrCommand, got %v", err)
	}

	assertNotExist(t, p.path("out"))
	assertNotExist(t, p.path("y.txt"))
	p.assertWorkspacesRemoved(t)
}

func TestRun_ChildFailureCleansEveryLevel(t *testing.T) {
	p := setupProject(t, `{"items":[{
		"get":"true",
		"assets":[],
		"children":[{"get":"true","assets":[],"children":[{"get":"exit 7","assets":[]}]}]
	}]}`)

	_, err := p.run(t)
	if !errors.Is(err, engine.ErrCommand) {
		t.Fatalf("expected ErrCommand, got %v", err)
	}
	p.assertWorkspacesRemoved(t)
}

func TestRun_DirectoryRoundTrip(t *testing.T) {
	upstream := t.TempDir()
	files := map[string]string{
		"theme/style.css":          "body{}",
		"theme/fonts/a.woff":       "font-a",
		"theme/fonts/deep/b.woff2": "font-b",
		"theme/.hidden":            "dot",
	}
	for name, content := range files {
		writeFile(t, filepath.Join(upstream, name), content)
	}

	p := setupProject(t, fmt.Sprintf(`{"items":[{"get":"cp -R '%s'/. .","dest":"static","assets":["theme"]}]}`, upstream))

	if _, err := p.run(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for name, content := range files {
		assertFileContent(t, p.path("static", name), content)
	}
}

func TestRun_GlobAndMissingAssets(t *testing.T) {
	p := setupProject(t, `{"items":[{
		"get":"mkdir -p dist && printf a > dist/a.js && printf b > dist/b.js && printf c > dist/c.css",
		"dest":"js",
		"assets":["dist/*.js","dist/*.map","nope.txt"]
	}]}`)

	result, err := p.run(t)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("js", "a.js"), "a")
	assertFileContent(t, p.path("js", "b.js"), "b")
	assertNotExist(t, p.path("js", "c.css"))
	if got := result.Missing(); got != 2 {
		t.Errorf("missing = %d, want 2", got)
	}
}

func TestRun_MissingManifest(t *testing.T) {
	p := setupProject(t, `{"items":[]}`)

	_, err := p.engine.Run(context.Background(), &engine.RunRequest{Dir: t.TempDir()})
	if !errors.Is(err, engine.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	p.assertWorkspacesRemoved(t)
}

func TestRun_LiteralNameWithGlobCharacters(t *testing.T) {
	p := setupProject(t, `{"items":[{
		"get":"mkdir pages && printf page > 'pages/[id].js' && printf other > pages/i.js",
		"dest":"app",
		"assets":["pages/[id].js"]
	}]}`)

	result, err := p.run(t)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertFileContent(t, p.path("app", "[id].js"), "page")
	assertNotExist(t, p.path("app", "i.js"))
	if got := result.Copied(); got != 1 {
		t.Errorf("copied = %d, want 1", got)
	}
}

package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/vodmark/internal/style"
)

func TestParse(t *testing.T) {
	src := `
# comment
Name: Mine
background: #112233
ButtonActive: red
Unknown: #FFFFFF
`
	th, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Mine" {
		t.Fatalf("name = %q", th.Name)
	}
	if th.Background != style.RGB(0x11, 0x22, 0x33) {
		t.Fatalf("background = %v", th.Background)
	}
	if th.ButtonActive != style.RGB(255, 0, 0) {
		t.Fatalf("button active = %v", th.ButtonActive)
	}
	if th.Handle != Default().Handle {
		t.Fatal("missing keys should keep defaults")
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Foreground: #12")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := &Loader{}
	for _, name := range l.Names() {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if th.Name == "" {
			t.Fatalf("%s has no name", name)
		}
	}
	dark, err := l.Load("Dark")
	if err != nil {
		t.Fatal(err)
	}
	if dark.Background != style.RGB(0x1E, 0x1E, 0x1E) {
		t.Fatalf("dark background = %v", dark.Background)
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: FromDir\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"custom": {Name: "FromConfig"}}}
	if th, err := l.Load("mine"); err != nil || th.Name != "FromDir" {
		t.Fatalf("mine = %+v, %v", th, err)
	}
	if th, err := l.Load("custom"); err != nil || th.Name != "FromConfig" {
		t.Fatalf("custom = %+v, %v", th, err)
	}
	if th, err := l.Load(filepath.Join(dir, "mine.theme")); err != nil || th.Name != "FromDir" {
		t.Fatalf("path = %+v, %v", th, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Fatal("expected not found")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	src := Default()
	src.Handle = style.Color{R: 1, G: 2, B: 3, A: 0.5}
	var sb strings.Builder
	for _, kv := range src.Fields() {
		sb.WriteString(kv[0] + ": " + kv[1] + "\n")
	}
	got, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Handle.R != 1 || got.Handle.A < 0.49 || got.Handle.A > 0.51 {
		t.Fatalf("handle = %v", got.Handle)
	}
}

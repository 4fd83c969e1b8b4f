package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/vodmark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.SetSender(func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		out = append(out, sent{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	})
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Save("a.png")
	n.Copy("", nil)
	n.Export("b.png")
	if len(*got) != 0 {
		t.Fatalf("sent %+v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x")
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mark.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	got := recorder(n)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("sent %d", len(*got))
	}
	s := (*got)[0]
	if s.title != "vodmark" || s.body != "Saved "+path || s.opts.IconPath != path {
		t.Fatalf("unexpected %+v", s)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	got := recorder(n)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	s := (*got)[0]
	if s.body != "Copied image to clipboard" || !s.iconExisted {
		t.Fatalf("unexpected %+v", s)
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview left behind: %v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("VODMARK_NOTIFY_TITLE", "Marks")
	t.Setenv("VODMARK_NOTIFY_EXPORT_TEXT", "Done")
	p := LoadPreferences()
	if p.Title != "Marks" || p.Templates[EventExport] != "Done" || p.Templates[EventSave] != "Saved %s" {
		t.Fatalf("prefs %+v", p)
	}
	n := New(p)
	n.Enable(EventExport, true)
	got := recorder(n)
	n.Export("out.json")
	if (*got)[0].body != "Done" {
		t.Fatalf("body %q", (*got)[0].body)
	}
}

func TestSendErrorIsLogged(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	calls := 0
	n.SetSender(func(string, string, platform.Options) error {
		calls++
		return errors.New("no bus")
	})
	n.Copy("state", nil)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

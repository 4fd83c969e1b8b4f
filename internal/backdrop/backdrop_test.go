package backdrop

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeImage(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	switch filepath.Ext(name) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDecodesFormats(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 25, 15))
	for _, name := range []string{"frame.png", "frame.jpg"} {
		img, err := Load(writeImage(t, name, src))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 20, 10) {
			t.Fatalf("%s bounds = %v", name, img.Bounds())
		}
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenSpecs(t *testing.T) {
	if img, err := Open(""); err != nil || img != nil {
		t.Fatalf("empty source = %v, %v", img, err)
	}
	img, err := Open("solid:red")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != SolidSize || img.RGBAAt(10, 10) != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("solid = %v %v", img.Bounds(), img.RGBAAt(10, 10))
	}
	if _, err := Open("solid:nope"); err == nil {
		t.Fatal("expected colour error")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestFindMonitor(t *testing.T) {
	mons := []Monitor{
		{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "DP-2", Rect: image.Rect(1920, 0, 4480, 1440), Primary: true},
	}
	cases := []struct {
		sel  string
		want int
	}{
		{"", 0},
		{"primary", 1},
		{"#1", 1},
		{"0", 0},
		{"dp", 1},
	}
	for _, c := range cases {
		m, err := FindMonitor(mons, c.sel)
		if err != nil || m.Index != c.want {
			t.Fatalf("%q = %+v, %v", c.sel, m, err)
		}
	}
	for _, sel := range []string{"5", "vga"} {
		if _, err := FindMonitor(mons, sel); err == nil {
			t.Fatalf("%q: expected error", sel)
		}
	}
	if _, err := FindMonitor(nil, ""); err == nil {
		t.Fatal("expected error for no monitors")
	}
}

func TestCrop(t *testing.T) {
	src := Solid(100, 50, color.White)
	src.SetRGBA(60, 20, color.RGBA{R: 9, A: 255})
	got, err := Crop(src, image.Rect(50, 10, 200, 30))
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 50, 20) || got.RGBAAt(10, 10).R != 9 {
		t.Fatalf("crop = %v %v", got.Bounds(), got.RGBAAt(10, 10))
	}
	if _, err := Crop(src, image.Rect(200, 200, 300, 300)); err == nil {
		t.Fatal("expected error outside image")
	}
}

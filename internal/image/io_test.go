package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestFromStdImage_NRGBA(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	nrgba.Set(3, 3, color.NRGBA{R: 128, G: 64, B: 32, A: 200})

	buf, err := FromStdImage(nrgba)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	if buf.Width() != 10 || buf.Height() != 10 {
		t.Errorf("Dimensions = (%d, %d), want (10, 10)", buf.Width(), buf.Height())
	}

	r, g, b, a := buf.GetRGBA(3, 3)
	if r != 128 || g != 64 || b != 32 || a != 200 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 64, 32, 200)", r, g, b, a)
	}
}

func TestFromStdImage_OffsetBounds(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	nrgba.Set(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	buf, err := FromStdImage(nrgba)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 3 {
		t.Fatalf("Dimensions = (%d, %d), want (4, 3)", buf.Width(), buf.Height())
	}
	if r, g, b, a := buf.GetRGBA(0, 0); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (1, 2, 3, 4)", r, g, b, a)
	}
}

func TestFromStdImage_RGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(5, 5, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	buf, err := FromStdImage(rgba)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}

	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 200 || g != 100 || b != 50 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (200, 100, 50, 255)", r, g, b, a)
	}
}

func TestFromStdImage_Gray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	gray.SetGray(5, 5, color.Gray{Y: 128})

	buf, err := FromStdImage(gray)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}

	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 128 || g != 128 || b != 128 || a != 255 {
		t.Errorf("Pixel = (%d, %d, %d, %d), want (128, 128, 128, 255)", r, g, b, a)
	}
}

func TestFromStdImage_Empty(t *testing.T) {
	if _, err := FromStdImage(image.NewNRGBA(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("FromStdImage(empty) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestToStdImage(t *testing.T) {
	buf, _ := NewImageBuf(10, 10)
	_ = buf.SetRGBA(5, 5, 200, 100, 50, 128)

	c := buf.ToStdImage().NRGBAAt(5, 5)
	if c.R != 200 || c.G != 100 || c.B != 50 || c.A != 128 {
		t.Errorf("Pixel = %v, want {200, 100, 50, 128}", c)
	}
}

func TestEncodePNG_DecodePNG(t *testing.T) {
	original, _ := NewImageBuf(16, 16)
	for y := range 16 {
		for x := range 16 {
			_ = original.SetRGBA(x, y, byte(x*16), byte(y*16), byte(x+y), byte(255-x))
		}
	}

	var buf bytes.Buffer
	if err := original.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	decoded, err := DecodePNG(&buf)
	if err != nil {
		t.Fatalf("DecodePNG() error = %v", err)
	}
	if !bytes.Equal(decoded.Pix(), original.Pix()) {
		t.Error("PNG round trip is not bit-exact")
	}
}

func TestLoadImageFromBytes(t *testing.T) {
	original, _ := NewImageBuf(4, 4)
	original.Fill(1, 2, 3, 255)
	data, err := original.EncodeToBytes()
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}

	loaded, err := LoadImageFromBytes(data)
	if err != nil {
		t.Fatalf("LoadImageFromBytes() error = %v", err)
	}
	if !bytes.Equal(loaded.Pix(), original.Pix()) {
		t.Error("loaded pixels differ from original")
	}
}

func TestLoadImageFromBytes_Empty(t *testing.T) {
	if _, err := LoadImageFromBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("LoadImageFromBytes(nil) error = %v, want ErrEmptyData", err)
	}
}

func TestSavePNG_LoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	original, _ := NewImageBuf(8, 3)
	original.Fill(10, 20, 30, 40)
	if err := original.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if !bytes.Equal(loaded.Pix(), original.Pix()) {
		t.Error("loaded pixels differ from saved")
	}
}

func TestLoadImage_BMP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.bmp")

	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage(bmp) error = %v", err)
	}
	if r, _, _, a := loaded.GetRGBA(1, 1); r != 255 || a != 255 {
		t.Errorf("BMP pixel = (%d, _, _, %d), want (255, _, _, 255)", r, a)
	}
}

func TestLoadImage_Unsupported(t *testing.T) {
	if _, err := LoadImage("notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadImage(txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadPNG_NotFound(t *testing.T) {
	if _, err := LoadPNG(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadPNG(missing) should fail")
	}
}

func TestDecode_InvalidData(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode(garbage) should fail")
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"b.JPG", true},
		{"c.webp", true},
		{"d.tiff", true},
		{"e.bmp", true},
		{"f.mtpf", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsImageFile(tt.path); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// Ensure PNG encoding of a non-opaque pixel keeps straight alpha.
func TestEncodePNG_StraightAlpha(t *testing.T) {
	buf, _ := NewImageBuf(1, 1)
	_ = buf.SetRGBA(0, 0, 255, 0, 0, 1)

	var out bytes.Buffer
	if err := buf.EncodePNG(&out); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
	if c := nrgba.NRGBAAt(0, 0); c.R != 255 || c.A != 1 {
		t.Errorf("pixel = %v, want {255 0 0 1}", c)
	}
}

package docsec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestImageWatermarkChangesPixels(t *testing.T) {
	src := testPNG(t, 200, 100)

	out, err := AddWatermarkToImage(src, "CONFIDENTIAL", PositionCenter)
	if err != nil {
		t.Fatalf("AddWatermarkToImage: %v", err)
	}
	if bytes.Equal(out, src) {
		t.Fatal("output must differ from input")
	}

	decoded, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("format must be preserved, got %s", format)
	}
	if decoded.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Fatalf("dimensions must be preserved, got %v", decoded.Bounds())
	}
}

func TestImageWatermarkValidatesInput(t *testing.T) {
	src := testPNG(t, 50, 50)
	if _, err := AddWatermarkToImage(src, "", PositionCenter); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty text, got %v", err)
	}
	if _, err := AddWatermarkToImage(src, "X", WatermarkPosition("middle")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
	if _, err := AddWatermarkToImage([]byte("not an image"), "X", PositionCenter); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPDFWatermarkValidatesInput(t *testing.T) {
	if _, err := AddWatermarkToPDF([]byte("%PDF-1.4"), "", PositionCenter); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty text, got %v", err)
	}
	if _, err := AddWatermarkToPDF([]byte("%PDF-1.4"), "X", WatermarkPosition("middle")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

func TestAnchorPointStaysInsideBounds(t *testing.T) {
	bounds := image.Rect(0, 0, 400, 300)
	for _, pos := range []WatermarkPosition{PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight, PositionCenter} {
		x, y := anchorPoint(bounds, 80, 13, pos)
		if x < bounds.Min.X || x > bounds.Max.X || y < bounds.Min.Y || y > bounds.Max.Y {
			t.Fatalf("position %s: point (%d,%d) outside %v", pos, x, y, bounds)
		}
	}
}

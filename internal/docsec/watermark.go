package docsec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// pdfAnchors maps named positions to pdfcpu anchor codes.
var pdfAnchors = map[WatermarkPosition]string{
	PositionTopLeft:     "tl",
	PositionTopRight:    "tr",
	PositionBottomLeft:  "bl",
	PositionBottomRight: "br",
	PositionCenter:      "c",
}

// AddWatermarkToPDF overlays a semi-transparent text watermark on every page.
// Pure transform: the input buffer is left untouched.
func AddWatermarkToPDF(content []byte, text string, position WatermarkPosition) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: watermark text is required", ErrInvalidInput)
	}
	anchor, ok := pdfAnchors[position]
	if !ok {
		return nil, fmt.Errorf("%w: unknown watermark position %q", ErrInvalidInput, position)
	}
	desc := fmt.Sprintf("pos:%s, scale:0.5 rel, op:0.3, rot:0", anchor)
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("docsec: build watermark: %w", err)
	}
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(content), &out, nil, wm, nil); err != nil {
		return nil, fmt.Errorf("docsec: apply watermark: %w", err)
	}
	return out.Bytes(), nil
}

// AddWatermarkToImage overlays semi-transparent text on a PNG or JPEG.
// The output keeps the input format.
func AddWatermarkToImage(content []byte, text string, position WatermarkPosition) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: watermark text is required", ErrInvalidInput)
	}
	if _, ok := pdfAnchors[position]; !ok {
		return nil, fmt.Errorf("%w: unknown watermark position %q", ErrInvalidInput, position)
	}
	src, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("docsec: decode image: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	x, y := anchorPoint(bounds, textWidth, textHeight, position)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 96, G: 96, B: 96, A: 128}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, canvas, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(&out, canvas)
	}
	if err != nil {
		return nil, fmt.Errorf("docsec: encode image: %w", err)
	}
	return out.Bytes(), nil
}

const watermarkMargin = 16

// anchorPoint returns the baseline origin for the text at a named position.
func anchorPoint(bounds image.Rectangle, textWidth, textHeight int, position WatermarkPosition) (int, int) {
	switch position {
	case PositionTopLeft:
		return bounds.Min.X + watermarkMargin, bounds.Min.Y + watermarkMargin + textHeight
	case PositionTopRight:
		return bounds.Max.X - watermarkMargin - textWidth, bounds.Min.Y + watermarkMargin + textHeight
	case PositionBottomLeft:
		return bounds.Min.X + watermarkMargin, bounds.Max.Y - watermarkMargin
	case PositionBottomRight:
		return bounds.Max.X - watermarkMargin - textWidth, bounds.Max.Y - watermarkMargin
	default: // center
		return bounds.Min.X + (bounds.Dx()-textWidth)/2, bounds.Min.Y + (bounds.Dy()+textHeight)/2
	}
}

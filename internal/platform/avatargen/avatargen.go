// Package avatargen renders the default initials avatars assigned at
// registration and normalizes user-uploaded avatar images.
package avatargen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const Size = 512

// defaultPalette are the background colors initials avatars cycle
// through. Kept deliberately muted so white initials stay readable.
var defaultPalette = []color.NRGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF},
}

type Generator struct {
	palette  []color.NRGBA
	fontFace font.Face
}

// New builds a generator. When AVATAR_FONT names a TTF file it is used at
// display size; otherwise the package falls back to the built-in bitmap
// face, which keeps local development working without font assets.
func New() (*Generator, error) {
	face := font.Face(basicfont.Face7x13)
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		loaded, err := loadFontFace(fontPath, 206)
		if err != nil {
			return nil, err
		}
		face = loaded
	}
	return &Generator{
		palette:  defaultPalette,
		fontFace: face,
	}, nil
}

// Initials derives the one- or two-letter monogram from a display name.
func Initials(displayName string) string {
	parts := strings.Fields(strings.TrimSpace(displayName))
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(parts[0][:1])
	default:
		return strings.ToUpper(parts[0][:1]) + strings.ToUpper(parts[len(parts)-1][:1])
	}
}

// Render draws a circular initials avatar for the display name. The
// background color is picked deterministically from the name so a user's
// avatar is stable across regenerations.
func (g *Generator) Render(displayName string) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(Size, Size)
	dc.DrawCircle(float64(Size)/2, float64(Size)/2, float64(Size)/2)
	dc.Clip()

	dc.SetColor(g.pickColor(displayName))
	dc.DrawRectangle(0, 0, float64(Size), float64(Size))
	dc.Fill()

	initials := Initials(displayName)
	dc.SetFontFace(g.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(Size)/2, float64(Size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2))

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (g *Generator) pickColor(displayName string) color.NRGBA {
	if len(g.palette) == 0 {
		return defaultPalette[rand.Intn(len(defaultPalette))]
	}
	var sum int
	for _, r := range displayName {
		sum += int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return g.palette[sum%len(g.palette)]
}

// ProcessUpload center-crops an uploaded image to a square, resizes it to
// the display size and clips it to a circle.
func ProcessUpload(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

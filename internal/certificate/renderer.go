package certificate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Renderer turns a completion record into certificate bytes.
type Renderer interface {
	Render(studentName, courseTitle string, issuedAt time.Time) ([]byte, error)
}

const (
	canvasWidth  = 1200
	canvasHeight = 850
	borderInset  = 40
)

// PNGRenderer draws a simple certificate with the stdlib image pipeline
// and the x/image bitmap font.
type PNGRenderer struct{}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

func (r *PNGRenderer) Render(studentName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))

	background := color.RGBA{R: 248, G: 246, B: 240, A: 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	borderColor := color.RGBA{R: 30, G: 64, B: 120, A: 255}
	drawBorder(img, borderInset, 4, borderColor)

	ink := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	accent := color.RGBA{R: 30, G: 64, B: 120, A: 255}

	drawCentered(img, "CERTIFICATE OF COMPLETION", 220, accent)
	drawCentered(img, "This certifies that", 320, ink)
	drawCentered(img, studentName, 380, accent)
	drawCentered(img, "has successfully completed the course", 440, ink)
	drawCentered(img, courseTitle, 500, accent)
	drawCentered(img, fmt.Sprintf("Issued on %s", issuedAt.Format("2 January 2006")), 620, ink)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBorder(img *image.RGBA, inset, thickness int, c color.Color) {
	b := img.Bounds()
	uniform := image.NewUniform(c)
	// top, bottom, left, right bands
	draw.Draw(img, image.Rect(inset, inset, b.Max.X-inset, inset+thickness), uniform, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(inset, b.Max.Y-inset-thickness, b.Max.X-inset, b.Max.Y-inset), uniform, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(inset, inset, inset+thickness, b.Max.Y-inset), uniform, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(b.Max.X-inset-thickness, inset, b.Max.X-inset, b.Max.Y-inset), uniform, image.Point{}, draw.Src)
}

func drawCentered(img *image.RGBA, text string, y int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := (img.Bounds().Dx() - width) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"moodboard/internal/board/export"
	"moodboard/internal/board/models"
)

// ============================================================
// PNG Rasterizer
// ============================================================

// ImageLoader decodes an item's image reference.
type ImageLoader interface {
	Open(ref string) (image.Image, error)
}

const (
	placeholderColor = "#e8e4de"
	textPadding      = 8.0
)

// PNGRasterizer draws a surface with gg. It implements export.Rasterizer.
type PNGRasterizer struct {
	images ImageLoader
	fonts  map[string]*truetype.Font
}

func NewPNGRasterizer(images ImageLoader) (*PNGRasterizer, error) {
	sources := map[string][]byte{
		"regular": goregular.TTF,
		"bold":    gobold.TTF,
		"italic":  goitalic.TTF,
		"mono":    gomono.TTF,
	}

	fonts := make(map[string]*truetype.Font, len(sources))
	for name, data := range sources {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", name, err)
		}
		fonts[name] = f
	}
	return &PNGRasterizer{images: images, fonts: fonts}, nil
}

var _ export.Rasterizer = (*PNGRasterizer)(nil)

func (r *PNGRasterizer) Rasterize(ctx context.Context, surface export.Surface, opts export.Options) ([]byte, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	width, height := surfaceSize(surface)

	dc := gg.NewContext(int(math.Ceil(width*scale)), int(math.Ceil(height*scale)))
	dc.SetHexColor(backgroundOrDefault(opts.Background))
	dc.Clear()

	for _, it := range surface.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch it.Type {
		case models.ItemImage:
			r.drawImage(dc, it, scale)
		case models.ItemText:
			r.drawText(dc, it, scale)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawImage fills the item's rounded box with the image, cropped to cover.
func (r *PNGRasterizer) drawImage(dc *gg.Context, it models.BoardItem, scale float64) {
	x, y := it.X*scale, it.Y*scale
	w, h := it.Width*scale, it.Height*scale

	dc.Push()
	defer dc.Pop()
	defer dc.ResetClip()

	dc.DrawRoundedRectangle(x, y, w, h, clampRadius(it)*scale)
	dc.Clip()

	img, err := r.load(it.ImageRef)
	if err != nil {
		log.Warnf("[EXPORT] image %s: %v", it.ID, err)
		dc.SetHexColor(placeholderColor)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		return
	}

	b := img.Bounds()
	fit := math.Max(w/float64(b.Dx()), h/float64(b.Dy()))
	dc.Translate(x+(w-float64(b.Dx())*fit)/2, y+(h-float64(b.Dy())*fit)/2)
	dc.Scale(fit, fit)
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
}

func (r *PNGRasterizer) drawText(dc *gg.Context, it models.BoardItem, scale float64) {
	x, y := it.X*scale, it.Y*scale
	w, h := it.Width*scale, it.Height*scale

	fontSize := it.FontSize
	if fontSize <= 0 {
		fontSize = models.DefaultFontSize
	}
	color := it.TextColor
	if !models.IsHexColor(color) {
		color = models.DarkTextColor
	}

	dc.Push()
	defer dc.Pop()
	defer dc.ResetClip()

	dc.DrawRoundedRectangle(x, y, w, h, clampRadius(it)*scale)
	dc.Clip()

	dc.SetFontFace(r.face(it.FontFamily, fontSize*scale))
	dc.SetHexColor(color)
	dc.DrawStringWrapped(it.Text, x+w/2, y+h/2, 0.5, 0.5, math.Max(w-2*textPadding*scale, 1), lineSpacing, gg.AlignCenter)
}

func (r *PNGRasterizer) load(ref string) (image.Image, error) {
	if r.images == nil {
		return nil, fmt.Errorf("no image loader")
	}
	img, err := r.images.Open(ref)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}

// face picks the closest bundled font for a CSS font-family string.
func (r *PNGRasterizer) face(family string, size float64) font.Face {
	name := "regular"
	family = strings.ToLower(family)
	switch {
	case strings.Contains(family, "mono"), strings.Contains(family, "courier"), strings.Contains(family, "code"):
		name = "mono"
	case strings.Contains(family, "italic"), strings.Contains(family, "script"), strings.Contains(family, "cursive"):
		name = "italic"
	case strings.Contains(family, "bold"), strings.Contains(family, "black"), strings.Contains(family, "display"):
		name = "bold"
	}
	return truetype.NewFace(r.fonts[name], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

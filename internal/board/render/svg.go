package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"moodboard/internal/board/export"
	"moodboard/internal/board/models"
)

// ============================================================
// SVG Renderer
// ============================================================

type SVGRenderer struct{}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{}
}

// Render draws the surface as SVG, back-to-front in list order.
func (r *SVGRenderer) Render(surface export.Surface, background string) string {
	width, height := surfaceSize(surface)

	var elements []string
	for _, it := range surface.Items {
		switch it.Type {
		case models.ItemImage:
			elements = append(elements, r.renderImage(it)...)
		case models.ItemText:
			elements = append(elements, r.renderText(it)...)
		}
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" />`, attr(backgroundOrDefault(background))))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Element renderers
// ============================================================

func (r *SVGRenderer) renderImage(it models.BoardItem) []string {
	radius := clampRadius(it)
	clipID := "clip-" + it.ID

	return []string{
		fmt.Sprintf(`<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s" rx="%s" /></clipPath>`,
			attr(clipID), formatFloat(it.X), formatFloat(it.Y), formatFloat(it.Width), formatFloat(it.Height), formatFloat(radius)),
		fmt.Sprintf(`<image id="%s" href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" clip-path="url(#%s)" />`,
			attr(it.ID), attr(it.ImageRef), formatFloat(it.X), formatFloat(it.Y), formatFloat(it.Width), formatFloat(it.Height), attr(clipID)),
	}
}

func (r *SVGRenderer) renderText(it models.BoardItem) []string {
	fontSize := it.FontSize
	if fontSize <= 0 {
		fontSize = models.DefaultFontSize
	}
	color := it.TextColor
	if color == "" {
		color = models.DarkTextColor
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf(`<text id="%s" x="%s" y="%s" fill="%s" font-size="%s" font-family="%s" text-anchor="middle">`,
		attr(it.ID), formatFloat(it.X+it.Width/2), formatFloat(it.Y), attr(color), formatFloat(fontSize), attr(it.FontFamily)))

	lines := strings.Split(it.Text, "\n")
	lineHeight := fontSize * lineSpacing
	top := it.Y + (it.Height-lineHeight*float64(len(lines)))/2 + fontSize
	for i, line := range lines {
		text.WriteString(fmt.Sprintf(`<tspan x="%s" y="%s">%s</tspan>`,
			formatFloat(it.X+it.Width/2), formatFloat(top+float64(i)*lineHeight), html.EscapeString(line)))
	}
	text.WriteString(`</text>`)

	return []string{text.String()}
}

// ============================================================
// Geometry helpers
// ============================================================

const (
	defaultWidth  = 1200.0
	defaultHeight = 800.0
	lineSpacing   = 1.25
)

// surfaceSize uses the viewport when set, otherwise the items' extent.
func surfaceSize(surface export.Surface) (float64, float64) {
	if surface.Width > 0 && surface.Height > 0 {
		return surface.Width, surface.Height
	}

	maxX, maxY := 0.0, 0.0
	for _, it := range surface.Items {
		maxX = math.Max(maxX, it.X+it.Width)
		maxY = math.Max(maxY, it.Y+it.Height)
	}
	if maxX <= 0 {
		maxX = defaultWidth
	}
	if maxY <= 0 {
		maxY = defaultHeight
	}
	return maxX, maxY
}

func clampRadius(it models.BoardItem) float64 {
	return clamp(it.BorderRadius, 0, math.Min(it.Width, it.Height)/2)
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func backgroundOrDefault(background string) string {
	if models.IsHexColor(background) {
		return background
	}
	return models.DefaultBackground
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func attr(s string) string {
	return html.EscapeString(s)
}

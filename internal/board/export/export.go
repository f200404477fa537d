// Package export hands the board's visual surface to a rasterizer and turns
// the result into a downloadable file. The rasterizer is an outside
// collaborator; its failures end the export quietly instead of reaching the
// user.
package export

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"moodboard/internal/board/models"
)

// Surface is the visual root being exported: items back-to-front inside a
// Width x Height viewport.
type Surface struct {
	Items  []models.BoardItem
	Width  float64
	Height float64
}

type Options struct {
	Background string
	Scale      float64
}

// Rasterizer renders a surface to an encoded image.
type Rasterizer interface {
	Rasterize(ctx context.Context, surface Surface, opts Options) ([]byte, error)
}

// RasterizerFunc adapts a plain function to Rasterizer.
type RasterizerFunc func(ctx context.Context, surface Surface, opts Options) ([]byte, error)

func (f RasterizerFunc) Rasterize(ctx context.Context, surface Surface, opts Options) ([]byte, error) {
	return f(ctx, surface, opts)
}

type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ============================================================
// Exporter
// ============================================================

type Exporter struct {
	rasterizer Rasterizer
	artifact   string
	scale      float64
	now        func() time.Time
}

type Option func(*Exporter)

func WithArtifact(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.artifact = name
		}
	}
}

func WithScale(scale float64) Option {
	return func(e *Exporter) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

func NewExporter(r Rasterizer, opts ...Option) *Exporter {
	e := &Exporter{
		rasterizer: r,
		artifact:   "moodboard",
		scale:      2,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename is the download name for an export made at t.
func (e *Exporter) Filename(t time.Time) string {
	return fmt.Sprintf("%s-%s.png", e.artifact, t.Format(time.DateOnly))
}

// Export rasterizes surface. It reports false, after logging, when the
// rasterizer fails, panics or returns nothing; no partial download is
// produced.
func (e *Exporter) Export(ctx context.Context, surface Surface, background string) (dl Download, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[EXPORT] rasterizer panicked: %v", r)
			dl, ok = Download{}, false
		}
	}()

	data, err := e.rasterizer.Rasterize(ctx, surface, Options{Background: background, Scale: e.scale})
	if err != nil {
		log.Errorf("[EXPORT] rasterize failed: %v", err)
		return Download{}, false
	}
	if len(data) == 0 {
		log.Errorf("[EXPORT] rasterizer returned no data")
		return Download{}, false
	}

	dl = Download{
		Filename:    e.Filename(e.now()),
		ContentType: "image/png",
		Data:        data,
	}
	log.Infof("[EXPORT] %s (%d bytes, %d items)", dl.Filename, len(data), len(surface.Items))
	return dl, true
}

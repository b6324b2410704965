package render

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// dpi used for raster output. Chart sizes are given in pixels at this density.
const dpi = 96

// Formats accepted by Save and WriteTo.
var formats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
	"svg": true, "pdf": true, "eps": true,
}

// Renderer draws trails with a fixed chart configuration and a palette that
// persists across frames.
type Renderer struct {
	cfg     types.ChartConfig
	palette *Palette
}

// New returns a renderer using the default palette.
func New(cfg types.ChartConfig) *Renderer {
	return NewWithPalette(cfg, NewPalette())
}

// NewWithPalette returns a renderer using p for robot colors.
func NewWithPalette(cfg types.ChartConfig, p *Palette) *Renderer {
	return &Renderer{cfg: cfg, palette: p}
}

// Palette returns the renderer's palette.
func (r *Renderer) Palette() *Palette {
	return r.palette
}

// Chart builds the chart model for trails. Series follow the order of trails,
// which the trail store keeps in first-seen order.
func (r *Renderer) Chart(trails []types.Trail) Chart {
	c := Chart{
		Title:  r.cfg.Title,
		XLabel: r.cfg.XLabel,
		YLabel: r.cfg.YLabel,
		Series: make([]Series, 0, len(trails)),
	}
	for _, t := range trails {
		c.Series = append(c.Series, Series{
			RobotID: t.RobotID,
			Label:   SeriesLabel(t.RobotID),
			Color:   r.palette.Color(t.RobotID),
			Points:  toXYs(t.Points),
		})
	}
	return c
}

// Plot draws the chart model into a gonum plot.
func (r *Renderer) Plot(c Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	p.Add(plotter.NewGrid())

	for _, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(s.Points)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Label, err)
		}
		line.LineStyle.Color = s.Color
		line.LineStyle.Width = vg.Points(1.5)
		points.GlyphStyle.Color = s.Color
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2.5)

		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}
	return p, nil
}

// Image renders trails to a raster image of the configured pixel size.
func (r *Renderer) Image(trails []types.Trail) (image.Image, error) {
	p, err := r.Plot(r.Chart(trails))
	if err != nil {
		return nil, err
	}
	w, h := r.size()
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// Save renders trails to path. The format follows the file extension.
func (r *Renderer) Save(trails []types.Trail, path string) error {
	if _, err := FormatOf(path); err != nil {
		return err
	}
	p, err := r.Plot(r.Chart(trails))
	if err != nil {
		return err
	}
	w, h := r.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving chart to %s: %w", path, err)
	}
	return nil
}

// WriteTo renders trails in the given format ("png", "svg", ...) to w.
func (r *Renderer) WriteTo(w io.Writer, trails []types.Trail, format string) error {
	format = strings.ToLower(format)
	if !formats[format] {
		return fmt.Errorf("%w: %q", types.ErrUnknownFormat, format)
	}
	p, err := r.Plot(r.Chart(trails))
	if err != nil {
		return err
	}
	width, height := r.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("preparing %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// FormatOf returns the image format implied by the extension of path.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !formats[ext] {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownFormat, filepath.Ext(path))
	}
	return ext, nil
}

func (r *Renderer) size() (vg.Length, vg.Length) {
	return vg.Length(r.cfg.Width) * vg.Inch / dpi, vg.Length(r.cfg.Height) * vg.Inch / dpi
}

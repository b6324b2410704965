// Package window shows the live chart in a desktop window.
package window

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mesh-intelligence/trailplot/internal/display"
)

// Window is a display.Sink backed by an ebiten window. Frames are handed
// over through a display.Latest and uploaded to the GPU on the next draw.
type Window struct {
	display.Latest

	title  string
	width  int
	height int
}

// New returns a window of the given size in pixels. Nothing is shown until
// Run is called.
func New(title string, width, height int) *Window {
	return &Window{title: title, width: width, height: height}
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)

	err := ebiten.RunGame(&game{ctx: ctx, w: w})
	if err == ebiten.Termination {
		return nil
	}
	return err
}

type game struct {
	ctx   context.Context
	w     *Window
	img   *ebiten.Image
	shown uint64
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, gen := g.w.Frame()
	if frame == nil {
		return
	}
	if gen != g.shown {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImageFromImage(frame)
		g.shown = gen
	}

	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := g.img.Bounds().Dx(), g.img.Bounds().Dy()
	if fw != sw || fh != sh {
		op.GeoM.Scale(float64(sw)/float64(fw), float64(sh)/float64(fh))
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(g.img, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.width, g.w.height
}

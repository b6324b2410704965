package display

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

type countingSink struct {
	shown  int
	err    error
	closed bool
}

func (c *countingSink) Show(image.Image) error {
	c.shown++
	return c.err
}

func (c *countingSink) Close() error {
	c.closed = true
	return nil
}

func TestTee(t *testing.T) {
	boom := errors.New("boom")
	a := &countingSink{err: boom}
	b := &countingSink{}
	tee := Tee{a, b, &Latest{}}

	err := tee.Show(solid(2, 2, color.White))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, a.shown)
	assert.Equal(t, 1, b.shown, "later sinks still receive the frame")

	require.NoError(t, tee.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestLatest(t *testing.T) {
	var l Latest

	frame, gen := l.Frame()
	assert.Nil(t, frame)
	assert.Zero(t, gen)

	first := solid(1, 1, color.Black)
	second := solid(1, 1, color.White)
	require.NoError(t, l.Show(first))
	require.NoError(t, l.Show(second))

	frame, gen = l.Frame()
	assert.Equal(t, second, frame)
	assert.Equal(t, uint64(2), gen)
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.png")
	sink := NewFileSink(path)
	assert.Equal(t, path, sink.Path())

	require.NoError(t, sink.Show(solid(4, 3, color.Black)))
	require.NoError(t, sink.Show(solid(8, 6, color.White)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileSink_MissingDirectory(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "missing", "live.png"))
	assert.Error(t, sink.Show(solid(1, 1, color.Black)))
}

func TestGIFRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.gif")
	rec := NewGIFRecorder(path, 2, 500*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, rec.Show(solid(5, 5, color.White)))
	}
	kept, dropped := rec.Frames()
	assert.Equal(t, 2, kept)
	assert.Equal(t, 1, dropped)

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2)
	assert.Equal(t, []int{50, 50}, anim.Delay)
}

func TestGIFRecorder_NoFramesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gif")
	rec := NewGIFRecorder(path, 10, time.Second)
	require.NoError(t, rec.Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

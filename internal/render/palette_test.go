package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalette_FirstSeenOrder(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	p := NewPalette(red, green)

	assert.Equal(t, red, p.Color(42))
	assert.Equal(t, green, p.Color(7))
	assert.Equal(t, red, p.Color(3), "palette cycles when exhausted")
	assert.Equal(t, 3, p.Len())
}

func TestPalette_ColorsAreStable(t *testing.T) {
	p := NewPalette()

	first := map[int]color.Color{}
	for _, id := range []int{1, 2, 3} {
		first[id] = p.Color(id)
	}
	p.Color(4)
	p.Color(5)

	for id, c := range first {
		assert.Equal(t, c, p.Color(id), "robot %d changed color", id)
	}
	assert.NotEqual(t, p.Color(1), p.Color(2))
}

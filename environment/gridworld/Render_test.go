package gridworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRenderImageBounds(t *testing.T) {
	cells := [][]CellType{
		{Free, Free, Terminal},
		{Free, Blocked, Free},
	}
	rewards := mat.NewDense(2, 3, []float64{0, 0, 1, 0, 0, 0})
	grid, err := New(cells, rewards)
	require.NoError(t, err)

	q := NewQTable(2, 3)
	q.Set(0, 1, Right, 0.5)
	q.Set(1, 0, Up, -0.5)

	img := grid.Render(q)
	bounds := img.Bounds()
	assert.Equal(t, 3*int(cellSize)+1, bounds.Dx())
	assert.Equal(t, 2*int(cellSize)+1, bounds.Dy())

	img = grid.RenderPolicy(q, true)
	bounds = img.Bounds()
	assert.Equal(t, 3*int(cellSize)+1, bounds.Dx())
	assert.Equal(t, 2*int(cellSize)+1, bounds.Dy())
}

func TestRenderOutOfRangeValuesSaturate(t *testing.T) {
	grid, err := New([][]CellType{{Free}}, mat.NewDense(1, 1, nil))
	require.NoError(t, err)

	// The solver does not clip, so the renderer must tolerate values
	// outside [-1, 1]
	q, err := NewQTableFrom(1, 1, []float64{3, -3, 0.5, -0.5})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		grid.Render(q)
		grid.RenderPolicy(q, true)
	})
}

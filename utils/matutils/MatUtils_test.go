package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestColMean(t *testing.T) {
	matrix := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		3, 4, 5,
	})

	means := ColMean(matrix)
	assert.Equal(t, 3, means.Len())
	assert.Equal(t, 2.0, means.AtVec(0))
	assert.Equal(t, 3.0, means.AtVec(1))
	assert.Equal(t, 4.0, means.AtVec(2))
}

func TestRowMean(t *testing.T) {
	matrix := mat.NewDense(2, 2, []float64{
		1, 3,
		2, 6,
	})

	means := RowMean(matrix)
	assert.Equal(t, 2.0, means.AtVec(0))
	assert.Equal(t, 4.0, means.AtVec(1))
}

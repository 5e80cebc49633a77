// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// RowMean compute and returns the mean of the rows of a matrix
func RowMean(matrix *mat.Dense) *mat.VecDense {
	r, _ := matrix.Dims()
	rowMeans := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMeans[i] = stat.Mean(matrix.RawRowView(i), nil)
	}
	return mat.NewVecDense(r, rowMeans)
}

// ColMean computes and returns the mean of the columns of a matrix
func ColMean(matrix *mat.Dense) *mat.VecDense {
	r, c := matrix.Dims()
	colMeans := make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, matrix)
		colMeans[j] = stat.Mean(col, nil)
	}
	return mat.NewVecDense(c, colMeans)
}

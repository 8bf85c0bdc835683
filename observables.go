/*
 * observables.go, part of godem.
 *
 *
 * Copyright 2025 The godem developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public
 * License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package odem

import (
	"fmt"

	"github.com/arrow50311/godem/histo"
	"gonum.org/v1/gonum/mat"
)

// FRETEfficiency returns the transfer efficiency of a dye pair separated by
// r, for the Förster radius r0 (both nm).
func FRETEfficiency(r, r0 float64) float64 {
	x := r / r0
	x2 := x * x
	return 1 / (1 + x2*x2*x2)
}

// FRETEfficiencies returns the per-frame transfer efficiencies for the
// col-th distance column of dists, for the Förster radius r0 (nm).
func FRETEfficiencies(dists *mat.Dense, col int, r0 float64) ([]float64, error) {
	if dists == nil {
		return nil, CError{"nil distance data", []string{"FRETEfficiencies"}}
	}
	if r0 <= 0 {
		return nil, CError{fmt.Sprintf("Förster radius must be positive, got %4.2f", r0), []string{"FRETEfficiencies"}}
	}
	rows, cols := dists.Dims()
	if col < 0 || col >= cols {
		return nil, CError{fmt.Sprintf("Distance column %d out of range (%d)", col, cols), []string{"FRETEfficiencies"}}
	}
	ret := make([]float64, rows)
	for i := 0; i < rows; i++ {
		ret[i] = FRETEfficiency(dists.At(i, col), r0)
	}
	return ret, nil
}

// HistogramWeight turns an empirical distribution into a weight function
// for a QValue: the weight of an observed value is the frequency of the bin
// it falls in, and 0 outside the distribution. The histogram gets
// normalized if it wasn't.
func HistogramWeight(d *histo.Data) func(float64) float64 {
	if !d.Normalized() {
		d.Normalize()
	}
	return d.Value
}

// DistanceHistograms bins each column of data into its own histogram with
// the given bin edges (nm). The histograms come back in a 1-row matrix, one
// column per distance, with the column number as ID.
func DistanceHistograms(data *mat.Dense, dividers []float64) (*histo.Matrix, error) {
	if data == nil {
		return nil, CError{"nil distance data", []string{"DistanceHistograms"}}
	}
	if len(dividers) < 2 {
		return nil, CError{fmt.Sprintf("At least 2 bin edges are needed, got %d", len(dividers)), []string{"DistanceHistograms"}}
	}
	_, cols := data.Dims()
	M := histo.NewMatrix(1, cols, dividers)
	for j := 0; j < cols; j++ {
		M.NewHisto(0, j, nil, mat.Col(nil, j, data), j)
	}
	return M, nil
}

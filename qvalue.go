/*
 * qvalue.go, part of godem.
 *
 *
 * Copyright 2024 The godem developers
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

	"gonum.org/v1/gonum/mat"
)

// QValue combines the per-observable weight functions of an experimental
// dataset into a single quality factor. Each registered function maps one
// observed value to the likelihood-like weight of that observation; the
// combined weight of a configuration is the product of all functions,
// each evaluated on its own observable.
type QValue struct {
	funcs []func(float64) float64
}

// NewQValue returns an accumulator over the given weight functions, in
// order, which can be none. With no functions registered, Q returns 1.0
// for an empty observation.
func NewQValue(funcs ...func(float64) float64) *QValue {
	Q := &QValue{funcs: make([]func(float64) float64, 0, 2)}
	Q.funcs = append(Q.funcs, funcs...)
	return Q
}

// AddFunction registers one weight function. Functions are evaluated in
// the order they were added.
func (Q *QValue) AddFunction(f func(float64) float64) {
	Q.funcs = append(Q.funcs, f)
}

// NFunctions returns the number of registered weight functions.
func (Q *QValue) NFunctions() int {
	return len(Q.funcs)
}

// Q returns the product of every registered function evaluated on the
// corresponding element of observed. It fails if the number of observed
// values does not match the number of functions.
func (Q *QValue) Q(observed []float64) (float64, error) {
	if len(observed) != len(Q.funcs) {
		return 0, CError{fmt.Sprintf("Number of observed values (%d) does not match the number of weight functions (%d)", len(observed), len(Q.funcs)), []string{"Q"}}
	}
	q := 1.0
	for i, f := range Q.funcs {
		q *= f(observed[i])
	}
	return q, nil
}

// FrameQ evaluates Q on every row of observed, one observable per
// column, and returns the per-frame weights. It fails if the number of
// columns does not match the number of registered functions.
func (Q *QValue) FrameQ(observed *mat.Dense) ([]float64, error) {
	if observed == nil {
		return nil, CError{"nil observations matrix", []string{"FrameQ"}}
	}
	rows, cols := observed.Dims()
	if cols != len(Q.funcs) {
		return nil, CError{fmt.Sprintf("Number of observable columns (%d) does not match the number of weight functions (%d)", cols, len(Q.funcs)), []string{"FrameQ"}}
	}
	qs := make([]float64, rows)
	for i := 0; i < rows; i++ {
		q, err := Q.Q(observed.RawRowView(i))
		if err != nil {
			return nil, errDecorate(err, "FrameQ")
		}
		qs[i] = q
	}
	return qs, nil
}

/*
 * pairs.go, part of godem
 *
 * Copyright 2025 The godem developers
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package cgmodel

import (
	"fmt"
	"math"
)

// LJ1210 is the 12-10 contact potential of structure-based protein models,
// eps*(5*(r0/r)^12-6*(r0/r)^10). Its minimum, -eps, sits at r0.
type LJ1210 struct {
	R0 float64
}

// NewLJ1210 returns a 12-10 contact with its minimum at r0 (nm).
func NewLJ1210(r0 float64) (*LJ1210, error) {
	if r0 <= 0 {
		return nil, fmt.Errorf("cgmodel: contact distance must be positive, got %4.2f", r0)
	}
	return &LJ1210{R0: r0}, nil
}

// V returns the potential at each of the given distances (nm) for the well
// depth eps (kJ/mol).
func (L *LJ1210) V(eps float64, r []float64) []float64 {
	ret := make([]float64, len(r))
	for i, v := range r {
		sr2 := (L.R0 / v) * (L.R0 / v)
		sr10 := sr2 * sr2 * sr2 * sr2 * sr2
		ret[i] = eps * (5*sr10*sr2 - 6*sr10)
	}
	return ret
}

// DVDEps returns the derivative of the potential with respect to the well
// depth, at each of the given distances. The potential is linear in eps, so
// the derivative doesn't depend on its current value.
func (L *LJ1210) DVDEps(eps float64, r []float64) []float64 {
	return L.V(1, r)
}

// LinearInEps reports whether the potential is a linear function of its parameter.
func (L *LJ1210) LinearInEps() bool { return true }

// LJ126 is the regular 12-6 Lennard-Jones potential written in terms of its
// minimum: eps*((r0/r)^12-2*(r0/r)^6).
type LJ126 struct {
	R0 float64
}

// NewLJ126 returns a 12-6 Lennard-Jones potential with its minimum at r0 (nm).
func NewLJ126(r0 float64) (*LJ126, error) {
	if r0 <= 0 {
		return nil, fmt.Errorf("cgmodel: contact distance must be positive, got %4.2f", r0)
	}
	return &LJ126{R0: r0}, nil
}

// V returns the potential at each of the given distances (nm) for the well
// depth eps (kJ/mol).
func (L *LJ126) V(eps float64, r []float64) []float64 {
	ret := make([]float64, len(r))
	for i, v := range r {
		sr2 := (L.R0 / v) * (L.R0 / v)
		sr6 := sr2 * sr2 * sr2
		ret[i] = eps * (sr6*sr6 - 2*sr6)
	}
	return ret
}

// DVDEps returns the derivative of the potential with respect to the well depth.
func (L *LJ126) DVDEps(eps float64, r []float64) []float64 {
	return L.V(1, r)
}

// LinearInEps reports whether the potential is a linear function of its parameter.
func (L *LJ126) LinearInEps() bool { return true }

// Gaussian is an attractive Gaussian well, -eps*exp(-(r-r0)^2/(2w^2)),
// centered at r0 with width w.
type Gaussian struct {
	R0, W float64
}

// NewGaussian returns a Gaussian well centered at r0 with width w (both nm).
func NewGaussian(r0, w float64) (*Gaussian, error) {
	if r0 <= 0 || w <= 0 {
		return nil, fmt.Errorf("cgmodel: Gaussian wells need a positive center and width, got %4.2f and %4.2f", r0, w)
	}
	return &Gaussian{R0: r0, W: w}, nil
}

// V returns the potential at each of the given distances (nm) for the well
// depth eps (kJ/mol).
func (G *Gaussian) V(eps float64, r []float64) []float64 {
	ret := make([]float64, len(r))
	for i, v := range r {
		d := v - G.R0
		ret[i] = -eps * math.Exp(-d*d/(2*G.W*G.W))
	}
	return ret
}

// DVDEps returns the derivative of the potential with respect to the well depth.
func (G *Gaussian) DVDEps(eps float64, r []float64) []float64 {
	return G.V(1, r)
}

// LinearInEps reports whether the potential is a linear function of its parameter.
func (G *Gaussian) LinearInEps() bool { return true }

// ExpGauss is a Gaussian well whose depth saturates with the parameter,
// -(1-exp(-eps))*exp(-(r-r0)^2/(2w^2)). The saturation keeps the depth
// bounded no matter how far a fit pushes eps, at the cost of making the
// potential nonlinear in it.
type ExpGauss struct {
	R0, W float64
}

// NewExpGauss returns a saturating Gaussian well centered at r0 with width w
// (both nm).
func NewExpGauss(r0, w float64) (*ExpGauss, error) {
	if r0 <= 0 || w <= 0 {
		return nil, fmt.Errorf("cgmodel: Gaussian wells need a positive center and width, got %4.2f and %4.2f", r0, w)
	}
	return &ExpGauss{R0: r0, W: w}, nil
}

// V returns the potential at each of the given distances (nm) for the depth
// parameter eps.
func (E *ExpGauss) V(eps float64, r []float64) []float64 {
	depth := 1 - math.Exp(-eps)
	ret := make([]float64, len(r))
	for i, v := range r {
		d := v - E.R0
		ret[i] = -depth * math.Exp(-d*d/(2*E.W*E.W))
	}
	return ret
}

// DVDEps returns the derivative of the potential with respect to the depth
// parameter, at each of the given distances. It does depend on eps.
func (E *ExpGauss) DVDEps(eps float64, r []float64) []float64 {
	dd := math.Exp(-eps)
	ret := make([]float64, len(r))
	for i, v := range r {
		d := v - E.R0
		ret[i] = -dd * math.Exp(-d*d/(2*E.W*E.W))
	}
	return ret
}

// LinearInEps reports whether the potential is a linear function of its parameter.
func (E *ExpGauss) LinearInEps() bool { return false }

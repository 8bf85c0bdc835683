/*
 * adapter.go, part of godem.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GasConstantKJMol is the molar gas constant in kJ/(mol K).
const GasConstantKJMol = 0.0083144621

// Protein adapts a coarse-grained protein model to the fitting
// machinery. It keeps the model, the subset of its interactions under
// fit, the parameter values the trajectory was sampled with, and the
// inverse temperature used to reduce energies.
type Protein struct {
	model  Hamiltonian
	params []int      //interaction indices under fit
	sites  [][2]int   //site pair of each interaction under fit
	eps    []float64  //sampling-time parameter of each interaction under fit
	beta   float64    //1/kT, mol/kJ
	fret   [][2]int
}

// NewProtein returns an adapter over the given model. The model is the
// one mandatory collaborator; a nil model is an error, not a panic, so
// a caller wiring capabilities at runtime can report it cleanly.
// A nil o takes every default (see DefaultOptions).
func NewProtein(model Hamiltonian, o *Options) (*Protein, error) {
	if model == nil {
		return nil, CError{"No model loaded: a Hamiltonian collaborator is required", []string{"NewProtein"}}
	}
	if o == nil {
		o = DefaultOptions()
	}
	P := new(Protein)
	P.model = model
	P.beta = o.Beta()
	npairs := model.NPairs()
	all := model.Epsilons()
	if len(all) != npairs {
		return nil, CError{fmt.Sprintf("Model reports %d interactions but %d parameters", npairs, len(all)), []string{"NewProtein"}}
	}
	params := o.Params()
	if params == nil {
		params = make([]int, npairs)
		for i := range params {
			params[i] = i
		}
	}
	P.params = params
	P.sites = make([][2]int, len(params))
	P.eps = make([]float64, len(params))
	for k, pi := range params {
		if pi < 0 || pi >= npairs {
			return nil, CError{fmt.Sprintf("Parameter index %d out of range: model has %d interactions", pi, npairs), []string{"NewProtein"}}
		}
		i, j := model.PairSites(pi)
		if i < 0 || j < 0 || i >= model.NSites() || j >= model.NSites() {
			return nil, CError{fmt.Sprintf("Interaction %d refers to sites (%d,%d) out of range: model has %d sites", pi, i, j, model.NSites()), []string{"NewProtein"}}
		}
		P.sites[k] = [2]int{i, j}
		P.eps[k] = all[pi]
	}
	fret := o.FRETPairs()
	for _, p := range fret {
		if p[0] < 0 || p[1] < 0 || p[0] >= model.NSites() || p[1] >= model.NSites() {
			return nil, CError{fmt.Sprintf("FRET pair (%d,%d) out of range: model has %d sites", p[0], p[1], model.NSites()), []string{"NewProtein"}}
		}
	}
	P.fret = fret
	return P, nil
}

// Model returns the underlying Hamiltonian.
func (P *Protein) Model() Hamiltonian {
	return P.model
}

// Epsilons returns a copy of the sampling-time parameter values of the
// interactions under fit, in fit order. This is the natural starting
// point for an optimizer.
func (P *Protein) Epsilons() []float64 {
	eps := make([]float64, len(P.eps))
	copy(eps, P.eps)
	return eps
}

// Params returns a copy of the model-interaction indices under fit.
func (P *Protein) Params() []int {
	p := make([]int, len(P.params))
	copy(p, P.params)
	return p
}

// Pairs returns a copy of the site pairs of the interactions under fit,
// in fit order.
func (P *Protein) Pairs() [][2]int {
	p := make([][2]int, len(P.sites))
	copy(p, P.sites)
	return p
}

// FRETPairs returns a copy of the site pairs monitored as FRET
// observables.
func (P *Protein) FRETPairs() [][2]int {
	p := make([][2]int, len(P.fret))
	copy(p, P.fret)
	return p
}

//Beta returns the inverse temperature 1/kT used to reduce energies, in
//mol/kJ, and sets it to a new value, if given. Closures already built
//by Potentials keep the value they were built with.
func (P *Protein) Beta(b ...float64) float64 {
	if len(b) > 0 {
		P.beta = b[0]
	}
	return P.beta
}

// SetTemperature sets the inverse temperature from a temperature in K.
func (P *Protein) SetTemperature(T float64) error {
	if T <= 0 {
		return CError{fmt.Sprintf("Temperature must be positive, got %4.2f K", T), []string{"SetTemperature"}}
	}
	P.beta = 1 / (GasConstantKJMol * T)
	return nil
}

// Potentials returns an energy closure and a gradient closure over the
// given distance data, choosing the builder that matches the model: the
// precomputing one if every interaction is linear in its parameter, the
// general one otherwise. data must have one row per frame and one column
// per interaction under fit, as produced by Distances.
func (P *Protein) Potentials(data *mat.Dense) (func(eps []float64) []float64, func(eps []float64) [][]float64, error) {
	if P.model.Linear() {
		return P.LinearPotentials(data)
	}
	return P.NonlinearPotentials(data)
}

// LinearPotentials builds closures for a model whose every interaction
// is linear in its parameter, so V_i(eps,r) = eps*v_i(r). The per-frame
// derivative vectors are evaluated once, here, already scaled by -beta.
// The energy closure returns, for a parameter vector, the reduced
// energy -beta*H of every frame. The gradient closure returns the
// precomputed vectors themselves, whatever the parameters: they are
// shared between calls, so the caller must not modify them.
func (P *Protein) LinearPotentials(data *mat.Dense) (func(eps []float64) []float64, func(eps []float64) [][]float64, error) {
	frames, err := P.checkData(data, "LinearPotentials")
	if err != nil {
		return nil, nil, err
	}
	consts := make([][]float64, len(P.params))
	for k, pi := range P.params {
		col := mat.Col(nil, k, data)
		c := P.model.Pair(pi).DVDEps(P.eps[k], col)
		floats.Scale(-P.beta, c)
		consts[k] = c
	}
	energy := func(eps []float64) []float64 {
		if len(eps) != len(consts) {
			panic(PanicMsg(fmt.Sprintf("goDem: energy closure called with %d parameters, want %d", len(eps), len(consts))))
		}
		total := make([]float64, frames)
		for i, e := range eps {
			floats.AddScaled(total, e, consts[i])
		}
		return total
	}
	gradient := func(eps []float64) [][]float64 {
		if len(eps) != len(consts) {
			panic(PanicMsg(fmt.Sprintf("goDem: gradient closure called with %d parameters, want %d", len(eps), len(consts))))
		}
		return consts
	}
	return energy, gradient, nil
}

// NonlinearPotentials builds closures for a model with interactions
// that are not linear in their parameters. The energy closure evaluates
// every potential at the given parameters, sums per frame and only then
// scales by -beta. The gradient closure returns dV_i/deps at the given
// parameters, one vector per interaction, unscaled.
func (P *Protein) NonlinearPotentials(data *mat.Dense) (func(eps []float64) []float64, func(eps []float64) [][]float64, error) {
	frames, err := P.checkData(data, "NonlinearPotentials")
	if err != nil {
		return nil, nil, err
	}
	pots := make([]PairPotential, len(P.params))
	cols := make([][]float64, len(P.params))
	for k, pi := range P.params {
		pots[k] = P.model.Pair(pi)
		cols[k] = mat.Col(nil, k, data)
	}
	beta := P.beta
	energy := func(eps []float64) []float64 {
		if len(eps) != len(pots) {
			panic(PanicMsg(fmt.Sprintf("goDem: energy closure called with %d parameters, want %d", len(eps), len(pots))))
		}
		total := make([]float64, frames)
		for i, e := range eps {
			floats.Add(total, pots[i].V(e, cols[i]))
		}
		floats.Scale(-beta, total)
		return total
	}
	gradient := func(eps []float64) [][]float64 {
		if len(eps) != len(pots) {
			panic(PanicMsg(fmt.Sprintf("goDem: gradient closure called with %d parameters, want %d", len(eps), len(pots))))
		}
		out := make([][]float64, len(eps))
		for i, e := range eps {
			out[i] = pots[i].DVDEps(e, cols[i])
		}
		return out
	}
	return energy, gradient, nil
}

//checkData validates the distance data against the interactions under
//fit and returns the number of frames.
func (P *Protein) checkData(data *mat.Dense, caller string) (int, error) {
	if data == nil {
		return 0, CError{"nil distance data", []string{caller}}
	}
	r, c := data.Dims()
	if c != len(P.params) {
		return 0, CError{fmt.Sprintf("Dimensions of the data are not compatible with the number of parameters: data is %dx%d, number of parameters is %d", r, c, len(P.params)), []string{caller}}
	}
	return r, nil
}

/*
 * adapter_test.go, part of godem.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//a potential linear in its parameter, V=eps*r, for closure tests.
type linPair struct{}

func (p linPair) V(eps float64, r []float64) []float64 {
	v := make([]float64, len(r))
	for i, x := range r {
		v[i] = eps * x
	}
	return v
}

func (p linPair) DVDEps(_ float64, r []float64) []float64 {
	v := make([]float64, len(r))
	copy(v, r)
	return v
}

//a potential quadratic in its parameter, V=eps*eps*r. Its gradient
//changes with eps, which tells the two closure builders apart.
type sqPair struct{}

func (p sqPair) V(eps float64, r []float64) []float64 {
	v := make([]float64, len(r))
	for i, x := range r {
		v[i] = eps * eps * x
	}
	return v
}

func (p sqPair) DVDEps(eps float64, r []float64) []float64 {
	v := make([]float64, len(r))
	for i, x := range r {
		v[i] = 2 * eps * x
	}
	return v
}

type testModel struct {
	nsites int
	pairs  [][2]int
	eps    []float64
	pots   []PairPotential
	linear bool
}

func (M *testModel) NSites() int                { return M.nsites }
func (M *testModel) NPairs() int                { return len(M.pairs) }
func (M *testModel) PairSites(i int) (int, int) { return M.pairs[i][0], M.pairs[i][1] }
func (M *testModel) Pair(i int) PairPotential   { return M.pots[i] }
func (M *testModel) Epsilons() []float64        { return M.eps }
func (M *testModel) Linear() bool               { return M.linear }

func linearTestModel() *testModel {
	return &testModel{
		nsites: 3,
		pairs:  [][2]int{{0, 1}, {1, 2}},
		eps:    []float64{1.0, 2.0},
		pots:   []PairPotential{linPair{}, linPair{}},
		linear: true,
	}
}

func TestNewProtein(Te *testing.T) {
	if _, err := NewProtein(nil, nil); err == nil {
		Te.Error("a nil model should be an error")
	}
	M := linearTestModel()
	bad := &testModel{nsites: 3, pairs: M.pairs, eps: []float64{1.0}, pots: M.pots, linear: true}
	if _, err := NewProtein(bad, nil); err == nil {
		Te.Error("a model with fewer parameters than interactions should be an error")
	}
	o := DefaultOptions()
	o.Params([]int{5})
	if _, err := NewProtein(M, o); err == nil {
		Te.Error("a parameter index past the model's interactions should be an error")
	}
	crossed := &testModel{nsites: 2, pairs: [][2]int{{0, 5}}, eps: []float64{1.0}, pots: []PairPotential{linPair{}}, linear: true}
	if _, err := NewProtein(crossed, nil); err == nil {
		Te.Error("an interaction between sites outside the model should be an error")
	}
	o = DefaultOptions()
	o.FRETPairs([][2]int{{0, 7}})
	if _, err := NewProtein(M, o); err == nil {
		Te.Error("a FRET pair outside the model should be an error")
	}
	//the good case, with every default
	P, err := NewProtein(M, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if P.Beta() != 1.0 {
		Te.Errorf("default inverse temperature: got %f, want 1.0", P.Beta())
	}
	params := P.Params()
	if len(params) != 2 || params[0] != 0 || params[1] != 1 {
		Te.Errorf("by default every interaction is under fit, got %v", params)
	}
	pairs := P.Pairs()
	if pairs[1] != [2]int{1, 2} {
		Te.Errorf("site pair of the second interaction: got %v", pairs[1])
	}
	eps := P.Epsilons()
	eps[0] = 42 //the adapter must not see this
	if P.Epsilons()[0] != 1.0 {
		Te.Error("Epsilons should return a copy, not the adapter's own slice")
	}
	fmt.Println("adapter set up:", P.Params(), P.Pairs(), P.Epsilons())
}

func TestLinearPotentials(Te *testing.T) {
	M := linearTestModel()
	o := DefaultOptions()
	o.Beta(2.0)
	P, err := NewProtein(M, o)
	if err != nil {
		Te.Fatal(err)
	}
	data := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	energy, gradient, err := P.Potentials(data)
	if err != nil {
		Te.Fatal(err)
	}
	//V_i = eps_i*r_i, so the reduced energy per frame is -beta*Sum_i eps_i*r_i
	E := energy([]float64{1, 1})
	want := []float64{-6, -14}
	for i := range E {
		if math.Abs(E[i]-want[i]) > 1e-12 {
			Te.Errorf("reduced energy of frame %d at (1,1): got %f, want %f", i, E[i], want[i])
		}
	}
	E = energy([]float64{2, 0.5})
	want = []float64{-6, -16}
	for i := range E {
		if math.Abs(E[i]-want[i]) > 1e-12 {
			Te.Errorf("reduced energy of frame %d at (2,0.5): got %f, want %f", i, E[i], want[i])
		}
	}
	//exactly linear in eps: zero in, zero out, and doubling doubles
	for i, e := range energy([]float64{0, 0}) {
		if e != 0 {
			Te.Errorf("reduced energy of frame %d at (0,0): got %f, want 0", i, e)
		}
	}
	E = energy([]float64{2, 2})
	want = []float64{-12, -28}
	for i := range E {
		if math.Abs(E[i]-want[i]) > 1e-12 {
			Te.Errorf("energy is not linear in the parameters at frame %d: got %f, want %f", i, E[i], want[i])
		}
	}
	//the gradient of a linear model is all constants, scaled by -beta
	g := gradient([]float64{1, 1})
	if len(g) != 2 || len(g[0]) != 2 {
		Te.Fatalf("gradient shape: got %dx%d, want 2x2", len(g), len(g[0]))
	}
	if g[0][0] != -2 || g[0][1] != -6 || g[1][0] != -4 || g[1][1] != -8 {
		Te.Errorf("gradient vectors: got %v", g)
	}
	g2 := gradient([]float64{7, 9})
	if &g[0][0] != &g2[0][0] {
		Te.Error("the gradient of a linear model should be precomputed and shared between calls")
	}
	//closures keep the inverse temperature they were built with
	P.Beta(100)
	E = energy([]float64{1, 1})
	if math.Abs(E[0]+6) > 1e-12 {
		Te.Errorf("a built closure should keep its inverse temperature, got %f", E[0])
	}
	assertPanics(Te, "energy with too few parameters", func() { energy([]float64{1}) })
	assertPanics(Te, "gradient with too many parameters", func() { gradient([]float64{1, 2, 3}) })
	if _, _, err = P.Potentials(mat.NewDense(2, 3, nil)); err == nil {
		Te.Error("distance data with a wrong number of columns should be an error")
	}
	if _, _, err = P.Potentials(nil); err == nil {
		Te.Error("nil distance data should be an error")
	}
}

func TestNonlinearPotentials(Te *testing.T) {
	M := &testModel{
		nsites: 2,
		pairs:  [][2]int{{0, 1}},
		eps:    []float64{0.5},
		pots:   []PairPotential{sqPair{}},
		linear: false,
	}
	o := DefaultOptions()
	o.Beta(2.0)
	P, err := NewProtein(M, o)
	if err != nil {
		Te.Fatal(err)
	}
	data := mat.NewDense(2, 1, []float64{1, 3})
	energy, gradient, err := P.Potentials(data)
	if err != nil {
		Te.Fatal(err)
	}
	//V = eps^2*r, summed per frame and then scaled by -beta
	E := energy([]float64{2})
	want := []float64{-8, -24}
	for i := range E {
		if math.Abs(E[i]-want[i]) > 1e-12 {
			Te.Errorf("reduced energy of frame %d: got %f, want %f", i, E[i], want[i])
		}
	}
	//the gradient is dV/deps at the given parameters, with no -beta
	g := gradient([]float64{2})
	if math.Abs(g[0][0]-4) > 1e-12 || math.Abs(g[0][1]-12) > 1e-12 {
		Te.Errorf("gradient at eps=2: got %v, want [4 12]", g[0])
	}
	g = gradient([]float64{3})
	if math.Abs(g[0][0]-6) > 1e-12 || math.Abs(g[0][1]-18) > 1e-12 {
		Te.Errorf("gradient at eps=3: got %v, want [6 18]", g[0])
	}
	assertPanics(Te, "nonlinear energy arity", func() { energy([]float64{1, 2}) })
}

func TestSetTemperature(Te *testing.T) {
	P, err := NewProtein(linearTestModel(), nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := P.SetTemperature(170); err != nil {
		Te.Fatal(err)
	}
	want := 1 / (GasConstantKJMol * 170)
	if math.Abs(P.Beta()-want) > 1e-12 {
		Te.Errorf("inverse temperature at 170 K: got %f, want %f", P.Beta(), want)
	}
	if err := P.SetTemperature(0); err == nil {
		Te.Error("zero temperature should be an error")
	}
	if err := P.SetTemperature(-5); err == nil {
		Te.Error("negative temperature should be an error")
	}
	if b := P.Beta(0.25); b != 0.25 {
		Te.Errorf("Beta should set and return the new value, got %f", b)
	}
}

func assertPanics(Te *testing.T, name string, f func()) {
	defer func() {
		if r := recover(); r == nil {
			Te.Errorf("%s: should have panicked", name)
		}
	}()
	f()
}

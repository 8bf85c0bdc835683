/*
 * options.go, part of godem.
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

//Options contains the options for building a Protein adapter.
//Don't fill it manually, obtain it with DefaultOptions and then set
//whatever you need.
type Options struct {
	beta      float64
	params    []int
	fretPairs [][2]int
}

//DefaultOptions returns reasonable options for fitting: a reduced
//inverse temperature of 1.0, every tunable interaction of the model in
//use, and no FRET observables.
func DefaultOptions() *Options {
	O := new(Options)
	O.beta = 1.0
	return O
}

//Beta returns the inverse temperature 1/kT used to scale energies, in
//mol/kJ, and sets it to a new value, if given.
func (O *Options) Beta(b ...float64) float64 {
	if len(b) > 0 {
		O.beta = b[0]
	}
	return O.beta
}

//Params returns the indices of the tunable interactions to use in the
//fit, and sets them to a new value, if given. A nil slice (the default)
//selects every interaction of the model.
func (O *Options) Params(p ...[]int) []int {
	if len(p) > 0 {
		O.params = p[0]
	}
	return O.params
}

//FRETPairs returns the pairs of site indices whose distances are
//monitored as FRET observables, and sets them to a new value, if given.
func (O *Options) FRETPairs(p ...[][2]int) [][2]int {
	if len(p) > 0 {
		O.fretPairs = p[0]
	}
	return O.fretPairs
}

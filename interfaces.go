/*
 * interfaces.go, part of godem.
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
	"github.com/arrow50311/godem/xyz"
)

// Traj is an interface for any trajectory object. The package only ever
// reads frames through it, so the fitting machinery works the same on a
// DCD file, a compressed text trajectory, or an in-memory mock.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output, if given. A nil output
	//discards the frame. It can also fill the (optional) box with
	//the box vectors, if present in the frame.
	Next(output *xyz.Matrix, box ...[]float64) error

	//Returns the number of sites (beads) per frame.
	Len() int
}

// ConcTraj is an interface for a trajectory that can be read concurrently.
type ConcTraj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	/*NextConc takes a slice of matrices and reads as many frames as
	elements the slice has. The frames are discarded if the corresponding
	element is nil. The function returns a slice of channels through each
	of which a *xyz.Matrix will be transmitted.*/
	NextConc(frames []*xyz.Matrix) ([]chan *xyz.Matrix, error)

	//Returns the number of sites (beads) per frame.
	Len() int
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// Masser can return a slice with the masses of each site in the reference.
type Masser interface {

	//Returns a column vector with the masses of all sites.
	Masses() ([]float64, error)
}

// PairPotential is one tunable pairwise interaction of a model. Both
// methods operate elementwise over a slice of pair distances (nm) and
// return a newly allocated slice of the same length: V evaluates the
// potential at the given value of its parameter, DVDEps its derivative
// with respect to that parameter. For a potential that is linear in the
// parameter, DVDEps ignores eps.
type PairPotential interface {
	V(eps float64, r []float64) []float64
	DVDEps(eps float64, r []float64) []float64
}

// Hamiltonian is the capability the fitting machinery requires from an
// externally-defined coarse-grained model: a list of sites, a list of
// tunable pairwise interactions between them, and the parameter values
// the model was sampled with. Implementations live outside this package
// (see cgmodel); here the model is only ever consulted, never built.
type Hamiltonian interface {

	//NSites returns the number of sites (beads) in the model.
	NSites() int

	//NPairs returns the number of tunable pairwise interactions.
	NPairs() int

	//PairSites returns the site indices of the ith interaction.
	PairSites(i int) (int, int)

	//Pair returns the potential function of the ith interaction.
	Pair(i int) PairPotential

	//Epsilons returns the parameter values the model was sampled with,
	//one per interaction, in interaction order.
	Epsilons() []float64

	//Linear reports whether every interaction is linear in its
	//parameter. It decides which closure builder Potentials uses.
	Linear() bool
}

//Errors

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate adds the given string to the "decoration" slice of the error and returns the resulting slice. If passed an empty string, it only returns the current slice. The decoration should contain the names of the functions in the calling stack, plus, for each function, any relevant information, in the format "FunctionName: Extra info".
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError is a harmless TrajError that marks the normal end of a
// trajectory, so it can be filtered in a typeswitch that looks for this
// interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just separates this interface from other TrajErrors
}

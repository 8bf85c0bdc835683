/*
 * topology.go, part of godem.
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
)

// Atom represents one site of a coarse-grained model, typically a bead
// placed on the alpha carbon of a residue. The name is kept for
// consistency with all-atom codes.
type Atom struct {
	ID      int     //one-based, as in model files
	Name    string  //bead name ("CA" in C-alpha models)
	MolName string  //residue name, 3-letter code
	MolID   int     //residue number
	Chain   string
	Mass    float64 //AMU
}

// Topology is an ordered list of the sites of a model. It implements
// Atomer and Masser.
type Topology struct {
	atoms []*Atom
}

// NewTopology returns a topology with the given sites, which can be
// empty. The atoms are kept by reference, not copied.
func NewTopology(ats ...[]*Atom) *Topology {
	T := new(Topology)
	if len(ats) > 0 && ats[0] != nil {
		T.atoms = ats[0]
	} else {
		T.atoms = make([]*Atom, 0, 10)
	}
	return T
}

// Atom returns the atom with index i. It panics if the index is out
// of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic(PanicMsg(fmt.Sprintf("goDem: Requested atom (%d) out of range (%d)", i, T.Len())))
	}
	return T.atoms[i]
}

// Len returns the number of sites in the topology.
func (T *Topology) Len() int {
	return len(T.atoms)
}

// AppendAtom adds one atom at the end of the topology, by reference.
func (T *Topology) AppendAtom(at *Atom) {
	T.atoms = append(T.atoms, at)
}

// SomeAtoms fills the receiver with the atoms of A indexed by clist,
// in the order given. The atoms are shared, not copied. It panics if
// an index is out of range.
func (T *Topology) SomeAtoms(A Atomer, clist []int) {
	for _, v := range clist {
		T.atoms = append(T.atoms, A.Atom(v))
	}
}

// Masses returns a slice with the masses of all sites, in order, or an
// error if any site lacks a positive mass.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i := 0; i < T.Len(); i++ {
		at := T.Atom(i)
		if at.Mass <= 0 {
			return nil, CError{fmt.Sprintf("Atom %d (%s) has no mass assigned", i, at.Name), []string{"Masses"}}
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

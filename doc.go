/*
 * doc.go, part of godem.
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

/*
Package odem provides the building blocks to re-parametrize coarse-grained
models of biomolecules against experimental observables. Given a model
(anything implementing the Hamiltonian interface) and a trajectory sampled
with the current parameters, the package produces per-frame energies,
per-parameter energy gradients and observable weights, which an external
optimizer can combine into a new parameter set.

The package itself does not parse model definitions or sample trajectories.
Concrete providers for those capabilities live in the subdirectories
(cgmodel for model files, traj/dcd and traj/ctf for trajectory formats), but
any type satisfying the interfaces declared here will do.

Energies handed to the optimizer are unitless (scaled by -1/kT) unless
stated otherwise. Distances are always in nm.
*/
package odem

/*
 * doc.go, part of godem
 *
 * Copyright 2025 The godem developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Cgmodel reads coarse-grained model definitions and turns them into the
pairwise Hamiltonians that godem re-parametrizes. A model file uses a
Gromacs-like format, with ';' comments and bracketed section headers:

	[ model ]
	;a name for the model
	WW-domain

	[ beads ]
	;id  name  resname  resid  chain  mass
	1    CA    GLY      1      A      57.05

	[ pairs ]
	;i   j  kind      eps   r0     width
	1    5  lj1210    1.20  0.55
	2    6  gaussian  0.80  0.62   0.05

Bead and pair indexes are 1-based in the files, as in Gromacs
topologies, and 0-based everywhere in the library. Distances (r0,
width) are in nm and well depths (eps) in kJ/mol.

The package also reads the YAML files with the settings for a fitting
run (temperature, parameter subset, FRET pairs).
*/
package cgmodel

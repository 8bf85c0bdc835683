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
Package xyz implements a container for sets of Cartesian coordinates, as a thin
wrapper over the gonum Dense matrix restricted to 3 columns. Within the package
it is understood that a "vector" is a row of the matrix, i.e. the coordinates
of one site in 3D space. Most operations are simply inherited from gonum, so
they follow the gonum convention of a receiver that contains the result, and
panic on dimension mismatches.
*/
package xyz

/*
 * distances.go, part of godem.
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
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/arrow50311/godem/traj/ctf"
	"github.com/arrow50311/godem/traj/dcd"
	"github.com/arrow50311/godem/xyz"
)

// Distances reads the whole trajectory and returns the distances of the
// site pairs under fit, one row per frame, one column per interaction,
// in fit order. Distances are plain Euclidean, no periodic imaging. The
// trajectory must have as many sites per frame as the model.
func (P *Protein) Distances(t Traj) (*mat.Dense, error) {
	return distancesOver(t, P.sites, P.model.NSites(), "Distances")
}

// FRETDistances reads the whole trajectory and returns the distances of
// the FRET pairs, one row per frame, one column per pair. It fails if no
// FRET pairs were configured.
func (P *Protein) FRETDistances(t Traj) (*mat.Dense, error) {
	if len(P.fret) == 0 {
		return nil, CError{"No FRET pairs configured", []string{"FRETDistances"}}
	}
	return distancesOver(t, P.fret, P.model.NSites(), "FRETDistances")
}

func distancesOver(t Traj, pairs [][2]int, nsites int, caller string) (*mat.Dense, error) {
	if t == nil {
		return nil, CError{"No trajectory loaded: a Traj collaborator is required", []string{caller}}
	}
	if t.Len() != nsites {
		return nil, CError{fmt.Sprintf("Trajectory frames have %d sites but the model has %d", t.Len(), nsites), []string{caller}}
	}
	if len(pairs) == 0 {
		return nil, CError{"No site pairs to measure", []string{caller}}
	}
	coords := xyz.Zeros(t.Len())
	temp := xyz.Zeros(1)
	var data []float64
	frames := 0
	var err error
reading:
	for i := 0; ; i++ {
		err = t.Next(coords)
		if err != nil {
			switch err := err.(type) {
			case LastFrameError:
				break reading
			case Error:
				err.Decorate(fmt.Sprintf("%s: Failed while reading the %d th frame", caller, i))
				return nil, err
			default:
				return nil, err
			}
		}
		for _, p := range pairs {
			data = append(data, dist(coords.VecView(p[0]), coords.VecView(p[1]), temp))
		}
		frames++
	}
	if frames == 0 {
		return nil, CError{"Trajectory contained no frames", []string{caller}}
	}
	return mat.NewDense(frames, len(pairs), data), nil
}

//dist returns the distance between the two vectors.
func dist(r, s, t *xyz.Matrix) float64 {
	t.Sub(r, s)
	return t.Norm(2)
}

// PairDistances returns the distances between the given site pairs in
// one frame. If dst is not nil and has the right length, the result is
// placed there, otherwise a new slice is allocated.
func PairDistances(coords *xyz.Matrix, pairs [][2]int, dst []float64) []float64 {
	if dst == nil || len(dst) != len(pairs) {
		dst = make([]float64, len(pairs))
	}
	temp := xyz.Zeros(1)
	for k, p := range pairs {
		dst[k] = dist(coords.VecView(p[0]), coords.VecView(p[1]), temp)
	}
	return dst
}

// OpenTraj opens a trajectory file, guessing the format from the file
// name: ".dcd" for DCD files, and ".ctf", ".ctz", ".ctl" or ".ctr" for
// compressed text trajectories.
func OpenTraj(fname string) (Traj, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".dcd":
		t, err := dcd.New(fname)
		if err != nil {
			return nil, errDecorate(err, "OpenTraj")
		}
		return t, nil
	case ".ctf", ".ctz", ".ctl", ".ctr":
		t, _, err := ctf.New(fname)
		if err != nil {
			return nil, errDecorate(err, "OpenTraj")
		}
		return t, nil
	}
	return nil, CError{fmt.Sprintf("Can't guess the trajectory format of %s from its name", fname), []string{"OpenTraj"}}
}

// LoadData opens the trajectory fname with OpenTraj, extracts the
// distances of the interactions under fit with Distances, and closes
// the file. This is the usual entry point when fitting from files.
func (P *Protein) LoadData(fname string) (*mat.Dense, error) {
	t, err := OpenTraj(fname)
	if err != nil {
		return nil, errDecorate(err, "LoadData")
	}
	if c, ok := t.(interface{ Close() }); ok {
		defer c.Close()
	}
	data, err := P.Distances(t)
	if err != nil {
		return nil, errDecorate(err, "LoadData")
	}
	return data, nil
}

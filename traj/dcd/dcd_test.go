/*
 * dcd_test.go, part of godem.
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

package dcd

import (
	"fmt"
	"math"
	"testing"

	"github.com/arrow50311/godem/xyz"
)

//testFrame builds a deterministic frame of n sites; frame f has every
//coordinate shifted by f/10.
func testFrame(n, f int) *xyz.Matrix {
	m := xyz.Zeros(n)
	for i := 0; i < n; i++ {
		m.Set(i, 0, float64(i)+float64(f)/10.0)
		m.Set(i, 1, float64(i)-float64(f)/10.0)
		m.Set(i, 2, 0.5*float64(i))
	}
	return m
}

func TestDCDWriteRead(Te *testing.T) {
	const natoms = 5
	const nframes = 3
	name := "../../test/testwrite.dcd"
	trajW, err := NewWriter(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	for f := 0; f < nframes; f++ {
		if err := trajW.WNext(testFrame(natoms, f)); err != nil {
			Te.Error(err)
		}
	}
	trajW.Close()
	traj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if traj.Len() != natoms {
		Te.Errorf("Wrong number of sites: wanted %d, got %d", natoms, traj.Len())
	}
	mat := xyz.Zeros(traj.Len())
	read := 0
	for i := 0; ; i++ {
		err := traj.Next(mat)
		if err != nil {
			if _, ok := err.(interface{ NormalLastFrameTermination() }); ok {
				break
			}
			Te.Error(err)
			break
		}
		want := testFrame(natoms, i)
		for j := 0; j < natoms; j++ {
			for k := 0; k < 3; k++ {
				if math.Abs(mat.At(j, k)-want.At(j, k)) > 1e-4 {
					Te.Errorf("Frame %d, site %d, axis %d: wanted %7.4f, got %7.4f", i, j, k, want.At(j, k), mat.At(j, k))
				}
			}
		}
		read++
	}
	if read != nframes {
		Te.Errorf("Wrote %d frames but read %d", nframes, read)
	}
	fmt.Println("Over! frames read:", read)
}

func TestDCDCell(Te *testing.T) {
	const natoms = 4
	name := "../../test/testcell.dcd"
	trajW, err := NewWriter(name, natoms, true)
	if err != nil {
		Te.Fatal(err)
	}
	cell := []float64{5.0, 0, 5.0, 0, 0, 7.5}
	for f := 0; f < 2; f++ {
		if err := trajW.WNext(testFrame(natoms, f), cell); err != nil {
			Te.Error(err)
		}
	}
	trajW.Close()
	traj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	got := make([]float64, 6)
	mat := xyz.Zeros(traj.Len())
	if err := traj.Next(mat, got); err != nil {
		Te.Fatal(err)
	}
	for i, v := range cell {
		if math.Abs(got[i]-v) > 1e-12 {
			Te.Errorf("Cell component %d: wanted %4.2f, got %4.2f", i, v, got[i])
		}
	}
	fmt.Println("cell read back:", got)
}

func TestDCDConc(Te *testing.T) {
	const natoms = 6
	const nframes = 4
	name := "../../test/testconc.dcd"
	trajW, err := NewWriter(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	for f := 0; f < nframes; f++ {
		if err := trajW.WNext(testFrame(natoms, f)); err != nil {
			Te.Error(err)
		}
	}
	trajW.Close()
	traj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	frames := make([]*xyz.Matrix, 2)
	for i := range frames {
		frames[i] = xyz.Zeros(traj.Len())
	}
	read := 0
	for i := 0; ; i++ {
		coordchans, err := traj.NextConc(frames)
		if err != nil {
			if _, ok := err.(interface{ NormalLastFrameTermination() }); ok {
				break
			}
			Te.Error(err)
			break
		}
		for key, channel := range coordchans {
			m := <-channel
			want := testFrame(natoms, i*len(frames)+key)
			if math.Abs(m.At(2, 0)-want.At(2, 0)) > 1e-4 {
				Te.Errorf("Concurrent read of frame %d got the wrong coordinates", i*len(frames)+key)
			}
			read++
		}
	}
	if read != nframes {
		Te.Errorf("Wrote %d frames but read %d concurrently", nframes, read)
	}
	fmt.Println("Over! frames read concurrently:", read)
}

/*
 * dcd_write.go, part of godem.
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
	"encoding/binary"
	"io"
	"os"

	"github.com/arrow50311/godem/xyz"
)

// DCDWObj is the handle for a CHARMM/NAMD binary trajectory file opened
// for writing. The writer cannot compress its output: the frame count
// lives at the beginning of the file, so every write needs a seek back.
type DCDWObj struct {
	natoms    int32
	frames    int32
	writable  bool
	cell      bool //Write a unit-cell block on each frame?
	filename  string
	dcd       *os.File
	dcdFields [][]float32
	endian    binary.ByteOrder
}

// NewWriter creates the file filename and returns a handle to write a
// DCD trajectory with natoms sites per frame. If withbox is given and
// true, each frame carries a unit-cell block, filled from the box
// argument of WNext (zeroed when absent).
func NewWriter(filename string, natoms int, withbox ...bool) (*DCDWObj, error) {
	traj := new(DCDWObj)
	traj.natoms = int32(natoms)
	if len(withbox) > 0 {
		traj.cell = withbox[0]
	}
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

//initWrite creates the file and writes the DCD header: the icntrl
//block, a title and the number of sites. Frames are counted as they are
//written, and the count is patched into the header by updateFrames.
func (D *DCDWObj) initWrite(name string) error {
	if D.natoms <= 0 {
		return Error{"Trajectory not initialized correctly: the number of sites is not positive", name, []string{"initWrite"}, true}
	}
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Write", "initWrite"}, true}
	}
	D.endian = binary.LittleEndian
	D.filename = name
	var err error
	D.dcd, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Create", "initWrite"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	magic := []byte("CORD")
	if err := binary.Write(D.dcd, D.endian, magic); err != nil {
		return wrapbinerr(err)
	}
	//The number of frames goes here, patched after every write.
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//Initial step
	if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
		return wrapbinerr(err)
	}
	//Step interval (nsavc)
	if err := binary.Write(D.dcd, D.endian, int32(1)); err != nil {
		return wrapbinerr(err)
	}
	//5 zeros, plus natom-nfreat
	for i := 0; i < 6; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//Delta time
	if err := binary.Write(D.dcd, D.endian, float32(1)); err != nil {
		return wrapbinerr(err)
	}
	//Unit cell flag
	cellflag := int32(0)
	if D.cell {
		cellflag = 1
	}
	if err := binary.Write(D.dcd, D.endian, cellflag); err != nil {
		return wrapbinerr(err)
	}
	//8 zeros for CHARMM
	for i := 0; i < 8; i++ {
		if err := binary.Write(D.dcd, D.endian, int32(0)); err != nil {
			return wrapbinerr(err)
		}
	}
	//CHARMM version, let's say, 24
	if err := binary.Write(D.dcd, D.endian, int32(24)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(84)); err != nil {
		return wrapbinerr(err)
	}
	//The title block: its length, the number of title units, the title
	//itself and the length again.
	var ntitle int32 = 1
	if err := binary.Write(D.dcd, D.endian, 4+ntitle*mAXTITLE); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, ntitle); err != nil {
		return wrapbinerr(err)
	}
	title := make([]byte, mAXTITLE)
	copy(title, []byte("Written by godem"))
	title[len(title)-1] = byte('\000')
	if err := binary.Write(D.dcd, D.endian, title); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, 4+ntitle*mAXTITLE); err != nil {
		return wrapbinerr(err)
	}
	//The number of sites in each snapshot, sandwiched between two 4s.
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, D.natoms); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Write(D.dcd, D.endian, int32(4)); err != nil {
		return wrapbinerr(err)
	}
	D.writable = true
	return nil
}

// WNext writes the next frame to the trajectory. If the writer was set
// up with a unit cell, the first 6 elements of box, when given, fill
// the cell block of this frame.
func (D *DCDWObj) WNext(towrite *xyz.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{NilCoordinates, D.filename, []string{"WNext"}, true}
	}
	if int32(towrite.NVecs()) != D.natoms {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	if err := D.wnextRaw(D.dcdFields, box...); err != nil {
		return errDecorate(err, "WNext")
	}
	D.frames++
	if err := D.updateFrames(); err != nil {
		return errDecorate(err, "WNext")
	}
	return nil
}

//wnextRaw writes one frame: the unit cell, if the writer carries one,
//then the x, y and z blocks.
func (D *DCDWObj) wnextRaw(blocks [][]float32, box ...[]float64) error {
	if D.cell {
		var cell [6]float64
		if len(box) > 0 && len(box[0]) >= 6 {
			copy(cell[:], box[0][0:6])
		}
		if err := binary.Write(D.dcd, D.endian, int32(48)); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.dcd, D.endian, cell[:]); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.dcd, D.endian, int32(48)); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
	}
	for _, block := range blocks {
		if err := D.writeFloat32Block(block); err != nil {
			return errDecorate(err, "wnextRaw")
		}
	}
	return nil
}

//writeFloat32Block writes a block of float32s sandwiched between its
//size in bytes.
func (D *DCDWObj) writeFloat32Block(block []float32) error {
	blocksize := int32(len(block)) * 4
	if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, block); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, blocksize); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
	}
	return nil
}

//DCD wants the number of frames at the beginning of the file, so after
//each frame we seek back and patch it.
func (D *DCDWObj) updateFrames() error {
	currentoffset, err := D.dcd.Seek(0, io.SeekCurrent) //to come back afterwards
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.Seek", "updateFrames"}, true}
	}
	//The frame count sits right after the leading 84 and the magic
	//number.
	if _, err := D.dcd.Seek(8, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.Seek", "updateFrames"}, true}
	}
	if err := binary.Write(D.dcd, D.endian, D.frames); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	if _, err := D.dcd.Seek(currentoffset, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.Seek", "updateFrames"}, true}
	}
	return nil
}

// Len returns the number of sites per frame.
func (D *DCDWObj) Len() int {
	return int(D.natoms)
}

// Close closes the file. The handle can not be written after this call.
func (D *DCDWObj) Close() {
	if !D.writable {
		return
	}
	D.dcd.Close()
	D.writable = false
}

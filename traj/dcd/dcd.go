/*
 * dcd.go, part of godem.
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

//Package dcd reads and writes CHARMM/NAMD binary trajectory files. Both
//endiannesses are supported when reading, but not fixed atoms. Files
//compressed with flate (.gz) or LZW (.lzw) can be read transparently.
package dcd

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/lzw"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/arrow50311/godem/xyz"
)

const mAXTITLE int32 = 80

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
)

// DCDObj is the handle for a CHARMM/NAMD binary trajectory file opened
// for reading.
type DCDObj struct {
	natoms     int32
	buffSize   int
	readLast   bool //Have we read the last frame?
	readable   bool //Is it ready to be read?
	filename   string
	charmm     bool //Charmm traj?
	extrablock bool
	fourdim    bool
	fixed      int32     //Fixed atoms (not supported)
	fhandle    *os.File  //The file on disk
	dcd        io.Reader //The possibly-decompressed stream
	dcdFields  [][]float32
	concBuffer [][][]float32
	endian     binary.ByteOrder
}

// New opens the DCD trajectory filename for reading and returns the
// handle. The file may be flate- or LZW-compressed, which is deduced
// from the extension (.gz and .lzw, respectively).
func New(filename string) (*DCDObj, error) {
	traj := new(DCDObj)
	if err := traj.initRead(filename); err != nil {
		return nil, errDecorate(err, "New")
	}
	traj.dcdFields = make([][]float32, 3)
	for i := range traj.dcdFields {
		traj.dcdFields[i] = make([]float32, int(traj.natoms))
	}
	traj.concBuffer = append(traj.concBuffer, traj.dcdFields)
	traj.buffSize = 1
	return traj, nil
}

// Readable returns true if the handle is ready to deliver frames. It
// doesn't guarantee that there is anything left to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//prepSource opens the file and wires the decompressor matching the
//extension, if any. An unknown extension is assumed to be a plain DCD.
func (D *DCDObj) prepSource(fname string) error {
	var err error
	temp := strings.Split(fname, ".")
	fk := strings.ToLower(temp[len(temp)-1])
	D.filename = fname
	D.fhandle, err = os.Open(fname)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Open", "prepSource"}, true}
	}
	switch fk {
	case "lzw":
		D.dcd = lzw.NewReader(bufio.NewReader(D.fhandle), lzwOrder, lzwLitwidth)
	case "gz":
		D.dcd = flate.NewReader(bufio.NewReader(D.fhandle))
	case "dcd":
		D.dcd = D.fhandle
	default:
		log.Printf("Extension %s not recognized. %s will be assumed to be a plain DCD file", fk, D.filename)
		D.dcd = D.fhandle
	}
	return nil
}

//initRead opens the file and digests the DCD header. It supports big
//and little endianness, and CHARMM or NAMD (>=2.1) files, but no fixed
//atoms.
func (D *DCDObj) initRead(name string) error {
	NB := bytes.NewBuffer //shortness sake
	D.endian = binary.LittleEndian
	if err := D.prepSource(name); err != nil {
		return err
	}
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Read", "initRead"}, true}
	}
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	//The first thing in the file is an 84. If we don't see it, the
	//file must be big endian.
	if check != 84 {
		D.endian = binary.BigEndian
	}
	//Then the magic number "CORD".
	magic := make([]byte, 4)
	if err := binary.Read(D.dcd, D.endian, magic); err != nil {
		return wrapbinerr(err)
	}
	if string(magic) != "CORD" {
		return Error{"Wrong magic number", D.filename, []string{"initRead"}, true}
	}
	//Now the 80-byte icntrl block, which we read whole for random access.
	buf := make([]byte, 80)
	if err := binary.Read(D.dcd, D.endian, buf); err != nil {
		return wrapbinerr(err)
	}
	//X-plor sets the last int to zero, CHARMM sets it to its version
	//number. Only CHARMM-flavored files carry the extra flags.
	if err := binary.Read(NB(buf[76:]), D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check == 0 {
		return Error{"X-plor DCD not supported", D.filename, []string{"initRead"}, true}
	}
	D.charmm = true
	if err := binary.Read(NB(buf[40:]), D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 0 {
		D.extrablock = true
	}
	if err := binary.Read(NB(buf[44:]), D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check == 1 {
		D.fourdim = true
	}
	if err := binary.Read(NB(buf[32:]), D.endian, &D.fixed); err != nil {
		return wrapbinerr(err)
	}
	var delta float32 //only in CHARMM and NAMD >= 2.1 files
	if err := binary.Read(NB(buf[36:]), D.endian, &delta); err != nil {
		return wrapbinerr(err)
	}
	_ = delta
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 84 {
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	//The title block.
	var inputInt int32
	if err := binary.Read(D.dcd, D.endian, &inputInt); err != nil {
		return wrapbinerr(err)
	}
	var ntitle int32 //how many units of mAXTITLE does the title have?
	if err := binary.Read(D.dcd, D.endian, &ntitle); err != nil {
		return wrapbinerr(err)
	}
	title := make([]byte, mAXTITLE*ntitle)
	if err := binary.Read(D.dcd, D.endian, title); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &inputInt); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 4 { //one must read a 4 before the natoms
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if err := binary.Read(D.dcd, D.endian, &D.natoms); err != nil {
		return wrapbinerr(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrapbinerr(err)
	}
	if check != 4 { //and one more 4
		return Error{WrongFormat, D.filename, []string{"initRead"}, true}
	}
	if D.fixed != 0 {
		return Error{"Fixed atoms not supported", D.filename, []string{"initRead"}, true}
	}
	D.readable = true
	return nil
}

// Next puts in the given matrix the coordinates of the next frame of
// the trajectory. A nil matrix discards the frame. If box is given with
// at least 6 elements and the frame carries a unit cell, the 6 cell
// components are put there as stored by CHARMM (a, cos g, b, cos b,
// cos a, c). The normal end of the trajectory is reported with an error
// implementing LastFrameError.
func (D *DCDObj) Next(keep *xyz.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIniRead, D.filename, []string{"Next"}, true}
	}
	if err := D.nextRaw(D.dcdFields, box...); err != nil {
		return D.eof2LastFrame(err, "Next")
	}
	if keep == nil {
		return nil
	}
	if r, _ := keep.Dims(); int32(r) < D.natoms {
		return Error{NotEnoughSpace, D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		keep.Set(i, 0, float64(D.dcdFields[0][i]))
		keep.Set(i, 1, float64(D.dcdFields[1][i]))
		keep.Set(i, 2, float64(D.dcdFields[2][i]))
	}
	return nil
}

//nextRaw reads the next frame into the given x, y and z blocks, and the
//unit cell into box, if given and present.
func (D *DCDObj) nextRaw(blocks [][]float32, box ...[]float64) error {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"nextRaw"}, true}
	}
	if D.readLast {
		D.readable = false
		return io.EOF
	}
	//If there is an extra block, it holds the unit cell. Sadly, even
	//when the header announces it, it is not present in all snapshots
	//of some trajectories, so the block size decides whether we are
	//looking at the cell or already at the X coordinates.
	var blocksize int32
	if D.extrablock {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return err
		}
		if blocksize != D.natoms*4 {
			cell, err := D.readByteBlock(blocksize)
			if err != nil {
				return err
			}
			if len(box) > 0 && len(box[0]) >= 6 && blocksize == 48 {
				if err := binary.Read(bytes.NewBuffer(cell), D.endian, box[0][0:6]); err != nil {
					return err
				}
			}
			blocksize = 0
		}
	}
	//Now the coordinates, a block of float32 per axis.
	//X. The block size was already read if the extra block turned out
	//to be the coordinates themselves.
	if blocksize == 0 {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return err
		}
	}
	if err := D.readFloat32Block(blocksize, blocks[0]); err != nil {
		return err
	}
	//Y
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return err
	}
	if err := D.readFloat32Block(blocksize, blocks[1]); err != nil {
		return err
	}
	//Z
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return err
	}
	if err := D.readFloat32Block(blocksize, blocks[2]); err != nil {
		return err
	}
	//We skip the 4-D values if they exist. They are not present in the
	//last snapshot, so an EOF here only signals that we have just read
	//the last one.
	if D.charmm && D.fourdim {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			if err == io.EOF {
				D.readLast = true
			} else {
				return err
			}
		}
		if !D.readLast {
			if _, err := D.readByteBlock(blocksize); err != nil {
				return err
			}
		}
	}
	return nil
}

//readFloat32Block reads a block of the given size into block and checks
//the trailing size marker.
func (D *DCDObj) readFloat32Block(blocksize int32, block []float32) error {
	var check int32
	if blocksize != int32(len(block))*4 {
		return Error{WrongFormat, D.filename, []string{"readFloat32Block"}, true}
	}
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return err
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return err
	}
	if check != blocksize {
		return Error{SecurityCheckFailed, D.filename, []string{"readFloat32Block"}, true}
	}
	return nil
}

//readByteBlock reads a block of the given size and its trailing size
//marker, returning the contents.
func (D *DCDObj) readByteBlock(blocksize int32) ([]byte, error) {
	var check int32
	block := make([]byte, blocksize)
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return nil, err
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return nil, err
	}
	if check != blocksize {
		return nil, Error{SecurityCheckFailed, D.filename, []string{"readByteBlock"}, true}
	}
	return block, nil
}

//eof2LastFrame turns an EOF at a frame boundary into the non-critical
//error marking the normal end of the trajectory.
func (D *DCDObj) eof2LastFrame(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		D.Close()
		return newlastFrameError(D.filename, caller)
	}
	if _, ok := err.(Error); ok {
		return errDecorate(err, caller)
	}
	return Error{err.Error(), D.filename, []string{caller}, true}
}

// Len returns the number of sites per frame. The handle must be
// initialized; 0 means an uninitialized one.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

// Close closes the file and marks the handle as unreadable.
func (D *DCDObj) Close() {
	if !D.readable {
		return
	}
	D.fhandle.Close()
	D.readable = false
}

func (D *DCDObj) setConcBuffer(batchsize int) {
	l := D.buffSize
	if l >= batchsize {
		return
	}
	for i := 0; i < batchsize-l; i++ {
		x := make([]float32, D.Len())
		y := make([]float32, D.Len())
		z := make([]float32, D.Len())
		D.concBuffer = append(D.concBuffer, [][]float32{x, y, z})
	}
	D.buffSize = batchsize
}

// NextConc takes a slice of matrices and reads as many frames as
// elements the slice has. The frames are discarded if the corresponding
// element is nil. The function returns a slice of channels through each
// of which a *xyz.Matrix will be transmitted.
func (D *DCDObj) NextConc(frames []*xyz.Matrix) ([]chan *xyz.Matrix, error) {
	if !D.Readable() {
		return nil, Error{TrajUnIniRead, D.filename, []string{"NextConc"}, true}
	}
	framechans := make([]chan *xyz.Matrix, len(frames))
	if D.buffSize < len(frames) {
		D.setConcBuffer(len(frames))
	}
	for key := range frames {
		fields := D.concBuffer[key]
		if err := D.nextRaw(fields); err != nil {
			return nil, D.eof2LastFrame(err, "NextConc")
		}
		if frames[key] == nil {
			framechans[key] = nil //ignored frame
			continue
		}
		framechans[key] = make(chan *xyz.Matrix)
		go func(natoms int, fields [][]float32, keep *xyz.Matrix, pipe chan *xyz.Matrix) {
			for i := 0; i < natoms; i++ {
				keep.Set(i, 0, float64(fields[0][i]))
				keep.Set(i, 1, float64(fields[1][i]))
				keep.Set(i, 2, float64(fields[2][i]))
			}
			pipe <- keep
		}(int(D.natoms), fields, frames[key], framechans[key])
	}
	return framechans, nil
}

//Errors

//errorInt mirrors the error interface of the parent package. It is
//defined here again to avoid a circular import.
type errorInt interface {
	Error() string
	Decorate(string) []string
}

//errDecorate asserts that err implements errorInt, decorates it with
//the caller's name and returns it.
func errDecorate(err error, caller string) error {
	err2 := err.(errorInt)
	err2.Decorate(caller)
	return err2
}

// Error is the general type for DCD trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer receiver, it works,
	//since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

// Format returns the format associated to the error, always "dcd".
func (err Error) Format() string { return "dcd" }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead       = "Traj object uninitialized to read"
	TrajUnIniWrite      = "Traj object uninitialized to write"
	NotEnoughSpace      = "Not enough space in passed blocks"
	NilCoordinates      = "Given nil coordinates"
	WrongFormat         = "Wrong format in the DCD file or frame"
	SecurityCheckFailed = "Failed security check"
)

//lastFrameError marks the normal end of the trajectory.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "dcd" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

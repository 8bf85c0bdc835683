/*
 * ctf.go, part of godem.
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

package ctf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/arrow50311/godem/xyz"
	"gonum.org/v1/gonum/mat"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 3
)

//Write!

// CtfW is the handle for writing a CTF trajectory.
type CtfW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

// NewWriter creates the file name and returns a handle to write a CTF
// trajectory with natoms sites per frame. The metadata in header, if
// any, is written before the frames; a "prec" key overrides the default
// coordinate precision. The compression level, if given, applies only to
// the gzip and flate schemes.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*CtfW, error) {
	level := flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := new(CtfW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	flatewriter := func(a io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(a, level)
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var anyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		anyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		anyNewWriter = gzipwriter
	case 'r':
		anyNewWriter = flatewriter
	default:
		anyNewWriter = zstdwriter
	}
	S.h, err = anyNewWriter(S.f)
	if err != nil {
		return nil, Error{"Can't set up the compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.natoms = natoms
	S.filename = name
	S.writeable = true
	S.prec = defaultPrec
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil && prec > 0 {
				S.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
			}
		}
		for k, v := range header {
			if _, err := S.h.Write([]byte(fmt.Sprintf("%s=%v\n", k, v))); err != nil {
				return nil, Error{"Can't write the header: " + err.Error(), S.filename, []string{"NewWriter"}, true}
			}
		}
	}
	if _, err := S.h.Write([]byte(fmt.Sprintf("** %d\n", S.natoms))); err != nil {
		return nil, Error{"Can't write the header: " + err.Error(), S.filename, []string{"NewWriter"}, true}
	}
	return S, nil
}

// WNext writes the given frame to the trajectory and, if given, the 9
// components of the box vectors on the frame terminator line.
func (S *CtfW) WNext(coord *xyz.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var temp [3]int
	var floats [3]float64
	for i := 0; i < v; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		if _, err := S.h.Write([]byte(coordsEncode(floats, temp, S.prec))); err != nil {
			return Error{"Can't write coordinates: " + err.Error(), S.filename, []string{"WNext"}, true}
		}
	}
	var term string
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		term = fmt.Sprintf("* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n", b[0],
			b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		term = "*\n"
	}
	if _, err := S.h.Write([]byte(term)); err != nil {
		return Error{"Can't write the frame termination mark: " + err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

// WNextDense is WNext on a gonum matrix, for compatibility with code
// that doesn't use the xyz wrapper.
func (S *CtfW) WNextDense(dcoord *mat.Dense) error {
	coord := xyz.Dense2Matrix(dcoord)
	err := S.WNext(coord)
	if err != nil {
		err = errDecorate(err, "WNextDense")
	}
	return err
}

// Len returns the number of sites per frame.
func (S *CtfW) Len() int {
	return S.natoms
}

// Close flushes the compressor and closes the file. The handle can not
// be written after this call.
func (S *CtfW) Close() {
	if S == nil || !S.writeable {
		return
	}
	S.h.Close()
	S.f.Close()
	S.writeable = false
}

//Read!

// CtfR is the handle for reading a CTF trajectory.
type CtfR struct {
	f            *os.File
	zr           io.ReadCloser
	h            *bufio.Reader
	intermediate *bufio.Reader
	natoms       int
	filename     string
	prec         int
	readable     bool
}

//zstd.Decoder.Close returns nothing, so it doesn't implement
//io.ReadCloser. This shim restores the missing return value.
type zstdCloser struct {
	closeql func()
	*zstd.Decoder
}

func (s zstdCloser) Close() error {
	s.closeql()
	return nil
}

// New opens a CTF trajectory for reading and returns a handle, a map
// with the metadata (nil if the file has none) and error or nil.
func New(name string) (*CtfR, map[string]string, error) {
	S := new(CtfR)
	S.natoms = -1 //just so we know if things don't work
	S.prec = defaultPrec
	var m map[string]string
	var err error
	S.filename = name
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, err
	}
	flatereader := func(a io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(a), nil
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &zstdCloser{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	var anyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		anyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		anyNewReader = gzreader
	case 'r':
		anyNewReader = flatereader
	default:
		anyNewReader = zstdreader
	}
	S.intermediate = bufio.NewReader(S.f)
	S.zr, err = anyNewReader(S.intermediate)
	if err != nil {
		return nil, nil, Error{"Can't set up the decompressor: " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.zr)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read the header: " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return nil, nil, Error{fmt.Sprintf("Can't read the site number from '%s'", str), S.filename, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read the site number from '%s': %s", nat[1], err.Error()), S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line: " + str, S.filename, []string{"New"}, true}
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	S.readable = true
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	return S, m, nil
}

// Readable returns true if it is possible to call Next on the handle.
func (S *CtfR) Readable() bool {
	return S.readable
}

// Next puts in the given matrix the coordinates for the next frame of
// the trajectory and, if given and present in the frame, the box vector
// information in box. A nil matrix discards the frame, which is still
// checked for correctness. The normal end of the trajectory is reported
// with an error implementing LastFrameError.
func (S *CtfR) Next(c *xyz.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadBytes('\n')
		if err != nil {
			//EOF can only happen when reading the first site of a frame
			if err == io.EOF && i == 0 {
				//nothing bad happened here, the trajectory just ended
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{message: err.Error(), filename: S.filename, critical: true}
		}
		err = coordsDecode(string(b[:len(b)-1]), &temp, S.prec)
		if err != nil {
			return Error{message: err.Error(), filename: S.filename, critical: true}
		}
		if c == nil {
			continue //we ignore this whole frame, reading the content but not saving it
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{WrongFormat + ": bad frame termination mark: " + s, S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		fields := strings.Fields(strings.TrimSpace(s))
		if len(fields) >= 10 { //the "*" and the 9 numbers
			var errbox error
			for j, v := range fields[1:] {
				box[0][j], errbox = strconv.ParseFloat(v, 64)
				if errbox != nil {
					break
				}
			}
			//If any of the values fails to parse, the whole box is
			//zeroed and logged, no error returned.
			if errbox != nil {
				log.Printf("Failed to read box in a frame from %s", S.filename)
				for i := range box[0] {
					box[0][i] = 0.0
				}
			}
		} else {
			log.Printf("Trajectory file %s does not contain (correct) box information: %s", S.filename, fields)
		}
	}
	return nil
}

// Close closes the handle and marks it as unreadable.
func (S *CtfR) Close() {
	if !S.readable {
		return
	}
	S.zr.Close()
	S.f.Close()
	S.readable = false
}

// Len returns the number of sites in each frame of the trajectory.
func (S *CtfR) Len() int {
	return S.natoms
}

// NextConc takes a slice of matrices and reads as many frames as
// elements the slice has. The frames are discarded if the corresponding
// element is nil. The function returns a slice of channels through each
// of which a *xyz.Matrix will be transmitted.
func (S *CtfR) NextConc(frames []*xyz.Matrix) ([]chan *xyz.Matrix, error) {
	if !S.Readable() {
		return nil, Error{TrajUnIniRead, S.filename, []string{"NextConc"}, true}
	}
	framechans := make([]chan *xyz.Matrix, len(frames))
	for key, v := range frames {
		if err := S.Next(v); err != nil {
			return nil, errDecorate(err, "NextConc")
		}
		framechans[key] = make(chan *xyz.Matrix)
		go func(keep *xyz.Matrix, pipe chan *xyz.Matrix) {
			pipe <- keep
		}(v, framechans[key])
	}
	return framechans, nil
}

func coordsEncode(f [3]float64, temp [3]int, prec int) string {
	p := 1000.0
	if prec > 0 && prec != defaultPrec {
		p = math.Pow(10.0, float64(prec))
	}
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := 1000.0
	if prec > 0 && prec != defaultPrec {
		p = math.Pow(10.0, float64(prec))
	}
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("Ill formatted coordinates line in ctf: Too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("Ill formatted coordinates line in ctf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Errors

//errorInt mirrors the error interface of the parent package. It is
//defined here again to avoid a circular import.
type errorInt interface {
	Error() string
	Decorate(string) []string
}

//errDecorate asserts that err implements errorInt, decorates it with
//the caller's name and returns it. Used with any other error type, it
//panics.
func errDecorate(err error, caller string) error {
	err2 := err.(errorInt)
	err2.Decorate(caller)
	return err2
}

// Error is the general type for CTF trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ctf file %s error: %s", err.filename, err.message)
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

// Format returns the format associated to the error, always "ctf".
func (err Error) Format() string { return "ctf" }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the CTF file or frame"
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

func (E lastFrameError) Format() string { return "ctf" }

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

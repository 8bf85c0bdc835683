package histo

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a 1D histogram. The dividers slice holds the n+1 bin edges for the
//n values in histo. Counts can be normalized to frequencies and back.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//NewData returns a histogram with the given bin edges, filled with rawdata.
//rawdata can be nil, in which case the histogram starts empty. If an ID is
//given it is set, otherwise the ID is -1.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	d := new(Data)
	//the edges are copied so nobody changes them from outside
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d

}

//ID returns the ID of the histogram.
func (D *Data) ID() int {
	return D.id
}

//AddData adds the given data point(s) to the histogram. Points outside the
//bin edges are omitted, though they still count towards the total.
func (D *Data) AddData(point ...float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	for _, v := range point {
		for j, w := range D.dividers {
			if j == len(D.dividers)-1 {
				break
			}
			if w <= v && v < D.dividers[j+1] {
				D.histo[j]++
				break
			}
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

//ReHisto replaces the contents of the histogram with rawdata binned by the
//given edges. Points outside the edges are dropped before binning, and don't
//count towards the total.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	if rawdata != nil {
		sort.Float64s(rawdata)
		//stat.Histogram panics on out-of-range values instead of omitting
		//them, so they go before the call.
		maxi := sort.SearchFloat64s(rawdata, dividers[len(dividers)-1])
		mini := sort.SearchFloat64s(rawdata, dividers[0])
		if maxi < len(rawdata) {
			rawdata = rawdata[:maxi]
		}
		if mini != 0 {
			rawdata = rawdata[mini:]
		}

	}
	D.total = len(rawdata)
	D.histo = stat.Histogram(nil, dividers, rawdata, nil)
}

//Value returns the height of the bin containing x, or 0 if x falls outside
//the histogram.
func (D *Data) Value(x float64) float64 {
	if len(D.dividers) < 2 || x < D.dividers[0] || x >= D.dividers[len(D.dividers)-1] {
		return 0
	}
	i := sort.SearchFloat64s(D.dividers, x)
	//SearchFloat64s returns the insertion point, which for a value sitting
	//exactly on an edge is the edge itself. An edge belongs to the bin above
	//it, as in AddData.
	if D.dividers[i] > x {
		i--
	}
	return D.histo[i]
}

//Mean returns the mean of the distribution, taking each count at the center
//of its bin. It returns NaN for an empty histogram.
func (D *Data) Mean() float64 {
	sum := floats.Sum(D.histo)
	if sum == 0 {
		return math.NaN()
	}
	var m float64
	for i, v := range D.histo {
		c := (D.dividers[i] + D.dividers[i+1]) / 2
		m += c * v
	}
	return m / sum
}

//Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram so its values add up to 1.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize takes the histogram back to plain counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}

	floats.Scale(n, D.histo)

}

//CopyDividers copies the bin edges of the histogram, into dest if given and
//large enough.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 0, D.dividers)
}

//Copy copies the values of the histogram, into dest if given and large enough.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.ScaleTo(d, 0, D.histo)
}

//View returns the values of the histogram. The slice is shared, not copied.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of all values in the histogram.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//Add adds the histograms a and b putting the result in the receiver.
func (D *Data) Add(a, b *Data) {
	D.dividers = a.CopyDividers(D.dividers)
	if len(a.dividers) != len(b.dividers) {
		panic("goDem/histo.Data.Add: Ill-formed histograms for addition")
	}

	for i, v := range a.dividers {
		if v != b.dividers[i] {
			panic("goDem/histo.Data.Add: Dividers must match in added histograms")
		}
		if i == len(a.dividers)-1 {
			break //histo has 1 element less than dividers
		}
		D.histo[i] = a.histo[i] + b.histo[i]
	}
}

//Sub subtracts the histogram b from a putting the result in the receiver,
//as absolute values if abs is given and true.
func (D *Data) Sub(a, b *Data, abs ...bool) {
	f := func(a float64) float64 { return a }
	if len(abs) > 0 && abs[0] {
		f = func(a float64) float64 { return math.Abs(a) }
	}
	D.dividers = a.CopyDividers(D.dividers)
	if len(a.dividers) != len(b.dividers) {
		panic("goDem/histo.Data.Sub: Ill-formed histograms for subtraction")
	}

	for i, v := range a.dividers {
		if v != b.dividers[i] {
			panic("goDem/histo.Data.Sub: Dividers must match in subtracted histograms")
		}
		if i == len(a.dividers)-1 {
			break //histo has 1 element less than dividers
		}

		D.histo[i] = f(a.histo[i] - b.histo[i])
	}
}

//String prints a -hopefully- pretty representation of the histogram,
//using 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))

}

func (D *Data) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}

	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//Matrix is a matrix of histograms, say, one histogram per pair of sites.
type Matrix struct {
	rows, cols int
	d          []*Data   //row-major
	dividers   []float64 //if not nil, all histograms share the same edges
}

//NewMatrix returns a new r by c matrix of histograms with the given bin
//edges. The edges can be nil, in which case the elements are not forced to
//share them.
func NewMatrix(r, c int, dividers []float64) *Matrix {
	ret := new(Matrix)
	ret.rows = r
	ret.cols = c
	ret.d = make([]*Data, r*c)
	ret.dividers = dividers
	return ret
}

func (M *Matrix) Dims() (int, int) {
	return M.rows, M.cols
}

//Fill fills the matrix with empty histograms. The matrix must have a non-nil
//edges slice, which is used for every histogram created.
func (M *Matrix) Fill() {
	for i := 0; i < M.rows; i++ {
		for j := 0; j < M.cols; j++ {
			M.NewHisto(i, j, M.dividers, nil)
		}

	}
}

//Check checks whether the given row and column are within range. If pan is
//given and true it panics on an out-of-range index, otherwise it returns an
//error.
func (M *Matrix) Check(r, c int, pan ...bool) error {
	p := false
	var err error
	if len(pan) > 0 && pan[0] {
		p = true
	}
	if r >= M.rows {
		err = fmt.Errorf("goDem/histo: Row out of range")
	}
	if c >= M.cols {
		err = fmt.Errorf("goDem/histo: Column out of range")
	}
	if err != nil && p {
		panic(err.Error())
	}
	return err
}

//the index in the []*Data slice for a given row and column.
func (M *Matrix) rc2i(r, c int) int {
	M.Check(r, c, true)
	return M.cols*r + c
}

//NewHisto puts a new histogram in the r,c position of the matrix. The edges
//can be nil if the matrix has its own, and rawdata can be nil for an empty
//histogram. It panics if no edges are available at all.
func (M *Matrix) NewHisto(r, c int, dividers []float64, rawdata []float64, ID ...int) {
	if dividers == nil {
		if M.dividers != nil {
			dividers = M.dividers
		} else {
			panic("goDem/histo.Matrix.NewHisto: dividers not given, and the matrix has none")
		}
	} else if M.dividers != nil && !floats.Equal(M.dividers, dividers) {
		log.Printf("goDem/histo.Matrix.NewHisto: dividers given but they don't match those of the matrix. The matrix's dividers will be used.")
		dividers = M.dividers
	}
	M.d[M.rc2i(r, c)] = NewData(dividers, rawdata, ID...)
}

//View returns the histogram in the r,c position of the matrix. The histogram
//is shared, not copied.
func (M *Matrix) View(r, c int) *Data {
	return M.d[M.rc2i(r, c)]
}

//AddData adds one or more data points to the histogram in the r,c position.
func (M *Matrix) AddData(r, c int, point ...float64) {
	M.d[M.rc2i(r, c)].AddData(point...)
}

//NormalizeAll normalizes every histogram in the matrix.
func (M *Matrix) NormalizeAll() {
	for _, v := range M.d {
		v.Normalize()
	}
}

//UnNormalizeAll takes every histogram in the matrix back to plain counts.
func (M *Matrix) UnNormalizeAll() {
	for _, v := range M.d {
		v.UnNormalize()
	}
}

//CopyDividers copies the shared bin edges of the matrix, or returns nil if
//there are none.
func (M *Matrix) CopyDividers(dest ...[]float64) []float64 {
	if M.dividers == nil {
		return nil
	}
	d := getCopySlice(len(M.dividers), dest...)
	return floats.ScaleTo(d, 0, M.dividers)
}

//FromAll applies f to each histogram in the matrix and collects the results.
func (M *Matrix) FromAll(f func(D *Data) (float64, error)) ([][]float64, error) {
	r := make([][]float64, M.rows)
	var err error
	for i := 0; i < M.rows; i++ {
		r[i] = make([]float64, M.cols)
		for j := 0; j < M.cols; j++ {
			r[i][j], err = f(M.d[M.rc2i(i, j)])
			if err != nil {
				return nil, fmt.Errorf("goDem/histo.Matrix.FromAll: Error at %d, %d: %v", i, j, err)
			}
		}
	}
	return r, nil
}

//ToAll applies f to each histogram in the matrix.
func (M *Matrix) ToAll(f func(D *Data) error) error {
	var err error
	for i := 0; i < M.rows; i++ {
		for j := 0; j < M.cols; j++ {
			err = f(M.d[M.rc2i(i, j)])
			if err != nil {
				return fmt.Errorf("goDem/histo.Matrix.ToAll: Error at %d, %d: %v", i, j, err)
			}

		}
	}
	return nil
}

//MatrixCombine combines the matrices a and b element-wise with f, which
//takes the 2 histograms to combine plus one where the result is stored.
func MatrixCombine(f func(a, b, dest *Data), a, b, dest *Matrix) {
	if a.rows != b.rows || a.cols != b.cols || a.rows != dest.rows || a.cols != dest.cols {
		panic("goDem/histo.MatrixCombine: Ill-formed matrices for combining")
	}
	//this works if both are nil
	if !(a.dividers == nil && b.dividers == nil) && !floats.Equal(a.dividers, b.dividers) {
		panic("goDem/histo.MatrixCombine: Matrices don't share the same dividers")
	}
	for i, v := range dest.d {
		f(a.d[i], b.d[i], v)
	}
}

func (M *Matrix) String() string {
	ret := fmt.Sprintf("rows:%d cols:%d | Data:\n", M.rows, M.cols)
	t := make([]string, 0, len(M.d))
	for _, v := range M.d {
		t = append(t, v.String())
	}
	return ret + strings.Join(t, "\n\n")
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		Rows     int       `json:"rows"`
		Cols     int       `json:"cols"`
		D        []*Data   `json:"data"`
		Dividers []float64 `json:"dividers"`
	}{
		Rows:     M.rows,
		Cols:     M.cols,
		D:        M.d,
		Dividers: M.dividers,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a struct {
		Rows     int       `json:"rows"`
		Cols     int       `json:"cols"`
		D        []*Data   `json:"data"`
		Dividers []float64 `json:"dividers"`
	}

	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	M.rows = a.Rows
	M.cols = a.Cols
	M.d = a.D
	M.dividers = a.Dividers
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N] //floats.ScaleTo wants matching lengths
		}
	} else {
		d = make([]float64, N)
	}
	return d

}

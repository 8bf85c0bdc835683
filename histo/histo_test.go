package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
)

func TestHistoData(Te *testing.T) {
	edges := []float64{0, 1, 2, 3, 4}
	D := NewData(edges, []float64{0.5, 0.5, 1.5, 2.5, 2.7, 3.9}, 7)
	if D.ID() != 7 {
		Te.Errorf("histogram ID: got %d, want 7", D.ID())
	}
	if D.Sum() != 6 {
		Te.Errorf("total counts: got %f, want 6", D.Sum())
	}
	if v := D.Value(0.9); v != 2 {
		Te.Errorf("first bin: got %f, want 2", v)
	}
	if v := D.Value(2.0); v != 2 {
		Te.Errorf("a bin edge belongs to the bin above it: got %f, want 2", v)
	}
	if v := D.Value(-1); v != 0 {
		Te.Errorf("values below the edges have no bin: got %f, want 0", v)
	}
	if v := D.Value(4.0); v != 0 {
		Te.Errorf("the last edge is outside the histogram: got %f, want 0", v)
	}
	//counts sit at bin centers: (2*0.5+1*1.5+2*2.5+1*3.5)/6
	want := (2*0.5 + 1*1.5 + 2*2.5 + 1*3.5) / 6.0
	if math.Abs(D.Mean()-want) > 1e-12 {
		Te.Errorf("histogram mean: got %f, want %f", D.Mean(), want)
	}
	D.Normalize()
	if !D.Normalized() || math.Abs(D.Sum()-1) > 1e-12 {
		Te.Errorf("normalized values should add up to 1, got %f", D.Sum())
	}
	if v := D.Value(0.9); math.Abs(v-2.0/6.0) > 1e-12 {
		Te.Errorf("normalized first bin: got %f, want %f", v, 2.0/6.0)
	}
	D.AddData(1.2)
	if v := D.Value(1.2); math.Abs(v-2.0/7.0) > 1e-12 {
		Te.Errorf("adding to a normalized histogram should keep it normalized: got %f, want %f", v, 2.0/7.0)
	}
	D.UnNormalize()
	if D.Sum() != 7 {
		Te.Errorf("counts after un-normalizing: got %f, want 7", D.Sum())
	}
	fmt.Println(D.String())
}

func TestHistoIO(Te *testing.T) {
	fmt.Println("Histogram JSON output test!")
	M := NewMatrix(3, 3, []float64{0, 1, 2, 3, 4, 8})
	M.Fill()
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	M.NewHisto(0, 1, nil, rawdata)
	v := M.View(0, 1)
	fmt.Println(v.String())
	j, err := json.Marshal(M)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("JSON:", string(j))
	M2 := new(Matrix)
	err = json.Unmarshal(j, M2)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := M2.Dims()
	if r != 3 || c != 3 {
		Te.Errorf("matrix shape after the roundtrip: got %dx%d, want 3x3", r, c)
	}
	v2 := M2.View(0, 1)
	for x := 0.5; x < 8; x++ {
		if v.Value(x) != v2.Value(x) {
			Te.Errorf("histogram changed in the roundtrip at %3.1f: %f vs %f", x, v.Value(x), v2.Value(x))
		}
	}
}

func TestHistoCombine(Te *testing.T) {
	edges := []float64{0, 1, 2, 3}
	a := NewMatrix(1, 2, edges)
	b := NewMatrix(1, 2, edges)
	dest := NewMatrix(1, 2, edges)
	a.Fill()
	b.Fill()
	dest.Fill()
	a.AddData(0, 0, 0.5, 1.5, 1.7)
	b.AddData(0, 0, 0.5, 2.5)
	sub := func(x, y, d *Data) { d.Sub(x, y, true) }
	MatrixCombine(sub, a, b, dest)
	d := dest.View(0, 0)
	if d.Value(0.5) != 0 || d.Value(1.5) != 2 || d.Value(2.5) != 1 {
		Te.Errorf("combined histogram: got %f %f %f, want 0 2 1", d.Value(0.5), d.Value(1.5), d.Value(2.5))
	}
}

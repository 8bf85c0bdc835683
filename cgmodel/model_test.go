package cgmodel

import (
	"bufio"
	"fmt"
	"math"
	"strings"
	"testing"

	odem "github.com/arrow50311/godem"
	"gonum.org/v1/gonum/mat"
)

func TestReadModelFile(Te *testing.T) {
	M, err := ReadModelFile("../test/ww.cgm")
	if err != nil {
		Te.Fatal(err)
	}
	if M.Name() != "WW-toy" {
		Te.Errorf("model name: got %s, want WW-toy", M.Name())
	}
	if M.NSites() != 4 {
		Te.Errorf("beads: got %d, want 4", M.NSites())
	}
	if M.NPairs() != 3 {
		Te.Errorf("pairs: got %d, want 3", M.NPairs())
	}
	if !M.Linear() {
		Te.Error("every pair in the file is linear in its depth")
	}
	i, j := M.PairSites(0)
	if i != 0 || j != 2 {
		Te.Errorf("first pair sites: got (%d,%d), want (0,2)", i, j)
	}
	i, j = M.PairSites(2)
	if i != 1 || j != 3 {
		Te.Errorf("last pair sites: got (%d,%d), want (1,3)", i, j)
	}
	eps := M.Epsilons()
	want := []float64{1.00, 0.80, 1.20}
	for k := range eps {
		if math.Abs(eps[k]-want[k]) > tol {
			Te.Errorf("depth of pair %d: got %f, want %f", k, eps[k], want[k])
		}
	}
	if k := M.Pairs()[1].Kind; k != "gaussian" {
		Te.Errorf("kind of the second pair: got %s, want gaussian", k)
	}
	masses, err := M.Topology().Masses()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(masses[3]-186.21) > tol {
		Te.Errorf("mass of the last bead: got %f, want 186.21", masses[3])
	}
	fmt.Println("read model", M.Name(), "with", M.NSites(), "beads and", M.NPairs(), "pairs")
}

func TestModelValidation(Te *testing.T) {
	bad := []string{
		"[ beads ]\n1 CA GLY 1 A 57.0\n",
		"[ pairs ]\n1 2 lj1210 1.0 0.5\n",
		"[ beads ]\n1 CA GLY 1 A 57.0\n[ pairs ]\n1 2 lj1210 1.0 0.5\n",
		"[ beads ]\n1 CA GLY 1 A 57.0\n2 CA SER 2 A 87.1\n[ pairs ]\n1 1 lj1210 1.0 0.5\n",
		"[ beads ]\n1 CA GLY 1 A 57.0\n2 CA SER 2 A 87.1\n[ pairs ]\n1 2 morse 1.0 0.5\n",
		"[ beads ]\n1 CA GLY 1 A 57.0\n2 CA SER 2 A 87.1\n[ pairs ]\n1 2 gaussian 1.0 0.5\n",
		"[ beads ]\n1 CA GLY one A 57.0\n2 CA SER 2 A 87.1\n[ pairs ]\n1 2 lj1210 1.0 0.5\n",
	}
	for i, s := range bad {
		_, err := ReadModel(bufio.NewReader(strings.NewReader(s)))
		if err == nil {
			Te.Errorf("model %d should have been rejected", i+1)
			continue
		}
		fmt.Println("rejected as it should:", err)
	}
}

func TestNonlinearModel(Te *testing.T) {
	def := "[ beads ]\n1 CA GLY 1 A 57.0\n2 CA TRP 2 A 186.2\n[ pairs ]\n1 2 expgauss 0.5 0.62 0.05\n"
	M, err := ReadModel(bufio.NewReader(strings.NewReader(def)))
	if err != nil {
		Te.Fatal(err)
	}
	if M.Linear() {
		Te.Error("a model with a saturating Gaussian can't be linear")
	}
	def = "[ beads ]\n1 CA GLY 1 A 57.0\n2 CA TRP 2 A 186.2\n[ pairs ]\n1 2 lj1210 1.0 0.55\n"
	M, err = ReadModel(bufio.NewReader(strings.NewReader(def)))
	if err != nil {
		Te.Fatal(err)
	}
	if !M.Linear() {
		Te.Fatal("a single 12-10 pair should give a linear model")
	}
	M.ForceNonlinear()
	if M.Linear() {
		Te.Error("ForceNonlinear should stick")
	}
}

func TestFittingOptions(Te *testing.T) {
	O, err := ReadFittingOptions("../test/fitting.yaml")
	if err != nil {
		Te.Fatal(err)
	}
	if !O.FRET() {
		Te.Error("the options file asks for a FRET fit")
	}
	if math.Abs(O.TFit-170.0) > tol {
		Te.Errorf("fitting temperature: got %f, want 170.0", O.TFit)
	}
	if math.Abs(O.FRETR0-5.4) > tol {
		Te.Errorf("Förster radius: got %f, want 5.4", O.FRETR0)
	}
	ao := O.AdapterOptions()
	wantbeta := 1 / (odem.GasConstantKJMol * 170.0)
	if math.Abs(ao.Beta()-wantbeta) > tol {
		Te.Errorf("beta: got %f, want %f", ao.Beta(), wantbeta)
	}
	p := ao.Params()
	if len(p) != 2 || p[0] != 0 || p[1] != 2 {
		Te.Errorf("0-based params: got %v, want [0 2]", p)
	}
	fp := ao.FRETPairs()
	if len(fp) != 1 || fp[0] != [2]int{0, 3} {
		Te.Errorf("0-based FRET pairs: got %v, want [[0 3]]", fp)
	}
}

func TestLoad(Te *testing.T) {
	M, O, err := Load("../test/ww.cgm", "../test/fitting.yaml")
	if err != nil {
		Te.Fatal(err)
	}
	if !M.Linear() {
		Te.Error("the options file doesn't force the nonlinear machinery")
	}
	if O.TFit != 170.0 {
		Te.Errorf("fitting temperature: got %f, want 170.0", O.TFit)
	}
	M, O, err = Load("../test/ww.cgm")
	if err != nil {
		Te.Fatal(err)
	}
	if O.TFit != 300 || O.FRET() {
		Te.Error("with no options file the defaults should apply")
	}
	if M.NPairs() != 3 {
		Te.Errorf("pairs: got %d, want 3", M.NPairs())
	}
}

func TestModelPotentials(Te *testing.T) {
	def := `
[ model ]
integration-toy

[ beads ]
1 CA GLY 1 A 57.0
2 CA ALA 2 A 71.0
3 CA SER 3 A 87.0

[ pairs ]
1 2 lj1210   1.0 0.5
2 3 gaussian 2.0 0.6 0.1
`
	M, err := ReadModel(bufio.NewReader(strings.NewReader(def)))
	if err != nil {
		Te.Fatal(err)
	}
	P, err := odem.NewProtein(M, nil) //default options, so beta=1
	if err != nil {
		Te.Fatal(err)
	}
	//first frame at the minima, second away from them
	data := mat.NewDense(2, 2, []float64{
		0.5, 0.6,
		1.0, 0.7,
	})
	energy, gradient, err := P.Potentials(data)
	if err != nil {
		Te.Fatal(err)
	}
	eps := M.Epsilons()
	u := energy(eps)
	lj := 5*math.Pow(0.5, 12) - 6*math.Pow(0.5, 10) //the 12-10 curve at twice r0, for eps=1
	ga := -math.Exp(-0.5)                           //the Gaussian one width out, for eps=1
	want := []float64{3.0, -(1.0*lj + 2.0*ga)}
	if len(u) != 2 {
		Te.Fatalf("energies: got %d frames, want 2", len(u))
	}
	for i := range u {
		if math.Abs(u[i]-want[i]) > 1e-9 {
			Te.Errorf("energy of frame %d: got %f, want %f", i, u[i], want[i])
		}
	}
	grad := gradient(eps)
	if len(grad) != 2 || len(grad[0]) != 2 {
		Te.Fatalf("gradient shape: got %dx%d, want 2x2", len(grad), len(grad[0]))
	}
	if math.Abs(grad[0][0]-1.0) > 1e-9 || math.Abs(grad[1][0]-1.0) > 1e-9 {
		Te.Errorf("gradients at the minima should equal beta: got %f and %f", grad[0][0], grad[1][0])
	}
	//for a linear model the gradient doesn't move with the depths
	grad2 := gradient([]float64{3.14, 42.0})
	for i := range grad {
		for j := range grad[i] {
			if grad[i][j] != grad2[i][j] {
				Te.Fatal("the gradient of a linear model shouldn't depend on eps")
			}
		}
	}
	fmt.Println("energies:", u)
}

func TestNonlinearPotentials(Te *testing.T) {
	def := "[ beads ]\n1 CA GLY 1 A 57.0\n2 CA TRP 2 A 186.2\n[ pairs ]\n1 2 expgauss 0.5 0.6 0.1\n"
	M, err := ReadModel(bufio.NewReader(strings.NewReader(def)))
	if err != nil {
		Te.Fatal(err)
	}
	P, err := odem.NewProtein(M, nil)
	if err != nil {
		Te.Fatal(err)
	}
	data := mat.NewDense(1, 1, []float64{0.6})
	energy, gradient, err := P.Potentials(data)
	if err != nil {
		Te.Fatal(err)
	}
	eps := []float64{0.5}
	u := energy(eps)
	want := 1 - math.Exp(-0.5) //minus the potential at the well center, as beta=1
	if math.Abs(u[0]-want) > 1e-9 {
		Te.Errorf("nonlinear energy: got %f, want %f", u[0], want)
	}
	g := gradient(eps)
	wantg := -math.Exp(-0.5) //the raw eps-derivative, with no kT scaling
	if math.Abs(g[0][0]-wantg) > 1e-9 {
		Te.Errorf("nonlinear gradient: got %f, want %f", g[0][0], wantg)
	}
}

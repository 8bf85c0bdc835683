package cgmodel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	odem "github.com/arrow50311/godem"
)

var fi func(string) []string = strings.Fields
var sf func(string, ...any) string = fmt.Sprintf

// A Pair is one fitted nonbonded interaction between two beads.
// I and J are 0-based bead indexes.
type Pair struct {
	I, J int
	Kind string
	Eps  float64
	Pot  odem.PairPotential
}

// Model is a coarse-grained topology together with the pairwise Hamiltonian
// whose well depths get re-parametrized. It satisfies the Hamiltonian
// interface of the parent package.
type Model struct {
	name   string
	top    *odem.Topology
	pairs  []*Pair
	linear bool
}

// NewModel builds a model from an already-filled topology and pair list,
// for callers that don't go through a model file.
func NewModel(name string, top *odem.Topology, pairs []*Pair) (*Model, error) {
	M := new(Model)
	M.name = name
	M.top = top
	M.pairs = pairs
	if err := M.setup(); err != nil {
		return nil, err
	}
	return M, nil
}

// Name returns the name given in the model file, if any.
func (M *Model) Name() string { return M.name }

// Topology returns the model's beads. The topology is shared, not copied.
func (M *Model) Topology() *odem.Topology { return M.top }

// Pairs returns the model's pair list. The slice and its elements are
// shared, not copied.
func (M *Model) Pairs() []*Pair { return M.pairs }

// NSites returns the number of beads in the model.
func (M *Model) NSites() int { return M.top.Len() }

// NPairs returns the number of fitted pair interactions.
func (M *Model) NPairs() int { return len(M.pairs) }

// PairSites returns the 0-based bead indexes joined by the i-th pair.
// It panics if the index is out of range.
func (M *Model) PairSites(i int) (int, int) {
	if i < 0 || i >= len(M.pairs) {
		panic(odem.PanicMsg(sf("goDem/cgmodel: Requested pair (%d) out of range (%d)", i, len(M.pairs))))
	}
	return M.pairs[i].I, M.pairs[i].J
}

// Pair returns the potential function of the i-th pair.
// It panics if the index is out of range.
func (M *Model) Pair(i int) odem.PairPotential {
	if i < 0 || i >= len(M.pairs) {
		panic(odem.PanicMsg(sf("goDem/cgmodel: Requested pair (%d) out of range (%d)", i, len(M.pairs))))
	}
	return M.pairs[i].Pot
}

// Epsilons returns the current well depths of all pairs, in file order,
// as a fresh slice.
func (M *Model) Epsilons() []float64 {
	ret := make([]float64, len(M.pairs))
	for i, p := range M.pairs {
		ret[i] = p.Eps
	}
	return ret
}

// Linear reports whether every pair potential in the model is linear in its
// well depth, so the faster linear machinery of the parent package applies.
func (M *Model) Linear() bool { return M.linear }

// ForceNonlinear makes the model advertise itself as nonlinear even if all
// its potentials are linear. The nonlinear machinery is always correct for
// a linear model, only slower, and its derivative closures keep the kT
// scaling out, so some fitting setups prefer it. There is no way back, as
// forcing a truly nonlinear model to the linear path would be wrong.
func (M *Model) ForceNonlinear() { M.linear = false }

// setup validates the bead and pair lists and works out linearity.
func (M *Model) setup() error {
	if M.top == nil || M.top.Len() == 0 {
		return fmt.Errorf("model contains no beads")
	}
	if len(M.pairs) == 0 {
		return fmt.Errorf("model contains no pairs")
	}
	n := M.top.Len()
	M.linear = true
	for i, p := range M.pairs {
		if p.Pot == nil {
			return fmt.Errorf("pair %d has no potential function", i+1)
		}
		if p.I < 0 || p.J < 0 || p.I >= n || p.J >= n {
			return fmt.Errorf("pair %d refers to beads (%d,%d) outside the model (%d beads)", i+1, p.I+1, p.J+1, n)
		}
		if p.I == p.J {
			return fmt.Errorf("pair %d joins bead %d with itself", i+1, p.I+1)
		}
		if l, ok := p.Pot.(interface{ LinearInEps() bool }); !ok || !l.LinearInEps() {
			M.linear = false
		}
	}
	return nil
}

// ReadModelFile reads a model definition from the file with the given name.
func ReadModelFile(name string) (*Model, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	M, err := ReadModel(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("Couldn't read the model file %s: %w", name, err)
	}
	return M, nil
}

// ReadModel fills a new Model with data from the given StringReader, which
// must be in the model format described in the package documentation.
// Unknown sections are skipped.
func ReadModel(r StringReader) (*Model, error) {
	h := newHeader()
	M := new(Model)
	M.top = odem.NewTopology()
	current := ""
	var err error
	var s string
	for s, err = r.ReadString('\n'); err == nil; s, err = r.ReadString('\n') {
		s = cleanString(s)
		if s == "" {
			continue
		}
		if h.Is(s) {
			current = h.Which(s)
			continue
		}
		switch current {
		case "model":
			M.name = s
		case "beads":
			var at *odem.Atom
			at, err = beadFromLine(s)
			M.top.AppendAtom(at)
		case "pairs":
			var p *Pair
			p, err = pairFromLine(s)
			M.pairs = append(M.pairs, p)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Couldn't read section %s. Line: %s. Error: %w", current, s, err)
		}
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := M.setup(); err != nil {
		return nil, err
	}
	return M, nil
}

// Reads one bead line: id name resname resid chain mass.
func beadFromLine(s string) (at *odem.Atom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s", r)
		}
	}()
	f := fi(s)
	if len(f) < 6 {
		return nil, fmt.Errorf("ill-formatted bead line: %s", s)
	}
	at = new(odem.Atom)
	id, err := strconv.Atoi(f[0])
	qerr(err)
	at.ID = id
	at.Name = f[1]
	at.MolName = f[2]
	mid, err := strconv.Atoi(f[3])
	qerr(err)
	at.MolID = mid
	at.Chain = f[4]
	mass, err := strconv.ParseFloat(f[5], 64)
	qerr(err)
	at.Mass = mass
	return at, nil
}

// Reads one pair line: i j kind eps r0 [width]. Width is only meaningful for
// the Gaussian kinds. Bead indexes are 1-based in the file.
func pairFromLine(s string) (p *Pair, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s", r)
		}
	}()
	f := fi(s)
	if len(f) < 5 {
		return nil, fmt.Errorf("ill-formatted pair line: %s", s)
	}
	ids, err := parseints(f[0], f[1])
	qerr(err)
	nums, err := parsefloats(f[3:]...)
	qerr(err)
	p = new(Pair)
	p.I = ids[0] - 1
	p.J = ids[1] - 1
	p.Kind = strings.ToLower(f[2])
	p.Eps = nums[0]
	r0 := nums[1]
	var width float64
	if len(nums) > 2 {
		width = nums[2]
	}
	switch p.Kind {
	case "lj1210":
		p.Pot, err = NewLJ1210(r0)
	case "lj126":
		p.Pot, err = NewLJ126(r0)
	case "gaussian":
		p.Pot, err = NewGaussian(r0, width)
	case "expgauss":
		p.Pot, err = NewExpGauss(r0, width)
	default:
		return nil, fmt.Errorf("unsupported pair kind: %s", f[2])
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// StringReader is implemented by bufio.Reader, among others.
type StringReader interface {
	ReadString(byte) (string, error)
}

type header struct {
	wany *regexp.Regexp
	spec map[string]*regexp.Regexp
}

func newHeader() *header {
	h := new(header)
	h.wany = regexp.MustCompile(`\[\p{Zs}*.*\p{Zs}*\]`)
	h.spec = map[string]*regexp.Regexp{
		"model": regexp.MustCompile(`\[\p{Zs}*model\p{Zs}*\]`),
		"beads": regexp.MustCompile(`\[\p{Zs}*beads\p{Zs}*\]`),
		"pairs": regexp.MustCompile(`\[\p{Zs}*pairs\p{Zs}*\]`),
	}
	return h
}

// Is returns true if the line is a section header. Comments must have been
// removed already.
func (h *header) Is(line string) bool {
	return h.wany.MatchString(line)
}

// Which returns the name of the section the header line opens, or an empty
// string for a header the package doesn't know.
func (h *header) Which(line string) string {
	for k, v := range h.spec {
		if v.MatchString(line) {
			return k
		}
	}
	return ""
}

//Utility functions

// Returns a string without comments (sequences starting with ';'),
// trailing and leading spaces, tabs and newlines.
func cleanString(s string) string {
	f := strings.Split(s, ";")[0]
	return strings.Trim(f, "\n\t ")

}

func qerr(err error) {
	if err != nil {
		panic(err.Error())
	}
}

func parseints(s ...string) ([]int, error) {
	r := make([]int, 0, len(s))
	for _, v := range s {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

func parsefloats(s ...string) ([]float64, error) {
	r := make([]float64, 0, len(s))
	for _, v := range s {
		i, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

// Package signal merges per-file, per-strand chromosome arrays into one bundle
// per chromosome while holding at most one chromosome per input in memory.
package signal

import (
	"github.com/dasnellings/contigTools/chrom"
	"github.com/dasnellings/contigTools/strand"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Source yields (chromosome, dense array) pairs in order. *track.Loader
// implements it.
type Source interface {
	Name() string
	Next() bool
	Chrom() string
	Signal() []float64
	Err() error
}

// Bundle holds every input's array for one chromosome. Signal has an entry
// for each strand of the run with one array per input file of that strand,
// in input order. Inputs that did not cover the chromosome contribute zeros.
type Bundle struct {
	Chrom  string
	Signal map[strand.Strand][][]float64
	Total  float64 // sum over all arrays in the bundle
}

// input is the merge state for one source: its position in the bundle and
// its pending head.
type input struct {
	strand strand.Strand
	slot   int
	src    Source
	chrom  string
	idx    int
	signal []float64
	done   bool
}

// Aggregator merges Sources into chromosome bundles ordered by the catalog.
type Aggregator struct {
	cat     *chrom.Catalog
	strands []strand.Strand
	slots   map[strand.Strand]int
	inputs  []*input
	started bool
	emitted int // catalog index of the last merged bundle, -1 before the first
	bundle  Bundle
	err     error
}

// NewAggregator returns an Aggregator over inputs, keyed by strand. Every
// strand key gets at least one slot in each bundle even if it has no sources.
func NewAggregator(cat *chrom.Catalog, inputs map[strand.Strand][]Source) *Aggregator {
	a := &Aggregator{
		cat:     cat,
		strands: maps.Keys(inputs),
		slots:   make(map[strand.Strand]int, len(inputs)),
		emitted: -1,
	}
	slices.Sort(a.strands)
	for _, s := range a.strands {
		a.slots[s] = max(len(inputs[s]), 1)
		for i, src := range inputs[s] {
			a.inputs = append(a.inputs, &input{strand: s, slot: i, src: src})
		}
	}
	return a
}

// Strands returns the strand tags present in every bundle.
func (a *Aggregator) Strands() []strand.Strand {
	return a.strands
}

// Bundle returns the bundle produced by the last call to Next.
func (a *Aggregator) Bundle() Bundle {
	return a.bundle
}

// Err returns the first error reported by a source.
func (a *Aggregator) Err() error {
	return a.err
}

// Next advances to the next chromosome bundle.
func (a *Aggregator) Next() bool {
	a.bundle = Bundle{}
	if a.err != nil {
		return false
	}
	if !a.started {
		a.started = true
		for _, in := range a.inputs {
			if !a.advance(in) {
				return false
			}
		}
	}

	// An input holding a chromosome that was already merged is out of order
	// with the catalog. Its array is emitted on its own.
	for _, in := range a.inputs {
		if in.done || in.idx > a.emitted {
			continue
		}
		log.Warnf("%s returned to chromosome %s after it was merged; emitting it separately", in.src.Name(), in.chrom)
		a.bundle = a.newBundle(in.chrom)
		a.take(in)
		a.fill()
		return a.advance(in)
	}

	minIdx := -1
	for _, in := range a.inputs {
		if !in.done && (minIdx < 0 || in.idx < minIdx) {
			minIdx = in.idx
		}
	}
	if minIdx < 0 {
		return false
	}

	var chr string
	for _, in := range a.inputs {
		if !in.done && in.idx == minIdx {
			chr = in.chrom
			break
		}
	}
	a.bundle = a.newBundle(chr)
	for _, in := range a.inputs {
		if in.done || in.idx != minIdx {
			continue
		}
		a.take(in)
		if !a.advance(in) {
			return false
		}
	}
	a.fill()
	a.emitted = minIdx
	log.Debugf("chromosome %s: total signal %g", chr, a.bundle.Total)
	return true
}

func (a *Aggregator) newBundle(chr string) Bundle {
	b := Bundle{Chrom: chr, Signal: make(map[strand.Strand][][]float64, len(a.strands))}
	for _, s := range a.strands {
		b.Signal[s] = make([][]float64, a.slots[s])
	}
	return b
}

// take moves the pending head of in into the current bundle.
func (a *Aggregator) take(in *input) {
	a.bundle.Signal[in.strand][in.slot] = in.signal
	a.bundle.Total += floats.Sum(in.signal)
	in.signal = nil
}

// fill replaces every empty slot of the current bundle with zeros.
func (a *Aggregator) fill() {
	size, _ := a.cat.Size(a.bundle.Chrom)
	for _, s := range a.strands {
		for i := range a.bundle.Signal[s] {
			if a.bundle.Signal[s][i] == nil {
				a.bundle.Signal[s][i] = make([]float64, size)
			}
		}
	}
}

// advance pulls the next head from in. It returns false only on error.
func (a *Aggregator) advance(in *input) bool {
	if in.src.Next() {
		in.chrom = in.src.Chrom()
		in.signal = in.src.Signal()
		idx, found := a.cat.Index(in.chrom)
		if !found {
			// sources only report catalog chromosomes; treat anything else as
			// already merged so it is emitted on its own
			idx = -1
		}
		in.idx = idx
		return true
	}
	in.done = true
	in.chrom, in.signal = "", nil
	if err := in.src.Err(); err != nil {
		a.err = err
		a.bundle = Bundle{}
		return false
	}
	return true
}

// Package call drives a contig calling run: it opens the bedGraph inputs,
// merges them per chromosome, calls and filters contigs, and writes the
// results.
package call

import (
	"io"
	"strings"

	"github.com/dasnellings/contigTools/chrom"
	"github.com/dasnellings/contigTools/contig"
	"github.com/dasnellings/contigTools/signal"
	"github.com/dasnellings/contigTools/strand"
	"github.com/dasnellings/contigTools/track"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
)

// Result holds the contigs of a run and the library depth used for bpkm.
type Result struct {
	Contigs []contig.Contig
	Total   float64 // summed signal over every chromosome, strand and file
}

// Call runs contig calling as configured by opts and writes the output file.
// The output file is only created once every input has been read.
func Call(opts Options) error {
	res, err := run(opts)
	if err != nil {
		return err
	}
	out := fileio.EasyCreate(opts.Output)
	err = Write(out, opts.Format, opts.Separator, res)
	exception.PanicOnErr(out.Close())
	return err
}

// Run is Call writing to out instead of opts.Output.
func Run(opts Options, out io.Writer) error {
	res, err := run(opts)
	if err != nil {
		return err
	}
	return Write(out, opts.Format, opts.Separator, res)
}

func run(opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	cat, err := chrom.Read(opts.ChromFile)
	if err != nil {
		return Result{}, err
	}
	log.Debugf("read %d chromosomes from %s: %s", cat.Len(), opts.ChromFile, strings.Join(cat.Names(), " "))
	log.Tracef("chromosome sizes:\n%s", cat)

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			exception.PanicOnErr(c.Close())
		}
	}()
	inputs := make(map[strand.Strand][]signal.Source)
	files := map[strand.Strand][]string{strand.Unstranded: opts.Plus}
	if opts.Stranded() {
		files = map[strand.Strand][]string{strand.Plus: opts.Plus, strand.Minus: opts.Minus}
	}
	for _, s := range strand.Order(opts.Stranded()) {
		for _, path := range files[s] {
			r, err := track.Open(path, opts.Gzip)
			if err != nil {
				return Result{}, err
			}
			closers = append(closers, r)
			log.Infof("%s\t%s", s, path)
			inputs[s] = append(inputs[s], track.NewLoader(r, path, cat))
		}
	}

	res, err := Contigs(cat, inputs, opts)
	if err != nil {
		return Result{}, err
	}
	if opts.Sort {
		SortContigs(res.Contigs, cat)
	}
	return res, nil
}

// Contigs merges inputs chromosome by chromosome and returns every contig that
// passes the thresholds in opts. Contig ids count up from 1 in discovery
// order. Sources keyed by Plus and Minus are checked against each other;
// ids are assigned before the antisense check, so filtered contigs leave
// gaps.
func Contigs(cat *chrom.Catalog, inputs map[strand.Strand][]signal.Source, opts Options) (Result, error) {
	var res Result
	th := opts.Thresholds()
	agg := signal.NewAggregator(cat, inputs)
	id := 1
	for agg.Next() {
		b := agg.Bundle()
		res.Total += b.Total
		var called, kept int
		for _, s := range agg.Strands() {
			var anti [][]float64
			if s.IsStranded() {
				anti = b.Signal[s.Antisense()]
			}
			for _, c := range contig.Scored(b.Signal[s], anti, th) {
				c.Chrom = b.Chrom
				c.Strand = s
				c.ID = id
				id++
				called++
				if !s.IsStranded() || c.CheckAntisense(opts.MaxAnti) {
					res.Contigs = append(res.Contigs, c)
					kept++
				}
			}
		}
		log.Infof("%s: %d contigs called, %d kept", b.Chrom, called, kept)
	}
	if err := agg.Err(); err != nil {
		return Result{}, err
	}
	log.Infof("%d contigs, total signal %g", len(res.Contigs), res.Total)
	return res, nil
}

// SortContigs orders contigs by catalog chromosome order, then start, then
// stop. Ties keep discovery order.
func SortContigs(contigs []contig.Contig, cat *chrom.Catalog) {
	slices.SortStableFunc(contigs, func(a, b contig.Contig) int {
		switch {
		case a.Chrom != b.Chrom && cat.Before(a.Chrom, b.Chrom):
			return -1
		case a.Chrom != b.Chrom:
			return 1
		case a.Start != b.Start:
			return a.Start - b.Start
		default:
			return a.Stop - b.Stop
		}
	})
}

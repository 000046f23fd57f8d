// Package summary describes a contig call set: counts, length and bpkm
// distributions, and histograms of contig length.
package summary

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dasnellings/contigTools/strand"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Record is one line of contig calling tsv output, without per track scores.
type Record struct {
	Chrom    string
	Start    int
	Stop     int
	ID       int
	BedScore int
	Strand   strand.Strand
	Bpkm     float64
}

func (r Record) Len() int {
	return r.Stop - r.Start
}

func parseLine(line, sep string) (Record, error) {
	var ans Record
	var err error
	words := strings.Split(line, sep)
	if len(words) < 7 {
		return ans, errors.Errorf("expected at least 7 fields, found %d", len(words))
	}
	ans.Chrom = words[0]
	if ans.Start, err = strconv.Atoi(words[1]); err != nil {
		return ans, err
	}
	if ans.Stop, err = strconv.Atoi(words[2]); err != nil {
		return ans, err
	}
	if ans.ID, err = strconv.Atoi(words[3]); err != nil {
		return ans, err
	}
	if ans.BedScore, err = strconv.Atoi(words[4]); err != nil {
		return ans, err
	}
	if ans.Strand, err = strand.Parse(words[5]); err != nil {
		return ans, err
	}
	if ans.Bpkm, err = strconv.ParseFloat(words[6], 64); err != nil {
		return ans, err
	}
	return ans, nil
}

// Read parses a contig tsv file written with separator sep. The name
// "stdin" reads standard input.
func Read(filename, sep string) ([]Record, error) {
	if filename != "stdin" {
		if _, err := os.Stat(filename); err != nil {
			return nil, errors.Wrapf(err, "contig file %s", filename)
		}
	}
	file := fileio.EasyOpen(filename)
	defer func() {
		exception.PanicOnErr(file.Close())
	}()
	var answer []Record
	var line string
	var done bool
	var lineNum int
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		if line == "" {
			continue
		}
		r, err := parseLine(line, sep)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: record %d", filename, lineNum)
		}
		answer = append(answer, r)
	}
	return answer, nil
}

// Stats describes a call set.
type Stats struct {
	Count        int
	PerStrand    map[string]int
	PerChrom     map[string]int
	TotalBases   int
	MeanLength   float64
	MedianLength float64
	StdDevLength float64
	MaxLength    int
	MeanBpkm     float64
	MedianBpkm   float64
}

// Summarize computes Stats over records.
func Summarize(records []Record) Stats {
	s := Stats{
		Count:     len(records),
		PerStrand: make(map[string]int),
		PerChrom:  make(map[string]int),
	}
	if len(records) == 0 {
		return s
	}
	lengths := make([]float64, len(records))
	bpkm := make([]float64, len(records))
	for i, r := range records {
		s.PerStrand[r.Strand.String()]++
		s.PerChrom[r.Chrom]++
		s.TotalBases += r.Len()
		s.MaxLength = max(s.MaxLength, r.Len())
		lengths[i] = float64(r.Len())
		bpkm[i] = r.Bpkm
	}
	slices.Sort(lengths)
	slices.Sort(bpkm)
	s.MeanLength = stat.Mean(lengths, nil)
	s.MedianLength = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	if len(lengths) > 1 {
		s.StdDevLength = stat.StdDev(lengths, nil)
	}
	s.MeanBpkm = stat.Mean(bpkm, nil)
	s.MedianBpkm = stat.Quantile(0.5, stat.Empirical, bpkm, nil)
	return s
}

// Write prints s as a two column table.
func (s Stats) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "contigs\t%d\n", s.Count)
	strands := maps.Keys(s.PerStrand)
	slices.Sort(strands)
	for _, k := range strands {
		fmt.Fprintf(tw, "strand %s\t%d\n", k, s.PerStrand[k])
	}
	fmt.Fprintf(tw, "chromosomes\t%d\n", len(s.PerChrom))
	fmt.Fprintf(tw, "bases\t%d\n", s.TotalBases)
	fmt.Fprintf(tw, "mean length\t%.1f\n", s.MeanLength)
	fmt.Fprintf(tw, "median length\t%.1f\n", s.MedianLength)
	fmt.Fprintf(tw, "sd length\t%.1f\n", s.StdDevLength)
	fmt.Fprintf(tw, "max length\t%d\n", s.MaxLength)
	fmt.Fprintf(tw, "mean bpkm\t%.3g\n", s.MeanBpkm)
	fmt.Fprintf(tw, "median bpkm\t%.3g\n", s.MedianBpkm)
	return tw.Flush()
}

// LengthCounts bins log10 contig length into bins equal-width bins between
// zero and the longest contig.
func LengthCounts(records []Record, bins int) []float64 {
	counts := make([]float64, bins)
	if bins == 0 || len(records) == 0 {
		return counts
	}
	var top float64
	for _, r := range records {
		top = math.Max(top, logLen(r))
	}
	if top == 0 {
		counts[0] = float64(len(records))
		return counts
	}
	for _, r := range records {
		b := int(logLen(r) / top * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return counts
}

// logLen is log10 of the record length; empty records count as length 1.
func logLen(r Record) float64 {
	return math.Log10(float64(max(r.Len(), 1)))
}

// Histogram renders the log10 length distribution as a terminal plot.
func Histogram(records []Record, bins int) string {
	if len(records) == 0 || bins < 2 {
		return ""
	}
	return asciigraph.Plot(LengthCounts(records, bins),
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("log10 contig length, %d bins", bins)))
}

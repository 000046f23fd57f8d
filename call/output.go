package call

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dasnellings/contigTools/contig"
	"github.com/dasnellings/contigTools/strand"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/bed"
)

// writers maps output formats to their writer.
var writers = map[string]func(w io.Writer, sep string, res Result) error{
	"tsv": writeTsv,
	"bed": writeBed,
}

// Formats returns the supported output formats.
func Formats() []string {
	return []string{"tsv", "bed"}
}

// Write writes res to w in the given format.
func Write(w io.Writer, format, sep string, res Result) error {
	fn, found := writers[format]
	if !found {
		return errors.Errorf("unknown output format %q", format)
	}
	return fn(w, sep, res)
}

// FormatTsv renders one contig as chrom, start, stop, id, bedscore, strand,
// bpkm, per track scores and per track antisense scores.
func FormatTsv(c *contig.Contig, total float64, sep string) string {
	fields := make([]string, 0, 7+len(c.Scores)+len(c.AntiScores))
	fields = append(fields,
		c.Chrom,
		strconv.Itoa(c.Start),
		strconv.Itoa(c.Stop),
		strconv.Itoa(c.ID),
		strconv.Itoa(c.BedScore(total)),
		c.Strand.String(),
		fmt.Sprintf("%.3g", c.Bpkm(total)))
	for _, v := range c.Scores {
		fields = append(fields, formatScore(v))
	}
	for _, v := range c.AntiScores {
		fields = append(fields, formatScore(v))
	}
	return strings.Join(fields, sep)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeTsv(w io.Writer, sep string, res Result) error {
	for i := range res.Contigs {
		if _, err := fmt.Fprintln(w, FormatTsv(&res.Contigs[i], res.Total, sep)); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}

// ToBed converts a contig to a BED6 record named by its id.
func ToBed(c *contig.Contig, total float64) bed.Bed {
	b := bed.Bed{
		Chrom:             c.Chrom,
		ChromStart:        c.Start,
		ChromEnd:          c.Stop,
		Name:              strconv.Itoa(c.ID),
		Score:             c.BedScore(total),
		FieldsInitialized: 6,
	}
	switch c.Strand {
	case strand.Plus:
		b.Strand = bed.Positive
	case strand.Minus:
		b.Strand = bed.Negative
	default:
		b.Strand = bed.None
	}
	return b
}

func writeBed(w io.Writer, _ string, res Result) error {
	for i := range res.Contigs {
		bed.WriteBed(w, ToBed(&res.Contigs[i], res.Total))
	}
	return nil
}

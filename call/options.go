package call

import (
	"math"
	"strconv"
	"strings"

	"github.com/dasnellings/contigTools/contig"
	"github.com/pkg/errors"
)

// Options configures a contig calling run.
type Options struct {
	ChromFile string   // chromosome name and length file
	Plus      []string // plus strand (or unstranded) bedGraph files
	Minus     []string // minus strand bedGraph files, paired with Plus
	Output    string   // output path, "stdout" by default
	Format    string   // "tsv" or "bed"
	Gzip      bool     // decompress every input regardless of file name
	Sort      bool     // sort output by chromosome, start, stop
	Separator string   // tsv field separator

	MinSig   float64 // minimum pooled score
	MaxAnti  float64 // antisense to sense ratio that flags an artifact
	MinDepth float64 // depth threshold for contig positions
	MinCov   float64 // minimum fraction of covered positions within a contig
	MaxGap   int     // maximum gap length joined into one contig
}

// DefaultOptions holds the default thresholds and output settings.
var DefaultOptions = Options{
	Output:    "stdout",
	Format:    "tsv",
	Separator: "\t",
	MinSig:    100,
	MaxAnti:   0.1,
	MinDepth:  1,
	MinCov:    0.5,
	MaxGap:    10,
}

// Stranded reports whether minus strand files were given.
func (o *Options) Stranded() bool {
	return len(o.Minus) > 0
}

// Thresholds returns the contig calling thresholds.
func (o *Options) Thresholds() contig.Thresholds {
	return contig.Thresholds{
		MinSig:   o.MinSig,
		MinCov:   o.MinCov,
		MinDepth: o.MinDepth,
		MaxGap:   o.MaxGap,
	}
}

// Validate checks the options before any input is opened.
func (o *Options) Validate() error {
	if o.ChromFile == "" {
		return errors.New("a chromosome file is required")
	}
	if len(o.Plus) == 0 {
		return errors.New("at least one plus strand or unstranded bedGraph file is required")
	}
	if o.Stranded() && len(o.Plus) != len(o.Minus) {
		return errors.Errorf("unequal number of + and - strand files (%d and %d)", len(o.Plus), len(o.Minus))
	}
	if _, found := writers[o.Format]; !found {
		return errors.Errorf("unknown output format %q", o.Format)
	}
	if o.Separator == "" {
		return errors.New("output separator must not be empty")
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"minSig", o.MinSig}, {"maxAnti", o.MaxAnti}, {"minDepth", o.MinDepth}, {"minCov", o.MinCov}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return errors.Errorf("%s must be a finite number", v.name)
		}
	}
	if o.MaxAnti < 0 {
		return errors.New("maxAnti must be >= 0")
	}
	if o.MinCov < 0 || o.MinCov >= 1 {
		return errors.New("minCov must be in [0, 1)")
	}
	if o.MaxGap < 0 {
		return errors.New("maxGap must be >= 0")
	}
	return nil
}

// UnescapeSeparator interprets Go escape sequences such as \t in a separator
// given on the command line. A bare double quote stands for itself.
func UnescapeSeparator(sep string) (string, error) {
	quoted := new(strings.Builder)
	quoted.WriteByte('"')
	for i := 0; i < len(sep); i++ {
		switch {
		case sep[i] == '\\' && i+1 < len(sep):
			quoted.WriteByte(sep[i])
			i++
			quoted.WriteByte(sep[i])
		case sep[i] == '"':
			quoted.WriteString(`\"`)
		default:
			quoted.WriteByte(sep[i])
		}
	}
	quoted.WriteByte('"')
	ans, err := strconv.Unquote(quoted.String())
	if err != nil {
		return "", errors.Wrapf(err, "malformed separator %q", sep)
	}
	return ans, nil
}

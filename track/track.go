// Package track rebuilds dense per-base signal arrays from bedGraph records,
// one chromosome at a time.
package track

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dasnellings/contigTools/chrom"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ParseError reports a bedGraph record that could not be parsed.
type ParseError struct {
	Name string // input name
	Line int    // 1-based line number
	Text string // offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: malformed record %q: %v", e.Name, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Loader reads a bedGraph stream sorted by chromosome and start, and yields
// one dense signal array per chromosome in order of first appearance.
// Usage follows bufio.Scanner:
//
//	for l.Next() {
//		use(l.Chrom(), l.Signal())
//	}
//	if err := l.Err(); err != nil { ... }
type Loader struct {
	name    string
	cat     *chrom.Catalog
	scanner *bufio.Scanner
	lineNum int
	skip    map[string]bool

	// chromosome currently being filled
	currChrom  string
	currSignal []float64

	// last completed chromosome
	chrom  string
	signal []float64

	done bool
	err  error
}

// NewLoader returns a Loader reading from r. The name identifies the input
// in log messages and errors.
func NewLoader(r io.Reader, name string, cat *chrom.Catalog) *Loader {
	return &Loader{
		name:    name,
		cat:     cat,
		scanner: bufio.NewScanner(r),
		skip:    make(map[string]bool),
	}
}

// Name returns the input name given to NewLoader.
func (l *Loader) Name() string {
	return l.name
}

// Chrom returns the chromosome of the array produced by the last call to Next.
func (l *Loader) Chrom() string {
	return l.chrom
}

// Signal returns the array produced by the last call to Next. Ownership
// passes to the caller; the Loader never touches it again.
func (l *Loader) Signal() []float64 {
	return l.signal
}

// Err returns the first error encountered, if any.
func (l *Loader) Err() error {
	return l.err
}

// Next advances to the next completed chromosome. It returns false at the end
// of input or on error.
func (l *Loader) Next() bool {
	l.chrom, l.signal = "", nil
	if l.done {
		return false
	}
	for l.scanner.Scan() {
		l.lineNum++
		line := l.scanner.Text()
		words := strings.Fields(line)
		if len(words) == 0 || isHeader(words[0]) {
			continue
		}
		chr := words[0]
		if l.skip[chr] {
			continue
		}
		var flushed bool
		if chr != l.currChrom {
			flushed = l.flush()
			size, found := l.cat.Size(chr)
			if !found {
				log.Warnf("chromosome %s in %s not in chromosome file, skipping", chr, l.name)
				l.skip[chr] = true
				if flushed {
					return true
				}
				continue
			}
			l.currChrom = chr
			l.currSignal = make([]float64, size)
		}
		if err := l.apply(words, line); err != nil {
			l.fail(err)
			return false
		}
		if flushed {
			return true
		}
	}
	if err := l.scanner.Err(); err != nil {
		l.fail(errors.Wrapf(err, "reading %s", l.name))
		return false
	}
	l.done = true
	return l.flush()
}

// flush moves the in-progress chromosome to the output slot.
func (l *Loader) flush() bool {
	if l.currChrom == "" {
		return false
	}
	l.chrom, l.signal = l.currChrom, l.currSignal
	l.currChrom, l.currSignal = "", nil
	return true
}

func (l *Loader) fail(err error) {
	l.err = err
	l.done = true
	l.chrom, l.signal = "", nil
	l.currChrom, l.currSignal = "", nil
}

// apply writes one record into the in-progress array. Later records
// overwrite earlier ones where they overlap.
func (l *Loader) apply(words []string, line string) error {
	if len(words) < 4 {
		return l.parseError(line, errors.Errorf("expected 4 fields, found %d", len(words)))
	}
	start, err := strconv.Atoi(words[1])
	if err != nil {
		return l.parseError(line, err)
	}
	stop, err := strconv.Atoi(words[2])
	if err != nil {
		return l.parseError(line, err)
	}
	score, err := strconv.ParseFloat(words[3], 64)
	if err != nil {
		return l.parseError(line, err)
	}
	if start < 0 || stop < start {
		return l.parseError(line, errors.Errorf("invalid interval [%d, %d)", start, stop))
	}
	if stop > len(l.currSignal) {
		stop = len(l.currSignal)
	}
	for i := start; i < stop; i++ {
		l.currSignal[i] = score
	}
	return nil
}

func (l *Loader) parseError(line string, err error) error {
	return &ParseError{Name: l.name, Line: l.lineNum, Text: line, Err: err}
}

func isHeader(first string) bool {
	return strings.HasPrefix(first, "#") || first == "track" || first == "browser"
}

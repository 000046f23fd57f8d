// Package contig calls contiguous regions of elevated signal from pooled
// coverage arrays and scores them against the individual tracks.
package contig

import (
	"math"

	"github.com/dasnellings/contigTools/strand"
	"github.com/vertgenlab/gonomics/numbers"
	"gonum.org/v1/gonum/floats"
)

// Contig is a called region [Start, Stop) on one chromosome and strand.
type Contig struct {
	Chrom      string
	Strand     strand.Strand
	Start      int
	Stop       int
	Score      float64   // pooled signal over the region
	Scores     []float64 // per sense track
	AntiScores []float64 // per antisense track, empty when unstranded
	ID         int
}

func (c *Contig) Len() int {
	return c.Stop - c.Start
}

// Bpkm returns bases per kilobase of contig per million bases of library
// depth. A non-positive total gives 0.
func (c *Contig) Bpkm(total float64) float64 {
	if total <= 0 || c.Len() <= 0 {
		return 0
	}
	return c.Score / float64(c.Len()) * 1000 / total * 1000000
}

// BedScore converts Bpkm to the 0-1000 score column used by UCSC browsers.
func (c *Contig) BedScore(total float64) int {
	bpkm := c.Bpkm(total)
	if bpkm <= 0 || math.IsNaN(bpkm) {
		return 0
	}
	if math.IsInf(bpkm, 1) {
		return 1000
	}
	return numbers.Min(1000, int(math.Round(100*math.Log(100*bpkm+1))))
}

// CheckAntisense reports whether the contig is a genuine call rather than a
// shadow of antisense signal: true if any track pair has
// antiscore*maxAnti < score.
func (c *Contig) CheckAntisense(maxAnti float64) bool {
	for i := range c.Scores {
		if i >= len(c.AntiScores) {
			break
		}
		if c.AntiScores[i]*maxAnti < c.Scores[i] {
			return true
		}
	}
	return false
}

// Raw returns the maximal runs of positions with signal >= minDepth, joining
// runs separated by at most maxGap positions. Each contig's Score is the sum
// of signal over the whole run, gaps included.
func Raw(signal []float64, maxGap int, minDepth float64) []Contig {
	var ans []Contig
	start, last := -1, -1
	for p, v := range signal {
		if !(v >= minDepth) {
			continue
		}
		if start >= 0 && p-last > maxGap+1 {
			ans = append(ans, raw(signal, start, last+1))
			start = -1
		}
		if start < 0 {
			start = p
		}
		last = p
	}
	if start >= 0 {
		ans = append(ans, raw(signal, start, last+1))
	}
	return ans
}

func raw(signal []float64, start, stop int) Contig {
	return Contig{Start: start, Stop: stop, Score: floats.Sum(signal[start:stop])}
}

package contig

import (
	"gonum.org/v1/gonum/floats"
)

// Thresholds controls contig calling and filtering.
type Thresholds struct {
	MinSig   float64 // pooled score must exceed this
	MinCov   float64 // fraction of covered positions must exceed this
	MinDepth float64 // pooled depth for a position to seed a contig
	MaxGap   int     // longest run of low positions joined into a contig
}

// Pool returns the elementwise sum of tracks. The inputs are not modified.
func Pool(tracks [][]float64) []float64 {
	if len(tracks) == 0 {
		return nil
	}
	pooled := make([]float64, len(tracks[0]))
	copy(pooled, tracks[0])
	for _, t := range tracks[1:] {
		floats.Add(pooled, t)
	}
	return pooled
}

// Coverage returns the fraction of positions in signal with a positive value.
func Coverage(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var covered int
	for _, v := range signal {
		if v > 0 {
			covered++
		}
	}
	return float64(covered) / float64(len(signal))
}

// Scored calls contigs on the pooled sense tracks and keeps those whose
// pooled score exceeds MinSig and whose coverage exceeds MinCov. Kept contigs
// carry the sum of every sense and antisense track over the region.
func Scored(sense, anti [][]float64, th Thresholds) []Contig {
	pooled := Pool(sense)
	var ans []Contig
	for _, c := range Raw(pooled, th.MaxGap, th.MinDepth) {
		if !(c.Score > th.MinSig && Coverage(pooled[c.Start:c.Stop]) > th.MinCov) {
			continue
		}
		c.Scores = sums(sense, c.Start, c.Stop)
		c.AntiScores = sums(anti, c.Start, c.Stop)
		ans = append(ans, c)
	}
	return ans
}

func sums(tracks [][]float64, start, stop int) []float64 {
	ans := make([]float64, len(tracks))
	for i := range tracks {
		ans[i] = floats.Sum(tracks[i][start:stop])
	}
	return ans
}

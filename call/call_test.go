package call

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasnellings/contigTools/chrom"
	"github.com/dasnellings/contigTools/contig"
	"github.com/dasnellings/contigTools/signal"
	"github.com/dasnellings/contigTools/strand"
	"github.com/dasnellings/contigTools/track"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *chrom.Catalog {
	c, err := chrom.ReadFrom(strings.NewReader("chr1\t100\nchr2\t50\n"))
	require.NoError(t, err)
	return c
}

func loader(cat *chrom.Catalog, name, content string) signal.Source {
	return track.NewLoader(strings.NewReader(content), name, cat)
}

func permissive() Options {
	opts := DefaultOptions
	opts.MinSig = 0
	opts.MinCov = 0
	opts.MinDepth = 1
	opts.MaxGap = 0
	return opts
}

func TestContigsStrandedScenario(t *testing.T) {
	cat := testCatalog(t)
	inputs := map[strand.Strand][]signal.Source{
		strand.Plus: {
			loader(cat, "p1", "chr1\t5\t15\t1\n"),
			loader(cat, "p2", "chr1\t5\t10\t1\nchr1\t10\t15\t1\n"),
		},
		strand.Minus: {
			loader(cat, "m1", "chr1\t5\t15\t0.1\n"),
		},
	}
	opts := permissive()
	opts.Minus = []string{"m1"}
	res, err := Contigs(cat, inputs, opts)
	require.NoError(t, err)
	require.Len(t, res.Contigs, 1)
	c := res.Contigs[0]
	assert.Equal(t, "chr1", c.Chrom)
	assert.Equal(t, strand.Plus, c.Strand)
	assert.Equal(t, 5, c.Start)
	assert.Equal(t, 15, c.Stop)
	assert.Equal(t, 20.0, c.Score)
	assert.Equal(t, []float64{10, 10}, c.Scores)
	assert.InDeltaSlice(t, []float64{1}, c.AntiScores, 1e-9)
	assert.Equal(t, 1, c.ID)
	assert.InDelta(t, 21.0, res.Total, 1e-9)
}

func TestContigsAntisenseArtifactKeepsIdGap(t *testing.T) {
	cat := testCatalog(t)
	inputs := map[strand.Strand][]signal.Source{
		strand.Plus:  {loader(cat, "p", "chr1\t5\t15\t1\n")},
		strand.Minus: {loader(cat, "m", "chr1\t5\t15\t50\n")},
	}
	opts := permissive()
	opts.Minus = []string{"m"}
	res, err := Contigs(cat, inputs, opts)
	require.NoError(t, err)
	require.Len(t, res.Contigs, 1)
	assert.Equal(t, strand.Minus, res.Contigs[0].Strand)
	assert.Equal(t, 2, res.Contigs[0].ID)
	assert.Equal(t, []float64{500}, res.Contigs[0].Scores)
	assert.Equal(t, []float64{10}, res.Contigs[0].AntiScores)
}

func TestContigsIdsAcrossChromosomes(t *testing.T) {
	cat := testCatalog(t)
	inputs := map[strand.Strand][]signal.Source{
		strand.Unstranded: {
			loader(cat, "a", "chr1\t0\t2\t1\nchr1\t10\t12\t1\nchr2\t3\t4\t1\n"),
		},
	}
	res, err := Contigs(cat, inputs, permissive())
	require.NoError(t, err)
	require.Len(t, res.Contigs, 3)
	for i, c := range res.Contigs {
		assert.Equal(t, i+1, c.ID)
		assert.Equal(t, strand.Unstranded, c.Strand)
		assert.Empty(t, c.AntiScores)
	}
	assert.Equal(t, "chr2", res.Contigs[2].Chrom)
	assert.Equal(t, 5.0, res.Total)
}

func TestContigsParseError(t *testing.T) {
	cat := testCatalog(t)
	inputs := map[strand.Strand][]signal.Source{
		strand.Unstranded: {loader(cat, "bad", "chr1\t0\t2\t1\nchr1\t3\t4\tNaNx\n")},
	}
	_, err := Contigs(cat, inputs, permissive())
	var perr *track.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
}

func TestSortContigs(t *testing.T) {
	cat := testCatalog(t)
	contigs := []contig.Contig{
		{Chrom: "chr2", Start: 1, Stop: 5, ID: 1},
		{Chrom: "chr1", Start: 9, Stop: 10, ID: 2},
		{Chrom: "chr1", Start: 3, Stop: 8, ID: 3},
		{Chrom: "chr1", Start: 3, Stop: 4, ID: 4},
		{Chrom: "chr1", Start: 3, Stop: 4, ID: 5},
	}
	SortContigs(contigs, cat)
	var ids []int
	for _, c := range contigs {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int{4, 5, 3, 2, 1}, ids)
}

func TestFormatTsv(t *testing.T) {
	c := contig.Contig{Chrom: "chr1", Strand: strand.Plus, Start: 5, Stop: 15, Score: 20, Scores: []float64{10, 10}, AntiScores: []float64{1.5}, ID: 7}
	// bpkm = 20 / 10 * 1000 / 1e9 * 1e6 = 2; bedscore = round(100 * ln(201)) = 530
	assert.Equal(t, "chr1,5,15,7,530,+,2,10,10,1.5", FormatTsv(&c, 1e9, ","))
}

func TestWriteBed(t *testing.T) {
	res := Result{
		Contigs: []contig.Contig{{Chrom: "chr1", Strand: strand.Minus, Start: 5, Stop: 15, Score: 20, ID: 3}},
		Total:   1e9,
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "bed", "\t", res))
	fields := strings.Fields(buf.String())
	require.GreaterOrEqual(t, len(fields), 5)
	assert.Equal(t, []string{"chr1", "5", "15", "3", "530"}, fields[:5])

	assert.Error(t, Write(&buf, "vcf", "\t", res))
}

func TestValidate(t *testing.T) {
	valid := DefaultOptions
	valid.ChromFile = "genome.sizes"
	valid.Plus = []string{"a.bg"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"no chromosome file", func(o *Options) { o.ChromFile = "" }},
		{"no inputs", func(o *Options) { o.Plus = nil }},
		{"unequal strands", func(o *Options) { o.Minus = []string{"b.bg", "c.bg"} }},
		{"unknown format", func(o *Options) { o.Format = "vcf" }},
		{"empty separator", func(o *Options) { o.Separator = "" }},
		{"negative gap", func(o *Options) { o.MaxGap = -1 }},
		{"coverage of one", func(o *Options) { o.MinCov = 1 }},
		{"negative maxAnti", func(o *Options) { o.MaxAnti = -0.1 }},
	}
	for _, test := range tests {
		o := valid
		test.modify(&o)
		assert.Error(t, o.Validate(), test.name)
	}
}

func TestUnescapeSeparator(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{`\t`, "\t"},
		{",", ","},
		{`"`, `"`},
		{`\"`, `"`},
		{`","`, `","`},
		{`\t|\t`, "\t|\t"},
		{`\\`, `\`},
	}
	for _, test := range tests {
		sep, err := UnescapeSeparator(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.expected, sep, test.in)
	}
	_, err := UnescapeSeparator(`\`)
	assert.Error(t, err)
	_, err = UnescapeSeparator(`\q`)
	assert.Error(t, err)
}

func TestCall(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}
	opts := permissive()
	opts.ChromFile = write("genome.sizes", "chr1\t100\nchr2\t50\n")
	// chr2 is listed first in the input, and an unknown contig is skipped
	opts.Plus = []string{write("a.bg", "chr2\t0\t5\t4\nchrUn\t0\t5\t9\nchr1\t0\t10\t2\n")}
	opts.Sort = true
	opts.Output = filepath.Join(dir, "contigs.tsv")
	require.NoError(t, Call(opts))

	b, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// total signal is 40: chr1 bpkm = 2 * 1000 / 40 * 1e6, chr2 bpkm = 4 * 1000 / 40 * 1e6
	assert.Equal(t, []string{
		"chr1\t0\t10\t2\t1000\tu\t5e+07\t20",
		"chr2\t0\t5\t1\t1000\tu\t1e+08\t20",
	}, lines)
}

func TestCallRejectsUnequalStrandsBeforeOpening(t *testing.T) {
	opts := DefaultOptions
	opts.ChromFile = "does-not-exist.sizes"
	opts.Plus = []string{"p1.bg", "p2.bg"}
	opts.Minus = []string{"m1.bg"}
	err := Call(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unequal")
}

func TestCallMissingInput(t *testing.T) {
	dir := t.TempDir()
	sizes := filepath.Join(dir, "genome.sizes")
	require.NoError(t, os.WriteFile(sizes, []byte("chr1\t10\n"), 0644))
	opts := DefaultOptions
	opts.ChromFile = sizes
	opts.Plus = []string{filepath.Join(dir, "missing.bg")}
	opts.Output = filepath.Join(dir, "out.tsv")
	err := Call(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.bg")
	_, statErr := os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunStrandedBed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}
	opts := permissive()
	opts.ChromFile = write("genome.sizes", "chr1\t100\n")
	opts.Plus = []string{write("a.plus.bg", "track type=bedGraph\nchr1\t0\t10\t3\n")}
	opts.Minus = []string{write("a.minus.bg", "chr1\t0\t10\t1\n")}
	opts.Format = "bed"

	var buf bytes.Buffer
	require.NoError(t, Run(opts, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"chr1", "0", "10", "1", "1000", "+"}, strings.Fields(lines[0])[:6])
	assert.Equal(t, []string{"chr1", "0", "10", "2", "1000", "-"}, strings.Fields(lines[1])[:6])
}

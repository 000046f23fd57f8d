package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dasnellings/contigTools/call"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

func callUsage(callFlags *flag.FlagSet) {
	fmt.Print(
		"call - call contigs of elevated signal from bedGraph coverage tracks\n\n" +
			"Usage:\n" +
			"  contigtools call [options] -c chrom.sizes -p rep1.plus.bg -p rep2.plus.bg [-m rep1.minus.bg -m rep2.minus.bg] > contigs.tsv\n\n" +
			"Output columns (tsv): chrom, start, stop, id, bedscore, strand, bpkm, per track scores, per track antisense scores\n\n" +
			"Options:\n")
	callFlags.PrintDefaults()
}

// inputFiles is a custom type that gets filled by flag.Parse()
type inputFiles []string

// String to satisfy flag.Value interface
func (i *inputFiles) String() string {
	return strings.Join(*i, " ")
}

// Set to satisfy flag.Value interface
func (i *inputFiles) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// callArgs holds a parsed call command line.
type callArgs struct {
	opts        call.Options
	verbose     int
	logfile     string
	profileMode string
}

// parseCallArgs registers the call flags on callFlags, parses args and maps
// them onto call.Options.
func parseCallArgs(callFlags *flag.FlagSet, args []string) (callArgs, error) {
	var ans callArgs
	defaults := call.DefaultOptions

	var plusFiles, minusFiles inputFiles
	chromFile := callFlags.String("c", "", "File with chromosome names and lengths (first two whitespace separated columns). Defines chromosome order.")
	callFlags.Var(&plusFiles, "p", "Plus strand or unstranded bedGraph file. Declare once per replicate with additional -p flags. Must be sorted by chromosome (in -c order) and start.")
	callFlags.Var(&minusFiles, "m", "Minus strand bedGraph file. Declare once per replicate, in the same order as -p. When given, the run is stranded.")
	output := callFlags.String("o", defaults.Output, "Output file. Ending in .gz compresses the output.")
	format := callFlags.String("format", defaults.Format, "Output format: "+strings.Join(call.Formats(), " or ")+".")
	gz := callFlags.Bool("gz", defaults.Gzip, "Input files are gzipped regardless of file name. Files ending in .gz are always decompressed.")
	sortOut := callFlags.Bool("sort", defaults.Sort, "Sort output by chromosome, start, stop. Default is discovery order.")
	sep := callFlags.String("sep", defaults.Separator, "Output field separator for tsv output. Escape sequences such as \\t are interpreted.")
	minSig := callFlags.Float64("minSig", defaults.MinSig, "Minimum pooled score of a contig.")
	maxAnti := callFlags.Float64("maxAnti", defaults.MaxAnti, "Max antisense / sense ratio. A stranded contig is kept if antisense * maxAnti < sense for any replicate.")
	minDepth := callFlags.Float64("minDepth", defaults.MinDepth, "Pooled depth threshold for contig positions.")
	minCov := callFlags.Float64("minCov", defaults.MinCov, "Minimal fraction of covered positions within a contig (<1 due to allowed gaps).")
	maxGap := callFlags.Int("maxGap", defaults.MaxGap, "Maximum gap length joined into one contig.")
	verbose := callFlags.Int("v", 0, "Verbosity: 0 warnings, 1 info, 2 debug, 3 trace.")
	logfile := callFlags.String("log", "", "Write log to file instead of stderr.")
	profileMode := callFlags.String("profile", "", "Write a cpu or mem profile to the working directory.")

	if err := callFlags.Parse(args); err != nil {
		return ans, err
	}
	if *chromFile == "" || len(plusFiles) == 0 {
		return ans, errors.New("must specify a chromosome file (-c) and at least one bedGraph (-p)")
	}
	if *profileMode != "" && *profileMode != "cpu" && *profileMode != "mem" {
		return ans, errors.New("-profile must be cpu or mem")
	}

	ans.opts = call.Options{
		ChromFile: *chromFile,
		Plus:      plusFiles,
		Minus:     minusFiles,
		Output:    *output,
		Format:    *format,
		Gzip:      *gz,
		Sort:      *sortOut,
		MinSig:    *minSig,
		MaxAnti:   *maxAnti,
		MinDepth:  *minDepth,
		MinCov:    *minCov,
		MaxGap:    *maxGap,
	}
	var err error
	if ans.opts.Separator, err = call.UnescapeSeparator(*sep); err != nil {
		return ans, err
	}
	if err = ans.opts.Validate(); err != nil {
		return ans, err
	}
	ans.verbose = *verbose
	ans.logfile = *logfile
	ans.profileMode = *profileMode
	return ans, nil
}

func runCall(args []string) {
	callFlags := flag.NewFlagSet("call", flag.ExitOnError)
	callFlags.Usage = func() { callUsage(callFlags) }
	parsed, err := parseCallArgs(callFlags, args)
	if err != nil {
		callFlags.Usage()
		errExit("\nERROR: " + err.Error())
	}

	closeLog, err := setupLogging(parsed.verbose, parsed.logfile)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
	defer closeLog()

	switch parsed.profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	log.Debugf("chromosome file: %s", parsed.opts.ChromFile)
	if err = call.Call(parsed.opts); err != nil {
		errExit("ERROR: " + err.Error())
	}
}

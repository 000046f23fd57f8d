package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dasnellings/contigTools/call"
	"github.com/dasnellings/contigTools/summary"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
)

func summaryUsage(summaryFlags *flag.FlagSet) {
	fmt.Print(
		"summary - summarize a contig call set written by 'contigtools call' (tsv format)\n\n" +
			"Usage:\n" +
			"  contigtools summary [options] -i contigs.tsv [-plot lengths.png]\n\n" +
			"Options:\n")
	summaryFlags.PrintDefaults()
}

func runSummary(args []string) {
	var err error
	summaryFlags := flag.NewFlagSet("summary", flag.ExitOnError)

	input := summaryFlags.String("i", "", "Input contig file written by 'contigtools call'.")
	sep := summaryFlags.String("sep", call.DefaultOptions.Separator, "Field separator of the input file.")
	bins := summaryFlags.Int("bins", 20, "Number of histogram bins.")
	plotFile := summaryFlags.String("plot", "", "Save a length histogram to this file (.png, .pdf or .svg).")
	verbose := summaryFlags.Int("v", 0, "Verbosity: 0 warnings, 1 info, 2 debug, 3 trace.")
	logfile := summaryFlags.String("log", "", "Write log to file instead of stderr.")

	err = summaryFlags.Parse(args)
	exception.PanicOnErr(err)
	summaryFlags.Usage = func() { summaryUsage(summaryFlags) }

	closeLog, err := setupLogging(*verbose, *logfile)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
	defer closeLog()

	if *input == "" {
		summaryFlags.Usage()
		errExit("\nERROR: must specify an input file (-i)")
	}
	if *bins < 2 {
		summaryFlags.Usage()
		errExit("\nERROR: -bins must be >= 2")
	}

	separator, err := call.UnescapeSeparator(*sep)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
	records, err := summary.Read(*input, separator)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
	log.Infof("read %d contigs from %s", len(records), *input)

	err = summary.Summarize(records).Write(os.Stdout)
	exception.PanicOnErr(err)
	if hist := summary.Histogram(records, *bins); hist != "" {
		fmt.Println()
		fmt.Println(hist)
	}

	if *plotFile != "" {
		if err = summary.Plot(records, *bins, *plotFile); err != nil {
			errExit("ERROR: " + err.Error())
		}
		log.Infof("saved plot to %s", *plotFile)
	}
}

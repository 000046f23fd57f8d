package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const version string = "0.1.0"
const gonomicsVersion string = "1.0.1-0.20240426183757-e6c6ab634c20"

type subcommand struct {
	name     string
	function func(args []string)
	blurb    string
}

// SubCommands contains all valid subcommands.
// New subcommands can be added to contigtools by adding a new entry to this array.
var SubCommands = []*subcommand{
	{"call", runCall, "call contigs from stranded or unstranded bedGraph coverage"},
	{"summary", runSummary, "summarize contig lengths and scores of a call set"},
}

func usage() {
	s := new(strings.Builder)
	s.WriteString(
		"Program: contigtools (contig calling from coverage tracks)\n" +
			"Version: " + version + " (gonomics " + gonomicsVersion + ")\n" +
			"\nUsage:\tcontigtools <command> [options]\n\n" +
			"Commands:\n")

	// add subcommand text via tabwriter so the columns align
	w := tabwriter.NewWriter(s, 0, 8, 5, '\t', tabwriter.AlignRight)
	for i := range SubCommands {
		fmt.Fprintf(w, "\t%s\t%s\n", SubCommands[i].name, SubCommands[i].blurb)
	}
	w.Flush()
	fmt.Print(s.String())
}

// commandMap builds a map of possible subcommands keyed on the name of the subcommand
func commandMap() map[string]func(args []string) {
	m := make(map[string]func(args []string))
	for i := range SubCommands {
		m[SubCommands[i].name] = SubCommands[i].function
	}
	return m
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// check if first argument is a valid subcommand
	command := commandMap()[flag.Arg(0)]

	// if no command is found, print the usage and return
	if command == nil {
		flag.Usage()
		return
	}

	// if command successfully found, pass in remaining arguments and execute
	command(flag.Args()[1:])
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// logLevels maps -v counts to log levels.
var logLevels = []log.Level{log.WarnLevel, log.InfoLevel, log.DebugLevel, log.TraceLevel}

// setupLogging sets the log level from verbosity and redirects the log to
// logfile when one is given. The returned func closes the log file.
func setupLogging(verbosity int, logfile string) (func(), error) {
	if verbosity < 0 {
		return nil, errors.New("verbosity must be >= 0")
	}
	log.SetLevel(logLevels[min(verbosity, len(logLevels)-1)])
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: logfile == "", FullTimestamp: true})
	if logfile == "" {
		return func() {}, nil
	}
	f, err := os.Create(logfile)
	if err != nil {
		return nil, errors.Wrapf(err, "creating log file %s", logfile)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

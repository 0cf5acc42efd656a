package utils

import (
	"flag"
	"fmt"
	"strings"
)

type options struct {
	trace        string
	config       string
	pkg          string
	fun          string
	output       string
	outputFormat string
	task         string
	coreOnly     bool
	noColorize   bool
	verbose      bool
}

const (
	_DUMP_FACTS = iota
	_DUMP_STORE
	_INTERPOLANT
	_FLOW_TO_DOT
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"dump-facts",
	"Replay the instruction trace and print the dependency scope chain: versioned values and allocations, pointer equalities, storage cells and flow edges",
}, {
	"dump-store",
	"Replay the instruction trace and print the shadow store: concretely- and symbolically-addressed parts in first-insertion key order",
}, {
	"interpolant",
	"Replay the instruction trace and print the projected interpolant store",
}, {
	"flow-to-dot",
	"Render the value-flow graph of the replayed trace as a dot graph",
}}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Trace() string {
	return opts.trace
}

func (optInterface) Config() string {
	return opts.config
}

func (optInterface) Pkg() string {
	return opts.pkg
}

func (optInterface) Fun() string {
	return opts.fun
}

func (optInterface) Output() string {
	return opts.output
}

func (optInterface) OutputFormat() string {
	return opts.outputFormat
}

func (optInterface) CoreOnly() bool {
	return opts.coreOnly
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) OnVerbose(f func()) {
	if opts.verbose {
		f()
	}
}

func (optInterface) Task() taskInterface {
	return taskInterface{}
}

func (taskInterface) IsDumpFacts() bool {
	return opts.task == task[_DUMP_FACTS].flag
}

func (taskInterface) IsDumpStore() bool {
	return opts.task == task[_DUMP_STORE].flag
}

func (taskInterface) IsInterpolant() bool {
	return opts.task == task[_INTERPOLANT].flag
}

func (taskInterface) IsFlowToDot() bool {
	return opts.task == task[_FLOW_TO_DOT].flag
}

// SetNoColorize disables colorization. Used by golden-file tests, where
// the recorded output must be stable regardless of terminal support.
func SetNoColorize() {
	opts.noColorize = true
}

func ParseArgs() {
	taskFlag := ""
	for _, t := range task {
		taskFlag += "\n  " + t.flag + " : " + t.explanation
	}

	flag.StringVar(&(opts.trace), "trace", "", "path to the yaml instruction trace to replay")
	flag.StringVar(&(opts.config), "config", "", "path to a yaml configuration file")
	flag.StringVar(&(opts.pkg), "pkg", "", "Go package pattern to lift instead of replaying a yaml trace. Requires -fn")
	flag.StringVar(&(opts.fun), "fn", "", "package-level function to lift when -pkg is given")
	flag.StringVar(&(opts.output), "output", "", "output file path. Defaults to standard output or a generated name, depending on the task")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format for graph rendering [svg | png | jpg | ...]")
	flag.StringVar(&(opts.task), "task", task[_DUMP_FACTS].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.BoolVar(&(opts.coreOnly), "core-only", false, "restrict the interpolant projection to unsatisfiability-core entries")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")

	flag.Parse()
}

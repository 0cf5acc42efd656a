package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/weft-analysis/weft/analysis/config"
	"github.com/weft-analysis/weft/analysis/depscope"
	"github.com/weft-analysis/weft/analysis/entity"
	"github.com/weft-analysis/weft/analysis/ir"
	"github.com/weft-analysis/weft/analysis/shadow"
	"github.com/weft-analysis/weft/analysis/ssaflow"
	"github.com/weft-analysis/weft/analysis/trace"
	"github.com/weft-analysis/weft/utils"
	"github.com/weft-analysis/weft/utils/dot"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func loadConfig() *config.Config {
	path := opts.Config()
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("reading configuration: %v", err)
	}
	return cfg
}

// loadTrace obtains the instruction stream: from a recorded yaml trace,
// or lifted out of a Go function when -pkg is given.
func loadTrace() *trace.Trace {
	switch {
	case opts.Pkg() != "":
		if opts.Fun() == "" {
			log.Fatalf("-pkg requires -fn naming the function to lift")
		}
		fn, err := ssaflow.LoadFunction(opts.Pkg(), opts.Fun())
		if err != nil {
			log.Fatalf("%v", err)
		}
		instrs := ssaflow.LiftFunction(fn)
		steps := make([]trace.Step, len(instrs))
		for i, ins := range instrs {
			steps[i] = trace.Step{Ins: ins}
		}
		return &trace.Trace{Steps: steps}

	case opts.Trace() != "":
		tr, err := trace.Load(opts.Trace())
		if err != nil {
			log.Fatalf("%v", err)
		}
		return tr
	}

	log.Fatalf("no instruction source: pass -trace or -pkg")
	return nil
}

func outputWriter() (io.Writer, func()) {
	path := opts.Output()
	if path == "" || task.IsFlowToDot() {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("creating %s: %v", path, err)
	}
	return f, func() { f.Close() }
}

func coreOracle(cfg *config.Config) ir.CoreOracle {
	set := cfg.CoreSet()
	if set == nil {
		return nil
	}
	return ir.CoreOracleFunc(func(e ir.Expr) bool {
		return set[e.String()]
	})
}

// printStorePart writes one half of the projected interpolant. Map
// iteration order is laundered through sorting so runs are comparable.
func printStorePart(w io.Writer, label string, top shadow.TopStore) {
	sites := make([]ir.Site, 0, len(top))
	for s := range top {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name() < sites[j].Name() })

	fmt.Fprintf(w, "%s:\n", label)
	for _, site := range sites {
		lower := top[site]
		keys := make([]string, 0, len(lower))
		exprs := make(map[string]ir.Expr, len(lower))
		for k, e := range lower {
			keys = append(keys, k.String())
			exprs[k.String()] = e
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s[%s] = %s\n", site.Name(), k, exprs[k])
		}
	}
}

func main() {
	utils.ParseArgs()

	cfg := loadConfig()
	tr := loadTrace()

	root := depscope.NewRoot(entity.NewRegistry(), cfg)
	store := shadow.NewStore()

	start := time.Now()
	scope := trace.Replay(tr, root, store)
	opts.OnVerbose(func() { utils.TimeTrack(start, "replay") })
	utils.VerbosePrint("replayed %d steps\n", len(tr.Steps))

	w, done := outputWriter()
	defer done()

	switch {
	case task.IsDumpFacts():
		scope.Dump(w)

	case task.IsDumpStore():
		store.Dump(w)

	case task.IsInterpolant():
		oracle := coreOracle(cfg)
		if opts.CoreOnly() && oracle == nil {
			log.Fatalf("-core-only requires core-terms in the configuration")
		}
		concrete, symbolic := store.GetStoredExpressions(nil, ir.IdentityRenamer, oracle, opts.CoreOnly())
		printStorePart(w, "concrete", concrete)
		printStorePart(w, "symbolic", symbolic)

	case task.IsFlowToDot():
		var buf bytes.Buffer
		if err := scope.FlowDotGraph().WriteDot(&buf); err != nil {
			log.Fatalf("rendering dot: %v", err)
		}
		img, err := dot.DotToImage(opts.Output(), opts.OutputFormat(), buf.Bytes())
		if err != nil {
			log.Fatalf("rendering %s: %v", opts.OutputFormat(), err)
		}
		fmt.Println(img)
	}
}

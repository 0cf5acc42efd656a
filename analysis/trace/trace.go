// Package trace reads recorded instruction traces from yaml and replays
// them against a dependency scope and a shadow store. Traces are the
// file-based frontend of the analysis; an engine embedding the analysis
// feeds instructions directly instead.
package trace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/weft-analysis/weft/analysis/ir"
)

// Step is one replayable unit: the instruction itself plus the optional
// shadow-store detail recorded for loads and stores. Loc is nil when the
// step carries no memory detail.
type Step struct {
	Ins     ir.Instruction
	Loc     ir.Location
	Address ir.Expr
	Content ir.Expr
}

// Trace is a parsed instruction trace.
type Trace struct {
	Steps []Step
}

// Instructions strips the shadow-store detail.
func (t *Trace) Instructions() []ir.Instruction {
	instrs := make([]ir.Instruction, len(t.Steps))
	for i, s := range t.Steps {
		instrs[i] = s.Ins
	}
	return instrs
}

type yamlFunction struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

type yamlOperand struct {
	Const string `yaml:"const"`
	Value string `yaml:"value"`
	Alloc string `yaml:"alloc"`
}

type yamlInstruction struct {
	Op        string        `yaml:"op"`
	Site      string        `yaml:"site"`
	Pos       string        `yaml:"pos"`
	Composite bool          `yaml:"composite"`
	Callee    string        `yaml:"callee"`
	Operands  []yamlOperand `yaml:"operands"`

	// Memory detail for load/store steps. addr keys the concrete part of
	// the shadow store, formula the symbolic part; they are mutually
	// exclusive.
	Addr    *uint64 `yaml:"addr"`
	Formula string  `yaml:"formula"`
	Address string  `yaml:"address"`
	Content string  `yaml:"content"`
}

type yamlDocument struct {
	Functions    []yamlFunction    `yaml:"functions"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

var opKinds = map[string]ir.Kind{
	"alloc":   ir.Alloc,
	"load":    ir.Load,
	"store":   ir.Store,
	"binop":   ir.BinOp,
	"unop":    ir.UnOp,
	"convert": ir.Convert,
	"call":    ir.Call,
	"bind":    ir.Bind,
}

// Load reads and parses a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a yaml trace document. Unknown fields, unknown ops,
// malformed operands and references to undeclared callees are all
// parse-time errors; a trace that parses replays without surprises.
func Parse(data []byte) (*Trace, error) {
	var doc yamlDocument
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	funcs := map[string]*ir.Func{}
	for _, f := range doc.Functions {
		if f.Name == "" {
			return nil, fmt.Errorf("trace: function declaration without a name")
		}
		if _, dup := funcs[f.Name]; dup {
			return nil, fmt.Errorf("trace: duplicate function %q", f.Name)
		}
		params := make([]ir.Site, len(f.Params))
		for i, p := range f.Params {
			params[i] = ir.NewSite(p)
		}
		funcs[f.Name] = &ir.Func{Name: f.Name, Params: params}
	}

	t := &Trace{Steps: make([]Step, 0, len(doc.Instructions))}
	for n, y := range doc.Instructions {
		step, err := parseStep(y, funcs)
		if err != nil {
			return nil, fmt.Errorf("trace: instruction %d: %w", n, err)
		}
		t.Steps = append(t.Steps, step)
	}
	return t, nil
}

func parseStep(y yamlInstruction, funcs map[string]*ir.Func) (Step, error) {
	kind, ok := opKinds[y.Op]
	if !ok {
		return Step{}, fmt.Errorf("unknown op %q", y.Op)
	}
	if y.Site == "" && kind != ir.Bind {
		return Step{}, fmt.Errorf("%s without a site", y.Op)
	}

	site := ir.NewSiteAt(y.Site, y.Pos)
	ins := ir.Instruction{
		Kind:      kind,
		Site:      site,
		Composite: y.Composite,
	}

	for i, op := range y.Operands {
		parsed, err := parseOperand(op)
		if err != nil {
			return Step{}, fmt.Errorf("operand %d: %w", i, err)
		}
		ins.Operands = append(ins.Operands, parsed)
	}

	if kind == ir.Call {
		callee, ok := funcs[y.Callee]
		if !ok {
			return Step{}, fmt.Errorf("call to undeclared function %q", y.Callee)
		}
		ins.Callee = callee
	} else if y.Callee != "" {
		return Step{}, fmt.Errorf("%s with a callee", y.Op)
	}

	step := Step{Ins: ins}
	if y.Addr != nil || y.Formula != "" {
		if kind != ir.Load && kind != ir.Store {
			return Step{}, fmt.Errorf("%s with memory detail", y.Op)
		}
		if y.Addr != nil && y.Formula != "" {
			return Step{}, fmt.Errorf("both a concrete address and a symbolic formula")
		}
		if y.Content == "" {
			return Step{}, fmt.Errorf("memory detail without content")
		}
		if y.Addr != nil {
			step.Loc = ir.ConcreteLocation(site, *y.Addr)
		} else {
			step.Loc = ir.SymbolicLocation(site, y.Formula)
		}
		step.Address = ir.Term(y.Address)
		step.Content = ir.Term(y.Content)
	} else if y.Content != "" || y.Address != "" {
		return Step{}, fmt.Errorf("memory content without an address")
	}

	return step, nil
}

func parseOperand(y yamlOperand) (ir.Operand, error) {
	set := 0
	for _, s := range []string{y.Const, y.Value, y.Alloc} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return ir.Operand{}, fmt.Errorf("exactly one of const, value, alloc must be set")
	}

	switch {
	case y.Const != "":
		return ir.Const(ir.Term(y.Const)), nil
	case y.Value != "":
		return ir.ValueRef(ir.NewSite(y.Value)), nil
	default:
		return ir.AllocRef(ir.NewSite(y.Alloc)), nil
	}
}

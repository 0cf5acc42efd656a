package ir

import "fmt"

// Kind discriminates the closed set of instruction kinds the dependency
// computation understands. Dispatch over Kind is always an exhaustive switch.
type Kind int

const (
	// Alloc creates a fresh memory object and defines its address value.
	Alloc Kind = iota
	// Load reads through a pointer operand and defines the loaded value.
	Load
	// Store writes a value operand through a pointer operand.
	Store
	// BinOp defines a value computed from two operands.
	BinOp
	// UnOp defines a value computed from one operand.
	UnOp
	// Convert defines a value that reinterprets its single operand.
	Convert
	// Call records evaluated arguments for a callee about to be entered.
	Call
	// Bind pairs recorded arguments with the callee's formal parameters.
	// It is executed in the callee scope, as the first instruction of the body.
	Bind
)

func (k Kind) String() string {
	switch k {
	case Alloc:
		return "alloc"
	case Load:
		return "load"
	case Store:
		return "store"
	case BinOp:
		return "binop"
	case UnOp:
		return "unop"
	case Convert:
		return "convert"
	case Call:
		return "call"
	case Bind:
		return "bind"
	}
	panic(fmt.Sprintf("unrecognized instruction kind: %d", int(k)))
}

// OperandKind discriminates the three operand shapes.
type OperandKind int

const (
	// ConstOperand is a literal carried as an opaque expression.
	ConstOperand OperandKind = iota
	// ValueOperand references a previously defined value by its site.
	ValueOperand
	// AllocOperand references a memory object by its allocation site.
	AllocOperand
)

// Operand is one input of an instruction.
type Operand struct {
	Kind OperandKind
	// Lit is the payload of a constant operand.
	Lit Expr
	// Site identifies the referenced value or allocation for the
	// other operand kinds.
	Site Site
}

func Const(lit Expr) Operand {
	return Operand{Kind: ConstOperand, Lit: lit}
}

func ValueRef(site Site) Operand {
	return Operand{Kind: ValueOperand, Site: site}
}

func AllocRef(site Site) Operand {
	return Operand{Kind: AllocOperand, Site: site}
}

func (op Operand) String() string {
	switch op.Kind {
	case ConstOperand:
		return op.Lit.String()
	case ValueOperand:
		return op.Site.Name()
	case AllocOperand:
		return "&" + op.Site.Name()
	}
	panic(fmt.Sprintf("unrecognized operand kind: %d", int(op.Kind)))
}

// Func describes a callee: its name and the sites of its formal parameters,
// in declaration order.
type Func struct {
	Name   string
	Params []Site
}

// Instruction is one step of the replayed path.
//
// Site identifies the program point, and doubles as the site of the value
// the instruction defines (when it defines one). Composite classifies the
// allocated object for Alloc instructions. Callee accompanies Call.
type Instruction struct {
	Kind      Kind
	Site      Site
	Operands  []Operand
	Composite bool
	Callee    *Func
}

func (ins Instruction) String() string {
	str := ins.Kind.String()
	if ins.Site != nil {
		str += " " + ins.Site.Name()
	}
	for _, op := range ins.Operands {
		str += " " + op.String()
	}
	if ins.Callee != nil {
		str += " @" + ins.Callee.Name
	}
	return str
}

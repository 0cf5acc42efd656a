package ir

// Expr is the opaque symbolic-expression payload. The dependency
// computation stores and forwards expressions without interpreting them;
// only the external solver and subsumption machinery look inside.
type Expr interface {
	String() string
}

// Term is the trivial Expr implementation used by the trace frontend and
// the tests: the expression is its own rendering.
type Term string

func (t Term) String() string { return string(t) }

// Renamer substitutes the free symbolic identifiers of an expression with
// bound placeholders, so a projected interpolant can be reused
// independently of the originating execution's naming.
type Renamer interface {
	Rename(Expr) Expr
}

// RenamerFunc adapts a function to the Renamer interface.
type RenamerFunc func(Expr) Expr

func (f RenamerFunc) Rename(e Expr) Expr { return f(e) }

// IdentityRenamer leaves expressions untouched.
var IdentityRenamer Renamer = RenamerFunc(func(e Expr) Expr { return e })

// ContextRenamer is an optional Renamer capability: placeholder naming
// that depends on the call history the projection was requested under.
// Projections consult it before falling back to plain renaming.
type ContextRenamer interface {
	Renamer
	RenameIn(callHistory []Site, e Expr) Expr
}

// CoreOracle is the external unsatisfiability-core membership predicate.
// It is consulted only for core-restricted interpolant projections.
type CoreOracle interface {
	InCore(Expr) bool
}

// CoreOracleFunc adapts a function to the CoreOracle interface.
type CoreOracleFunc func(Expr) bool

func (f CoreOracleFunc) InCore(e Expr) bool { return f(e) }

package ssaflow

import (
	"fmt"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// loadMode sets all packages.Need* options, avoiding deprecation warnings
// from using packages.LoadAllSyntax.
const loadMode packages.LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedDeps

// LoadFunction loads the packages matching the pattern in module-aware
// mode, builds SSA form for them and returns the named package-level
// function, ready for LiftFunction.
func LoadFunction(pattern, name string) (*ssa.Function, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: loadMode}, pattern)
	if err != nil {
		return nil, fmt.Errorf("ssaflow: loading %s: %w", pattern, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("ssaflow: packages matching %s have errors", pattern)
	}

	prog, ssaPkgs := ssautil.Packages(pkgs, ssa.SanityCheckFunctions)
	prog.Build()

	for _, p := range ssaPkgs {
		if p == nil {
			continue
		}
		if fn := p.Func(name); fn != nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("ssaflow: no function %q in packages matching %s", name, pattern)
}

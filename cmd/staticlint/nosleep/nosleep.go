// Package nosleep defines an analyzer that reports time.Sleep calls outside test files.
//
// Long-running loops in this module wait on tickers, timers and ctx.Done()
// so that shutdown is never delayed by an uninterruptible sleep.
package nosleep

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the nosleep analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "nosleep",
	Doc:      "reports time.Sleep calls in non-test code",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("failed to assert type: expected *inspector.Inspector")
	}

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call, ok := n.(*ast.CallExpr)
		if !ok || isTestFile(pass.Fset, call.Pos()) {
			return
		}
		if isSleepCall(pass, call) {
			pass.Reportf(call.Pos(), "time.Sleep cannot be interrupted; select on a timer and ctx.Done() instead")
		}
	})

	return nil, nil
}

func isTestFile(fset *token.FileSet, pos token.Pos) bool {
	f := fset.File(pos)
	return f != nil && strings.HasSuffix(f.Name(), "_test.go")
}

func isSleepCall(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel == nil || pass.TypesInfo == nil {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == "time" && fn.Name() == "Sleep"
}

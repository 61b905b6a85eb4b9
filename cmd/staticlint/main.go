// Command staticlint runs the project's static checks:
//
//	go run ./cmd/staticlint ./...
//
// The set is tuned to what this module does: long-lived goroutines and
// contexts, HTTP clients, JSON on the wire and sync primitives passed around
// by pointer. staticcheck SA checks, stylecheck ST1000, nilerr,
// forcetypeassert and the local nosleep analyzer run on top.
package main

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"

	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unusedresult"

	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/gostaticanalysis/forcetypeassert"
	"github.com/gostaticanalysis/nilerr"

	"github.com/vshulcz/focuswatch/cmd/staticlint/nosleep"
)

// passes covers the concurrency, context and wire-format mistakes this
// module is prone to.
var passes = []*analysis.Analyzer{
	atomic.Analyzer,
	copylock.Analyzer,
	errorsas.Analyzer,
	httpresponse.Analyzer,
	loopclosure.Analyzer,
	lostcancel.Analyzer,
	printf.Analyzer,
	structtag.Analyzer,
	tests.Analyzer,
	unmarshal.Analyzer,
	unusedresult.Analyzer,
}

func main() {
	multichecker.Main(projectAnalyzers()...)
}

func projectAnalyzers() []*analysis.Analyzer {
	all := append([]*analysis.Analyzer(nil), passes...)
	all = append(all, pick(staticcheck.Analyzers, func(name string) bool {
		return strings.HasPrefix(name, "SA")
	})...)
	all = append(all, pick(stylecheck.Analyzers, func(name string) bool {
		return name == "ST1000"
	})...)
	all = append(all, nilerr.Analyzer, forcetypeassert.Analyzer, nosleep.Analyzer)
	return filterAnalyzers(all)
}

// pick unwraps the lint analyzers whose name matches keep.
func pick(from []*lint.Analyzer, keep func(name string) bool) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, la := range from {
		if la == nil || la.Analyzer == nil || !keep(la.Analyzer.Name) {
			continue
		}
		out = append(out, la.Analyzer)
	}
	return out
}

// filterAnalyzers drops nil entries and duplicate names, keeping the first occurrence.
func filterAnalyzers(analyzers []*analysis.Analyzer) []*analysis.Analyzer {
	seen := make(map[string]struct{}, len(analyzers))
	filtered := make([]*analysis.Analyzer, 0, len(analyzers))
	for _, a := range analyzers {
		if a == nil || strings.TrimSpace(a.Name) == "" {
			continue
		}
		if _, dup := seen[a.Name]; dup {
			continue
		}
		seen[a.Name] = struct{}{}
		filtered = append(filtered, a)
	}
	return filtered
}

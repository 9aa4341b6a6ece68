// Package driver synthesizes per-language driver source that imports,
// parses the JSON test input, invokes the solution, and prints the
// result. Each generator is a direct port of the corresponding
// run_*_structured driver-assembly logic.
package driver

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/pceh/internal/types"
)

var collectionsItems = map[string]bool{
	"defaultdict": true, "Counter": true, "deque": true,
	"OrderedDict": true, "ChainMap": true, "namedtuple": true,
}

// formatPythonImport ported from format_python_import: recognizes
// collections-module members, rewrites dotted module.item imports, and
// falls back to a plain "import X".
func formatPythonImport(imp string) string {
	if collectionsItems[imp] {
		return fmt.Sprintf("from collections import %s", imp)
	}
	if idx := strings.LastIndex(imp, "."); idx >= 0 {
		module, item := imp[:idx], imp[idx+1:]
		return fmt.Sprintf("from %s import %s", module, item)
	}
	return fmt.Sprintf("import %s", imp)
}

func escapeForSingleQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// Python assembles the driver source for one test case, grounded on
// run_python_structured.
func Python(resp types.StructuredCodeResponse, input string) string {
	var imports strings.Builder
	for _, imp := range resp.Imports {
		imports.WriteString(formatPythonImport(imp))
		imports.WriteString("\n")
	}

	return fmt.Sprintf(
		"%simport json\nimport sys\n\n%s\n\nargs = json.loads('%s')\nresult = %s(*args)\nprint(json.dumps(result))",
		imports.String(), resp.Code, escapeForSingleQuoted(input), resp.FunctionName,
	)
}

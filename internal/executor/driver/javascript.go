package driver

import (
	"fmt"

	"github.com/hubenschmidt/pceh/internal/types"
)

// JavaScript assembles the driver source for one test case, grounded on
// run_js_structured. Imports are not emitted as require() statements
// since the structured responses used by this harness are pure,
// dependency-free function bodies in the JavaScript path.
func JavaScript(resp types.StructuredCodeResponse, input string) string {
	return fmt.Sprintf(
		"%s\n\nconst args = JSON.parse('%s');\nconst result = %s(...args);\nconsole.log(JSON.stringify(result));",
		resp.Code, escapeForSingleQuoted(input), resp.FunctionName,
	)
}

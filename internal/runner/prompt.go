package runner

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/pceh/internal/types"
)

// buildStructuredPrompt is a byte-faithful port of build_structured_prompt:
// signature (or a fallback comment), description, up to two worked
// examples, and the fixed three-field JSON response instructions.
func buildStructuredPrompt(problem types.Problem, lang types.Language) string {
	signature := problem.Signature(lang)

	examples := make([]string, 0, 2)
	for i, tc := range problem.TestCases {
		if i >= 2 {
			break
		}
		examples = append(examples, fmt.Sprintf("Input: %s\nOutput: %s", tc.Input, tc.Expected))
	}

	return fmt.Sprintf(
		`Implement a solution for this problem in %s.

%s

%s

Examples:
%s

Return a JSON object with exactly these fields:
- "function_name": the name of your solution function (string)
- "imports": array of required imports/packages, names only without 'import' keyword (array of strings)
- "code": the complete function code only - NO package declaration, NO main function, NO example usage (string)`,
		lang.Label(), signature, problem.Description, strings.Join(examples, "\n\n"),
	)
}

package executor

import (
	"regexp"

	"github.com/hubenschmidt/pceh/internal/types"
)

var helperBlacklist = map[string]bool{
	"min": true, "max": true, "abs": true, "main": true,
	"helper": true, "swap": true, "gcd": true, "lcm": true,
}

var funcNamePatterns = map[types.Language]*regexp.Regexp{
	types.Python:     regexp.MustCompile(`def\s+(\w+)\s*\(`),
	types.JavaScript: regexp.MustCompile(`function\s+(\w+)\s*\(|const\s+(\w+)\s*=`),
	types.Rust:       regexp.MustCompile(`fn\s+(\w+)\s*[<(]`),
	types.Go:         regexp.MustCompile(`func\s+(\w+)\s*\(`),
}

// extractFunctionName is the legacy, regex-based fallback used only by
// the non-structured RunTests path - the structured path always trusts
// StructuredCodeResponse.FunctionName. First non-blacklisted match wins,
// else "solution".
func extractFunctionName(code string, lang types.Language) string {
	pattern, ok := funcNamePatterns[lang]
	if !ok {
		return "solution"
	}

	for _, match := range pattern.FindAllStringSubmatch(code, -1) {
		for _, group := range match[1:] {
			if group == "" {
				continue
			}
			if !helperBlacklist[group] {
				return group
			}
		}
	}
	return "solution"
}

package driver

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/pceh/internal/types"
)

// countJSONArgs counts the top-level comma-separated elements of a JSON
// array, tracking bracket depth and string-quote state so commas inside
// nested arrays or string literals are not mistaken for separators.
// Ported from count_json_args.
func countJSONArgs(input string) int {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return 0
	}

	depth := 0
	inString := false
	escaped := false
	count := 1

	for _, c := range trimmed {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// quoted character, not structural
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			count++
		}
	}

	return count
}

// cleanRustCode strips any use std::collections/cmp/iter line the
// solution wrote for itself, since the driver always prepends its own
// std::collections and std::cmp imports and rustc rejects duplicate use
// statements. The driver's own imports cover only HashMap, HashSet,
// BTreeMap, BTreeSet, VecDeque, min, max and Ordering; any other item a
// stripped line named (including everything from std::iter) is not
// re-imported. Ported from run_rust_structured's clean_code filter.
func cleanRustCode(code string) string {
	lines := strings.Split(code, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "use std::collections") ||
			strings.HasPrefix(trimmed, "use std::cmp") ||
			strings.HasPrefix(trimmed, "use std::iter") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Rust assembles the driver source for one test case. It binds each
// top-level JSON argument to an _argN slot and converts each through
// FromArgMut, the trait the original driver uses to decouple JSON decode
// from the solution's native parameter type.
func Rust(resp types.StructuredCodeResponse, input string) string {
	argCount := countJSONArgs(input)
	cleanCode := cleanRustCode(resp.Code)

	var bindings strings.Builder
	for i := 0; i < argCount; i++ {
		bindings.WriteString(fmt.Sprintf("    let mut _arg%d = args[%d].clone();\n", i, i))
	}

	var params strings.Builder
	for i := 0; i < argCount; i++ {
		if i > 0 {
			params.WriteString(", ")
		}
		params.WriteString(fmt.Sprintf("_arg%d.as_mut_arg()", i))
	}

	escapedInput := strings.ReplaceAll(input, `"`, `\"`)

	return fmt.Sprintf(`use std::collections::{HashMap, HashSet, BTreeMap, BTreeSet, VecDeque};
use std::cmp::{min, max, Ordering};

%s

#[derive(Clone, Debug)]
enum Arg {
    Value(serde_json::Value),
}

fn parse_json_array(s: &str) -> Vec<Arg> {
    let parsed: Vec<serde_json::Value> = serde_json::from_str(s).expect("invalid json array");
    parsed.into_iter().map(Arg::Value).collect()
}

impl Arg {
    fn value(&self) -> &serde_json::Value {
        match self {
            Arg::Value(v) => v,
        }
    }
}

trait FromArgMut<'a, T> {
    fn as_mut_arg(&'a mut self) -> T;
}

impl<'a> FromArgMut<'a, i32> for Arg {
    fn as_mut_arg(&'a mut self) -> i32 {
        self.value().as_i64().expect("expected i32") as i32
    }
}

impl<'a> FromArgMut<'a, i64> for Arg {
    fn as_mut_arg(&'a mut self) -> i64 {
        self.value().as_i64().expect("expected i64")
    }
}

impl<'a> FromArgMut<'a, usize> for Arg {
    fn as_mut_arg(&'a mut self) -> usize {
        self.value().as_i64().expect("expected usize") as usize
    }
}

impl<'a> FromArgMut<'a, f64> for Arg {
    fn as_mut_arg(&'a mut self) -> f64 {
        self.value().as_f64().expect("expected f64")
    }
}

impl<'a> FromArgMut<'a, bool> for Arg {
    fn as_mut_arg(&'a mut self) -> bool {
        self.value().as_bool().expect("expected bool")
    }
}

impl<'a> FromArgMut<'a, String> for Arg {
    fn as_mut_arg(&'a mut self) -> String {
        self.value().as_str().expect("expected String").to_string()
    }
}

impl<'a> FromArgMut<'a, &'a str> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a str {
        self.value().as_str().expect("expected &str")
    }
}

impl<'a> FromArgMut<'a, Vec<i32>> for Arg {
    fn as_mut_arg(&'a mut self) -> Vec<i32> {
        self.value()
            .as_array()
            .expect("expected Vec<i32>")
            .iter()
            .map(|v| v.as_i64().unwrap() as i32)
            .collect()
    }
}

impl<'a> FromArgMut<'a, Vec<usize>> for Arg {
    fn as_mut_arg(&'a mut self) -> Vec<usize> {
        self.value()
            .as_array()
            .expect("expected Vec<usize>")
            .iter()
            .map(|v| v.as_i64().unwrap() as usize)
            .collect()
    }
}

impl<'a> FromArgMut<'a, Vec<char>> for Arg {
    fn as_mut_arg(&'a mut self) -> Vec<char> {
        self.value()
            .as_str()
            .expect("expected Vec<char>")
            .chars()
            .collect()
    }
}

impl<'a> FromArgMut<'a, &'a [char]> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a [char] {
        let chars: Vec<char> = self.value().as_str().expect("expected &[char]").chars().collect();
        Box::leak(chars.into_boxed_slice())
    }
}

impl<'a> FromArgMut<'a, &'a mut Vec<char>> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a mut Vec<char> {
        let chars: Vec<char> = self.value().as_str().expect("expected &mut Vec<char>").chars().collect();
        Box::leak(Box::new(chars))
    }
}

impl<'a> FromArgMut<'a, &'a [i32]> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a [i32] {
        let v: Vec<i32> = self
            .value()
            .as_array()
            .expect("expected &[i32]")
            .iter()
            .map(|x| x.as_i64().unwrap() as i32)
            .collect();
        Box::leak(v.into_boxed_slice())
    }
}

impl<'a> FromArgMut<'a, &'a mut Vec<i32>> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a mut Vec<i32> {
        let v: Vec<i32> = self
            .value()
            .as_array()
            .expect("expected &mut Vec<i32>")
            .iter()
            .map(|x| x.as_i64().unwrap() as i32)
            .collect();
        Box::leak(Box::new(v))
    }
}

impl<'a> FromArgMut<'a, &'a mut Vec<Vec<i32>>> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a mut Vec<Vec<i32>> {
        let v: Vec<Vec<i32>> = self
            .value()
            .as_array()
            .expect("expected &mut Vec<Vec<i32>>")
            .iter()
            .map(|row| {
                row.as_array()
                    .unwrap()
                    .iter()
                    .map(|x| x.as_i64().unwrap() as i32)
                    .collect()
            })
            .collect();
        Box::leak(Box::new(v))
    }
}

impl<'a> FromArgMut<'a, &'a [Vec<i32>]> for Arg {
    fn as_mut_arg(&'a mut self) -> &'a [Vec<i32>] {
        let v: Vec<Vec<i32>> = self
            .value()
            .as_array()
            .expect("expected &[Vec<i32>]")
            .iter()
            .map(|row| {
                row.as_array()
                    .unwrap()
                    .iter()
                    .map(|x| x.as_i64().unwrap() as i32)
                    .collect()
            })
            .collect();
        Box::leak(v.into_boxed_slice())
    }
}

impl<'a> FromArgMut<'a, Vec<String>> for Arg {
    fn as_mut_arg(&'a mut self) -> Vec<String> {
        self.value()
            .as_array()
            .expect("expected Vec<String>")
            .iter()
            .map(|v| v.as_str().unwrap().to_string())
            .collect()
    }
}

impl<'a> FromArgMut<'a, Vec<Vec<i32>>> for Arg {
    fn as_mut_arg(&'a mut self) -> Vec<Vec<i32>> {
        self.value()
            .as_array()
            .expect("expected Vec<Vec<i32>>")
            .iter()
            .map(|row| {
                row.as_array()
                    .unwrap()
                    .iter()
                    .map(|x| x.as_i64().unwrap() as i32)
                    .collect()
            })
            .collect()
    }
}

fn main() {
    let mut args = parse_json_array("%s");
%s
    let result = %s(%s);
    println!("{}", serde_json::to_string(&result).unwrap());
}
`, cleanCode, escapedInput, bindings.String(), resp.FunctionName, params.String())
}

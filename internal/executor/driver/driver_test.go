package driver

import (
	"strings"
	"testing"

	"github.com/hubenschmidt/pceh/internal/types"
)

func TestFormatPythonImport(t *testing.T) {
	cases := map[string]string{
		"deque":            "from collections import deque",
		"math.sqrt":        "from math import sqrt",
		"sys":              "import sys",
		"defaultdict":      "from collections import defaultdict",
	}
	for imp, want := range cases {
		if got := formatPythonImport(imp); got != want {
			t.Errorf("formatPythonImport(%q) = %q, want %q", imp, got, want)
		}
	}
}

func TestPython_EmbedsArgsAndCallsFunction(t *testing.T) {
	resp := types.StructuredCodeResponse{
		FunctionName: "twoSum",
		Imports:      []string{"deque"},
		Code:         "def twoSum(nums, target):\n    return [0, 1]",
	}
	src := Python(resp, `[[2,7,11,15], 9]`)

	if !strings.Contains(src, "from collections import deque") {
		t.Errorf("expected collections import rewrite, got: %s", src)
	}
	if !strings.Contains(src, "result = twoSum(*args)") {
		t.Errorf("expected splat call to twoSum, got: %s", src)
	}
	if !strings.Contains(src, "json.loads(") {
		t.Errorf("expected json.loads for args decode")
	}
}

func TestJavaScript_EmbedsArgsAndCallsFunction(t *testing.T) {
	resp := types.StructuredCodeResponse{
		FunctionName: "addTwo",
		Code:         "function addTwo(a, b) { return a + b; }",
	}
	src := JavaScript(resp, `[1, 2]`)

	if !strings.Contains(src, "JSON.parse('[1, 2]')") {
		t.Errorf("expected input embedded verbatim, got: %s", src)
	}
	if !strings.Contains(src, "addTwo(...args)") {
		t.Errorf("expected spread call to addTwo, got: %s", src)
	}
}

func TestEscapeForSingleQuoted(t *testing.T) {
	got := escapeForSingleQuoted(`it's a "test"\n`)
	want := `it\'s a "test"\\n`
	if got != want {
		t.Errorf("escapeForSingleQuoted() = %q, want %q", got, want)
	}
}

func TestFilterGoImports(t *testing.T) {
	imports := []string{"encoding/json", "fmt", "reflect", "sort", "strings", "math"}
	code := "func f(nums []int) []int { sort.Ints(nums); return nums }"

	got := filterGoImports(imports, code)
	if len(got) != 1 || got[0] != "sort" {
		t.Errorf("filterGoImports() = %v, want [sort]", got)
	}
}

func TestGo_WrapsPackageMainAndConvertArg(t *testing.T) {
	resp := types.StructuredCodeResponse{
		FunctionName: "TwoSum",
		Code:         "func TwoSum(nums []int, target int) []int { return nums }",
	}
	src := Go(resp, `[[2,7,11,15], 9]`)

	if !strings.Contains(src, "package main") {
		t.Errorf("expected package main wrapper")
	}
	if !strings.Contains(src, "reflect.ValueOf(TwoSum)") {
		t.Errorf("expected reflect.ValueOf(TwoSum), got: %s", src)
	}
	if !strings.Contains(src, "func convertArg(") {
		t.Errorf("expected convertArg helper emitted")
	}
}

func TestCountJSONArgs(t *testing.T) {
	cases := map[string]int{
		"[1, 2]":               2,
		"[[1,2,3], 9]":         2,
		`["a, b", "c"]`:        2,
		"[]":                   0,
		"[1]":                  1,
		"[[1,[2,3]], [4], 10]": 3,
	}
	for input, want := range cases {
		if got := countJSONArgs(input); got != want {
			t.Errorf("countJSONArgs(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestRust_EmitsArgBindingsAndCall(t *testing.T) {
	resp := types.StructuredCodeResponse{
		FunctionName: "two_sum",
		Code:         "fn two_sum(nums: Vec<i32>, target: i32) -> Vec<i32> { nums }",
	}
	src := Rust(resp, `[[2,7,11,15], 9]`)

	if !strings.Contains(src, "let mut _arg0") || !strings.Contains(src, "let mut _arg1") {
		t.Errorf("expected two arg bindings, got: %s", src)
	}
	if !strings.Contains(src, "two_sum(_arg0.as_mut_arg(), _arg1.as_mut_arg())") {
		t.Errorf("expected call with two converted args, got: %s", src)
	}
	if !strings.Contains(src, "trait FromArgMut") {
		t.Errorf("expected FromArgMut trait definition")
	}
}

func TestRust_StripsUserImportsAndInjectsConvenienceUses(t *testing.T) {
	resp := types.StructuredCodeResponse{
		FunctionName: "two_sum",
		Code: "use std::collections::HashMap;\n" +
			"use std::cmp::min;\n" +
			"use std::iter::once;\n" +
			"fn two_sum(nums: Vec<i32>, target: i32) -> Vec<i32> {\n" +
			"    let mut seen: HashMap<i32, i32> = HashMap::new();\n" +
			"    nums\n" +
			"}",
	}
	src := Rust(resp, `[[2,7,11,15], 9]`)

	if strings.Count(src, "use std::collections::HashMap;") != 0 {
		t.Errorf("expected solution's own use std::collections line to be stripped, got: %s", src)
	}
	if strings.Contains(src, "use std::cmp::min;") || strings.Contains(src, "use std::iter::once;") {
		t.Errorf("expected solution's own use std::cmp/use std::iter lines to be stripped, got: %s", src)
	}
	if !strings.Contains(src, "use std::collections::{HashMap, HashSet, BTreeMap, BTreeSet, VecDeque};") {
		t.Errorf("expected driver's own collections convenience import, got: %s", src)
	}
	if !strings.Contains(src, "use std::cmp::{min, max, Ordering};") {
		t.Errorf("expected driver's own cmp convenience import, got: %s", src)
	}
	if !strings.Contains(src, "let mut seen: HashMap<i32, i32> = HashMap::new();") {
		t.Errorf("expected solution body to survive the strip, got: %s", src)
	}
}

package driver

import (
	"fmt"
	"strings"

	"github.com/hubenschmidt/pceh/internal/types"
)

var goMandatoryImports = map[string]bool{
	"encoding/json": true, "fmt": true, "reflect": true,
}

// packageName returns the last path segment of a Go import path, the
// identifier that code refers to it by.
func packageName(importPath string) string {
	if idx := strings.LastIndex(importPath, "/"); idx >= 0 {
		return importPath[idx+1:]
	}
	return importPath
}

// filterGoImports drops the driver's own mandatory imports and any
// import whose package identifier is never referenced as "pkg." in the
// solution code, matching extract_go_imports's filter half.
func filterGoImports(imports []string, code string) []string {
	var kept []string
	for _, imp := range imports {
		if goMandatoryImports[imp] {
			continue
		}
		if strings.Contains(code, packageName(imp)+".") {
			kept = append(kept, imp)
		}
	}
	return kept
}

// Go assembles the driver source for one test case. main() unmarshals
// the JSON array into []interface{}, resolves the solution function via
// reflection, and calls convertArg per parameter - the only place this
// harness's own output touches reflect, since the reflection runs inside
// the generated program, not inside the harness itself.
func Go(resp types.StructuredCodeResponse, input string) string {
	kept := filterGoImports(resp.Imports, resp.Code)

	var importBlock strings.Builder
	importBlock.WriteString("\t\"encoding/json\"\n\t\"fmt\"\n\t\"reflect\"\n")
	for _, imp := range kept {
		importBlock.WriteString(fmt.Sprintf("\t%q\n", imp))
	}

	escapedInput := strings.ReplaceAll(input, `"`, `\"`)

	return fmt.Sprintf(`package main

import (
%s)

%s

func convertArg(raw interface{}, target reflect.Type) reflect.Value {
	switch target.Kind() {
	case reflect.Slice:
		rawSlice, ok := raw.([]interface{})
		if !ok {
			if s, ok := raw.(string); ok && target.Elem().Kind() == reflect.Uint8 {
				return reflect.ValueOf([]byte(s))
			}
			return reflect.Zero(target)
		}
		out := reflect.MakeSlice(target, len(rawSlice), len(rawSlice))
		for i, elem := range rawSlice {
			out.Index(i).Set(convertArg(elem, target.Elem()))
		}
		return out
	case reflect.Int, reflect.Int32, reflect.Int64:
		if f, ok := raw.(float64); ok {
			v := reflect.New(target).Elem()
			v.SetInt(int64(f))
			return v
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := raw.(float64); ok {
			v := reflect.New(target).Elem()
			v.SetFloat(f)
			return v
		}
	case reflect.String:
		if s, ok := raw.(string); ok {
			return reflect.ValueOf(s)
		}
	case reflect.Bool:
		if b, ok := raw.(bool); ok {
			return reflect.ValueOf(b)
		}
	}
	return reflect.ValueOf(raw)
}

func main() {
	var args []interface{}
	if err := json.Unmarshal([]byte("%s"), &args); err != nil {
		fmt.Println(err)
		return
	}

	fn := reflect.ValueOf(%s)
	fnType := fn.Type()
	callArgs := make([]reflect.Value, fnType.NumIn())
	for i := 0; i < fnType.NumIn() && i < len(args); i++ {
		callArgs[i] = convertArg(args[i], fnType.In(i))
	}

	results := fn.Call(callArgs)
	if len(results) == 0 {
		return
	}
	result := results[0].Interface()
	if b, ok := result.([]byte); ok {
		fmt.Printf("%%q\n", b)
		return
	}
	out, _ := json.Marshal(result)
	fmt.Println(string(out))
}
`, importBlock.String(), resp.Code, escapedInput, resp.FunctionName)
}

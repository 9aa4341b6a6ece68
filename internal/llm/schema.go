package llm

// Schema is a JSON Schema literal enforced on a structured-output chat
// completion. We build it as a raw map rather than a generated struct,
// matching the teacher's ZAIJSONSchema.Schema map[string]interface{} shape.
type Schema map[string]interface{}

// BuildCodeOutputSchema returns the fixed three-field schema the Runner
// sends for every structured code-generation request: function_name
// (string), imports (array of strings), code (string) - all required.
func BuildCodeOutputSchema() Schema {
	return Schema{
		"type":     "object",
		"required": []string{"function_name", "imports", "code"},
		"properties": map[string]interface{}{
			"function_name": map[string]interface{}{"type": "string"},
			"imports": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"code": map[string]interface{}{"type": "string"},
		},
	}
}

package llm

import "github.com/hubenschmidt/pceh/internal/config"

// NewClientFromConfig builds the concrete LLMClient this harness uses.
// Trimmed from the teacher's multi-provider factory switch to the single
// Ollama-compatible provider this domain targets.
func NewClientFromConfig(cfg config.LLMConfig) LLMClient {
	return NewOllamaClient(cfg.Host, cfg.TimeoutDuration())
}

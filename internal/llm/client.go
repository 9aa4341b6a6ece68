// Package llm provides the structured-output LLM client used to
// generate solution code. Chat completions targeting code generation are
// always non-streaming and constrained by a JSON schema.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// LLMClient is the contract the Runner depends on: a non-streaming,
// schema-constrained chat completion, plus model warmup/unload.
type LLMClient interface {
	ChatStructured(ctx context.Context, model, prompt string, schema Schema, temperature float64) (types.StructuredCodeResponse, error)
	Warmup(ctx context.Context, model string) error
	Unload(ctx context.Context, model string) error
}

// OllamaError distinguishes a refused connection (server not running)
// from any other HTTP/decode failure, matching the original's
// OllamaError::ConnectionRefused special case.
type OllamaError struct {
	ConnectionRefused bool
	Err               error
}

func (e *OllamaError) Error() string {
	if e.ConnectionRefused {
		return "connection refused - is Ollama running?"
	}
	return e.Err.Error()
}

func (e *OllamaError) Unwrap() error { return e.Err }

// OllamaClient targets an Ollama-compatible /api/chat endpoint, using
// the "format" request field as a JSON schema for structured output.
type OllamaClient struct {
	host       string
	httpClient *http.Client
}

// NewOllamaClient builds a client against host with the given request timeout.
func NewOllamaClient(host string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		host:       host,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string         `json:"model"`
	Messages    []chatMessage  `json:"messages"`
	Stream      bool           `json:"stream"`
	Format      Schema         `json:"format,omitempty"`
	Options     chatOptions    `json:"options"`
	KeepAlive   *int           `json:"keep_alive,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done             bool  `json:"done"`
	PromptEvalCount  int   `json:"prompt_eval_count"`
	EvalCount        int   `json:"eval_count"`
	EvalDuration     int64 `json:"eval_duration"`
	Error            string `json:"error,omitempty"`
}

// ChatStructured issues one non-streaming chat completion constrained by
// schema and decodes the reply as a StructuredCodeResponse.
func (c *OllamaClient) ChatStructured(ctx context.Context, model, prompt string, schema Schema, temperature float64) (types.StructuredCodeResponse, error) {
	timer := logging.StartTimer(logging.CategoryLLM, fmt.Sprintf("chat_structured(%s)", model))
	defer timer.Stop()

	req := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   schema,
		Options:  chatOptions{Temperature: temperature},
	}

	body, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return types.StructuredCodeResponse{}, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.StructuredCodeResponse{}, &OllamaError{Err: fmt.Errorf("failed to decode chat response: %w", err)}
	}
	if resp.Error != "" {
		return types.StructuredCodeResponse{}, &OllamaError{Err: fmt.Errorf("ollama error: %s", resp.Error)}
	}

	var structured types.StructuredCodeResponse
	if err := json.Unmarshal([]byte(resp.Message.Content), &structured); err != nil {
		return types.StructuredCodeResponse{}, &OllamaError{Err: fmt.Errorf("failed to decode structured content: %w", err)}
	}

	logging.LLMDebug("chat_structured(%s) eval_count=%d", model, resp.EvalCount)
	return structured, nil
}

// Warmup performs a minimal request to load model into memory, called
// warmup_runs times before a matrix run begins.
func (c *OllamaClient) Warmup(ctx context.Context, model string) error {
	req := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: ""}},
		Stream:   false,
	}
	_, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return err
	}
	logging.LLM("warmed up model %s", model)
	return nil
}

// Unload evicts model from memory immediately, by setting keep_alive to 0.
func (c *OllamaClient) Unload(ctx context.Context, model string) error {
	zero := 0
	req := chatRequest{
		Model:     model,
		Messages:  []chatMessage{},
		Stream:    false,
		KeepAlive: &zero,
	}
	_, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return err
	}
	logging.LLM("unloaded model %s", model)
	return nil
}

func (c *OllamaClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, &OllamaError{ConnectionRefused: true, Err: err}
		}
		return nil, &OllamaError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OllamaError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &OllamaError{Err: fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))}
	}

	return body, nil
}

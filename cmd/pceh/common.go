package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hubenschmidt/pceh/internal/config"
	"github.com/hubenschmidt/pceh/internal/executor"
	"github.com/hubenschmidt/pceh/internal/history"
	"github.com/hubenschmidt/pceh/internal/llm"
	"github.com/hubenschmidt/pceh/internal/problemstore"
)

// harness bundles the components every subcommand needs, loaded once
// from the resolved workspace.
type harness struct {
	ws       string
	cfg      *config.Config
	problems *problemstore.Store
	store    *history.Store
	client   llm.LLMClient
}

func loadHarness() (*harness, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	cfg, err := config.Load(filepath.Join(ws, configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	problemsDir := cfg.ProblemsDir
	if !filepath.IsAbs(problemsDir) {
		problemsDir = filepath.Join(ws, problemsDir)
	}
	problems, err := problemstore.Load(problemsDir)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}

	dbPath := cfg.HistoryDBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ws, dbPath)
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	client := llm.NewClientFromConfig(cfg.LLM)

	return &harness{ws: ws, cfg: cfg, problems: problems, store: store, client: client}, nil
}

func (h *harness) Close() {
	h.store.Close()
}

func newExecutor() (executor.Executor, error) {
	return executor.New()
}

func nowUnixSeconds() int64 {
	return time.Now().Unix()
}

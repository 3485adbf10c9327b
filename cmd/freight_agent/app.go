package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/freight-agent/internal/config"
	"github.com/jonathan/freight-agent/internal/llm"
	"github.com/jonathan/freight-agent/internal/parsing"
	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/selection"
	"github.com/jonathan/freight-agent/internal/workflow"
)

// app bundles the wired core shared by every command.
type app struct {
	cfg          *config.Config
	registry     *resource.Registry
	sessions     *selection.Manager
	orchestrator *workflow.Orchestrator
	parser       *parsing.Parser
}

// buildApp loads configuration and wires the collection clients, selection
// manager and orchestrator. The LLM parser is attached only when an API key
// is configured; commands fall back to the pattern parser without one.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	reg := resource.NewRegistry(cfg)
	sessions := selection.NewManager(reg.Partners, reg.Companies, selection.NewStore(0), cfg.PartnerPageSize)
	orch := workflow.New(reg, sessions, workflow.Config{
		UserID:                  cfg.UserID,
		CompanyID:               cfg.CompanyID,
		DefaultMaterialID:       cfg.DefaultMaterialID,
		MaterialAcceptThreshold: cfg.MaterialAcceptThreshold,
	})

	a := &app{
		cfg:          cfg,
		registry:     reg,
		sessions:     sessions,
		orchestrator: orch,
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.parser = parsing.NewParser(client)
	}

	return a, nil
}

// warm primes the city and material caches. Failures are logged, not fatal:
// resolution falls back to live listings.
func (a *app) warm(ctx context.Context) {
	if err := a.orchestrator.Warmup(ctx); err != nil {
		log.Printf("cache warm-up incomplete: %v", err)
	}
}

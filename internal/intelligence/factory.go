package intelligence

import (
	"fmt"

	"callnote.app/server/common/llm"
	"callnote.app/server/core/config"
)

// NewAnalyzer returns the LLM analyzer when an enrichment provider is
// configured and the placeholder analyzer otherwise.
func NewAnalyzer(cfg config.EnrichmentConfig) (Analyzer, error) {
	if !cfg.Enabled() {
		return NewPlaceholderAnalyzer(), nil
	}

	client, err := llm.NewClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	return NewLLMAnalyzer(client, cfg.MaxTokens), nil
}

package llmservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	goopenai "github.com/sashabaranov/go-openai"

	"docuchat/internal/config"
)

// ModelLister is the slice of the OpenAI client needed for model selection.
type ModelLister interface {
	ListModels(ctx context.Context) (goopenai.ModelsList, error)
}

// NewModelLister builds a listing client for the configured endpoint.
func NewModelLister(cfg *config.LLMConfig) ModelLister {
	clientCfg := goopenai.DefaultConfig(strings.TrimPrefix(cfg.Key, "Bearer "))
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return goopenai.NewClientWithConfig(clientCfg)
}

// nonGenerativeMarkers excludes model ids that are clearly not for text
// generation when falling back past the preference list.
var nonGenerativeMarkers = []string{
	"embed", "embedding", "vision", "whisper", "tts", "audio", "image", "moderation",
}

// SelectModel asks the service which models this key may use and picks one:
// first match from preferred, then the first id that looks generative, then
// the hardcoded fallback. It never fails; a listing error only logs a
// warning. Callers run it once at startup and cache the result.
func SelectModel(ctx context.Context, lister ModelLister, preferred []string, fallback string) string {
	list, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("fallback", fallback).Msg("Model listing failed, using fallback model")
		return fallback
	}

	available := make(map[string]bool, len(list.Models))
	for _, m := range list.Models {
		available[m.ID] = true
	}

	for _, want := range preferred {
		if available[want] {
			log.Info().Str("model", want).Msg("Auto-selected model")
			return want
		}
	}

	for _, m := range list.Models {
		if looksGenerative(m.ID) {
			log.Info().Str("model", m.ID).Msg("Auto-selected model (heuristic fallback)")
			return m.ID
		}
	}

	log.Warn().Str("fallback", fallback).Msg("No suitable model in listing, using fallback model")
	return fallback
}

func looksGenerative(id string) bool {
	lower := strings.ToLower(id)
	for _, marker := range nonGenerativeMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

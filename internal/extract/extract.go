// Package extract turns free-form user text into profile updates. Two
// interchangeable strategies exist: a fixed rule list evaluated locally,
// and delegation to the model backend. Both degrade to an empty update on
// any failure; extraction never aborts a turn.
package extract

import (
	"context"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

// Strategy names accepted by the extraction.strategy config key.
const (
	StrategyRules = "rules"
	StrategyLLM   = "llm"
)

// Extractor produces a profile update from raw user text. Implementations
// are total: any input yields an update, possibly empty.
type Extractor interface {
	Extract(ctx context.Context, text string) profile.Update
}

package services

import "context"

// ---------------------------------------------------------------------------
// TextGenerator — common interface for generative-text providers.
// Gemini is the primary backend; OpenAI serves when only an OpenAI key is
// configured. The pipeline uses whichever is wired without knowing which.
// ---------------------------------------------------------------------------

// TextGenerator sends a fully assembled prompt to a generation service and
// returns the produced text. Every call is fresh: no caching, no retries, no
// partial results — a generated answer is non-deterministic and user-directed,
// so a cached one would violate the expectation of a new answer per click.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

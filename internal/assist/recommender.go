package assist

import (
	"context"
	"time"

	"digestsim/internal/logging"
)

// Recommender asks the AI service for feedstock (and optionally kinetic)
// parameter recommendations. It performs exactly one call per invocation; a
// failure is surfaced once and the caller may retry manually.
type Recommender struct {
	client Client
}

// NewRecommender wires a Recommender to a completion client.
func NewRecommender(client Client) *Recommender {
	return &Recommender{client: client}
}

// Recommend sends the prompt for the given feedstock description and returns
// the raw response text. The caller runs Extract on the result and merges it
// into the session; nothing here mutates prior override sets, so a failed
// call leaves them untouched.
func (r *Recommender) Recommend(ctx context.Context, description string, includeKinetics bool) (string, error) {
	timer := logging.StartTimer(logging.CategoryAssist, "Recommend")
	defer timer.Stop()

	prompt := BuildPrompt(description, includeKinetics)
	logging.Assist("requesting recommendations: kinetics=%v description_len=%d", includeKinetics, len(description))

	start := time.Now()
	raw, err := r.client.Complete(ctx, prompt)
	if err != nil {
		logging.AssistError("recommendation call failed after %v: %v", time.Since(start), err)
		return "", err
	}
	return raw, nil
}

package assist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(text string) GeminiResponse {
	return GeminiResponse{
		Candidates: []GeminiCandidate{
			{Content: GeminiContent{Parts: []GeminiPart{{Text: text}}}},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
	})
	return client, srv
}

func TestCompleteSuccess(t *testing.T) {
	var gotBody GeminiRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(completionResponse(`{"S_su": [0.5, "kg COD/m3", "e"]}`))
	})

	got, err := client.Complete(context.Background(), "describe my feedstock")
	require.NoError(t, err)
	assert.Contains(t, got, `"S_su"`)

	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "describe my feedstock", gotBody.Contents[0].Parts[0].Text)
}

func TestCompleteMissingAPIKey(t *testing.T) {
	client := NewGeminiClient(GeminiConfig{})
	_, err := client.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(completionResponse("ok"))
	})

	got, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestCompleteServerErrorFailsFast(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "non-429 statuses must not be retried")
}

func TestCompleteNoCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GeminiResponse{})
	})

	_, err := client.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNoCompletion)
}

func TestCompleteAPIErrorPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GeminiResponse{
			Error: &GeminiError{Code: 403, Message: "quota exhausted"},
		})
	})

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

type stubClient struct {
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestRecommenderPassesPromptThrough(t *testing.T) {
	stub := &stubClient{response: "raw text"}
	r := NewRecommender(stub)

	got, err := r.Recommend(context.Background(), "dairy manure", true)
	require.NoError(t, err)
	assert.Equal(t, "raw text", got)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "dairy manure")
	assert.Contains(t, stub.prompts[0], `"k_su"`)
}

func TestRecommenderPropagatesFailure(t *testing.T) {
	wantErr := errors.New("network down")
	r := NewRecommender(&stubClient{err: wantErr})

	_, err := r.Recommend(context.Background(), "silage", false)
	assert.ErrorIs(t, err, wantErr)
}

package assist

// Wire types for the Gemini generateContent API (v1beta). Only the fields
// this client uses are modeled.

// GeminiRequest is the request body for generateContent.
type GeminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
	Tools            []GeminiTool           `json:"tools,omitempty"`
}

// GeminiContent is a role-tagged message.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a single content part.
type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

// GeminiGenerationConfig controls sampling and output size.
type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GeminiTool enables a built-in tool. Google Search grounding lets the model
// look up typical feedstock compositions before answering.
type GeminiTool struct {
	GoogleSearch *GeminiGoogleSearch `json:"google_search,omitempty"`
}

// GeminiGoogleSearch is the (empty) Google Search tool configuration.
type GeminiGoogleSearch struct{}

// GeminiResponse is the response body for generateContent.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
	Error      *GeminiError      `json:"error,omitempty"`
}

// GeminiCandidate is one generated completion.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

// GeminiError is an API-level error payload.
type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

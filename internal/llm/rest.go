package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// GenerationParams are the per-request generation knobs forwarded to the API.
type GenerationParams struct {
	Temperature      float32
	MaxOutputTokens  int
	ResponseMIMEType string
}

// RawResponse is the unparsed result of a single generate call. Callers own
// retries and payload validation; the adapter only reports what came back.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RateLimited reports whether the server answered 429.
func (r *RawResponse) RateLimited() bool {
	return r.StatusCode == http.StatusTooManyRequests
}

// Text extracts the model-generated text from a 2xx response envelope,
// joining all text parts of the first candidate.
func (r *RawResponse) Text() string {
	parts := gjson.GetBytes(r.Body, "candidates.0.content.parts.#.text")
	var sb strings.Builder
	for _, part := range parts.Array() {
		sb.WriteString(part.String())
	}
	return sb.String()
}

// RawClient issues one HTTPS POST per Generate call against the Gemini REST
// API. It exists alongside the SDK client because the ranking orchestrator
// needs the raw HTTP status and the 429 error payload's retry-delay hint,
// which the SDK does not expose.
type RawClient struct {
	http     *resty.Client
	endpoint string
	model    string
	apiKey   string
}

// NewRawClient creates a raw REST adapter. timeout bounds each request's wall
// clock; on expiry the call fails like any transport error.
func NewRawClient(endpoint, model, apiKey string, timeout time.Duration) *RawClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &RawClient{
		http:     client,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
	}
}

// Generate issues exactly one network call and returns the raw body and
// status. A non-nil error means the request never produced an HTTP response
// (transport failure or timeout); HTTP-level failures come back as non-2xx
// RawResponses for the caller to classify.
func (c *RawClient) Generate(ctx context.Context, prompt string, params GenerationParams) (*RawResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	genConfig := map[string]any{
		"temperature": params.Temperature,
	}
	if params.MaxOutputTokens > 0 {
		genConfig["maxOutputTokens"] = params.MaxOutputTokens
	}
	if params.ResponseMIMEType != "" {
		genConfig["responseMimeType"] = params.ResponseMIMEType
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": genConfig,
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrAgentUpstream = errors.New("agent upstream request failed")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// AgentProxy forwards chat requests to an Anthropic-compatible messages API
// and streams the SSE response through untouched. The model provider is a
// black box; only the plumbing lives here.
type AgentProxy struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	HTTPClient   *http.Client
}

func NewAgentProxy(apiKey string, baseURL string, defaultModel string) *AgentProxy {
	return &AgentProxy{
		APIKey:       apiKey,
		BaseURL:      baseURL,
		DefaultModel: defaultModel,
		// No overall timeout: streams stay open as long as the model talks.
		HTTPClient: &http.Client{},
	}
}

// StreamChat writes the upstream SSE byte stream to w as it arrives. The
// caller is responsible for response headers and flushing.
func (p *AgentProxy) StreamChat(ctx context.Context, req ChatRequest, w io.Writer) error {
	if req.Model == "" {
		req.Model = p.DefaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1024
	}
	payload, err := json.Marshal(struct {
		ChatRequest
		Stream bool `json:"stream"`
	}{ChatRequest: req, Stream: true})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Api-Key", p.APIKey)
	request.Header.Set("Anthropic-Version", "2023-06-01")

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAgentUpstream, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAgentUpstream, response.StatusCode)
	}

	_, err = io.Copy(newFlushWriter(w), response.Body)
	return err
}

type flusher interface {
	Flush()
}

type flushWriter struct {
	w io.Writer
	f flusher
}

func newFlushWriter(w io.Writer) io.Writer {
	fw := &flushWriter{w: w}
	if f, ok := w.(flusher); ok {
		fw.f = f
	}
	return fw
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}

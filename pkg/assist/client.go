// Package assist holds thin HTTP clients for the optional external
// collaborators: speech-to-text, LLM summary drafting, and the messaging
// relay. Each implements the matching interface in internal/service; the
// caller's context bounds every request and any failure is reported as an
// error so the service layer can fall back to its deterministic templates.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collaborator returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type SpeechClient struct{ *Client }

func NewSpeechClient(baseURL string) *SpeechClient {
	return &SpeechClient{newClient(baseURL)}
}

func (c *SpeechClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	err := c.post(ctx, "/v1/transcribe", map[string]string{"audio_url": audioURL}, &resp)
	return resp.Text, err
}

type SummaryClient struct{ *Client }

func NewSummaryClient(baseURL string) *SummaryClient {
	return &SummaryClient{newClient(baseURL)}
}

func (c *SummaryClient) Draft(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	err := c.post(ctx, "/v1/summarize", map[string]string{"prompt": prompt}, &resp)
	return resp.Summary, err
}

type RelayClient struct{ *Client }

func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{newClient(baseURL)}
}

func (c *RelayClient) DeepLink(ctx context.Context, phone, message string) (string, error) {
	var resp struct {
		Link string `json:"link"`
	}
	err := c.post(ctx, "/v1/deeplink", map[string]string{"phone": phone, "message": message}, &resp)
	return resp.Link, err
}

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 36 // 36 * 5s = 3 minutes
)

// ShotstackClient submits render jobs and polls them to completion.
type ShotstackClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	PollInterval time.Duration
	MaxAttempts  int
}

func NewShotstackClient(baseURL, apiKey string) *ShotstackClient {
	return &ShotstackClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		PollInterval: DefaultPollInterval,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// DefaultRenderClient points at the Shotstack stage endpoint.
func DefaultRenderClient() *ShotstackClient {
	baseURL := os.Getenv("SHOTSTACK_API_URL")
	if baseURL == "" {
		baseURL = "https://api.shotstack.io/stage"
	}
	return NewShotstackClient(baseURL, os.Getenv("SHOTSTACK_API_KEY"))
}

type renderSubmitResponse struct {
	Response struct {
		ID string `json:"id"`
	} `json:"response"`
}

type renderStatusResponse struct {
	Response struct {
		Status string `json:"status"`
		URL    string `json:"url"`
		Error  string `json:"error"`
	} `json:"response"`
}

// SubmitRender posts the timeline and returns the render job id. A missing
// id in the response is fatal.
func (c *ShotstackClient) SubmitRender(ctx context.Context, payload *RenderPayload) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", &RenderError{Reason: "failed to marshal render payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/render", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &RenderError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &RenderError{Reason: "failed to submit render", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RenderError{Reason: "failed to read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &RenderError{Reason: renderErrorDetail(body, fmt.Sprintf("render submit returned status %d", resp.StatusCode))}
	}

	var result renderSubmitResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &RenderError{Reason: "failed to decode submit response", Err: err}
	}
	if result.Response.ID == "" {
		return "", &RenderError{Reason: "no render id returned"}
	}

	log.Printf("[INFO] Render job submitted: %s", result.Response.ID)
	return result.Response.ID, nil
}

// PollRender polls the job on a fixed interval until it reaches a terminal
// state or attempts run out. A transport error on any poll is fatal
// immediately. Exhaustion yields a timeout RenderError, distinct from an
// explicit failed status.
func (c *ShotstackClient) PollRender(ctx context.Context, renderID string) (string, error) {
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", &RenderError{Reason: "polling cancelled", Err: ctx.Err()}
		case <-time.After(c.PollInterval):
		}

		status, err := c.renderStatus(ctx, renderID)
		if err != nil {
			return "", err
		}

		log.Printf("[INFO] Render status: %s (attempt %d/%d)", status.Response.Status, attempt, c.MaxAttempts)

		switch status.Response.Status {
		case "done":
			if status.Response.URL == "" {
				return "", &RenderError{Reason: "render finished without an output URL"}
			}
			return status.Response.URL, nil
		case "failed":
			reason := status.Response.Error
			if reason == "" {
				reason = "render job failed"
			}
			return "", &RenderError{Reason: reason}
		case "queued", "rendering":
			// keep polling
		default:
			log.Printf("[DEBUG] Unknown render status: %s", status.Response.Status)
		}
	}

	return "", &RenderError{
		Reason:  fmt.Sprintf("render timed out after %d attempts; the video may still be processing", c.MaxAttempts),
		Timeout: true,
	}
}

func (c *ShotstackClient) renderStatus(ctx context.Context, renderID string) (*renderStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/render/"+renderID, nil)
	if err != nil {
		return nil, &RenderError{Reason: "failed to create status request", Err: err}
	}
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RenderError{Reason: "failed to check render status", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RenderError{Reason: "failed to read status response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RenderError{Reason: renderErrorDetail(body, fmt.Sprintf("status check returned %d", resp.StatusCode))}
	}

	var result renderStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &RenderError{Reason: "failed to decode status response", Err: err}
	}
	return &result, nil
}

// SubmitAndWait submits the payload and blocks until the job reaches a
// terminal state, returning the downloadable video URL.
func (c *ShotstackClient) SubmitAndWait(ctx context.Context, payload *RenderPayload) (string, error) {
	renderID, err := c.SubmitRender(ctx, payload)
	if err != nil {
		return "", err
	}
	return c.PollRender(ctx, renderID)
}

// renderErrorDetail surfaces the collaborator's error message when the body
// carries one.
func renderErrorDetail(body []byte, fallback string) string {
	var parsed struct {
		Message  string `json:"message"`
		Response struct {
			Message string `json:"message"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Response.Message != "" {
			return parsed.Response.Message
		}
	}
	return fallback
}

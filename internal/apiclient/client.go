// Package apiclient talks to the equipment platform REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/equiptrack/linebot-go/internal/errors"
)

// codeNotFound is the platform's application-level code for a missing device.
const codeNotFound = 4095

// Client is an HTTP client for the equipment platform API.
// Every request carries the platform ID header; authenticated
// requests additionally carry a bearer token obtained via SignIn.
type Client struct {
	baseURL    string
	platformID string
	httpClient *http.Client
}

// NewClient creates a platform API client.
func NewClient(baseURL, platformID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		platformID: platformID,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// envelope is the platform's standard response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type signInRequest struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
}

type signInData struct {
	Token string `json:"token"`
}

// SignIn authenticates a chat user and returns a bearer token
// scoped to that user.
func (c *Client) SignIn(ctx context.Context, userID string) (string, error) {
	env, status, err := c.do(ctx, http.MethodPost, "/auth/linebot/signin", "", signInRequest{
		UserID: userID,
		Type:   "user",
	})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", apperrors.NewBackendError("/auth/linebot/signin", status,
			fmt.Errorf("signin rejected: %s", env.Message))
	}

	var data signInData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("decode signin response: %w", err)
	}
	if data.Token == "" {
		return "", apperrors.NewBackendError("/auth/linebot/signin", status,
			fmt.Errorf("signin returned empty token"))
	}

	return data.Token, nil
}

// do performs a JSON request and decodes the response envelope.
// The returned envelope is valid for any status code so callers
// can inspect application-level codes on errors.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("platformid", c.platformID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, apperrors.NewBackendError(path, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, apperrors.NewBackendError(path, resp.StatusCode,
			fmt.Errorf("decode response: %w", err))
	}

	return &env, resp.StatusCode, nil
}

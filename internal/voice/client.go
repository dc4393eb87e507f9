// Package voice talks to the Retell conversational-AI API: it starts web
// calls and defines the webhook events the API posts back.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("voice api not configured")

// APIError carries a non-2xx answer from the voice API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("create web call: %d %s", e.Status, e.Body)
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	AgentID string
}

func NewClient(baseURL, apiKey, agentID string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		AgentID: agentID,
	}
}

type WebCallInput struct {
	OrderID      int64
	CustomerName string
	ProductNames []string
	OrderDate    string
}

// WebCall is what the browser needs to join the call.
type WebCall struct {
	CallID      string `json:"call_id"`
	AccessToken string `json:"access_token"`
}

type createWebCallRequest struct {
	AgentID          string            `json:"agent_id"`
	Metadata         map[string]string `json:"metadata"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables"`
}

// CreateWebCall registers a web call for the order review conversation.
// Missing credentials fail before any request is sent.
func (c *Client) CreateWebCall(ctx context.Context, in WebCallInput) (*WebCall, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: RETELL_API_KEY is not set", ErrNotConfigured)
	}
	if c.AgentID == "" {
		return nil, fmt.Errorf("%w: RETELL_AGENT_ID is not set", ErrNotConfigured)
	}

	body, err := json.Marshal(createWebCallRequest{
		AgentID:  c.AgentID,
		Metadata: map[string]string{"order_id": strconv.FormatInt(in.OrderID, 10)},
		DynamicVariables: map[string]string{
			"customer_name": in.CustomerName,
			"product_names": strings.Join(in.ProductNames, ", "),
			"order_date":    in.OrderDate,
		},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/create-web-call", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create web call: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	var out WebCall
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode web call: %w", err)
	}
	return &out, nil
}

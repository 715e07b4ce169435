package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Connector is the HTTP client for the account gateway service that fronts
// the user's connected Gmail/Calendar/CRM accounts. The gateway owns OAuth
// tokens and API quirks; the core only speaks this JSON surface.
type Connector struct {
	BaseURL string
	ApiKey  string
	Client  *http.Client
}

func NewConnector(baseURL, apiKey string) *Connector {
	return &Connector{
		BaseURL: baseURL,
		ApiKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Connector) post(ctx context.Context, path string, userId string, body map[string]interface{}) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		"user_id": userId,
	}
	for k, v := range body {
		payload[k] = v
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.ApiKey)

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway error: status %d, body %s", res.StatusCode, string(resBytes))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(resBytes, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

func (c *Connector) CreateCalendarEvent(ctx context.Context, userId string, params map[string]interface{}) (map[string]interface{}, error) {
	return c.post(ctx, "/calendar/v1/events", userId, params)
}

func (c *Connector) SearchContacts(ctx context.Context, userId string, params map[string]interface{}) (map[string]interface{}, error) {
	return c.post(ctx, "/crm/v1/contacts/search", userId, params)
}

func (c *Connector) SearchEmails(ctx context.Context, userId string, params map[string]interface{}) (map[string]interface{}, error) {
	return c.post(ctx, "/mail/v1/search", userId, params)
}

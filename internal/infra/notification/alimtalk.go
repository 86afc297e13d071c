package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// アリムトーク送信API。電話番号でもメールでも受け先にそのまま渡す。
type AlimtalkClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewAlimtalkClient(baseURL string, apiKey string) *AlimtalkClient {
	return &AlimtalkClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	TemplateID string            `json:"template_id"`
	To         string            `json:"to"`
	Params     map[string]string `json:"params"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *AlimtalkClient) Send(ctx context.Context, templateID string, recipient string, params map[string]string) error {
	body, err := json.Marshal(sendRequest{
		TemplateID: templateID,
		To:         recipient,
		Params:     params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := c.BaseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.StatusCode >= 300 || !out.Success {
		return fmt.Errorf("notification rejected: %s", out.Message)
	}
	return nil
}

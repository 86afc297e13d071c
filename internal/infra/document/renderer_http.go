package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"catering/internal/domain/model"
)

// 領収書レンダラサービスのHTTPクライアント。注文データを渡してPDFバイト列を受け取る。
type HTTPRenderer struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPRenderer(baseURL string) *HTTPRenderer {
	return &HTTPRenderer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type renderRequest struct {
	Order     model.Order       `json:"order"`
	Items     []model.OrderItem `json:"items"`
	Cancelled bool              `json:"cancelled"`
}

func (r *HTTPRenderer) Render(ctx context.Context, order model.Order, items []model.OrderItem, cancelled bool) ([]byte, error) {
	body, err := json.Marshal(renderRequest{Order: order, Items: items, Cancelled: cancelled})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/render", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call renderer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return pdf, nil
}

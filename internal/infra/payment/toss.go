package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Tossの決済承認API。シークレットはストアごとに呼び出し側が選んで渡す。
type TossClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewTossClient(baseURL string) *TossClient {
	return &TossClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type confirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type tossError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm は承認を1回呼ぶ。非2xxはエラー。リトライはしない
// （時刻トリガー側は次回スイープ、手動操作はユーザーの再実行に任せる）。
func (c *TossClient) Confirm(ctx context.Context, secretKey string, paymentKey string, orderID int64, amount int64) error {
	body, err := json.Marshal(confirmRequest{
		PaymentKey: paymentKey,
		OrderID:    fmt.Sprintf("order-%d", orderID),
		Amount:     amount,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal confirm request: %w", err)
	}

	url := c.BaseURL + "/v1/payments/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	//Toss方式のBasic認証（シークレットキー + コロン）
	auth := base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	var te tossError
	if err := json.Unmarshal(raw, &te); err != nil || te.Code == "" {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(raw))
	}
	return fmt.Errorf("gateway rejected confirm: %s (%s)", te.Message, te.Code)
}

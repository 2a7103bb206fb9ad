package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/ports/adapter"
)

const defaultBaseURL = "https://api.yookassa.ru/v3"

var _ adapter.PaymentGateway = (*YooKassaGateway)(nil)

// YooKassaGateway implements adapter.PaymentGateway over the YooKassa v3 API.
// Credentials are injected at construction; every outbound call carries a
// bounded timeout and a fresh Idempotence-Key.
type YooKassaGateway struct {
	shopID    string
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewYooKassaGateway(shopID, secretKey string, timeout time.Duration) (*YooKassaGateway, error) {
	if shopID == "" || secretKey == "" {
		return nil, domain.ErrInvalidArgument
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YooKassaGateway{
		shopID:    shopID,
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type createPaymentRequest struct {
	Amount            adapter.Amount     `json:"amount"`
	PaymentMethodData paymentMethodData  `json:"payment_method_data"`
	Confirmation      confirmationParams `json:"confirmation"`
	Description       string             `json:"description"`
	Metadata          map[string]string  `json:"metadata,omitempty"`
}

type paymentMethodData struct {
	Type string `json:"type"`
}

type confirmationParams struct {
	Type      string `json:"type"`
	ReturnURL string `json:"return_url"`
}

type apiError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CreatePayment opens a hosted-checkout bank-card payment and returns the
// provider payload, including the confirmation redirect URL.
func (g *YooKassaGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, description, returnURL string, meta map[string]string) (*adapter.Payment, error) {
	reqBody := createPaymentRequest{
		Amount: adapter.Amount{
			Value:    amount.StringFixed(2),
			Currency: "RUB",
		},
		PaymentMethodData: paymentMethodData{Type: "bank_card"},
		Confirmation: confirmationParams{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Description: description,
		Metadata:    meta,
	}
	return g.post(ctx, g.baseURL+"/payments", reqBody)
}

// CapturePayment finalizes a previously authorized charge.
func (g *YooKassaGateway) CapturePayment(ctx context.Context, paymentID string) (*adapter.Payment, error) {
	if paymentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	url := fmt.Sprintf("%s/payments/%s/capture", g.baseURL, paymentID)
	return g.post(ctx, url, struct{}{})
}

func (g *YooKassaGateway) post(ctx context.Context, url string, body interface{}) (*adapter.Payment, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(g.shopID, g.secretKey)
	req.Header.Set("Content-Type", "application/json")
	// YooKassa deduplicates retried requests by this key.
	req.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != "" {
			return nil, fmt.Errorf("%w: %s (%s)", domain.ErrGateway, apiErr.Description, apiErr.Code)
		}
		return nil, fmt.Errorf("%w: status %d, body %s", domain.ErrGateway, resp.StatusCode, string(respBody))
	}

	var p adapter.Payment
	if err := json.Unmarshal(respBody, &p); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v, body: %s", domain.ErrGateway, err, string(respBody))
	}
	return &p, nil
}

package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrTransactionNotFound = errors.New("paystack transaction not found")

// Client verifies transactions against the Paystack API. The browser
// initiates the charge with the public key; the server only ever trusts
// the result of a verify call made with the secret key.
type Client struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type Transaction struct {
	Reference string `json:"reference"`
	Status    string `json:"status"` // "success", "failed", "abandoned"
	Amount    int64  `json:"amount"` // minor units (kobo)
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type verifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// VerifyTransaction fetches the settled state of a transaction
// reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	u := fmt.Sprintf("%s/transaction/verify/%s", c.BaseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify: unexpected status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if !body.Status {
		return nil, fmt.Errorf("paystack verify: %s", body.Message)
	}
	return &body.Data, nil
}

// Verify adapts the client to the order composer's PaymentVerifier.
func (c *Client) Verify(ctx context.Context, reference string) (status string, amount int64, currency string, err error) {
	tx, err := c.VerifyTransaction(ctx, reference)
	if err != nil {
		return "", 0, "", err
	}
	return tx.Status, tx.Amount, tx.Currency, nil
}

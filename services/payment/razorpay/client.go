package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	APIEndpoint    = "https://api.razorpay.com/v1"
	RequestTimeout = 30 * time.Second
)

// Client is a thin HTTP client for the Razorpay REST API, authenticated with
// key id/secret over basic auth.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   APIEndpoint,
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

// KeyID exposes the public key id, which the checkout UI needs client-side.
func (c *Client) KeyID() string {
	return c.keyID
}

// Configured reports whether gateway credentials are present. An unconfigured
// client must never open a checkout.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// SetBaseURL overrides the API host, used by tests against httptest servers.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

func (c *Client) createRequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), RequestTimeout)
}

// CreateOrder registers a gateway order for the given paise amount and
// merchant receipt reference.
func (c *Client) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	startTime := time.Now()

	payload, err := json.Marshal(createOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
		Notes:          notes,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling order request: %v", err)
	}

	ctx, cancel := c.createRequestContext()
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	log.Printf("Razorpay order response received in %v for receipt: %s", time.Since(startTime), receipt)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order creation failed: %s", apiErrorMessage(body, resp.StatusCode))
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("error decoding response: %v, response body: %s", err, string(body))
	}

	if order.ID == "" {
		return nil, fmt.Errorf("order creation failed: no order id returned")
	}

	return &order, nil
}

// FetchPayment retrieves a payment entity by id, used to confirm capture
// state after signature verification.
func (c *Client) FetchPayment(paymentID string) (*Payment, error) {
	ctx, cancel := c.createRequestContext()
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment fetch failed: %s", apiErrorMessage(body, resp.StatusCode))
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("error decoding response: %v", err)
	}

	return &payment, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "<order_id>|<payment_id>" under the key secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func apiErrorMessage(body []byte, status int) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
		return apiErr.Error.Description
	}
	return fmt.Sprintf("gateway returned status %d", status)
}

// Package stripe is a minimal client for the card-payment processor:
// payment-intent creation and webhook event verification.
package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://api.stripe.com"

// Intent is a processor payment-intent: an authorized-but-not-yet-settled
// charge. The client secret is handed to the browser to confirm the charge.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Client calls the payment processor's REST API.
type Client struct {
	httpClient *http.Client
	secretKey  string

	// Overridable URL for testing.
	baseURL string
}

// NewClient creates a processor client with the given secret key.
func NewClient(secretKey string) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("payment processor secret key is required")
	}
	return &Client{
		httpClient: &http.Client{},
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
	}, nil
}

// apiError is the processor's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent creates a payment intent for the given minor-unit amount.
// Metadata keys are attached verbatim for later reconciliation.
func (c *Client) CreateIntent(amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{
		"amount":   {strconv.FormatInt(amountCents, 10)},
		"currency": {currency},
	}
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment processor: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("payment processor: unexpected status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if intent.ID == "" || intent.ClientSecret == "" {
		return nil, fmt.Errorf("payment processor: incomplete intent in response")
	}

	return &intent, nil
}

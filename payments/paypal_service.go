package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PayPalProcessor maps PayPal checkout orders onto payment intents. Approved orders are
// captured on retrieval, so a confirmed order reports succeeded.
type PayPalProcessor struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
}

type paypalOrder struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		CustomID string `json:"custom_id"`
		Amount   struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewPayPalProcessor(baseURL, clientID, clientSecret string, httpClient *http.Client) *PayPalProcessor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PayPalProcessor{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
	}
}

func (p *PayPalProcessor) Name() string { return "paypal" }

func (p *PayPalProcessor) accessToken(ctx context.Context) (string, error) {
	p.tokenMu.RLock()
	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		token := p.token
		p.tokenMu.RUnlock()
		return token, nil
	}
	p.tokenMu.RUnlock()

	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned %s", resp.Status)
	}

	var tokenResp paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	ttl := time.Duration(tokenResp.ExpiresIn-60) * time.Second
	if ttl < 0 {
		ttl = 0
	}
	p.token = tokenResp.AccessToken
	p.tokenExpiry = time.Now().Add(ttl)
	return p.token, nil
}

func (p *PayPalProcessor) do(ctx context.Context, method, path string, payload any, wantStatus ...int) (*paypalOrder, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("paypal: access token: %w", err)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ok := false
	for _, s := range wantStatus {
		if resp.StatusCode == s {
			ok = true
		}
	}
	if !ok {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal %s %s: %s: %s", method, path, resp.Status, string(respBody))
	}

	var order paypalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (p *PayPalProcessor) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	unit := map[string]any{
		"description": truncate(req.Description, 127),
		"custom_id":   truncate(encodeCustomID(req.Metadata), 127),
		"amount": map[string]string{
			"currency_code": strings.ToUpper(req.Currency),
			"value":         strconv.FormatFloat(FromMinorUnits(req.AmountMinor), 'f', 2, 64),
		},
	}
	payload := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]any{unit},
	}

	order, err := p.do(ctx, http.MethodPost, "/v2/checkout/orders", payload, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return p.toIntent(order), nil
}

func (p *PayPalProcessor) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	order, err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+intentID, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	if order.Status == "APPROVED" {
		order, err = p.do(ctx, http.MethodPost, "/v2/checkout/orders/"+intentID+"/capture", struct{}{}, http.StatusCreated, http.StatusOK)
		if err != nil {
			return nil, err
		}
	}
	return p.toIntent(order), nil
}

func (p *PayPalProcessor) toIntent(order *paypalOrder) *Intent {
	intent := &Intent{ID: order.ID, Status: paypalStatus(order.Status)}
	for _, l := range order.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			intent.ClientSecret = l.Href
		}
	}
	if len(order.PurchaseUnits) > 0 {
		pu := order.PurchaseUnits[0]
		intent.Currency = strings.ToLower(pu.Amount.CurrencyCode)
		if v, err := strconv.ParseFloat(pu.Amount.Value, 64); err == nil {
			intent.AmountMinor = ToMinorUnits(v)
		}
		intent.Metadata = decodeCustomID(pu.CustomID)
	}
	return intent
}

func paypalStatus(s string) string {
	switch s {
	case "COMPLETED":
		return StatusSucceeded
	case "APPROVED":
		return StatusRequiresCapture
	case "VOIDED":
		return StatusCanceled
	}
	return StatusRequiresPaymentMethod
}

// custom_id is limited in size, so metadata travels as k=v pairs joined by ';'.
func encodeCustomID(md map[string]string) string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+md[k])
	}
	return strings.Join(parts, ";")
}

func decodeCustomID(s string) map[string]string {
	if s == "" {
		return nil
	}
	md := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		if k, v, ok := strings.Cut(part, "="); ok {
			md[k] = v
		}
	}
	return md
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

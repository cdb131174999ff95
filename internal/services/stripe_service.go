package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StripeService confirms card-rail payments against the Stripe API. It is
// the only payment gateway with programmatic confirmation; every other rail
// goes through manual review.
type StripeService interface {
	ConfirmPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
}

type PaymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type stripeService struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewStripeService(apiKey string) StripeService {
	return &stripeService{
		apiKey:  apiKey,
		baseURL: "https://api.stripe.com/v1",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *stripeService) ConfirmPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	url := fmt.Sprintf("%s/payment_intents/%s", s.baseURL, paymentIntentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, string(body))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

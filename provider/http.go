package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"skylane/models"
)

// HTTPProvider talks to a remote offer search API. The wire format follows
// the in-memory model one to one; the remote side owns filtering and
// pricing.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider returns nil when OFFER_API_URL is not configured.
func NewHTTPProvider() *HTTPProvider {
	baseURL := os.Getenv("OFFER_API_URL")
	if baseURL == "" {
		return nil
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  os.Getenv("OFFER_API_KEY"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *HTTPProvider) Name() string { return "offer-api" }

type searchResponse struct {
	Offers []models.ItineraryOffer `json:"offers"`
}

func (p *HTTPProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.ItineraryOffer, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrSearchFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/offers/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode, payload)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}
	if decoded.Offers == nil {
		decoded.Offers = []models.ItineraryOffer{}
	}
	return decoded.Offers, nil
}

package places

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fp-foodie-finder/server/internal/metrics"

	"github.com/pkg/errors"
)

const fieldMask = "places.displayName,places.formattedAddress,places.priceLevel,places.googleMapsUri,places.photos,places.rating"

// Client calls the Places text search endpoint.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewClient(url, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{url: url, apiKey: apiKey, http: hc}
}

// Search returns the upstream response body untouched.
func (c *Client) Search(ctx context.Context, textQuery string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"textQuery": textQuery})
	if err != nil {
		return nil, errors.Wrap(err, "places: encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "places: request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProxyCalls.WithLabelValues("places", "error").Inc()
		return nil, errors.Wrap(err, "places: call")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProxyCalls.WithLabelValues("places", "error").Inc()
		return nil, errors.Wrap(err, "places: read")
	}
	if resp.StatusCode/100 != 2 {
		metrics.ProxyCalls.WithLabelValues("places", "upstream_error").Inc()
		return nil, errors.Errorf("places: upstream status %d", resp.StatusCode)
	}
	if !json.Valid(raw) {
		metrics.ProxyCalls.WithLabelValues("places", "upstream_error").Inc()
		return nil, errors.New("places: upstream returned invalid json")
	}
	metrics.ProxyCalls.WithLabelValues("places", "ok").Inc()
	return raw, nil
}

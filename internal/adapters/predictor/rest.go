// Package predictor talks to the external model-inference service over REST.
// The service loads the trained regressor once; this client only carries the
// call contract: one 15-field row in, one % mass prediction out.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matslab/scpredict/internal/domain/feature"
)

const defaultTimeout = 10 * time.Second

// RESTClient implements sweep.Predictor against an HTTP inference endpoint.
// Stateless; safe for concurrent passes.
type RESTClient struct {
	endpoint string
	client   *http.Client
}

// Option applies a configuration option to the RESTClient.
type Option func(*RESTClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewRESTClient creates a client for the given base endpoint, e.g.
// "http://localhost:8501".
func NewRESTClient(endpoint string, opts ...Option) *RESTClient {
	c := &RESTClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// predictRequest mirrors the inference service schema. FeatureOrder makes the
// column order explicit on the wire so the service can verify it against the
// model's training order.
type predictRequest struct {
	Features     feature.Vector              `json:"features"`
	FeatureOrder [feature.FieldCount]string  `json:"feature_order"`
	Row          [feature.FieldCount]float64 `json:"row"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
	Error      string  `json:"error,omitempty"`
}

// Predict posts one row and returns the predicted surface chloride
// concentration.
func (c *RESTClient) Predict(ctx context.Context, v feature.Vector) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Features:     v,
		FeatureOrder: feature.Names(),
		Row:          v.Row(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: marshal request: %w", ErrPredict, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: create request: %w", ErrPredict, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPredict, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%w: model service returned %s: %s", ErrPredict, resp.Status, bytes.TrimSpace(detail))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode response: %w", ErrPredict, err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrPredict, out.Error)
	}
	return out.Prediction, nil
}

// Probe checks the model service health once. Called at startup so a missing
// or unloadable model artifact fails the process instead of the first pass.
func (c *RESTClient) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %s", ErrUnavailable, resp.Status)
	}
	return nil
}

// Endpoint returns the configured base endpoint.
func (c *RESTClient) Endpoint() string { return c.endpoint }

package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
	predictPath    = "/predict"
	maxBodyBytes   = 1 << 20
)

// Client calls the external stroke prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a prediction API client. A non-positive timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.baseURL + predictPath
}

// Predict posts the encoded form once and normalizes the answer.
func (c *Client) Predict(ctx context.Context, req assessment.EncodedRequest) (assessment.PredictionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return assessment.PredictionResult{}, fmt.Errorf("encode prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return assessment.PredictionResult{}, fmt.Errorf("build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return assessment.PredictionResult{}, &assessment.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return assessment.PredictionResult{}, &assessment.ServiceError{Status: resp.StatusCode, Body: string(payload)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return assessment.PredictionResult{}, &assessment.ConnectivityError{Err: fmt.Errorf("read prediction response: %w", err)}
	}

	var decoded assessment.ServiceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return assessment.PredictionResult{}, &assessment.MalformedResponseError{Reason: "invalid JSON body", Err: err}
	}
	return assessment.NormalizeResponse(decoded)
}

var _ assessment.Predictor = (*Client)(nil)

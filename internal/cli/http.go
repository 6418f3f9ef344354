package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/okian/bestxi/internal/adapters/http/api"
	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/pkg/logger"
)

// HTTPClient uploads datasets to a running server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL with a per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// remoteError mirrors the server's error body.
type remoteError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing"`
}

// CheckHealth verifies the server answers /healthz.
func (c *HTTPClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Any 200 is healthy; the body is Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// Analyze posts the datasets to /analyze. A nil reader omits that file, which
// the server answers with awaiting input; that case reports awaiting=true.
func (c *HTTPClient) Analyze(ctx context.Context, deliveries, matches io.Reader) (report types.Report, awaiting bool, err error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		field string
		r     io.Reader
	}{{api.FieldDeliveries, deliveries}, {api.FieldMatches, matches}} {
		if part.r == nil {
			continue
		}
		fw, err := mw.CreateFormFile(part.field, part.field+".csv")
		if err != nil {
			return report, false, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(fw, part.r); err != nil {
			return report, false, fmt.Errorf("failed to read %s: %w", part.field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return report, false, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze?format=json", &body)
	if err != nil {
		return report, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return report, false, fmt.Errorf("failed to upload datasets: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return report, false, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Get().Debug(ctx, "analyze response",
		logger.Int("status", resp.StatusCode),
		logger.String("run_id", resp.Header.Get("X-Run-ID")))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(data, &report); err != nil {
			return report, false, fmt.Errorf("failed to decode report: %w", err)
		}
		return report, false, nil
	case http.StatusAccepted:
		return report, true, nil
	default:
		var re remoteError
		if err := json.Unmarshal(data, &re); err != nil || re.Message == "" {
			return report, false, fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
		}
		return report, false, fmt.Errorf("%w: status %d: %s: %s", ErrRemote, resp.StatusCode, re.Code, re.Message)
	}
}

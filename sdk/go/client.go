package businesscasesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	contentJSON = "application/json"
	contentDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Client is a minimal BusinessCase HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v0",
		Timeout:  30 * time.Second,
	}
}

// Metrics are the derived ROI figures.
type Metrics struct {
	MinutesPerYear float64 `json:"minutes_per_year"`
	HoursPerYear   float64 `json:"hours_per_year"`
	FTE            float64 `json:"fte"`
	HourlyRate     float64 `json:"hourly_rate"`
	CostBefore     float64 `json:"cost_before"`
	HoursAfter     float64 `json:"hours_after"`
	CostAfter      float64 `json:"cost_after"`
	AnnualSavings  float64 `json:"annual_savings"`
	BreakEvenYears float64 `json:"break_even_years"`
}

// MetricsResult carries raw and locale-formatted metrics.
type MetricsResult struct {
	Metrics   Metrics           `json:"metrics"`
	Formatted map[string]string `json:"formatted"`
}

// Artifact is one generated file.
type Artifact struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// Generation is the result of one generate call.
type Generation struct {
	ID          string     `json:"id"`
	ProcessName string     `json:"process_name"`
	CreatedAt   string     `json:"created_at"`
	Metrics     Metrics    `json:"metrics"`
	Artifacts   []Artifact `json:"artifacts"`
	RequestedBy string     `json:"requested_by,omitempty"`
}

// ImportResult is the record rebuilt from an upload. Error is set when the
// upload could not be read; Values then hold the defaults.
type ImportResult struct {
	Status  string            `json:"status"`
	Matched int               `json:"matched"`
	Values  map[string]string `json:"values"`
	Error   string            `json:"error,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s body=%s", e.StatusCode, e.Code, e.Body)
}

// Health reports whether the server answers.
func (c *Client) Health(ctx context.Context) error {
	var resp map[string]string
	return c.doJSON(ctx, http.MethodGet, "health", nil, &resp)
}

// Metrics computes the ROI metrics for values.
func (c *Client) Metrics(ctx context.Context, values map[string]string) (MetricsResult, error) {
	var resp MetricsResult
	err := c.doJSON(ctx, http.MethodPost, "metrics", map[string]any{"values": values}, &resp)
	return resp, err
}

// Generate writes the business case artifacts for values.
func (c *Client) Generate(ctx context.Context, values map[string]string) (Generation, error) {
	var resp Generation
	err := c.doJSON(ctx, http.MethodPost, "cases", map[string]any{"values": values}, &resp)
	return resp, err
}

// ListCases returns the generations of the running session, newest first.
func (c *Client) ListCases(ctx context.Context, limit int) ([]Generation, error) {
	endpoint := "cases"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp struct {
		Items []Generation `json:"items"`
	}
	err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

// ImportJSON rebuilds a record from a JSON export.
func (c *Client) ImportJSON(ctx context.Context, raw []byte) (ImportResult, error) {
	var resp ImportResult
	err := c.do(ctx, http.MethodPost, "imports/json", contentJSON, bytes.NewReader(raw), &resp)
	return resp, err
}

// ImportDocx rebuilds a record from a filled-in Word questionnaire.
func (c *Client) ImportDocx(ctx context.Context, doc []byte) (ImportResult, error) {
	var resp ImportResult
	err := c.do(ctx, http.MethodPost, "imports/docx", contentDocx, bytes.NewReader(doc), &resp)
	return resp, err
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	return c.do(ctx, method, endpoint, contentJSON, &buf, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentJSON)
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code = env.Error.Code
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if p := strings.Trim(c.BasePath, "/"); p != "" {
		base += "/" + p
	}
	return base
}

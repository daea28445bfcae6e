package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const healthTimeout = 10 * time.Second

// PanelRecord is the provisioning API's description of a created panel.
// ServerID and UserID are assigned by the provider; Extra carries any
// additional fields the provider returned, passed through unmodified.
type PanelRecord struct {
	ServerID int64
	UserID   int64
	Username string
	Extra    map[string]any
}

type HealthStatus struct {
	Active      bool `json:"active"`
	Maintenance bool `json:"maintenance"`
}

type Client interface {
	CreatePanel(ctx context.Context, ram int, username, password string) (*PanelRecord, error)
	DeletePanel(ctx context.Context, userID, serverID int64) error
	Health(ctx context.Context) (*HealthStatus, error)
}

// HTTPClient talks to the external panel-provisioning API. Every request
// carries a JSON content type and a fixed Origin header the backend expects.
type HTTPClient struct {
	baseURL string
	origin  string
	hc      *http.Client
}

func NewHTTPClient(baseURL, origin string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  origin,
		hc:      &http.Client{},
	}
}

func (c *HTTPClient) CreatePanel(ctx context.Context, ram int, username, password string) (*PanelRecord, error) {
	payload := map[string]any{
		"ram":      ram,
		"username": username,
		"password": password,
	}

	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/create-panel", payload, &raw); err != nil {
		return nil, err
	}

	rec := recordFromResponse(raw)
	if rec.ServerID == 0 {
		return nil, fmt.Errorf("provisioning API returned no serverId")
	}
	return rec, nil
}

func (c *HTTPClient) DeletePanel(ctx context.Context, userID, serverID int64) error {
	payload := map[string]any{
		"userId":   userID,
		"serverId": serverID,
	}
	return c.doJSON(ctx, http.MethodPost, "/delete-panel", payload, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var status HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.origin)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("provisioning API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provisioning API %s %s returned %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("provisioning API returned invalid JSON: %w", err)
		}
	}
	return nil
}

// recordFromResponse lifts the identifying fields out of the raw response
// and keeps everything else as passthrough data.
func recordFromResponse(raw map[string]any) *PanelRecord {
	rec := &PanelRecord{}
	extra := make(map[string]any)

	for key, value := range raw {
		switch key {
		case "serverId":
			rec.ServerID, _ = toInt64(value)
		case "userId":
			rec.UserID, _ = toInt64(value)
		case "username":
			if s, ok := value.(string); ok {
				rec.Username = s
			}
		default:
			extra[key] = value
		}
	}

	if len(extra) > 0 {
		rec.Extra = extra
	}
	return rec
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

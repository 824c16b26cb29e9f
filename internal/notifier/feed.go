package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-gym-api/internal/domain"
)

// Feed returns the caller's notification list evaluated at a point in time.
type Feed interface {
	Fetch(ctx context.Context, at time.Time) ([]domain.NotificationView, error)
}

// HTTPFeed reads GET /v1/notifications with a bearer token.
type HTTPFeed struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPFeed(baseURL, token string, client *http.Client) *HTTPFeed {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPFeed{baseURL: strings.TrimRight(baseURL, "/"), token: token, client: client}
}

func (f *HTTPFeed) Fetch(ctx context.Context, at time.Time) ([]domain.NotificationView, error) {
	q := url.Values{"at": {at.UTC().Format(time.RFC3339)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/notifications?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("fetch feed: status %d: %s", resp.StatusCode, body.Error)
	}
	var views []domain.NotificationView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return views, nil
}

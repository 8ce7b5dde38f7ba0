package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

// EntitlementChecker is the authorization predicate consulted before
// entitlement-gated features (backup sync, price intelligence). A false
// result is a paywall outcome, not an error.
type EntitlementChecker interface {
	IsEntitled(ctx context.Context, userID string) (bool, error)
}

// entitlementResponse is returned by the purchases provider.
type entitlementResponse struct {
	Entitlements map[string]struct {
		Active bool `json:"active"`
	} `json:"entitlements"`
}

// EntitlementClient asks the purchases provider whether a user holds the Pro
// entitlement. Lifecycle hooks (screen focus, app foreground, sync) can all
// fire this check at once, so calls are deduplicated through singleflight:
// at most one request per user is in flight, concurrent callers share its
// result. This keeps the provider's rate limits out of reach.
type EntitlementClient struct {
	baseURL     string
	entitlement string
	httpClient  *http.Client
	group       singleflight.Group
}

func NewEntitlementClient(baseURL, entitlement string) *EntitlementClient {
	return &EntitlementClient{
		baseURL:     baseURL,
		entitlement: entitlement,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEntitled reports whether the user's subscription carries the configured
// entitlement.
func (c *EntitlementClient) IsEntitled(ctx context.Context, userID string) (bool, error) {
	v, err, _ := c.group.Do(userID, func() (interface{}, error) {
		return c.fetch(ctx, userID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *EntitlementClient) fetch(ctx context.Context, userID string) (bool, error) {
	url := fmt.Sprintf("%s/v1/subscribers/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("entitlement: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("entitlement: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("entitlement: provider returned %d", resp.StatusCode)
	}

	var body entitlementResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("entitlement: decode response: %w", err)
	}
	ent, ok := body.Entitlements[c.entitlement]
	return ok && ent.Active, nil
}

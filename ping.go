package roam

import (
	"context"
	"encoding/json"
	"fmt"
)

// TestConnection probes the API health endpoint. It returns true only
// when the endpoint reports status "ok"; any other value, or a missing
// status field, yields false. Malformed JSON is returned as an error
// rather than folded into false.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	body, err := c.getJSON(ctx, "/test")
	if err != nil {
		return false, fmt.Errorf("roam: test connection: %w", err)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("roam: test connection: decode response: %w", err)
	}

	return resp.Status == "ok", nil
}

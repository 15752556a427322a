package roam

import (
	"context"
	"encoding/json"
	"fmt"
)

// Group describes one channel the bot can address. Fields are copied
// verbatim from the groups.list response.
type Group struct {
	AddressID           string `json:"addressId"`
	RoamID              int64  `json:"roamId"`
	AccountID           int64  `json:"accountId"`
	GroupType           string `json:"groupType"`
	Name                string `json:"name"`
	AccessMode          string `json:"accessMode"`
	GroupManagement     string `json:"groupManagement"`
	EnforceThreadedMode string `json:"enforceThreadedMode"`
	DateCreated         string `json:"dateCreated"`
	ImageURL            string `json:"imageUrl"`
}

// ListChannels fetches the channels available to the bot.
// A response body that is valid JSON but not an array is reported as a
// *ProtocolError; malformed JSON is returned as a decode error.
func (c *Client) ListChannels(ctx context.Context) ([]Group, error) {
	body, err := c.getJSON(ctx, "/groups.list")
	if err != nil {
		return nil, fmt.Errorf("roam: list channels: %w", err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("roam: list channels: decode response: %w", err)
	}
	if _, ok := raw.([]any); !ok {
		return nil, &ProtocolError{
			Endpoint: "groups.list",
			Message:  "unexpected response shape, want array",
		}
	}

	var groups []Group
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("roam: list channels: decode response: %w", err)
	}

	c.logger.Debug("channels listed", "count", len(groups))
	return groups, nil
}

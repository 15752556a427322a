package roam

import (
	"context"
	"fmt"
	"sort"
)

// messagePayload is the body of a chat.sendMessage call.
type messagePayload struct {
	Sender     Sender   `json:"sender"`
	Text       string   `json:"text"`
	Recipients []string `json:"recipients"`
}

// SendMessage sends text to the resolved recipient channels.
//
// Recipients resolve in three steps: with no call-site channels the
// configured defaults are used (ErrNoChannels if there are none either);
// with call-site channels and no defaults the call-site list is used as
// given; with both, the union of the two with duplicates removed.
//
// The response body is not interpreted. Transport errors and non-2xx
// statuses are returned as-is; there is no retry.
func (c *Client) SendMessage(ctx context.Context, text string, channels ...string) error {
	recipients, err := c.resolveRecipients(channels)
	if err != nil {
		return err
	}

	payload := messagePayload{
		Sender:     c.sender,
		Text:       text,
		Recipients: recipients,
	}

	if _, err := c.postJSON(ctx, "/chat.sendMessage", payload); err != nil {
		return fmt.Errorf("roam: send message: %w", err)
	}

	c.logger.Debug("message sent", "recipients", len(recipients), "length", len(text))
	return nil
}

// resolveRecipients applies the default/call-site channel policy.
func (c *Client) resolveRecipients(channels []string) ([]string, error) {
	switch {
	case len(channels) == 0:
		if len(c.defaultChannels) == 0 {
			return nil, ErrNoChannels
		}
		return append([]string(nil), c.defaultChannels...), nil

	case len(c.defaultChannels) == 0:
		return append([]string(nil), channels...), nil

	default:
		seen := make(map[string]struct{}, len(c.defaultChannels)+len(channels))
		union := make([]string, 0, len(c.defaultChannels)+len(channels))
		for _, ch := range append(append([]string(nil), c.defaultChannels...), channels...) {
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			union = append(union, ch)
		}
		// Stable order keeps payloads reproducible.
		sort.Strings(union)
		return union, nil
	}
}

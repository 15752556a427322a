package roam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sort"
	"testing"
)

func TestSendMessageRecipientResolution(t *testing.T) {
	tests := []struct {
		name     string
		defaults []string
		call     []string
		want     []string
	}{
		{
			name:     "defaults only",
			defaults: []string{"a", "b"},
			want:     []string{"a", "b"},
		},
		{
			name: "call channels only",
			call: []string{"c", "d"},
			want: []string{"c", "d"},
		},
		{
			name:     "union of both",
			defaults: []string{"a", "b"},
			call:     []string{"b", "c"},
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "duplicate call channels collapse",
			defaults: []string{"a"},
			call:     []string{"a", "a", "b"},
			want:     []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload messagePayload
			var opts []Option
			if tt.defaults != nil {
				opts = append(opts, WithDefaultChannels(tt.defaults...))
			}
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat.sendMessage" {
					t.Errorf("path = %q, want /chat.sendMessage", r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decode payload: %v", err)
				}
				w.WriteHeader(http.StatusOK)
			}), opts...)

			if err := c.SendMessage(context.Background(), "deploy done", tt.call...); err != nil {
				t.Fatalf("SendMessage: %v", err)
			}

			got := append([]string(nil), payload.Recipients...)
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("recipients = %v, want %v", got, tt.want)
			}
			if payload.Text != "deploy done" {
				t.Errorf("text = %q", payload.Text)
			}
		})
	}
}

func TestSendMessageNoChannels(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	err := c.SendMessage(context.Background(), "nobody hears this")
	if !errors.Is(err, ErrNoChannels) {
		t.Fatalf("err = %v, want ErrNoChannels", err)
	}
	if calls != 0 {
		t.Errorf("server saw %d requests, want 0", calls)
	}
}

func TestSendMessageHTTPError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))

	err := c.SendMessage(context.Background(), "hi", "ch-1")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

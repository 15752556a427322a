package roam

import (
	"context"
	"net/http"
	"testing"
)

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "ok", body: `{"status":"ok"}`, want: true},
		{name: "fail", body: `{"status":"fail"}`, want: false},
		{name: "missing status", body: `{}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/test" {
					t.Errorf("path = %q, want /test", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			}))

			got, err := c.TestConnection(context.Background())
			if err != nil {
				t.Fatalf("TestConnection: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTestConnectionMalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`status: ok`))
	}))

	if _, err := c.TestConnection(context.Background()); err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}

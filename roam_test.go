package roam

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithLogger(testLogger())}, opts...)
	return New("deploy-bot", "bot-42", "https://img.example/bot.png", "test-token", opts...), srv
}

func TestNewDefaultHeaders(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	if _, err := c.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}

	if v := got.Get("Content-Type"); v != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", v)
	}
	if v := got.Get("Accept"); v != "application/json" {
		t.Errorf("Accept = %q, want application/json", v)
	}
	if v := got.Get("Authorization"); v != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", v)
	}
	if got.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
}

func TestNewHeaderOverrides(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}), WithHeaders(map[string]string{
		"Accept":       "application/vnd.roam+json",
		"X-Team-Token": "ops",
	}))

	if _, err := c.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}

	// Override wins on collision, defaults survive otherwise.
	if v := got.Get("Accept"); v != "application/vnd.roam+json" {
		t.Errorf("Accept = %q, want override", v)
	}
	if v := got.Get("X-Team-Token"); v != "ops" {
		t.Errorf("X-Team-Token = %q, want ops", v)
	}
	if v := got.Get("Authorization"); v != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", v)
	}
}

func TestSenderIdentityInPayload(t *testing.T) {
	var payload messagePayload
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.SendMessage(context.Background(), "hi", "ch-1"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	want := Sender{ID: "bot-42", Name: "deploy-bot", ImageURL: "https://img.example/bot.png"}
	if payload.Sender != want {
		t.Errorf("sender = %+v, want %+v", payload.Sender, want)
	}
}

func TestDefaultChannelsCopy(t *testing.T) {
	c := New("b", "id", "", "tok", WithDefaultChannels("a", "b"))

	chans := c.DefaultChannels()
	chans[0] = "mutated"

	if got := c.DefaultChannels()[0]; got != "a" {
		t.Errorf("default channels mutated through returned slice: %q", got)
	}

	if New("b", "id", "", "tok").DefaultChannels() != nil {
		t.Error("expected nil default channels when none configured")
	}
}

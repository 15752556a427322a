// Command roamctl drives a Roam bot from the command line: send a
// message, list channels, probe the API, or run recurring heartbeat
// messages from the config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	roam "github.com/arcline/go-roam"
	"github.com/arcline/go-roam/internal/config"
	"github.com/arcline/go-roam/internal/heartbeat"
)

var version = "0.1.0"

const usage = `Usage: roamctl [flags] <command>

Commands:
  send       Send a message: roamctl send -text "hi" [-channels ch1,ch2]
  channels   List the channels available to the bot
  test       Probe the API health endpoint
  heartbeat  Run the recurring messages defined in the config file

Flags:
  -config     Path to the config file (default "roamctl.toml")
  -log-level  debug, info, warn or error (default "info")
  -version    Print the version and exit
`

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "roamctl.toml", "path to config file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *showVersion {
		fmt.Printf("roamctl %s\n", version)
		return 0
	}

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roamctl: %v\n", err)
		return 1
	}

	client := newClient(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := flag.Arg(0); cmd {
	case "send":
		return cmdSend(ctx, client, flag.Args()[1:])
	case "channels":
		return cmdChannels(ctx, client)
	case "test":
		return cmdTest(ctx, client)
	case "heartbeat":
		return cmdHeartbeat(ctx, client, cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "roamctl: unknown command %q\n", cmd)
		flag.Usage()
		return 2
	}
}

// newClient assembles the roam client from the config file.
func newClient(cfg *config.Config, logger *slog.Logger) *roam.Client {
	opts := []roam.Option{
		roam.WithLogger(logger),
		roam.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		}),
	}
	if cfg.HTTP.BaseURL != "" {
		opts = append(opts, roam.WithBaseURL(cfg.HTTP.BaseURL))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, roam.WithHeaders(cfg.Headers))
	}
	if len(cfg.Bot.DefaultChannels) > 0 {
		opts = append(opts, roam.WithDefaultChannels(cfg.Bot.DefaultChannels...))
	}

	return roam.New(cfg.Bot.Name, cfg.Bot.ID, cfg.Bot.ImageURL, cfg.Bot.Token, opts...)
}

func cmdSend(ctx context.Context, client *roam.Client, args []string) int {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	text := fs.String("text", "", "message text (required)")
	channels := fs.String("channels", "", "comma-separated channel ids (defaults from config)")
	_ = fs.Parse(args)

	if *text == "" {
		fmt.Fprintln(os.Stderr, "roamctl send: -text is required")
		return 2
	}

	if err := client.SendMessage(ctx, *text, splitChannels(*channels)...); err != nil {
		fmt.Fprintf(os.Stderr, "roamctl send: %v\n", err)
		return 1
	}
	return 0
}

func cmdChannels(ctx context.Context, client *roam.Client) int {
	groups, err := client.ListChannels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roamctl channels: %v\n", err)
		return 1
	}

	for _, g := range groups {
		fmt.Printf("%s\t%s\t%s\n", g.AddressID, g.Name, g.GroupType)
	}
	return 0
}

func cmdTest(ctx context.Context, client *roam.Client) int {
	ok, err := client.TestConnection(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roamctl test: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Println("connection not ok")
		return 1
	}
	fmt.Println("connection ok")
	return 0
}

func cmdHeartbeat(ctx context.Context, client *roam.Client, cfg *config.Config, logger *slog.Logger) int {
	jobs := make([]heartbeat.Job, 0, len(cfg.Heartbeats))
	for _, hb := range cfg.Heartbeats {
		jobs = append(jobs, heartbeat.Job{
			Name:     hb.Name,
			Schedule: hb.Schedule,
			Message:  hb.Message,
			Channels: hb.Channels,
		})
	}

	runner, err := heartbeat.New(client, jobs, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roamctl heartbeat: %v\n", err)
		return 1
	}

	logger.Info("heartbeat running", "jobs", len(jobs))
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "roamctl heartbeat: %v\n", err)
		return 1
	}
	return 0
}

func splitChannels(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	channels := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			channels = append(channels, p)
		}
	}
	return channels
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

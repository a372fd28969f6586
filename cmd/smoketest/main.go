package main

import (
	"context"
	"encoding/json"
	"github.com/myrjola/cluequest/internal/e2etest"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/logging"
	"github.com/myrjola/cluequest/internal/models"
	"log/slog"
	"net/http"
	"os"
	"time"
)

func TestAuth(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var err error

	if _, err = client.Register(ctx); err != nil {
		return errors.Wrap(err, "register user")
	}
	if _, err = client.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout user")
	}
	if _, err = client.Login(ctx); err != nil {
		return errors.Wrap(err, "login user")
	}
	return nil
}

// TestGame plays one case through the JSON API: generate a case, accuse the culprit,
// and verify the progress advances.
func TestGame(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second) //nolint:mnd // wait for LLM
	defer cancel()

	resp, err := client.PostJSON(ctx, "/api/game/generate", nil)
	if err != nil {
		return errors.Wrap(err, "generate case")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return errors.New("generate case failed", slog.Int("status", resp.StatusCode))
	}
	var generated models.Story
	if err = json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		_ = resp.Body.Close()
		return errors.Wrap(err, "decode case")
	}
	if err = resp.Body.Close(); err != nil {
		return errors.Wrap(err, "close response body")
	}

	if resp, err = client.PostJSON(ctx, "/api/game/progress", map[string]string{
		"storyId": generated.ID,
		"suspect": generated.Culprit,
	}); err != nil {
		return errors.Wrap(err, "record progress")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("record progress failed", slog.Int("status", resp.StatusCode))
	}
	var result struct {
		Correct  bool  `json:"correct"`
		Progress int64 `json:"progress"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrap(err, "decode progress")
	}
	if !result.Correct || result.Progress < 1 {
		return errors.New("unexpected progress result",
			slog.Bool("correct", result.Correct), slog.Int64("progress", result.Progress))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url, hostname, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestAuth(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing auth", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestGame(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing game", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}

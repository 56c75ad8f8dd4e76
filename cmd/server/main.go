package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/config"
	"github.com/yourusername/xchat/internal/logging"
	"github.com/yourusername/xchat/internal/server"
)

func main() {
	cfg := config.LoadServer()

	addr := flag.String("addr", cfg.Addr, "HTTP service address")
	redisAddr := flag.String("redis", cfg.RedisAddr, "Redis address for cross-instance chat (empty keeps it in-process)")
	secret := flag.String("jwt-secret", cfg.JWTSecret, "Secret for player tokens (empty disables tokens)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	issue := flag.String("issue-token", "", "Print a token for name:rank and exit")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens printed by -issue-token")
	flag.Parse()

	logger, err := logging.Setup(*logLevel, os.Stderr, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	auth := server.NewTokenAuth(*secret)

	if *issue != "" {
		if err := issueToken(auth, *issue, *ttl); err != nil {
			logger.Fatal().Err(err).Msg("failed to issue token")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fanout := newFanout(ctx, *redisAddr, cfg.RedisChannel, logger)
	srv := server.NewServer(fanout, auth, cfg.SendBuffer, logger)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", *addr).Bool("tokens", auth.Enabled()).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("ListenAndServe")
	}
	logger.Info().Msg("server stopped")
}

// newFanout picks redis pub/sub when an address is configured
func newFanout(ctx context.Context, addr, channel string, logger zerolog.Logger) server.Fanout {
	if addr == "" {
		return server.NewLocalFanout()
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	fanout := server.NewRedisFanout(client, channel, logger)
	go func() {
		if err := fanout.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("redis fanout stopped")
		}
		client.Close()
	}()

	logger.Info().Str("redis", addr).Str("channel", channel).Msg("global chat via redis")
	return fanout
}

// issueToken prints a signed token for "name:rank"
func issueToken(auth *server.TokenAuth, arg string, ttl time.Duration) error {
	name, rankText, ok := strings.Cut(arg, ":")
	if !ok || name == "" {
		return fmt.Errorf("expected name:rank, got %q", arg)
	}
	rank, err := strconv.Atoi(rankText)
	if err != nil {
		return fmt.Errorf("invalid rank %q: %w", rankText, err)
	}

	token, err := auth.Issue(name, rank, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/client/bridge"
	"github.com/yourusername/xchat/internal/client/chat"
	"github.com/yourusername/xchat/internal/client/connection"
	"github.com/yourusername/xchat/internal/client/ui"
	"github.com/yourusername/xchat/internal/config"
	"github.com/yourusername/xchat/internal/logging"
)

func main() {
	cfg := config.LoadClient()

	serverURL := flag.String("server", cfg.ServerURL, "WebSocket server URL")
	playerName := flag.String("name", cfg.Name, "Player name")
	token := flag.String("token", cfg.Token, "Player token issued by the server")
	transport := flag.String("transport", cfg.Transport, "Panel transport: local, http or dev")
	bridgeAddr := flag.String("bridge", cfg.BridgeAddr, "Listen address for the http transport")
	settingsPath := flag.String("settings", cfg.SettingsPath, "Chat settings file")
	logFile := flag.String("log", cfg.LogFile, "Log file")
	flag.Parse()

	if !config.ValidTransport(*transport) {
		fmt.Fprintf(os.Stderr, "Unknown transport: %s\n", *transport)
		flag.Usage()
		os.Exit(1)
	}

	// bubbletea owns the terminal, so logs go to a file
	f, err := logging.OpenFile(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	logger, err := logging.Setup(cfg.LogLevel, f, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := ui.Options{
		ServerURL: *serverURL,
		Name:      *playerName,
		Token:     *token,
		Offline:   *transport == config.TransportDev,
		Chat:      chat.DefaultConfig(),
		Store:     chat.NewFileSettingsStore(*settingsPath),
		Scheduler: chat.TimerScheduler{},
		Logger:    logger,
	}

	switch *transport {
	case config.TransportHTTP:
		opts.Transport = httpTransport(*bridgeAddr, cfg.Resource, logger)
	case config.TransportDev:
		opts.Transport = devTransport
	}

	model := ui.NewModel(opts)
	defer model.Disconnect()

	logger.Info().Str("server", *serverURL).Str("transport", *transport).Msg("starting client")
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("client exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// httpTransport serves the bridge on addr and points the panel at it
func httpTransport(addr, resource string, logger zerolog.Logger) ui.TransportFactory {
	return func(mgr *connection.Manager, _ func(chat.Event)) chat.Transport {
		b := bridge.New(mgr, mgr.Emit, logger)
		srv := &http.Server{
			Addr:              addr,
			Handler:           b.Handler(resource),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", addr).Msg("bridge server stopped")
			}
		}()
		return chat.NewHTTPTransport("http://"+addr, resource)
	}
}

// devTransport runs the panel without a game client
func devTransport(_ *connection.Manager, post func(chat.Event)) chat.Transport {
	d := chat.NewDevTransport(post)
	d.Welcome()
	return d
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i4.energy/across/rak811gw/rak811"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port the RAK811 is attached to")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Bool("console", false, "Read commands from stdin")
	flag.Duration("poll-interval", time.Second, "How often queued downlinks are collected")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configPath), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port, err := rak811.SerialDialer{
		PortName: config.SerialPort,
		BaudRate: config.BaudRate,
	}.Dial(ctx)
	if err != nil {
		logger.Error("Failed to open serial port", "error", err, "port", config.SerialPort)
		os.Exit(1)
	}
	defer port.Close()

	driverConfig, err := rak811.NewConfigBuilder().
		WithLogger(logger.With("component", "rak811")).
		WithResetHold(10 * time.Millisecond).
		Build()
	if err != nil {
		logger.Error("Failed to create driver config", "error", err)
		os.Exit(1)
	}

	driver, err := rak811.New(port, port, driverConfig)
	if err != nil {
		logger.Error("Failed to create driver", "error", err)
		os.Exit(1)
	}

	sess := newSession(driver, logger.With("component", "session"))
	if err := sess.bringUp(config.LoRa, logger); err != nil {
		logger.Error("Failed to bring up module", "error", err)
		os.Exit(1)
	}
	logger.Info("Starting RAK811 gateway", "band", driver.Band(), "mode", driver.ConnectMode())

	hub := NewHub(logger.With("component", "events"))
	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger: logger.With("component", "server"),
			Radio:  sess,
			Events: hub,
		},
	}

	go pollDownlinks(ctx, sess, config.LoRa.Ports, config.PollInterval, hub, logger.With("component", "poller"))

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	if config.Console {
		go func() {
			if err := runConsole(ctx, os.Stdin, os.Stdout, sess); err != nil {
				logger.Error("Console failed", "error", err)
			}
			stop()
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}

// pollDownlinks moves received downlinks from the driver queue to the hub
// until ctx is done.
func pollDownlinks(ctx context.Context, sess *session, ports []uint8, interval time.Duration, hub *Hub, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		downlinks, err := sess.poll(ports)
		for _, dl := range downlinks {
			logger.Info("Downlink received", "port", dl.Port, "payload", dl.Payload)
			hub.Broadcast(dl)
		}
		if err != nil {
			logger.Warn("Downlink poll failed", "error", err)
		}
	}
}

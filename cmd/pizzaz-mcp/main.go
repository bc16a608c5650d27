package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spirilis/pizzaz-mcp/assets"
	"github.com/spirilis/pizzaz-mcp/config"
	"github.com/spirilis/pizzaz-mcp/logging"
	"github.com/spirilis/pizzaz-mcp/mcp"
	"github.com/spirilis/pizzaz-mcp/transport"
	"github.com/spirilis/pizzaz-mcp/widgets"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults apply when empty)")
	flag.Parse()

	cfg := config.NewDefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize logger early
	logging.Initialize(cfg.Logging)

	server, err := mcp.NewServer(widgets.Default(), &mcp.ServerConfig{
		Name:      cfg.Server.Name,
		Version:   cfg.Server.Version,
		PublicURL: cfg.Server.PublicURL,
	})
	if err != nil {
		logging.Error("Widget catalog is misconfigured", "error", err)
		os.Exit(1)
	}

	var trans transport.Transport
	var stdio *transport.StdioTransport
	switch cfg.Server.Mode {
	case "stdio":
		stdio = transport.NewStdioTransport()
		trans = stdio
		logging.Info("Starting MCP server in stdio mode")
	case "http":
		backend, closer, err := buildBackend(cfg.Assets)
		if err != nil {
			logging.Error("Error initializing asset backend", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			defer closer.Close()
		}

		orchestrator := assets.NewOrchestrator(backend, assets.FixedHashFallback{Hash: cfg.Assets.FallbackHash})
		metricsPath := ""
		if cfg.Metrics.Enabled {
			metricsPath = cfg.Metrics.Path
		}
		trans = transport.NewHTTPTransport(transport.HTTPTransportConfig{
			Host:        cfg.Server.HTTP.Host,
			Port:        cfg.Server.HTTP.Port,
			Stateful:    cfg.Server.HTTP.Stateful,
			Assets:      assets.NewHandler(orchestrator, manifestSource(cfg.Assets.Manifest)),
			MetricsPath: metricsPath,
		})
		logging.Info("Starting MCP server in HTTP mode",
			"host", cfg.Server.HTTP.Host,
			"port", cfg.Server.HTTP.Port,
			"asset_backend", cfg.Assets.Backend)
	default:
		logging.Error("Unknown transport mode", "mode", cfg.Server.Mode)
		os.Exit(1)
	}

	if err := trans.Start(server); err != nil {
		logging.Error("Error starting transport", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal, or for stdin to close in stdio mode
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	var inputDone <-chan struct{}
	if stdio != nil {
		inputDone = stdio.Done()
	}
	select {
	case <-sigCh:
	case <-inputDone:
	}

	logging.Info("Shutting down gracefully")

	if err := trans.Stop(); err != nil {
		logging.Error("Error stopping transport", "error", err)
		os.Exit(1)
	}

	logging.Info("Shutdown complete")
}

// buildBackend opens the configured asset store. The closer is nil for
// stores that hold no resources.
func buildBackend(cfg config.AssetsConfig) (assets.Backend, io.Closer, error) {
	switch cfg.Backend {
	case "dir":
		backend, err := assets.NewDirBackendFromPath(cfg.Dir)
		return backend, nil, err
	case "bolt":
		backend, err := assets.NewBoltBackend(cfg.Bolt.DBPath, cfg.Bolt.Bucket)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Bolt.ImportDir != "" {
			n, err := backend.ImportFS(os.DirFS(cfg.Bolt.ImportDir))
			if err != nil {
				backend.Close()
				return nil, nil, err
			}
			logging.Info("Imported assets into bolt store", "dir", cfg.Bolt.ImportDir, "count", n)
		}
		return backend, backend, nil
	case "origin":
		return assets.NewOriginBackend(cfg.Origin.URL, cfg.Origin.Timeout), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown asset backend: %q", cfg.Backend)
	}
}

func manifestSource(cfg config.ManifestConfig) assets.ManifestSource {
	if cfg.Path != "" {
		return assets.FileManifest{Path: cfg.Path}
	}
	return assets.EnvManifest{Name: cfg.Env}
}

// Package app wires configuration, logging and the Confluence client
// together for the CLI commands.
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/internal/config"
	"github.com/tonimelisma/confluence-client/internal/logger"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

// ErrNotConfigured is returned when no config file exists yet.
var ErrNotConfigured = errors.New("confluence-client is not configured, run 'confluence-client config init'")

// App carries everything a command needs.
type App struct {
	Config  *config.Config
	Section string
	Server  config.ServerConfig
	Logger  logger.Logger
	SDK     SDK
}

// ConfigPath returns the config file path from the --config flag, falling
// back to the default location.
func ConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultLocation().Path()
}

// NewApp loads the config section selected with --section and connects to
// that server.
func NewApp(cmd *cobra.Command) (*App, error) {
	path, err := ConfigPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		if errors.Is(err, config.ErrConfigFileNotFound) {
			return nil, fmt.Errorf("%w (%v)", ErrNotConfigured, err)
		}
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	section, _ := cmd.Flags().GetString("section")
	if section == "" {
		section = config.DefaultSection
	}

	server, err := cfg.Server(section)
	if err != nil {
		return nil, fmt.Errorf("reading server settings: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.NewDefaultLogger(debug || server.Debug)

	sdk, err := Connect(server, log)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Section: section,
		Server:  server,
		Logger:  log,
		SDK:     sdk,
	}, nil
}

// Connect builds a Confluence server facade from a config section.
func Connect(sc config.ServerConfig, log logger.Logger) (*confluence.Server, error) {
	transportLog := log
	if sl, ok := log.(*logger.SlogLogger); ok {
		transportLog = sl.With("component", "transport")
	}

	client, err := confluence.NewClient(confluence.Options{
		BaseURL:           sc.BaseURL,
		Token:             sc.Token,
		Username:          sc.Username,
		Cloud:             sc.Cloud,
		Timeout:           sc.Timeout,
		RequestsPerSecond: sc.RequestsPerSecond,
		Logger:            transportLog,
	})
	if err != nil {
		return nil, fmt.Errorf("creating confluence client: %w", err)
	}
	log.Debug("connected", "base_url", client.BaseURL(), "cloud", client.IsCloud())
	return confluence.NewServer(client), nil
}

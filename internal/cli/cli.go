package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/gora-search/internal/config"
	"github.com/pfrederiksen/gora-search/internal/crypto"
	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/messaging"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/pfrederiksen/gora-search/internal/settings"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNoResults = 2
)

// errNoResults ends a successful search that found nothing.
var errNoResults = errors.New("no results")

// rootOptions holds the persistent flags and what they load.
type rootOptions struct {
	configFile string
	dataDir    string
	verbose    bool

	cfg *config.Config
}

// app is the wiring shared by the commands that talk to the API.
type app struct {
	cfg    *config.Config
	bus    *messaging.Bus
	store  *settings.Store
	client *gora.Client
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gora-search",
		Short: "Search Rakuten GORA golf courses",
		Long: `A CLI tool to search Rakuten GORA golf courses.
Searches by keyword and prefecture, shows course details and reservation
links, augments GORA pages and serves the search popup locally.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.load,
	}

	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "Config file (default: ./config.yaml or <data-dir>/config.yaml)")
	cmd.PersistentFlags().StringVar(&o.dataDir, "data-dir", "", "Data directory for settings (default ~/.local/share/gora-search)")
	cmd.PersistentFlags().BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newSearchCmd(o),
		newDetailCmd(o),
		newAreasCmd(o),
		newConfigCmd(o),
		newAugmentCmd(o),
		newServeCmd(o),
	)

	return cmd
}

// load reads the configuration and sets up logging before any command runs.
func (o *rootOptions) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.dataDir != "" {
		dir, err := config.ExpandHome(o.dataDir)
		if err != nil {
			return err
		}
		cfg.DataDir = dir
	}
	o.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if o.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Data directory: %s\n", cfg.DataDir)
	}
	return nil
}

// app opens the settings store and builds the API client.
func (o *rootOptions) app() (*app, error) {
	bus := messaging.NewBus()

	store, err := settings.New(o.cfg.DataDir, crypto.NewEncryptor(o.cfg.SettingsPassphrase), bus)
	if err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}

	return &app{
		cfg:    o.cfg,
		bus:    bus,
		store:  store,
		client: gora.NewClient(gora.OptionsFromConfig(o.cfg)),
	}, nil
}

// credential returns the stored credential; the client rejects it when it is
// not configured.
func (a *app) credential() (string, error) {
	cred, err := a.store.Credential()
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return cred, nil
}

// userError prefixes err with the message the popup would show for it.
func userError(err error) error {
	return fmt.Errorf("%s (%w)", popup.MessageFor(err), err)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// run executes the root command with args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errNoResults):
		return ExitNoResults
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

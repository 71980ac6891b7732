package cli

import (
	"strings"

	"github.com/pfrederiksen/gora-search/internal/augment"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/pfrederiksen/gora-search/internal/server"
	"github.com/pfrederiksen/gora-search/internal/tabs"
	"github.com/spf13/cobra"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		listen string
		dryRun bool
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search popup and settings page locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.app()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.ListenAddr
			}

			var opener tabs.Opener = tabs.NewBrowserOpener()
			if dryRun {
				opener = tabs.NewDryRunOpener(cmd.OutOrStdout())
			}

			controller := popup.NewController(a.client, a.store, opener)
			controller.SetLogger(a.client.Logger())
			controller.Subscribe(a.bus)
			options := popup.NewOptions(a.store, a.client)
			options.Subscribe(a.bus)

			srv := server.New(server.Deps{
				Controller: controller,
				Options:    options,
				Router:     server.NewMessageRouter(a.store, opener, a.bus, settingsURL(listen)),
				Bus:        a.bus,
				Fetcher:    augment.NewFetcher(),
				APIMetrics: a.client.Metrics(),
			})

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if open {
				go func() {
					if err := opener.Open(ctx, popupURL(listen)); err != nil {
						logger.Warn("Could not open the popup", logger.Fields{"error": err.Error()})
					}
				}()
			}

			return srv.Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config: 127.0.0.1:8787)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print URLs instead of opening browser tabs")
	cmd.Flags().BoolVar(&open, "open", false, "Open the popup in the browser")

	return cmd
}

func popupURL(addr string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	return "http://" + host + "/"
}

// settingsURL is the settings page address for a listen address.
func settingsURL(addr string) string {
	return popupURL(addr) + "settings"
}

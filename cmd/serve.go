package cmd

import (
	"context"
	"time"

	"github.com/habedi/findstream/metrics"
	"github.com/habedi/findstream/pkg/clierr"
	"github.com/habedi/findstream/pkg/validation"
	"github.com/habedi/findstream/search"
	"github.com/habedi/findstream/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(root *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (overrides the settings file)")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, listen string) error {
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	if listen != "" {
		if err := validation.ValidateListenAddress(listen); err != nil {
			return clierr.New(clierr.Validation, err.Error(), err)
		}
		settings.Listen = listen
	}

	m := metrics.New("findstream")

	// Without a first token the server could never answer a search.
	source, err := newStreamSource(ctx, settings, m)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get the initial access token")
		return clierr.FromUpstream(err)
	}

	srv, err := web.New(search.NewService(source, m), web.Options{
		Listen:         settings.Listen,
		RequestTimeout: settings.RequestTimeout,
		RateLimit:      settings.RateLimit,
		Burst:          settings.Burst,
		Metrics:        m,
	})
	if err != nil {
		return clierr.New(clierr.Internal, "failed to set up the web server", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil {
			return clierr.New(clierr.Internal, "web server stopped unexpectedly: "+err.Error(), err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return clierr.New(clierr.Internal, "graceful shutdown failed", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/internal/server"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/selection"
	"github.com/matzehuels/topiccloud/pkg/source"
)

const shutdownTimeout = 10 * time.Second

// serveCommand starts the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		title       string
		natsURL     string
		noCache     bool
		reloadEvery time.Duration
		lf          layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [topics.json]",
		Short: "Serve the interactive word cloud over HTTP",
		Long: `Serve the interactive word cloud over HTTP.

The page at / shows the cloud with a details panel; clicking a word selects
it. Selections are pushed to WebSocket clients on /ws and, when nats_url is
set, published on NATS. POST /api/reload recomputes the cloud from the
source; --reload-every does so periodically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args)
			lf.apply(cmd, &opts)

			cfg := c.Config().Server
			fs := cmd.Flags()
			if fs.Changed("addr") {
				cfg.Addr = addr
			}
			if fs.Changed("title") {
				cfg.Title = title
			}
			if fs.Changed("nats-url") {
				cfg.NATSURL = natsURL
			}
			return c.runServe(cmd.Context(), opts, cfg, noCache, reloadEvery)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "publish selections to this NATS server")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&reloadEvery, "reload-every", 0, "recompute the cloud at this interval (0: never)")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, cfg server.Config, noCache bool, reloadEvery time.Duration) error {
	cfg.SetDefaults()
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	if c.Verbose() {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		observability.SetSelectionHooks(hooks)
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	src, err := source.Open(ctx, opts.Source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	options := []server.Option{server.WithLogger(c.Logger)}
	if cfg.NATSURL != "" {
		nc, err := selection.ConnectNATS(selection.NATSConfig{URL: cfg.NATSURL}, c.Logger)
		if err != nil {
			return err
		}
		defer nc.Close()
		options = append(options, server.WithPublisher(selection.NewPublisher(nc, cfg.NATSSubject, c.Logger)))
	}

	srv := server.New(cfg, runner, src, opts, options...)

	spinner := newSpinnerWithContext(ctx, "Computing initial layout...")
	spinner.Start()
	if err := srv.Reload(ctx); err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("initial layout: %w", err)
	}
	spinner.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	printSuccess("Serving %s", src.Name())
	printKeyValue("Address", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
	if cfg.NATSURL != "" {
		printKeyValue("NATS", cfg.NATSURL+" "+StyleDim.Render(cfg.NATSSubject))
	}

	var tick <-chan time.Time
	if reloadEvery > 0 {
		ticker := time.NewTicker(reloadEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-tick:
			if err := srv.Reload(ctx); err != nil {
				c.Logger.Warn("reload failed", "error", err)
			}
		case <-ctx.Done():
			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}
	}
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nostalgiatan/see/api"
	"github.com/nostalgiatan/see/browser"
	"github.com/nostalgiatan/see/cache"
	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/content"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/engine/bing"
	"github.com/nostalgiatan/see/engine/quark"
	"github.com/nostalgiatan/see/engine/sogou"
	"github.com/nostalgiatan/see/models"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)

	root := &cobra.Command{
		Use:           "see",
		Short:         "Resilient web search extraction over headless browser and HTTP engines",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(cfg),
		newSearchCmd(cfg),
		newEnginesCmd(cfg),
		newFetchCmd(cfg),
		newVersionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// buildEngines assembles the registry with every engine wired to its
// transport. The browser manager launches lazily, so constructing the quark
// engine costs nothing until the first browser search.
func buildEngines(cfg *config.Config) (*engine.Registry, *engine.Client, *browser.Manager) {
	reg := engine.NewRegistry()

	manager := browser.NewManager(cfg.Browser)
	reg.Register(quark.New(manager, cfg.Search))

	client := engine.NewClient(cfg.Fetch.Proxy, cfg.Fetch.Timeout)
	reg.Register(sogou.New(client, cfg.Search))
	reg.Register(bing.New(client, cfg.Search))

	return reg, client, manager
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the search API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.Info("see starting",
				"host", cfg.Server.Host,
				"port", cfg.Server.Port,
				"mode", cfg.Server.Mode,
			)

			reg, client, manager := buildEngines(cfg)
			defer manager.Close()

			cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
			ex := content.NewExtractor(client)
			router := api.NewRouter(reg, ex, cc, cfg, time.Now())

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := &http.Server{
				Addr:    addr,
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("HTTP server listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				slog.Info("shutdown signal received")
			}

			// Give in-flight requests 5 seconds to complete.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("HTTP server forced shutdown", "error", err)
			} else {
				slog.Info("HTTP server drained gracefully")
			}

			// manager.Close() runs via defer and kills the browser.
			slog.Info("see stopped")
			return nil
		},
	}
}

func newSearchCmd(cfg *config.Config) *cobra.Command {
	var (
		engineName string
		maxResults int
		page       int
		timeRange  string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one query against an engine and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, manager := buildEngines(cfg)
			defer manager.Close()

			eng, err := reg.Get(engineName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout := eng.Info().Timeout; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			resp, err := eng.Search(ctx, models.SearchQuery{
				Query:      args[0],
				MaxResults: maxResults,
				Page:       page,
				TimeRange:  timeRange,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(resp)
			}

			for i, item := range resp.Items {
				fmt.Printf("%2d. %s\n    %s\n", i+1, item.Title, item.URL)
				if line := firstLine(item.Snippet); line != "" {
					fmt.Printf("    %s\n", line)
				}
			}
			fmt.Printf("\n%d results from %s in %dms\n", resp.TotalCount, resp.Engine, resp.QueryTimeMs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&engineName, "engine", "e", "quark", "engine to query")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 10, "maximum number of results")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().StringVar(&timeRange, "time-range", "", "restrict result age (day|week|month|year)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response JSON")
	return cmd
}

func newEnginesCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List the registered engines",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, _, manager := buildEngines(cfg)
			defer manager.Close()

			list := reg.List()
			if asJSON {
				return printJSON(list)
			}

			for _, st := range list {
				fmt.Printf("%-8s %-8s %s\n", st.Name, st.Type, st.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func newFetchCmd(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch one page and print its extracted article content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := content.NewExtractor(engine.NewClient(cfg.Fetch.Proxy, cfg.Fetch.Timeout))

			resp, err := ex.Extract(cmd.Context(), models.FulltextRequest{
				URL:    args[0],
				Format: format,
			})
			if err != nil {
				return err
			}

			fmt.Println(resp.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format (markdown|text|html)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("see %s\n", version)
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// firstLine trims a snippet down to its first line for terminal output.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

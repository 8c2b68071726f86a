package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"unitables/internal/components/fetch"
	"unitables/internal/components/serviceutil"
	"unitables/internal/components/telemetry"
	"unitables/internal/scrapers/hse"
	"unitables/pkg/tabular"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configName string

	otelProviders telemetry.Otel
	scraper       hse.Scraper
)

var rootCmd = &cobra.Command{
	Use:           "unitables",
	Short:         "unitables extracts cost, ranking, programme and FAQ tables from the HSE website.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(os.Stderr, verbose)

		cfg, err := readConfig(configName)
		if err != nil {
			return err
		}

		otelProviders, err = telemetry.SetupOtel(cmd.Context(), "unitables", cfg.Otlp)
		if err != nil {
			return fmt.Errorf("setup otel: %w", err)
		}

		opts, err := cfg.Fetch.options()
		if err != nil {
			return fmt.Errorf("fetch options: %w", err)
		}
		tel := telemetry.SlogAPI{}
		scraper = hse.NewScraper(fetch.NewClient(tel, opts), cfg.URLs, tel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs, including every http request.")
	rootCmd.PersistentFlags().StringVar(&configName, "config", "unitables.json5", "The config file to look for in the working directory and its parents.")
}

// outputFlags are the flags shared by every extraction command.
type outputFlags struct {
	url    string
	format string
}

func (f *outputFlags) register(cmd *cobra.Command, what string) {
	cmd.Flags().StringVar(&f.url, "url", "", fmt.Sprintf("The %s page to read, defaults to the configured one.", what))
	cmd.Flags().StringVarP(&f.format, "format", "f", string(tabular.FormatTable), "The output format: table, csv or markdown.")
}

func (f *outputFlags) render(table *tabular.Table) error {
	format, err := tabular.ParseFormat(f.format)
	if err != nil {
		return err
	}
	table.Render(os.Stdout, format)
	return nil
}

// shutdownOtel flushes pending spans and metrics.
var shutdownOtel = func(ctx context.Context) error {
	return otelProviders.Shutdown(ctx)
}

// execute runs the selected command and always flushes telemetry afterwards,
// cobra skips post-run hooks when a command fails.
func execute(ctx context.Context) error {
	runErr := rootCmd.ExecuteContext(ctx)
	shutdownErr := shutdownOtel(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		shutdownErr = fmt.Errorf("shutdown otel: %w", shutdownErr)
	}
	return errors.Join(runErr, shutdownErr)
}

func ExecuteContext(ctx context.Context) {
	err := execute(ctx)
	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daddylive/m3u8hunt/internal/config"
	"github.com/daddylive/m3u8hunt/internal/extractor"
	"github.com/daddylive/m3u8hunt/internal/models"
	"github.com/daddylive/m3u8hunt/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Command line flags.
var (
	// Global flags.
	configFile string
	verbose    bool
	logLevel   string

	// Extraction flags.
	targetURL   string
	urlFile     string
	timeoutMs   int
	graceMs     int
	concurrency int
	retries     int
	patterns    []string
	headless    bool
	outputDir   string
)

var rootCmd = &cobra.Command{
	Use:   "m3u8hunt",
	Short: "HLS manifest URL extractor for embed pages",
	Long: `m3u8hunt - HLS manifest URL extractor for embed pages

Renders embed pages in a headless browser and watches network traffic
for .m3u8 manifest requests, instead of scraping page markup:
  • network-level observation, works with obfuscated players
  • bounded browser session pool
  • batch processing with one automatic retry pass
  • JSON report and plain streams list output

Examples:
  # Single embed page
  m3u8hunt -u https://example.com/embed/stream-1

  # Batch from a file, 5 parallel sessions, report to ./results
  m3u8hunt -f urls.txt --concurrency 5 -o results

Version: ` + Version + `
Build time: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logConfig := appConfig.LogConfig()
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		if verbose {
			utils.Info("verbose mode enabled")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetURL == "" && urlFile == "" {
			return cmd.Help()
		}

		if err := ValidateFlags(targetURL, timeoutMs, graceMs, concurrency, retries, patterns); err != nil {
			return err
		}

		appConfig, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		cfg := appConfig.ExtractConfig()
		applyFlags(cmd, &cfg)

		urls, err := collectURLs()
		if err != nil {
			return err
		}

		// Ctrl+C cancels the batch; completed results are still reported.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ext, err := extractor.New(cfg)
		if err != nil {
			return fmt.Errorf("create extractor: %w", err)
		}
		defer ext.Close()

		start := time.Now()
		results, err := ext.Extract(ctx, urls)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		printSummary(results, ext.Stats(), time.Since(start))

		if outputDir != "" {
			reporter := utils.NewReporter(outputDir)
			if err := reporter.GenerateReport(results, ext.Stats(), cfg); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		if ctx.Err() != nil {
			utils.Warn("interrupted, partial results above")
		}

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("m3u8hunt %s\n", Version)
		fmt.Printf("Build time: %s\n", BuildTime)
	},
}

// applyFlags overrides config file values with flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *models.ExtractConfig) {
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	if cmd.Flags().Changed("grace") {
		cfg.Grace = time.Duration(graceMs) * time.Millisecond
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries = retries
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headless
	}
	if len(patterns) > 0 {
		cfg.Patterns = patterns
	}
	cfg.Verbose = verbose
}

func collectURLs() ([]string, error) {
	if urlFile != "" {
		if err := ValidateURLFile(urlFile); err != nil {
			return nil, err
		}
		urls, err := utils.ReadURLsFromFile(urlFile)
		if err != nil {
			return nil, fmt.Errorf("read URL file: %w", err)
		}
		return urls, nil
	}

	normalized, err := NormalizeURL(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	return []string{normalized}, nil
}

func printSummary(results []models.ExtractionResult, stats models.Statistics, elapsed time.Duration) {
	fmt.Println("\n==================================================")
	fmt.Println("📊 Extraction summary")
	fmt.Println("==================================================")
	for _, res := range results {
		if res.Success {
			fmt.Printf("✅ %s\n   → %s (%.0fms)\n", res.EmbedURL, res.M3U8URL, res.Time)
		} else {
			fmt.Printf("❌ %s\n   %s\n", res.EmbedURL, res.Error)
		}
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Embeds processed: %d\n", len(results))
	fmt.Printf("Successful:       %d\n", stats.Successful)
	fmt.Printf("Failed:           %d\n", stats.Failed)
	if stats.Successful > 0 {
		fmt.Printf("Average capture:  %.0fms\n", stats.AverageTime)
	}
	fmt.Printf("Wall time:        %.2fs\n", elapsed.Seconds())
	fmt.Println("==================================================")
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	// Extraction flags.
	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "embed page URL (required unless --url-file is given)")
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "file with one embed URL per line")
	rootCmd.Flags().IntVar(&timeoutMs, "timeout", 20000, "per-page budget in milliseconds")
	rootCmd.Flags().IntVar(&graceMs, "grace", 3000, "post-load grace window in milliseconds")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 10, "parallel browser sessions (1-64)")
	rootCmd.Flags().IntVar(&retries, "retries", 1, "extra passes over failed embeds (0-10)")
	rootCmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "manifest URL regex, repeatable, overrides defaults")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "headless browser mode")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "write report and streams list to this directory")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

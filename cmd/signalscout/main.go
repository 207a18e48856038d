package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"signalscout/internal/collect"
	"signalscout/internal/config"
	"signalscout/internal/enrich"
	"signalscout/internal/history"
	"signalscout/internal/report"
)

var version = "dev"

var (
	logLevel   string
	configPath string
	cfg        *config.Config
	log        = logrus.New()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "signalscout",
	Short:         "Customer-voice PMF signal research",
	Long:          "signalscout searches public social sources for pain, intent, buying, and switching signals around a product idea and scores its product-market fit evidence.",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		log.SetLevel(level)

		// Credentials may live in a local .env; missing file is fine.
		godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("signalscout", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/signalscout/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set X_BEARER_TOKEN (or a .env file) to enable the X source.")
		return nil
	},
}

// --- collect command ---

var (
	limitPerSource int
	summaryOnly    bool
	excludeHN      bool
	noSave         bool
	enrichPages    bool
	reportPath     string
	htmlPath       string
)

var collectCmd = &cobra.Command{
	Use:   "collect [idea text]",
	Short: "Collect and score customer-voice signals for an idea",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("idea text cannot be empty")
		}

		opts := collect.Options{LimitPerSource: limitPerSource}
		if excludeHN {
			include := false
			opts.IncludeHackerNews = &include
		}

		ctx := context.Background()
		collector := collect.New(cfg, log)
		result := collector.Collect(ctx, query, opts)

		var excerpts []enrich.PageExcerpt
		if enrichPages {
			fetcher := enrich.NewFetcher(cfg.Timeout(), log)
			excerpts = fetcher.FetchExcerpts(ctx, result.Insights.TopPainSnippets, 3)
		}

		if summaryOnly {
			fmt.Println(collect.Summarize(result))
		} else {
			out := struct {
				*collect.Result
				TopPainContext []enrich.PageExcerpt `json:"top_pain_context,omitempty"`
			}{result, excerpts}
			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Println(string(encoded))
		}

		if reportPath != "" || htmlPath != "" {
			markdown := report.Markdown(result, excerpts)
			if reportPath != "" {
				if err := os.WriteFile(reportPath, []byte(markdown), 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				log.WithField("path", reportPath).Info("wrote markdown report")
			}
			if htmlPath != "" {
				page, err := report.RenderHTML(markdown)
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
					return fmt.Errorf("writing html report: %w", err)
				}
				log.WithField("path", htmlPath).Info("wrote html report")
			}
		}

		if !noSave {
			if err := saveRun(query, result); err != nil {
				// Archiving is a convenience; a failed save should not
				// fail a run whose results were already printed.
				log.WithError(err).Warn("could not archive run")
			}
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().IntVar(&limitPerSource, "limit-per-source", 0, "Override per-source result limit (1-100)")
	collectCmd.Flags().BoolVar(&summaryOnly, "summary-only", false, "Output only the summarized PMF signal text")
	collectCmd.Flags().BoolVar(&excludeHN, "exclude-hn", false, "Exclude Hacker News from collection")
	collectCmd.Flags().BoolVar(&noSave, "no-save", false, "Skip archiving this run in the history database")
	collectCmd.Flags().BoolVar(&enrichPages, "enrich", false, "Fetch page context for top pain snippets")
	collectCmd.Flags().StringVar(&reportPath, "report", "", "Write a markdown report to this path")
	collectCmd.Flags().StringVar(&htmlPath, "html", "", "Write an HTML report to this path")
}

func saveRun(query string, result *collect.Result) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	statusJSON, err := json.Marshal(result.Insights.SourceStatus)
	if err != nil {
		return fmt.Errorf("encoding source status: %w", err)
	}

	_, err = db.InsertRun(history.Run{
		Query:        query,
		PmfScore:     result.Insights.PmfSignalScore,
		SignalLevel:  string(result.Insights.SignalLevel),
		TotalPosts:   result.Insights.Counts.TotalPosts,
		PainPosts:    result.Insights.Counts.PainPosts,
		IntentPosts:  result.Insights.Counts.IntentPosts,
		BuyingPosts:  result.Insights.Counts.BuyingPosts,
		SwitchPosts:  result.Insights.Counts.SwitchPosts,
		SourceStatus: string(statusJSON),
		Summary:      result.Insights.Summary,
	})
	return err
}

// --- history command ---

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent collection runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.RecentRuns(historyLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded yet. Run 'signalscout collect' first.")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("[%d] %s\n", r.ID, r.CreatedAt)
			fmt.Printf("      %s\n", r.Query)
			fmt.Printf("      %s (%d/100), %d posts, %d pain / %d intent / %d buying / %d switch\n",
				r.SignalLevel, r.PmfScore, r.TotalPosts,
				r.PainPosts, r.IntentPosts, r.BuyingPosts, r.SwitchPosts)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run archive status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("Runs recorded: %d\n", stats.TotalRuns)
		fmt.Printf("Strong signals: %d\n", stats.StrongRuns)
		if stats.LastRunAt != "" {
			fmt.Printf("Last run: %s\n", stats.LastRunAt)
		}
		return nil
	},
}

func openDB() (*history.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return history.Open(filepath.Join(dataDir, "signalscout.db"))
}

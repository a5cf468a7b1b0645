package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/mvfrancisco/extrato/pkg/config"
	"github.com/mvfrancisco/extrato/pkg/ingest"
	"github.com/mvfrancisco/extrato/pkg/models"
	"github.com/mvfrancisco/extrato/pkg/server"
	"github.com/mvfrancisco/extrato/pkg/service"
	"github.com/mvfrancisco/extrato/pkg/ynab"
)

var (
	cfgFile string
	verbose bool
	dump    bool
)

func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "extrato",
		Level:           level,
	})
}

var rootCmd = &cobra.Command{
	Use:   "extrato",
	Short: "Bank statement ingestion pipeline",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import statement files or directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		processor := service.NewProcessor(cfg, logger)

		var paths []string
		for _, arg := range args {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no files found matching pattern %s", arg)
			}
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					logger.Warn("failed to stat path", "error", err, "path", match)
					continue
				}
				if info.IsDir() {
					entries, err := os.ReadDir(match)
					if err != nil {
						return err
					}
					for _, entry := range entries {
						if !entry.IsDir() {
							paths = append(paths, filepath.Join(match, entry.Name()))
						}
					}
					continue
				}
				paths = append(paths, match)
			}
		}

		outcomes, err := processor.ProcessPaths(cmd.Context(), paths)
		if err != nil {
			return err
		}

		if dump {
			pp.Println(outcomes)
		}
		printSummary(outcomes)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, logger)
		if err != nil {
			return err
		}
		logger.Info("starting server", "addr", cfg.ListenAddr)
		return srv.Start(cfg.ListenAddr)
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <path>...",
	Short: "Import statements and push new transactions to YNAB",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.YNAB.Token == "" || cfg.YNAB.BudgetID == "" || cfg.YNAB.AccountID == "" {
			return fmt.Errorf("push requires ynab token, budget and account")
		}

		engine := ingest.New(logger)
		var files []ingest.File
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read statement file %s: %w", path, err)
			}
			files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
		}

		outcomes := engine.ParseFiles(cmd.Context(), files, "")

		var candidates []*models.Candidate
		for _, outcome := range outcomes {
			if outcome.Status != models.OutcomeSuccess {
				logger.Error("file failed", "file", outcome.FileName, "message", outcome.Message)
				continue
			}
			candidates = append(candidates, outcome.Result.Valid()...)
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no valid transactions to push")
		}

		client := ynab.New(cfg.YNAB.Token, logger)
		res, err := client.Push(cfg.YNAB.BudgetID, cfg.YNAB.AccountID, candidates)
		if err != nil {
			return err
		}
		fmt.Printf("Push: %d transaction(s) created, %d already in sync\n", res.Created, res.Skipped)
		return nil
	},
}

func printSummary(outcomes []models.FileOutcome) {
	for _, outcome := range outcomes {
		if outcome.Status != models.OutcomeSuccess {
			fmt.Printf("%s: error: %s\n", outcome.FileName, outcome.Message)
			continue
		}
		counts := outcome.Result.Counts()
		fmt.Printf("%s: %s | %d valid, %d warnings, %d ignored\n",
			outcome.FileName, outcome.ParserID, counts.Valid, counts.Warnings, counts.Ignored)
		for _, c := range outcome.Preview {
			sign := ""
			if c.Kind == models.KindExpense {
				sign = "-"
			}
			fmt.Printf("  %s | %-30s | %s%d.%02d\n",
				c.DateISO, truncate(c.Description, 30), sign, c.AmountCents/100, c.AmountCents%100)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	importCmd.Flags().StringP("output", "o", "", "Output directory for review CSVs")
	importCmd.Flags().BoolVar(&dump, "dump", false, "Dump raw outcomes")

	serveCmd.Flags().String("listen", "", "Listen address")
	serveCmd.Flags().String("rules", "", "Categorization rules YAML file")

	pushCmd.Flags().String("token", "", "YNAB personal access token")
	pushCmd.Flags().String("budget", "", "YNAB budget id")
	pushCmd.Flags().String("account", "", "YNAB account id")

	rootCmd.AddCommand(importCmd, serveCmd, pushCmd)
}

func main() {
	_ = gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

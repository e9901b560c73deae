package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/agent"
	"github.com/brandscope/brandscope/internal/config"
	"github.com/brandscope/brandscope/internal/llm"
	"github.com/brandscope/brandscope/internal/observability"
	"github.com/brandscope/brandscope/internal/report"
	"github.com/brandscope/brandscope/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <brand-name>",
	Short: "Run a one-shot brand analysis",
	Long:  "Run the market research checks and LLM evaluation for a brand name and print the report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("format", "markdown", "Output format: markdown, table, json")
	analyzeCmd.Flags().StringSlice("tlds", nil, "Domain suffixes to check (overrides config)")
	analyzeCmd.Flags().Bool("no-eval", false, "Skip the LLM evaluation step")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	brandName := strings.TrimSpace(args[0])
	if brandName == "" {
		return errors.New("brand name is required")
	}

	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatValue)
	if err != nil {
		return err
	}
	tlds, err := cmd.Flags().GetStringSlice("tlds")
	if err != nil {
		return err
	}
	noEval, err := cmd.Flags().GetBool("no-eval")
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if len(tlds) > 0 {
		cfg.Research.TLDs = normalizeTLDs(tlds)
	}

	log, err := observability.NewCLILogger(verbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := cmd.Context()
	startedAt := time.Now()

	aggregator := newAggregatorFactory(cfg, log)(session.Credentials{})
	record, err := aggregator.Research(ctx, brandName)
	if err != nil {
		return fmt.Errorf("market research failed: %w", err)
	}

	input := &report.Input{BrandName: brandName, Research: record}
	if !noEval {
		completer, err := newCompleterFactory(cfg)(session.Credentials{})
		if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
			return err
		}
		evaluator := &agent.Evaluator{Completer: completer, Log: log}
		input.Evaluation = evaluator.Evaluate(ctx, brandName, record)
	}

	formatter := report.NewFormatter(format, time.Now)
	rendered, err := formatter.Format(input)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	if format != report.FormatJSON {
		log.Info("analysis complete",
			zap.String("brand", brandName),
			zap.Duration("elapsed", time.Since(startedAt)),
			zap.Strings("check_errors", record.Errors))
	}
	return nil
}

// normalizeTLDs lowercases, deduplicates, and ensures a leading dot on each
// suffix, accepting comma-joined values inside a single flag occurrence.
func normalizeTLDs(values []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			tld := strings.ToLower(strings.TrimSpace(part))
			tld = strings.TrimPrefix(tld, ".")
			if tld == "" {
				continue
			}
			if _, ok := seen[tld]; ok {
				continue
			}
			seen[tld] = struct{}{}
			result = append(result, "."+tld)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"StockAdvisor/internal/di"
	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/internal/usecase"
)

var (
	analyzeMarket string
	analyzePeriod int
	analyzeJSON   bool
	analyzeQuiet  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run every analyst role on one ticker and print the decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMarket, "market", "m", "US", "market code (US or KR)")
	analyzeCmd.Flags().IntVar(&analyzePeriod, "period", 0, "history window in months (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the decision as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "do not print progress")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	uc, cleanup, err := di.InitializeAnalyzer(cfg)
	if err != nil {
		return fmt.Errorf("analyzer initialization failed: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observer service.ProgressObserver
	if !analyzeQuiet {
		observer = service.ProgressFunc(func(ev models.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s %s\n", ev.At.Format("15:04:05"), ev.Stage, ev.Message)
		})
	}

	d, err := uc.Analyze(ctx, usecase.AnalyzeParams{
		Ticker:       args[0],
		Market:       analyzeMarket,
		PeriodMonths: analyzePeriod,
		Observer:     observer,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	fmt.Fprintln(out, formatDecision(d))
	return nil
}

func formatDecision(d *models.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s  confidence %.2f", d.Ticker, d.Market, d.Verdict, d.Confidence)
	if d.Degraded {
		b.WriteString("  [degraded]")
	}
	b.WriteString("\n")
	if d.PriceTarget.Valid {
		fmt.Fprintf(&b, "target %s", d.PriceTarget.Decimal.String())
		if d.StopLoss.Valid {
			fmt.Fprintf(&b, "  stop %s", d.StopLoss.Decimal.String())
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "risk %s  horizon %s  source %s\n", d.RiskLevel, d.TimeHorizon, d.SourceTier)
	fmt.Fprintf(&b, "votes BUY %.2f / SELL %.2f / HOLD %.2f\n\n",
		d.Votes[models.StanceBuy], d.Votes[models.StanceSell], d.Votes[models.StanceHold])
	b.WriteString(d.Rationale)
	return b.String()
}

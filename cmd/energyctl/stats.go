package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arez-sajeel/Project-Green/internal/repository"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-meter ingest statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pool, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	usage := repository.NewUsageRepository(pool)

	mpans, err := usage.ListMPANs(ctx)
	if err != nil {
		return fmt.Errorf("listing meters: %w", err)
	}
	if len(mpans) == 0 {
		fmt.Println("No usage data.")
		return nil
	}

	var start time.Time
	now := time.Now().UTC()

	fmt.Printf("%-16s %12s %14s %16s\n", "MPAN", "READINGS", "TOTAL KWH", "TOTAL COST (p)")
	for _, mpan := range mpans {
		count, err := usage.CountByMPAN(ctx, mpan, start, now)
		if err != nil {
			return fmt.Errorf("counting readings for %s: %w", mpan, err)
		}
		kwh, cost, err := usage.Totals(ctx, mpan, start, now)
		if err != nil {
			return fmt.Errorf("totalling readings for %s: %w", mpan, err)
		}
		fmt.Printf("%-16s %12s %14s %16s\n",
			mpan,
			humanize.Comma(count),
			humanize.CommafWithDigits(kwh, 1),
			humanize.CommafWithDigits(cost, 2))
	}
	return nil
}

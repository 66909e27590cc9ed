package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

var seedTariffsCmd = &cobra.Command{
	Use:   "seed-tariffs <csv-file>",
	Short: "Load tariff plans from a CSV file",
	Long: `Reads a CSV with header
provider_name,payment_type,region,standing_charge_pd,carbon_score,peak_rate,off_peak_rate,standard_rate
and inserts one tariff per row. Empty rate cells are left out of the rate
schedule. Rates are pence per kWh.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedTariffs,
}

func init() {
	rootCmd.AddCommand(seedTariffsCmd)
}

func runSeedTariffs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols["provider_name"]; !ok {
		return errors.New("csv must have a provider_name column")
	}

	pool, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	repo := repository.NewTariffRepository(pool)

	line := 1
	seeded := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading csv: %w", err)
		}
		line++

		tariff, err := tariffFromRecord(cols, record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := repo.Create(ctx, tariff); err != nil {
			return fmt.Errorf("line %d: inserting tariff: %w", line, err)
		}
		seeded++
	}

	fmt.Printf("✓ Seeded %d tariffs\n", seeded)
	return nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func cell(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func tariffFromRecord(cols map[string]int, record []string) (*models.Tariff, error) {
	provider := cell(cols, record, "provider_name")
	if provider == "" {
		return nil, errors.New("provider_name is empty")
	}

	tariff := &models.Tariff{
		ProviderName: provider,
		PaymentType:  cell(cols, record, "payment_type"),
		Region:       cell(cols, record, "region"),
		RateSchedule: map[string]float64{},
	}

	if raw := cell(cols, record, "standing_charge_pd"); raw != "" {
		charge, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("standing_charge_pd: %w", err)
		}
		tariff.StandingChargePD = charge
	}
	if raw := cell(cols, record, "carbon_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("carbon_score: %w", err)
		}
		tariff.CarbonScore = score
	}

	bands := map[string]string{
		models.BandPeak:     "peak_rate",
		models.BandOffPeak:  "off_peak_rate",
		models.BandStandard: "standard_rate",
	}
	for band, column := range bands {
		raw := cell(cols, record, column)
		if raw == "" {
			continue
		}
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", column, err)
		}
		tariff.RateSchedule[band] = rate
	}
	if len(tariff.RateSchedule) == 0 {
		return nil, errors.New("no rates given")
	}

	return tariff, nil
}

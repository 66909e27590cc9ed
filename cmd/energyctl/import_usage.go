package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arez-sajeel/Project-Green/internal/engine"
	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

var importMPAN string

var importUsageCmd = &cobra.Command{
	Use:   "import-usage <csv-file>",
	Short: "Import historical meter readings from a CSV file",
	Long: `Reads a CSV with header timestamp,kwh_consumption[,reading_type] and
inserts the readings for the property identified by --mpan. Timestamps must
be RFC 3339. Rows are costed against the property's tariff before insert;
readings already present for a slot are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportUsage,
}

func init() {
	importUsageCmd.Flags().StringVar(&importMPAN, "mpan", "", "MPAN of the meter the readings belong to")
	_ = importUsageCmd.MarkFlagRequired("mpan")
	rootCmd.AddCommand(importUsageCmd)
}

func runImportUsage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer file.Close()

	pool, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	properties := repository.NewPropertyRepository(pool)
	tariffs := repository.NewTariffRepository(pool)
	usage := repository.NewUsageRepository(pool)

	property, err := properties.GetByMPAN(ctx, importMPAN)
	if err != nil {
		return fmt.Errorf("looking up mpan %s: %w", importMPAN, err)
	}

	var tariff *models.Tariff
	if property.TariffID != nil {
		tariff, err = tariffs.GetByID(ctx, *property.TariffID)
		if err != nil {
			return fmt.Errorf("loading tariff: %w", err)
		}
	} else {
		fmt.Printf("Warning: property %d has no tariff, importing with zero costs\n", property.ID)
	}

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols["timestamp"]; !ok {
		return errors.New("csv must have a timestamp column")
	}
	if _, ok := cols["kwh_consumption"]; !ok {
		return errors.New("csv must have a kwh_consumption column")
	}

	var logs []models.UsageLog
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading csv: %w", err)
		}
		line++

		log, err := usageFromRecord(cols, record, importMPAN, tariff)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		logs = append(logs, log)
	}
	if len(logs) == 0 {
		return errors.New("csv holds no readings")
	}

	inserted, err := usage.BulkInsert(ctx, logs)
	if err != nil {
		return fmt.Errorf("inserting readings: %w", err)
	}

	fmt.Printf("✓ Imported %d of %d readings (%d duplicates skipped)\n",
		inserted, len(logs), int64(len(logs))-inserted)
	return nil
}

func usageFromRecord(cols map[string]int, record []string, mpanID string, tariff *models.Tariff) (models.UsageLog, error) {
	ts, err := time.Parse(time.RFC3339, cell(cols, record, "timestamp"))
	if err != nil {
		return models.UsageLog{}, fmt.Errorf("timestamp: %w", err)
	}
	kwh, err := strconv.ParseFloat(cell(cols, record, "kwh_consumption"), 64)
	if err != nil {
		return models.UsageLog{}, fmt.Errorf("kwh_consumption: %w", err)
	}
	if kwh < 0 {
		return models.UsageLog{}, errors.New("kwh_consumption is negative")
	}

	readingType := cell(cols, record, "reading_type")
	if readingType == "" {
		readingType = models.ReadingTypeActual
	}
	if readingType != models.ReadingTypeActual && readingType != models.ReadingTypeSimulated {
		return models.UsageLog{}, fmt.Errorf("unknown reading type %q", readingType)
	}

	var cost float64
	if tariff != nil {
		cost, err = engine.PointCost(tariff, kwh, ts)
		if err != nil {
			return models.UsageLog{}, err
		}
		cost = engine.RoundPence(cost)
	}

	return models.UsageLog{
		MPANID:         mpanID,
		Timestamp:      ts.UTC(),
		KWhConsumption: kwh,
		KWhCost:        cost,
		ReadingType:    readingType,
	}, nil
}

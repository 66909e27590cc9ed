package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

var (
	simMPAN     string
	simBroker   string
	simInterval time.Duration
	simDrawKW   float64
)

var simulateMeterCmd = &cobra.Command{
	Use:   "simulate-meter",
	Short: "Publish simulated readings for a meter over MQTT",
	Long: `Publishes one reading per interval to meters/<mpan>/reading until
interrupted. Consumption is the configured draw over the interval with
±25% jitter, marked as simulated.`,
	RunE: runSimulateMeter,
}

func init() {
	simulateMeterCmd.Flags().StringVar(&simMPAN, "mpan", "", "MPAN to publish readings for")
	simulateMeterCmd.Flags().StringVar(&simBroker, "broker", "localhost:1883", "MQTT broker host:port")
	simulateMeterCmd.Flags().DurationVar(&simInterval, "interval", 30*time.Second, "time between readings")
	simulateMeterCmd.Flags().Float64Var(&simDrawKW, "draw-kw", 1.5, "average draw in kW")
	_ = simulateMeterCmd.MarkFlagRequired("mpan")
	rootCmd.AddCommand(simulateMeterCmd)
}

func runSimulateMeter(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", simBroker))
	opts.SetClientID(fmt.Sprintf("energyctl-sim-%s", simMPAN))
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to broker: %w", token.Error())
	}
	defer client.Disconnect(250)

	topic := fmt.Sprintf("meters/%s/reading", simMPAN)
	fmt.Printf("Publishing to %s every %s (ctrl-c to stop)\n", topic, simInterval)

	ticker := time.NewTicker(simInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped.")
			return nil
		case tick := <-ticker.C:
			kwh := simDrawKW * simInterval.Hours() * (0.75 + rand.Float64()*0.5)
			payload, err := json.Marshal(map[string]interface{}{
				"timestamp":       tick.UTC().Truncate(simInterval).Format(time.RFC3339),
				"kwh_consumption": kwh,
				"reading_type":    models.ReadingTypeSimulated,
			})
			if err != nil {
				return fmt.Errorf("encoding reading: %w", err)
			}

			token := client.Publish(topic, 1, false, payload)
			if token.Wait() && token.Error() != nil {
				fmt.Printf("Warning: publish failed: %v\n", token.Error())
				continue
			}
			fmt.Printf("Published %s (%.4f kWh)\n", tick.UTC().Format(time.RFC3339), kwh)
		}
	}
}

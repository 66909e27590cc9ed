// Package ingest receives half-hourly meter readings over MQTT and feeds
// them into the usage pipeline.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arez-sajeel/Project-Green/internal/service"
)

// TopicFilter matches every meter's reading topic.
const TopicFilter = "meters/+/reading"

// ParseReading decodes a reading from an MQTT message. Meters usually omit
// the MPAN from the payload; it is taken from the topic, and a payload MPAN
// that disagrees with the topic is rejected.
func ParseReading(topic string, payload []byte) (service.MeterReading, error) {
	var reading service.MeterReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return service.MeterReading{}, fmt.Errorf("decode reading: %w", err)
	}

	topicMPAN := mpanFromTopic(topic)
	switch {
	case reading.MPANID == "":
		reading.MPANID = topicMPAN
	case topicMPAN != "" && topicMPAN != reading.MPANID:
		return service.MeterReading{}, fmt.Errorf("topic mpan %q does not match payload mpan %q", topicMPAN, reading.MPANID)
	}
	if reading.MPANID == "" {
		return service.MeterReading{}, fmt.Errorf("reading on topic %q has no mpan", topic)
	}
	if reading.Timestamp.IsZero() {
		return service.MeterReading{}, fmt.Errorf("reading for mpan %s has no timestamp", reading.MPANID)
	}
	return reading, nil
}

// mpanFromTopic extracts the meter id from a meters/<mpan>/reading topic.
func mpanFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "meters" || parts[2] != "reading" {
		return ""
	}
	return parts[1]
}

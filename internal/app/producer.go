// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/orientation_bridge/internal/config"
	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

// openSource builds the device-orientation source named by PRODUCER_SOURCE.
// paced reports whether the source must be polled on a ticker; the NMEA
// source blocks until the receiver sends a sentence. The closer may be nil.
func openSource(cfg *config.Config) (src orientation.Source, closer io.Closer, paced bool, err error) {
	switch cfg.ProducerSource {
	case config.SourceMock:
		return orientation.NewMockSource(), nil, true, nil
	case config.SourceIMU:
		src, err := orientation.NewIMUSource(cfg.IMUSPIDevice, cfg.IMUCSPin)
		return src, nil, true, err
	case config.SourceNMEA:
		src, port, err := orientation.OpenNMEASource(cfg.NMEASerialPort, cfg.NMEABaudRate)
		return src, port, false, err
	default:
		return nil, nil, false, fmt.Errorf("unknown producer source %q", cfg.ProducerSource)
	}
}

// RunProducer publishes the configured screen orientation once and then
// every sample of the configured source to the device orientation topic.
func RunProducer() error {
	cfg := config.Get()

	src, closer, paced, err := openSource(cfg)
	if err != nil {
		return fmt.Errorf("producer: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	log.Printf("producer: using %s source", cfg.ProducerSource)

	client, err := connectMQTT("producer", cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	screen, err := events.Encode(events.Event{
		Type:  events.ScreenOrientationChange,
		Angle: float64(cfg.ScreenOrientation),
	})
	if err != nil {
		return err
	}
	if err := publish(client, cfg.TopicScreenOrientation, true, screen); err != nil {
		return fmt.Errorf("producer: MQTT publish error (screen): %w", err)
	}
	log.Printf("producer: screen orientation %d° published to %s", cfg.ScreenOrientation, cfg.TopicScreenOrientation)

	var tick <-chan time.Time
	if paced {
		ticker := time.NewTicker(time.Duration(cfg.ProducerInterval) * time.Millisecond)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			<-tick
		}

		sample, err := src.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("producer: source closed: %w", err)
		}
		if err != nil {
			log.Printf("producer: error from %s source: %v", cfg.ProducerSource, err)
			continue
		}

		payload, err := events.Encode(events.Event{Type: events.DeviceOrientation, Sample: sample})
		if err != nil {
			log.Printf("producer: json marshal error: %v", err)
			continue
		}
		if err := publish(client, cfg.TopicDeviceOrientation, true, payload); err != nil {
			log.Printf("producer: MQTT publish error (device): %v", err)
		}
	}
}

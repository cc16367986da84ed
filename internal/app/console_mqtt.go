// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/orientation_bridge/internal/config"
	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

func formatPose(p orientation.Pose) string {
	return fmt.Sprintf(
		"[POSE] YAW=%7.2f  PITCH=%7.2f  ROLL=%7.2f  q=(%.4f, %.4f, %.4f, %.4f)",
		p.Yaw, p.Pitch, p.Roll, p.X, p.Y, p.Z, p.W,
	)
}

func formatField(v *float64) string {
	if v == nil {
		return "     -"
	}
	return fmt.Sprintf("%6.1f", *v)
}

func formatSample(s orientation.Sample) string {
	heading := s.WebkitCompassHeading
	if heading == nil {
		heading = s.CompassHeading
	}
	return fmt.Sprintf(
		"[DEV ] alpha=%s beta=%s gamma=%s heading=%s",
		formatField(s.Alpha), formatField(s.Beta), formatField(s.Gamma), formatField(heading),
	)
}

// RunConsoleMQTT prints device samples and bridge poses as they arrive.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	if err := subscribe("console", client, cfg.TopicPose, func(payload []byte) {
		var p orientation.Pose
		if err := json.Unmarshal(payload, &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}
		fmt.Println(formatPose(p))
	}); err != nil {
		return err
	}

	if err := subscribe("console", client, cfg.TopicDeviceOrientation, func(payload []byte) {
		e, err := events.DecodeAs(events.DeviceOrientation, payload)
		if err != nil {
			log.Printf("console: %v", err)
			return
		}
		fmt.Println(formatSample(e.Sample))
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/relabs-tech/orientation_bridge/internal/controls"
	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
	"github.com/relabs-tech/orientation_bridge/internal/scene"
)

// runLocal feeds n samples from src through device orientation controls
// and prints each resulting pose to w. n <= 0 runs until src fails.
func runLocal(src orientation.Source, tick <-chan time.Time, n int, w io.Writer) error {
	dispatcher := events.NewDispatcher()
	object := scene.NewObject()

	ctl, err := controls.New(object, dispatcher)
	if err != nil {
		return err
	}
	if err := ctl.Connect(); err != nil {
		return err
	}
	defer ctl.Disconnect()

	for i := 0; n <= 0 || i < n; i++ {
		if tick != nil {
			<-tick
		}

		sample, err := src.Next()
		if err != nil {
			return err
		}
		if err := dispatcher.Dispatch(events.Event{Type: events.DeviceOrientation, Sample: sample}); err != nil {
			return err
		}
		if err := ctl.Update(); err != nil {
			fmt.Fprintf(w, "update skipped: %v\n", err)
			continue
		}
		fmt.Fprintln(w, formatPose(orientation.PoseFromQuaternion(object.Quaternion())))
	}
	return nil
}

// RunMockConsole drives the controls from the mock source without MQTT.
func RunMockConsole() error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	return runLocal(orientation.NewMockSource(), ticker.C, 0, os.Stdout)
}

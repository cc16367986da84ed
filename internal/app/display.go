// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/orientation_bridge/internal/config"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

var displayBounds = image.Rect(0, 0, 128, 64)

// displayData holds the latest pose for the display loop.
type displayData struct {
	mu       sync.RWMutex
	pose     orientation.Pose
	havePose bool
}

func (d *displayData) set(p orientation.Pose) {
	d.mu.Lock()
	d.pose = p
	d.havePose = true
	d.mu.Unlock()
}

func (d *displayData) get() (orientation.Pose, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pose, d.havePose
}

// RunDisplay shows the bridge's pose on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := dev.Draw(dev.Bounds(), renderLines("Orientation", "Bridge"), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{}

	client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribe("display", client, cfg.TopicPose, func(payload []byte) {
		var p orientation.Pose
		if err := json.Unmarshal(payload, &p); err != nil {
			log.Printf("display: pose unmarshal error: %v", err)
			return
		}
		data.set(p)
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		pose, ok := data.get()
		if err := dev.Draw(dev.Bounds(), renderPose(pose, ok), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// renderPose draws yaw, pitch, roll and the quaternion's w component.
func renderPose(pose orientation.Pose, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return renderLines("", "Orientation", "Waiting...")
	}
	return renderLines(
		fmt.Sprintf("Y: %6.1f", pose.Yaw),
		fmt.Sprintf("P: %6.1f", pose.Pitch),
		fmt.Sprintf("R: %6.1f", pose.Roll),
		fmt.Sprintf("w: %6.3f", pose.W),
	)
}

// renderLines draws up to four 13px text lines on a blank frame.
func renderLines(lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(displayBounds)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}
	return img
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Producer sources.
const (
	SourceMock = "mock"
	SourceIMU  = "imu"
	SourceNMEA = "nmea"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDBridge   string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicDeviceOrientation string
	TopicScreenOrientation string
	TopicPose              string

	// Controls
	UpdateInterval int  // milliseconds
	StartFrozen    bool // connect frozen; toggle via /api/freeze

	// Producer
	ProducerSource    string // "mock", "imu" or "nmea"
	ProducerInterval  int    // milliseconds, mock and imu only
	ScreenOrientation int    // degrees, published once at producer start

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// NMEA heading receiver
	NMEASerialPort string
	NMEABaudRate   int

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Package-level singleton: InitGlobal sets it once, Get reads it.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTBroker:             "tcp://localhost:1883",
		MQTTClientIDBridge:     "orientation-bridge",
		MQTTClientIDProducer:   "orientation-producer",
		MQTTClientIDConsole:    "orientation-console",
		MQTTClientIDDisplay:    "orientation-display",
		TopicDeviceOrientation: "orientation/device",
		TopicScreenOrientation: "orientation/screen",
		TopicPose:              "orientation/pose",
		UpdateInterval:         16,
		ProducerSource:         SourceMock,
		ProducerInterval:       50,
		IMUSPIDevice:           "/dev/spidev6.0",
		IMUCSPin:               "18",
		NMEASerialPort:         "/dev/serial0",
		NMEABaudRate:           9600,
		WebServerPort:          8080,
		WebStaticDir:           "web",
		DisplayI2CBus:          "",
		DisplayUpdateInterval:  200,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Default. Blank lines and lines
// starting with '#' are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func positiveInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error

	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_BRIDGE":
		c.MQTTClientIDBridge = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_DEVICE_ORIENTATION":
		c.TopicDeviceOrientation = value
	case "TOPIC_SCREEN_ORIENTATION":
		c.TopicScreenOrientation = value
	case "TOPIC_POSE":
		c.TopicPose = value

	// Controls
	case "UPDATE_INTERVAL":
		c.UpdateInterval, err = positiveInt(key, value)
	case "START_FROZEN":
		c.StartFrozen, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid START_FROZEN %q: %w", value, err)
		}

	// Producer
	case "PRODUCER_SOURCE":
		switch value {
		case SourceMock, SourceIMU, SourceNMEA:
			c.ProducerSource = value
		default:
			return fmt.Errorf("PRODUCER_SOURCE must be %s, %s or %s, got %q", SourceMock, SourceIMU, SourceNMEA, value)
		}
	case "PRODUCER_INTERVAL":
		c.ProducerInterval, err = positiveInt(key, value)
	case "SCREEN_ORIENTATION":
		angle, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid SCREEN_ORIENTATION %q: %w", value, perr)
		}
		switch angle {
		case -90, 0, 90, 180, 270:
			c.ScreenOrientation = angle
		default:
			return fmt.Errorf("SCREEN_ORIENTATION must be -90, 0, 90, 180 or 270, got %d", angle)
		}

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value

	// NMEA
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		c.NMEABaudRate, err = positiveInt(key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		port, perr := strconv.Atoi(value)
		if perr != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, perr)
		}
		if port < 0 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", port)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = positiveInt(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicDeviceOrientation == "" || c.TopicScreenOrientation == "" || c.TopicPose == "" {
		return fmt.Errorf("TOPIC_DEVICE_ORIENTATION, TOPIC_SCREEN_ORIENTATION and TOPIC_POSE are required")
	}
	if c.ProducerSource == SourceIMU && (c.IMUSPIDevice == "" || c.IMUCSPin == "") {
		return fmt.Errorf("IMU_SPI_DEVICE and IMU_CS_PIN are required for PRODUCER_SOURCE=imu")
	}
	if c.ProducerSource == SourceNMEA && c.NMEASerialPort == "" {
		return fmt.Errorf("NMEA_SERIAL_PORT is required for PRODUCER_SOURCE=nmea")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return its error.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

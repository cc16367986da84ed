// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

type imuSource struct {
	imu *mpu9250.MPU9250
}

// NewIMUSource initializes an MPU9250 over SPI and returns a Source that
// reports beta/gamma tilt from the accelerometer. Alpha is left absent
// because there is no magnetometer fusion.
func NewIMUSource(spiDev, csPin string) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU new device: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}
	if err := imu.Calibrate(); err != nil {
		return nil, fmt.Errorf("IMU calibrate: %w", err)
	}

	return &imuSource{imu: imu}, nil
}

func (s *imuSource) Next() (Sample, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return Sample{}, fmt.Errorf("IMU acc X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return Sample{}, fmt.Errorf("IMU acc Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return Sample{}, fmt.Errorf("IMU acc Z: %w", err)
	}

	return SampleFromAccel(float64(ax), float64(ay), float64(az)), nil
}

// SampleFromAccel computes beta and gamma (degrees) from a gravity vector
// in device axes (any unit, only ratios matter):
//
//	beta  = atan2(ay, az)                 [-180, 180]
//	gamma = atan2(-ax, sqrt(ay² + az²))   [-90, 90]
func SampleFromAccel(ax, ay, az float64) Sample {
	betaRad := math.Atan2(ay, az)
	gammaRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Sample{
		Beta:  Float(betaRad * 180.0 / math.Pi),
		Gamma: Float(gammaRad * 180.0 / math.Pi),
	}
}

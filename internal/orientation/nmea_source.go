// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
)

// nmeaSource turns heading sentences from a compass or GPS receiver into
// compass-heading-only samples.
type nmeaSource struct {
	reader *bufio.Reader
}

// NewNMEASource reads NMEA sentences from r.
func NewNMEASource(r io.Reader) Source {
	return &nmeaSource{reader: bufio.NewReader(r)}
}

// OpenNMEASource opens a serial port and returns a Source reading it.
// The caller closes the returned port.
func OpenNMEASource(portName string, baudRate int) (Source, io.Closer, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return NewNMEASource(port), port, nil
}

// Next blocks until the next HDT sentence or valid RMC sentence and
// returns its heading as a sample. Other and malformed sentences are
// skipped.
func (s *nmeaSource) Next() (Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" && strings.HasPrefix(line, "$") {
			if sample, ok := headingSample(line); ok {
				return sample, nil
			}
		}
		if err != nil {
			return Sample{}, err
		}
	}
}

func headingSample(line string) (Sample, bool) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// noisy receivers emit partial sentences
		return Sample{}, false
	}

	switch sentence.DataType() {
	case nmea.TypeHDT:
		m := sentence.(nmea.HDT)
		return Sample{CompassHeading: Float(m.Heading)}, true
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		if m.Validity != nmea.ValidRMC {
			return Sample{}, false
		}
		return Sample{CompassHeading: Float(m.Course)}, true
	default:
		return Sample{}, false
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package events carries platform orientation events (screen rotation and
// device orientation) from transports to listeners.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

// Type names an event stream.
type Type string

const (
	ScreenOrientationChange Type = "orientationchange"
	DeviceOrientation       Type = "deviceorientation"
)

// ErrUnknownType is returned for events of a type no stream carries.
var ErrUnknownType = errors.New("unknown event type")

// Event is one platform event. Angle is set for ScreenOrientationChange,
// Sample for DeviceOrientation.
type Event struct {
	Type   Type
	Angle  float64
	Sample orientation.Sample
}

func (t Type) valid() bool {
	return t == ScreenOrientationChange || t == DeviceOrientation
}

// wireEvent is the JSON form shared by MQTT and websocket transports:
//
//	{"type":"deviceorientation","alpha":10,"beta":20,"gamma":30}
//	{"type":"orientationchange","angle":90}
type wireEvent struct {
	Type  Type     `json:"type"`
	Angle *float64 `json:"angle,omitempty"`
	orientation.Sample
}

// Decode parses a JSON event.
func Decode(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return w.event()
}

// DecodeAs parses a JSON payload whose type is implied by where it arrived
// (an MQTT topic). A "type" field in the payload is ignored.
func DecodeAs(t Type, payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("decode %s event: %w", t, err)
	}
	w.Type = t
	return w.event()
}

func (w wireEvent) event() (Event, error) {
	switch w.Type {
	case ScreenOrientationChange:
		e := Event{Type: w.Type}
		if w.Angle != nil {
			e.Angle = *w.Angle
		}
		return e, nil
	case DeviceOrientation:
		return Event{Type: w.Type, Sample: w.Sample}, nil
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
	}
}

// Encode is the inverse of Decode.
func Encode(e Event) ([]byte, error) {
	w := wireEvent{Type: e.Type}
	switch e.Type {
	case ScreenOrientationChange:
		w.Angle = orientation.Float(e.Angle)
	case DeviceOrientation:
		w.Sample = e.Sample
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	return json.Marshal(w)
}

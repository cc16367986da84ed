// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relabs-tech/orientation_bridge/internal/config"
	"github.com/relabs-tech/orientation_bridge/internal/controls"
	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/metrics"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
	"github.com/relabs-tech/orientation_bridge/internal/scene"
)

// Transports events arrive on, used as metric labels.
const (
	transportMQTT      = "mqtt"
	transportWebsocket = "websocket"
)

// Bridge wires orientation events from MQTT and websocket clients into
// device orientation controls and fans the resulting pose out.
type Bridge struct {
	cfg        *config.Config
	metrics    *metrics.Metrics
	dispatcher *events.Dispatcher
	object     *scene.Object
	controls   *controls.DeviceOrientationControls
	hub        *poseHub

	mu       sync.RWMutex
	lastPose orientation.Pose
	havePose bool
}

// NewBridge builds a bridge driving a fresh scene object.
func NewBridge(cfg *config.Config) (*Bridge, error) {
	dispatcher := events.NewDispatcher()
	object := scene.NewObject()

	ctl, err := controls.New(object, dispatcher)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	return &Bridge{
		cfg:        cfg,
		metrics:    m,
		dispatcher: dispatcher,
		object:     object,
		controls:   ctl,
		hub:        newPoseHub(m),
	}, nil
}

// Start connects the controls, frozen if the config asks for it.
func (b *Bridge) Start() error {
	if err := b.controls.Connect(); err != nil {
		return err
	}
	if b.cfg.StartFrozen {
		b.controls.ToggleFreeze()
	}
	return nil
}

// Stop disconnects the controls and closes every pose stream.
func (b *Bridge) Stop() error {
	err := b.controls.Disconnect()
	b.hub.closeAll()
	return err
}

// Receive dispatches one event to the controls.
func (b *Bridge) Receive(transport string, e events.Event) error {
	if err := b.dispatcher.Dispatch(e); err != nil {
		b.metrics.EventsRejected.WithLabelValues(transport).Inc()
		return err
	}
	b.metrics.EventsReceived.WithLabelValues(string(e.Type), transport).Inc()
	return nil
}

func (b *Bridge) receiveMQTT(t events.Type, payload []byte) {
	e, err := events.DecodeAs(t, payload)
	if err != nil {
		b.metrics.EventsRejected.WithLabelValues(transportMQTT).Inc()
		log.Printf("bridge: %v", err)
		return
	}
	if err := b.Receive(transportMQTT, e); err != nil {
		log.Printf("bridge: %v", err)
	}
}

// Tick runs one controls update. When the target rotation changed, the
// new pose is stored, streamed to websocket clients and returned with
// changed set.
func (b *Bridge) Tick() (pose orientation.Pose, changed bool) {
	frozen := b.controls.Frozen()
	err := b.controls.Update()
	switch {
	case err != nil:
		b.metrics.Updates.WithLabelValues(metrics.ResultSkipped).Inc()
		log.Printf("bridge: update skipped: %v", err)
		return orientation.Pose{}, false
	case frozen:
		b.metrics.Updates.WithLabelValues(metrics.ResultFrozen).Inc()
		return orientation.Pose{}, false
	}
	b.metrics.Updates.WithLabelValues(metrics.ResultApplied).Inc()

	pose = orientation.PoseFromQuaternion(b.object.Quaternion())

	b.mu.Lock()
	changed = !b.havePose || pose != b.lastPose
	b.lastPose = pose
	b.havePose = true
	b.mu.Unlock()

	if changed {
		b.hub.broadcast(pose)
	}
	return pose, changed
}

// LastPose returns the most recent pose, if any update has been applied.
func (b *Bridge) LastPose() (orientation.Pose, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastPose, b.havePose
}

// RunBridge subscribes to the device and screen orientation topics, runs
// the controls at UPDATE_INTERVAL and publishes poses to MQTT and the web
// server until interrupted.
func RunBridge() error {
	cfg := config.Get()

	b, err := NewBridge(cfg)
	if err != nil {
		return err
	}

	client, err := connectMQTT("bridge", cfg.MQTTBroker, cfg.MQTTClientIDBridge)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribe("bridge", client, cfg.TopicScreenOrientation, func(payload []byte) {
		b.receiveMQTT(events.ScreenOrientationChange, payload)
	}); err != nil {
		return err
	}
	if err := subscribe("bridge", client, cfg.TopicDeviceOrientation, func(payload []byte) {
		b.receiveMQTT(events.DeviceOrientation, payload)
	}); err != nil {
		return err
	}

	if err := b.Start(); err != nil {
		return err
	}
	defer func() {
		if err := b.Stop(); err != nil {
			log.Printf("bridge: stop: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: b.Handler(),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("bridge: web server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer server.Close()

	ticker := time.NewTicker(time.Duration(cfg.UpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Printf("bridge: updating every %dms, publishing to %s", cfg.UpdateInterval, cfg.TopicPose)

	for {
		select {
		case <-ticker.C:
			pose, changed := b.Tick()
			if !changed {
				continue
			}
			payload, err := json.Marshal(pose)
			if err != nil {
				log.Printf("bridge: json marshal error (pose): %v", err)
				continue
			}
			if err := publish(client, cfg.TopicPose, true, payload); err != nil {
				log.Printf("bridge: MQTT publish error (pose): %v", err)
			}

		case err := <-serverErr:
			return fmt.Errorf("bridge: web server: %w", err)

		case <-sigCh:
			log.Println("bridge: shutting down")
			return nil
		}
	}
}

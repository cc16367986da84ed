// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/orientation_bridge/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // phones load the page from the LAN address
	},
}

// wsResponse is sent back on /ws/device when an event is rejected.
type wsResponse struct {
	Type    string `json:"type"` // error
	Message string `json:"message,omitempty"`
}

type freezeState struct {
	Frozen bool `json:"frozen"`
}

// Handler returns the bridge's HTTP routes:
//
//	GET  /api/orientation  latest pose
//	GET  /api/freeze       freeze state
//	POST /api/freeze       toggle freeze
//	GET  /ws/device        orientation events from a browser
//	GET  /ws/pose          pose stream
//	GET  /metrics          Prometheus metrics
//	GET  /                 static files
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orientation", b.handleOrientation)
	mux.HandleFunc("/api/freeze", b.handleFreeze)
	mux.HandleFunc("/ws/device", b.handleDeviceWS)
	mux.HandleFunc("/ws/pose", b.handlePoseWS)
	mux.Handle("/metrics", b.metrics.Handler())
	if b.cfg.WebStaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(b.cfg.WebStaticDir)))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (b *Bridge) handleOrientation(w http.ResponseWriter, r *http.Request) {
	pose, ok := b.LastPose()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, pose)
}

func (b *Bridge) handleFreeze(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		b.controls.ToggleFreeze()
		log.Printf("web: freeze toggled, frozen=%t", b.controls.Frozen())
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, freezeState{Frozen: b.controls.Frozen()})
}

// handleDeviceWS reads JSON events (see events.Decode) from a browser
// forwarding its deviceorientation and orientationchange events.
func (b *Bridge) handleDeviceWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: device websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("web: device connected from %s", conn.RemoteAddr())

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("web: device websocket error: %v", err)
			}
			return
		}

		e, err := events.Decode(payload)
		if err == nil {
			err = b.Receive(transportWebsocket, e)
		} else {
			b.metrics.EventsRejected.WithLabelValues(transportWebsocket).Inc()
		}
		if err != nil {
			if werr := conn.WriteJSON(wsResponse{Type: "error", Message: err.Error()}); werr != nil {
				log.Printf("web: device websocket write error: %v", werr)
				return
			}
		}
	}
}

func (b *Bridge) handlePoseWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: pose websocket upgrade error: %v", err)
		return
	}

	id := b.hub.add(conn)
	defer b.hub.remove(id)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/orientation_bridge/internal/metrics"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

const poseWriteTimeout = time.Second

// poseHub streams poses to websocket clients. Writes happen under mu, so
// each connection has a single writer.
type poseHub struct {
	metrics *metrics.Metrics

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func newPoseHub(m *metrics.Metrics) *poseHub {
	return &poseHub{metrics: m, clients: make(map[string]*websocket.Conn)}
}

func (h *poseHub) add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.metrics.WSClients.Inc()
	log.Printf("web: pose client %s connected from %s", id, conn.RemoteAddr())
	return id
}

func (h *poseHub) remove(id string) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if !ok {
		return
	}
	conn.Close()
	h.metrics.WSClients.Dec()
	log.Printf("web: pose client %s disconnected", id)
}

func (h *poseHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *poseHub) broadcast(p orientation.Pose) {
	var failed []string

	h.mu.Lock()
	for id, conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(poseWriteTimeout))
		if err := conn.WriteJSON(p); err != nil {
			log.Printf("web: pose client %s write error: %v", id, err)
			failed = append(failed, id)
		}
	}
	h.mu.Unlock()

	for _, id := range failed {
		h.remove(id)
	}
}

func (h *poseHub) closeAll() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.remove(id)
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package events

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Listener receives dispatched events.
type Listener func(Event)

// Subscription identifies one registered listener.
type Subscription struct {
	Type Type
	id   uint64
}

// Dispatcher is an in-process event target. It also tracks the current
// screen orientation angle from the events it dispatches.
type Dispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[Type]map[uint64]Listener
	screen    float64
}

// NewDispatcher creates a dispatcher with no listeners and a 0° screen.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[Type]map[uint64]Listener)}
}

// Subscribe registers l for events of type t.
func (d *Dispatcher) Subscribe(t Type, l Listener) (Subscription, error) {
	if !t.valid() {
		return Subscription{}, fmt.Errorf("subscribe: %w: %q", ErrUnknownType, t)
	}
	if l == nil {
		return Subscription{}, errors.New("subscribe: nil listener")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	if d.listeners[t] == nil {
		d.listeners[t] = make(map[uint64]Listener)
	}
	d.listeners[t][d.nextID] = l
	return Subscription{Type: t, id: d.nextID}, nil
}

// Unsubscribe removes a listener. Removing one that is not registered is
// a no-op.
func (d *Dispatcher) Unsubscribe(s Subscription) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners[s.Type], s.id)
	return nil
}

// Dispatch delivers e to every listener of its type, in subscription
// order, on the calling goroutine.
func (d *Dispatcher) Dispatch(e Event) error {
	if !e.Type.valid() {
		return fmt.Errorf("dispatch: %w: %q", ErrUnknownType, e.Type)
	}

	d.mu.Lock()
	if e.Type == ScreenOrientationChange {
		d.screen = e.Angle
	}
	ids := make([]uint64, 0, len(d.listeners[e.Type]))
	for id := range d.listeners[e.Type] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ls := make([]Listener, len(ids))
	for i, id := range ids {
		ls[i] = d.listeners[e.Type][id]
	}
	d.mu.Unlock()

	for _, l := range ls {
		l(e)
	}
	return nil
}

// ScreenOrientation returns the angle of the last screen orientation event.
func (d *Dispatcher) ScreenOrientation() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.screen
}

// ListenerCount returns how many listeners are registered for t.
func (d *Dispatcher) ListenerCount(t Type) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[t])
}

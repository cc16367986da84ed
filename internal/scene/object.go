// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package scene holds the minimal scene-graph object that orientation
// controls drive: a rotation quaternion plus the Euler order used to
// express it.
package scene

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

// Order is the Euler rotation order of an object.
type Order string

const (
	OrderXYZ Order = "XYZ"
	OrderYXZ Order = "YXZ"
)

// Euler is a rotation as three angles in radians applied in Order.
type Euler struct {
	X, Y, Z float64
	Order   Order
}

// Object is a 3D object whose rotation is stored as a quaternion.
type Object struct {
	mu         sync.RWMutex
	quaternion quat.Number
	order      Order
}

// NewObject returns an object with identity rotation and XYZ order.
func NewObject() *Object {
	return &Object{quaternion: orientation.Identity, order: OrderXYZ}
}

// Reorder changes the Euler order used to express the rotation. The
// rotation itself is unchanged.
func (o *Object) Reorder(order Order) error {
	switch order {
	case OrderXYZ, OrderYXZ:
	default:
		return fmt.Errorf("unsupported rotation order %q", order)
	}
	o.mu.Lock()
	o.order = order
	o.mu.Unlock()
	return nil
}

// RotationOrder returns the current Euler order.
func (o *Object) RotationOrder() Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.order
}

// SetQuaternion assigns the object's rotation.
func (o *Object) SetQuaternion(q quat.Number) {
	o.mu.Lock()
	o.quaternion = q
	o.mu.Unlock()
}

// Quaternion returns the object's rotation.
func (o *Object) Quaternion() quat.Number {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quaternion
}

// Rotation returns the rotation as Euler angles in the object's order.
func (o *Object) Rotation() Euler {
	o.mu.RLock()
	q, order := o.quaternion, o.order
	o.mu.RUnlock()

	e := Euler{Order: order}
	if order == OrderYXZ {
		e.X, e.Y, e.Z = orientation.EulerYXZ(q)
	} else {
		e.X, e.Y, e.Z = orientation.EulerXYZ(q)
	}
	return e
}

// Package events declares the payload types published on the event bus.
package events

import "time"

// BuildStart is emitted when schema assembly begins.
type BuildStart struct {
	Definitions int
	Directives  int
}

// BuildFinish is emitted when schema assembly completes, successfully or not.
type BuildFinish struct {
	Types    int
	Err      error
	Duration time.Duration
}

// FieldProbe is emitted when a convention resolver specializes a field slot,
// at most once per (type, field) pair.
type FieldProbe struct {
	ObjectType string
	Field      string
	Accessor   string
	Convention string
}

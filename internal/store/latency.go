package store

import "time"

// Op identifies a store operation for latency purposes.
type Op int

const (
	OpList Op = iota
	OpGet
	OpCreate
	OpUpdate
	OpDelete
)

// Latency decides how long a store operation pretends to take. The
// stores emulate a remote API, so every call waits before touching the
// in-memory data. Once an operation starts it runs to completion;
// cancelling the request just discards the eventual result.
type Latency interface {
	Sleep(op Op)
}

// None runs every operation synchronously. Used by tests and anywhere
// the emulated remoteness is not wanted.
type None struct{}

func (None) Sleep(Op) {}

// Simulated sleeps a fixed duration per operation.
type Simulated struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

func (s Simulated) Sleep(op Op) {
	var d time.Duration
	switch op {
	case OpList:
		d = s.List
	case OpGet:
		d = s.Get
	case OpCreate:
		d = s.Create
	case OpUpdate:
		d = s.Update
	case OpDelete:
		d = s.Delete
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// Per-entity profiles matching the mock API this replaces.

func TripLatency() Simulated {
	return Simulated{
		List:   400 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 500 * time.Millisecond,
		Update: 500 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

func DriverLatency() Simulated {
	return Simulated{
		List:   300 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 400 * time.Millisecond,
		Update: 400 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

func VehicleLatency() Simulated {
	return Simulated{
		List:   300 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 400 * time.Millisecond,
		Update: 400 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

package shell

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

// Clock hands out the per-session sequence numbers that order turns.
type Clock interface {
	Next() int64
}

// UUIDv7Generator produces time-sortable session ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// seqClock is a monotonic logical clock starting at 0.
type seqClock struct {
	seq atomic.Int64
}

func (c *seqClock) Next() int64 {
	return c.seq.Add(1)
}

// Package timeouts provides centralized timeout values for handler operations.
//
// Handlers wrap request contexts with these values before touching MongoDB so
// a stalled store cannot pin request goroutines indefinitely.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads or lookups
//   - Medium: list queries and simple writes
//   - Long: writes touching multiple collections (join/leave, cascade delete)
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple operations like single-document reads.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple creates/updates.
func Medium() time.Duration { return medium }

// Long returns the timeout for operations touching multiple collections.
// Examples: join/leave (event + user documents), delete with cascade cleanup.
func Long() time.Duration { return long }

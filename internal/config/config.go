// Package config holds the CLI configuration types.
package config

import "time"

// DefaultBindHost is the local address the per-file sockets bind to.
const DefaultBindHost = "127.0.0.1"

// Config stores all parameters gathered from CLI flags or the interactive
// prompts.
type Config struct {
	DestHost   string        // receiver address
	DestPort   int           // receiver port
	BindHost   string        // local address for the per-file sockets
	Timeout    time.Duration // retransmission timeout
	MaxRetries int           // retransmissions per packet before giving up; 0 retries forever
	Files      []string      // paths of the files to send
}

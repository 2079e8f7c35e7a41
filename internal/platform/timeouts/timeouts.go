// Package timeouts defines the server timeouts shared by service entrypoints.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StorageOpen caps how long startup waits for the database to answer a ping.
const StorageOpen = 10 * time.Second

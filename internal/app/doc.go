// Package app provides the orchestration layer for the froggi-ocr agent.
//
// # Overview
//
// This package decides which of the two run modes applies and wires the
// pieces for it. It is the composition root: configuration, HTTP clients,
// the relay loop and the optional status server are all created here.
//
// # Startup Gate
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Inspect()
//	       │
//	       ├── NeedsBootstrap ──> bootstrap.Run()   prompt, probe, save, return
//	       │
//	       └── Ready(cfg) ──────> relay.Loop.Run()  poll until ctx is cancelled
//
// Bootstrap and relay never run in the same process: after a successful
// bootstrap the agent exits and the next start picks up the new file.
//
// # Status Server
//
// When Options.StatusAddr is set, an HTTP server is started next to the loop:
//
//   - GET /metrics: Prometheus collectors from the metrics package
//   - GET /status: JSON snapshot of the latest cycle from the state package
//
// The server is bound before the loop starts so a busy port fails fast, and
// it is shut down with a 5 second grace period when the loop returns.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but unreadable, malformed or invalid
//   - Operator input ending during bootstrap
//   - Transport failure while checking the API key
//   - Failure writing the configuration file
//   - Unreadable OCR response body
//   - Output stream write failure
//
// Recoverable errors (reported inline, loop continues):
//   - OCR or froggi transport failures during a cycle
//   - Unreachable or non-200 froggi URL during bootstrap
//   - Rejected API key during bootstrap
package app

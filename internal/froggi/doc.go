// Package froggi is the HTTP client for the remote froggi service.
//
// Three calls are made against a froggi instance:
//
//   - HEAD {froggi_url}: connectivity probe during bootstrap, 10s timeout
//   - POST {froggi_url}/api/key/check/{key}: API key validation during bootstrap
//   - POST {froggi_url}/ocr with an api-key header: steady-state relay
//
// Only a 200 response counts as success. Non-200 answers are returned as a
// Reply rather than an error so callers can decide whether to retry or simply
// report the status; errors are reserved for transport failures.
package froggi

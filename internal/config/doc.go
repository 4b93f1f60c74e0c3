// Package config loads and persists the froggi-ocr relay configuration.
//
// # Overview
//
// The configuration artifact is a small TOML file, by default ./config.toml
// relative to the working directory. Its presence is what selects the run
// mode: when the file is absent the operator is walked through bootstrap,
// when it exists the relay loop starts with the values it holds.
//
// # TOML Format
//
//	api_key = "0123abcd"
//	ocr_url = "http://localhost:18099/json?pivot"
//	froggi_url = "https://froggi.example.com"
//	updates_per_second = 5
//
// # Startup Gate
//
// Inspect returns a Startup value with two variants:
//
//   - NeedsBootstrap: the file could not be opened
//   - Ready(Config): the file parsed and validated
//
// A file that opens but does not parse or validate is an error. It is never
// treated as a reason to bootstrap again, so a typo cannot silently replace
// a working configuration.
//
// # Validation
//
//   - updates_per_second must be at least 1 (it divides one second)
//   - api_key must be non-empty
//   - froggi_url and ocr_url must be http or https URLs with a host
//
// String values are trimmed, a trailing slash on froggi_url is removed and an
// empty ocr_url falls back to DefaultOCRURL.
//
// # Writing
//
// Save is only called by bootstrap. It writes the whole file in one go with
// owner-only permissions because the file carries the API key. The relay
// loop never rewrites it; changing configuration means editing or deleting
// the file and restarting.
package config

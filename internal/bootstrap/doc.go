// Package bootstrap runs the first-start dialogue that produces config.toml.
//
// The operator types a froggi URL. Bare hosts get https://, http:// URLs
// trigger a warning and are upgraded to https unless the answer is exactly
// "n". The candidate is probed with HEAD (10s timeout) and only a 200 moves
// on; anything else, including a transport failure, asks again.
//
// Next the operator types an API key, checked with
// POST {froggi_url}/api/key/check/{key}. A non-200 answer asks again, but a
// transport failure ends bootstrap with an error.
//
// Neither loop has a retry cap. Cancelling the context stops them before the
// next attempt; a read already blocked on the terminal is not interrupted.
package bootstrap

// Package state keeps the outcome of the most recent relay cycle.
//
// The relay loop is the only writer. Readers (the optional status endpoint)
// get copies through Snapshot, so they never observe a half-written cycle.
// A cycle counts as failed when either the OCR fetch or the relay POST hit a
// transport error; two failures in a row mark the agent offline.
package state

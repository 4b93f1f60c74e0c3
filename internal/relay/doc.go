// Package relay implements the poll loop that forwards OCR output to froggi.
//
// Each cycle prints a numbered header, GETs the OCR source, reports its
// status, POSTs the body verbatim to {froggi_url}/ocr with the api-key
// header and reports froggi's status. Output is buffered and flushed once
// per cycle.
//
// # Timing
//
// The cycle period is one second divided by updates_per_second. After a
// cycle the loop sleeps for whatever is left of the period; a cycle that ran
// over starts the next one immediately. There is no catch-up, so sustained
// overruns lower the effective rate rather than bunching cycles together.
// Neither request has a timeout: a stalled service stalls the loop.
//
// # Failures
//
//   - OCR transport error: reported, relay skipped, cycle completes
//   - froggi transport error: reported, cycle completes
//   - unreadable OCR body: fatal
//   - output write or flush error: fatal
package relay

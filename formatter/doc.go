// Package formatter renders arrivals and schedule entries for people and
// wraps API payloads for JSON output.
//
// The package is organized into:
//   - arrival.go: one-line live arrival text
//   - schedule.go: 12-hour schedule lines
//   - wrapper.go: response envelopes
//   - json.go: JSON serialization
//
// Every function here is pure; nothing performs I/O.
package formatter

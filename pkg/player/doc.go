// ABOUTME: Playback engine package
// ABOUTME: Transport control, playback clock, events and chunked streaming
// Package player implements the playback engine: a transport controller
// with play/pause/seek/volume over a decoded buffer, a derived playback
// position computed from a monotonic clock, typed lifecycle events, and
// a chunked decode path running on a background worker.
//
// Two front-ends share the same event contract: Transport decodes the
// whole track up front, Stream decodes progressively on a worker and
// discards responses from superseded sessions by id.
package player

// Package services holds cross-cutting helpers shared by pipeline stages:
// error sentinels with stage-aware wrapping, failure classification for
// structured logs, and context carriers for session, stage, and attempt
// identifiers.
//
// Stage packages wrap their failures with one of the exported sentinels so
// the worker can decide whether a session transitions to error or merely
// waits for the next poll.
package services

// Package ffmpeg shells out to ffmpeg for lossless copy-codec clip cuts.
//
// The client never re-encodes: the stream copy keeps cut latency
// near-constant regardless of clip length, which the pipeline depends on
// when a session yields hundreds of clips. Command execution goes through
// an injectable Executor so tests run without the binary.
package ffmpeg

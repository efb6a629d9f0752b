// Package logging builds the slog loggers used across roomclip and
// standardizes structured field names.
//
// Two output formats are supported: a console handler that renders compact
// key=value lines with UTC timestamps, and a JSON handler for machine
// consumption. Loggers for pipeline stages derive session, stage, and
// attempt fields from context so every record produced during a session
// attempt is correlatable.
package logging

// Package preflight validates the environment before the daemon starts:
// external binaries, directory permissions, and database access.
package preflight

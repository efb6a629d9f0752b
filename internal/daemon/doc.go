// Package daemon supervises the session worker and HTTP trigger server and
// enforces single-instance execution with a file lock.
package daemon

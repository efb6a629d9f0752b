// Package api serves the HTTP trigger endpoint and session inspection
// routes used by the LMS backend.
package api

// Command roomclip is the CLI and daemon entry point for the slicing
// pipeline.
package main

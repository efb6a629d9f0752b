// Package blob abstracts the clip object store. The local implementation
// writes under a static root and derives public URLs from a base URL.
package blob

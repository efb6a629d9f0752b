// Package manifest assembles cut results into the clip manifest published
// on a session and the chapter list published on its derived lesson.
package manifest

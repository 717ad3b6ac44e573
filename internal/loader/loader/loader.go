// Package loader reads a war-room manifest from disk and fills in defaults.
package loader

import (
	"warvr/internal/loader/schema"
)

// Loader abstracts the manifest source format.
type Loader interface {
	Load() error
	GetManifest() schema.Manifest
}

// NewLoader returns a loader for the given format. Only yaml exists today.
func NewLoader(format, fileName string) Loader {
	switch format {
	default:
		return NewYamlLoader(fileName)
	}
}

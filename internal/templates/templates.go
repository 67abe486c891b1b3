// Package templates exposes the default configuration files compiled into
// the binary. They back any file the user has not provided in the config
// directory.
package templates

import "embed"

//go:embed files
var content embed.FS

// Read returns the embedded template at path, relative to the template root.
func Read(path string) ([]byte, error) {
	return content.ReadFile("files/" + path)
}

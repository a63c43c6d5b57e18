package startup

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// markerExists reports whether the zero-byte marker for key already exists
// under stateDir (spec section 3, "StartupMarker").
func markerExists(stateDir, key string) bool {
	_, err := os.Stat(filepath.Join(stateDir, key))
	return err == nil
}

// writeMarker creates the zero-byte marker file for key, creating stateDir
// first if necessary.
func writeMarker(stateDir, key string) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return errors.Wrap(err, "startup: creating state directory")
	}
	f, err := os.OpenFile(filepath.Join(stateDir, key), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "startup: writing marker")
	}
	return f.Close()
}

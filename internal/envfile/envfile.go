// Package envfile renders the `env` file (spec section 6): a shell-sourceable
// snapshot of the configured environment defaults, overridden by whatever
// is actually set in the real process environment. It is grounded on the
// teacher's service.go save() helper (os.Create + write + log "Saved: %s"),
// and uses al.essio.dev/pkg/shellescape -- one of the pack's domain
// dependencies -- for POSIX-safe quoting instead of hand-rolling escaping.
package envfile

import (
	"fmt"
	"os"
	"sort"

	"al.essio.dev/pkg/shellescape"
	"github.com/pkg/errors"
)

// Write renders path as `KEY=value` lines, the value quoted by
// shellescape.Quote (single quotes when it holds shell-special characters,
// bare otherwise), one per key in
// defaults (spec section 6): the real environment value wins when the key
// is set there, else the configured default is used. The file is always
// truncated and rewritten (spec section 6: "Overwritten on every start").
func Write(path string, defaults map[string]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "envfile: opening %q", path)
	}
	defer f.Close()

	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		value := defaults[k]
		if real, ok := os.LookupEnv(k); ok {
			value = real
		}
		if _, err := fmt.Fprintf(f, "%s=%s\n", k, shellescape.Quote(value)); err != nil {
			return errors.Wrapf(err, "envfile: writing %q", path)
		}
	}

	return nil
}

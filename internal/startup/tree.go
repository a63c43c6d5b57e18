// Tree Ensurer (spec section 4.5, C5): idempotently creates nested
// directory trees with optional owner/group/mode. Grounded on the
// teacher's main()'s os.MkdirAll(*to, os.ModePerm) bootstrap in service.go,
// generalized from "one destination flag" to a recursive TreeSpec walk.
package startup

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Assada/regilo/internal/config"
)

// ensureTree walks spec depth-first under base, creating each entry with
// mode 0755 (spec section 4.5) before applying its own requested
// owner/group/permissions.
func ensureTree(base string, spec config.TreeSpec) error {
	for name, entry := range spec {
		path := filepath.Join(base, name)
		if err := ensureDir(path, entry); err != nil {
			return err
		}
		if len(entry.Tree) > 0 {
			if err := ensureTree(path, entry.Tree); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureDir(path string, entry config.TreeEntry) error {
	if err := os.Mkdir(path, 0755); err != nil && !os.IsExist(err) {
		return errors.Wrapf(err, "tree: creating %q", path)
	}

	if entry.Owner != "" && entry.Group != "" {
		uid, gid, err := resolveOwnership(entry.Owner, entry.Group)
		if err != nil {
			return err
		}
		if err := os.Chown(path, uid, gid); err != nil {
			return errors.Wrapf(err, "tree: chown %q", path)
		}
	}
	if mode, ok, err := parseMode(entry.Permissions); err != nil {
		return err
	} else if ok {
		if err := os.Chmod(path, mode); err != nil {
			return errors.Wrapf(err, "tree: chmod %q", path)
		}
	}

	return nil
}

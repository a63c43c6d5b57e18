package startup

import (
	"os"
	"os/user"
	"strconv"

	"github.com/pkg/errors"
)

// parseMode parses an octal permissions string (e.g. "0755") as used by
// TemplateTarget.Permissions and TreeEntry.Permissions (spec sections 4.4,
// 4.5: "permissions are interpreted as an octal string and applied
// verbatim"). An empty string means "leave unset".
func parseMode(s string) (os.FileMode, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, false, errors.Wrapf(err, "invalid octal permissions %q", s)
	}
	return os.FileMode(v), true, nil
}

// resolveOwnership resolves owner/group names to numeric ids. Both spec
// sections 4.4 and 4.5 apply ownership "only if both present", so this is
// only ever called when neither string is empty.
func resolveOwnership(owner, group string) (uid, gid int, err error) {
	u, err := user.Lookup(owner)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "unknown owner %q", owner)
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "unknown group %q", group)
	}
	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "owner %q has non-numeric uid", owner)
	}
	gid, err = strconv.Atoi(g.Gid)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "group %q has non-numeric gid", group)
	}
	return uid, gid, nil
}

// Template Filler (spec section 4.4, C4): substitutes %NAME% tokens in a
// source file and writes the result to a target file with optional
// ownership and permissions. Grounded on the teacher's service.go save()
// helper (os.Create + io.Copy + log.Printf "Saved: %s"), generalized from
// "copy a Consul value verbatim" to "copy after single-pass substitution".
package startup

import (
	"fmt"
	"io/ioutil"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Assada/regilo/internal/config"
)

// tokenPattern matches %NAME% where NAME is one or more letters/underscore,
// case-insensitive (spec section 4.4).
var tokenPattern = regexp.MustCompile(`(?i)%([A-Za-z_]+)%`)

// UnresolvedVariable is returned when a %NAME% token in a template has no
// environment value and no configured default (spec section 7).
type UnresolvedVariable struct {
	Name string
}

func (e *UnresolvedVariable) Error() string {
	return fmt.Sprintf("unresolved template variable %q", e.Name)
}

// fillTemplate reads source, substitutes every %NAME% token exactly once
// (spec section 4.4: "single-pass: replacement text is not rescanned"),
// and writes the result to target.Path with the requested ownership and
// permissions.
func fillTemplate(source string, target *config.TemplateTarget, defaults map[string]string) error {
	raw, err := ioutil.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, "template: reading source %q", source)
	}

	var substErr error
	rendered := tokenPattern.ReplaceAllStringFunc(string(raw), func(token string) string {
		if substErr != nil {
			return token
		}
		name := strings.ToUpper(tokenPattern.FindStringSubmatch(token)[1])
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if v, ok := lookupDefault(defaults, name); ok {
			return v
		}
		substErr = &UnresolvedVariable{Name: name}
		return token
	})
	if substErr != nil {
		return substErr
	}

	if err := ioutil.WriteFile(target.Path, []byte(rendered), 0644); err != nil {
		return errors.Wrapf(err, "template: writing target %q", target.Path)
	}

	if target.Owner != "" && target.Group != "" {
		uid, gid, err := resolveOwnership(target.Owner, target.Group)
		if err != nil {
			return err
		}
		if err := os.Chown(target.Path, uid, gid); err != nil {
			return errors.Wrapf(err, "template: chown %q", target.Path)
		}
	}
	if mode, ok, err := parseMode(target.Permissions); err != nil {
		return err
	} else if ok {
		if err := os.Chmod(target.Path, mode); err != nil {
			return errors.Wrapf(err, "template: chmod %q", target.Path)
		}
	}

	return nil
}

// lookupDefault finds the configured default for an upper-cased NAME by
// comparing the upper-cased form of every configured key (spec section
// 4.4: "the configuration default for any key whose upper-cased form
// equals NAME").
func lookupDefault(defaults map[string]string, name string) (string, bool) {
	for k, v := range defaults {
		if strings.ToUpper(k) == name {
			return v, true
		}
	}
	return "", false
}

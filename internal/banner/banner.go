// Package banner renders the descriptive preamble (title, subtitle,
// description, authors, contributors) a configuration document may carry
// (spec section 6 fields). Spec section 1 lists banner rendering as an
// external collaborator, not core supervision engineering -- grounded on
// the teacher's main()'s fmt.Print("[INFO] SignNow Consul Keys
// Creator\n\n") one-liner in service.go, generalized from a hardcoded
// string to the configured fields.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/Assada/regilo/internal/config"
)

// Render writes the banner for cfg to w. Fields left unset by the
// configuration are simply omitted.
func Render(w io.Writer, cfg *config.Config) {
	if config.StringPresent(cfg.Title) {
		fmt.Fprintln(w, config.StringVal(cfg.Title))
	}
	if config.StringPresent(cfg.Subtitle) {
		fmt.Fprintln(w, config.StringVal(cfg.Subtitle))
	}
	if config.StringPresent(cfg.Description) {
		fmt.Fprintln(w, config.StringVal(cfg.Description))
	}
	if len(cfg.Repositories) > 0 {
		fmt.Fprintf(w, "repositories: %s\n", strings.Join(cfg.Repositories, ", "))
	}
	if len(cfg.Authors) > 0 {
		fmt.Fprintf(w, "authors: %s\n", strings.Join(cfg.Authors, ", "))
	}
	if len(cfg.Contributors) > 0 {
		fmt.Fprintf(w, "contributors: %s\n", strings.Join(cfg.Contributors, ", "))
	}
	fmt.Fprintln(w)
}

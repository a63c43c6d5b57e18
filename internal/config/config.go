// Package config loads and finalizes the supervisor's single
// configuration document. It is the "external collaborator" spec section 1
// calls out for parsing and schema validation -- the supervision core (see
// internal/supervisor) only ever touches an already-Finalize'd *Config.
package config

import (
	"io/ioutil"
	"log"
	"sort"
	"strings"

	"github.com/hashicorp/hcl"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	// DefaultConfigPath is the fixed location of the configuration
	// document (spec section 6).
	DefaultConfigPath = "/etc/regilo.json"

	// DefaultStartupStatePath is the fixed directory where startup-task
	// markers live (spec section 6).
	DefaultStartupStatePath = "/var/startup"

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "WARN"
)

var (
	// homePath is resolved once, like the teacher's package-level homePath.
	homePath, _ = homedir.Dir()
)

// Config is the fully-parsed configuration document (spec section 3).
type Config struct {
	// Descriptive banner fields -- consumed only by internal/banner, never
	// by the supervision core.
	Title         *string  `mapstructure:"title"`
	Subtitle      *string  `mapstructure:"subtitle"`
	Description   *string  `mapstructure:"description"`
	Repositories  []string `mapstructure:"repositories"`
	Authors       []string `mapstructure:"authors"`
	Contributors  []string `mapstructure:"contributors"`

	// Environment is the configured defaults overlay (spec section 3/6):
	// used for template substitution defaults and for rendering the `env`
	// file, never injected into spawned children.
	Environment map[string]string `mapstructure:"environment"`

	Startup  []StartupTask            `mapstructure:"startup"`
	Services map[string]*ServiceSpec  `mapstructure:"services"`
	Periodic map[string]*PeriodicSpec `mapstructure:"periodic"`

	// ServiceOrder is the fixed order in which Services are scanned, since
	// Go map iteration is unordered. The decoded map does not keep the
	// document's key order, so Finalize fills it with the service names in
	// lexicographic order when it is not already set.
	ServiceOrder []string `mapstructure:"-"`
	// PeriodicOrder is the analogous fixed order for Periodic.
	PeriodicOrder []string `mapstructure:"-"`

	// LogLevel and Syslog are ambient logging configuration, carried the
	// way the teacher carries them regardless of the spec's Non-goals
	// around observability surfaces (SPEC_FULL.md, Ambient Stack).
	LogLevel *string       `mapstructure:"log_level"`
	Syslog   *SyslogConfig `mapstructure:"syslog"`

	// StartupStatePath is overridable only for testing; in production it
	// is always the spec-fixed default.
	StartupStatePath *string `mapstructure:"-"`
}

// Copy returns a deep-enough copy of c for Merge's copy-on-write semantics.
func (c *Config) Copy() *Config {
	if c == nil {
		return nil
	}
	var o Config
	o.Title = c.Title
	o.Subtitle = c.Subtitle
	o.Description = c.Description
	o.Repositories = append([]string{}, c.Repositories...)
	o.Authors = append([]string{}, c.Authors...)
	o.Contributors = append([]string{}, c.Contributors...)

	o.Environment = make(map[string]string, len(c.Environment))
	for k, v := range c.Environment {
		o.Environment[k] = v
	}

	o.Startup = append([]StartupTask{}, c.Startup...)

	o.Services = make(map[string]*ServiceSpec, len(c.Services))
	for k, v := range c.Services {
		o.Services[k] = v
	}
	o.ServiceOrder = append([]string{}, c.ServiceOrder...)

	o.Periodic = make(map[string]*PeriodicSpec, len(c.Periodic))
	for k, v := range c.Periodic {
		o.Periodic[k] = v
	}
	o.PeriodicOrder = append([]string{}, c.PeriodicOrder...)

	o.LogLevel = c.LogLevel
	if c.Syslog != nil {
		o.Syslog = c.Syslog.Copy()
	}
	o.StartupStatePath = c.StartupStatePath

	return &o
}

// Merge merges the values in o into c. Values in o win, matching the
// teacher's Config.Merge semantics.
func (c *Config) Merge(o *Config) *Config {
	if c == nil {
		if o == nil {
			return nil
		}
		return o.Copy()
	}
	if o == nil {
		return c.Copy()
	}

	r := c.Copy()

	if o.Title != nil {
		r.Title = o.Title
	}
	if o.Subtitle != nil {
		r.Subtitle = o.Subtitle
	}
	if o.Description != nil {
		r.Description = o.Description
	}
	if len(o.Repositories) > 0 {
		r.Repositories = append([]string{}, o.Repositories...)
	}
	if len(o.Authors) > 0 {
		r.Authors = append([]string{}, o.Authors...)
	}
	if len(o.Contributors) > 0 {
		r.Contributors = append([]string{}, o.Contributors...)
	}
	for k, v := range o.Environment {
		r.Environment[k] = v
	}
	if len(o.Startup) > 0 {
		r.Startup = append([]StartupTask{}, o.Startup...)
	}
	for k, v := range o.Services {
		r.Services[k] = v
	}
	if len(o.ServiceOrder) > 0 {
		r.ServiceOrder = append([]string{}, o.ServiceOrder...)
	}
	for k, v := range o.Periodic {
		r.Periodic[k] = v
	}
	if len(o.PeriodicOrder) > 0 {
		r.PeriodicOrder = append([]string{}, o.PeriodicOrder...)
	}
	if o.LogLevel != nil {
		r.LogLevel = o.LogLevel
	}
	if o.Syslog != nil {
		r.Syslog = r.Syslog.Merge(o.Syslog)
	}
	if o.StartupStatePath != nil {
		r.StartupStatePath = o.StartupStatePath
	}

	return r
}

// DefaultConfig returns the default configuration struct.
func DefaultConfig() *Config {
	return &Config{
		Environment: map[string]string{},
		Services:    map[string]*ServiceSpec{},
		Periodic:    map[string]*PeriodicSpec{},
		Syslog:      DefaultSyslogConfig(),
	}
}

// Finalize fills in default values, expands `~` in path-like fields via the
// resolved homePath, fills any unset ServiceOrder/PeriodicOrder with the map
// keys in lexicographic order, and validates
// the service dependency graph (spec section 3 invariant 2). It is fatal
// (returns an error) on an unsatisfiable configuration -- the caller is
// expected to treat that as a ConfigError per spec section 7.
func (c *Config) Finalize() error {
	if c.Environment == nil {
		c.Environment = map[string]string{}
	}
	if c.Services == nil {
		c.Services = map[string]*ServiceSpec{}
	}
	if c.Periodic == nil {
		c.Periodic = map[string]*PeriodicSpec{}
	}
	if c.LogLevel == nil {
		c.LogLevel = String(DefaultLogLevel)
	}
	if c.Syslog == nil {
		c.Syslog = DefaultSyslogConfig()
	}
	c.Syslog.Finalize()
	if c.StartupStatePath == nil {
		c.StartupStatePath = String(DefaultStartupStatePath)
	}

	for i := range c.Startup {
		c.Startup[i].Workdir = expandHome(c.Startup[i].Workdir)
		c.Startup[i].Source = expandHome(c.Startup[i].Source)
		if c.Startup[i].Target != nil {
			c.Startup[i].Target.Path = expandHome(c.Startup[i].Target.Path)
		}
	}
	for _, svc := range c.Services {
		svc.Workdir = expandHome(svc.Workdir)
	}
	for _, p := range c.Periodic {
		p.Workdir = expandHome(p.Workdir)
	}

	if len(c.ServiceOrder) == 0 {
		c.ServiceOrder = sortedKeys(c.Services)
	}
	if len(c.PeriodicOrder) == 0 {
		c.PeriodicOrder = sortedKeys(c.Periodic)
	}

	return ValidateServiceGraph(c.Services)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func expandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	if p == "~" {
		return homePath
	}
	if strings.HasPrefix(p, "~/") {
		return homePath + p[1:]
	}
	return p
}

// Parse parses the given string contents (a JSON document, spec section 6)
// as a Config. hcl.Decode is used because the HCL decoder understands JSON
// directly -- JSON is a strict subset of HCL's grammar -- which lets the
// rest of the decode pipeline (mapstructure + hooks) stay identical to the
// teacher's.
func Parse(s string) (*Config, error) {
	var shadow interface{}
	if err := hcl.Decode(&shadow, s); err != nil {
		return nil, errors.Wrap(err, "error decoding config")
	}

	parsed, ok := shadow.(map[string]interface{})
	if !ok {
		return nil, errors.New("error converting config")
	}

	var c Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			StringToFileModeFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused: true,
		Metadata:    &md,
		Result:      &c,
	})
	if err != nil {
		return nil, errors.Wrap(err, "mapstructure decoder creation failed")
	}
	if err := decoder.Decode(parsed); err != nil {
		return nil, errors.Wrap(err, "mapstructure decode failed")
	}

	return &c, nil
}

// FromFile reads and parses the configuration file at path.
func FromFile(path string) (*Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "from file: "+path)
	}
	c, err := Parse(string(b))
	if err != nil {
		return nil, errors.Wrap(err, "from file: "+path)
	}
	return c, nil
}

// Load reads, parses, merges over defaults, and finalizes the configuration
// at path. This is the single entry point main() uses.
func Load(path string) (*Config, error) {
	parsed, err := FromFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig().Merge(parsed)
	if err := c.Finalize(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return c, nil
}

// Must parses s and, on error, logs it and exits the process via
// log.Fatal; useful in tests.
func Must(s string) *Config {
	c, err := Parse(s)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

package config

import "fmt"

// Startup task type discriminators (spec section 3, "Startup Tasks").
const (
	TaskExec     = "exec"
	TaskTemplate = "template"
	TaskTree     = "tree"
)

// StartupTask is one entry of the ordered `startup` sequence. Exactly one of
// the three shapes ("exec", "template", "tree") is populated at a time,
// selected by Type; the unused fields are left at their zero value so they
// do not perturb the identity-key digest (see internal/identity).
type StartupTask struct {
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`

	// exec
	Path       string   `mapstructure:"path,omitempty"`
	Args       []string `mapstructure:"args,omitempty"`
	Workdir    string   `mapstructure:"workdir,omitempty"`
	User       string   `mapstructure:"user,omitempty"`
	Group      string   `mapstructure:"group,omitempty"`
	Output     bool     `mapstructure:"output,omitempty"`
	EveryStart bool     `mapstructure:"every-start,omitempty"`

	// template
	Source string          `mapstructure:"source,omitempty"`
	Target *TemplateTarget `mapstructure:"target,omitempty"`

	// tree
	Tree TreeSpec `mapstructure:"tree,omitempty"`
}

// TemplateTarget is the destination file written by a "template" task.
type TemplateTarget struct {
	Path        string `mapstructure:"path"`
	Owner       string `mapstructure:"owner,omitempty"`
	Group       string `mapstructure:"group,omitempty"`
	Permissions string `mapstructure:"permissions,omitempty"`
}

// TreeEntry describes one node of a TreeSpec: a directory, optionally owned,
// optionally moded, optionally containing further nested entries.
type TreeEntry struct {
	Owner       string   `mapstructure:"owner,omitempty"`
	Group       string   `mapstructure:"group,omitempty"`
	Permissions string   `mapstructure:"permissions,omitempty"`
	Tree        TreeSpec `mapstructure:"tree,omitempty"`
}

// TreeSpec maps an entry name to its TreeEntry. It nests arbitrarily deep;
// internal/startup's tree ensurer walks it depth-first.
type TreeSpec map[string]TreeEntry

// ServiceSpec is one entry of the `services` mapping -- a long-running
// daemon with a dependency list (spec section 3).
type ServiceSpec struct {
	Description string   `mapstructure:"description"`
	Path        string   `mapstructure:"path"`
	Args        []string `mapstructure:"args,omitempty"`
	Workdir     string   `mapstructure:"workdir,omitempty"`
	User        string   `mapstructure:"user,omitempty"`
	Group       string   `mapstructure:"group,omitempty"`
	Output      bool     `mapstructure:"output,omitempty"`
	Needs       []string `mapstructure:"needs,omitempty"`
}

// PeriodicSpec is one entry of the `periodic` mapping -- a cron-scheduled
// transient task (spec section 3).
type PeriodicSpec struct {
	Description   string   `mapstructure:"description"`
	Timing        string   `mapstructure:"timing"`
	Path          string   `mapstructure:"path"`
	Args          []string `mapstructure:"args,omitempty"`
	Workdir       string   `mapstructure:"workdir,omitempty"`
	User          string   `mapstructure:"user,omitempty"`
	Group         string   `mapstructure:"group,omitempty"`
	Output        bool     `mapstructure:"output,omitempty"`
	AllowMultiple bool     `mapstructure:"allow-multiple,omitempty"`
}

// ValidateServiceGraph checks invariant 2 of spec section 3: every name in
// every spec.Needs refers to a defined service, and the dependency graph
// contains no cycle. It is called once, by Config.Finalize, so a malformed
// configuration is rejected before any child is ever spawned.
func ValidateServiceGraph(services map[string]*ServiceSpec) error {
	for name, svc := range services {
		for _, dep := range svc.Needs {
			if _, ok := services[dep]; !ok {
				return fmt.Errorf("service %q needs undefined service %q", name, dep)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(services))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("service dependency cycle detected: %v -> %s", path, name)
		}
		color[name] = gray
		for _, dep := range services[name].Needs {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}

	for name := range services {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

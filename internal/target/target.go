package target

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Target describes one launchable analysis tool: the image it builds
// into, where its build context lives, and what the container needs at
// run time. Targets are fixed at authoring time; there is no dynamic
// registration.
type Target struct {
	// Name is the identifier used on the command line.
	Name string

	// Image is the tag the build produces and the run consumes.
	Image string

	// Description is shown by the list command.
	Description string

	// ContextPath is the build context directory, relative to the
	// configured context root.
	ContextPath string

	// Dockerfile is the path of the Dockerfile within the context.
	// Empty means the default "Dockerfile".
	Dockerfile string

	// NeedsHostGateway marks targets whose container must reach a
	// service on the host machine.
	NeedsHostGateway bool

	// EndpointEnv is the environment variable the tool reads its
	// endpoint URL from, if any.
	EndpointEnv string
}

// The two analysis tools this launcher exists for.
var builtins = []Target{
	{
		Name:             "vocab-checker",
		Image:            "dcat-vocab-checker",
		Description:      "Checks controlled vocabulary usage across DCAT catalogs",
		ContextPath:      "vocabulary-checker",
		NeedsHostGateway: true,
		EndpointEnv:      "SPARQL_ENDPOINT",
	},
	{
		Name:             "property-analyzer",
		Image:            "dcat-property-analyzer",
		Description:      "Analyzes mobilityDCAT-AP property usage per catalog",
		ContextPath:      "property-analysis",
		NeedsHostGateway: true,
		EndpointEnv:      "SPARQL_ENDPOINT",
	},
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, error) {
	for _, t := range builtins {
		if t.Name == name {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("unknown target %q (known: %s)", name, strings.Join(Names(), ", "))
}

// List returns all registered targets sorted by name.
func List() []Target {
	out := make([]Target, len(builtins))
	copy(out, builtins)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted names of all registered targets.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for _, t := range builtins {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the invariants a target must hold before it is handed
// to the container runtime. Docker tags must be lowercase with no
// whitespace, and the build context must exist on disk.
func (t Target) Validate(contextRoot string) error {
	if strings.TrimSpace(t.Image) == "" {
		return fmt.Errorf("target %s: image name is empty", t.Name)
	}
	if strings.ToLower(t.Image) != t.Image || strings.ContainsAny(t.Image, " \t\n") {
		return fmt.Errorf("target %s: invalid image name %q (must be lowercase, no spaces)", t.Name, t.Image)
	}

	ctxPath := t.ResolveContext(contextRoot)
	st, err := os.Stat(ctxPath)
	if err != nil {
		return fmt.Errorf("target %s: build context %q not found: %w", t.Name, ctxPath, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("target %s: build context %q is not a directory", t.Name, ctxPath)
	}
	return nil
}

// ResolveContext returns the absolute-ish build context path for the
// target under the given context root.
func (t Target) ResolveContext(contextRoot string) string {
	if contextRoot == "" {
		contextRoot = "."
	}
	return filepath.Join(contextRoot, t.ContextPath)
}

// DockerfileName returns the Dockerfile path within the build context.
func (t Target) DockerfileName() string {
	if t.Dockerfile == "" {
		return "Dockerfile"
	}
	return t.Dockerfile
}

package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a scenario from a YAML file. File scenarios are static: the
// episode number is ignored.
func Load(path string) (Builder, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Spec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return func(int) Spec { return s }, nil
}

// Resolve maps a scenario identifier to a Builder: a name with a ".yaml" or
// ".yml" suffix is loaded from disk, anything else must be a built-in.
func Resolve(name string) (Builder, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return Load(name)
	}
	return Lookup(name)
}

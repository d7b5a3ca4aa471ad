package v1alpha1

import (
	"fmt"
	"regexp"
	"slices"
)

// Validate checks that the configuration is usable for a run. Defaults are
// expected to have been applied first via SetDefaults.
func (c *RunConfig) Validate() error {
	if c.RepoRoot == "" {
		return ErrRepoRootEmpty
	}

	if !slices.Contains(c.IPFamily.ValidValues(), string(c.IPFamily)) {
		return fmt.Errorf("%w: %q", ErrInvalidIPFamily, c.IPFamily)
	}

	// Focus and skip are handed to the external runner as regular
	// expressions; reject ones that do not compile so the failure surfaces
	// before a cluster is built.
	for _, expr := range []struct{ name, value string }{
		{"focus", c.Focus},
		{"skip", c.Skip},
	} {
		if expr.value == "" {
			continue
		}

		_, err := regexp.Compile(expr.value)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %w", ErrInvalidFilterExpression, expr.name, expr.value, err)
		}
	}

	return nil
}

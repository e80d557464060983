package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a preference profile from a YAML file, e.g.:
//
//	budget: free_only
//	team_size: startup
//	preferred_languages: [python, go]
//	use_case: web_development
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate rejects unknown budget or team-size values. Empty values are
// fine: they mean "no preference".
func (p Profile) Validate() error {
	switch p.Budget {
	case "", BudgetFreeOnly, BudgetFlexible:
	default:
		return fmt.Errorf("unknown budget %q (use free_only or flexible)", p.Budget)
	}
	switch p.TeamSize {
	case "", TeamStartup, TeamEnterprise:
	default:
		return fmt.Errorf("unknown team_size %q (use startup or enterprise)", p.TeamSize)
	}
	return nil
}

package models

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in profile names
const (
	ProfileCSV    = "csv"
	ProfileConfig = "config"
)

// Profile describes one conversion direction: which detected encodings are
// re-encoded, and what they are re-encoded to. Files detected as anything
// else are copied verbatim.
type Profile struct {
	Name        string   `yaml:"-" toml:"-"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty"`
	Convertible []string `yaml:"convertible" toml:"convertible"`
	Target      string   `yaml:"target" toml:"target"`
}

// Accepts reports whether label is in the convertible set (case-insensitive).
// An empty label never matches.
func (p Profile) Accepts(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, c := range p.Convertible {
		if strings.EqualFold(strings.TrimSpace(c), label) {
			return true
		}
	}
	return false
}

// Validate checks that the profile can drive a run
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("profile %q: target encoding cannot be empty", p.Name)
	}
	if len(p.Convertible) == 0 {
		return fmt.Errorf("profile %q: convertible set cannot be empty", p.Name)
	}
	return nil
}

// CSVProfile converts GB2312-family files to UTF-8.
// "gb-18030" is the label the statistical detector uses for the whole family.
func CSVProfile() Profile {
	return Profile{
		Name:        ProfileCSV,
		Description: "convert GB2312 encoded CSV files to UTF-8",
		Convertible: []string{"gb2312", "gbk", "gb18030", "gb-18030"},
		Target:      "utf-8",
	}
}

// ConfigProfile converts UTF-8 config files to GB2312.
func ConfigProfile() Profile {
	return Profile{
		Name:        ProfileConfig,
		Description: "convert UTF-8 encoded config files to GB2312",
		Convertible: []string{"utf-8", "utf-8-sig"},
		Target:      "gb2312",
	}
}

// BuiltinProfiles returns the built-in profiles keyed by name
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileCSV:    CSVProfile(),
		ProfileConfig: ConfigProfile(),
	}
}

// ProfileNames returns the sorted names of the given profiles
func ProfileNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

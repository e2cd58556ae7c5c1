// Package postal holds the per-country postal-code patterns stripped from
// header text before tokenization.
package postal

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultTable []byte

// file is the on-disk shape of a postal table.
type file struct {
	Countries map[string]string `yaml:"countries"`
}

// Table maps countries to compiled postal-code patterns. It is immutable
// once built and safe for concurrent use.
type Table struct {
	countries []string
	patterns  map[string]*regexp.Regexp
}

// Parse compiles a YAML postal table.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing postal table: %w", err)
	}

	t := &Table{patterns: make(map[string]*regexp.Regexp, len(f.Countries))}
	for country, pattern := range f.Countries {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling postal pattern for %s: %w", country, err)
		}
		t.countries = append(t.countries, country)
		t.patterns[country] = re
	}
	sort.Strings(t.countries)
	return t, nil
}

// Load reads and compiles a postal table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading postal table: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded postal table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded postal table: %v", err))
	}
	return t
}

// LoadOrDefault loads path, or the embedded table when path is empty.
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Countries returns the configured countries in sorted order.
func (t *Table) Countries() []string {
	return append([]string(nil), t.countries...)
}

// Pattern returns the compiled pattern for country.
func (t *Table) Pattern(country string) (*regexp.Regexp, bool) {
	re, ok := t.patterns[country]
	return re, ok
}

// Strip removes every postal code matched by any country pattern.
// Countries are applied in sorted order; a code already stripped under one
// country is not searched for again under another.
func (t *Table) Strip(s string) string {
	if t == nil {
		return s
	}
	stripped := make(map[string]bool)
	for _, country := range t.countries {
		for _, code := range t.patterns[country].FindAllString(s, -1) {
			if stripped[code] {
				continue
			}
			stripped[code] = true
			s = strings.ReplaceAll(s, code, "")
		}
	}
	return s
}

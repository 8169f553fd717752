// Package catalog loads the static store dataset and resolves store codes.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_brands.yaml
var defaultBrandsYAML []byte

// Brand describes one retail chain and the store numbers it uses.
type Brand struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Min     int      `yaml:"min"`
	Max     int      `yaml:"max"`
	Aliases []string `yaml:"aliases"`
}

// InRange reports whether n is a store number the brand uses.
func (b Brand) InRange(n int) bool { return n >= b.Min && n <= b.Max }

type brandsFile struct {
	Brands []Brand `yaml:"brands"`
}

// Brands is the ordered brand table.
type Brands []Brand

// DefaultBrands returns the built-in brand table.
func DefaultBrands() Brands {
	b, err := ParseBrands(defaultBrandsYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded brand table is invalid: %v", err))
	}
	return b
}

// LoadBrands reads a brand table from path, or the built-in table when path is empty.
func LoadBrands(path string) (Brands, error) {
	if path == "" {
		return DefaultBrands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load brands: read %q: %w", path, err)
	}
	b, err := ParseBrands(data)
	if err != nil {
		return nil, fmt.Errorf("load brands: %q: %w", path, err)
	}
	return b, nil
}

func ParseBrands(data []byte) (Brands, error) {
	var f brandsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(f.Brands) == 0 {
		return nil, errors.New("no brands defined")
	}

	seen := map[string]bool{}
	for i := range f.Brands {
		b := &f.Brands[i]
		b.Code = strings.ToLower(strings.TrimSpace(b.Code))
		if b.Code == "" || b.Name == "" {
			return nil, fmt.Errorf("brand #%d: code and name are required", i+1)
		}
		if seen[b.Code] {
			return nil, fmt.Errorf("brand %q defined twice", b.Code)
		}
		seen[b.Code] = true
		if b.File == "" {
			b.File = strings.ToLower(b.Name) + "_for_bot.json"
		}
		if b.Min > b.Max {
			return nil, fmt.Errorf("brand %q: min %d > max %d", b.Code, b.Min, b.Max)
		}
		for j, a := range b.Aliases {
			b.Aliases[j] = strings.ToLower(strings.TrimSpace(a))
		}
	}
	return Brands(f.Brands), nil
}

// Get returns the brand with the given canonical code.
func (bs Brands) Get(code string) (Brand, bool) {
	i := slices.IndexFunc(bs, func(b Brand) bool { return b.Code == code })
	if i < 0 {
		return Brand{}, false
	}
	return bs[i], true
}

// Normalize maps a user token to a canonical brand code.
//
// Exact codes win; otherwise the longest alias the token starts with decides,
// so "linella", "lin5" style prefixes and "fourchette" all resolve.
func (bs Brands) Normalize(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", false
	}
	if _, ok := bs.Get(t); ok {
		return t, true
	}

	best, bestLen := "", 0
	for _, b := range bs {
		for _, a := range b.Aliases {
			if a != "" && strings.HasPrefix(t, a) && len(a) > bestLen {
				best, bestLen = b.Code, len(a)
			}
		}
	}
	return best, best != ""
}

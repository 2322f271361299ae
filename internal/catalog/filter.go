package catalog

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/nao1215/netctx/internal/model"
)

// Filter selects packages by ID with glob patterns such as "bitcoin*".
// A package passes when it matches at least one include pattern (or there
// are none) and no exclude pattern.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles the include and exclude patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, ErrEmptyPattern
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether id passes the filter. A nil Filter matches everything.
func (f *Filter) Match(id string) bool {
	if f == nil {
		return true
	}
	if len(f.include) > 0 && !matchAny(f.include, id) {
		return false
	}
	return !matchAny(f.exclude, id)
}

// Apply returns the packages that pass the filter, keeping their order.
func (f *Filter) Apply(pkgs []model.PackageRecord) []model.PackageRecord {
	if f == nil || (len(f.include) == 0 && len(f.exclude) == 0) {
		return pkgs
	}
	out := make([]model.PackageRecord, 0, len(pkgs))
	for _, pkg := range pkgs {
		if f.Match(pkg.ID) {
			out = append(out, pkg)
		}
	}
	return out
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

package interop

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/cssinterop/pkg/jsast"
)

// SkipReason says why a module was returned unchanged.
type SkipReason string

const (
	NotSkipped         SkipReason = ""
	SkipDenied         SkipReason = "denied"
	SkipNoBindings     SkipReason = "no-react-bindings"
	SkipNoReplacements SkipReason = "no-replacements"
)

// Options configures a Transformer. The zero value is valid.
type Options struct {
	// ExtraDeniedPatterns are doublestar globs matched against the
	// slash-separated filename, in addition to the built-in denial of the
	// React and styling packages.
	ExtraDeniedPatterns []string

	// AliasBase is the preferred name of the shim alias. Defaults to
	// DefaultAlias.
	AliasBase string

	Logger *slog.Logger
}

// Result is the outcome of transforming one module.
type Result struct {
	// Module is the input module, modified in place when Changed.
	Module *jsast.Module

	Bindings []Binding
	Stats    Stats

	// Alias is the local name given to the shim, empty if none was needed.
	Alias    string
	ShimForm ShimForm
	Skipped  SkipReason
}

// Changed reports whether the module was rewritten.
func (r *Result) Changed() bool {
	return r.Stats.Replacements > 0
}

// Transformer runs the createElement rewrite over modules. It holds no
// per-module state and may be shared between goroutines.
type Transformer struct {
	patterns  []string
	aliasBase string
	logger    *slog.Logger
}

// NewTransformer validates opts and returns a Transformer.
func NewTransformer(opts Options) (*Transformer, error) {
	for _, p := range opts.ExtraDeniedPatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid deny pattern %q", p)
		}
	}
	if opts.AliasBase == "" {
		opts.AliasBase = DefaultAlias
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Transformer{
		patterns:  append([]string(nil), opts.ExtraDeniedPatterns...),
		aliasBase: opts.AliasBase,
		logger:    opts.Logger,
	}, nil
}

// Transform rewrites m in place and reports what it did. A module that is
// denied, has no React bindings or no qualifying calls is left untouched.
func (t *Transformer) Transform(m *jsast.Module) *Result {
	res := &Result{Module: m}

	if t.Denied(m.Filename) {
		t.logger.Debug("skipping denied file", "file", m.Filename)
		res.Skipped = SkipDenied
		return res
	}

	res.Bindings = Collect(m)
	if len(res.Bindings) == 0 {
		res.Skipped = SkipNoBindings
		return res
	}
	for _, b := range res.Bindings {
		t.logger.Debug("found react binding", "file", m.Filename, "binding", b.Describe())
	}

	alias := jsast.FreshName(m, t.aliasBase)
	res.Stats = Rewrite(m, res.Bindings, alias)
	if res.Stats.Replacements == 0 {
		res.Skipped = SkipNoReplacements
		return res
	}
	for _, site := range res.Stats.Sites {
		t.logger.Debug("rewrote createElement call",
			"file", m.Filename,
			"line", site.Line+1,
			"column", site.Column+1)
	}

	res.Alias = alias
	res.ShimForm = ShimCJS
	if HasESM(res.Bindings) {
		res.ShimForm = ShimESM
	}
	m.Prepend(shimFor(res.ShimForm, alias))
	return res
}

// Denied reports whether filename is excluded by the built-in rule or by
// one of the extra patterns.
func (t *Transformer) Denied(filename string) bool {
	if IsDeniedFile(filename) {
		return true
	}
	if filename == "" {
		return false
	}
	path := strings.ReplaceAll(filename, `\`, "/")
	for _, p := range t.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// IsDeniedFile reports whether filename lies inside a react, react-native,
// react-native-web or react-native-css-interop directory. An empty filename
// is never denied.
func IsDeniedFile(filename string) bool {
	return filename != "" && deniedPath.MatchString(filename)
}

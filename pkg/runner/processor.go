package runner

import (
	"log/slog"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/jsast"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/util"
)

// Processor runs the transform over one file or buffer. It is safe for
// concurrent use; every call works on its own module.
type Processor struct {
	parsers     *parser.ParserManager
	transformer *interop.Transformer
	cache       *ResultCache
	logger      *slog.Logger
}

// NewProcessor creates a Processor. cache may be nil.
func NewProcessor(pm *parser.ParserManager, tr *interop.Transformer, cache *ResultCache, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		parsers:     pm,
		transformer: tr,
		cache:       cache,
		logger:      logger,
	}
}

// Process reads path and transforms it. Nothing is written.
func (p *Processor) Process(path string) (*Outcome, error) {
	src, err := util.OpenSource(path, p.logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Output is printed before the mapping goes away.
	return p.ProcessSource(path, src.Data)
}

// ProcessSource transforms src as if it were read from filename. Names
// without a known extension, such as "<stdin>", are parsed as TSX.
func (p *Processor) ProcessSource(filename string, src []byte) (*Outcome, error) {
	lang := parser.DetectLanguage(filename)
	if lang == parser.LanguageUnknown {
		lang = parser.LanguageTSX
	}
	return p.ProcessSourceAs(filename, src, lang)
}

// ProcessSourceAs is ProcessSource with an explicit grammar.
func (p *Processor) ProcessSourceAs(filename string, src []byte, lang parser.Language) (*Outcome, error) {
	hash := ContentHash(src)
	if out, ok := p.cache.Get(filename, lang, hash); ok {
		p.logger.Debug("Result cache hit", "file", filename)
		return out, nil
	}

	out := &Outcome{Path: filename, Hash: hash, Language: lang}
	if p.transformer.Denied(filename) {
		p.logger.Debug("Skipping denied file", "file", filename)
		out.Skipped = interop.SkipDenied
		out.Output = append([]byte(nil), src...)
		p.cache.Add(out)
		return out, nil
	}

	mod, err := p.parsers.ParseModuleAs(filename, src, lang)
	if err != nil {
		return nil, err
	}

	res := p.transformer.Transform(mod)
	out.Output = jsast.Print(res.Module)
	out.Changed = res.Changed()
	out.Replacements = res.Stats.Replacements
	out.Bindings = res.Bindings
	out.ShimForm = res.ShimForm
	out.Skipped = res.Skipped

	if out.Changed {
		p.logger.Debug("Transformed file",
			"file", filename,
			"language", lang.String(),
			"replacements", out.Replacements,
			"shim", string(out.ShimForm))
	}
	p.cache.Add(out)
	return out, nil
}

// CacheStats returns the statistics of the processor's cache.
func (p *Processor) CacheStats() CacheStats {
	return p.cache.GetStats()
}

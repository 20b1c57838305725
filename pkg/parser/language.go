package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language selects the tree-sitter grammar used for a module.
type Language int

const (
	// LanguageJavaScript covers .js, .jsx, .mjs and .cjs. The grammar accepts JSX.
	LanguageJavaScript Language = iota
	// LanguageTypeScript covers .ts, .mts and .cts.
	LanguageTypeScript
	// LanguageTSX covers .tsx (TypeScript with JSX).
	LanguageTSX
	// LanguageUnknown is returned for anything else.
	LanguageUnknown
)

// String returns the lowercase name of the language.
func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	case LanguageTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// DetectLanguage maps a file path to its grammar by extension.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	default:
		return LanguageUnknown
	}
}

// IsSourceFile reports whether the path has an extension the parser handles.
func IsSourceFile(filePath string) bool {
	return DetectLanguage(filePath) != LanguageUnknown
}

// ParseLanguageString converts a user-supplied name ("ts", "javascript",
// "tsx" ...) to a Language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "javascript", "js", "jsx":
		return LanguageJavaScript
	case "typescript", "ts":
		return LanguageTypeScript
	case "tsx":
		return LanguageTSX
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages lists every grammar the manager can load.
func SupportedLanguages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript, LanguageTSX}
}

// LanguageFromName is ParseLanguageString for user input: an unknown name is
// an error listing the supported languages.
func LanguageFromName(name string) (Language, error) {
	lang := ParseLanguageString(name)
	if lang != LanguageUnknown {
		return lang, nil
	}
	supported := SupportedLanguages()
	names := make([]string, len(supported))
	for i, l := range supported {
		names[i] = l.String()
	}
	return LanguageUnknown, fmt.Errorf("%w %q (supported: %s)",
		ErrUnsupportedLanguage, name, strings.Join(names, ", "))
}

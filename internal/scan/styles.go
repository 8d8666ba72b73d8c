package scan

import (
	"sort"

	"github.com/phyten/todovet/internal/detect"
	"github.com/phyten/todovet/internal/model"
)

// Block describes a delimited construct. String blocks are skipped without
// producing a region.
type Block struct {
	Open      string
	Close     string
	Style     model.RegionStyle
	Nested    bool
	Escapes   bool
	LineStart bool
	String    bool
}

// Style is the comment syntax of one language. Blocks win over line prefixes
// and quotes when both start at the same position.
type Style struct {
	Lang         string
	LinePrefixes []string
	Blocks       []Block
	Quotes       []string
}

var (
	cBlock       = Block{Open: "/*", Close: "*/", Style: model.StyleBlock}
	nestedCBlock = Block{Open: "/*", Close: "*/", Style: model.StyleBlock, Nested: true}
	htmlBlock    = Block{Open: "<!--", Close: "-->", Style: model.StyleBlock}
	backtickStr  = Block{Open: "`", Close: "`", String: true, Escapes: true}

	styleC = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock},
		Quotes:       []string{`"`, `'`},
	}
	styleGo = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock, {Open: "`", Close: "`", String: true}},
		Quotes:       []string{`"`, `'`},
	}
	styleJS = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock, backtickStr},
		Quotes:       []string{`"`, `'`},
	}
	styleNestedC = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{nestedCBlock},
		Quotes:       []string{`"`},
	}
	styleKotlin = Style{
		LinePrefixes: []string{"//"},
		Blocks: []Block{
			nestedCBlock,
			{Open: `"""`, Close: `"""`, String: true},
		},
		Quotes: []string{`"`, `'`},
	}
	styleGroovy = Style{
		LinePrefixes: []string{"//"},
		Blocks: []Block{
			cBlock,
			{Open: `"""`, Close: `"""`, String: true, Escapes: true},
			{Open: `'''`, Close: `'''`, String: true, Escapes: true},
		},
		Quotes: []string{`"`, `'`},
	}
	styleDart = Style{
		LinePrefixes: []string{"//"},
		Blocks: []Block{
			nestedCBlock,
			{Open: `"""`, Close: `"""`, String: true, Escapes: true},
			{Open: `'''`, Close: `'''`, String: true, Escapes: true},
		},
		Quotes: []string{`"`, `'`},
	}
	stylePHP = Style{
		LinePrefixes: []string{"//", "#"},
		Blocks:       []Block{cBlock},
		Quotes:       []string{`"`, `'`},
	}
	stylePython = Style{
		LinePrefixes: []string{"#"},
		Blocks: []Block{
			{Open: `"""`, Close: `"""`, Style: model.StyleDoubleQuoteBlock, Escapes: true},
			{Open: `'''`, Close: `'''`, Style: model.StyleSingleQuoteBlock, Escapes: true},
		},
		Quotes: []string{`"`, `'`},
	}
	styleHash = Style{
		LinePrefixes: []string{"#"},
		Quotes:       []string{`"`, `'`},
	}
	styleShell = Style{
		LinePrefixes: []string{"#"},
		Blocks: []Block{
			{Open: `"`, Close: `"`, String: true, Escapes: true},
			{Open: `'`, Close: `'`, String: true},
		},
	}
	styleRuby = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Open: "=begin", Close: "=end", Style: model.StyleBlock, LineStart: true}},
		Quotes:       []string{`"`, `'`},
	}
	styleTerraform = Style{
		LinePrefixes: []string{"#", "//"},
		Blocks:       []Block{cBlock},
		Quotes:       []string{`"`},
	}
	styleNim = Style{
		LinePrefixes: []string{"#"},
		Blocks: []Block{
			{Open: "#[", Close: "]#", Style: model.StyleBlock, Nested: true},
			{Open: `"""`, Close: `"""`, String: true},
		},
		Quotes: []string{`"`},
	}
	styleJulia = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Open: "#=", Close: "=#", Style: model.StyleBlock, Nested: true}},
		Quotes:       []string{`"`},
	}
	stylePowershell = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Open: "<#", Close: "#>", Style: model.StyleBlock}},
		Quotes:       []string{`"`, `'`},
	}
	styleTwig = Style{
		Blocks: []Block{{Open: "{#", Close: "#}", Style: model.StyleBlock}, htmlBlock},
	}
	styleVue = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock, htmlBlock, backtickStr},
		Quotes:       []string{`"`, `'`},
	}
	styleHTML = Style{
		Blocks: []Block{htmlBlock},
	}
	styleCSS = Style{
		Blocks: []Block{cBlock},
		Quotes: []string{`"`, `'`},
	}
	styleSCSS = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock},
		Quotes:       []string{`"`, `'`},
	}
	styleSQL = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{cBlock},
		Quotes:       []string{`'`, `"`},
	}
	styleHaskell = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{{Open: "{-", Close: "-}", Style: model.StyleBlock, Nested: true}},
		Quotes:       []string{`"`},
	}
	styleLua = Style{
		LinePrefixes: []string{"--"},
		Blocks: []Block{
			{Open: "--[[", Close: "]]", Style: model.StyleBlock},
			{Open: "[[", Close: "]]", String: true},
		},
		Quotes: []string{`"`, `'`},
	}
)

var languageStyles = map[string]Style{
	"c":             styleC,
	"cpp":           styleC,
	"objective-c":   styleC,
	"objective-cpp": styleC,
	"csharp":        styleC,
	"java":          styleC,
	"proto":         styleC,
	"solidity":      styleC,
	"zig":           {LinePrefixes: []string{"//"}, Quotes: []string{`"`, `'`}},
	"go":            styleGo,
	"javascript":    styleJS,
	"typescript":    styleJS,
	"rust":          styleNestedC,
	"swift":         styleNestedC,
	"scala":         styleKotlin,
	"kotlin":        styleKotlin,
	"dart":          styleDart,
	"groovy":        styleGroovy,
	"php":           stylePHP,
	"python":        stylePython,
	"starlark":      stylePython,
	"shell":         styleShell,
	"dockerfile":    styleHash,
	"make":          styleHash,
	"cmake":         styleHash,
	"yaml":          styleHash,
	"toml":          styleHash,
	"perl":          styleHash,
	"r":             styleHash,
	"elixir":        styleHash,
	"ruby":          styleRuby,
	"terraform":     styleTerraform,
	"nim":           styleNim,
	"julia":         styleJulia,
	"powershell":    stylePowershell,
	"twig":          styleTwig,
	"vue":           styleVue,
	"html":          styleHTML,
	"css":           styleCSS,
	"scss":          styleSCSS,
	"sql":           styleSQL,
	"haskell":       styleHaskell,
	"lua":           styleLua,
}

// StyleForLanguage looks up the style of a normalized language name.
func StyleForLanguage(lang string) (Style, bool) {
	lang = detect.NormalizeLangName(lang)
	st, ok := languageStyles[lang]
	if !ok {
		return Style{}, false
	}
	st.Lang = lang
	return st, true
}

// StyleFor picks the style for a file. head is the beginning of the file and
// is only consulted for extensionless scripts.
func StyleFor(path string, head []byte) (Style, bool) {
	info := detect.FromPathAndContent(path, head)
	if info.Name == "" {
		return Style{}, false
	}
	return StyleForLanguage(info.Name)
}

// Supported reports whether the file may carry a known comment style. Files
// without an extension are accepted so their shebang can be inspected later.
func Supported(path string) bool {
	if _, ok := languageStyles[detect.FromPath(path).Name]; ok {
		return true
	}
	return detect.NeedsContent(path)
}

// Languages returns the names of every language with a comment style.
func Languages() []string {
	out := make([]string, 0, len(languageStyles))
	for name := range languageStyles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

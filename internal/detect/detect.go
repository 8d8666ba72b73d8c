// Package detect guesses the language of a source file from its name or
// shebang line. Names are the canonical keys used by the comment styles.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Info is the result of a detection. An empty Name means unknown.
type Info struct {
	Name string
}

// FromPath resolves the language from the file name alone.
func FromPath(p string) Info {
	return Info{Name: detectByPath(p)}
}

// FromPathAndContent falls back to the shebang line when the name is not enough.
func FromPathAndContent(p string, data []byte) Info {
	if name := detectByPath(p); name != "" {
		return Info{Name: name}
	}
	if shebang := detectByShebang(data); shebang != "" {
		return Info{Name: shebang}
	}
	return Info{Name: ""}
}

// NeedsContent reports whether the path carries no extension and may still be
// identified through its shebang.
func NeedsContent(p string) bool {
	return detectByPath(p) == "" && filepath.Ext(filepath.Base(p)) == ""
}

func detectByPath(p string) string {
	base := strings.ToLower(filepath.Base(p))
	if lang, ok := basenameLanguages[base]; ok {
		return lang
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return ""
	}
	// compound extensions such as .html.twig
	stem := strings.TrimSuffix(base, ext)
	if inner := filepath.Ext(stem); inner != "" {
		if lang, ok := extensionLanguages[inner+ext]; ok {
			return lang
		}
	}
	return extensionLanguages[ext]
}

func detectByShebang(data []byte) string {
	if !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	end := bytes.IndexByte(data, '\n')
	if end == -1 {
		end = len(data)
	}
	fields := strings.Fields(strings.ToLower(string(data[2:end])))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" {
		interp = ""
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") {
				interp = filepath.Base(f)
				break
			}
		}
	}
	interp = strings.TrimRight(interp, "0123456789.")
	return shebangLanguages[interp]
}

// NormalizeLangName lower-cases name and resolves aliases such as "js" or
// "python3".
func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if alias, ok := languageAliases[n]; ok {
		return alias
	}
	return n
}

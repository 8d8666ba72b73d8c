package detect

// basenameLanguages matches whole file names, lower-cased.
var basenameLanguages = map[string]string{
	"makefile":       "make",
	"gnumakefile":    "make",
	"justfile":       "make",
	"cmakelists.txt": "cmake",
	"dockerfile":     "dockerfile",
	"containerfile":  "dockerfile",
	"jenkinsfile":    "groovy",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"podfile":        "ruby",
	"vagrantfile":    "ruby",
	"config.ru":      "ruby",
	"build":          "starlark",
	"build.bazel":    "starlark",
	"workspace":      "starlark",
	"tiltfile":       "starlark",
	"pipfile":        "toml",
	"gradlew":        "shell",
}

// extensionLanguages maps lower-cased extensions, compound ones included.
var extensionLanguages = map[string]string{
	".c":          "c",
	".h":          "c",
	".cc":         "cpp",
	".cpp":        "cpp",
	".cxx":        "cpp",
	".hh":         "cpp",
	".hpp":        "cpp",
	".hxx":        "cpp",
	".m":          "objective-c",
	".mm":         "objective-cpp",
	".cs":         "csharp",
	".java":       "java",
	".proto":      "proto",
	".sol":        "solidity",
	".zig":        "zig",
	".go":         "go",
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".jsx":        "javascript",
	".ts":         "typescript",
	".mts":        "typescript",
	".cts":        "typescript",
	".tsx":        "typescript",
	".rs":         "rust",
	".swift":      "swift",
	".scala":      "scala",
	".sc":         "scala",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".dart":       "dart",
	".groovy":     "groovy",
	".gradle":     "groovy",
	".php":        "php",
	".phtml":      "php",
	".py":         "python",
	".pyw":        "python",
	".pyi":        "python",
	".bzl":        "starlark",
	".star":       "starlark",
	".bazel":      "starlark",
	".sh":         "shell",
	".bash":       "shell",
	".zsh":        "shell",
	".ksh":        "shell",
	".dockerfile": "dockerfile",
	".mk":         "make",
	".make":       "make",
	".cmake":      "cmake",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".pl":         "perl",
	".pm":         "perl",
	".r":          "r",
	".ex":         "elixir",
	".exs":        "elixir",
	".rb":         "ruby",
	".rake":       "ruby",
	".gemspec":    "ruby",
	".tf":         "terraform",
	".tfvars":     "terraform",
	".hcl":        "terraform",
	".nim":        "nim",
	".jl":         "julia",
	".ps1":        "powershell",
	".psm1":       "powershell",
	".psd1":       "powershell",
	".twig":       "twig",
	".html.twig":  "twig",
	".vue":        "vue",
	".html":       "html",
	".htm":        "html",
	".css":        "css",
	".scss":       "scss",
	".sql":        "sql",
	".psql":       "sql",
	".pgsql":      "sql",
	".hs":         "haskell",
	".lhs":        "haskell",
	".lua":        "lua",
}

// shebangLanguages maps interpreters with version suffixes stripped.
var shebangLanguages = map[string]string{
	"sh":      "shell",
	"bash":    "shell",
	"zsh":     "shell",
	"ksh":     "shell",
	"dash":    "shell",
	"ash":     "shell",
	"python":  "python",
	"pypy":    "python",
	"node":    "javascript",
	"deno":    "typescript",
	"bun":     "javascript",
	"ruby":    "ruby",
	"perl":    "perl",
	"php":     "php",
	"rscript": "r",
	"elixir":  "elixir",
	"lua":     "lua",
	"luajit":  "lua",
	"julia":   "julia",
	"pwsh":    "powershell",
	"groovy":  "groovy",
	"swift":   "swift",
	"make":    "make",
}

// languageAliases turns user spellings into the canonical names above.
var languageAliases = map[string]string{
	"js":       "javascript",
	"jsx":      "javascript",
	"node":     "javascript",
	"ts":       "typescript",
	"tsx":      "typescript",
	"c++":      "cpp",
	"cxx":      "cpp",
	"c#":       "csharp",
	"cs":       "csharp",
	"objc":     "objective-c",
	"golang":   "go",
	"py":       "python",
	"python2":  "python",
	"python3":  "python",
	"rb":       "ruby",
	"rs":       "rust",
	"kt":       "kotlin",
	"sh":       "shell",
	"bash":     "shell",
	"zsh":      "shell",
	"ps1":      "powershell",
	"pwsh":     "powershell",
	"yml":      "yaml",
	"tf":       "terraform",
	"hcl":      "terraform",
	"bazel":    "starlark",
	"docker":   "dockerfile",
	"makefile": "make",
	"postgres": "sql",
	"hs":       "haskell",
}

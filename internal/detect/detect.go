// Package detect guesses the language of a file from its path and, failing
// that, its shebang line. The names it returns are grammar identifiers or
// registered aliases.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Info はファイルの判定結果。Name が空なら言語不明。
type Info struct {
	Name string
}

// binarySniffLen は NUL 判定で先頭から調べるバイト数。
const binarySniffLen = 8000

// FromPathAndContent はパスと内容から言語を判定する。
func FromPathAndContent(p string, data []byte) Info {
	name := byPath(p)
	if name != "" {
		if strings.EqualFold(filepath.Ext(p), ".m") && name == "objective-c" && looksLikeMatlab(data) {
			return Info{}
		}
		return Info{Name: name}
	}
	return Info{Name: byShebang(data)}
}

// LooksBinary は先頭付近に NUL を含むデータをバイナリとみなす。
func LooksBinary(data []byte) bool {
	sample := data
	if len(sample) > binarySniffLen {
		sample = sample[:binarySniffLen]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

func byPath(p string) string {
	lowerBase := strings.ToLower(filepath.Base(filepath.FromSlash(p)))
	if lang, ok := basenameLanguages[lowerBase]; ok {
		return lang
	}
	ext := filepath.Ext(lowerBase)
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	// Dockerfile.dev, Makefile.common
	stem := strings.TrimSuffix(lowerBase, ext)
	if lang, ok := basenameLanguages[stem]; ok {
		return lang
	}
	return ""
}

func byShebang(data []byte) string {
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
				interp = f
				break
			}
		}
	}
	interp = strings.TrimRight(interp, "0123456789.")
	return shebangLanguages[interp]
}

// NormalizeLangName は利用者が入力した言語名を正規化する。
func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := langAliases[n]; ok {
		return canon
	}
	return n
}

// CanonicalDetectLangs は正規化と重複除去を行う。順序は保持する。
func CanonicalDetectLangs(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeLangName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func looksLikeMatlab(data []byte) bool {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	sawKeyword := false
	for _, line := range strings.Split(string(sample), "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if trimmed == "" || strings.HasPrefix(trimmed, "%") {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "@interface"), strings.HasPrefix(trimmed, "@implementation"), strings.HasPrefix(trimmed, "#import"):
			return false
		case strings.HasPrefix(trimmed, "function"), strings.HasPrefix(trimmed, "classdef"):
			return true
		case strings.HasPrefix(trimmed, "properties"), strings.HasPrefix(trimmed, "methods"):
			sawKeyword = true
		}
	}
	return sawKeyword
}

var basenameLanguages = map[string]string{
	"makefile":       "make",
	"gnumakefile":    "make",
	"justfile":       "make",
	"cmakelists.txt": "cmake",
	"dockerfile":     "dockerfile",
	"containerfile":  "dockerfile",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"podfile":        "ruby",
	"vagrantfile":    "ruby",
	"berksfile":      "ruby",
	"config.ru":      "ruby",
	"jenkinsfile":    "groovy",
	"build":          "starlark",
	"build.bazel":    "starlark",
	"workspace":      "starlark",
	"pipfile":        "toml",
	".bashrc":        "shell",
	".zshrc":         "shell",
	".profile":       "shell",
}

var extensionLanguages = map[string]string{
	".c":       "c",
	".h":       "c",
	".cc":      "cpp",
	".cp":      "cpp",
	".cpp":     "cpp",
	".cxx":     "cpp",
	".hh":      "cpp",
	".hpp":     "cpp",
	".hxx":     "cpp",
	".m":       "objective-c",
	".mm":      "objective-cpp",
	".cs":      "csharp",
	".java":    "java",
	".proto":   "proto",
	".zig":     "zig",
	".go":      "go",
	".js":      "javascript",
	".mjs":     "javascript",
	".cjs":     "javascript",
	".jsx":     "javascriptreact",
	".ts":      "typescript",
	".mts":     "typescript",
	".cts":     "typescript",
	".tsx":     "typescriptreact",
	".rs":      "rust",
	".swift":   "swift",
	".kt":      "kotlin",
	".kts":     "kotlin",
	".scala":   "scala",
	".sc":      "scala",
	".groovy":  "groovy",
	".gradle":  "gradle",
	".dart":    "dart",
	".php":     "php",
	".phtml":   "php",
	".css":     "css",
	".scss":    "scss",
	".less":    "less",
	".py":      "python",
	".pyw":     "python",
	".pyi":     "python",
	".pyx":     "cython",
	".pxd":     "cython",
	".bzl":     "starlark",
	".star":    "starlark",
	".rb":      "ruby",
	".rake":    "ruby",
	".gemspec": "ruby",
	".sh":      "shell",
	".bash":    "shell",
	".zsh":     "shell",
	".ksh":     "shell",
	".fish":    "fish",
	".pl":      "perl",
	".pm":      "perl",
	".t":       "perl",
	".r":       "r",
	".ex":      "elixir",
	".exs":     "elixir",
	".yaml":    "yaml",
	".yml":     "yaml",
	".toml":    "toml",
	".mk":      "make",
	".make":    "make",
	".cmake":   "cmake",
	".sql":     "sql",
	".psql":    "sql",
	".pgsql":   "sql",
	".hs":      "haskell",
	".lua":     "lua",
	".ml":      "ocaml",
	".mli":     "ocaml",
	".html":    "html",
	".htm":     "html",
	".xhtml":   "html",
	".vue":     "vue",
	".svelte":  "svelte",
	".xml":     "xml",
	".svg":     "xml",
	".plist":   "xml",
	".xaml":    "xml",
	".csproj":  "xml",
	".lisp":    "common-lisp",
	".cl":      "common-lisp",
	".el":      "common-lisp",
	".scm":     "scheme",
	".ss":      "scheme",
	".rkt":     "racket",
	".ps1":     "powershell",
	".psm1":    "powershell",
	".psd1":    "powershell",
	".hcl":     "hcl",
	".nomad":   "hcl",
	".tf":      "terraform",
	".tfvars":  "terraform",
}

var shebangLanguages = map[string]string{
	"python":  "python",
	"pypy":    "python",
	"node":    "javascript",
	"deno":    "typescript",
	"bun":     "javascript",
	"perl":    "perl",
	"ruby":    "ruby",
	"php":     "php",
	"sh":      "shell",
	"bash":    "shell",
	"dash":    "shell",
	"zsh":     "shell",
	"ksh":     "shell",
	"fish":    "fish",
	"pwsh":    "powershell",
	"lua":     "lua",
	"rscript": "r",
	"elixir":  "elixir",
	"guile":   "scheme",
	"racket":  "racket",
	"make":    "make",
}

var langAliases = map[string]string{
	"c#":     "csharp",
	"cs":     "csharp",
	"c++":    "cpp",
	"cc":     "cpp",
	"hpp":    "cpp",
	"objc":   "objective-c",
	"htm":    "html",
	"js":     "javascript",
	"jsx":    "javascriptreact",
	"ts":     "typescript",
	"tsx":    "typescriptreact",
	"kt":     "kotlin",
	"rb":     "ruby",
	"py":     "python",
	"rs":     "rust",
	"golang": "go",
	"ps1":    "powershell",
	"pwsh":   "powershell",
	"bash":   "shell",
	"sh":     "shell",
	"zsh":    "shell",
	"mk":     "make",
	"tf":     "terraform",
	"yml":    "yaml",
	"pl":     "perl",
	"ex":     "elixir",
	"hs":     "haskell",
	"ml":     "ocaml",
	"lisp":   "common-lisp",
	"docker": "dockerfile",
}

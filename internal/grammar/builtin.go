package grammar

// Default holds the built-in tables. It is populated at init and only read
// afterwards.
var Default = NewRegistry()

var (
	dq        = Quote{Open: `"`, Escape: '\\'}
	sq        = Quote{Open: `'`, Escape: '\\'}
	backtick  = Quote{Open: "`", Escape: '\\'}
	rawTick   = Quote{Open: "`"}
	tripleDQ  = Quote{Open: `"""`, Escape: '\\'}
	tripleSQ  = Quote{Open: `'''`, Escape: '\\'}
	sqlString = Quote{Open: `'`}
	shortSQ   = Quote{Open: `'`, Escape: '\\', Short: true}
	cBlock    = Pair{Start: "/*", End: "*/"}
	nestBlock = Pair{Start: "/*", End: "*/", Nested: true}
)

var (
	styleC = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq},
		Chars:         []Quote{sq},
	}
	styleGo = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq, rawTick},
		Chars:         []Quote{sq},
	}
	styleCSharp = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings: []Quote{
			{Open: `"""`},
			{Open: `$@"`, Close: `"`},
			{Open: `@$"`, Close: `"`},
			{Open: `@"`, Close: `"`},
			dq,
		},
		Chars: []Quote{sq},
	}
	// R"( ... )" only; custom raw delimiters such as R"x( ... )x" are not modelled.
	styleCpp = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{{Open: `R"(`, Close: `)"`}, dq},
		Chars:         []Quote{sq},
	}
	styleJS = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq, sq, backtick},
	}
	styleRust = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{nestBlock},
		Strings: []Quote{
			{Open: `r###"`, Close: `"###`},
			{Open: `r##"`, Close: `"##`},
			{Open: `r#"`, Close: `"#`},
			{Open: `r"`, Close: `"`},
			dq,
		},
		Chars: []Quote{shortSQ},
	}
	styleNestedC = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{nestBlock},
		Strings:       []Quote{tripleDQ, dq},
		Chars:         []Quote{sq},
	}
	styleDart = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{nestBlock},
		Strings:       []Quote{tripleDQ, tripleSQ, dq, sq},
	}
	stylePHP = Spec{
		LineComments:  []string{"//", "#"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq, sq},
	}
	styleCSS = Spec{
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq, sq},
	}
	styleSCSS = Spec{
		LineComments:  []string{"//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq, sq},
	}
	stylePython = Spec{
		LineComments: []string{"#"},
		Strings:      []Quote{tripleDQ, tripleSQ, dq, sq},
	}
	styleRuby = Spec{
		LineComments:  []string{"#"},
		BlockComments: []Pair{{Start: "=begin", End: "=end", AtLineStart: true}},
		Strings:       []Quote{dq, sq, backtick},
	}
	styleShell = Spec{
		LineComments: []string{"#"},
		Strings:      []Quote{dq, {Open: `'`}, backtick},
	}
	styleHash = Spec{
		LineComments: []string{"#"},
		Strings:      []Quote{dq, sq},
	}
	styleYAML = Spec{
		LineComments: []string{"#"},
		Strings:      []Quote{dq},
	}
	styleTOML = Spec{
		LineComments: []string{"#"},
		Strings:      []Quote{tripleDQ, {Open: `'''`}, dq, {Open: `'`}},
	}
	styleMake = Spec{
		LineComments: []string{"#"},
	}
	styleSQL = Spec{
		LineComments:  []string{"--"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{sqlString, {Open: `"`}},
	}
	styleHaskell = Spec{
		LineComments:  []string{"--"},
		BlockComments: []Pair{{Start: "{-", End: "-}", Nested: true}},
		Strings:       []Quote{dq},
		Chars:         []Quote{shortSQ},
	}
	styleLua = Spec{
		LineComments:  []string{"--"},
		BlockComments: []Pair{{Start: "--[[", End: "]]"}},
		Strings:       []Quote{{Open: "[[", Close: "]]"}, dq, sq},
	}
	styleOCaml = Spec{
		BlockComments: []Pair{{Start: "(*", End: "*)", Nested: true}},
		Strings:       []Quote{dq},
		Chars:         []Quote{shortSQ},
	}
	styleMarkup = Spec{
		BlockComments: []Pair{{Start: "<!--", End: "-->"}},
	}
	styleLisp = Spec{
		LineComments:  []string{";"},
		BlockComments: []Pair{{Start: "#|", End: "|#", Nested: true}},
		Strings:       []Quote{dq},
	}
	stylePowershell = Spec{
		LineComments:  []string{"#"},
		BlockComments: []Pair{{Start: "<#", End: "#>"}},
		Strings:       []Quote{{Open: `"`, Escape: '`'}, {Open: `'`}},
	}
	styleHCL = Spec{
		LineComments:  []string{"#", "//"},
		BlockComments: []Pair{cBlock},
		Strings:       []Quote{dq},
	}
)

var builtinLanguages = map[string]Spec{
	"c":           styleC,
	"cpp":         styleCpp,
	"objective-c": styleC,
	"csharp":      styleCSharp,
	"java":        styleC,
	"proto":       styleC,
	"zig":         styleC,
	"go":          styleGo,
	"javascript":  styleJS,
	"typescript":  styleJS,
	"rust":        styleRust,
	"swift":       styleNestedC,
	"kotlin":      styleNestedC,
	"scala":       styleNestedC,
	"dart":        styleDart,
	"php":         stylePHP,
	"css":         styleCSS,
	"scss":        styleSCSS,
	"less":        styleSCSS,
	"python":      stylePython,
	"ruby":        styleRuby,
	"shell":       styleShell,
	"perl":        styleHash,
	"r":           styleHash,
	"elixir":      styleHash,
	"yaml":        styleYAML,
	"toml":        styleTOML,
	"make":        styleMake,
	"dockerfile":  styleMake,
	"sql":         styleSQL,
	"haskell":     styleHaskell,
	"lua":         styleLua,
	"ocaml":       styleOCaml,
	"html":        styleMarkup,
	"xml":         styleMarkup,
	"common-lisp": styleLisp,
	"powershell":  stylePowershell,
	"hcl":         styleHCL,
}

var builtinAliases = map[string]string{
	"objective-cpp":   "cpp",
	"javascriptreact": "javascript",
	"typescriptreact": "typescript",
	"terraform":       "hcl",
	"scheme":          "common-lisp",
	"racket":          "common-lisp",
	// Markup comments only; <script> and <style> bodies are scanned as markup.
	"vue":             "html",
	"svelte":          "html",
	"starlark":        "python",
	"cython":          "python",
	"gradle":          "java",
	"groovy":          "java",
	"cmake":           "make",
	"fish":            "shell",
}

func init() {
	for id, style := range builtinLanguages {
		style.ID = id
		Default.MustRegister(style)
	}
	for alias, id := range builtinAliases {
		if err := Default.Alias(alias, id); err != nil {
			panic(err)
		}
	}
}

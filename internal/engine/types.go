package engine

import (
	"regexp"

	"github.com/phyten/tagscan/internal/execx"
	"github.com/phyten/tagscan/internal/grammar"
	"github.com/phyten/tagscan/internal/progress"
)

// Item は 1 件のアノテーションを表す
type Item struct {
	File        string `json:"file"`
	Lang        string `json:"lang"`
	Marker      string `json:"marker"`
	Kind        string `json:"kind"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Payload     string `json:"payload"`
	IssueNumber int    `json:"issue,omitempty"`
	URL         string `json:"url,omitempty"`
	IssueURL    string `json:"issue_url,omitempty"`
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	Marker            string
	Policy            string // first|each
	Jobs              int
	RepoDir           string
	Progress          bool
	DetectLangs       []string
	Paths             []string
	Excludes          []string
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	MaxFileBytes      int
	ExcludeTypical    bool
	NoPrefilter       bool
	WithLinks         bool
	Mode              string // all|pending|processed

	// nil のときは grammar.Default / execx.DefaultRunner / 表示なしを使う
	Registry         *grammar.Registry `json:"-"`
	Runner           execx.Runner      `json:"-"`
	ProgressObserver progress.Observer `json:"-"`
}

// Result は出力
type Result struct {
	Items      []Item      `json:"items"`
	Total      int         `json:"total"`
	Files      int         `json:"files"`
	Skipped    int         `json:"skipped"`
	ElapsedMS  int64       `json:"elapsed_ms"`
	Errors     []ItemError `json:"errors,omitempty"`
	ErrorCount int         `json:"error_count"`
}

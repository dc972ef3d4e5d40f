// Package link builds browse URLs for annotations on a git hosting service.
package link

import (
	"fmt"
	"strings"

	"github.com/phyten/tagscan/internal/gitremote"
)

// Blob は ref (コミット SHA など) とファイルパス、行番号から blob URL を生成します。
func Blob(info gitremote.Info, ref, file string, line int) string {
	if ref == "" || file == "" || line <= 0 {
		return ""
	}
	path := gitremote.BlobPath(file)
	if isMarkdown(file) {
		return fmt.Sprintf("%s/blob/%s/%s?plain=1#L%d", info.WebURL(), ref, path, line)
	}
	return fmt.Sprintf("%s/blob/%s/%s#L%d", info.WebURL(), ref, path, line)
}

// Issue は issue 番号に対応するページの URL を返します。
func Issue(info gitremote.Info, number int) string {
	if number <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/issues/%d", info.WebURL(), number)
}

func isMarkdown(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

package engine

import (
	"context"
	"fmt"

	"github.com/phyten/tagscan/internal/execx"
	"github.com/phyten/tagscan/internal/gitremote"
	"github.com/phyten/tagscan/internal/link"
)

// attachLinks は origin リモートと HEAD を基に各 Item の URL を埋めます。
// issue 番号のない Item は IssueURL を空のままにします。
func attachLinks(ctx context.Context, runner execx.Runner, repoDir string, items []Item) error {
	info, err := gitremote.Detect(ctx, runner, repoDir, gitremote.DefaultRemote)
	if err != nil {
		return fmt.Errorf("with_links: %w", err)
	}
	head, err := gitremote.HeadCommit(ctx, runner, repoDir)
	if err != nil {
		return fmt.Errorf("with_links: %w", err)
	}
	for i := range items {
		items[i].URL = link.Blob(info, head, items[i].File, items[i].Line)
		items[i].IssueURL = link.Issue(info, items[i].IssueNumber)
	}
	return nil
}

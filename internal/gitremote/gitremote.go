// Package gitremote reads the hosting location of a repository from its git
// remote configuration.
package gitremote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/phyten/tagscan/internal/execx"
)

// DefaultRemote is the remote consulted when none is named.
const DefaultRemote = "origin"

// Info は Git リモートから抽出したホスト・オーナー・リポジトリ情報です。
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// Detect は repoDir のリモート remote を解析して Info を返します。
func Detect(ctx context.Context, runner execx.Runner, repoDir, remote string) (Info, error) {
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	if remote = strings.TrimSpace(remote); remote == "" {
		remote = DefaultRemote
	}
	key := "remote." + remote + ".url"
	raw, err := gitOutput(ctx, runner, repoDir, "config", "--get", key)
	if err != nil {
		return Info{}, err
	}
	if raw == "" {
		return Info{}, fmt.Errorf("%s is empty", key)
	}
	return Parse(raw)
}

// HeadCommit は HEAD のコミット SHA を返します。
func HeadCommit(ctx context.Context, runner execx.Runner, repoDir string) (string, error) {
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	return gitOutput(ctx, runner, repoDir, "rev-parse", "--verify", "HEAD")
}

func gitOutput(ctx context.Context, runner execx.Runner, repoDir string, args ...string) (string, error) {
	stdout, stderr, err := runner.Run(ctx, repoDir, "git", args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// Parse は scp 形式 (git@host:owner/repo.git) と ssh:// git:// http(s):// の
// URL を受け付けます。http 以外のスキームは Scheme を空のままにします。
func Parse(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Info{}, errors.New("empty remote url")
	}
	if !strings.Contains(raw, "://") {
		userHost, p, ok := strings.Cut(raw, ":")
		if !ok || !strings.Contains(userHost, "@") {
			return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
		}
		_, host, _ := strings.Cut(userHost, "@")
		return build(host, p, "")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "ssh", "git":
		scheme = ""
	case "http", "https":
	default:
		return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
	}
	return build(u.Host, u.Path, scheme)
}

func build(host, p, scheme string) (Info, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return Info{}, errors.New("missing host in remote url")
	}
	cleaned, err := url.PathUnescape(p)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote path: %w", err)
	}
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), "\\", "/")
	cleaned = strings.Trim(strings.TrimSuffix(cleaned, ".git"), "/")
	segments := strings.Split(cleaned, "/")
	if len(segments) < 2 {
		return Info{}, errors.New("remote url must include owner and repo")
	}
	owner, repo := segments[len(segments)-2], segments[len(segments)-1]
	if owner == "" || repo == "" {
		return Info{}, errors.New("invalid owner or repo in remote url")
	}
	return Info{Host: host, Owner: owner, Repo: repo, Scheme: scheme}, nil
}

// WebURL はリポジトリのブラウズ用ベース URL を返します。
func (i Info) WebURL() string {
	return fmt.Sprintf("%s://%s/%s/%s", i.NormalizedScheme(), strings.TrimSuffix(i.Host, "/"), url.PathEscape(i.Owner), url.PathEscape(i.Repo))
}

// NormalizedScheme は http のときだけ http を返し、それ以外は https とします。
func (i Info) NormalizedScheme() string {
	if strings.EqualFold(strings.TrimSpace(i.Scheme), "http") {
		return "http"
	}
	return "https"
}

// BlobPath はファイルパスの各要素を URL 用にエスケープします。
func BlobPath(file string) string {
	parts := strings.Split(strings.ReplaceAll(file, "\\", "/"), "/")
	for idx, part := range parts {
		parts[idx] = url.PathEscape(part)
	}
	return path.Join(parts...)
}

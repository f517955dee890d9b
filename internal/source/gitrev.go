package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dusk-indust/archdrift/internal/lang"
)

// GitSource reads supported source files from a git revision without
// touching the working tree.
type GitSource struct {
	repoDir  string
	excludes map[string]bool
}

// NewGitSource creates a source over the repository at repoDir.
func NewGitSource(repoDir string, extraExcludes []string) *GitSource {
	excludes := make(map[string]bool, len(builtinExcludes)+len(extraExcludes))
	for name := range builtinExcludes {
		excludes[name] = true
	}
	for _, name := range extraExcludes {
		if name != "" {
			excludes[name] = true
		}
	}
	return &GitSource{repoDir: repoDir, excludes: excludes}
}

// ResolveCommit resolves rev to a full commit SHA. ok is false when the
// revision does not exist, which is not an error: scanning a revision that
// was never created yields an empty file set.
func (g *GitSource) ResolveCommit(ctx context.Context, rev string) (sha string, ok bool, err error) {
	out, err := g.git(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(out)), true, nil
}

// Files lists the supported source files recorded at rev in lexicographic
// path order. A missing revision yields an empty slice.
func (g *GitSource) Files(ctx context.Context, rev string) ([]lang.File, error) {
	sha, ok, err := g.ResolveCommit(ctx, rev)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	out, err := g.git(ctx, "ls-tree", "-r", "--name-only", "-z", sha)
	if err != nil {
		return nil, err
	}

	var files []lang.File
	for _, raw := range bytes.Split(out, []byte{0}) {
		path := string(raw)
		if path == "" {
			continue
		}
		if _, supported := lang.LanguageForPath(path); !supported {
			continue
		}
		if g.pathExcluded(path) {
			continue
		}
		content, err := g.git(ctx, "show", sha+":"+path)
		if err != nil {
			return nil, err
		}
		files = append(files, lang.File{Path: path, Content: content})
	}
	return files, nil
}

func (g *GitSource) pathExcluded(path string) bool {
	segs := strings.Split(path, "/")
	for _, seg := range segs[:len(segs)-1] {
		if g.excludes[seg] || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func (g *GitSource) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.repoDir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("source: git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("source: git %s: %w", args[0], err)
	}
	return out, nil
}

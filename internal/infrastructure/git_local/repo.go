package git_local

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repo is the checked-out repository the tool operates on.
type Repo struct {
	Root   string // working tree root
	GitDir string // metadata directory (handles worktree .git files)
}

// Find walks up from dir looking for a .git entry.
func Find(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for d := abs; ; {
		gitPath := filepath.Join(d, ".git")
		if fi, err := os.Stat(gitPath); err == nil {
			gitDir := gitPath
			if !fi.IsDir() {
				gitDir, err = readGitFile(d, gitPath)
				if err != nil {
					return nil, err
				}
			}
			return &Repo{Root: d, GitDir: gitDir}, nil
		}

		parent := filepath.Dir(d)
		if parent == d {
			return nil, fmt.Errorf("no git repository found from %s", abs)
		}
		d = parent
	}
}

// readGitFile resolves a worktree/submodule .git file: "gitdir: <path>".
func readGitFile(root, gitPath string) (string, error) {
	b, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}

	target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(b)), "gitdir:"))
	if target == "" {
		return "", fmt.Errorf("malformed .git file at %s", gitPath)
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return target, nil
}

// CurrentBranch reads HEAD from the metadata directory.
func (r *Repo) CurrentBranch() (string, error) {
	b, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", err
	}

	head := strings.TrimSpace(string(b))
	const prefix = "ref: refs/heads/"
	if !strings.HasPrefix(head, prefix) {
		return "", fmt.Errorf("detached HEAD in %s", r.Root)
	}
	return strings.TrimPrefix(head, prefix), nil
}

// Name is the repository directory name, used as the tail of the
// provider project slug.
func (r *Repo) Name() string { return filepath.Base(r.Root) }

// HasCIConfig reports whether the working tree carries a CircleCI config.
// Without one there is nothing to pull.
func (r *Repo) HasCIConfig() bool {
	for _, name := range []string{"config.yml", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(r.Root, ".circleci", name)); err == nil {
			return true
		}
	}
	return false
}

// CachePath is the default durable cache location, kept out of the
// working tree.
func (r *Repo) CachePath() string {
	return filepath.Join(r.GitDir, "ci-status.json")
}

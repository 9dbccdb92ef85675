package git_local

import (
	"os"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T, branch string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	head := "ref: refs/heads/" + branch + "\n"
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte(head), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestFind_WalksUp(t *testing.T) {
	root := initRepo(t, "main")
	nested := filepath.Join(root, "pkg", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	repo, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Root != root {
		t.Errorf("root = %s, want %s", repo.Root, root)
	}
	if repo.GitDir != filepath.Join(root, ".git") {
		t.Errorf("gitdir = %s", repo.GitDir)
	}
}

func TestFind_NotARepo(t *testing.T) {
	if _, err := Find(t.TempDir()); err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestFind_WorktreeGitFile(t *testing.T) {
	main := initRepo(t, "main")
	gitDir := filepath.Join(main, ".git", "worktrees", "wt")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/feature\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wt := t.TempDir()
	if err := os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: "+gitDir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo, err := Find(wt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.GitDir != gitDir {
		t.Errorf("gitdir = %s, want %s", repo.GitDir, gitDir)
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != "feature" {
		t.Errorf("branch = %s", branch)
	}
}

func TestCurrentBranch(t *testing.T) {
	root := initRepo(t, "feat/resolver")
	repo, err := Find(root)
	if err != nil {
		t.Fatal(err)
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != "feat/resolver" {
		t.Errorf("branch = %s", branch)
	}
}

func TestCurrentBranch_DetachedHead(t *testing.T) {
	root := initRepo(t, "main")
	sha := "1f2e3d4c5b6a79881f2e3d4c5b6a79881f2e3d4c"
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte(sha+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo, _ := Find(root)
	if _, err := repo.CurrentBranch(); err == nil {
		t.Fatal("expected error on detached HEAD")
	}
}

func TestHasCIConfig(t *testing.T) {
	root := initRepo(t, "main")
	repo, _ := Find(root)

	if repo.HasCIConfig() {
		t.Error("no config yet")
	}

	if err := os.MkdirAll(filepath.Join(root, ".circleci"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".circleci", "config.yml"), []byte("version: 2.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !repo.HasCIConfig() {
		t.Error("config.yml not detected")
	}
}

func TestCachePath_InsideMetadataDir(t *testing.T) {
	root := initRepo(t, "main")
	repo, _ := Find(root)

	want := filepath.Join(root, ".git", "ci-status.json")
	if repo.CachePath() != want {
		t.Errorf("cache path = %s, want %s", repo.CachePath(), want)
	}
	if repo.Name() != filepath.Base(root) {
		t.Errorf("name = %s", repo.Name())
	}
}

// Package gitsync implements the optional remote assets-repo adapter
// (§4.H): keep a local git working tree in sync with a remote repository
// that stores the manifest and thumbnails separately from application
// source, and symlink the builder's local output paths into it. Grounded
// on go-git/go-git/v5, the dependency the rest of the example corpus's
// manifest-and-tooling repos (cloudposse-atmos, GoogleContainerTools/
// skaffold, kubernetes-sigs/promo-tools) pull in for the same
// clone-or-pull-then-commit-and-push workflow.
package gitsync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

const assetsDir = "./assets-git"

// Sync clones or fast-forwards the assets repo into assetsDir, creates the
// thumbnails directory and manifest skeleton if missing, then symlinks
// outputDir's thumbnails directory and manifest path into it so every
// later write in this run lands directly in the git working tree.
func Sync(cfg config.RepoConfig, outputDir string) error {
	if !cfg.Enable {
		return nil
	}

	if err := ensureRepo(cfg); err != nil {
		return err
	}

	thumbDir := filepath.Join(assetsDir, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", thumbDir, err)
	}
	manifestPath := filepath.Join(assetsDir, "photos-manifest.json")
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		skeleton := []byte(`{"version":"` + manifest.CurrentVersion + `","data":[],"cameras":[],"lenses":[]}`)
		if err := os.WriteFile(manifestPath, skeleton, 0o644); err != nil {
			return fmt.Errorf("write manifest skeleton: %w", err)
		}
	}

	if err := replaceWithSymlink(filepath.Join(outputDir, "thumbnails"), thumbDir); err != nil {
		return err
	}
	if err := replaceWithSymlink(filepath.Join(outputDir, "photos-manifest.json"), manifestPath); err != nil {
		return err
	}
	return nil
}

func ensureRepo(cfg config.RepoConfig) error {
	auth := authFor(cfg)

	if _, err := os.Stat(filepath.Join(assetsDir, ".git")); err == nil {
		repo, err := git.PlainOpen(assetsDir)
		if err != nil {
			return fmt.Errorf("open existing assets repo: %w", err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("open assets repo worktree: %w", err)
		}
		err = wt.Pull(&git.PullOptions{Auth: auth, Force: false})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			// Rebase/merge conflict: purge and reclone rather than leave a
			// dirty tree behind (§4.H).
			if rmErr := os.RemoveAll(assetsDir); rmErr != nil {
				return fmt.Errorf("pull failed (%v) and cleanup failed: %w", err, rmErr)
			}
			return cloneRepo(cfg, auth)
		}
		return nil
	}

	return cloneRepo(cfg, auth)
}

func cloneRepo(cfg config.RepoConfig, auth *http.BasicAuth) error {
	_, err := git.PlainClone(assetsDir, false, &git.CloneOptions{
		URL:   cfg.URL,
		Auth:  auth,
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("clone assets repo %s: %w", cfg.URL, err)
	}
	return nil
}

func authFor(cfg config.RepoConfig) *http.BasicAuth {
	if cfg.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "manifest-builder", Password: cfg.Token}
}

// replaceWithSymlink removes whatever is at localPath (file, directory, or
// prior symlink) and replaces it with a symlink to target, so every later
// thumbnail/manifest write in this run lands directly in the git tree.
func replaceWithSymlink(localPath, target string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve symlink target %s: %w", target, err)
	}
	if info, err := os.Lstat(localPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			if existing, err := os.Readlink(localPath); err == nil && existing == absTarget {
				return nil
			}
		}
		if err := os.RemoveAll(localPath); err != nil {
			return fmt.Errorf("remove existing %s: %w", localPath, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", localPath, err)
	}
	if err := os.Symlink(absTarget, localPath); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", localPath, absTarget, err)
	}
	return nil
}

// Publish commits and pushes the assets repo when hasUpdates is true
// (§4.H), configuring a fallback author identity if the local git config
// has none.
func Publish(cfg config.RepoConfig, hasUpdates bool) error {
	if !cfg.Enable || !hasUpdates {
		return nil
	}

	repo, err := git.PlainOpen(assetsDir)
	if err != nil {
		return fmt.Errorf("open assets repo for publish: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree for publish: %w", err)
	}
	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("stage assets repo changes: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("check assets repo status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	cfgObj, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read assets repo config: %w", err)
	}
	author := &object.Signature{
		Name:  cfgObj.User.Name,
		Email: cfgObj.User.Email,
		When:  time.Now(),
	}
	if author.Name == "" {
		author.Name = "manifest-builder"
	}
	if author.Email == "" {
		author.Email = "manifest-builder@localhost"
	}

	_, err = wt.Commit(fmt.Sprintf("manifest update %s", time.Now().UTC().Format(time.RFC3339)), &git.CommitOptions{
		Author:            author,
		AllowEmptyCommits: false,
	})
	if err != nil {
		return fmt.Errorf("commit assets repo changes: %w", err)
	}

	if err := repo.Push(&git.PushOptions{Auth: authFor(cfg)}); err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("push assets repo: %w", err)
	}
	return nil
}

// Package gitinfo reads the commit an API description is checked in at.
package gitinfo

import (
	"os"
	"path/filepath"

	cerrors "github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Hash returns the HEAD commit hash of the repository containing path,
// which may be a file or a directory. Paths outside a repository and
// repositories without commits yield "".
func Hash(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if cerrors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", cerrors.Wrapf(err, "opening repository at %s", dir)
	}

	head, err := repo.Head()
	if cerrors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", cerrors.Wrap(err, "reading HEAD")
	}
	return head.Hash().String(), nil
}

// Short abbreviates a hash to seven characters.
func Short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

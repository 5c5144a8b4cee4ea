package zerv

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoCommit adds a file and commits it, returning the commit hash
func testRepoCommit(repo *git.Repository, filename, content string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	err = writeFile(workTree.Filesystem, filename, content)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = workTree.Add(filename)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit("Add "+filename, &git.CommitOptions{Author: testSignature})
}

// testRepoTaggedCommit commits a file and tags the resulting commit
func testRepoTaggedCommit(repo *git.Repository, filename, tag string) (plumbing.Hash, error) {
	hash, err := testRepoCommit(repo, filename, "Content for "+tag)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = repo.CreateTag(tag, hash, nil)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return hash, nil
}

// testRepoDirty stages an uncommitted change so the worktree reads dirty
func testRepoDirty(repo *git.Repository) error {
	workTree, err := repo.Worktree()
	if err != nil {
		return err
	}

	err = writeFile(workTree.Filesystem, "uncommitted.txt", "Uncommitted content")
	if err != nil {
		return err
	}

	_, err = workTree.Add("uncommitted.txt")
	return err
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}

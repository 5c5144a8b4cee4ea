package zerv

import (
	"fmt"
	"os/exec"
	"path"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// OpenRepository opens a Git repository at the specified path.
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// CollectOptions configures repository fact collection.
type CollectOptions struct {
	// Repository is the Git repository to analyze.
	Repository *git.Repository

	// Commitish specifies which commit to analyze (default: "HEAD").
	Commitish plumbing.Revision

	// TagFilter allows filtering which tags to consider.
	TagFilter func(string) bool

	// TagPattern is a regex pattern to filter tags (alternative to TagFilter).
	TagPattern string
}

// CollectFacts gathers the repository state the classifier consumes: the
// nearest version tag, the commit distance to it, worktree dirtiness and
// branch/commit context.
func CollectFacts(opts CollectOptions) (Facts, error) {
	if opts.Repository == nil {
		return Facts{}, fmt.Errorf("repository is required")
	}
	if opts.Commitish == "" {
		opts.Commitish = "HEAD"
	}
	if opts.TagPattern != "" && opts.TagFilter == nil {
		re, err := regexp.Compile(opts.TagPattern)
		if err != nil {
			return Facts{}, fmt.Errorf("invalid tag pattern: %w", err)
		}
		opts.TagFilter = func(tag string) bool {
			return re.MatchString(tag)
		}
	}

	revision, err := opts.Repository.ResolveRevision(opts.Commitish)
	if err != nil {
		return Facts{}, fmt.Errorf("resolving commitish: %w", err)
	}

	commit, err := opts.Repository.CommitObject(*revision)
	if err != nil {
		return Facts{}, fmt.Errorf("getting commit object: %w", err)
	}

	facts := Facts{
		CommitHash:      revision.String(),
		CommitTimestamp: uint64(commit.Committer.When.UTC().Unix()),
	}

	facts.Branch, err = currentBranch(opts.Repository)
	if err != nil {
		return Facts{}, fmt.Errorf("determining branch: %w", err)
	}

	facts.Dirty, err = workTreeIsDirty(opts.Repository)
	if err != nil {
		return Facts{}, fmt.Errorf("checking if worktree is dirty: %w", err)
	}

	tag, distance, err := nearestTag(opts.Repository, commit, opts.TagFilter)
	if err != nil {
		return Facts{}, fmt.Errorf("finding nearest tag: %w", err)
	}
	facts.Distance = distance
	if tag != nil {
		facts.TagVersion = stripModuleTagPrefixes(tag.ref.Name().Short())
		facts.TagCommitHash = tag.commit.Hash.String()
		facts.TagTimestamp = uint64(tag.commit.Committer.When.UTC().Unix())
	}
	return facts, nil
}

func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		// Detached HEAD
		return "", nil
	}
	return head.Name().Short(), nil
}

func stripModuleTagPrefixes(tag string) string {
	_, versionComponent := path.Split(tag)
	return strings.TrimPrefix(versionComponent, "v")
}

type taggedCommit struct {
	ref    *plumbing.Reference
	commit *object.Commit
}

// nearestTag walks the commit history in preorder, returning the first
// reachable version tag and the number of commits between it and start.
// When no tag is reachable, the distance is the full commit count.
func nearestTag(repo *git.Repository, start *object.Commit,
	tagFilter func(string) bool) (*taggedCommit, uint64, error) {

	tagged, err := versionTagsByCommit(repo, tagFilter)
	if err != nil {
		return nil, 0, err
	}

	var found *taggedCommit
	var distance uint64
	walker := object.NewCommitPreorderIter(start, nil, nil)

	err = walker.ForEach(func(commit *object.Commit) error {
		if ref, ok := tagged[commit.Hash]; ok {
			found = &taggedCommit{ref: ref, commit: commit}
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if found == nil {
		return nil, distance, nil
	}
	return found, distance, nil
}

// versionTagsByCommit indexes tags that look like versions by the commit
// they point at, resolving annotated tags to their targets.
func versionTagsByCommit(repo *git.Repository,
	tagFilter func(string) bool) (map[plumbing.Hash]*plumbing.Reference, error) {

	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	byCommit := map[plumbing.Hash]*plumbing.Reference{}
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		short := ref.Name().Short()
		if tagFilter != nil && !tagFilter(short) {
			return nil
		}
		if !CheckVersion(stripModuleTagPrefixes(short), FormatAuto) {
			return nil
		}

		target := ref.Hash()
		obj, err := repo.TagObject(ref.Hash())
		switch err {
		case nil:
			// Annotated tag
			target = obj.Target
		case plumbing.ErrObjectNotFound:
			// Lightweight tag
		default:
			return err
		}

		if _, taken := byCommit[target]; !taken {
			byCommit[target] = ref
		}
		return nil
	})
	return byCommit, err
}

func workTreeIsDirty(repo *git.Repository) (bool, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	// Fast path for filesystem storage
	if _, ok := repo.Storer.(*filesystem.Storage); ok {
		return checkDirtyWithGitCommand(workTree.Filesystem.Root())
	}

	// Fallback to go-git status check
	status, err := workTree.Status()
	if err != nil {
		return false, fmt.Errorf("getting git status: %w", err)
	}

	return !status.IsClean(), nil
}

func checkDirtyWithGitCommand(repoPath string) (bool, error) {
	// Refresh index first
	cmd := exec.Command("git", "update-index", "-q", "--refresh")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		// If update-index fails, assume dirty
		return true, nil
	}

	// Check for changes
	cmd = exec.Command("git", "diff-files", "--name-status", "--ignore-space-at-eol")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return true, nil
		}
		return false, err
	}

	return len(output) > 0, nil
}

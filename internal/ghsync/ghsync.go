// Package ghsync imports assigned GitHub issues as task items.
package ghsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/jmallard/daybook/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// IssueLister abstracts the GitHub API method we use, enabling test mocks.
type IssueLister interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
}

// NewLister builds a token-authenticated GitHub issues client.
func NewLister(ctx context.Context, token string) IssueLister {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts)).Issues
}

// Import pulls open issues assigned to username from each configured repo
// and creates a task item for any issue not imported before (deduplicated by
// SourceRef, "owner/name#number"). One repo's failure is logged and skipped.
// Returns the number of tasks created.
func Import(ctx context.Context, db *gorm.DB, userID uint, lister IssueLister, username string, repos []string) (int, error) {
	created := 0
	for _, repo := range repos {
		owner, name, err := splitRepo(repo)
		if err != nil {
			log.Printf("ghsync: %v", err)
			continue
		}

		issues, _, err := lister.ListByRepo(ctx, owner, name, &github.IssueListByRepoOptions{
			State:       "open",
			Assignee:    username,
			ListOptions: github.ListOptions{PerPage: 100},
		})
		if err != nil {
			log.Printf("ghsync: list issues of %s: %v", repo, err)
			continue
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			n, err := importIssue(db, userID, repo, issue)
			if err != nil {
				return created, err
			}
			created += n
		}
	}
	return created, nil
}

// importIssue creates a task for an issue unless it was imported before.
func importIssue(db *gorm.DB, userID uint, repo string, issue *github.Issue) (int, error) {
	ref := fmt.Sprintf("%s#%d", repo, issue.GetNumber())

	var existing models.Item
	err := db.Where("user_id = ? AND source_ref = ?", userID, ref).First(&existing).Error
	switch {
	case err == nil:
		return 0, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return 0, fmt.Errorf("ghsync: check %s: %w", ref, err)
	}

	task := models.Item{
		UserID:      userID,
		ItemType:    models.TypeTask,
		Name:        issue.GetTitle(),
		Description: issue.GetHTMLURL(),
		SourceRef:   ref,
	}
	if err := db.Create(&task).Error; err != nil {
		return 0, fmt.Errorf("ghsync: create task for %s: %w", ref, err)
	}
	return 1, nil
}

// splitRepo parses "owner/name".
func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo %q, want owner/name", repo)
	}
	return parts[0], parts[1], nil
}

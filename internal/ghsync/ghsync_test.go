package ghsync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Item{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// fakeLister serves canned issues keyed by "owner/name".
type fakeLister struct {
	issues map[string][]*github.Issue
	fail   map[string]error
}

func (f *fakeLister) ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	key := owner + "/" + repo
	if err := f.fail[key]; err != nil {
		return nil, nil, err
	}
	return f.issues[key], nil, nil
}

func issue(number int, title, url string) *github.Issue {
	return &github.Issue{
		Number:  github.Int(number),
		Title:   github.String(title),
		HTMLURL: github.String(url),
	}
}

func TestImport(t *testing.T) {
	db := openTestDB(t)

	pr := issue(7, "A pull request", "http://example.com/pr/7")
	pr.PullRequestLinks = &github.PullRequestLinks{URL: github.String("http://example.com/pr/7")}

	lister := &fakeLister{
		issues: map[string][]*github.Issue{
			"acme/api": {
				issue(1, "Fix login", "http://example.com/1"),
				issue(2, "Add paging", "http://example.com/2"),
				pr,
			},
			"acme/web": {
				issue(1, "Same number, other repo", "http://example.com/w1"),
			},
		},
	}

	created, err := Import(context.Background(), db, 1, lister, "jmallard", []string{"acme/api", "acme/web"})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if created != 3 {
		t.Errorf("created = %d, want 3 (pull request skipped)", created)
	}

	var tasks []models.Item
	if err := db.Where("user_id = ?", 1).Order("source_ref ASC").Find(&tasks).Error; err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(tasks))
	}
	if tasks[0].SourceRef != "acme/api#1" || tasks[1].SourceRef != "acme/api#2" || tasks[2].SourceRef != "acme/web#1" {
		t.Errorf("source refs = %q, %q, %q", tasks[0].SourceRef, tasks[1].SourceRef, tasks[2].SourceRef)
	}
	if tasks[0].ItemType != models.TypeTask || tasks[0].Name != "Fix login" || tasks[0].Description != "http://example.com/1" {
		t.Errorf("imported task = %+v", tasks[0])
	}

	// Re-import is a no-op for already-seen issues.
	created, err = Import(context.Background(), db, 1, lister, "jmallard", []string{"acme/api", "acme/web"})
	if err != nil {
		t.Fatalf("Import() second error: %v", err)
	}
	if created != 0 {
		t.Errorf("re-import created = %d, want 0", created)
	}
}

func TestImport_RepoFailuresAreIsolated(t *testing.T) {
	db := openTestDB(t)

	lister := &fakeLister{
		issues: map[string][]*github.Issue{
			"acme/ok": {issue(1, "Works", "http://example.com/1")},
		},
		fail: map[string]error{"acme/broken": errors.New("401")},
	}

	created, err := Import(context.Background(), db, 1, lister, "jmallard",
		[]string{"acme/broken", "not-a-repo", "acme/ok"})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1 (broken repo and malformed name skipped)", created)
	}
}

func TestImportAll(t *testing.T) {
	db := openTestDB(t)
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if err := db.Create(&models.User{Email: email}).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	lister := &fakeLister{
		issues: map[string][]*github.Issue{
			"acme/api": {issue(1, "Shared issue", "http://example.com/1")},
		},
	}

	total, err := ImportAll(context.Background(), db, lister, "jmallard", []string{"acme/api"})
	if err != nil {
		t.Fatalf("ImportAll() error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want one task per user", total)
	}

	var tasks int64
	db.Model(&models.Item{}).Where("source_ref = ?", "acme/api#1").Count(&tasks)
	if tasks != 2 {
		t.Errorf("task rows = %d, want 2 (dedup is per user)", tasks)
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		in      string
		owner   string
		name    string
		wantErr bool
	}{
		{in: "acme/api", owner: "acme", name: "api"},
		{in: "acme/nested/path", owner: "acme", name: "nested/path"},
		{in: "acme", wantErr: true},
		{in: "/api", wantErr: true},
		{in: "acme/", wantErr: true},
	}

	for _, tt := range tests {
		owner, name, err := splitRepo(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitRepo(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitRepo(%q) error: %v", tt.in, err)
			continue
		}
		if owner != tt.owner || name != tt.name {
			t.Errorf("splitRepo(%q) = %q, %q", tt.in, owner, name)
		}
	}
}

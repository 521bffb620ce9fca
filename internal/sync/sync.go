// Package sync turns open YouTrack sprint issues into Todo tasks.
package sync

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"youtrack_sync/internal/logger"
	"youtrack_sync/internal/model"
	"youtrack_sync/internal/service/youtrack"
	"youtrack_sync/internal/storage"
)

// Summary reports what a sync run created (or would have created in dry-run
// mode). Titles appear in the order the tracker returned the issues.
type Summary struct {
	OpenIssuesTotal int      `json:"open_issues_total"`
	Created         int      `json:"created"`
	SkippedExisting int      `json:"skipped_existing"`
	DryRun          bool     `json:"dry_run"`
	CreatedTitles   []string `json:"created_titles"`
}

// Options are the parameters of one sync invocation
type Options struct {
	ProjectID  uuid.UUID
	BaseURL    *url.URL
	Token      string
	AgileID    string
	SprintID   string
	StateField string
	OpenValue  string
	DryRun     bool
}

// Syncer runs the synchronization against a task store. It is the single
// entry point shared by the CLI and the HTTP handler.
type Syncer struct {
	store storage.TaskStore
}

// NewSyncer creates a Syncer backed by the given task store
func NewSyncer(store storage.TaskStore) *Syncer {
	return &Syncer{store: store}
}

// Run fetches all sprint issues, filters the open ones and creates a Todo
// task for each that has no existing task with the same title prefix.
// Processing is sequential and stops at the first error; tasks created
// before the failure stay committed.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Summary, error) {
	base := youtrack.NormalizeBase(opts.BaseURL)
	client := youtrack.NewClient(opts.Token)

	issues, err := client.FetchSprintIssues(ctx, base, opts.AgileID, opts.SprintID)
	if err != nil {
		return nil, err
	}

	var openIssues []model.Issue
	for _, issue := range issues {
		if youtrack.IsOpen(&issue, opts.StateField, opts.OpenValue) {
			openIssues = append(openIssues, issue)
		}
	}

	logger.GetLogger().Info("fetched sprint issues",
		zap.String("agile_id", opts.AgileID),
		zap.String("sprint_id", opts.SprintID),
		zap.Int("total", len(issues)),
		zap.Int("open", len(openIssues)))

	summary := &Summary{
		OpenIssuesTotal: len(openIssues),
		DryRun:          opts.DryRun,
		CreatedTitles:   make([]string, 0, len(openIssues)),
	}

	for i := range openIssues {
		if err := s.materialize(ctx, base, &openIssues[i], opts, summary); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// materialize deduplicates one open issue against the store and creates its
// task unless the run is a dry run
func (s *Syncer) materialize(ctx context.Context, base *url.URL, issue *model.Issue, opts Options, summary *Summary) error {
	prefix := TitlePrefix(issue.IDReadable)

	existing, err := s.store.FindByProjectAndTitlePrefix(ctx, opts.ProjectID, prefix)
	if err != nil {
		return fmt.Errorf("%w: task lookup for %s failed: %v", model.ErrStore, issue.IDReadable, err)
	}
	if existing != nil {
		summary.SkippedExisting++
		return nil
	}

	description := buildDescription(base, issue)
	title := prefix + issue.Summary

	if opts.DryRun {
		summary.Created++
		summary.CreatedTitles = append(summary.CreatedTitles, title)
		return nil
	}

	payload := &model.CreateTask{
		ProjectID:   opts.ProjectID,
		Title:       title,
		Description: &description,
		Status:      model.StatusTodo,
	}
	if _, err := s.store.CreateTask(ctx, payload, uuid.New()); err != nil {
		return fmt.Errorf("%w: task creation for %s failed: %v", model.ErrStore, issue.IDReadable, err)
	}

	summary.Created++
	summary.CreatedTitles = append(summary.CreatedTitles, title)
	return nil
}

// TitlePrefix derives the dedup key embedded in every created task title
func TitlePrefix(idReadable string) string {
	return "[" + idReadable + "] "
}

// buildDescription renders the task body: a link line to the issue, then a
// blank line and the raw issue description when one is present
func buildDescription(base *url.URL, issue *model.Issue) string {
	var b strings.Builder
	b.WriteString("YouTrack: ")
	b.WriteString(youtrack.IssueURL(base, issue.IDReadable).String())
	b.WriteString("\n")
	if strings.TrimSpace(issue.Description) != "" {
		b.WriteString("\n")
		b.WriteString(issue.Description)
	}
	return b.String()
}

package youtrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack_sync/internal/model"
)

// pagedTracker serves synthetic sprint issue pages of the given sizes and
// records every request it sees
type pagedTracker struct {
	t         *testing.T
	pageSizes []int
	requests  int
	skips     []int
	auths     []string
}

func (pt *pagedTracker) handler(w http.ResponseWriter, r *http.Request) {
	pt.requests++
	pt.auths = append(pt.auths, r.Header.Get("Authorization"))

	assert.Equal(pt.t, "/api/agiles/65-52/sprints/66-155467/issues", r.URL.Path)
	assert.Equal(pt.t, "100", r.URL.Query().Get("$top"))
	assert.Equal(pt.t, "idReadable,summary,description,customFields(name,value(name))",
		r.URL.Query().Get("fields"))

	skip, err := strconv.Atoi(r.URL.Query().Get("$skip"))
	require.NoError(pt.t, err)
	pt.skips = append(pt.skips, skip)

	page := skip / 100
	count := 0
	if page < len(pt.pageSizes) {
		count = pt.pageSizes[page]
	}

	issues := make([]map[string]any, count)
	for i := range issues {
		issues[i] = map[string]any{
			"idReadable":   fmt.Sprintf("ABC-%d", skip+i+1),
			"summary":      fmt.Sprintf("issue %d", skip+i+1),
			"customFields": []any{},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(issues)
}

func fetchAll(t *testing.T, pageSizes []int) (*pagedTracker, []model.Issue) {
	t.Helper()
	tracker := &pagedTracker{t: t, pageSizes: pageSizes}
	srv := httptest.NewServer(http.HandlerFunc(tracker.handler))
	t.Cleanup(srv.Close)

	base, err := ParseBase(srv.URL)
	require.NoError(t, err)

	issues, err := NewClient("perm:secret").FetchSprintIssues(context.Background(), base, "65-52", "66-155467")
	require.NoError(t, err)
	return tracker, issues
}

// TestFetchSprintIssuesShortLastPage verifies pagination stops at the first
// page smaller than the page size
func TestFetchSprintIssuesShortLastPage(t *testing.T) {
	tracker, issues := fetchAll(t, []int{100, 100, 37})

	assert.Equal(t, 3, tracker.requests)
	assert.Equal(t, []int{0, 100, 200}, tracker.skips)
	assert.Len(t, issues, 237)
	assert.Equal(t, "ABC-1", issues[0].IDReadable)
	assert.Equal(t, "ABC-237", issues[236].IDReadable)
}

// TestFetchSprintIssuesFullLastPage verifies a final page of exactly the
// page size triggers one extra empty request
func TestFetchSprintIssuesFullLastPage(t *testing.T) {
	tracker, issues := fetchAll(t, []int{100, 100, 100})

	assert.Equal(t, 4, tracker.requests)
	assert.Equal(t, []int{0, 100, 200, 300}, tracker.skips)
	assert.Len(t, issues, 300)
}

// TestFetchSprintIssuesEmptySprint verifies a single empty page terminates
func TestFetchSprintIssuesEmptySprint(t *testing.T) {
	tracker, issues := fetchAll(t, nil)

	assert.Equal(t, 1, tracker.requests)
	assert.Empty(t, issues)
}

// TestFetchSprintIssuesBearerToken verifies every request is authenticated
func TestFetchSprintIssuesBearerToken(t *testing.T) {
	tracker, _ := fetchAll(t, []int{100, 5})

	require.Len(t, tracker.auths, 2)
	for _, auth := range tracker.auths {
		assert.Equal(t, "Bearer perm:secret", auth)
	}
}

// TestFetchSprintIssuesErrorStatus verifies a non-success status aborts the
// fetch as an upstream error without leaking the token
func TestFetchSprintIssuesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	base, err := ParseBase(srv.URL)
	require.NoError(t, err)

	_, err = NewClient("perm:secret").FetchSprintIssues(context.Background(), base, "65-52", "66-155467")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstream), "expected upstream error, got %v", err)
	assert.NotContains(t, err.Error(), "perm:secret")
}

// TestFetchSprintIssuesBadBody verifies an undecodable body is a decode error
func TestFetchSprintIssuesBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"object"}`))
	}))
	defer srv.Close()

	base, err := ParseBase(srv.URL)
	require.NoError(t, err)

	_, err = NewClient("perm:secret").FetchSprintIssues(context.Background(), base, "65-52", "66-155467")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDecode), "expected decode error, got %v", err)
}

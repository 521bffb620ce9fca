package youtrack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack_sync/internal/model"
)

// TestParseBoardURL verifies base/agile/sprint extraction from pasted URLs
func TestParseBoardURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantBase   string
		wantAgile  string
		wantSprint string
	}{
		{
			name:       "board url with query",
			url:        "https://host/youtrack/agiles/65-52/66-155467?x=1",
			wantBase:   "https://host/youtrack/",
			wantAgile:  "65-52",
			wantSprint: "66-155467",
		},
		{
			name:       "agiles at path root",
			url:        "https://track.example.com/agiles/1-1/2-2",
			wantBase:   "https://track.example.com/",
			wantAgile:  "1-1",
			wantSprint: "2-2",
		},
		{
			name:       "deep prefix path",
			url:        "https://host/a/b/agiles/65-52/66-9#tab",
			wantBase:   "https://host/a/b/",
			wantAgile:  "65-52",
			wantSprint: "66-9",
		},
		{
			name:       "agiles segment is case-insensitive",
			url:        "https://host/youtrack/Agiles/65-52/66-155467",
			wantBase:   "https://host/youtrack/",
			wantAgile:  "65-52",
			wantSprint: "66-155467",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, agileID, sprintID, err := ParseBoardURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, base.String())
			assert.Equal(t, tt.wantAgile, agileID)
			assert.Equal(t, tt.wantSprint, sprintID)
		})
	}
}

// TestParseBoardURLInvalid verifies malformed URLs fail as invalid input
func TestParseBoardURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "no agiles segment", url: "https://host/youtrack/boards/65-52/66-155467"},
		{name: "missing sprint id", url: "https://host/youtrack/agiles/65-52"},
		{name: "missing both ids", url: "https://host/youtrack/agiles"},
		{name: "not a url", url: "://nope"},
		{name: "relative path", url: "/youtrack/agiles/65-52/66-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseBoardURL(tt.url)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), "expected invalid input, got %v", err)
		})
	}
}

// TestParseBase verifies the direct-input path yields the same normalized base
func TestParseBase(t *testing.T) {
	base, err := ParseBase("https://host/youtrack")
	require.NoError(t, err)
	assert.Equal(t, "https://host/youtrack/", base.String())

	base, err = ParseBase("https://host/youtrack/")
	require.NoError(t, err)
	assert.Equal(t, "https://host/youtrack/", base.String())

	// equivalent to the board-url path
	fromBoard, _, _, err := ParseBoardURL("https://host/youtrack/agiles/65-52/66-155467")
	require.NoError(t, err)
	assert.Equal(t, base.String(), fromBoard.String())

	_, err = ParseBase("not a url")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

// TestIssueURL verifies the canonical issue link derivation
func TestIssueURL(t *testing.T) {
	base, err := ParseBase("https://host/yt/")
	require.NoError(t, err)
	assert.Equal(t, "https://host/yt/issue/ABC-1", IssueURL(base, "ABC-1").String())
}

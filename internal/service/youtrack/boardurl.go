// Package youtrack implements the small slice of the YouTrack REST API this
// service needs: resolving board URLs and fetching sprint issues.
package youtrack

import (
	"fmt"
	"net/url"
	"strings"

	"youtrack_sync/internal/model"
)

// ParseBase parses a YouTrack base URL supplied directly and normalizes it
// to end with a trailing slash.
func ParseBase(raw string) (*url.URL, error) {
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid YouTrack base URL %q", model.ErrInvalidInput, raw)
	}
	return NormalizeBase(base), nil
}

// NormalizeBase returns a copy of base whose path ends with a trailing slash
func NormalizeBase(base *url.URL) *url.URL {
	normalized := *base
	if !strings.HasSuffix(normalized.Path, "/") {
		normalized.Path += "/"
	}
	return &normalized
}

// ParseBoardURL derives (base URL, agile id, sprint id) from a pasted board
// URL like https://host/youtrack/agiles/65-52/66-155467?tab=chart. The base
// is everything before the "agiles" segment with query and fragment
// stripped; the two segments after it are the agile and sprint ids.
func ParseBoardURL(boardURL string) (*url.URL, string, string, error) {
	parsed, err := url.Parse(boardURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, "", "", fmt.Errorf("%w: invalid YouTrack board URL %q", model.ErrInvalidInput, boardURL)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	agilesIndex := -1
	for i, segment := range segments {
		if strings.EqualFold(segment, "agiles") {
			agilesIndex = i
			break
		}
	}
	if agilesIndex < 0 {
		return nil, "", "", fmt.Errorf("%w: board URL must contain '/agiles/{agileId}/{sprintId}'", model.ErrInvalidInput)
	}

	if agilesIndex+1 >= len(segments) || segments[agilesIndex+1] == "" {
		return nil, "", "", fmt.Errorf("%w: missing agile id segment", model.ErrInvalidInput)
	}
	agileID := segments[agilesIndex+1]

	if agilesIndex+2 >= len(segments) || segments[agilesIndex+2] == "" {
		return nil, "", "", fmt.Errorf("%w: missing sprint id segment", model.ErrInvalidInput)
	}
	sprintID := segments[agilesIndex+2]

	base := *parsed
	prefix := "/"
	if agilesIndex > 0 {
		prefix += strings.Join(segments[:agilesIndex], "/") + "/"
	}
	base.Path = prefix
	base.RawQuery = ""
	base.Fragment = ""

	return NormalizeBase(&base), agileID, sprintID, nil
}

// IssueURL joins the normalized base URL with the issue's canonical path
func IssueURL(base *url.URL, idReadable string) *url.URL {
	return base.JoinPath("issue", idReadable)
}

// Package version checks GitHub releases for a newer smartsearch build.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	modulePath   = "github.com/smhrd/smartsearch"
	checkTimeout = 5 * time.Second
)

// ReleaseURL is the latest-release endpoint. Tests point it at a local server.
var ReleaseURL = "https://api.github.com/repos/smhrd/smartsearch/releases/latest"

// Release is the part of the GitHub release payload that is read
type Release struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
}

type CheckResult struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version,omitempty"`
	UpdateURL      string `json:"update_url,omitempty"`
	HasUpdate      bool   `json:"has_update"`
	Error          error  `json:"-"`
}

// Check compares current with the latest release. Development builds are
// reported as up to date without a request.
func Check(ctx context.Context, current string) CheckResult {
	res := CheckResult{CurrentVersion: current}
	if IsDevelopmentVersion(current) {
		return res
	}
	rel, err := fetchLatest(ctx)
	if err != nil {
		res.Error = err
		return res
	}
	res.LatestVersion = rel.TagName
	res.UpdateURL = rel.HTMLURL
	res.HasUpdate = isNewer(rel.TagName, current)
	return res
}

func fetchLatest(ctx context.Context) (Release, error) {
	var rel Release
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleaseURL, nil)
	if err != nil {
		return rel, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return rel, fmt.Errorf("release check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return rel, fmt.Errorf("release check: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, fmt.Errorf("decode release: %w", err)
	}
	return rel, nil
}

// IsDevelopmentVersion reports whether v is a local or untagged build
func IsDevelopmentVersion(v string) bool {
	switch v {
	case "", "unknown", "dev", "devel":
		return true
	}
	return strings.HasPrefix(v, "devel+")
}

// tagPattern accepts v1.2.3 and v1.2.3-rc.1 style tags only, so the install
// line never carries shell syntax
var tagPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[a-zA-Z0-9]+([.-][a-zA-Z0-9]+)*)?$`)

// UpdateCommand returns the go install line for tag, or "" for anything that
// is not a plain semver tag.
func UpdateCommand(tag string) string {
	if !tagPattern.MatchString(tag) {
		return ""
	}
	return fmt.Sprintf(`go install -ldflags "-X main.Version=%s" %s@%s`, tag, modulePath, tag)
}

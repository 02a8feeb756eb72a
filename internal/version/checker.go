package version

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// UpdateAvailableMsg is sent when a newer release exists.
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
	UpdateCommand  string
}

// Cached returns the cached or freshly fetched check. Failed fetches are
// not cached.
func Cached(ctx context.Context, currentVersion string) CheckResult {
	if e, err := LoadCache(); err == nil && IsCacheValid(e, currentVersion) {
		return CheckResult{
			CurrentVersion: currentVersion,
			LatestVersion:  e.LatestVersion,
			HasUpdate:      e.HasUpdate,
		}
	}

	result := Check(ctx, currentVersion)
	if result.Error == nil && !IsDevelopmentVersion(currentVersion) {
		_ = SaveCache(&CacheEntry{
			LatestVersion:  result.LatestVersion,
			CurrentVersion: currentVersion,
			CheckedAt:      time.Now(),
			HasUpdate:      result.HasUpdate,
		})
	}
	return result
}

// CheckAsync is the Bubble Tea command form of Cached. It yields nil when
// there is nothing to report.
func CheckAsync(currentVersion string) tea.Cmd {
	return func() tea.Msg {
		result := Cached(context.Background(), currentVersion)
		if !result.HasUpdate {
			return nil
		}
		return UpdateAvailableMsg{
			CurrentVersion: currentVersion,
			LatestVersion:  result.LatestVersion,
			UpdateCommand:  UpdateCommand(result.LatestVersion),
		}
	}
}

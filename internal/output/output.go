// Package output provides styled terminal output helpers (success, error,
// warning, file and folder formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/smhrd/smartsearch/internal/models"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	favoriteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	checkStyles    = map[models.CheckState]lipgloss.Style{
		models.CheckChecked:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		models.CheckIndeterminate: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		models.CheckUnchecked:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeConflict      = "conflict"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeDatabaseError = "database_error"
	ErrCodeNetworkError  = "network_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// CheckBox renders a tri-state checkbox
func CheckBox(s models.CheckState) string {
	var box string
	switch s {
	case models.CheckChecked:
		box = "[x]"
	case models.CheckIndeterminate:
		box = "[-]"
	default:
		box = "[ ]"
	}
	return checkStyles[s].Render(box)
}

// Chevron renders the expand marker for a folder with children
func Chevron(n *models.FolderNode) string {
	if len(n.SubFolders) == 0 {
		return " "
	}
	if n.IsExpanded {
		return "▾"
	}
	return "▸"
}

// FormatFolderRow formats one explorer row: indent, chevron, checkbox, icon,
// name and the file count
func FormatFolderRow(n *models.FolderNode, depth int, state models.CheckState) string {
	return fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat("  ", depth),
		Chevron(n),
		CheckBox(state),
		n.Icon,
		n.Name,
		subtleStyle.Render(fmt.Sprintf("(%s · %d)", n.ID, len(n.Files))),
	)
}

// FavoriteMark renders the star for favorite files
func FavoriteMark(fav bool) string {
	if fav {
		return favoriteStyle.Render("★")
	}
	return " "
}

// FormatFileShort formats a file as a single line, truncated to width when
// width is positive
func FormatFileShort(f models.FileRecord, width int) string {
	line := fmt.Sprintf("%s %-3s %s %s  %s",
		FavoriteMark(f.IsFavorite),
		f.ID,
		f.Icon,
		titleStyle.Render(f.Name),
		subtleStyle.Render(fmt.Sprintf("%s · %s · %s", f.Type, f.ModifiedBy, f.Modified)),
	)
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

// FormatFileLong formats the preview card for a file
func FormatFileLong(f models.FileRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s %s\n", f.Icon, titleStyle.Render(f.Name), FavoriteMark(f.IsFavorite)))
	rows := [][2]string{
		{"Type", f.Type},
		{"Size", f.Size},
		{"Modified", f.Modified},
		{"Author", f.ModifiedBy},
		{"Path", f.Path},
		{"ID", f.ID},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %-9s %s\n", r[0]+":", r[1]))
	}
	return sb.String()
}

// FormatScoredFile formats a search hit with its score
func FormatScoredFile(f models.FileRecord, score, width int) string {
	return FormatFileShort(f, width-6) + subtleStyle.Render(fmt.Sprintf(" [%d]", score))
}

// ConnectionBadge renders a key's connection state
func ConnectionBadge(connected bool) string {
	if connected {
		return connectedStyle.Render("● connected")
	}
	return subtleStyle.Render("○ disconnected")
}

// FormatAPIKey formats an API key line; lastUsed is the already resolved label
func FormatAPIKey(k models.APIKey, lastUsed string) string {
	return fmt.Sprintf("%-14s %s  %s  %s  %s",
		k.ID,
		titleStyle.Render(k.Name),
		k.MaskedKey,
		ConnectionBadge(k.IsConnected),
		subtleStyle.Render("created "+k.Created+", last used "+lastUsed),
	)
}

// FormatMessage formats a chat message for plain CLI output
func FormatMessage(m models.ChatMessage) string {
	who := "you"
	if m.Type == models.MessageBot {
		who = "bot"
	}
	return fmt.Sprintf("%s %s %s",
		subtleStyle.Render(m.Timestamp.Format("15:04")),
		titleStyle.Render(who+":"),
		m.Content,
	)
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nFAVORITES:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	return strings.Join(IndentLines(strings.Split(s, "\n"), spaces), "\n")
}

package output

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/smhrd/smartsearch/internal/models"
)

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{2 * time.Minute, "2m ago"},
		{5 * time.Hour, "5h ago"},
		{3 * 24 * time.Hour, "3d ago"},
	}
	for _, tc := range tests {
		if got := FormatTimeAgo(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}

	old := time.Now().Add(-30 * 24 * time.Hour)
	if got := FormatTimeAgo(old); got != old.Format("2006-01-02") {
		t.Errorf("FormatTimeAgo(old) = %q", got)
	}
}

func TestCheckBox(t *testing.T) {
	tests := map[models.CheckState]string{
		models.CheckChecked:       "[x]",
		models.CheckIndeterminate: "[-]",
		models.CheckUnchecked:     "[ ]",
	}
	for state, want := range tests {
		if got := ansi.Strip(CheckBox(state)); got != want {
			t.Errorf("CheckBox(%s) = %q, want %q", state, got, want)
		}
	}
}

func TestFormatFolderRow(t *testing.T) {
	n := &models.FolderNode{
		ID:         "reports",
		Name:       "보고서",
		Icon:       "📊",
		IsExpanded: true,
		Files:      []models.FileRecord{{ID: "1"}},
		SubFolders: []*models.FolderNode{{ID: "quarterly"}},
	}
	got := ansi.Strip(FormatFolderRow(n, 1, models.CheckIndeterminate))
	want := "  ▾ [-] 📊 보고서 (reports · 1)"
	if got != want {
		t.Errorf("FormatFolderRow = %q, want %q", got, want)
	}

	n.IsExpanded = false
	if !strings.Contains(ansi.Strip(FormatFolderRow(n, 0, models.CheckUnchecked)), "▸") {
		t.Error("collapsed folder should show ▸")
	}
	leaf := &models.FolderNode{ID: "hr", Name: "인사관리"}
	if strings.ContainsAny(ansi.Strip(FormatFolderRow(leaf, 0, models.CheckChecked)), "▸▾") {
		t.Error("leaf folder should have no chevron")
	}
}

func TestFormatFileShortTruncates(t *testing.T) {
	f := models.FileRecord{ID: "1", Name: "2024년 분기별 매출 보고서.xlsx", Type: "Excel", ModifiedBy: "김매니저", Modified: "2시간 전", IsFavorite: true}

	full := ansi.Strip(FormatFileShort(f, 0))
	if !strings.Contains(full, "★") || !strings.Contains(full, "김매니저") {
		t.Errorf("FormatFileShort = %q", full)
	}

	short := FormatFileShort(f, 20)
	if w := ansi.StringWidth(short); w > 20 {
		t.Errorf("truncated width = %d, want <= 20", w)
	}
}

func TestFormatFileLong(t *testing.T) {
	f := models.FileRecord{ID: "7", Name: "회사 규정집.pdf", Type: "PDF", Size: "4.1 MB", Path: "/hr/regulations.pdf"}
	got := ansi.Strip(FormatFileLong(f))
	for _, want := range []string{"회사 규정집.pdf", "Size:     4.1 MB", "Path:     /hr/regulations.pdf"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatFileLong missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatAPIKey(t *testing.T) {
	k := models.APIKey{ID: "1", Name: "개발팀 Dooray 키", MaskedKey: "dk_***************cdef", Created: "2024-03-15", IsConnected: true}
	got := ansi.Strip(FormatAPIKey(k, "2시간 전"))
	for _, want := range []string{"dk_***************cdef", "● connected", "last used 2시간 전"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatAPIKey missing %q in %q", want, got)
		}
	}
}

func TestIndentString(t *testing.T) {
	if got := IndentString("a\nb", 2); got != "  a\n  b" {
		t.Errorf("IndentString = %q", got)
	}
	if got := IndentString("", 2); got != "" {
		t.Errorf("IndentString(empty) = %q", got)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	out, err := RenderMarkdownWithWidth("   ", 40)
	if err != nil || out != "" {
		t.Errorf("empty markdown = %q, %v", out, err)
	}
	out, err = RenderMarkdownStyled("# 도움말", 40, true)
	if err != nil || !strings.Contains(ansi.Strip(out), "도움말") {
		t.Errorf("styled markdown = %q, %v", out, err)
	}
}

func TestRenderMarkdownReusesRenderer(t *testing.T) {
	if _, err := RenderMarkdownStyled("*a*", 33, false); err != nil {
		t.Fatal(err)
	}
	renderers.Lock()
	n := len(renderers.m)
	renderers.Unlock()

	RenderMarkdownStyled("*b*", 33, false)
	renderers.Lock()
	defer renderers.Unlock()
	if len(renderers.m) != n {
		t.Errorf("renderer cache grew from %d to %d on the same key", n, len(renderers.m))
	}
	if _, ok := renderers.m[rendererKey{"light", 33}]; !ok {
		t.Error("light/33 renderer not cached")
	}
}

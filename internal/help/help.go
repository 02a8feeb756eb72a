// Package help holds the in-app guide and the onboarding steps.
package help

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/smhrd/smartsearch/internal/output"
)

//go:embed sections/*.md
var sectionFS embed.FS

// Section is one page of the help guide.
type Section struct {
	ID       string
	Title    string
	Markdown string
}

// Step is one onboarding page.
type Step struct {
	Title       string
	Description string
	Icon        string
	Features    []string
}

// Steps are shown in order after a first login or signup.
var Steps = []Step{
	{
		Title:       "Smart Search에 오신 것을 환영합니다!",
		Description: "AI 기반 파일 검색으로 업무 효율성을 높여보세요",
		Icon:        "✨",
		Features:    []string{"지능형 문서 검색", "자연어 쿼리 지원", "실시간 채팅 인터페이스"},
	},
	{
		Title:       "강력한 AI 검색 엔진",
		Description: "문서의 내용을 이해하고 정확한 결과를 제공합니다",
		Icon:        "🔍",
		Features:    []string{"의미 기반 검색", "다양한 파일 형식 지원", "빠른 검색 결과"},
	},
	{
		Title:       "스마트 채팅 인터페이스",
		Description: "AI 어시스턴트와 대화하듯 파일을 찾아보세요",
		Icon:        "💬",
		Features:    []string{"자연어 대화", "상황별 추천", "학습하는 AI"},
	},
	{
		Title:       "보안과 개인정보 보호",
		Description: "기업급 보안으로 데이터를 안전하게 보호합니다",
		Icon:        "🛡",
		Features:    []string{"엔드투엔드 암호화", "접근 권한 관리", "GDPR 준수"},
	},
}

// Sections returns the guide pages in display order.
func Sections() []Section {
	names, _ := fs.Glob(sectionFS, "sections/*.md")
	sort.Strings(names)

	out := make([]Section, 0, len(names))
	for _, name := range names {
		data, err := sectionFS.ReadFile(name)
		if err != nil {
			continue
		}
		out = append(out, parseSection(name, string(data)))
	}
	return out
}

// parseSection takes the ID from the file name after its "NN-" prefix and
// the title from the first heading.
func parseSection(name, md string) Section {
	id := strings.TrimSuffix(path.Base(name), ".md")
	if i := strings.IndexByte(id, '-'); i >= 0 {
		id = id[i+1:]
	}
	title := id
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}
	return Section{ID: id, Title: title, Markdown: md}
}

// Find returns the section with id.
func Find(id string) (Section, bool) {
	for _, s := range Sections() {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// IDs lists section IDs in display order.
func IDs() []string {
	secs := Sections()
	ids := make([]string, len(secs))
	for i, s := range secs {
		ids[i] = s.ID
	}
	return ids
}

// StepMarkdown renders onboarding step i (0-based) as markdown.
func StepMarkdown(i int) string {
	if i < 0 || i >= len(Steps) {
		return ""
	}
	s := Steps[i]
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n%s\n\n", s.Icon, s.Title, s.Description)
	for _, f := range s.Features {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	fmt.Fprintf(&b, "\n_%d / %d_\n", i+1, len(Steps))
	return b.String()
}

// Render renders a section for a terminal of the given width.
func Render(s Section, width int, dark bool) (string, error) {
	return output.RenderMarkdownStyled(s.Markdown, width, dark)
}

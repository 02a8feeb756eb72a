package help

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsOrderAndTitles(t *testing.T) {
	assert.Equal(t,
		[]string{"overview", "profile", "preferences", "security", "data", "troubleshooting", "shortcuts"},
		IDs())

	s, ok := Find("security")
	require.True(t, ok)
	assert.Equal(t, "보안 설정", s.Title)
	assert.Contains(t, s.Markdown, "Dooray")

	_, ok = Find("nope")
	assert.False(t, ok)
}

func TestParseSectionWithoutHeading(t *testing.T) {
	s := parseSection("sections/09-extra.md", "plain text")
	assert.Equal(t, "extra", s.ID)
	assert.Equal(t, "extra", s.Title)
}

func TestSteps(t *testing.T) {
	require.Len(t, Steps, 4)
	for i := range Steps {
		md := StepMarkdown(i)
		assert.Contains(t, md, Steps[i].Title)
		assert.Equal(t, len(Steps[i].Features), strings.Count(md, "\n- "))
	}
	assert.Contains(t, StepMarkdown(3), "4 / 4")
	assert.Empty(t, StepMarkdown(4))
	assert.Empty(t, StepMarkdown(-1))
}

func TestRender(t *testing.T) {
	s, _ := Find("overview")
	out, err := Render(s, 60, true)
	require.NoError(t, err)
	assert.Contains(t, out, "개요")
}

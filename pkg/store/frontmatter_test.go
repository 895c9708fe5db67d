package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, p *Progress)
	}{
		{
			name: "full frontmatter with body",
			input: `---
mode: year
year: 2026
updated: 2026-02-08T14:30:00Z
done:
  - 365-0-2
  - 365-0-1
---

Notes from the group.
`,
			check: func(t *testing.T, p *Progress) {
				assert.Equal(t, "year", p.Mode)
				assert.Equal(t, 2026, p.Year)
				assert.Equal(t, []string{"365-0-1", "365-0-2"}, p.IDs())
				assert.Equal(t, time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC), p.Updated.UTC())
				assert.Contains(t, p.Body, "Notes from the group.")
			},
		},
		{
			name:  "empty done list",
			input: "---\nmode: six_months\ndone: []\n---\n",
			check: func(t *testing.T, p *Progress) {
				assert.Equal(t, "six_months", p.Mode)
				assert.Zero(t, p.Count())
			},
		},
		{
			name:  "blank ids are dropped",
			input: "---\nmode: year\ndone: [\"\", \" 365-0-1 \"]\n---\n",
			check: func(t *testing.T, p *Progress) {
				assert.Equal(t, []string{"365-0-1"}, p.IDs())
			},
		},
		{
			name:  "no frontmatter",
			input: "Just some notes.",
			check: func(t *testing.T, p *Progress) {
				assert.Equal(t, "", p.Mode)
				assert.Equal(t, "Just some notes.", p.Body)
				assert.NotNil(t, p.Done)
			},
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\nmode: year\n",
			wantErr: true,
		},
		{
			name:    "done is not a list",
			input:   "---\ndone:\n  a: b\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProgress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestSerializeProgress(t *testing.T) {
	p := &Progress{
		Mode:    "year",
		Year:    2026,
		Updated: time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC),
		Done:    map[string]bool{"365-1-3": true, "365-0-1": true},
		Body:    "Some notes.",
	}

	content, err := SerializeProgress(p)
	require.NoError(t, err)
	assert.Less(t, strings.Index(content, "365-0-1"), strings.Index(content, "365-1-3"))

	parsed, err := ParseProgress(content)
	require.NoError(t, err)
	assert.Equal(t, p.Mode, parsed.Mode)
	assert.Equal(t, p.Year, parsed.Year)
	assert.Equal(t, p.IDs(), parsed.IDs())
	assert.Equal(t, "Some notes.", parsed.Body)
}


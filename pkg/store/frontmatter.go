package store

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// progressHeader is the YAML frontmatter of a progress file.
type progressHeader struct {
	Mode    string    `yaml:"mode"`
	Year    int       `yaml:"year,omitempty"`
	Updated time.Time `yaml:"updated"`
	Done    []string  `yaml:"done"`
}

// splitFrontmatter separates the YAML block from the markdown body. ok is
// false when content has no frontmatter at all.
func splitFrontmatter(content string) (yamlContent, body string, ok bool, err error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", content, false, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", "", false, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")
	return yamlContent, body, true, nil
}

// ParseProgress parses a progress file. Content without frontmatter is
// kept as the body of an empty record.
func ParseProgress(content string) (*Progress, error) {
	yamlContent, body, ok, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	p := &Progress{Done: make(map[string]bool), Body: body}
	if !ok {
		return p, nil
	}

	var h progressHeader
	if err := yaml.Unmarshal([]byte(yamlContent), &h); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	p.Mode = h.Mode
	p.Year = h.Year
	p.Updated = h.Updated
	for _, id := range h.Done {
		id = strings.TrimSpace(id)
		if id != "" {
			p.Done[id] = true
		}
	}
	return p, nil
}

// SerializeProgress renders a Progress back to markdown with YAML frontmatter.
// Done IDs are written sorted so the file diffs cleanly.
func SerializeProgress(p *Progress) (string, error) {
	h := progressHeader{
		Mode:    p.Mode,
		Year:    p.Year,
		Updated: p.Updated,
		Done:    p.IDs(),
	}
	yamlBytes, err := yaml.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if p.Body != "" {
		b.WriteString("\n")
		b.WriteString(p.Body)
		if !strings.HasSuffix(p.Body, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

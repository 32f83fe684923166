// Package chunker splits markdown knowledge documents into self-contained,
// retrievable passages along heading boundaries.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxChars keeps a chunk small enough for clean retrieval. Oversized
// sections are re-split at paragraph boundaries, never mid-paragraph.
const DefaultMaxChars = 2200

// Chunk is one passage extracted from a document. Heading context is
// re-embedded into Content so the text reads coherently on its own.
type Chunk struct {
	Content      string
	SectionTitle string // nearest heading, "" for leading untitled content
	ParentTitle  string // enclosing level-2 heading for level-3/4 sections
	ChunkIndex   int
	TotalChunks  int
}

var (
	headingRegex   = regexp.MustCompile(`^(#{2,4})\s+(.+?)\s*$`)
	paragraphSplit = regexp.MustCompile(`\n{2,}`)
)

type MarkdownChunker struct {
	maxChars int
}

func NewMarkdownChunker(maxChars int) *MarkdownChunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &MarkdownChunker{maxChars: maxChars}
}

// section is a heading plus the body lines collected up to the next heading.
// level 0 marks leading content before the first heading.
type section struct {
	title       string
	level       int
	body        []string
	parentTitle string
}

func (s section) empty() bool {
	return s.level == 0 && strings.TrimSpace(strings.Join(s.body, "\n")) == ""
}

// Split scans line by line, recognizing level 2-4 headings. Each heading
// starts a new section; a level-2 heading becomes the parent context for the
// level-3/4 headings that follow it.
func (c *MarkdownChunker) Split(md string) []Chunk {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")

	var sections []section
	current := section{}
	parentH2 := ""

	for _, line := range lines {
		m := headingRegex.FindStringSubmatch(line)
		if m == nil {
			current.body = append(current.body, line)
			continue
		}

		level := len(m[1])
		title := strings.TrimSpace(m[2])

		if !current.empty() {
			sections = append(sections, current)
		}

		if level == 2 {
			parentH2 = title
			current = section{title: title, level: level}
		} else {
			current = section{title: title, level: level, parentTitle: parentH2}
		}
	}
	if !current.empty() {
		sections = append(sections, current)
	}

	var raw []Chunk
	for _, s := range sections {
		raw = append(raw, c.sectionChunks(s)...)
	}

	for i := range raw {
		raw[i].ChunkIndex = i
		raw[i].TotalChunks = len(raw)
	}
	return raw
}

// sectionChunks rebuilds the self-describing title line, then re-splits the
// section at paragraph boundaries when it exceeds the character budget.
func (c *MarkdownChunker) sectionChunks(s section) []Chunk {
	body := strings.TrimSpace(strings.Join(s.body, "\n"))

	titleLine := ""
	if s.title != "" {
		switch {
		case s.level == 2:
			titleLine = "## " + s.title + "\n"
		case s.level >= 3 && s.parentTitle != "":
			titleLine = "## " + s.parentTitle + "\n" + strings.Repeat("#", s.level) + " " + s.title + "\n"
		default:
			titleLine = strings.Repeat("#", s.level) + " " + s.title + "\n"
		}
	}

	full := strings.TrimSpace(titleLine + body)
	if full == "" {
		return nil
	}

	if len(full) <= c.maxChars {
		return []Chunk{{Content: full, SectionTitle: s.title, ParentTitle: s.parentTitle}}
	}

	var out []Chunk
	part := 1
	emit := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		out = append(out, Chunk{
			Content:      text,
			SectionTitle: partTitle(s.title, part),
			ParentTitle:  s.parentTitle,
		})
		part++
	}

	buf := ""
	for _, p := range paragraphSplit.Split(full, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch {
		case buf == "":
			buf = p
		case len(buf)+len("\n\n")+len(p) > c.maxChars:
			emit(buf)
			buf = p
		default:
			buf = buf + "\n\n" + p
		}
	}
	emit(buf)

	return out
}

func partTitle(title string, part int) string {
	if title == "" {
		return fmt.Sprintf("part %d", part)
	}
	return fmt.Sprintf("%s (part %d)", title, part)
}

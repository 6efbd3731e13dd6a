// Package docparser reads the structured course document format: a metadata
// header (course title, link, instructor) followed by numbered lesson
// sections.
package docparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Document is one parsed course file.
type Document struct {
	Title      string
	Link       string
	Instructor string
	Sections   []Section
}

// Section is a contiguous block of course text. Lesson is nil for
// course-level text appearing before the first lesson marker.
type Section struct {
	Lesson  *int
	Title   string
	Link    string
	Content string
}

var lessonMarker = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// Parse reads a course document. The expected layout is:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<lesson text...>
//
// Header lines are optional and may appear in any order before the first
// lesson; a file without them falls back to the given default title.
func Parse(raw string, defaultTitle string) *Document {
	doc := &Document{Title: defaultTitle}

	lines := strings.Split(raw, "\n")
	var current *Section
	var buf []string

	flush := func() {
		if current == nil {
			// Course-level text before the first lesson marker.
			content := strings.TrimSpace(strings.Join(buf, "\n"))
			if content != "" {
				doc.Sections = append(doc.Sections, Section{Content: content})
			}
		} else {
			current.Content = strings.TrimSpace(strings.Join(buf, "\n"))
			doc.Sections = append(doc.Sections, *current)
		}
		buf = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if current == nil && len(doc.Sections) == 0 && len(buf) == 0 {
			switch {
			case strings.HasPrefix(trimmed, "Course Title:"):
				doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Title:"))
				continue
			case strings.HasPrefix(trimmed, "Course Link:"):
				doc.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Link:"))
				continue
			case strings.HasPrefix(trimmed, "Course Instructor:"):
				doc.Instructor = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Instructor:"))
				continue
			case trimmed == "":
				continue
			}
		}

		if m := lessonMarker.FindStringSubmatch(trimmed); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &Section{Lesson: &number, Title: strings.TrimSpace(m[2])}
			continue
		}

		if current != nil && len(buf) == 0 && strings.HasPrefix(trimmed, "Lesson Link:") {
			current.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Lesson Link:"))
			continue
		}

		buf = append(buf, line)
	}
	flush()

	return doc
}

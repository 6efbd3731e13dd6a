package docparser

import "testing"

const sampleCourse = `Course Title: Introduction to Python
Course Link: https://example.com/python
Course Instructor: Ada Example

Lesson 0: Welcome
Lesson Link: https://example.com/python/0
Welcome to the course. This lesson covers logistics.

Lesson 1: Python Basics
Python is a programming language that lets you work quickly.
It supports multiple paradigms.

Lesson 2: Data Types
Python has several built-in data types.
`

func TestParseCourseDocument(t *testing.T) {
	doc := Parse(sampleCourse, "fallback")

	if doc.Title != "Introduction to Python" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Link != "https://example.com/python" {
		t.Errorf("Link = %q", doc.Link)
	}
	if doc.Instructor != "Ada Example" {
		t.Errorf("Instructor = %q", doc.Instructor)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("Sections = %d, want 3", len(doc.Sections))
	}

	first := doc.Sections[0]
	if first.Lesson == nil || *first.Lesson != 0 {
		t.Errorf("first section lesson = %v, want 0", first.Lesson)
	}
	if first.Title != "Welcome" {
		t.Errorf("first section title = %q", first.Title)
	}
	if first.Link != "https://example.com/python/0" {
		t.Errorf("first section link = %q", first.Link)
	}
	if first.Content != "Welcome to the course. This lesson covers logistics." {
		t.Errorf("first section content = %q", first.Content)
	}

	second := doc.Sections[1]
	if second.Lesson == nil || *second.Lesson != 1 {
		t.Errorf("second section lesson = %v, want 1", second.Lesson)
	}
	if second.Link != "" {
		t.Errorf("second section link = %q, want empty", second.Link)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	doc := Parse("Just some course notes.\nMore notes.", "My Course")

	if doc.Title != "My Course" {
		t.Errorf("Title = %q, want fallback", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("Sections = %d, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Lesson != nil {
		t.Errorf("course-level section should have nil lesson")
	}
	if doc.Sections[0].Content != "Just some course notes.\nMore notes." {
		t.Errorf("content = %q", doc.Sections[0].Content)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc := Parse("", "Empty")

	if len(doc.Sections) != 0 {
		t.Errorf("empty document should have no sections, got %d", len(doc.Sections))
	}
}

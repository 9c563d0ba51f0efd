// Package catalog holds the course/lesson data the front-end renders. The
// import pipeline and older data files disagree on field names (title vs
// name, lessons vs videos, url vs video), so decoding normalizes every
// record into one canonical shape with a documented precedence:
//
//	course title:  title > name > "Course <id>"
//	lesson list:   lessons > videos
//	lesson title:  title > name > "Lesson <id>"
//	lesson url:    url > video
//
// The catalog is read-only once loaded; lookups never mutate it.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Lesson is one playable unit. URL is handed opaquely to the playback widget.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Notebook    string `json:"notebook,omitempty"`
	Assessment  string `json:"assessment,omitempty"`
}

// Course is an ordered list of lessons.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

type rawLesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Video       string `json:"video"`
	Description string `json:"description"`
	Notebook    string `json:"notebook"`
	Assessment  string `json:"assessment"`
}

type rawCourse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Lessons     []rawLesson `json:"lessons"`
	Videos      []rawLesson `json:"videos"`
}

// UnmarshalJSON applies the package-level normalization precedence.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var raw rawLesson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Lesson{
		ID:          raw.ID,
		Title:       firstNonEmpty(raw.Title, raw.Name, "Lesson "+raw.ID),
		URL:         firstNonEmpty(raw.URL, raw.Video),
		Description: raw.Description,
		Notebook:    raw.Notebook,
		Assessment:  raw.Assessment,
	}
	return nil
}

// UnmarshalJSON applies the package-level normalization precedence.
func (c *Course) UnmarshalJSON(data []byte) error {
	var raw rawCourse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lessons := raw.Lessons
	if lessons == nil {
		lessons = raw.Videos
	}
	*c = Course{
		ID:          raw.ID,
		Title:       firstNonEmpty(raw.Title, raw.Name, "Course "+raw.ID),
		Description: raw.Description,
		Category:    raw.Category,
		Lessons:     normalizeLessons(lessons),
	}
	return nil
}

func normalizeLessons(raws []rawLesson) []Lesson {
	lessons := make([]Lesson, len(raws))
	for i, r := range raws {
		lessons[i] = Lesson{
			ID:          r.ID,
			Title:       firstNonEmpty(r.Title, r.Name, "Lesson "+r.ID),
			URL:         firstNonEmpty(r.URL, r.Video),
			Description: r.Description,
			Notebook:    r.Notebook,
			Assessment:  r.Assessment,
		}
	}
	return lessons
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Catalog is an indexed, ordered collection of courses.
type Catalog struct {
	courses []Course
	byID    map[string]Course
	lessons map[string]Lesson
}

// New builds a catalog from already-normalized courses.
func New(courses []Course) *Catalog {
	c := &Catalog{
		courses: courses,
		byID:    make(map[string]Course, len(courses)),
		lessons: make(map[string]Lesson),
	}
	for _, course := range courses {
		c.byID[course.ID] = course
		for _, lesson := range course.Lessons {
			c.lessons[lesson.ID] = lesson
		}
	}
	return c
}

// Load reads and normalizes a JSON catalog file (the output of the course
// import pipeline).
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var courses []Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(courses), nil
}

// Courses returns the courses in catalog order.
func (c *Catalog) Courses() []Course { return c.courses }

// Course looks a course up by identifier.
func (c *Catalog) Course(id string) (Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Lesson looks a lesson up by identifier across all courses.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	lesson, ok := c.lessons[id]
	return lesson, ok
}

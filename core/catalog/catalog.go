package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/courseadvisor/core/model"
)

var (
	// ErrDuplicateCourse is returned when two offerings share an ID.
	ErrDuplicateCourse = errors.New("duplicate course id")
	// ErrUnknownCourse is returned by Lookup for IDs missing from the catalog.
	ErrUnknownCourse = errors.New("unknown course id")
)

// Catalog is a validated, read-only set of course offerings kept in source
// order.
type Catalog struct {
	courses []model.Course
	byID    map[string]int
}

// New normalises and validates every course and rejects duplicate IDs.
func New(courses ...model.Course) (*Catalog, error) {
	c := &Catalog{
		courses: make([]model.Course, 0, len(courses)),
		byID:    make(map[string]int, len(courses)),
	}
	for _, raw := range courses {
		course, err := model.NewCourse(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCourse, course.ID)
		}
		c.byID[course.ID] = len(c.courses)
		c.courses = append(c.courses, course)
	}
	return c, nil
}

// Courses returns a copy of the offerings in source order.
func (c *Catalog) Courses() []model.Course {
	if c == nil {
		return nil
	}
	return append([]model.Course(nil), c.courses...)
}

// Len returns the number of offerings.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.courses)
}

// Get returns the course with the given ID.
func (c *Catalog) Get(id string) (model.Course, bool) {
	if c == nil {
		return model.Course{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return model.Course{}, false
	}
	return c.courses[i], true
}

// Lookup resolves ids in the given order.
func (c *Catalog) Lookup(ids []string) ([]model.Course, error) {
	out := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		course, ok := c.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCourse, id)
		}
		out = append(out, course)
	}
	return out, nil
}

// Source yields course offerings from some backing store.
type Source interface {
	Courses(ctx context.Context) ([]model.Course, error)
}

// Load reads src once and builds a Catalog from it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(courses...)
}

// Static serves a fixed catalog from memory.
type Static struct {
	cat *Catalog
}

// NewStatic validates courses once at construction.
func NewStatic(courses ...model.Course) (*Static, error) {
	cat, err := New(courses...)
	if err != nil {
		return nil, err
	}
	return &Static{cat: cat}, nil
}

// Courses returns the fixed offerings.
func (s *Static) Courses(context.Context) ([]model.Course, error) {
	return s.cat.Courses(), nil
}

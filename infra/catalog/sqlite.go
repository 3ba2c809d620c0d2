package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	corecatalog "github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/factory"
	"github.com/kilianp07/courseadvisor/core/model"
)

// SQLiteSource reads offerings from a SQLite "courses" table. Days are
// stored comma separated and the meeting time as "HH:MM".
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens or creates the database at path and ensures schema.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS courses (
        course_id TEXT PRIMARY KEY,
        course_name TEXT NOT NULL,
        subject TEXT,
        credits INTEGER NOT NULL,
        professor TEXT,
        time_slot TEXT NOT NULL,
        days TEXT NOT NULL,
        campus TEXT,
        building TEXT,
        room TEXT,
        capacity INTEGER NOT NULL,
        enrolled INTEGER NOT NULL,
        position INTEGER NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteSource{db: db}, nil
}

// Upsert validates c and inserts or replaces it. New rows are appended to
// the catalog order; replaced rows keep their position.
func (s *SQLiteSource) Upsert(ctx context.Context, c model.Course) error {
	course, err := model.NewCourse(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO courses
        (course_id, course_name, subject, credits, professor, time_slot, days, campus, building, room, capacity, enrolled, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM courses))
        ON CONFLICT(course_id) DO UPDATE SET
            course_name = excluded.course_name,
            subject = excluded.subject,
            credits = excluded.credits,
            professor = excluded.professor,
            time_slot = excluded.time_slot,
            days = excluded.days,
            campus = excluded.campus,
            building = excluded.building,
            room = excluded.room,
            capacity = excluded.capacity,
            enrolled = excluded.enrolled`,
		course.ID, course.Name, course.Subject, course.Credits, course.Professor,
		course.TimeSlot.String(), strings.Join(course.Days, ","), course.Campus,
		course.Building, course.Room, course.Capacity, course.Enrolled)
	return err
}

// Delete removes the course with the given ID.
func (s *SQLiteSource) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = ?`, id)
	return err
}

// Courses returns every row in insertion order.
func (s *SQLiteSource) Courses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id, course_name, subject, credits, professor,
        time_slot, days, campus, building, room, capacity, enrolled FROM courses ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Course
	for rows.Next() {
		var (
			c          model.Course
			slot, days string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.Credits, &c.Professor,
			&slot, &days, &c.Campus, &c.Building, &c.Room, &c.Capacity, &c.Enrolled); err != nil {
			return nil, err
		}
		if c.TimeSlot, err = model.ParseTimeOfDay(slot); err != nil {
			return nil, fmt.Errorf("course %s: %w", c.ID, err)
		}
		c.Days = strings.Split(days, ",")
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteSource) Close() error { return s.db.Close() }

func init() {
	_ = corecatalog.RegisterSource("sqlite", func(conf map[string]any) (corecatalog.Source, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite catalog: path is required")
		}
		return NewSQLiteSource(c.Path)
	})
}

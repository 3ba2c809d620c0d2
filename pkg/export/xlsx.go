package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/courseadvisor/core/model"
)

const sheetName = "Schedule"

// WriteXLSX writes a weekly grid: one row per start time, one column per
// weekday, each cell naming the course and its location.
func WriteXLSX(w io.Writer, s *model.Schedule) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	last := colName(len(model.Weekdays))
	if err := f.SetColWidth(sheetName, "A", "A", 12); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", last, 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A1", "Time"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, d := range model.Weekdays {
		if err := f.SetCellValue(sheetName, cell(colName(i+1), 1), d); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", cell(last, 1), header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	var courses []model.Course
	if s != nil {
		courses = s.Courses
	}
	slots := startTimes(courses)
	rowOf := make(map[model.TimeOfDay]int, len(slots))
	for i, t := range slots {
		row := i + 2
		rowOf[t] = row
		if err := f.SetCellValue(sheetName, cell("A", row), t.Format12h()); err != nil {
			return fmt.Errorf("write time %s: %w", t, err)
		}
	}
	for _, c := range courses {
		for _, d := range c.Days {
			col := model.WeekdayIndex(d)
			if col < 0 {
				continue
			}
			ref := cell(colName(col+1), rowOf[c.TimeSlot])
			text := fmt.Sprintf("%s (%s)\n%s", c.Name, c.ID, c.Location())
			prev, err := f.GetCellValue(sheetName, ref)
			if err != nil {
				return fmt.Errorf("read %s: %w", ref, err)
			}
			if prev != "" {
				text = prev + "\n" + text
			}
			if err := f.SetCellValue(sheetName, ref, text); err != nil {
				return fmt.Errorf("write %s for %s: %w", ref, c.ID, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func startTimes(courses []model.Course) []model.TimeOfDay {
	seen := map[model.TimeOfDay]bool{}
	var out []model.TimeOfDay
	for _, c := range courses {
		if !seen[c.TimeSlot] {
			seen[c.TimeSlot] = true
			out = append(out, c.TimeSlot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Minutes() < out[j].Minutes() })
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

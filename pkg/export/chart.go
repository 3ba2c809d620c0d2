package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/recommend"
)

// WriteLoadChart renders an HTML bar chart of classes per weekday. Weekend
// columns only appear when a class meets on a weekend.
func WriteLoadChart(w io.Writer, s recommend.Summary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Weekly Load",
			Subtitle: fmt.Sprintf("%d credits", s.TotalCredits),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Classes"}),
	)

	days := model.Weekdays[:5]
	if len(s.Daily["Saturday"]) > 0 || len(s.Daily["Sunday"]) > 0 {
		days = model.Weekdays
	}
	classes := make([]opts.BarData, 0, len(days))
	for _, d := range days {
		classes = append(classes, opts.BarData{Value: len(s.Daily[d])})
	}
	bar.SetXAxis(days).AddSeries("Classes", classes)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

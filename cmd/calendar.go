package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courseadvisor/core/calendar"
	"github.com/kilianp07/courseadvisor/pkg/export"
)

var calendarOpts struct {
	start   string
	courses []string
	output  string
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Export the term's class meetings as an iCalendar file",
	RunE:  runCalendar,
}

func init() {
	f := calendarCmd.Flags()
	f.StringVar(&calendarOpts.start, "start", "", "semester start date (YYYY-MM-DD)")
	f.StringSliceVar(&calendarOpts.courses, "courses", nil, "comma separated course ids")
	f.StringVarP(&calendarOpts.output, "output", "o", "", "output file, stdout when empty")
	_ = calendarCmd.MarkFlagRequired("start")
	_ = calendarCmd.MarkFlagRequired("courses")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(calendarOpts.courses))
	for _, id := range calendarOpts.courses {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return errors.New("no course ids given")
	}
	courses, err := cat.Lookup(ids)
	if err != nil {
		return err
	}
	events, err := calendar.Build(courses, calendarOpts.start, cfg.Calendar.Options())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if calendarOpts.output != "" {
		f, err := os.Create(calendarOpts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", calendarOpts.output, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteICS(w, events); err != nil {
		return err
	}
	if calendarOpts.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", len(events), calendarOpts.output)
	}
	return nil
}

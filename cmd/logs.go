package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courseadvisor/core/recommend/logging"
)

var logsOpts struct {
	courseID string
	since    time.Duration
	limit    int
	asJSON   bool
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recent recommendation logs",
	RunE:  runLogs,
}

func init() {
	f := logsCmd.Flags()
	f.StringVar(&logsOpts.courseID, "course", "", "only runs that selected or scored this course")
	f.DurationVar(&logsOpts.since, "since", 0, "only runs newer than this duration")
	f.IntVar(&logsOpts.limit, "limit", 20, "maximum number of records")
	f.BoolVar(&logsOpts.asJSON, "json", false, "print records as JSON lines")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := cfg.Logging.OpenStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("recommendation logging is disabled")
	}
	defer store.Close()

	q := logging.LogQuery{CourseID: logsOpts.courseID, Limit: logsOpts.limit}
	if logsOpts.since > 0 {
		q.Start = time.Now().Add(-logsOpts.since)
	}
	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if logsOpts.asJSON {
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s  %s  %d/%d credits  [%s]\n",
			r.Timestamp.Format(time.RFC3339), r.ID, r.TotalCredits, r.RequiredCredits, strings.Join(r.Selected, ", "))
	}
	return nil
}

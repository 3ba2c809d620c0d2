package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/courseadvisor/app"
	"github.com/kilianp07/courseadvisor/core/extract"
	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/recommend"
	"github.com/kilianp07/courseadvisor/pkg/export"
)

var recommendOpts struct {
	prefsPath string
	text      string
	credits   int
	studentID string
	format    string
	output    string
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend courses for a set of preferences",
	Long: `Recommend courses from a preference file (--prefs) or from a free-text
description (--text) interpreted by the configured extractor.`,
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.StringVar(&recommendOpts.prefsPath, "prefs", "", "preferences file (yaml or json)")
	f.StringVar(&recommendOpts.text, "text", "", "preferences in free text")
	f.IntVar(&recommendOpts.credits, "credits", 0, "required credits")
	f.StringVar(&recommendOpts.studentID, "student", "", "student id, enables notification")
	f.StringVar(&recommendOpts.format, "format", "text", "output format: text, json, csv, html or xlsx")
	f.StringVarP(&recommendOpts.output, "output", "o", "", "output file (required for xlsx)")
	recommendCmd.MarkFlagsMutuallyExclusive("prefs", "text")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	credits := recommendOpts.credits
	var prefs model.StudentPreferences
	switch {
	case recommendOpts.prefsPath != "":
		if prefs, err = readPreferences(recommendOpts.prefsPath); err != nil {
			return err
		}
	case recommendOpts.text != "":
		res, err := svc.Extractor.Extract(ctx, recommendOpts.text)
		if errors.Is(err, extract.ErrNotUnderstood) {
			fmt.Fprintln(out, "I'm sorry, I couldn't understand your preferences. Please try again.")
			return err
		}
		if err != nil {
			return fmt.Errorf("extract preferences: %w", err)
		}
		if res.NeedsClarification() {
			printQuestions(out, res.Questions)
			return nil
		}
		prefs = *res.Preferences
		if credits == 0 {
			credits = res.RequiredCredits
		}
	default:
		return errors.New("one of --prefs or --text is required")
	}

	res, err := svc.Engine.Run(ctx, recommend.Request{
		StudentID:       recommendOpts.studentID,
		Preferences:     prefs,
		RequiredCredits: credits,
	})
	if err != nil {
		return err
	}
	return writeResult(cmd, res)
}

func writeResult(cmd *cobra.Command, res recommend.Result) error {
	w := cmd.OutOrStdout()
	if recommendOpts.output != "" {
		f, err := os.Create(recommendOpts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", recommendOpts.output, err)
		}
		defer f.Close()
		w = f
	}
	switch strings.ToLower(recommendOpts.format) {
	case "text":
		printResult(w, res)
		return nil
	case "json":
		return export.WriteJSON(w, res.Summary())
	case "csv":
		return export.WriteCSV(w, res.Summary())
	case "html":
		return export.WriteLoadChart(w, res.Summary())
	case "xlsx":
		if recommendOpts.output == "" {
			return errors.New("xlsx output requires --output")
		}
		return export.WriteXLSX(w, res.Schedule)
	default:
		return fmt.Errorf("unknown format %q", recommendOpts.format)
	}
}

// readPreferences decodes a preference file by extension.
func readPreferences(path string) (model.StudentPreferences, error) {
	var p model.StudentPreferences
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return p, fmt.Errorf("unsupported preferences format: %s", filepath.Ext(path))
	}
	if err != nil {
		return p, fmt.Errorf("decode preferences: %w", err)
	}
	return p.Normalize()
}

// Package report works on submitted inspection reports exported as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"github.com/gizahealth/inspector/cmd/cli/checklist"
	"github.com/gizahealth/inspector/internal/aggregate"
	"github.com/gizahealth/inspector/internal/ai"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/envstruct"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/seed"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
)

var Group = &cobra.Group{
	ID:    "report",
	Title: "Reports",
}

// readReports decodes a file holding either one report or an array of reports.
func readReports(path string) ([]models.InspectionReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read report file", slog.String("path", path))
	}
	var reports []models.InspectionReport
	if err = json.Unmarshal(content, &reports); err == nil {
		return reports, nil
	}
	var report models.InspectionReport
	if err = json.Unmarshal(content, &report); err != nil {
		return nil, errors.Wrap(err, "decode report file", slog.String("path", path))
	}
	return []models.InspectionReport{report}, nil
}

func findFacility(facilities []models.Facility, id string) models.Facility {
	for _, f := range facilities {
		if f.ID == id {
			return f
		}
	}
	return models.Facility{ID: id, Name: models.Text{EN: id, AR: id}} //nolint:exhaustruct // unknown facility
}

// NewAnalyze creates the command asking the model for executive summaries of reports.
func NewAnalyze(lookupEnv func(string) (string, bool)) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands are sparse
		Use:     "analyze [report.json]",
		GroupID: Group.ID,
		Short:   "Summarize reports with the model",
		Long:    "Generates the executive summary of every report in the file. Reads OPENAI_API_KEY and INSPECTOR_AI_* from the environment.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := checklist.LanguageFlag(cmd)
			if err != nil {
				return err
			}
			var cfg ai.Config
			if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
				return errors.Wrap(err, "populate config")
			}
			cat, err := catalog.Default()
			if err != nil {
				return errors.Wrap(err, "load catalog")
			}
			data, err := seed.Load()
			if err != nil {
				return errors.Wrap(err, "load seed data")
			}
			reports, err := readReports(args[0])
			if err != nil {
				return err
			}

			client := ai.NewClient(cfg, cat)
			out := cmd.OutOrStdout()
			for _, r := range reports {
				facility := findFacility(data.Facilities, r.FacilityID)
				summary, analyzeErr := client.Analyze(cmd.Context(), r, facility, lang)
				if analyzeErr != nil {
					return errors.Wrap(analyzeErr, "analyze", slog.String("report_id", r.ID))
				}
				_, _ = fmt.Fprintf(out, "# %s (%s)\n%s\n\n", facility.Name.In(lang), r.ID, summary)
			}
			return nil
		},
	}
	cmd.Flags().String("lang", string(models.LanguageEnglish), "language of the summary, en or ar")
	return cmd
}

// NewDashboard creates the command printing the dashboard figures of the seeded facilities and the given reports.
func NewDashboard() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands are sparse
		Use:     "dashboard [report.json...]",
		GroupID: Group.ID,
		Short:   "Print compliance statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := checklist.LanguageFlag(cmd)
			if err != nil {
				return err
			}
			data, err := seed.Load()
			if err != nil {
				return errors.Wrap(err, "load seed data")
			}
			var reports []models.InspectionReport
			for _, path := range args {
				fileReports, readErr := readReports(path)
				if readErr != nil {
					return readErr
				}
				reports = append(reports, fileReports...)
			}

			overview := aggregate.Dashboard(data.Facilities, reports)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "facilities: %d\ninspections: %d\n", overview.Facilities, overview.Inspections)
			for _, status := range []models.ComplianceStatus{
				models.StatusCompliant, models.StatusPartiallyCompliant, models.StatusNonCompliant,
			} {
				_, _ = fmt.Fprintf(out, "%s: %d\n", status.Label(lang), overview.Compliance.Get(status))
			}
			for _, tc := range overview.ByType {
				_, _ = fmt.Fprintf(out, "%s: %d\n", tc.Type.Label(lang), tc.Count)
			}
			return nil
		},
	}
	cmd.Flags().String("lang", string(models.LanguageEnglish), "language of the labels, en or ar")
	return cmd
}

// Package checklist prints the reference data every inspection starts from.
package checklist

import (
	"fmt"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/seed"
	"github.com/spf13/cobra"
	"log/slog"
	"strings"
)

var Group = &cobra.Group{
	ID:    "checklist",
	Title: "Reference data",
}

// LanguageFlag returns the value of the --lang flag.
func LanguageFlag(cmd *cobra.Command) (models.Language, error) {
	value, err := cmd.Flags().GetString("lang")
	if err != nil {
		return "", errors.Wrap(err, "lang flag")
	}
	lang, ok := models.ParseLanguage(value)
	if !ok {
		return "", errors.New("unsupported language", slog.String("language", value))
	}
	return lang, nil
}

// NewCatalog creates the command printing the checklist.
func NewCatalog() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands are sparse
		Use:     "catalog",
		GroupID: Group.ID,
		Short:   "Print the checklist",
		Long:    "Prints the inspection checklist in navigation order. Questions needing a photo also when partially compliant are marked with *.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang, err := LanguageFlag(cmd)
			if err != nil {
				return err
			}
			cat, err := catalog.Default()
			if err != nil {
				return errors.Wrap(err, "load catalog")
			}
			out := cmd.OutOrStdout()
			for i, category := range cat.Categories() {
				_, _ = fmt.Fprintf(out, "%d. %s [%s]\n", i+1, category.Title.In(lang), category.ID)
				for _, q := range category.Questions {
					marker := ""
					if q.RequiresPhotoIfNonCompliant {
						marker = " *"
					}
					_, _ = fmt.Fprintf(out, "   %-5s %s%s\n", q.ID, q.Text.In(lang), marker)
				}
			}
			_, _ = fmt.Fprintf(out, "%d categories, %d questions\n", cat.Len(), cat.QuestionCount())
			return nil
		},
	}
	cmd.Flags().String("lang", string(models.LanguageEnglish), "language of the output, en or ar")
	return cmd
}

// NewFacilities creates the command searching the seeded facilities.
func NewFacilities() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // cobra commands are sparse
		Use:     "facilities [search term]",
		GroupID: Group.ID,
		Short:   "List facilities",
		Long:    "Lists the seeded facilities whose name or license number matches the search term.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := LanguageFlag(cmd)
			if err != nil {
				return err
			}
			data, err := seed.Load()
			if err != nil {
				return errors.Wrap(err, "load seed data")
			}
			term := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			for _, f := range data.Facilities {
				if !f.Matches(term) {
					continue
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", f.ID, f.Name.In(lang), f.Type.Label(lang), f.LicenseLabel(lang))
			}
			return nil
		},
	}
	cmd.Flags().String("lang", string(models.LanguageEnglish), "language of the output, en or ar")
	return cmd
}

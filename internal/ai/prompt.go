package ai

import (
	"fmt"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/models"
	"strings"
)

var failureMessage = models.Text{
	EN: "Error generating AI analysis. Please check network.",
	AR: "حدث خطأ أثناء إنشاء التحليل الذكي. يرجى التحقق من الاتصال بالشبكة.",
}

// FailureMessage is stored as the summary when analysis fails, so the report can be re-analysed later.
func FailureMessage(lang models.Language) string {
	return failureMessage.In(lang)
}

func languageName(lang models.Language) string {
	if lang == models.LanguageArabic {
		return "Arabic"
	}
	return "English"
}

// Prompt renders the findings of report as instructions for the model. Compliant answers are left out.
func Prompt(cat *catalog.Catalog, report models.InspectionReport, facility models.Facility, lang models.Language) string {
	var findings strings.Builder
	fmt.Fprintf(&findings, "Facility: %s (%s)\n", facility.Name.EN, facility.Type)
	fmt.Fprintf(&findings, "Date: %s\n", report.Date.Format("2006-01-02"))
	fmt.Fprintf(&findings, "Inspector ID: %s\n\nFindings:\n", report.InspectorID)

	for _, answer := range report.Answers {
		if answer.Status == models.StatusCompliant {
			continue
		}
		categoryTitle, questionText := cat.Describe(answer.QuestionID, models.LanguageEnglish)
		fmt.Fprintf(&findings, "[%s] %s: %s", categoryTitle, questionText, strings.ToUpper(string(answer.Status)))
		if answer.Note != "" {
			fmt.Fprintf(&findings, " (Note: %s)", answer.Note)
		}
		findings.WriteString("\n")
	}

	return fmt.Sprintf(`Act as a senior medical facility inspector in Egypt enforcing Law 51/1981 and its amendment by
Law 153/2004 regarding regulations for non-governmental medical establishments.
Review the following inspection findings for a %s.

Report Data:
%s
Task:
Provide a concise executive summary in %s.
1. Highlight critical violations regarding Infection Control, Hazardous Waste, and Administrative Licensing.
2. Recommend immediate actions (e.g., Warning, Closure, Fine) based on Egyptian MoH regulations.
3. Identify if the facility lacks essential life-saving equipment (Crash cart, Oxygen).

Format plain text, bullet points.
`, facility.Type, findings.String(), languageName(lang))
}

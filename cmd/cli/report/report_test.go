package report_test

import (
	"bytes"
	"encoding/json"
	"github.com/gizahealth/inspector/cmd/cli/report"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReports(t *testing.T, v any) string {
	t.Helper()
	content, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func newReport(id string, statuses ...models.ComplianceStatus) models.InspectionReport {
	report := models.InspectionReport{ //nolint:exhaustruct // only answers matter
		ID:             id,
		FacilityID:     "f1",
		InspectorID:    "u1",
		InspectionType: models.InspectionPeriodic,
		Date:           time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		OverallStatus:  models.OverallPending,
	}
	for i, status := range statuses {
		report.Answers = append(report.Answers, models.Answer{ //nolint:exhaustruct // no evidence
			QuestionID: []models.QuestionID{"a1", "a2", "a3"}[i],
			Status:     status,
		})
	}
	return report
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	many := writeReports(t, []models.InspectionReport{
		newReport("r1", models.StatusCompliant),
		newReport("r2", models.StatusCompliant, models.StatusNonCompliant),
	})
	single := writeReports(t, newReport("r3", models.StatusPartiallyCompliant, models.StatusNotApplicable))

	out, err := execute(t, report.NewDashboard(), many, single)
	require.NoError(t, err)
	assert.Contains(t, out, "facilities: 4\n")
	assert.Contains(t, out, "inspections: 3\n")
	assert.Contains(t, out, "Compliant: 1\n")
	assert.Contains(t, out, "Partially Compliant: 1\n")
	assert.Contains(t, out, "Non-Compliant: 1\n")
}

func TestDashboard_withoutReports(t *testing.T) {
	t.Parallel()

	out, err := execute(t, report.NewDashboard())
	require.NoError(t, err)
	assert.Contains(t, out, "inspections: 0\n")
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "- Renew the license"}},
			},
		})
	}))
	t.Cleanup(server.Close)
	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "OPENAI_API_KEY":
			return "test-key", true
		case "INSPECTOR_AI_BASE_URL":
			return server.URL + "/v1", true
		default:
			return "", false
		}
	}

	path := writeReports(t, newReport("r1", models.StatusNonCompliant))
	out, err := execute(t, report.NewAnalyze(lookupEnv), path)
	require.NoError(t, err)
	assert.Contains(t, out, "(r1)")
	assert.Contains(t, out, "- Renew the license")
}

func TestAnalyze_notConfigured(t *testing.T) {
	t.Parallel()

	noEnv := func(string) (string, bool) { return "", false }
	path := writeReports(t, newReport("r1"))
	_, err := execute(t, report.NewAnalyze(noEnv), path)
	require.Error(t, err)
}

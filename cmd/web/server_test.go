package main

import (
	"context"
	"encoding/json"
	"github.com/gizahealth/inspector/internal/aggregate"
	"github.com/gizahealth/inspector/internal/e2etest"
	"github.com/gizahealth/inspector/internal/inspection"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSummary = "- Repair the oxygen supply"

// newFakeOpenAI answers chat completions with testSummary.
func newFakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": testSummary},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testLookupEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key == "INSPECTOR_ADDR" {
			return "localhost:0", true
		}
		value, ok := env[key]
		return value, ok
	}
}

func startServer(t *testing.T, env map[string]string) *e2etest.Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv(env), run)
	require.NoError(t, err)
	return server.Client()
}

func aiEnv(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"OPENAI_API_KEY":        "test-key",
		"INSPECTOR_AI_BASE_URL": newFakeOpenAI(t).URL + "/v1",
	}
}

type reportResponse struct {
	models.InspectionReport
	FacilityName   string                  `json:"facilityName"`
	Classification models.ComplianceStatus `json:"classification"`
}

func TestInspectionFlow(t *testing.T) {
	t.Parallel()

	stores := map[string]map[string]string{
		"memory": {},
		"sqlite": {"INSPECTOR_SQLITE_URL": ":memory:"},
	}
	for name, storeEnv := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			env := aiEnv(t)
			for k, v := range storeEnv {
				env[k] = v
			}
			client := startServer(t, env)
			ctx := context.Background()

			var started inspectionResponse
			status, err := client.DoJSON(ctx, http.MethodPost, "/api/facilities/f1/inspections", nil, &started)
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, status)
			require.NotEmpty(t, started.SessionID)
			assert.Equal(t, inspection.StateEmpty, started.Snapshot.State)
			assert.Equal(t, "u1", started.Snapshot.InspectorID)
			base := "/api/inspections/" + started.SessionID

			var snapshot inspectionResponse
			status, err = client.DoJSON(ctx, http.MethodPut, base+"/answers/a1",
				map[string]string{"status": string(models.StatusNonCompliant), "note": "No license on display"},
				&snapshot)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, inspection.StateInProgress, snapshot.Snapshot.State)
			assert.Equal(t, []inspection.Warning{{QuestionID: "a1", Kind: inspection.MissingPhoto}},
				snapshot.Snapshot.Warnings)

			status, err = client.DoJSON(ctx, http.MethodPut, base+"/answers/a2",
				map[string]string{"status": string(models.StatusCompliant)}, nil)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)

			status, err = client.DoJSON(ctx, http.MethodPut, base+"/details",
				map[string]string{"inspectionType": string(models.InspectionComplaint)}, nil)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)

			status, err = client.DoJSON(ctx, http.MethodPost, base+"/dictation",
				map[string]string{"transcript": "  close   the   pharmacy "}, &snapshot)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "close the pharmacy", snapshot.Snapshot.Recommendation)

			status, err = client.DoJSON(ctx, http.MethodPost, base+"/location",
				map[string]float64{"latitude": 30.01, "longitude": 31.2}, &snapshot)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			require.NotNil(t, snapshot.Snapshot.Location)
			assert.InDelta(t, 30.01, snapshot.Snapshot.Location.Latitude, 1e-9)

			status, err = client.DoJSON(ctx, http.MethodPost, base+"/summary?wait=1", nil, &snapshot)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, testSummary, snapshot.Snapshot.Summary)
			assert.False(t, snapshot.Snapshot.SummaryPending)

			var report reportResponse
			status, err = client.DoJSON(ctx, http.MethodPost, base+"/submit", nil, &report)
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, status)
			assert.Equal(t, models.OverallPending, report.OverallStatus)
			assert.Equal(t, models.StatusNonCompliant, report.Classification)
			assert.Equal(t, models.InspectionComplaint, report.InspectionType)
			assert.Equal(t, testSummary, report.Summary)
			require.Len(t, report.Answers, 2)
			assert.Equal(t, models.QuestionID("a1"), report.Answers[0].QuestionID)

			// The session is gone once submitted.
			status, err = client.DoJSON(ctx, http.MethodPost, base+"/submit", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, status)

			var reports []reportResponse
			status, err = client.DoJSON(ctx, http.MethodGet, "/api/reports", nil, &reports)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			require.Len(t, reports, 1)
			assert.Equal(t, report.ID, reports[0].ID)
			assert.NotEmpty(t, reports[0].FacilityName)

			var overview aggregate.Overview
			status, err = client.DoJSON(ctx, http.MethodGet, "/api/dashboard", nil, &overview)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, 4, overview.Facilities)
			assert.Equal(t, 1, overview.Inspections)
			assert.Equal(t, 1, overview.Compliance.NonCompliant)
		})
	}
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()
	client := startServer(t, map[string]string{})
	ctx := context.Background()

	var started inspectionResponse
	status, err := client.DoJSON(ctx, http.MethodPost, "/api/facilities/f2/inspections", nil, &started)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	base := "/api/inspections/" + started.SessionID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "unknown facility", method: http.MethodGet, path: "/api/facilities/nope", body: nil, want: http.StatusNotFound},
		{name: "unknown session", method: http.MethodGet, path: "/api/inspections/nope", body: nil, want: http.StatusNotFound},
		{
			name:   "unknown question",
			method: http.MethodPut,
			path:   base + "/answers/nope",
			body:   map[string]string{"status": string(models.StatusCompliant)},
			want:   http.StatusNotFound,
		},
		{
			name:   "invalid status",
			method: http.MethodPut,
			path:   base + "/answers/a1",
			body:   map[string]string{"status": "Mostly fine"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "photo that is not an image",
			method: http.MethodPut,
			path:   base + "/answers/a1",
			body:   map[string]string{"photo": "aGVsbG8gd29ybGQ="},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown field",
			method: http.MethodPut,
			path:   base + "/details",
			body:   map[string]string{"colour": "blue"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "invalid inspection type",
			method: http.MethodPut,
			path:   base + "/details",
			body:   map[string]string{"inspectionType": "Surprise"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown navigation",
			method: http.MethodPost,
			path:   base + "/navigation",
			body:   map[string]string{"action": "sideways"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "location out of range",
			method: http.MethodPost,
			path:   base + "/location",
			body:   map[string]float64{"latitude": 91, "longitude": 0},
			want:   http.StatusBadRequest,
		},
		{
			name:   "empty dictation",
			method: http.MethodPost,
			path:   base + "/dictation",
			body:   map[string]string{"transcript": "   "},
			want:   http.StatusBadRequest,
		},
		{
			name:   "facility without name",
			method: http.MethodPost,
			path:   "/api/facilities",
			body:   map[string]string{"type": string(models.FacilityPrivateClinic)},
			want:   http.StatusBadRequest,
		},
		{name: "unknown endpoint", method: http.MethodGet, path: "/api/nope", body: nil, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorResponse
			status, err := client.DoJSON(ctx, tt.method, tt.path, tt.body, &body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body.Error)
		})
	}

	// Rejected input leaves the session untouched.
	var snapshot inspectionResponse
	status, err = client.DoJSON(ctx, http.MethodGet, base, nil, &snapshot)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, inspection.StateEmpty, snapshot.Snapshot.State)
	assert.Nil(t, snapshot.Snapshot.Location)
}

func TestSummaryWithoutAI(t *testing.T) {
	t.Parallel()
	client := startServer(t, map[string]string{})
	ctx := context.Background()

	var started inspectionResponse
	status, err := client.DoJSON(ctx, http.MethodPost, "/api/facilities/f3/inspections", nil, &started)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	var snapshot inspectionResponse
	status, err = client.DoJSON(ctx, http.MethodPost,
		"/api/inspections/"+started.SessionID+"/summary?wait=1", nil, &snapshot)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Error generating AI analysis. Please check network.", snapshot.Snapshot.Summary)
}

func TestFacilities(t *testing.T) {
	t.Parallel()
	client := startServer(t, map[string]string{})
	ctx := context.Background()

	var added facilityView
	status, err := client.DoJSON(ctx, http.MethodPost, "/api/facilities", models.FacilityDraft{
		NameEN:        "Nile Dialysis",
		NameAR:        "",
		Type:          models.FacilityDialysisCenter,
		LicenseNumber: "",
		IsLicensed:    true,
		Director:      "",
		Owner:         "",
		Address:       "",
		Governorate:   "",
		Specialties:   "Nephrology, ",
	}, &added)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PENDING", added.LicenseNumber)
	assert.Equal(t, "Nile Dialysis", added.Name.AR)
	assert.Equal(t, []string{"Nephrology"}, added.Specialties)

	var facilities []facilityView
	status, err = client.DoJSON(ctx, http.MethodGet, "/api/facilities?q=nile", nil, &facilities)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, facilities, 1)
	assert.Equal(t, added.ID, facilities[0].ID)

	status, err = client.DoJSON(ctx, http.MethodGet, "/api/facilities", nil, &facilities)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, facilities, 5)
	assert.Equal(t, added.ID, facilities[0].ID, "newest first")
}

func TestPreferences(t *testing.T) {
	t.Parallel()
	client := startServer(t, map[string]string{})
	ctx := context.Background()

	var prefs preferencesResponse
	status, err := client.DoJSON(ctx, http.MethodGet, "/api/preferences", nil, &prefs)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.LanguageEnglish, prefs.Language)
	assert.Equal(t, "u1", prefs.Inspector.ID)

	status, err = client.DoJSON(ctx, http.MethodPut, "/api/preferences",
		map[string]string{"language": "ar", "inspectorId": "u2"}, &prefs)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	status, err = client.DoJSON(ctx, http.MethodPut, "/api/preferences",
		map[string]string{"inspectorId": "nobody"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	// The session cookie carries the preferences to later requests.
	var started inspectionResponse
	status, err = client.DoJSON(ctx, http.MethodPost, "/api/facilities/f1/inspections", nil, &started)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.LanguageArabic, started.Snapshot.Language)
	assert.Equal(t, "u2", started.Snapshot.InspectorID)

	var cat catalogResponse
	status, err = client.DoJSON(ctx, http.MethodGet, "/api/catalog", nil, &cat)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.LanguageArabic, cat.Language)
	require.NotEmpty(t, cat.Categories)
	assert.Len(t, cat.Statuses, len(models.ComplianceStatuses))
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	client := startServer(t, map[string]string{})
	ctx := context.Background()

	status, err := client.DoJSON(ctx, http.MethodPost, "/api/facilities/f1/inspections", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	resp, err := client.Get(ctx, "/metrics")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "inspector_open_inspection_sessions 1")
	assert.Contains(t, string(body), "inspector_http_requests_total")
}

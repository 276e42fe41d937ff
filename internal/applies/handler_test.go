package applies

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobapp/internal/llm"
	"jobapp/internal/shared/storage/object/local"
	"jobapp/internal/workerproc"
)

type busySubmitter struct{}

func (busySubmitter) Submit(kind string, run workerproc.RunFunc) (string, error) {
	return "", workerproc.ErrBusy
}

func newApplyRouter(t *testing.T, session Submitter) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "A focused paragraph about the candidate and the company goals in detail.", nil
	})
	fx := newFixture(t, "http://unused.local/v1", client)

	r := gin.New()
	NewHandler(fx.svc, session, local.New(fx.outDir)).RegisterRoutes(r.Group("/api/v1"))
	return r, fx
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateEndpointRunsOnSession(t *testing.T) {
	session := workerproc.NewSession(context.Background())
	t.Cleanup(session.Close)
	r, _ := newApplyRouter(t, session)

	resp := postJSON(r, "/api/v1/applications", GenerateRequest{JobListing: acmeListing})
	require.Equal(t, http.StatusAccepted, resp.Code)

	var accepted AcceptedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &accepted))
	assert.NotEmpty(t, accepted.TaskID)

	require.Eventually(t, func() bool { return !session.Busy() }, 2*time.Second, 5*time.Millisecond)
	snap := session.Snapshot()
	require.Equal(t, workerproc.StatusDone, snap.Status, "log: %v", snap.Log)
	assert.Equal(t, accepted.TaskID, snap.TaskID)

	tests := []struct {
		artifact string
		want     string
	}{
		{artifact: ResumeMD, want: "Senior Backend Engineer"},
		{artifact: CoverLetterMD, want: "position at Acme Corp"},
	}
	for _, tt := range tests {
		t.Run(tt.artifact, func(t *testing.T) {
			name := filepath.Base(snap.Artifacts[tt.artifact])
			req := httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/"+name, nil)
			dl := httptest.NewRecorder()
			r.ServeHTTP(dl, req)

			assert.Equal(t, http.StatusOK, dl.Code)
			assert.Equal(t, "text/markdown; charset=utf-8", dl.Header().Get("Content-Type"))
			assert.Equal(t, "attachment; filename=\""+name+"\"", dl.Header().Get("Content-Disposition"))
			assert.Contains(t, dl.Body.String(), tt.want)
			assert.NotContains(t, dl.Body.String(), "{{")
		})
	}
}

func TestGenerateEndpointRejectsEmptyListing(t *testing.T) {
	r, _ := newApplyRouter(t, busySubmitter{})

	for _, body := range []any{GenerateRequest{JobListing: "   "}, map[string]string{}} {
		resp := postJSON(r, "/api/v1/applications", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "validation_error")
	}
}

func TestGenerateEndpointBusy(t *testing.T) {
	r, _ := newApplyRouter(t, busySubmitter{})

	resp := postJSON(r, "/api/v1/applications", GenerateRequest{JobListing: acmeListing})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"busy"`)
}

func TestDownloadErrors(t *testing.T) {
	r, _ := newApplyRouter(t, busySubmitter{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "missing", path: "/api/v1/artifacts/resume_none.md", status: http.StatusNotFound},
		{name: "hidden", path: "/api/v1/artifacts/.env", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			assert.Equal(t, tt.status, resp.Code)
			assert.Empty(t, resp.Header().Get("Content-Disposition"))
		})
	}
}

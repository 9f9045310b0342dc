package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/jwt"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock JobService ──

type mockJobService struct {
	job       *dto.JobResponse
	list      []dto.JobResponse
	total     int64
	err       error
	lastQuery *dto.JobListRequest
	lastDir   pipeline.Direction
}

func (m *mockJobService) Create(_ context.Context, _ *dto.CreateJobRequest, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) Get(_ context.Context, _ string, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) ListOpen(_ context.Context, req *dto.JobListRequest) ([]dto.JobResponse, int64, error) {
	m.lastQuery = req
	return m.list, m.total, m.err
}
func (m *mockJobService) ListMine(_ context.Context, _ *dto.PaginationRequest, _ service.Caller) ([]dto.JobResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockJobService) Update(_ context.Context, _ string, _ *dto.UpdateJobRequest, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) SetStatusByAdmin(_ context.Context, _ string, _ *dto.AdminJobStatusRequest, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) AddField(_ context.Context, _ string, _ pipeline.FieldDefinition, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) ReplaceField(_ context.Context, _, _ string, _ pipeline.FieldDefinition, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) RemoveField(_ context.Context, _, _ string, _ service.Caller) (*dto.JobResponse, error) {
	return m.job, m.err
}
func (m *mockJobService) MoveField(_ context.Context, _, _ string, dir pipeline.Direction, _ service.Caller) (*dto.JobResponse, error) {
	m.lastDir = dir
	return m.job, m.err
}

// ── Mock RoundService ──

type mockRoundService struct {
	round  *dto.RoundResponse
	rounds []dto.RoundResponse
	err    error
}

func (m *mockRoundService) Create(_ context.Context, _ string, _ *dto.CreateRoundRequest, _ service.Caller) (*dto.RoundResponse, error) {
	return m.round, m.err
}
func (m *mockRoundService) List(_ context.Context, _ string, _ service.Caller) ([]dto.RoundResponse, error) {
	return m.rounds, m.err
}
func (m *mockRoundService) Update(_ context.Context, _, _ string, _ *dto.UpdateRoundRequest, _ service.Caller) (*dto.RoundResponse, error) {
	return m.round, m.err
}
func (m *mockRoundService) Delete(_ context.Context, _, _ string, _ service.Caller) error {
	return m.err
}
func (m *mockRoundService) Move(_ context.Context, _, _ string, _ pipeline.Direction, _ service.Caller) ([]dto.RoundResponse, error) {
	return m.rounds, m.err
}

// ── Mock ApplicationService ──

type mockApplicationService struct {
	app        *dto.ApplicationResponse
	detail     *dto.ApplicationDetailResponse
	list       []dto.ApplicationResponse
	total      int64
	err        error
	lastCaller service.Caller
	lastStatus *dto.SetStatusRequest
}

func (m *mockApplicationService) Apply(_ context.Context, _ string, _ *dto.ApplyRequest, caller service.Caller) (*dto.ApplicationResponse, error) {
	m.lastCaller = caller
	return m.app, m.err
}
func (m *mockApplicationService) Detail(_ context.Context, _ string, caller service.Caller) (*dto.ApplicationDetailResponse, error) {
	m.lastCaller = caller
	return m.detail, m.err
}
func (m *mockApplicationService) ListMine(_ context.Context, _ *dto.PaginationRequest, _ service.Caller) ([]dto.ApplicationResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockApplicationService) ListByJob(_ context.Context, _ string, _ *dto.ApplicationListRequest, _ service.Caller) ([]dto.ApplicationResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockApplicationService) Advance(_ context.Context, _ string, _ *dto.AdvanceRequest, _ service.Caller) (*dto.ApplicationResponse, error) {
	return m.app, m.err
}
func (m *mockApplicationService) SetStatus(_ context.Context, _ string, req *dto.SetStatusRequest, _ service.Caller) (*dto.ApplicationResponse, error) {
	m.lastStatus = req
	return m.app, m.err
}
func (m *mockApplicationService) Withdraw(_ context.Context, _ string, _ *dto.WithdrawRequest, _ service.Caller) (*dto.ApplicationResponse, error) {
	return m.app, m.err
}

// ── Mock SubmissionService ──

type mockSubmissionService struct {
	sub *dto.SubmissionResponse
	err error
}

func (m *mockSubmissionService) Submit(_ context.Context, _, _ string, _ *dto.SubmitRoundRequest, _ service.Caller) (*dto.SubmissionResponse, error) {
	return m.sub, m.err
}
func (m *mockSubmissionService) Evaluate(_ context.Context, _, _ string, _ *dto.EvaluateRequest, _ service.Caller) (*dto.SubmissionResponse, error) {
	return m.sub, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportApplicants(_ context.Context, _ string, _ service.Caller) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock SettingService ──

type mockSettingService struct {
	setting *dto.PlatformSettingResponse
	err     error
}

func (m *mockSettingService) Get(_ context.Context) (*dto.PlatformSettingResponse, error) {
	return m.setting, m.err
}
func (m *mockSettingService) Update(_ context.Context, _ *dto.UpdatePlatformSettingRequest, _ service.Caller) (*dto.PlatformSettingResponse, error) {
	return m.setting, m.err
}
func (m *mockSettingService) Limits(_ context.Context) model.PlatformSetting {
	return model.PlatformSetting{}
}

// ── Mock ATSService ──

type mockATSService struct {
	res *dto.AtsScoreResponse
	err error
}

func (m *mockATSService) Score(_ context.Context, _ *dto.AtsScoreRequest) (*dto.AtsScoreResponse, error) {
	return m.res, m.err
}

// ── Mock ProgressService ──

type mockProgressService struct {
	progress *dto.RoadmapProgressResponse
	err      error
}

func (m *mockProgressService) Get(_ context.Context, _ string, _ service.Caller) (*dto.RoadmapProgressResponse, error) {
	return m.progress, m.err
}
func (m *mockProgressService) SetTopic(_ context.Context, _, _ string, _ *dto.SetTopicRequest, _ service.Caller) (*dto.RoadmapProgressResponse, error) {
	return m.progress, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context, role string) {
	c.Set("user_id", "test-user-id")
	c.Set("role", role)
}

// withAuth 以指定角色包装处理器
func withAuth(role string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c, role)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func newJSONRequest(method, path string, body interface{}) *http.Request {
	req := httptest.NewRequest(method, path, jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ═══════════════════════════════════════════════════════════
// Context Helper Tests
// ═══════════════════════════════════════════════════════════

func TestMustGetCaller(t *testing.T) {
	_, c, _ := setupGin()
	setAuth(c, jwt.RoleStudent)

	caller, ok := MustGetCaller(c)
	if !ok {
		t.Fatal("expected ok")
	}
	if caller.UserID != "test-user-id" || caller.Role != jwt.RoleStudent {
		t.Errorf("unexpected caller: %+v", caller)
	}
}

func TestMustGetCaller_MissingRole(t *testing.T) {
	_, c, w := setupGin()
	c.Set("user_id", "test-user-id")

	if _, ok := MustGetCaller(c); ok {
		t.Error("expected not ok")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// JobHandler Tests
// ═══════════════════════════════════════════════════════════

func TestJobHandler_ListJobs_Success(t *testing.T) {
	mock := &mockJobService{
		list:  []dto.JobResponse{{ID: "j1", Title: "Backend Intern"}},
		total: 41,
	}
	h := NewJobHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/jobs?q=go&page=2&pageSize=20", nil)

	r := gin.New()
	r.GET("/jobs", withAuth(jwt.RoleStudent, h.ListJobs))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastQuery == nil || mock.lastQuery.Q != "go" {
		t.Errorf("expected query q=go to reach service")
	}

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", body.Data.Pagination.TotalPages)
	}
	if body.Data.Pagination.Page != 2 {
		t.Errorf("expected page 2, got %d", body.Data.Pagination.Page)
	}
}

func TestJobHandler_ListJobs_BadPageSize(t *testing.T) {
	h := NewJobHandler(&mockJobService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/jobs?pageSize=500", nil)

	r := gin.New()
	r.GET("/jobs", h.ListJobs)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestJobHandler_GetJob_Unauthenticated(t *testing.T) {
	h := NewJobHandler(&mockJobService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/jobs/j1", nil)

	r := gin.New()
	r.GET("/jobs/:jobId", h.GetJob)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10002 {
		t.Errorf("expected code 10002, got %d", resp.Code)
	}
}

func TestJobHandler_CreateJob_Success(t *testing.T) {
	mock := &mockJobService{job: &dto.JobResponse{ID: "j1", Title: "Backend Intern", Status: "OPEN"}}
	h := NewJobHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/jobs", dto.CreateJobRequest{
		Title:   "Backend Intern",
		Company: "Acme",
		Status:  "OPEN",
		CustomFields: []pipeline.FieldDefinition{
			{ID: "gpa", Label: "GPA", FieldType: pipeline.FieldNumeric, Required: true},
		},
	})

	r := gin.New()
	r.POST("/jobs", withAuth(jwt.RoleRecruiter, h.CreateJob))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestJobHandler_CreateJob_BadJSON(t *testing.T) {
	h := NewJobHandler(&mockJobService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/jobs", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/jobs", withAuth(jwt.RoleRecruiter, h.CreateJob))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestJobHandler_CreateJob_FieldValidationDetails(t *testing.T) {
	mock := &mockJobService{err: pipeline.ValidationErrors{
		{Field: "customFields[0].options", Code: "required", Message: "下拉字段至少需要一个选项"},
	}}
	h := NewJobHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/jobs", dto.CreateJobRequest{Title: "T", Company: "C"})

	r := gin.New()
	r.POST("/jobs", withAuth(jwt.RoleRecruiter, h.CreateJob))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "customFields[0].options") {
		t.Errorf("expected field error details in body, got %s", w.Body.String())
	}
}

func TestJobHandler_MoveField_InvalidDirection(t *testing.T) {
	mock := &mockJobService{}
	h := NewJobHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("PATCH", "/recruiter/jobs/j1/custom-fields/gpa/move", gin.H{"direction": "left"})

	r := gin.New()
	r.PATCH("/recruiter/jobs/:jobId/custom-fields/:fieldId/move", withAuth(jwt.RoleRecruiter, h.MoveField))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.lastDir != "" {
		t.Error("service should not be called on invalid direction")
	}
}

func TestJobHandler_MoveField_Success(t *testing.T) {
	mock := &mockJobService{job: &dto.JobResponse{ID: "j1"}}
	h := NewJobHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("PATCH", "/recruiter/jobs/j1/custom-fields/gpa/move", dto.MoveRequest{Direction: "down"})

	r := gin.New()
	r.PATCH("/recruiter/jobs/:jobId/custom-fields/:fieldId/move", withAuth(jwt.RoleRecruiter, h.MoveField))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.lastDir != pipeline.DirectionDown {
		t.Errorf("expected direction down, got %q", mock.lastDir)
	}
}

func TestJobHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrJobNotFound, 404, 20001},
		{"Forbidden", service.ErrJobForbidden, 403, 20002},
		{"NotOpen", service.ErrJobNotOpen, 400, 20003},
		{"FieldNotFound", service.ErrFieldNotFound, 404, 20004},
		{"FieldExists", service.ErrFieldExists, 409, 20005},
		{"TooManyFields", service.ErrTooManyFields, 400, 20006},
		{"TooManyCriteria", service.ErrTooManyCriteria, 400, 20007},
		{"TooManyRounds", service.ErrTooManyRounds, 400, 20008},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 10005},
		{"LockHeld", redis.ErrLockHeld, 409, 10006},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJobHandler(&mockJobService{err: tt.err})

			_, _, w := setupGin()
			req := httptest.NewRequest("GET", "/jobs/j1", nil)

			r := gin.New()
			r.GET("/jobs/:jobId", withAuth(jwt.RoleRecruiter, h.GetJob))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// RoundHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRoundHandler_CreateRound_MissingName(t *testing.T) {
	h := NewRoundHandler(&mockRoundService{})

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/recruiter/jobs/j1/rounds", gin.H{"description": "no name"})

	r := gin.New()
	r.POST("/recruiter/jobs/:jobId/rounds", withAuth(jwt.RoleRecruiter, h.CreateRound))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRoundHandler_ListRounds_Success(t *testing.T) {
	mock := &mockRoundService{rounds: []dto.RoundResponse{{ID: "A"}, {ID: "B"}}}
	h := NewRoundHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/recruiter/jobs/j1/rounds", nil)

	r := gin.New()
	r.GET("/recruiter/jobs/:jobId/rounds", withAuth(jwt.RoleRecruiter, h.ListRounds))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRoundHandler_DeleteRound(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"Success", nil, 200, 0},
		{"InUse", service.ErrRoundInUse, 409, 21002},
		{"NotFound", service.ErrRoundNotFound, 404, 21001},
		{"JobForbidden", service.ErrJobForbidden, 403, 20002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRoundHandler(&mockRoundService{err: tt.err})

			_, _, w := setupGin()
			req := httptest.NewRequest("DELETE", "/recruiter/jobs/j1/rounds/A", nil)

			r := gin.New()
			r.DELETE("/recruiter/jobs/:jobId/rounds/:roundId", withAuth(jwt.RoleRecruiter, h.DeleteRound))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ApplicationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestApplicationHandler_Apply_Success(t *testing.T) {
	mock := &mockApplicationService{app: &dto.ApplicationResponse{ID: "a1", Status: "APPLIED"}}
	h := NewApplicationHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/student/jobs/j1/apply", dto.ApplyRequest{
		CustomFieldAnswers: map[string]any{"gpa": 8.7},
	})

	r := gin.New()
	r.POST("/student/jobs/:jobId/apply", withAuth(jwt.RoleStudent, h.Apply))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.lastCaller.Role != jwt.RoleStudent {
		t.Errorf("expected student caller, got %q", mock.lastCaller.Role)
	}
}

func TestApplicationHandler_Apply_Duplicate(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{err: pipeline.ErrAlreadyApplied})

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/student/jobs/j1/apply", dto.ApplyRequest{})

	r := gin.New()
	r.POST("/student/jobs/:jobId/apply", withAuth(jwt.RoleStudent, h.Apply))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 22003 {
		t.Errorf("expected code 22003, got %d", resp.Code)
	}
}

func TestApplicationHandler_Advance_EmptyBody(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{app: &dto.ApplicationResponse{ID: "a1"}})

	_, _, w := setupGin()
	req := httptest.NewRequest("PATCH", "/recruiter/applications/a1/advance", nil)

	r := gin.New()
	r.PATCH("/recruiter/applications/:id/advance", withAuth(jwt.RoleRecruiter, h.Advance))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestApplicationHandler_SetStatus_RejectsWithdrawn(t *testing.T) {
	mock := &mockApplicationService{}
	h := NewApplicationHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("PATCH", "/recruiter/applications/a1/status", dto.SetStatusRequest{Status: "WITHDRAWN"})

	r := gin.New()
	r.PATCH("/recruiter/applications/:id/status", withAuth(jwt.RoleRecruiter, h.SetStatus))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.lastStatus != nil {
		t.Error("service should not be called")
	}
}

func TestApplicationHandler_GetApplication_Forbidden(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{err: service.ErrApplicationForbidden})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/student/applications/a1", nil)

	r := gin.New()
	r.GET("/student/applications/:id", withAuth(jwt.RoleStudent, h.GetApplication))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestApplicationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrApplicationNotFound, 404, 22001},
		{"Forbidden", service.ErrApplicationForbidden, 403, 22002},
		{"Terminal", pipeline.ErrTerminalStatus, 409, 22004},
		{"InvalidTransition", pipeline.ErrInvalidTransition, 409, 22005},
		{"UnknownStatus", pipeline.ErrUnknownStatus, 400, 22006},
		{"NoNextRound", pipeline.ErrNoNextRound, 409, 22007},
		{"RoundsIncomplete", pipeline.ErrRoundsIncomplete, 409, 22008},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 10005},
		{"LockHeld", redis.ErrLockHeld, 409, 10006},
		{"JobForbidden", service.ErrJobForbidden, 403, 20002},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewApplicationHandler(&mockApplicationService{err: tt.err})

			_, _, w := setupGin()
			req := newJSONRequest("PATCH", "/recruiter/applications/a1/status", dto.SetStatusRequest{Status: "HIRED"})

			r := gin.New()
			r.PATCH("/recruiter/applications/:id/status", withAuth(jwt.RoleRecruiter, h.SetStatus))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// SubmissionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSubmissionHandler_Submit_Success(t *testing.T) {
	mock := &mockSubmissionService{sub: &dto.SubmissionResponse{ID: "s1", Status: "COMPLETED"}}
	h := NewSubmissionHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("POST", "/student/applications/a1/rounds/A/submit", dto.SubmitRoundRequest{
		FieldAnswers: map[string]any{"repo": "https://github.com/ada/x"},
	})

	r := gin.New()
	r.POST("/student/applications/:id/rounds/:roundId/submit", withAuth(jwt.RoleStudent, h.Submit))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSubmissionHandler_Submit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotCurrent", pipeline.ErrRoundNotCurrent, 409, 23002},
		{"NotInJob", pipeline.ErrRoundNotInJob, 404, 23001},
		{"Terminal", pipeline.ErrTerminalStatus, 409, 22004},
		{"Forbidden", service.ErrApplicationForbidden, 403, 22002},
		{"Validation", pipeline.ValidationErrors{{Field: "repo", Code: "required", Message: "必填"}}, 400, 10001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSubmissionHandler(&mockSubmissionService{err: tt.err})

			_, _, w := setupGin()
			req := newJSONRequest("POST", "/student/applications/a1/rounds/B/submit", dto.SubmitRoundRequest{})

			r := gin.New()
			r.POST("/student/applications/:id/rounds/:roundId/submit", withAuth(jwt.RoleStudent, h.Submit))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestSubmissionHandler_Evaluate_Success(t *testing.T) {
	mock := &mockSubmissionService{sub: &dto.SubmissionResponse{ID: "s1", RecruiterNotes: "solid"}}
	h := NewSubmissionHandler(mock)

	_, _, w := setupGin()
	req := newJSONRequest("PUT", "/recruiter/applications/a1/rounds/A/evaluate", dto.EvaluateRequest{
		EvaluationScores: map[string]pipeline.Score{"c1": {Score: 8}},
		RecruiterNotes:   "solid",
	})

	r := gin.New()
	r.PUT("/recruiter/applications/:id/rounds/:roundId/evaluate", withAuth(jwt.RoleRecruiter, h.Evaluate))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "applicants_Backend Intern.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/recruiter/jobs/j1/applications/export", nil)

	r := gin.New()
	r.GET("/recruiter/jobs/:jobId/applications/export", withAuth(jwt.RoleRecruiter, h.ExportApplicants))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "applicants_Backend+Intern.xlsx") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "excel content" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NoApplications", service.ErrExportNoApplications, 404, 24001},
		{"JobForbidden", service.ErrJobForbidden, 403, 20002},
		{"JobNotFound", service.ErrJobNotFound, 404, 20001},
		{"GenerateFail", service.ErrExportGenerateFail, 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(&mockExportService{err: tt.err})

			_, _, w := setupGin()
			req := httptest.NewRequest("GET", "/recruiter/jobs/j1/applications/export", nil)

			r := gin.New()
			r.GET("/recruiter/jobs/:jobId/applications/export", withAuth(jwt.RoleRecruiter, h.ExportApplicants))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// SettingHandler / ATSHandler / ProgressHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSettingHandler_UpdateSettings_OutOfRange(t *testing.T) {
	h := NewSettingHandler(&mockSettingService{})

	_, _, w := setupGin()
	req := newJSONRequest("PUT", "/admin/settings", gin.H{"maxRoundsPerJob": 500})

	r := gin.New()
	r.PUT("/admin/settings", withAuth(jwt.RoleAdmin, h.UpdateSettings))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSettingHandler_UpdateSettings_Success(t *testing.T) {
	h := NewSettingHandler(&mockSettingService{setting: &dto.PlatformSettingResponse{MaxRoundsPerJob: 12}})

	_, _, w := setupGin()
	req := newJSONRequest("PUT", "/admin/settings", gin.H{"maxRoundsPerJob": 12})

	r := gin.New()
	r.PUT("/admin/settings", withAuth(jwt.RoleAdmin, h.UpdateSettings))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSettingHandler_GetSettings_NotFound(t *testing.T) {
	h := NewSettingHandler(&mockSettingService{err: service.ErrSettingNotFound})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/admin/settings", nil)

	r := gin.New()
	r.GET("/admin/settings", h.GetSettings)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 25001 {
		t.Errorf("expected code 25001, got %d", resp.Code)
	}
}

func TestATSHandler_Score(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
		wantCode   int
	}{
		{"Success", dto.AtsScoreRequest{ResumeText: "Skills\nGo", Keywords: []string{"go"}}, nil, 200, 0},
		{"MissingResume", gin.H{"keywords": []string{"go"}}, nil, 400, 10001},
		{"NoKeywords", dto.AtsScoreRequest{ResumeText: "Skills"}, service.ErrNoKeywords, 400, 26001},
		{"JobNotFound", dto.AtsScoreRequest{ResumeText: "Skills"}, service.ErrJobNotFound, 404, 20001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewATSHandler(&mockATSService{res: &dto.AtsScoreResponse{}, err: tt.err})

			_, _, w := setupGin()
			req := newJSONRequest("POST", "/student/ats/score", tt.body)

			r := gin.New()
			r.POST("/student/ats/score", withAuth(jwt.RoleStudent, h.Score))
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestProgressHandler_SetTopic_MissingCompleted(t *testing.T) {
	h := NewProgressHandler(&mockProgressService{})

	_, _, w := setupGin()
	req := newJSONRequest("PUT", "/student/roadmaps/go/topics/basics", gin.H{})

	r := gin.New()
	r.PUT("/student/roadmaps/:slug/topics/:topicId", withAuth(jwt.RoleStudent, h.SetTopic))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestProgressHandler_GetProgress_InvalidSlug(t *testing.T) {
	h := NewProgressHandler(&mockProgressService{err: service.ErrInvalidRoadmapSlug})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/student/roadmaps/BAD/progress", nil)

	r := gin.New()
	r.GET("/student/roadmaps/:slug/progress", withAuth(jwt.RoleStudent, h.GetProgress))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 26002 {
		t.Errorf("expected code 26002, got %d", resp.Code)
	}
}

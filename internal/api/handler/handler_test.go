package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"simlab/config"
	"simlab/internal/api/middleware"
	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/internal/validation"
	pkgerrors "simlab/pkg/errors"
	"simlab/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testUserID  = "11111111-1111-1111-1111-111111111111"
	testEntryID = "22222222-2222-2222-2222-222222222222"
	testRoomID  = "33333333-3333-3333-3333-333333333333"
	testCourse  = "44444444-4444-4444-4444-444444444444"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	logoutJTI   string
	meResult    *dto.UserResponse
	meErr       error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) Permissions(role string) *dto.PermissionsResponse {
	return &dto.PermissionsResponse{Role: role, Permissions: []string{"schedule.view"}}
}

// ── Mock UserService ──

type mockUserService struct {
	createResult *dto.CreateUserResponse
	createErr    error
	getErr       error
	updateErr    error
	deleteErr    error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest, _ string) (*dto.CreateUserResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUserService) GetByID(_ context.Context, id string) (*dto.UserResponse, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &dto.UserResponse{ID: id}, nil
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return []dto.UserResponse{}, 0, nil
}
func (m *mockUserService) Update(_ context.Context, id string, _ *dto.UpdateUserRequest, _ string) (*dto.UserResponse, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dto.UserResponse{ID: id}, nil
}
func (m *mockUserService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockUserService) ResetPassword(_ context.Context, _ string, _ string) (*dto.ResetPasswordResponse, error) {
	return &dto.ResetPasswordResponse{TempPassword: "Temp-1234"}, nil
}

// ── Mock LabRoomService ──

type mockLabRoomService struct {
	listResult []dto.LabRoomResponse
	listTotal  int64
	listReq    *dto.LabRoomListRequest
	createErr  error
	deleteErr  error
}

func (m *mockLabRoomService) Create(_ context.Context, req *dto.CreateLabRoomRequest, _ string) (*dto.LabRoomResponse, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &dto.LabRoomResponse{ID: testRoomID, KodeLab: req.KodeLab}, nil
}
func (m *mockLabRoomService) GetByID(_ context.Context, id string) (*dto.LabRoomResponse, error) {
	return &dto.LabRoomResponse{ID: id}, nil
}
func (m *mockLabRoomService) List(_ context.Context, req *dto.LabRoomListRequest) ([]dto.LabRoomResponse, int64, error) {
	m.listReq = req
	return m.listResult, m.listTotal, nil
}
func (m *mockLabRoomService) Update(_ context.Context, id string, _ *dto.UpdateLabRoomRequest, _ string) (*dto.LabRoomResponse, error) {
	return &dto.LabRoomResponse{ID: id}, nil
}
func (m *mockLabRoomService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockLabRoomService) Options(_ context.Context) ([]dto.LabRoomOption, error) {
	return []dto.LabRoomOption{{ID: testRoomID, KodeLab: "LAB-01"}}, nil
}

// ── Mock CourseService ──

type mockCourseService struct {
	assignErr error
	deleteErr error
}

func (m *mockCourseService) Create(_ context.Context, req *dto.CreateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: testCourse, KodeMK: req.KodeMK}, nil
}
func (m *mockCourseService) GetByID(_ context.Context, id string) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: id}, nil
}
func (m *mockCourseService) List(_ context.Context, _ *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	return []dto.CourseResponse{}, 0, nil
}
func (m *mockCourseService) Update(_ context.Context, id string, _ *dto.UpdateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: id}, nil
}
func (m *mockCourseService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockCourseService) Options(_ context.Context) ([]dto.CourseOption, error) {
	return []dto.CourseOption{}, nil
}
func (m *mockCourseService) AssignInstructor(_ context.Context, id string, req *dto.AssignInstructorRequest, _ string) (*dto.CourseResponse, error) {
	if m.assignErr != nil {
		return nil, m.assignErr
	}
	return &dto.CourseResponse{ID: id, DosenID: &req.DosenID}, nil
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	availResult *dto.AvailabilityResponse
	createErr   error
	createCalls int
	updateErr   error
	deleteErr   error
	lastCaller  service.Caller
	stats       *dto.ScheduleStats
}

func (m *mockScheduleService) CheckAvailability(_ context.Context, _ *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	return m.availResult, nil
}
func (m *mockScheduleService) Create(_ context.Context, req *dto.CreateScheduleEntryRequest, caller service.Caller) (*dto.ScheduleEntryResponse, error) {
	m.createCalls++
	m.lastCaller = caller
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &dto.ScheduleEntryResponse{ID: testEntryID, LabRoomID: req.LabRoomID, Status: "scheduled"}, nil
}
func (m *mockScheduleService) GetByID(_ context.Context, id string) (*dto.ScheduleEntryResponse, error) {
	return &dto.ScheduleEntryResponse{ID: id}, nil
}
func (m *mockScheduleService) List(_ context.Context, _ *dto.ScheduleEntryListRequest, caller service.Caller) ([]dto.ScheduleEntryResponse, int64, error) {
	m.lastCaller = caller
	return []dto.ScheduleEntryResponse{{ID: testEntryID}}, 1, nil
}
func (m *mockScheduleService) Update(_ context.Context, id string, _ *dto.UpdateScheduleEntryRequest, _ service.Caller) (*dto.ScheduleEntryResponse, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dto.ScheduleEntryResponse{ID: id}, nil
}
func (m *mockScheduleService) Delete(_ context.Context, _ string, _ service.Caller) error {
	return m.deleteErr
}
func (m *mockScheduleService) Stats(_ context.Context, caller service.Caller) (*dto.ScheduleStats, error) {
	m.lastCaller = caller
	return m.stats, nil
}
func (m *mockScheduleService) AdvanceStatuses(_ context.Context) (int, error) {
	return 0, nil
}

// ── Mock StatsService ──

type mockStatsService struct {
	result *dto.DashboardStats
	err    error
}

func (m *mockStatsService) Dashboard(_ context.Context, _ service.Caller) (*dto.DashboardStats, error) {
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	ics      []byte
	filename string
	err      error
}

func (m *mockExportService) ExportXLSX(_ context.Context, _ *dto.ScheduleEntryListRequest, _ service.Caller) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportICS(_ context.Context, _ *dto.ScheduleEntryListRequest, _ service.Caller) ([]byte, string, error) {
	return m.ics, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func newValidator() *validation.Validator {
	return validation.New(&config.ValidationConfig{})
}

// withAuth stands in for JWTAuth
func withAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, testUserID)
		c.Set(middleware.CtxRole, role)
		c.Set(middleware.CtxTokenJTI, "test-jti")
		c.Set(middleware.CtxTokenExp, time.Now().Add(15*time.Minute))
		c.Next()
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

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func validScheduleRequest() dto.CreateScheduleEntryRequest {
	return dto.CreateScheduleEntryRequest{
		MataKuliahID: testCourse,
		LabRoomID:    testRoomID,
		Hari:         "senin",
		Tanggal:      "2024-03-04",
		JamMulai:     "09:00",
		JamSelesai:   "11:00",
		Materi:       "Pengenalan alat",
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 28800}}
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(mock).Login)

	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "admin@akbid.ac.id", Password: "Secret123"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(&mockAuthService{}).Login)

	w := serve(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{"inactive", service.ErrUserInactive, http.StatusForbidden, 11002},
		{"store", errors.New("db down"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/auth/login", NewAuthHandler(&mockAuthService{loginErr: tt.err}).Login)

			w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@akbid.ac.id", Password: "wrongpass"}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_Logout_PassesJTI(t *testing.T) {
	mock := &mockAuthService{}
	r := gin.New()
	r.POST("/auth/logout", withAuth("admin"), NewAuthHandler(mock).Logout)

	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.logoutJTI)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	r := gin.New()
	r.GET("/auth/me", NewAuthHandler(&mockAuthService{}).Me)

	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Permissions(t *testing.T) {
	r := gin.New()
	r.GET("/me/permissions", withAuth("mahasiswa"), NewAuthHandler(&mockAuthService{}).Permissions)

	w := serve(r, "GET", "/me/permissions", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"role":"mahasiswa"`) {
		t.Errorf("expected role in body, got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_Create_ValidationRunsBeforeService(t *testing.T) {
	mock := &mockUserService{}
	r := gin.New()
	r.POST("/users", withAuth("admin"), NewUserHandler(mock, newValidator()).Create)

	w := serve(r, "POST", "/users", jsonBody(dto.CreateUserRequest{
		Email:    "not-an-email",
		FullName: "A",
		Role:     "mahasiswa",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected field map in details, got %T", resp.Details)
	}
	for _, field := range []string{"email", "full_name"} {
		if _, ok := details[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, details)
		}
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	mock := &mockUserService{createResult: &dto.CreateUserResponse{
		User:         dto.UserResponse{ID: testUserID},
		TempPassword: "Temp-1234",
	}}
	r := gin.New()
	r.POST("/users", withAuth("admin"), NewUserHandler(mock, newValidator()).Create)

	w := serve(r, "POST", "/users", jsonBody(dto.CreateUserRequest{
		Email:    "staf@akbid.ac.id",
		FullName: "Staf Admin",
		Role:     "admin",
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrUserNotFound, http.StatusNotFound, 20001},
		{"email exists", service.ErrEmailExists, http.StatusConflict, 20002},
		{"self delete", service.ErrUserSelfDelete, http.StatusBadRequest, 20004},
		{"has schedules", service.ErrUserHasSchedules, http.StatusConflict, 20005},
		{"store", fmtStoreErr(), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.DELETE("/users/:id", withAuth("admin"), NewUserHandler(&mockUserService{deleteErr: tt.err}, newValidator()).Delete)

			w := serve(r, "DELETE", "/users/"+testEntryID, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestUserHandler_Update_ResultingRecordInvalid(t *testing.T) {
	fields := validation.FieldErrors{"nim_nip": "is required for role dosen"}
	mock := &mockUserService{updateErr: fmt.Errorf("%w: %w", service.ErrUserInvalid, fields)}
	r := gin.New()
	r.PATCH("/users/:id", withAuth("admin"), NewUserHandler(mock, newValidator()).Update)

	w := serve(r, "PATCH", "/users/"+testEntryID, jsonBody(map[string]string{"nim_nip": ""}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
	details, ok := resp.Details.(map[string]interface{})
	if !ok || details["nim_nip"] != "is required for role dosen" {
		t.Errorf("expected nim_nip detail, got %v", resp.Details)
	}
}

func TestUserHandler_Get_MalformedID(t *testing.T) {
	r := gin.New()
	r.GET("/users/:id", NewUserHandler(&mockUserService{}, newValidator()).Get)

	w := serve(r, "GET", "/users/not-a-uuid", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func fmtStoreErr() error {
	return errors.Join(pkgerrors.ErrStore, errors.New("connection reset"))
}

// ═══════════════════════════════════════════════════════════
// LabRoomHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLabRoomHandler_List_Pagination(t *testing.T) {
	mock := &mockLabRoomService{
		listResult: []dto.LabRoomResponse{{ID: testRoomID}},
		listTotal:  21,
	}
	r := gin.New()
	r.GET("/lab-rooms", NewLabRoomHandler(mock, newValidator()).List)

	w := serve(r, "GET", "/lab-rooms?page=2&page_size=10&status=active", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.listReq.Status != "active" || mock.listReq.GetOffset() != 10 {
		t.Errorf("unexpected query binding: %+v", mock.listReq)
	}
	if !strings.Contains(w.Body.String(), `"total_pages":3`) {
		t.Errorf("expected 3 pages, got %s", w.Body.String())
	}
}

func TestLabRoomHandler_List_BadPageSize(t *testing.T) {
	r := gin.New()
	r.GET("/lab-rooms", NewLabRoomHandler(&mockLabRoomService{}, newValidator()).List)

	w := serve(r, "GET", "/lab-rooms?page_size=500", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLabRoomHandler_Create_Validation(t *testing.T) {
	r := gin.New()
	r.POST("/lab-rooms", withAuth("admin"), NewLabRoomHandler(&mockLabRoomService{}, newValidator()).Create)

	w := serve(r, "POST", "/lab-rooms", jsonBody(dto.CreateLabRoomRequest{
		KodeLab:   "lab 01",
		NamaLab:   "Laboratorium Anatomi",
		Kapasitas: 0,
		Lokasi:    "Gedung A",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	details, _ := parseResponse(w).Details.(map[string]interface{})
	if _, ok := details["kode_lab"]; !ok {
		t.Errorf("expected kode_lab error, got %v", details)
	}
	if _, ok := details["kapasitas"]; !ok {
		t.Errorf("expected kapasitas error, got %v", details)
	}
}

func TestLabRoomHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrLabRoomNotFound, http.StatusNotFound, 30001},
		{"has courses", service.ErrLabRoomHasCourses, http.StatusConflict, 30003},
		{"has schedule entries", service.ErrLabRoomHasSchedules, http.StatusConflict, 30005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.DELETE("/lab-rooms/:id", withAuth("admin"), NewLabRoomHandler(&mockLabRoomService{deleteErr: tt.err}, newValidator()).Delete)

			w := serve(r, "DELETE", "/lab-rooms/"+testRoomID, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestLabRoomHandler_Create_DuplicateCode(t *testing.T) {
	mock := &mockLabRoomService{createErr: service.ErrLabRoomCodeExists}
	r := gin.New()
	r.POST("/lab-rooms", withAuth("admin"), NewLabRoomHandler(mock, newValidator()).Create)

	w := serve(r, "POST", "/lab-rooms", jsonBody(dto.CreateLabRoomRequest{
		KodeLab:   "LAB-01",
		NamaLab:   "Laboratorium Anatomi",
		Kapasitas: 30,
		Lokasi:    "Gedung A",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 30002 {
		t.Errorf("expected code 30002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_AssignInstructor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"ok", nil, http.StatusOK, 0},
		{"not a dosen", service.ErrNotInstructor, http.StatusBadRequest, 40004},
		{"course missing", service.ErrCourseNotFound, http.StatusNotFound, 40001},
		{"user missing", service.ErrUserNotFound, http.StatusNotFound, 40006},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/courses/:id/assign-instructor", withAuth("admin"),
				NewCourseHandler(&mockCourseService{assignErr: tt.err}, newValidator()).AssignInstructor)

			w := serve(r, "POST", "/courses/"+testCourse+"/assign-instructor",
				jsonBody(dto.AssignInstructorRequest{DosenID: testUserID}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCourseHandler_Delete_HasSchedule(t *testing.T) {
	r := gin.New()
	r.DELETE("/courses/:id", withAuth("admin"),
		NewCourseHandler(&mockCourseService{deleteErr: service.ErrCourseHasSchedule}, newValidator()).Delete)

	w := serve(r, "DELETE", "/courses/"+testCourse, nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 40003 {
		t.Errorf("expected code 40003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_Create_Success(t *testing.T) {
	mock := &mockScheduleService{}
	r := gin.New()
	r.POST("/schedule-entries", withAuth("dosen"), NewScheduleHandler(mock, newValidator()).Create)

	w := serve(r, "POST", "/schedule-entries", jsonBody(validScheduleRequest()))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.lastCaller.UserID != testUserID || mock.lastCaller.Role != "dosen" {
		t.Errorf("unexpected caller: %+v", mock.lastCaller)
	}
}

func TestScheduleHandler_Create_InvalidSlotNeverReachesService(t *testing.T) {
	mock := &mockScheduleService{}
	r := gin.New()
	r.POST("/schedule-entries", withAuth("admin"), NewScheduleHandler(mock, newValidator()).Create)

	req := validScheduleRequest()
	req.JamMulai = "12:00"
	req.JamSelesai = "10:00"
	req.Hari = "selasa"
	w := serve(r, "POST", "/schedule-entries", jsonBody(req))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mock.createCalls != 0 {
		t.Errorf("service should not be called, got %d calls", mock.createCalls)
	}
	details, _ := parseResponse(w).Details.(map[string]interface{})
	if _, ok := details["jam_selesai"]; !ok {
		t.Errorf("expected jam_selesai error, got %v", details)
	}
	if _, ok := details["hari"]; !ok {
		t.Errorf("expected hari error, got %v", details)
	}
}

func TestScheduleHandler_Create_RoomConflict(t *testing.T) {
	conflict := &service.RoomConflictError{Conflicts: []dto.ScheduleConflict{{
		ID:         testEntryID,
		MataKuliah: "Pemrograman Dasar",
		Dosen:      "Dr. Sari",
		JamMulai:   "09:00",
		JamSelesai: "11:00",
	}}}
	mock := &mockScheduleService{createErr: conflict}
	r := gin.New()
	r.POST("/schedule-entries", withAuth("admin"), NewScheduleHandler(mock, newValidator()).Create)

	w := serve(r, "POST", "/schedule-entries", jsonBody(validScheduleRequest()))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 60002 {
		t.Errorf("expected code 60002, got %d", resp.Code)
	}
	if !strings.Contains(resp.Message, "Pemrograman Dasar") {
		t.Errorf("expected conflicting course in message, got %q", resp.Message)
	}
	details, ok := resp.Details.([]interface{})
	if !ok || len(details) != 1 {
		t.Fatalf("expected one conflict in details, got %v", resp.Details)
	}
}

func TestScheduleHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrScheduleEntryNotFound, http.StatusNotFound, 60001},
		{"slot busy", service.ErrSlotBusy, http.StatusConflict, 60003},
		{"bad transition", service.ErrInvalidStatusTransition, http.StatusBadRequest, 60004},
		{"not owner", service.ErrScheduleNotOwner, http.StatusForbidden, 60005},
		{"stale version", pkgerrors.ErrOptimisticLock, http.StatusConflict, 60010},
		{"store", fmtStoreErr(), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.PATCH("/schedule-entries/:id", withAuth("admin"),
				NewScheduleHandler(&mockScheduleService{updateErr: tt.err}, newValidator()).Update)

			status := "completed"
			w := serve(r, "PATCH", "/schedule-entries/"+testEntryID,
				jsonBody(dto.UpdateScheduleEntryRequest{Status: &status, Version: 2}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestScheduleHandler_Availability(t *testing.T) {
	mock := &mockScheduleService{availResult: &dto.AvailabilityResponse{
		Available: true,
		Conflicts: []dto.ScheduleConflict{},
	}}
	r := gin.New()
	r.POST("/schedule-entries/availability", withAuth("admin"), NewScheduleHandler(mock, newValidator()).Availability)

	w := serve(r, "POST", "/schedule-entries/availability", jsonBody(dto.AvailabilityRequest{
		LabRoomID:  testRoomID,
		Hari:       "senin",
		Tanggal:    "2024-03-04",
		JamMulai:   "09:00",
		JamSelesai: "10:00",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"conflicts":[]`) {
		t.Errorf("expected empty conflicts array, got %s", w.Body.String())
	}
}

func TestScheduleHandler_List_PassesCaller(t *testing.T) {
	mock := &mockScheduleService{}
	r := gin.New()
	r.GET("/schedule-entries", withAuth("dosen"), NewScheduleHandler(mock, newValidator()).List)

	w := serve(r, "GET", "/schedule-entries?hari=senin&tanggal_start=2024-03-01", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastCaller.Role != "dosen" {
		t.Errorf("expected dosen caller, got %+v", mock.lastCaller)
	}
}

func TestScheduleHandler_List_BadFilter(t *testing.T) {
	r := gin.New()
	r.GET("/schedule-entries", withAuth("admin"), NewScheduleHandler(&mockScheduleService{}, newValidator()).List)

	w := serve(r, "GET", "/schedule-entries?hari=monday", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Stats / Export / Validation Tests
// ═══════════════════════════════════════════════════════════

func TestStatsHandler_Dashboard(t *testing.T) {
	mock := &mockStatsService{result: &dto.DashboardStats{LabRooms: dto.LabRoomStats{Total: 3}}}
	r := gin.New()
	r.GET("/stats", withAuth("admin"), NewStatsHandler(mock).Dashboard)

	w := serve(r, "GET", "/stats", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	mock.err = errors.New("boom")
	w = serve(r, "GET", "/stats", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestExportHandler_XLSX(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "jadwal_praktikum_20240304.xlsx"}
	r := gin.New()
	r.GET("/schedule-entries/export.xlsx", withAuth("admin"), NewExportHandler(mock).ExportXLSX)

	w := serve(r, "GET", "/schedule-entries/export.xlsx", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "jadwal_praktikum_20240304.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_ICS_Failure(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportGenerateFail}
	r := gin.New()
	r.GET("/schedule-entries/export.ics", withAuth("admin"), NewExportHandler(mock).ExportICS)

	w := serve(r, "GET", "/schedule-entries/export.ics", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestValidationHandler(t *testing.T) {
	r := gin.New()
	r.POST("/validation/:entity", NewValidationHandler(newValidator()).Validate)

	t.Run("create record", func(t *testing.T) {
		w := serve(r, "POST", "/validation/lab-room", strings.NewReader(`{"kode_lab":"lab 1"}`))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"valid":false`) || !strings.Contains(body, `"kode_lab"`) {
			t.Errorf("expected kode_lab error, got %s", body)
		}
	})

	t.Run("partial record", func(t *testing.T) {
		w := serve(r, "POST", "/validation/lab-room?partial=true", strings.NewReader(`{"kapasitas":20}`))
		if !strings.Contains(w.Body.String(), `"valid":true`) {
			t.Errorf("expected valid partial record, got %s", w.Body.String())
		}
	})

	t.Run("unknown entity", func(t *testing.T) {
		w := serve(r, "POST", "/validation/invoice", strings.NewReader(`{}`))
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := serve(r, "POST", "/validation/course", strings.NewReader(`{`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-dashboard/internal/backend"
	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/mw"
	"equipment-dashboard/internal/page"
	"equipment-dashboard/internal/probe"
	"equipment-dashboard/internal/session"
	"equipment-dashboard/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
	auth  map[string]string
	mux   *http.ServeMux
}

func (fb *fakeBackend) handle(pattern string, status int, payload any) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			json.NewEncoder(w).Encode(payload)
		}
	})
}

func (fb *fakeBackend) count(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[key]
}

type testEnv struct {
	router     *gin.Engine
	backend    *fakeBackend
	backendURL string
	sessions   *session.Manager
}

func setupRouter(t *testing.T) *testEnv {
	fb := &fakeBackend{calls: map[string]int{}, auth: map[string]string{}, mux: http.NewServeMux()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		fb.mu.Lock()
		fb.calls[key]++
		fb.auth[key] = r.Header.Get("Authorization")
		fb.mu.Unlock()
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := backend.New(backend.Options{BaseURL: server.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)

	sessions := session.NewManager(storage.NewMemoryStorage(), "", time.Minute)
	handler := NewHandler(client, sessions, page.NewCache(time.Minute))
	router, err := NewRouter(handler, RouterOptions{})
	require.NoError(t, err)

	return &testEnv{router: router, backend: fb, backendURL: server.URL, sessions: sessions}
}

const (
	adminSID   = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	studentSID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	teacherSID = "9f0c1a52-4b1e-4c55-8d3a-2b7a6f1e0c11"
)

func (e *testEnv) signIn(t *testing.T, sid string, user model.User) {
	st, err := e.sessions.Open(context.Background(), sid)
	require.NoError(t, err)
	require.NoError(t, st.Login(context.Background(), user, "tok-"+string(user.Role)))
}

func (e *testEnv) do(method, path, sid string, form url.Values, accept string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: mw.DefaultCookieName, Value: sid})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

var (
	admin   = model.User{ID: 1, Name: "Ada", Email: "ada@school.edu", Role: model.RoleAdmin}
	teacher = model.User{ID: 2, Name: "Tess", Email: "tess@school.edu", Role: model.RoleTeacher}
	student = model.User{ID: 3, Name: "Sam", Email: "sam@school.edu", Role: model.RoleStudent}
)

func TestLoginRedirectsToLanding(t *testing.T) {
	env := setupRouter(t)
	env.backend.handle("POST /api/auth/login", http.StatusOK, map[string]any{"user": admin, "token": "secret"})
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{}})
	env.backend.handle("GET /api/loans", http.StatusOK, map[string]any{"loans": []model.Loan{}})

	form := url.Values{"email": {"ada@school.edu"}, "password": {"pw"}}
	w := env.do(http.MethodPost, "/login", adminSID, form, "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Empty(t, env.backend.auth["POST /api/auth/login"])

	w = env.do(http.MethodGet, "/dashboard", adminSID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dashboard")
	assert.Equal(t, "Bearer secret", env.backend.auth["GET /api/loans"])

	// Signed in users skip the login form.
	w = env.do(http.MethodGet, "/login", adminSID, nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestLoginRejectedCredentials(t *testing.T) {
	env := setupRouter(t)
	env.backend.handle("POST /api/auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})

	form := url.Values{"email": {"ada@school.edu"}, "password": {"nope"}}
	w := env.do(http.MethodPost, "/login", adminSID, form, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
}

func TestLoginValidation(t *testing.T) {
	env := setupRouter(t)

	form := url.Values{"email": {"not-an-email"}}
	w := env.do(http.MethodPost, "/login", "", form, "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error string `json:"Error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "Email must be a valid email address.")
	assert.Contains(t, body.Error, "Password is required.")
	assert.Zero(t, env.backend.count("POST /api/auth/login"))
}

func TestLogout(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, studentSID, student)

	w := env.do(http.MethodPost, "/logout", studentSID, url.Values{}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/equipments", studentSID, nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGuardedRoutes(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, studentSID, student)

	w := env.do(http.MethodGet, "/dashboard", "", nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/users", studentSID, nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/equipments", w.Header().Get("Location"))

	w = env.do(http.MethodPost, "/loans/42/approve", studentSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, env.backend.count("POST /api/loans/42/approve"))
}

type equipmentsResponse struct {
	Page struct {
		Error  string `json:"error"`
		Notice string `json:"notice"`
	} `json:"page"`
	Rows []struct {
		ID             int64                 `json:"id"`
		Status         model.EquipmentStatus `json:"status"`
		CanRequestLoan bool                  `json:"can_request_loan"`
	} `json:"rows"`
}

func TestRequestLoanShowsPendingWithoutRefetch(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, studentSID, student)
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{
		{ID: 7, Name: "Canon EOS", Type: model.EquipmentCamera, Status: model.EquipmentAvailable},
	}})
	env.backend.handle("POST /api/loans", http.StatusCreated, map[string]any{"loan": model.Loan{ID: 100, EquipmentID: 7, Status: model.LoanPending}})

	w := env.do(http.MethodGet, "/equipments", studentSID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Request loan")

	w = env.do(http.MethodPost, "/equipments/7/request", studentSID, url.Values{}, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp equipmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, model.EquipmentPending, resp.Rows[0].Status)
	assert.False(t, resp.Rows[0].CanRequestLoan)
	assert.NotEmpty(t, resp.Page.Notice)
	assert.Equal(t, 1, env.backend.count("GET /api/equipments"))
}

func TestRequestLoanReportsFailedFirstLoad(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, studentSID, student)

	var failing sync.Mutex
	down := true
	env.backend.mux.HandleFunc("GET /api/equipments", func(w http.ResponseWriter, r *http.Request) {
		failing.Lock()
		defer failing.Unlock()
		if down {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"equipments": []model.Equipment{
			{ID: 7, Name: "Canon EOS", Type: model.EquipmentCamera, Status: model.EquipmentAvailable},
		}})
	})
	env.backend.handle("POST /api/loans", http.StatusCreated, map[string]any{"loan": model.Loan{ID: 100, EquipmentID: 7, Status: model.LoanPending}})

	w := env.do(http.MethodPost, "/equipments/7/request", studentSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp equipmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to load equipments", resp.Page.Error)
	assert.Zero(t, env.backend.count("POST /api/loans"))

	// Once the backend recovers the next request loads the list and succeeds.
	failing.Lock()
	down = false
	failing.Unlock()

	w = env.do(http.MethodPost, "/equipments/7/request", studentSID, url.Values{}, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, model.EquipmentPending, resp.Rows[0].Status)
	assert.Equal(t, 1, env.backend.count("POST /api/loans"))
}

func TestLoanActionReportsFailedFirstLoad(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)
	env.backend.handle("GET /api/loans", http.StatusInternalServerError, nil)
	env.backend.handle("GET /api/users", http.StatusOK, map[string]any{"users": []model.User{}})
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{}})

	w := env.do(http.MethodPost, "/loans/42/approve", adminSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to load loans", resp.Page.Error)
	assert.Zero(t, env.backend.count("POST /api/loans/42/approve"))
}

func TestLoanActionIgnoresOptionsFailure(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)
	env.backend.handle("GET /api/loans", http.StatusOK, map[string]any{"loans": []model.Loan{
		{ID: 42, UserID: 3, EquipmentID: 7, Status: model.LoanPending},
	}})
	env.backend.handle("GET /api/users", http.StatusInternalServerError, nil)
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{}})
	env.backend.handle("POST /api/loans/42/approve", http.StatusOK, map[string]any{"loan": model.Loan{ID: 42, Status: model.LoanActive}})

	w := env.do(http.MethodPost, "/loans/42/approve", adminSID, url.Values{}, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Page.Loans, 1)
	assert.Equal(t, model.LoanActive, resp.Page.Loans[0].Status)
}

func TestAdminEditsEquipment(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)
	env.signIn(t, teacherSID, teacher)
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{
		{ID: 7, Name: "Canon EOS", Type: model.EquipmentCamera, Status: model.EquipmentUnderMaintenance},
	}})
	env.backend.handle("PUT /api/equipments/7", http.StatusOK, map[string]any{"equipment": model.Equipment{ID: 7}})
	env.backend.handle("DELETE /api/equipments/7", http.StatusOK, map[string]string{"message": "Equipment deleted"})

	w := env.do(http.MethodPost, "/equipments/manage/7", teacherSID, url.Values{"status": {"under_maintenance"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/equipments", w.Header().Get("Location"))
	assert.Zero(t, env.backend.count("PUT /api/equipments/7"))

	w = env.do(http.MethodPost, "/equipments/manage/7", adminSID, url.Values{"status": {"broken"}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Status must be one of: available, pending, loaned, under_maintenance.")

	w = env.do(http.MethodPost, "/equipments/manage/7", adminSID, url.Values{"status": {"under_maintenance"}}, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	var resp equipmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Equipment updated.", resp.Page.Notice)
	assert.Equal(t, 1, env.backend.count("PUT /api/equipments/7"))

	w = env.do(http.MethodPost, "/equipments/manage/7/delete", adminSID, url.Values{}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Equipment deleted.")
	assert.Equal(t, 1, env.backend.count("DELETE /api/equipments/7"))

	w = env.do(http.MethodGet, "/equipments", adminSID, nil, "")
	assert.Contains(t, w.Body.String(), `action="/equipments/manage/7"`)
	w = env.do(http.MethodGet, "/equipments", teacherSID, nil, "")
	assert.NotContains(t, w.Body.String(), "/equipments/manage/")
}

func TestAdminEditsUsers(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)
	env.backend.handle("GET /api/users", http.StatusOK, map[string]any{"users": []model.User{student}})
	env.backend.handle("PUT /api/users/3", http.StatusOK, map[string]any{"user": student})
	env.backend.handle("DELETE /api/users/3", http.StatusOK, map[string]string{"message": "User deleted"})

	w := env.do(http.MethodPost, "/users/3/edit", adminSID, url.Values{"role": {"teacher"}}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.backend.count("PUT /api/users/3"))

	w = env.do(http.MethodPost, "/users/3/delete", adminSID, url.Values{}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.backend.count("DELETE /api/users/3"))

	w = env.do(http.MethodPost, "/users/abc/delete", adminSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherRecordsAlert(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, teacherSID, teacher)
	env.signIn(t, studentSID, student)
	env.backend.handle("GET /api/alerts", http.StatusOK, map[string]any{"alerts": []model.Alert{}})
	env.backend.handle("POST /api/alerts", http.StatusCreated, map[string]any{"alert": model.Alert{ID: 1}})

	w := env.do(http.MethodGet, "/alerts", teacherSID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/alerts/new"`)

	w = env.do(http.MethodPost, "/alerts/new", teacherSID, url.Values{"loan_id": {"42"}, "alert_type": {"overdue"}}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.backend.count("POST /api/alerts"))

	w = env.do(http.MethodPost, "/alerts/new", studentSID, url.Values{"loan_id": {"42"}, "alert_type": {"overdue"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, env.backend.count("POST /api/alerts"))
}

type loansResponse struct {
	Page struct {
		Error string       `json:"error"`
		Loans []model.Loan `json:"loans"`
	} `json:"page"`
}

func TestApproveFailureKeepsLoanPending(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)
	env.backend.handle("GET /api/loans", http.StatusOK, map[string]any{"loans": []model.Loan{
		{ID: 42, UserID: 3, EquipmentID: 7, Status: model.LoanPending},
	}})
	env.backend.handle("GET /api/users", http.StatusOK, map[string]any{"users": []model.User{student}})
	env.backend.handle("GET /api/equipments", http.StatusOK, map[string]any{"equipments": []model.Equipment{}})
	env.backend.handle("POST /api/loans/42/approve", http.StatusInternalServerError, nil)

	w := env.do(http.MethodGet, "/loans", adminSID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/loans/42/approve", adminSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Page.Loans, 1)
	assert.Equal(t, model.LoanPending, resp.Page.Loans[0].Status)
	assert.Equal(t, "Failed to approve loan", resp.Page.Error)
	assert.Equal(t, 1, env.backend.count("POST /api/loans/42/approve"))
}

func TestLoanActionUnknown(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)

	w := env.do(http.MethodPost, "/loans/42/archive", adminSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/loans/abc/approve", adminSID, url.Values{}, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiredBackendSessionSignsOut(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, studentSID, student)
	env.backend.handle("GET /api/equipments", http.StatusUnauthorized, map[string]string{"message": "Token has expired"})

	w := env.do(http.MethodGet, "/equipments", studentSID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Your session has expired, please sign in again.")

	st, err := env.sessions.Open(context.Background(), studentSID)
	require.NoError(t, err)
	assert.False(t, st.Authenticated())

	w = env.do(http.MethodGet, "/equipments", studentSID, nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)

	form := url.Values{"name": {"Sam"}, "email": {"sam"}, "password": {"123"}, "role": {"janitor"}}
	w := env.do(http.MethodPost, "/users", adminSID, form, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Email must be a valid email address.")
	assert.Contains(t, body, "Password must be at least 6 characters.")
	assert.Contains(t, body, "Role must be one of: admin, teacher, student.")
	assert.Zero(t, env.backend.count("POST /api/users"))
}

func TestHomeCallToAction(t *testing.T) {
	env := setupRouter(t)
	env.signIn(t, adminSID, admin)

	w := env.do(http.MethodGet, "/", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/login"`)

	w = env.do(http.MethodGet, "/", adminSID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Open the dashboard")
}

func TestHealth(t *testing.T) {
	env := setupRouter(t)
	w := env.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthReportsBackendProbe(t *testing.T) {
	env := setupRouter(t)
	env.backend.handle("GET /api/health", http.StatusOK, map[string]string{"status": "ok"})

	client, err := backend.New(backend.Options{BaseURL: env.backendURL + "/api"})
	require.NoError(t, err)
	p := probe.NewService(client, time.Second)
	p.CheckOnce(context.Background())

	r := gin.New()
	r.GET("/healthz", GetHealth(p))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	var body struct {
		Status  string       `json:"status"`
		Backend probe.Status `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Backend.Up)
}

func TestTemplatesDefinePages(t *testing.T) {
	tmpl, err := loadTemplates()
	require.NoError(t, err)
	for _, name := range []string{"home.html", "login.html", "dashboard.html", "equipments.html", "loans.html", "history.html", "users.html", "alerts.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

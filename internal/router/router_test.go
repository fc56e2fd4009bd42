package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-console/internal/handler"
	appointmentHandler "github.com/jwalitptl/care-console/internal/handler/appointment"
	doctorHandler "github.com/jwalitptl/care-console/internal/handler/doctor"
	"github.com/jwalitptl/care-console/internal/handler/health"
	patientHandler "github.com/jwalitptl/care-console/internal/handler/patient"
	promHandler "github.com/jwalitptl/care-console/internal/handler/prometheus"
	specialtyHandler "github.com/jwalitptl/care-console/internal/handler/specialty"
	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository/rest"
	"github.com/jwalitptl/care-console/internal/repository/rest/resttest"
	"github.com/jwalitptl/care-console/internal/session"
	"github.com/jwalitptl/care-console/internal/worker"
	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

type fixture struct {
	engine  *gin.Engine
	backend *resttest.Server
	probe   *worker.BackendProbeWorker
	pinger  *fakePinger
}

func setup(t *testing.T, opts ...func(*RouterConfig)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := resttest.New(t)
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, "console")
	client := rest.NewClient(rest.Config{BaseURL: backend.URL, Timeout: time.Second}, m)

	sessions := session.NewStore(session.Config{TTL: time.Minute}, session.Deps{
		Patients:    rest.NewPatientRepository(client),
		Doctors:     rest.NewDoctorRepository(client),
		Specialties: rest.NewSpecialtyRepository(client),
		Now:         func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) },
	}, m)

	pinger := &fakePinger{}
	probe := worker.NewBackendProbeWorker(pinger, "@every 1h", time.Second, logger.Nop(), m)

	r, err := NewRouter(Handlers{
		Pages:        handler.NewHandler(),
		Health:       health.NewHandler(probe),
		Metrics:      promHandler.New(registry).Handler(),
		Appointments: appointmentHandler.NewHandler(),
		Patients:     patientHandler.NewHandler(),
		Doctors:      doctorHandler.NewHandler(),
		Specialties:  specialtyHandler.NewHandler(),
	}, sessions, m, routerConfig(opts...))
	require.NoError(t, err)
	r.Setup()

	return &fixture{engine: r.Engine(), backend: backend, probe: probe, pinger: pinger}
}

func routerConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		RequestTimeout: 5 * time.Second,
		CookieName:     "console_session",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func (f *fixture) browser(t *testing.T) *browser {
	return &browser{t: t, engine: f.engine}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "console_session" {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.do(req)
	require.Equal(b.t, http.StatusSeeOther, w.Code, "post %s: %s", path, w.Body.String())
	return w
}

var tokenRE = regexp.MustCompile(`name="token" value="([^"]+)"`)

func (b *browser) token(path string) string {
	m := tokenRE.FindStringSubmatch(b.get(path).Body.String())
	require.Len(b.t, m, 2, "no open form on %s", path)
	return m[1]
}

func TestPages(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	w := b.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the Healthcare Management System")
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.False(t, b.cookie.Secure)

	w = b.get("/dashboard")
	assert.Contains(t, w.Body.String(), "Total Appointments")
	assert.Contains(t, w.Body.String(), "120")

	w = b.get("/landing")
	assert.Contains(t, w.Body.String(), `href="/signup"`)

	w = b.get("/login")
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = b.get("/specialties")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/Specialties", w.Header().Get("Location"))

	w = b.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatientFlow(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	w := b.get("/patients")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	b.post("/patients/new", nil)
	token := b.token("/patients")

	// Missing email keeps the form open with the message.
	b.post("/patients/save", url.Values{"token": {token}, "first_name": {"Ann"}, "last_name": {"Lee"}, "date_of_birth": {"1990-02-03"}})
	assert.Contains(t, b.get("/patients").Body.String(), "and Email are mandatory fields.")
	assert.Empty(t, f.backend.Patients())

	token = b.token("/patients")
	form := url.Values{
		"token":         {token},
		"first_name":    {"Ann"},
		"last_name":     {"Lee"},
		"date_of_birth": {"1990-02-03"},
		"gender":        {"Female"},
		"email":         {"ann@example.com"},
	}
	w = b.post("/patients/save", form)
	assert.Equal(t, "/patients", w.Header().Get("Location"))
	require.Len(t, f.backend.Patients(), 1)

	// Replaying the submitted form is ignored.
	b.post("/patients/save", form)
	assert.Len(t, f.backend.Patients(), 1)

	body := b.get("/patients").Body.String()
	assert.Contains(t, body, "ann@example.com")
	assert.NotContains(t, body, `name="token"`)

	id := f.backend.Patients()[0].PatientID.String()
	b.post("/patients/"+id+"/delete", nil)
	assert.Empty(t, f.backend.Patients())
}

func TestPatientErrors(t *testing.T) {
	f := setup(t)
	b := f.browser(t)
	b.get("/patients")

	req := httptest.NewRequest(http.MethodPost, "/patients/missing/edit", nil)
	req.Header.Set("Accept", "application/json")
	w := b.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":404`)

	b.post("/patients/new", nil)
	req = httptest.NewRequest(http.MethodPost, "/patients/save", strings.NewReader(url.Values{"gender": {"Unknown"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = b.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid gender")
}

func TestSecureSessionCookie(t *testing.T) {
	f := setup(t, func(cfg *RouterConfig) { cfg.SecureCookie = true })
	b := f.browser(t)

	assert.Equal(t, http.StatusOK, b.get("/").Code)
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.Secure)
	assert.True(t, b.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, b.cookie.SameSite)
}

func TestSessionsAreSeparate(t *testing.T) {
	f := setup(t)
	a, other := f.browser(t), f.browser(t)

	a.get("/appointments")
	a.post("/appointments/1/delete", nil)
	assert.NotContains(t, a.get("/appointments").Body.String(), "John Doe")
	assert.Contains(t, other.get("/appointments").Body.String(), "John Doe")
}

func TestAppointmentFlow(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	body := b.get("/appointments").Body.String()
	assert.Contains(t, body, "John Doe")
	assert.Contains(t, body, "Emily Davis")
	assert.NotContains(t, body, "Jane Roe")

	b.post("/appointments/filter", url.Values{"date": {"2024-01-20"}})
	assert.Contains(t, b.get("/appointments").Body.String(), "No appointments for this date.")

	b.post("/appointments/grouping", nil)
	body = b.get("/appointments").Body.String()
	assert.Contains(t, body, "Dr. Smith")
	assert.Contains(t, body, "Jane Roe")
	b.post("/appointments/grouping", nil)

	b.post("/appointments/new", nil)
	body = b.get("/appointments").Body.String()
	assert.NotContains(t, body, "New Date")
	token := b.token("/appointments")
	b.post("/appointments/draft", url.Values{
		"token": {token}, "name": {"Raj"}, "date": {"2024-01-15"}, "time": {"09:00"},
		"doctor": {"Dr. Smith"}, "status": {"Rescheduled"},
	})
	body = b.get("/appointments").Body.String()
	assert.Contains(t, body, "New Date")
	assert.Equal(t, 1, strings.Count(body, `name="date" value="2024-01-15"`))
	assert.Contains(t, body, "Please select a future date")

	token = b.token("/appointments")
	b.post("/appointments/save", url.Values{
		"token": {token}, "name": {"Raj"}, "date": {"2024-01-15"}, "time": {"09:00"},
		"doctor": {"Dr. Smith"}, "status": {"Rescheduled"},
	})
	body = b.get("/appointments").Body.String()
	assert.Contains(t, body, "Please select a future date")

	token = b.token("/appointments")
	b.post("/appointments/save", url.Values{
		"token": {token}, "name": {"Raj"}, "date": {"2024-01-20"}, "time": {"09:00"},
		"doctor": {"Dr. Smith"}, "status": {"Rescheduled"},
	})
	body = b.get("/appointments").Body.String()
	assert.Contains(t, body, "Raj")
	assert.NotContains(t, body, "Please select a future date")
}

func TestDoctorDeleteConfirmation(t *testing.T) {
	f := setup(t)
	id := f.backend.AddDoctor(model.Doctor{FirstName: "Asha", LastName: "Rao", Specialty: "Cardiology"})
	b := f.browser(t)

	assert.Contains(t, b.get("/doctors?q=cardio").Body.String(), "Dr. Asha Rao")
	assert.Contains(t, b.get("/doctors?q=derm").Body.String(), "No doctors found.")

	b.post("/doctors/"+id+"/delete", nil)
	assert.Contains(t, b.get("/doctors").Body.String(), "Are you sure you want to delete Dr. Asha Rao?")
	assert.Len(t, f.backend.Doctors(), 1)

	b.post("/doctors/delete/confirm", nil)
	assert.Empty(t, f.backend.Doctors())
	assert.Contains(t, b.get("/doctors").Body.String(), "Doctor deleted successfully.")

	b.post("/doctors/notice/ack", nil)
	assert.NotContains(t, b.get("/doctors").Body.String(), "Doctor deleted successfully.")
}

func TestDoctorTabsKeepDraft(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	b.post("/doctors/new", nil)
	token := b.token("/doctors")
	b.post("/doctors/tab", url.Values{"token": {token}, "tab": {"3"}, "first_name": {"Ravi"}, "clinic_name": {"Skin First"}})

	body := b.get("/doctors").Body.String()
	assert.Contains(t, body, `value="Ravi"`)
	assert.Contains(t, body, `value="Skin First"`)
	assert.Contains(t, body, "Clinic Details")

	b.post("/doctors/save", url.Values{"token": {b.token("/doctors")}, "first_name": {"Ravi"}, "phone_number": {"123"}})
	assert.Empty(t, f.backend.Doctors())
}

func TestSpecialtyFlash(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	b.post("/Specialties/new", nil)
	token := b.token("/Specialties")
	b.post("/Specialties/save", url.Values{"token": {token}, "name": {"Dermatology"}, "common_conditions": {" acne , eczema,"}})

	require.Len(t, f.backend.Specialties(), 1)
	assert.Equal(t, model.StringList{"acne", "eczema"}, f.backend.Specialties()[0].CommonConditions)

	body := b.get("/Specialties").Body.String()
	assert.Contains(t, body, "Specialty created successfully")
	assert.Contains(t, body, "acne, eczema")
	assert.NotContains(t, b.get("/Specialties").Body.String(), "Specialty created successfully")
}

func TestHealthAndMetrics(t *testing.T) {
	f := setup(t)
	b := f.browser(t)

	w := b.get("/health/live")
	assert.Equal(t, http.StatusOK, w.Code)

	w = b.get("/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Nil(t, b.cookie, "health checks do not open sessions")

	f.probe.Probe(context.Background())
	assert.Equal(t, http.StatusOK, b.get("/health/ready").Code)

	f.pinger.err = errors.New("connection refused")
	f.probe.Probe(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, b.get("/health/ready").Code)

	b.get("/")
	w = b.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `console_http_requests_total{method="GET",path="/",status="200"}`)
	assert.Contains(t, w.Body.String(), "console_active_sessions 1")
}

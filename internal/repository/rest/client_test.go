package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository/rest"
	"github.com/jwalitptl/care-console/internal/repository/rest/resttest"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

func newClient(t *testing.T, url string, failures int) (*rest.Client, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	return rest.NewClient(rest.Config{
		BaseURL:         url,
		Timeout:         2 * time.Second,
		BreakerFailures: failures,
		BreakerCooldown: time.Minute,
	}, m), m
}

func TestPatientRepository_CRUD(t *testing.T) {
	backend := resttest.New(t)
	client, m := newClient(t, backend.URL, 0)
	repo := rest.NewPatientRepository(client)
	ctx := context.Background()

	id, err := repo.Create(ctx, model.Patient{FirstName: "Ann", LastName: "Lee", DateOfBirth: "1990-01-01", Email: "ann@x.io"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ID(id), list[0].PatientID)

	require.NoError(t, repo.Update(ctx, id, model.Patient{FirstName: "Anna", LastName: "Lee"}))
	assert.Equal(t, "Anna", backend.Patients()[0].FirstName)

	require.NoError(t, repo.Delete(ctx, id))
	assert.Empty(t, backend.Patients())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("patients", "create", "success")))
}

func TestPatientRepository_BodyOmitsIdentity(t *testing.T) {
	backend := resttest.New(t)
	client, _ := newClient(t, backend.URL, 0)
	repo := rest.NewPatientRepository(client)
	id := backend.AddPatient(model.Patient{FirstName: "Ann"})

	require.NoError(t, repo.Update(context.Background(), id, model.Patient{PatientID: model.ID(id), FirstName: "Bo"}))

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/api/patients/"+id, calls[0].Path)
	var body map[string]interface{}
	resttest.DecodeBody(t, calls[0], &body)
	assert.NotContains(t, body, "patient_id")
}

func TestClient_StatusErrors(t *testing.T) {
	backend := resttest.New(t)
	client, m := newClient(t, backend.URL, 0)
	repo := rest.NewDoctorRepository(client)
	backend.Fail(http.MethodDelete, "doctors", http.StatusInternalServerError)

	err := repo.Delete(context.Background(), "d-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStatus))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("doctors", "delete", "status")))

	err = repo.Update(context.Background(), "missing", model.Doctor{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStatus))
}

func TestClient_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, _ := newClient(t, url, 0)
	_, err := rest.NewSpecialtyRepository(client).List(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrTransport))
}

func TestClient_UndecodableBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	client, m := newClient(t, srv.URL, 0)
	_, err := rest.NewPatientRepository(client).List(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrDecode))
	assert.False(t, apperrors.IsCode(err, apperrors.ErrTransport))
	assert.NotContains(t, err.Error(), "backend unreachable")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("patients", "list", "decode")))
}

func TestClient_DecodeErrorsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/patients" {
			_, _ = w.Write([]byte(`{"not":"a list"`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL, 2)
	ctx := context.Background()
	patients := rest.NewPatientRepository(client)
	for i := 0; i < 5; i++ {
		_, err := patients.List(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrDecode))
	}

	list, err := rest.NewSpecialtyRepository(client).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPatientRepository_NumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"patient_id":1,"first_name":"Ann","last_name":"Lee"}]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"patient_id":7,"message":"Patient created successfully"}`))
		}
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL, 0)
	repo := rest.NewPatientRepository(client)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ID("1"), list[0].PatientID)
	assert.Equal(t, "Ann", list[0].FirstName)

	id, err := repo.Create(ctx, model.Patient{FirstName: "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestDoctorRepository_NumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"doctor_id":12}`))
			return
		}
		_, _ = w.Write([]byte(`[{"doctor_id":3,"first_name":"Raj"}]`))
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL, 0)
	repo := rest.NewDoctorRepository(client)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3", list[0].DoctorID.String())

	id, err := repo.Create(context.Background(), model.Doctor{FirstName: "Mia"})
	require.NoError(t, err)
	assert.Equal(t, "12", id)
}

func TestClient_BreakerOpensOnTransportOnly(t *testing.T) {
	backend := resttest.New(t)
	client, _ := newClient(t, backend.URL, 2)
	repo := rest.NewSpecialtyRepository(client)
	ctx := context.Background()

	// Status failures never trip the breaker.
	backend.Fail(http.MethodGet, "specialties", http.StatusServiceUnavailable)
	for i := 0; i < 3; i++ {
		_, err := repo.List(ctx)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrStatus))
	}
	assert.Equal(t, 3, backend.CallCount(http.MethodGet, "/api/specialties"))

	backend.Close()
	for i := 0; i < 2; i++ {
		_, err := repo.List(ctx)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrTransport))
	}
	_, err := repo.List(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrTransport))
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestSpecialtyRepository_Messages(t *testing.T) {
	backend := resttest.New(t)
	client, _ := newClient(t, backend.URL, 0)
	repo := rest.NewSpecialtyRepository(client)
	ctx := context.Background()

	res, err := repo.Create(ctx, model.Specialty{Name: "Cardiology", CommonConditions: model.StringList{"flu", "cold"}})
	require.NoError(t, err)
	assert.Equal(t, "Specialty created successfully", res.Message)

	var body map[string]interface{}
	resttest.DecodeBody(t, backend.Calls()[0], &body)
	assert.Equal(t, []interface{}{"flu", "cold"}, body["common_conditions"])

	res, err = repo.Delete(ctx, res.SpecialtyID.String())
	require.NoError(t, err)
	assert.Equal(t, "Specialty deleted successfully", res.Message)
}

func TestAppointmentRepository_List(t *testing.T) {
	backend := resttest.New(t)
	backend.SetAppointments(model.Appointment{ID: 7, Name: "Kim", Date: "2024-02-01", Status: model.AppointmentStatusVisited})
	client, _ := newClient(t, backend.URL, 0)

	list, err := rest.NewAppointmentRepository(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].ID)
	assert.Equal(t, model.AppointmentStatusVisited, list[0].Status)
}

func TestClient_Ping(t *testing.T) {
	backend := resttest.New(t)
	client, _ := newClient(t, backend.URL, 0)
	assert.NoError(t, client.Ping(context.Background()))
}

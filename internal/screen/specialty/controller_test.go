package specialty_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository/rest"
	"github.com/jwalitptl/care-console/internal/repository/rest/resttest"
	"github.com/jwalitptl/care-console/internal/screen/specialty"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

func setup(t *testing.T) (*specialty.Controller, *resttest.Server) {
	t.Helper()
	backend := resttest.New(t)
	client := rest.NewClient(rest.Config{BaseURL: backend.URL, Timeout: time.Second}, metrics.NewMetrics(prometheus.NewRegistry(), "test"))
	return specialty.NewController(specialty.Options{Repo: rest.NewSpecialtyRepository(client)}), backend
}

func TestSave_SplitsListsOnTheWire(t *testing.T) {
	c, backend := setup(t)
	c.OpenModal(nil)

	draft := model.Specialty{
		Name:             "General Medicine",
		CommonConditions: model.SplitList("flu, cold"),
		Subspecialties:   model.SplitList(""),
		SpecialistCount:  4,
	}
	require.NoError(t, c.Save(context.Background(), c.Modal.Token, draft))

	var body map[string]interface{}
	resttest.DecodeBody(t, backend.Calls()[0], &body)
	assert.Equal(t, []interface{}{"flu", "cold"}, body["common_conditions"])
	assert.Equal(t, []interface{}{}, body["subspecialties"])
	assert.NotContains(t, body, "specialty_id")

	assert.Equal(t, "Specialty created successfully", c.TakeFlash())
	assert.Empty(t, c.TakeFlash(), "flash is consumed")
	assert.False(t, c.Modal.Open)

	// Saved lists are reloaded, not appended locally.
	require.Len(t, c.Specialties(), 1)
	loaded := c.Specialties()[0]
	assert.Equal(t, "flu, cold", model.JoinList(loaded.CommonConditions))
	assert.Equal(t, loaded.CommonConditions, model.SplitList(model.JoinList(loaded.CommonConditions)))
	assert.Equal(t, 1, backend.CallCount(http.MethodGet, "/api/specialties"))
}

func TestSave_NameRequired(t *testing.T) {
	c, backend := setup(t)
	c.OpenModal(nil)

	err := c.Save(context.Background(), c.Modal.Token, model.Specialty{Description: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Equal(t, specialty.NameMessage, c.Modal.Error)
	assert.Empty(t, backend.Calls())
}

func TestSave_UpdateKeepsIdentity(t *testing.T) {
	c, backend := setup(t)
	id := backend.AddSpecialty(model.Specialty{Name: "Cardiology"})
	c.LoadAll(context.Background())

	s, ok := c.Find(id)
	require.True(t, ok)
	c.OpenModal(&s)
	require.NoError(t, c.Save(context.Background(), c.Modal.Token, model.Specialty{Name: "Cardiology", GoverningBody: "CSI"}))

	assert.Equal(t, "Specialty updated successfully", c.TakeFlash())
	assert.Equal(t, 1, backend.CallCount(http.MethodPut, "/api/specialties/"+id))
	got, _ := c.Find(id)
	assert.Equal(t, "CSI", got.GoverningBody)
}

func TestSave_FailureFlashesAndKeepsForm(t *testing.T) {
	c, backend := setup(t)
	backend.Fail(http.MethodPost, "specialties", http.StatusInternalServerError)
	c.OpenModal(nil)

	err := c.Save(context.Background(), c.Modal.Token, model.Specialty{Name: "Oncology"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStatus))
	assert.Equal(t, specialty.SaveFailedMessage, c.TakeFlash())
	assert.True(t, c.Modal.Open)
	assert.Equal(t, "Oncology", c.Modal.Draft.Name)

	// The redrawn form carries a fresh token and can be retried.
	backend.Fail(http.MethodPost, "specialties", 0)
	require.NoError(t, c.Save(context.Background(), c.Modal.Token, c.Modal.Draft))
	assert.Len(t, c.Specialties(), 1)
}

func TestDelete(t *testing.T) {
	c, backend := setup(t)
	id := backend.AddSpecialty(model.Specialty{Name: "Cardiology"})
	c.LoadAll(context.Background())

	require.NoError(t, c.Delete(context.Background(), id))
	assert.Equal(t, "Specialty deleted successfully", c.TakeFlash())
	assert.Empty(t, c.Specialties())

	err := c.Delete(context.Background(), id)
	assert.Error(t, err)
	assert.Equal(t, specialty.DeleteFailedMessage, c.TakeFlash())
}

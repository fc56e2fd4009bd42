package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/handler"
	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/screen/patient"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

const page = "/patients"

type Handler struct {
	handler.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{}
}

type patientForm struct {
	Token       string `form:"token"`
	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	DateOfBirth string `form:"date_of_birth"`
	Gender      string `form:"gender"`
	PhoneNumber string `form:"phone_number"`
	Email       string `form:"email"`
	Address     string `form:"address"`
}

func (f patientForm) toModel() (model.Patient, error) {
	gender, err := model.ParseGender(f.Gender, model.PatientGenders)
	if err != nil {
		return model.Patient{}, apperrors.NewBadRequest("invalid gender", err)
	}
	return model.Patient{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		DateOfBirth: f.DateOfBirth,
		Gender:      gender,
		PhoneNumber: f.PhoneNumber,
		Email:       f.Email,
		Address:     f.Address,
	}, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.ListPatients)
	r.POST("/new", h.New)
	r.POST("/save", h.SavePatient)
	r.POST("/close", h.Close)
	r.POST("/:id/edit", h.Edit)
	r.POST("/:id/delete", h.DeletePatient)
}

func (h *Handler) controller(c *gin.Context) *patient.Controller {
	return h.Session(c).Patients(c.Request.Context(), h.Remount(c))
}

func (h *Handler) ListPatients(c *gin.Context) {
	h.Render(c, "patients.html", gin.H{"C": h.controller(c)})
}

func (h *Handler) New(c *gin.Context) {
	h.controller(c).OpenModal(nil)
	h.Settle(c, page, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	ctrl := h.controller(c)
	p, ok := ctrl.Find(c.Param("id"))
	if !ok {
		h.Fail(c, apperrors.NewNotFound("patient", nil))
		return
	}
	ctrl.OpenModal(&p)
	h.Settle(c, page, nil)
}

func (h *Handler) SavePatient(c *gin.Context) {
	var form patientForm
	if !h.Bind(c, &form) {
		return
	}
	draft, err := form.toModel()
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Settle(c, page, h.controller(c).Save(c.Request.Context(), form.Token, draft))
}

func (h *Handler) Close(c *gin.Context) {
	h.controller(c).CloseModal()
	h.Settle(c, page, nil)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	ctrl := h.controller(c)
	id := c.Param("id")
	if _, ok := ctrl.Find(id); !ok {
		h.Fail(c, apperrors.NewNotFound("patient", nil))
		return
	}
	h.Settle(c, page, ctrl.Delete(c.Request.Context(), id))
}

package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/handler"
	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/screen/doctor"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

const page = "/doctors"

type Handler struct {
	handler.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{}
}

type doctorForm struct {
	Token              string  `form:"token"`
	Tab                int     `form:"tab"`
	FirstName          string  `form:"first_name"`
	LastName           string  `form:"last_name"`
	Gender             string  `form:"gender"`
	PhoneNumber        string  `form:"phone_number"`
	Email              string  `form:"email"`
	Address            string  `form:"address"`
	Specialty          string  `form:"specialty"`
	Qualification      string  `form:"qualification"`
	Experience         int     `form:"experience"`
	ClinicName         string  `form:"clinic_name"`
	ClinicTiming       string  `form:"clinic_timing"`
	ConsultationFee    float64 `form:"consultation_fee"`
	RegistrationNumber string  `form:"registration_number"`
	AadhaarNumber      string  `form:"aadhaar_number"`
	DateOfBirth        string  `form:"date_of_birth"`
	PhotoURL           string  `form:"photo_url"`
}

func (f doctorForm) toModel() (model.Doctor, error) {
	gender, err := model.ParseGender(f.Gender, model.DoctorGenders)
	if err != nil {
		return model.Doctor{}, apperrors.NewBadRequest("invalid gender", err)
	}
	return model.Doctor{
		FirstName:          f.FirstName,
		LastName:           f.LastName,
		Gender:             gender,
		PhoneNumber:        f.PhoneNumber,
		Email:              f.Email,
		Address:            f.Address,
		Specialty:          f.Specialty,
		Qualification:      f.Qualification,
		Experience:         f.Experience,
		ClinicName:         f.ClinicName,
		ClinicTiming:       f.ClinicTiming,
		ConsultationFee:    f.ConsultationFee,
		RegistrationNumber: f.RegistrationNumber,
		AadhaarNumber:      f.AadhaarNumber,
		DateOfBirth:        f.DateOfBirth,
		PhotoURL:           f.PhotoURL,
	}, nil
}

type openForm struct {
	Mode string `form:"mode"`
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.ListDoctors)
	r.POST("/new", h.New)
	r.POST("/tab", h.SwitchTab)
	r.POST("/save", h.SaveDoctor)
	r.POST("/close", h.Close)
	r.POST("/delete/confirm", h.ConfirmDelete)
	r.POST("/delete/cancel", h.CancelDelete)
	r.POST("/notice/ack", h.Acknowledge)
	r.POST("/:id/open", h.Open)
	r.POST("/:id/delete", h.RequestDelete)
}

func (h *Handler) controller(c *gin.Context) *doctor.Controller {
	return h.Session(c).Doctors(c.Request.Context(), h.Remount(c))
}

// ListDoctors renders the cards, filtered by the q query when present.
func (h *Handler) ListDoctors(c *gin.Context) {
	ctrl := h.controller(c)
	if q, ok := c.GetQuery("q"); ok {
		ctrl.SetSearch(q)
	}
	data := gin.H{
		"C":       ctrl,
		"Doctors": ctrl.Filtered(),
	}
	if ctrl.PendingDelete != "" {
		if d, ok := ctrl.Find(ctrl.PendingDelete); ok {
			data["Pending"] = d
		}
	}
	h.Render(c, "doctors.html", data)
}

func (h *Handler) New(c *gin.Context) {
	h.controller(c).OpenModal(nil, model.ModeCreate)
	h.Settle(c, page, nil)
}

func (h *Handler) Open(c *gin.Context) {
	var form openForm
	if !h.Bind(c, &form) {
		return
	}
	ctrl := h.controller(c)
	d, ok := ctrl.Find(c.Param("id"))
	if !ok {
		h.Fail(c, apperrors.NewNotFound("doctor", nil))
		return
	}
	ctrl.OpenModal(&d, model.ParseMode(form.Mode))
	h.Settle(c, page, nil)
}

// SwitchTab keeps the typed fields and moves the form to another tab.
func (h *Handler) SwitchTab(c *gin.Context) {
	draft, form, ok := h.bindDraft(c)
	if !ok {
		return
	}
	ctrl := h.controller(c)
	if form.Token == ctrl.Modal.Token {
		ctrl.UpdateDraft(draft)
	}
	ctrl.SetTab(model.DoctorTab(form.Tab))
	h.Settle(c, page, nil)
}

func (h *Handler) SaveDoctor(c *gin.Context) {
	draft, form, ok := h.bindDraft(c)
	if !ok {
		return
	}
	h.Settle(c, page, h.controller(c).Save(c.Request.Context(), form.Token, draft))
}

func (h *Handler) Close(c *gin.Context) {
	h.controller(c).CloseModal()
	h.Settle(c, page, nil)
}

func (h *Handler) RequestDelete(c *gin.Context) {
	h.Settle(c, page, h.controller(c).RequestDelete(c.Param("id")))
}

func (h *Handler) ConfirmDelete(c *gin.Context) {
	h.Settle(c, page, h.controller(c).ConfirmDelete(c.Request.Context()))
}

func (h *Handler) CancelDelete(c *gin.Context) {
	h.controller(c).CancelDelete()
	h.Settle(c, page, nil)
}

func (h *Handler) Acknowledge(c *gin.Context) {
	h.controller(c).Acknowledge()
	h.Settle(c, page, nil)
}

func (h *Handler) bindDraft(c *gin.Context) (model.Doctor, doctorForm, bool) {
	var form doctorForm
	if !h.Bind(c, &form) {
		return model.Doctor{}, form, false
	}
	draft, err := form.toModel()
	if err != nil {
		h.Fail(c, err)
		return model.Doctor{}, form, false
	}
	return draft, form, true
}

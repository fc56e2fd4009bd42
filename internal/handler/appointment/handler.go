package appointment

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/handler"
	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/screen/appointment"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

const page = "/appointments"

type Handler struct {
	handler.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{}
}

type appointmentForm struct {
	Token  string `form:"token"`
	Name   string `form:"name"`
	Date   string `form:"date"`
	Time   string `form:"time"`
	Doctor string `form:"doctor"`
	Status string `form:"status"`
}

func (f appointmentForm) toModel() (model.Appointment, error) {
	status := model.AppointmentStatusScheduled
	if f.Status != "" {
		s, err := model.ParseAppointmentStatus(f.Status)
		if err != nil {
			return model.Appointment{}, apperrors.NewBadRequest("invalid appointment status", err)
		}
		status = s
	}
	return model.Appointment{
		Name:   f.Name,
		Date:   f.Date,
		Time:   f.Time,
		Doctor: f.Doctor,
		Status: status,
	}, nil
}

type filterForm struct {
	Date string `form:"date"`
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Show)
	r.POST("/filter", h.Filter)
	r.POST("/grouping", h.ToggleGrouping)
	r.POST("/new", h.New)
	r.POST("/draft", h.UpdateDraft)
	r.POST("/save", h.Save)
	r.POST("/close", h.Close)
	r.POST("/:id/edit", h.Edit)
	r.POST("/:id/delete", h.Delete)
}

func (h *Handler) scheduler(c *gin.Context) *appointment.Scheduler {
	return h.Session(c).Scheduler(c.Request.Context(), h.Remount(c))
}

func (h *Handler) Show(c *gin.Context) {
	s := h.scheduler(c)
	h.Render(c, "appointments.html", gin.H{
		"S":          s,
		"DateView":   s.DateView(),
		"DoctorView": s.DoctorView(),
	})
}

func (h *Handler) Filter(c *gin.Context) {
	var form filterForm
	if !h.Bind(c, &form) {
		return
	}
	h.scheduler(c).SetDateFilter(form.Date)
	h.Settle(c, page, nil)
}

func (h *Handler) ToggleGrouping(c *gin.Context) {
	h.scheduler(c).ToggleGroupingMode()
	h.Settle(c, page, nil)
}

func (h *Handler) New(c *gin.Context) {
	h.scheduler(c).OpenCreateModal()
	h.Settle(c, page, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}
	h.Settle(c, page, h.scheduler(c).OpenEditModal(id))
}

// UpdateDraft stores the typed fields without saving, so the form can show
// the reschedule date message before submit.
func (h *Handler) UpdateDraft(c *gin.Context) {
	draft, _, ok := h.bindDraft(c)
	if !ok {
		return
	}
	h.scheduler(c).UpdateDraft(draft)
	h.Settle(c, page, nil)
}

func (h *Handler) Save(c *gin.Context) {
	draft, token, ok := h.bindDraft(c)
	if !ok {
		return
	}
	s := h.scheduler(c)
	// A replayed form must not overwrite the draft of the form now open.
	if token == s.Modal.Token {
		s.UpdateDraft(draft)
	}
	h.Settle(c, page, s.SaveDraft(c.Request.Context(), token))
}

func (h *Handler) Close(c *gin.Context) {
	h.scheduler(c).CloseModal()
	h.Settle(c, page, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.appointmentID(c)
	if !ok {
		return
	}
	h.Settle(c, page, h.scheduler(c).DeleteAppointment(c.Request.Context(), id))
}

func (h *Handler) bindDraft(c *gin.Context) (model.Appointment, string, bool) {
	var form appointmentForm
	if !h.Bind(c, &form) {
		return model.Appointment{}, "", false
	}
	draft, err := form.toModel()
	if err != nil {
		h.Fail(c, err)
		return model.Appointment{}, "", false
	}
	return draft, form.Token, true
}

func (h *Handler) appointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.Fail(c, apperrors.NewBadRequest("invalid appointment ID", err))
		return 0, false
	}
	return id, true
}

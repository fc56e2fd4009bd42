package specialty

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/handler"
	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/screen/specialty"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

// Page is the specialties path; the capital S is what the navigation links to.
const Page = "/Specialties"

type Handler struct {
	handler.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{}
}

// Lists arrive comma joined and are split before they reach the controller.
type specialtyForm struct {
	Token            string `form:"token"`
	Name             string `form:"name"`
	Description      string `form:"description"`
	FeeRange         string `form:"fee_range"`
	CommonConditions string `form:"common_conditions"`
	Subspecialties   string `form:"subspecialties"`
	GoverningBody    string `form:"governing_body"`
	SpecialistCount  int    `form:"specialist_count"`
	Popularity       int    `form:"popularity"`
}

func (f specialtyForm) toModel() model.Specialty {
	return model.Specialty{
		Name:             f.Name,
		Description:      f.Description,
		FeeRange:         f.FeeRange,
		CommonConditions: model.SplitList(f.CommonConditions),
		Subspecialties:   model.SplitList(f.Subspecialties),
		GoverningBody:    f.GoverningBody,
		SpecialistCount:  f.SpecialistCount,
		Popularity:       f.Popularity,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.ListSpecialties)
	r.POST("/new", h.New)
	r.POST("/save", h.SaveSpecialty)
	r.POST("/close", h.Close)
	r.POST("/:id/edit", h.Edit)
	r.POST("/:id/delete", h.DeleteSpecialty)
}

func (h *Handler) controller(c *gin.Context) *specialty.Controller {
	return h.Session(c).Specialties(c.Request.Context(), h.Remount(c))
}

// ListSpecialties renders the catalogue and consumes the pending notification.
func (h *Handler) ListSpecialties(c *gin.Context) {
	ctrl := h.controller(c)
	h.Render(c, "specialties.html", gin.H{
		"C":     ctrl,
		"Flash": ctrl.TakeFlash(),
	})
}

func (h *Handler) New(c *gin.Context) {
	h.controller(c).OpenModal(nil)
	h.Settle(c, Page, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	ctrl := h.controller(c)
	s, ok := ctrl.Find(c.Param("id"))
	if !ok {
		h.Fail(c, apperrors.NewNotFound("specialty", nil))
		return
	}
	ctrl.OpenModal(&s)
	h.Settle(c, Page, nil)
}

func (h *Handler) SaveSpecialty(c *gin.Context) {
	var form specialtyForm
	if !h.Bind(c, &form) {
		return
	}
	h.Settle(c, Page, h.controller(c).Save(c.Request.Context(), form.Token, form.toModel()))
}

func (h *Handler) Close(c *gin.Context) {
	h.controller(c).CloseModal()
	h.Settle(c, Page, nil)
}

func (h *Handler) DeleteSpecialty(c *gin.Context) {
	ctrl := h.controller(c)
	id := c.Param("id")
	if _, ok := ctrl.Find(id); !ok {
		h.Fail(c, apperrors.NewNotFound("specialty", nil))
		return
	}
	h.Settle(c, Page, ctrl.Delete(c.Request.Context(), id))
}

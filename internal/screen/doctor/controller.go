// Package doctor is the doctor directory screen: searchable cards, a tabbed
// form with a read only view mode, and confirmed deletes.
package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository"
	"github.com/jwalitptl/care-console/internal/screen"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/validator"
)

const resource = "doctor"

const (
	PhoneMessage      = "Phone number must be exactly 10 digits."
	EmailMessage      = "Please enter a valid email address."
	ExperienceMessage = "Experience cannot be more than 50 years."
	AadhaarMessage    = "Aadhaar number must be exactly 12 digits."

	DeletedNotice      = "Doctor deleted successfully."
	DeleteFailedNotice = "Error occurred while deleting the doctor."
)

type Options struct {
	Repo      repository.DoctorRepository
	Validator validator.Validator
	Logger    *logger.Logger
	Events    event.Emitter
	Observer  screen.Observer
}

type Controller struct {
	Modal screen.Modal[model.Doctor]
	Tab   model.DoctorTab
	// Search filters the cards; see Filtered.
	Search string
	// PendingDelete is the doctor awaiting confirmation, empty when none.
	PendingDelete string
	// Notice must be acknowledged before the screen is usable again.
	Notice string

	doctors []model.Doctor

	repo      repository.DoctorRepository
	validator validator.Validator
	logger    *logger.Logger
	events    event.Emitter
	observer  screen.Observer
}

func NewController(opts Options) *Controller {
	c := &Controller{
		repo:      opts.Repo,
		validator: opts.Validator,
		logger:    opts.Logger,
		events:    opts.Events,
		observer:  opts.Observer,
	}
	if c.validator == nil {
		c.validator = validator.New()
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	if c.events == nil {
		c.events = event.Discard
	}
	return c
}

func (c *Controller) LoadAll(ctx context.Context) {
	doctors, err := c.repo.List(ctx)
	if err != nil {
		c.logger.Error(err, "failed to load doctors", "resource", "doctors", "operation", "list")
		c.doctors = nil
		return
	}
	c.doctors = doctors
}

func (c *Controller) Doctors() []model.Doctor {
	return append([]model.Doctor(nil), c.doctors...)
}

// Filtered returns the doctors whose first name, last name or specialty
// contains Search, ignoring case.
func (c *Controller) Filtered() []model.Doctor {
	q := strings.ToLower(c.Search)
	var out []model.Doctor
	for _, d := range c.doctors {
		if strings.Contains(strings.ToLower(d.FirstName), q) ||
			strings.Contains(strings.ToLower(d.LastName), q) ||
			strings.Contains(strings.ToLower(d.Specialty), q) {
			out = append(out, d)
		}
	}
	return out
}

func (c *Controller) SetSearch(q string) {
	c.Search = q
}

func (c *Controller) Find(id string) (model.Doctor, bool) {
	for _, d := range c.doctors {
		if d.DoctorID.String() == id {
			return d, true
		}
	}
	return model.Doctor{}, false
}

// OpenModal opens an empty create form for nil. Otherwise mode picks between
// editing d and viewing it read only.
func (c *Controller) OpenModal(d *model.Doctor, mode model.Mode) {
	c.Tab = model.DoctorTabBasic
	if d == nil {
		c.Modal.Show(model.ModeCreate, model.Doctor{})
		return
	}
	if mode == model.ModeCreate {
		mode = model.ModeEdit
	}
	c.Modal.Show(mode, *d)
}

func (c *Controller) SetTab(tab model.DoctorTab) {
	if tab < model.DoctorTabBasic || tab > model.DoctorTabAdditional {
		return
	}
	c.Tab = tab
}

// UpdateDraft keeps what was typed when the form moves between tabs. The
// identity fields of an edited doctor are not taken from the form.
func (c *Controller) UpdateDraft(draft model.Doctor) {
	if !c.Modal.Open || c.Modal.Mode == model.ModeView {
		return
	}
	draft.DoctorID = c.Modal.Draft.DoctorID
	draft.CreatedAt = c.Modal.Draft.CreatedAt
	draft.UpdatedAt = c.Modal.Draft.UpdatedAt
	c.Modal.Draft = draft
}

func (c *Controller) CloseModal() {
	c.Modal.Hide()
	c.Tab = model.DoctorTabBasic
}

func requiredMessage(field string) string {
	return fmt.Sprintf("The field %q is mandatory.", strings.ReplaceAll(field, "_", " "))
}

// Validate checks the draft rule by rule and reports the first failure only.
func (c *Controller) Validate(d model.Doctor) error {
	return c.validator.First(
		validator.Required(d.FirstName, requiredMessage("first_name")),
		validator.Required(d.LastName, requiredMessage("last_name")),
		validator.Required(d.Specialty, requiredMessage("specialty")),
		validator.Required(d.Qualification, requiredMessage("qualification")),
		validator.Required(d.ClinicName, requiredMessage("clinic_name")),
		validator.Required(string(d.Gender), requiredMessage("gender")),
		validator.Required(d.DateOfBirth, requiredMessage("date_of_birth")),
		validator.Required(d.AadhaarNumber, requiredMessage("aadhaar_number")),
		validator.Rule{Value: d.PhoneNumber, Tag: "len=10,number", Message: PhoneMessage},
		validator.Rule{Value: d.Email, Tag: "contact_email", Message: EmailMessage},
		validator.Rule{Value: d.Experience, Tag: "max=50", Message: ExperienceMessage},
		validator.Rule{Value: d.AadhaarNumber, Tag: "len=12,number", Message: AadhaarMessage},
	)
}

// Save submits the draft posted with token. A view mode form has no save.
func (c *Controller) Save(ctx context.Context, token string, draft model.Doctor) error {
	if c.Modal.Open && c.Modal.Mode == model.ModeView {
		return apperrors.NewBadRequest("doctor form is read only", nil)
	}
	if err := c.Modal.Claim(token); err != nil {
		return err
	}
	editing := c.Modal.Editing()
	original := c.Modal.Draft
	if editing {
		draft.DoctorID = original.DoctorID
		draft.CreatedAt = original.CreatedAt
		draft.UpdatedAt = original.UpdatedAt
	} else {
		draft.DoctorID = ""
	}
	c.Modal.Draft = draft

	if err := c.Validate(draft); err != nil {
		c.Modal.Error = apperrors.Message(err, "")
		return err
	}
	c.Modal.Error = ""
	defer c.CloseModal()

	if editing {
		if err := c.repo.Update(ctx, draft.DoctorID.String(), draft); err != nil {
			c.logger.Error(err, "failed to update doctor", "resource", "doctors", "operation", "update", "doctor_id", draft.DoctorID.String())
			return err
		}
		for i := range c.doctors {
			if c.doctors[i].DoctorID == draft.DoctorID {
				c.doctors[i] = draft
			}
		}
		c.events.Emit(ctx, resource, event.ActionUpdated, draft.DoctorID.String())
		c.observer.Notify()
		return nil
	}

	id, err := c.repo.Create(ctx, draft)
	if err != nil {
		c.logger.Error(err, "failed to create doctor", "resource", "doctors", "operation", "create")
		return err
	}
	draft.DoctorID = model.ID(id)
	c.doctors = append(c.doctors, draft)
	c.events.Emit(ctx, resource, event.ActionCreated, id)
	c.observer.Notify()
	return nil
}

// RequestDelete asks for confirmation before id is deleted.
func (c *Controller) RequestDelete(id string) error {
	if _, ok := c.Find(id); !ok {
		return apperrors.NewNotFound(resource, nil)
	}
	c.PendingDelete = id
	return nil
}

func (c *Controller) CancelDelete() {
	c.PendingDelete = ""
}

// ConfirmDelete deletes the pending doctor and posts a notice either way.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	id := c.PendingDelete
	if id == "" {
		return apperrors.NewConflict("no delete awaiting confirmation")
	}
	c.PendingDelete = ""

	if err := c.Delete(ctx, id); err != nil {
		c.Notice = DeleteFailedNotice
		c.observer.Notify()
		return err
	}
	c.Notice = DeletedNotice
	return nil
}

// Delete removes id at the backend and then locally. The screen reaches it
// through ConfirmDelete.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		c.logger.Error(err, "failed to delete doctor", "resource", "doctors", "operation", "delete", "doctor_id", id)
		return err
	}
	kept := c.doctors[:0]
	for _, d := range c.doctors {
		if d.DoctorID.String() != id {
			kept = append(kept, d)
		}
	}
	c.doctors = kept
	c.events.Emit(ctx, resource, event.ActionDeleted, id)
	c.observer.Notify()
	return nil
}

func (c *Controller) Acknowledge() {
	c.Notice = ""
}

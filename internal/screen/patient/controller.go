// Package patient is the patient list screen.
package patient

import (
	"context"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository"
	"github.com/jwalitptl/care-console/internal/screen"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/validator"
)

const resource = "patient"

const MandatoryMessage = "First Name, Last Name, Date of Birth, and Email are mandatory fields."

type Options struct {
	Repo      repository.PatientRepository
	Validator validator.Validator
	Logger    *logger.Logger
	Events    event.Emitter
	Observer  screen.Observer
}

type Controller struct {
	Modal screen.Modal[model.Patient]

	patients []model.Patient

	repo      repository.PatientRepository
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

// LoadAll replaces the list with the backend's. On failure the list is left empty.
func (c *Controller) LoadAll(ctx context.Context) {
	patients, err := c.repo.List(ctx)
	if err != nil {
		c.logger.Error(err, "failed to load patients", "resource", "patients", "operation", "list")
		c.patients = nil
		return
	}
	c.patients = patients
}

func (c *Controller) Patients() []model.Patient {
	return append([]model.Patient(nil), c.patients...)
}

func (c *Controller) Find(id string) (model.Patient, bool) {
	for _, p := range c.patients {
		if p.PatientID.String() == id {
			return p, true
		}
	}
	return model.Patient{}, false
}

// OpenModal opens an empty create form for nil, otherwise an edit form for p.
func (c *Controller) OpenModal(p *model.Patient) {
	if p == nil {
		c.Modal.Show(model.ModeCreate, model.Patient{})
		return
	}
	c.Modal.Show(model.ModeEdit, *p)
}

func (c *Controller) CloseModal() {
	c.Modal.Hide()
}

func (c *Controller) Validate(draft model.Patient) error {
	return c.validator.First(
		validator.Required(draft.FirstName, MandatoryMessage),
		validator.Required(draft.LastName, MandatoryMessage),
		validator.Required(draft.DateOfBirth, MandatoryMessage),
		validator.Required(draft.Email, MandatoryMessage),
	)
}

// Save submits the draft posted with token. Validation failures keep the form
// open with the message; backend failures are logged and close it unchanged.
func (c *Controller) Save(ctx context.Context, token string, draft model.Patient) error {
	if err := c.Modal.Claim(token); err != nil {
		return err
	}
	editing := c.Modal.Editing()
	if editing {
		draft.PatientID = c.Modal.Draft.PatientID
	} else {
		draft.PatientID = ""
	}
	c.Modal.Draft = draft

	if err := c.Validate(draft); err != nil {
		c.Modal.Error = apperrors.Message(err, MandatoryMessage)
		return err
	}
	c.Modal.Error = ""
	defer c.Modal.Hide()

	if editing {
		if err := c.repo.Update(ctx, draft.PatientID.String(), draft); err != nil {
			c.logger.Error(err, "failed to update patient", "resource", "patients", "operation", "update", "patient_id", draft.PatientID.String())
			return err
		}
		for i := range c.patients {
			if c.patients[i].PatientID == draft.PatientID {
				c.patients[i] = draft
			}
		}
		c.events.Emit(ctx, resource, event.ActionUpdated, draft.PatientID.String())
		c.observer.Notify()
		return nil
	}

	id, err := c.repo.Create(ctx, draft)
	if err != nil {
		c.logger.Error(err, "failed to create patient", "resource", "patients", "operation", "create")
		return err
	}
	draft.PatientID = model.ID(id)
	c.patients = append(c.patients, draft)
	c.events.Emit(ctx, resource, event.ActionCreated, id)
	c.observer.Notify()
	return nil
}

func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		c.logger.Error(err, "failed to delete patient", "resource", "patients", "operation", "delete", "patient_id", id)
		return err
	}
	kept := c.patients[:0]
	for _, p := range c.patients {
		if p.PatientID.String() != id {
			kept = append(kept, p)
		}
	}
	c.patients = kept
	c.events.Emit(ctx, resource, event.ActionDeleted, id)
	c.observer.Notify()
	return nil
}

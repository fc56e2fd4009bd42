// Package specialty is the specialty catalogue screen.
package specialty

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

const resource = "specialty"

const (
	NameMessage         = `The field "name" is mandatory.`
	SaveFailedMessage   = "Error saving specialty"
	DeleteFailedMessage = "Error deleting specialty"
)

type Options struct {
	Repo      repository.SpecialtyRepository
	Validator validator.Validator
	Logger    *logger.Logger
	Events    event.Emitter
	Observer  screen.Observer
}

type Controller struct {
	Modal screen.Modal[model.Specialty]

	specialties []model.Specialty
	flash       string

	repo      repository.SpecialtyRepository
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
	specialties, err := c.repo.List(ctx)
	if err != nil {
		c.logger.Error(err, "failed to load specialties", "resource", "specialties", "operation", "list")
		c.specialties = nil
		return
	}
	c.specialties = specialties
}

func (c *Controller) Specialties() []model.Specialty {
	return append([]model.Specialty(nil), c.specialties...)
}

func (c *Controller) Find(id string) (model.Specialty, bool) {
	for _, s := range c.specialties {
		if s.SpecialtyID.String() == id {
			return s, true
		}
	}
	return model.Specialty{}, false
}

// TakeFlash returns the pending notification and clears it.
func (c *Controller) TakeFlash() string {
	msg := c.flash
	c.flash = ""
	return msg
}

func (c *Controller) OpenModal(s *model.Specialty) {
	if s == nil {
		c.Modal.Show(model.ModeCreate, model.Specialty{})
		return
	}
	c.Modal.Show(model.ModeEdit, *s)
}

func (c *Controller) CloseModal() {
	c.Modal.Hide()
}

func (c *Controller) Validate(draft model.Specialty) error {
	return c.validator.First(validator.Required(draft.Name, NameMessage))
}

// Save submits the draft posted with token, then reloads the list. A failed
// save keeps the form open and flashes an error.
func (c *Controller) Save(ctx context.Context, token string, draft model.Specialty) error {
	if err := c.Modal.Claim(token); err != nil {
		return err
	}
	editing := c.Modal.Editing()
	if editing {
		draft.SpecialtyID = c.Modal.Draft.SpecialtyID
	} else {
		draft.SpecialtyID = ""
	}
	c.Modal.Draft = draft

	if err := c.Validate(draft); err != nil {
		c.Modal.Error = apperrors.Message(err, NameMessage)
		return err
	}
	c.Modal.Error = ""

	var (
		result model.SpecialtyResult
		err    error
		action = event.ActionCreated
	)
	if editing {
		action = event.ActionUpdated
		result, err = c.repo.Update(ctx, draft.SpecialtyID.String(), draft)
	} else {
		result, err = c.repo.Create(ctx, draft)
	}
	if err != nil {
		c.logger.Error(err, "failed to save specialty", "resource", "specialties", "operation", string(action))
		c.flash = SaveFailedMessage
		c.observer.Notify()
		return err
	}

	id := draft.SpecialtyID.String()
	if result.SpecialtyID != "" {
		id = result.SpecialtyID.String()
	}
	c.flash = result.Message
	c.Modal.Hide()
	c.LoadAll(ctx)
	c.events.Emit(ctx, resource, action, id)
	c.observer.Notify()
	return nil
}

func (c *Controller) Delete(ctx context.Context, id string) error {
	result, err := c.repo.Delete(ctx, id)
	if err != nil {
		c.logger.Error(err, "failed to delete specialty", "resource", "specialties", "operation", "delete", "specialty_id", id)
		c.flash = DeleteFailedMessage
		c.observer.Notify()
		return err
	}
	c.flash = result.Message
	c.LoadAll(ctx)
	c.events.Emit(ctx, resource, event.ActionDeleted, id)
	c.observer.Notify()
	return nil
}

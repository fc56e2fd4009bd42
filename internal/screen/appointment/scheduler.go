// Package appointment is the scheduling view: an in-memory appointment book
// projected by date or grouped by doctor, edited through a modal.
package appointment

import (
	"context"
	"strconv"
	"time"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository"
	"github.com/jwalitptl/care-console/internal/screen"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/logger"
)

const resource = "appointment"

// RescheduleDateMessage is shown next to the date while a reschedule targets today or earlier.
const RescheduleDateMessage = "Please select a future date"

// Seed is the appointment book the view starts from when no backend list is configured.
func Seed() []model.Appointment {
	return []model.Appointment{
		{ID: 1, Name: "John Doe", Date: "2024-01-15", Time: "10:00 AM", Doctor: "Dr. Smith", Status: model.AppointmentStatusScheduled},
		{ID: 2, Name: "Jane Roe", Date: "2024-01-16", Time: "11:30 AM", Doctor: "Dr. Brown", Status: model.AppointmentStatusScheduled},
		{ID: 3, Name: "Emily Davis", Date: "2024-01-15", Time: "01:00 PM", Doctor: "Dr. Smith", Status: model.AppointmentStatusScheduled},
	}
}

// DoctorGroup is one table of the by-doctor projection.
type DoctorGroup struct {
	Doctor       string
	Appointments []model.Appointment
}

type Options struct {
	// Repo, when set, replaces the seed with the backend list on load.
	Repo     repository.AppointmentRepository
	Logger   *logger.Logger
	Events   event.Emitter
	Observer screen.Observer
	Now      func() time.Time
}

type Scheduler struct {
	SelectedDate string
	ViewByDoctor bool
	Modal        screen.Modal[model.Appointment]

	appointments []model.Appointment
	lastID       int64

	repo     repository.AppointmentRepository
	logger   *logger.Logger
	events   event.Emitter
	observer screen.Observer
	now      func() time.Time
}

func NewScheduler(opts Options) *Scheduler {
	s := &Scheduler{
		repo:     opts.Repo,
		logger:   opts.Logger,
		events:   opts.Events,
		observer: opts.Observer,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.events == nil {
		s.events = event.Discard
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.SelectedDate = model.FormatDate(s.now())
	return s
}

// LoadAll fills the book from the seed or the backend. A failed backend read
// leaves the book empty.
func (s *Scheduler) LoadAll(ctx context.Context) {
	s.SelectedDate = model.FormatDate(s.now())
	if s.repo == nil {
		s.appointments = Seed()
		return
	}

	appointments, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(err, "failed to load appointments", "resource", "appointments", "operation", "list")
		s.appointments = nil
		return
	}
	s.appointments = appointments
}

// Appointments returns a copy of the whole book in collection order.
func (s *Scheduler) Appointments() []model.Appointment {
	return append([]model.Appointment(nil), s.appointments...)
}

func (s *Scheduler) SetDateFilter(date string) {
	s.SelectedDate = date
}

func (s *Scheduler) ToggleGroupingMode() {
	s.ViewByDoctor = !s.ViewByDoctor
}

// DateView lists the appointments on SelectedDate in collection order.
func (s *Scheduler) DateView() []model.Appointment {
	var out []model.Appointment
	for _, a := range s.appointments {
		if a.Date == s.SelectedDate {
			out = append(out, a)
		}
	}
	return out
}

// DoctorView partitions DateView by exact doctor name, groups in first-seen order.
func (s *Scheduler) DoctorView() []DoctorGroup {
	var groups []DoctorGroup
	index := make(map[string]int)
	for _, a := range s.DateView() {
		i, ok := index[a.Doctor]
		if !ok {
			i = len(groups)
			index[a.Doctor] = i
			groups = append(groups, DoctorGroup{Doctor: a.Doctor})
		}
		groups[i].Appointments = append(groups[i].Appointments, a)
	}
	return groups
}

func (s *Scheduler) OpenCreateModal() {
	s.Modal.Show(model.ModeCreate, model.NewDraftAppointment())
}

func (s *Scheduler) OpenEditModal(id int64) error {
	i := s.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFound(resource, nil)
	}
	s.Modal.Show(model.ModeEdit, s.appointments[i])
	return nil
}

// UpdateDraft replaces the draft's editable fields. The identity of an edited
// appointment cannot be changed from the form.
func (s *Scheduler) UpdateDraft(draft model.Appointment) {
	if !s.Modal.Open {
		return
	}
	draft.ID = s.Modal.Draft.ID
	s.Modal.Draft = draft
	s.Modal.Error = s.RescheduleDateError()
}

// RescheduleDateError is the inline message for the reschedule date, empty when valid.
func (s *Scheduler) RescheduleDateError() string {
	d := s.Modal.Draft
	if d.Status == model.AppointmentStatusRescheduled && !model.IsAfterDay(d.Date, s.now()) {
		return RescheduleDateMessage
	}
	return ""
}

// SaveDraft stores the draft submitted with token and closes the modal. A
// reschedule to a date that is not in the future keeps the modal open. Editing
// an appointment deleted meanwhile discards the draft and reports not found.
func (s *Scheduler) SaveDraft(ctx context.Context, token string) error {
	if err := s.Modal.Claim(token); err != nil {
		return err
	}
	if msg := s.RescheduleDateError(); msg != "" {
		s.Modal.Error = msg
		return apperrors.NewValidation(msg)
	}

	draft := s.Modal.Draft
	action := event.ActionCreated
	if s.Modal.Editing() {
		action = event.ActionUpdated
		i := s.indexOf(draft.ID)
		if i < 0 {
			s.Modal.Hide()
			return apperrors.NewNotFound(resource, nil)
		}
		s.appointments[i] = draft
	} else {
		draft.ID = s.nextID()
		s.appointments = append(s.appointments, draft)
	}

	s.Modal.Hide()
	s.events.Emit(ctx, resource, action, strconv.FormatInt(draft.ID, 10))
	s.observer.Notify()
	return nil
}

// DeleteAppointment removes the appointment without confirmation.
func (s *Scheduler) DeleteAppointment(ctx context.Context, id int64) error {
	i := s.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFound(resource, nil)
	}
	s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
	s.events.Emit(ctx, resource, event.ActionDeleted, strconv.FormatInt(id, 10))
	s.observer.Notify()
	return nil
}

func (s *Scheduler) CloseModal() {
	s.Modal.Hide()
}

func (s *Scheduler) indexOf(id int64) int {
	for i, a := range s.appointments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// nextID is the current time in milliseconds, bumped past the last issued id
// and past any id already in the book.
func (s *Scheduler) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for s.indexOf(id) >= 0 {
		id++
	}
	s.lastID = id
	return id
}

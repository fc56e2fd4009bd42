// Package session keeps the per browser screen state of the console.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/care-console/internal/repository"
	"github.com/jwalitptl/care-console/internal/screen/appointment"
	"github.com/jwalitptl/care-console/internal/screen/doctor"
	"github.com/jwalitptl/care-console/internal/screen/patient"
	"github.com/jwalitptl/care-console/internal/screen/specialty"
	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/metrics"
	"github.com/jwalitptl/care-console/pkg/validator"
)

// Deps are shared by the screens of every session.
type Deps struct {
	// Appointments is nil when the scheduling view runs on seed data.
	Appointments repository.AppointmentRepository
	Patients     repository.PatientRepository
	Doctors      repository.DoctorRepository
	Specialties  repository.SpecialtyRepository
	Validator    validator.Validator
	Logger       *logger.Logger
	Events       event.Emitter
	Now          func() time.Time
}

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type Store struct {
	cache   *cache.Cache
	deps    Deps
	metrics *metrics.Metrics
}

func NewStore(cfg Config, deps Deps, m *metrics.Metrics) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = cfg.TTL / 2
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Events == nil {
		deps.Events = event.Discard
	}

	s := &Store{
		cache:   cache.New(cfg.TTL, cfg.CleanupInterval),
		deps:    deps,
		metrics: m,
	}
	s.cache.OnEvicted(func(string, interface{}) {
		if s.metrics != nil {
			s.metrics.ActiveSessions.Dec()
		}
	})
	return s
}

// Get returns the live session id and extends its lifetime.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.SetDefault(id, sess)
	return sess, true
}

func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.NewString(), deps: s.deps}
	s.cache.SetDefault(sess.ID, sess)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return sess
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Session owns one instance of each screen, mounted on first use. Requests of
// one session are serialised with Lock.
type Session struct {
	ID string

	mu       sync.Mutex
	revision uint64
	deps     Deps

	scheduler   *appointment.Scheduler
	patients    *patient.Controller
	doctors     *doctor.Controller
	specialties *specialty.Controller
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Revision counts the mutations made in this session.
func (s *Session) Revision() uint64 {
	return s.revision
}

func (s *Session) redraw() {
	s.revision++
}

// Scheduler mounts the scheduling view on first use or when remount is set.
func (s *Session) Scheduler(ctx context.Context, remount bool) *appointment.Scheduler {
	if s.scheduler == nil || remount {
		s.scheduler = appointment.NewScheduler(appointment.Options{
			Repo:     s.deps.Appointments,
			Logger:   s.deps.Logger,
			Events:   s.deps.Events,
			Observer: s.redraw,
			Now:      s.deps.Now,
		})
		s.scheduler.LoadAll(ctx)
	}
	return s.scheduler
}

func (s *Session) Patients(ctx context.Context, remount bool) *patient.Controller {
	if s.patients == nil || remount {
		s.patients = patient.NewController(patient.Options{
			Repo:      s.deps.Patients,
			Validator: s.deps.Validator,
			Logger:    s.deps.Logger,
			Events:    s.deps.Events,
			Observer:  s.redraw,
		})
		s.patients.LoadAll(ctx)
	}
	return s.patients
}

func (s *Session) Doctors(ctx context.Context, remount bool) *doctor.Controller {
	if s.doctors == nil || remount {
		s.doctors = doctor.NewController(doctor.Options{
			Repo:      s.deps.Doctors,
			Validator: s.deps.Validator,
			Logger:    s.deps.Logger,
			Events:    s.deps.Events,
			Observer:  s.redraw,
		})
		s.doctors.LoadAll(ctx)
	}
	return s.doctors
}

func (s *Session) Specialties(ctx context.Context, remount bool) *specialty.Controller {
	if s.specialties == nil || remount {
		s.specialties = specialty.NewController(specialty.Options{
			Repo:      s.deps.Specialties,
			Validator: s.deps.Validator,
			Logger:    s.deps.Logger,
			Events:    s.deps.Events,
			Observer:  s.redraw,
		})
		s.specialties.LoadAll(ctx)
	}
	return s.specialties
}

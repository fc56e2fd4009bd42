package repository

import (
	"context"

	"github.com/jwalitptl/care-console/internal/model"
)

// All collaborator interfaces in one file. The backend is the system of record;
// these only proxy to it.
type (
	AppointmentRepository interface {
		List(ctx context.Context) ([]model.Appointment, error)
	}

	PatientRepository interface {
		List(ctx context.Context) ([]model.Patient, error)
		// Create returns the identity the backend assigned.
		Create(ctx context.Context, patient model.Patient) (string, error)
		Update(ctx context.Context, id string, patient model.Patient) error
		Delete(ctx context.Context, id string) error
	}

	DoctorRepository interface {
		List(ctx context.Context) ([]model.Doctor, error)
		Create(ctx context.Context, doctor model.Doctor) (string, error)
		Update(ctx context.Context, id string, doctor model.Doctor) error
		Delete(ctx context.Context, id string) error
	}

	// SpecialtyRepository mutations return the backend's human readable message.
	SpecialtyRepository interface {
		List(ctx context.Context) ([]model.Specialty, error)
		Create(ctx context.Context, specialty model.Specialty) (model.SpecialtyResult, error)
		Update(ctx context.Context, id string, specialty model.Specialty) (model.SpecialtyResult, error)
		Delete(ctx context.Context, id string) (model.SpecialtyResult, error)
	}
)

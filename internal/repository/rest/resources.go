package rest

import (
	"context"
	"net/http"

	"github.com/jwalitptl/care-console/internal/model"
	"github.com/jwalitptl/care-console/internal/repository"
)

type appointmentRepository struct {
	*Client
}

type patientRepository struct {
	*Client
}

type doctorRepository struct {
	*Client
}

type specialtyRepository struct {
	*Client
}

func NewAppointmentRepository(c *Client) repository.AppointmentRepository {
	return &appointmentRepository{c}
}

func NewPatientRepository(c *Client) repository.PatientRepository {
	return &patientRepository{c}
}

func NewDoctorRepository(c *Client) repository.DoctorRepository {
	return &doctorRepository{c}
}

func NewSpecialtyRepository(c *Client) repository.SpecialtyRepository {
	return &specialtyRepository{c}
}

func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := r.do(ctx, "appointments", "list", http.MethodGet, resourcePath("appointments"), nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.do(ctx, "patients", "list", http.MethodGet, resourcePath("patients"), nil, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Create(ctx context.Context, patient model.Patient) (string, error) {
	patient.PatientID = ""
	var created model.CreatedPatient
	if err := r.do(ctx, "patients", "create", http.MethodPost, resourcePath("patients"), patient, &created); err != nil {
		return "", err
	}
	return created.PatientID.String(), nil
}

func (r *patientRepository) Update(ctx context.Context, id string, patient model.Patient) error {
	patient.PatientID = ""
	return r.do(ctx, "patients", "update", http.MethodPut, resourcePath("patients", id), patient, nil)
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	return r.do(ctx, "patients", "delete", http.MethodDelete, resourcePath("patients", id), nil, nil)
}

func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := r.do(ctx, "doctors", "list", http.MethodGet, resourcePath("doctors"), nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor model.Doctor) (string, error) {
	var created model.CreatedDoctor
	if err := r.do(ctx, "doctors", "create", http.MethodPost, resourcePath("doctors"), doctor, &created); err != nil {
		return "", err
	}
	return created.DoctorID.String(), nil
}

// Update sends the full draft, identity included.
func (r *doctorRepository) Update(ctx context.Context, id string, doctor model.Doctor) error {
	return r.do(ctx, "doctors", "update", http.MethodPut, resourcePath("doctors", id), doctor, nil)
}

func (r *doctorRepository) Delete(ctx context.Context, id string) error {
	return r.do(ctx, "doctors", "delete", http.MethodDelete, resourcePath("doctors", id), nil, nil)
}

func (r *specialtyRepository) List(ctx context.Context) ([]model.Specialty, error) {
	var specialties []model.Specialty
	if err := r.do(ctx, "specialties", "list", http.MethodGet, resourcePath("specialties"), nil, &specialties); err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *specialtyRepository) Create(ctx context.Context, specialty model.Specialty) (model.SpecialtyResult, error) {
	specialty.SpecialtyID = ""
	var result model.SpecialtyResult
	err := r.do(ctx, "specialties", "create", http.MethodPost, resourcePath("specialties"), specialty, &result)
	return result, err
}

func (r *specialtyRepository) Update(ctx context.Context, id string, specialty model.Specialty) (model.SpecialtyResult, error) {
	specialty.SpecialtyID = ""
	var result model.SpecialtyResult
	err := r.do(ctx, "specialties", "update", http.MethodPut, resourcePath("specialties", id), specialty, &result)
	return result, err
}

func (r *specialtyRepository) Delete(ctx context.Context, id string) (model.SpecialtyResult, error) {
	var result model.SpecialtyResult
	err := r.do(ctx, "specialties", "delete", http.MethodDelete, resourcePath("specialties", id), nil, &result)
	return result, err
}

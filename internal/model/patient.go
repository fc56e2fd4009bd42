package model

import "fmt"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// PatientGenders are the values the patient form offers.
var PatientGenders = []Gender{GenderMale, GenderFemale}

// DoctorGenders are the values the doctor form offers.
var DoctorGenders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender accepts the empty string (not chosen) or one of allowed.
func ParseGender(s string, allowed []Gender) (Gender, error) {
	if s == "" {
		return "", nil
	}
	for _, g := range allowed {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", s)
}

type Patient struct {
	PatientID   ID     `json:"patient_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      Gender `json:"gender"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// CreatedPatient is the part of the create response the console relies on.
type CreatedPatient struct {
	PatientID ID `json:"patient_id"`
}

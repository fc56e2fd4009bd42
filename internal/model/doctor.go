package model

type Doctor struct {
	DoctorID           ID      `json:"doctor_id,omitempty"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Gender             Gender  `json:"gender"`
	PhoneNumber        string  `json:"phone_number"`
	Email              string  `json:"email"`
	Address            string  `json:"address"`
	Specialty          string  `json:"specialty"`
	Qualification      string  `json:"qualification"`
	Experience         int     `json:"experience"`
	ClinicName         string  `json:"clinic_name"`
	ClinicTiming       string  `json:"clinic_timing"`
	ConsultationFee    float64 `json:"consultation_fee"`
	RegistrationNumber string  `json:"registration_number"`
	AadhaarNumber      string  `json:"aadhaar_number"`
	DateOfBirth        string  `json:"date_of_birth"`
	PhotoURL           string  `json:"photo_url"`
	// Opaque, owned by the backend.
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (d Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

type CreatedDoctor struct {
	DoctorID ID `json:"doctor_id"`
}

// DoctorTab is a page of the tabbed doctor form.
type DoctorTab int

const (
	DoctorTabBasic DoctorTab = iota
	DoctorTabContact
	DoctorTabProfessional
	DoctorTabClinic
	DoctorTabAdditional
)

var DoctorTabs = []DoctorTab{DoctorTabBasic, DoctorTabContact, DoctorTabProfessional, DoctorTabClinic, DoctorTabAdditional}

func (t DoctorTab) Label() string {
	switch t {
	case DoctorTabContact:
		return "Contact Details"
	case DoctorTabProfessional:
		return "Professional Info"
	case DoctorTabClinic:
		return "Clinic Details"
	case DoctorTabAdditional:
		return "Additional Info"
	default:
		return "Basic Info"
	}
}

// Package web holds the console's page templates.
package web

import (
	"embed"
	"html/template"

	"github.com/jwalitptl/care-console/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers every page template may call.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"joinList":            model.JoinList,
		"appointmentStatuses": func() []model.AppointmentStatus { return model.AppointmentStatuses },
		"patientGenders":      func() []model.Gender { return model.PatientGenders },
		"doctorGenders":       func() []model.Gender { return model.DoctorGenders },
		"doctorTabs":          func() []model.DoctorTab { return model.DoctorTabs },
	}
}

// Templates parses the embedded pages.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

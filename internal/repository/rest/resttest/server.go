// Package resttest runs an in-memory stand-in for the healthcare backend.
package resttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/model"
)

// Call records one request the server received.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

type Server struct {
	*httptest.Server

	mu           sync.Mutex
	appointments []model.Appointment
	patients     []model.Patient
	doctors      []model.Doctor
	specialties  []model.Specialty
	failures     map[string]int
	calls        []Call
	seq          int
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{failures: make(map[string]int)}
	r := gin.New()
	r.Use(s.record, s.inject)

	api := r.Group("/api")
	api.GET("/appointments", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, s.appointments)
	})

	api.GET("/patients", s.listPatients)
	api.POST("/patients", s.createPatient)
	api.PUT("/patients/:id", s.updatePatient)
	api.DELETE("/patients/:id", s.deletePatient)

	api.GET("/doctors", s.listDoctors)
	api.POST("/doctors", s.createDoctor)
	api.PUT("/doctors/:id", s.updateDoctor)
	api.DELETE("/doctors/:id", s.deleteDoctor)

	api.GET("/specialties", s.listSpecialties)
	api.POST("/specialties", s.createSpecialty)
	api.PUT("/specialties/:id", s.updateSpecialty)
	api.DELETE("/specialties/:id", s.deleteSpecialty)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every later request for method on resource answer status.
// A zero status clears the failure.
func (s *Server) Fail(method, resource string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + resource
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts the requests with the given method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) SetAppointments(a ...model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = a
}

func (s *Server) AddPatient(p model.Patient) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.PatientID = model.ID(s.nextID("p"))
	s.patients = append(s.patients, p)
	return p.PatientID.String()
}

func (s *Server) AddDoctor(d model.Doctor) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.DoctorID = model.ID(s.nextID("d"))
	s.doctors = append(s.doctors, d)
	return d.DoctorID.String()
}

func (s *Server) AddSpecialty(sp model.Specialty) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp.SpecialtyID = model.ID(s.nextID("s"))
	s.specialties = append(s.specialties, sp)
	return sp.SpecialtyID.String()
}

func (s *Server) Patients() []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Patient(nil), s.patients...)
}

func (s *Server) Doctors() []model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Doctor(nil), s.doctors...)
}

func (s *Server) Specialties() []model.Specialty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Specialty(nil), s.specialties...)
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	resource := resourceOf(c.Request.URL.Path)
	s.mu.Lock()
	status, ok := s.failures[c.Request.Method+" "+resource]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func resourceOf(path string) string {
	rest := strings.TrimPrefix(path, "/api/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (s *Server) listPatients(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.patients)
}

func (s *Server) createPatient(c *gin.Context) {
	var p model.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.AddPatient(p)
	c.JSON(http.StatusCreated, gin.H{"patient_id": id, "message": "Patient created successfully"})
}

func (s *Server) updatePatient(c *gin.Context) {
	var p model.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].PatientID.String() == c.Param("id") {
			p.PatientID = s.patients[i].PatientID
			s.patients[i] = p
			c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
}

func (s *Server) deletePatient(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].PatientID.String() == c.Param("id") {
			s.patients = append(s.patients[:i], s.patients[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
}

func (s *Server) listDoctors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.doctors)
}

func (s *Server) createDoctor(c *gin.Context) {
	var d model.Doctor
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.AddDoctor(d)
	c.JSON(http.StatusCreated, gin.H{"doctor_id": id})
}

func (s *Server) updateDoctor(c *gin.Context) {
	var d model.Doctor
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].DoctorID.String() == c.Param("id") {
			d.DoctorID = s.doctors[i].DoctorID
			s.doctors[i] = d
			c.JSON(http.StatusOK, d)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
}

func (s *Server) deleteDoctor(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].DoctorID.String() == c.Param("id") {
			s.doctors = append(s.doctors[:i], s.doctors[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
}

func (s *Server) listSpecialties(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.specialties)
}

func (s *Server) createSpecialty(c *gin.Context) {
	var sp model.Specialty
	if err := c.ShouldBindJSON(&sp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.AddSpecialty(sp)
	c.JSON(http.StatusCreated, model.SpecialtyResult{SpecialtyID: model.ID(id), Message: "Specialty created successfully"})
}

func (s *Server) updateSpecialty(c *gin.Context) {
	var sp model.Specialty
	if err := c.ShouldBindJSON(&sp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.specialties {
		if s.specialties[i].SpecialtyID.String() == c.Param("id") {
			sp.SpecialtyID = s.specialties[i].SpecialtyID
			s.specialties[i] = sp
			c.JSON(http.StatusOK, model.SpecialtyResult{Message: "Specialty updated successfully"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "specialty not found"})
}

func (s *Server) deleteSpecialty(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.specialties {
		if s.specialties[i].SpecialtyID.String() == c.Param("id") {
			s.specialties = append(s.specialties[:i], s.specialties[i+1:]...)
			c.JSON(http.StatusOK, model.SpecialtyResult{Message: "Specialty deleted successfully"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "specialty not found"})
}

// DecodeBody unmarshals the body of a recorded call into v.
func DecodeBody(t testing.TB, call Call, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(call.Body, v); err != nil {
		t.Fatalf("decode %s %s body: %v", call.Method, call.Path, err)
	}
}

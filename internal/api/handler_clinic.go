package api

import (
	"net/http"
	"time"

	"icare/internal/domain"
)

type optometristDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func optometristToAPI(o *domain.Optometrist) optometristDTO {
	return optometristDTO{
		ID:        o.ID,
		Name:      o.Name,
		Specialty: o.Specialty,
		Contact:   o.Contact,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type optometristBody struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Contact   *string `json:"contact"`
}

type appointmentDTO struct {
	ID              string    `json:"id"`
	User            string    `json:"user"`
	PatientName     string    `json:"patient_name"`
	Optometrist     string    `json:"optometrist"`
	OptometristName string    `json:"optometrist_name,omitempty"`
	Date            string    `json:"date"`
	TimeSlot        string    `json:"time_slot"`
	Subject         string    `json:"subject"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func appointmentToAPI(a *domain.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:              a.ID,
		User:            a.OwnerID,
		PatientName:     a.PatientName,
		Optometrist:     a.OptometristID,
		OptometristName: a.OptometristName,
		Date:            a.Date.Format(domain.DateLayout),
		TimeSlot:        a.TimeSlot,
		Subject:         a.Subject,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// appointmentBody has no owner field: a "user" value in the request is
// ignored and the caller is recorded instead.
type appointmentBody struct {
	PatientName *string `json:"patient_name"`
	Optometrist *string `json:"optometrist"`
	Date        *string `json:"date"`
	TimeSlot    *string `json:"time_slot"`
	Subject     *string `json:"subject"`
	Status      *string `json:"status"`
}

type prescriptionDTO struct {
	ID                  string    `json:"id"`
	User                string    `json:"user"`
	PatientName         string    `json:"patient_name"`
	Optometrist         string    `json:"optometrist"`
	OptometristName     string    `json:"optometrist_name,omitempty"`
	PrescriptionDetails string    `json:"prescription_details"`
	DateIssued          string    `json:"date_issued"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func prescriptionToAPI(p *domain.Prescription) prescriptionDTO {
	return prescriptionDTO{
		ID:                  p.ID,
		User:                p.OwnerID,
		PatientName:         p.PatientName,
		Optometrist:         p.OptometristID,
		OptometristName:     p.OptometristName,
		PrescriptionDetails: p.Details,
		DateIssued:          p.DateIssued.Format(domain.DateLayout),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type prescriptionBody struct {
	PatientName         *string `json:"patient_name"`
	Optometrist         *string `json:"optometrist"`
	PrescriptionDetails *string `json:"prescription_details"`
	DateIssued          *string `json:"date_issued"`
}

type libraryResourceDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Author        string    `json:"author"`
	Image         string    `json:"image"`
	ResourceFile  string    `json:"resource_file"`
	DatePublished string    `json:"date_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func libraryResourceToAPI(l *domain.LibraryResource) libraryResourceDTO {
	return libraryResourceDTO{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Author:        l.Author,
		Image:         l.Image,
		ResourceFile:  l.ResourceFile,
		DatePublished: l.DatePublished.Format(domain.DateLayout),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

type libraryResourceBody struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Author        *string `json:"author"`
	Image         *string `json:"image"`
	ResourceFile  *string `json:"resource_file"`
	DatePublished *string `json:"date_published"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// === Optometrists ===

// ListOptometrists implements GET /optometrists.
func (h *APIHandler) ListOptometrists(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	items, total, err := h.svc.Optometrists.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "optometrists", mapSlice(items, optometristToAPI), page, total)
}

// GetOptometrist implements GET /optometrists/{id}.
func (h *APIHandler) GetOptometrist(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Optometrists.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Optometrist", "optometrist", optometristToAPI(o))
}

// CreateOptometrist implements POST /optometrists.
func (h *APIHandler) CreateOptometrist(w http.ResponseWriter, r *http.Request) {
	var body optometristBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.svc.Optometrists.Create(r.Context(), domain.OptometristInput{
		Name: deref(body.Name), Specialty: deref(body.Specialty), Contact: deref(body.Contact),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Optometrist Created", "optometrist", optometristToAPI(o))
}

// UpdateOptometrist implements PUT /optometrists/{id}.
func (h *APIHandler) UpdateOptometrist(w http.ResponseWriter, r *http.Request) {
	var body optometristBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.svc.Optometrists.Update(r.Context(), idParam(r), domain.OptometristUpdate{
		Name: body.Name, Specialty: body.Specialty, Contact: body.Contact,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Optometrist Updated", "optometrist", optometristToAPI(o))
}

// DeleteOptometrist implements DELETE /optometrists/{id}.
func (h *APIHandler) DeleteOptometrist(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Optometrists.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Optometrist Deleted")
}

// === Appointments ===

// ListAppointments implements GET /appointments and GET /appointments/mine.
func (h *APIHandler) ListAppointments(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r)
		items, total, err := h.svc.Appointments.List(r.Context(), mine, page)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, "appointments", mapSlice(items, appointmentToAPI), page, total)
	}
}

// GetAppointment implements GET /appointments/{id}.
func (h *APIHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Appointments.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Appointment", "appointment", appointmentToAPI(a))
}

// CreateAppointment implements POST /appointments.
func (h *APIHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var body appointmentBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Appointments.Create(r.Context(), domain.AppointmentInput{
		PatientName:   deref(body.PatientName),
		OptometristID: deref(body.Optometrist),
		Date:          deref(body.Date),
		TimeSlot:      deref(body.TimeSlot),
		Subject:       deref(body.Subject),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Appointment Created", "appointment", appointmentToAPI(a))
}

// UpdateAppointment implements PUT /appointments/{id}.
func (h *APIHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var body appointmentBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Appointments.Update(r.Context(), idParam(r), domain.AppointmentUpdate{
		PatientName:   body.PatientName,
		OptometristID: body.Optometrist,
		Date:          body.Date,
		TimeSlot:      body.TimeSlot,
		Subject:       body.Subject,
		Status:        body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Appointment Updated", "appointment", appointmentToAPI(a))
}

// DeleteAppointment implements DELETE /appointments/{id}.
func (h *APIHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Appointments.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Appointment Deleted")
}

// === Prescriptions ===

// ListPrescriptions implements GET /prescriptions and GET /prescriptions/mine.
func (h *APIHandler) ListPrescriptions(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r)
		items, total, err := h.svc.Prescriptions.List(r.Context(), mine, page)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, "prescriptions", mapSlice(items, prescriptionToAPI), page, total)
	}
}

// GetPrescription implements GET /prescriptions/{id}.
func (h *APIHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Prescriptions.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Prescription", "prescription", prescriptionToAPI(p))
}

// CreatePrescription implements POST /prescriptions.
func (h *APIHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var body prescriptionBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Prescriptions.Create(r.Context(), domain.PrescriptionInput{
		PatientName:   deref(body.PatientName),
		OptometristID: deref(body.Optometrist),
		Details:       deref(body.PrescriptionDetails),
		DateIssued:    deref(body.DateIssued),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Prescription Created", "prescription", prescriptionToAPI(p))
}

// UpdatePrescription implements PUT /prescriptions/{id}.
func (h *APIHandler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	var body prescriptionBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Prescriptions.Update(r.Context(), idParam(r), domain.PrescriptionUpdate{
		PatientName:   body.PatientName,
		OptometristID: body.Optometrist,
		Details:       body.PrescriptionDetails,
		DateIssued:    body.DateIssued,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Prescription Updated", "prescription", prescriptionToAPI(p))
}

// DeletePrescription implements DELETE /prescriptions/{id}.
func (h *APIHandler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Prescriptions.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Prescription Deleted")
}

// === Digital library ===

// ListLibraryResources implements GET /digital-library.
func (h *APIHandler) ListLibraryResources(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	items, total, err := h.svc.Library.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "resources", mapSlice(items, libraryResourceToAPI), page, total)
}

// GetLibraryResource implements GET /digital-library/{id}.
func (h *APIHandler) GetLibraryResource(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Library.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Digital Library Resource", "resource", libraryResourceToAPI(l))
}

// CreateLibraryResource implements POST /digital-library.
func (h *APIHandler) CreateLibraryResource(w http.ResponseWriter, r *http.Request) {
	var body libraryResourceBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.svc.Library.Create(r.Context(), domain.LibraryResourceInput{
		Title:         deref(body.Title),
		Description:   deref(body.Description),
		Author:        deref(body.Author),
		Image:         deref(body.Image),
		ResourceFile:  deref(body.ResourceFile),
		DatePublished: deref(body.DatePublished),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Digital Library Resource Created", "resource", libraryResourceToAPI(l))
}

// UpdateLibraryResource implements PUT /digital-library/{id}.
func (h *APIHandler) UpdateLibraryResource(w http.ResponseWriter, r *http.Request) {
	var body libraryResourceBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.svc.Library.Update(r.Context(), idParam(r), domain.LibraryResourceUpdate{
		Title:         body.Title,
		Description:   body.Description,
		Author:        body.Author,
		Image:         body.Image,
		ResourceFile:  body.ResourceFile,
		DatePublished: body.DatePublished,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Digital Library Resource Updated", "resource", libraryResourceToAPI(l))
}

// DeleteLibraryResource implements DELETE /digital-library/{id}.
func (h *APIHandler) DeleteLibraryResource(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Library.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Digital Library Resource Deleted")
}

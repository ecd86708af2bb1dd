package domain

import (
	"strings"
	"time"
)

// Appointment statuses.
const (
	AppointmentPending   = "Pending"
	AppointmentConfirmed = "Confirmed"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

// Optometrist is a practitioner record. Optometrists are reference data with
// no per-user owner.
type Optometrist struct {
	ID        string
	Name      string
	Specialty string
	Contact   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Optometrist) ResourceID() string    { return o.ID }
func (o *Optometrist) ResourceOwner() string { return "" }

// OptometristInput holds fields for creating an optometrist.
type OptometristInput struct {
	Name      string
	Specialty string
	Contact   string
}

// Validate checks that the request is well-formed.
func (r *OptometristInput) Validate() error {
	return requireAll("name", r.Name, "specialty", r.Specialty, "contact", r.Contact)
}

// OptometristUpdate is a partial update; nil fields are left unchanged.
type OptometristUpdate struct {
	Name      *string
	Specialty *string
	Contact   *string
}

// Apply applies non-nil fields to o and re-validates the result.
func (r *OptometristUpdate) Apply(o *Optometrist) error {
	setString(&o.Name, r.Name)
	setString(&o.Specialty, r.Specialty)
	setString(&o.Contact, r.Contact)
	return requireAll("name", o.Name, "specialty", o.Specialty, "contact", o.Contact)
}

// Appointment is a booking with an optometrist, owned by the booking user.
type Appointment struct {
	ID              string
	OwnerID         string
	PatientName     string
	OptometristID   string
	OptometristName string // filled on read
	Date            time.Time
	TimeSlot        string // e.g. "10:00 AM - 11:00 AM"
	Subject         string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *Appointment) ResourceID() string    { return a.ID }
func (a *Appointment) ResourceOwner() string { return a.OwnerID }

// AppointmentInput holds fields for booking an appointment.
type AppointmentInput struct {
	PatientName   string
	OptometristID string
	Date          string
	TimeSlot      string
	Subject       string
}

// Validate checks the request and returns the parsed date.
func (r *AppointmentInput) Validate() (time.Time, error) {
	if err := requireAll("patient_name", r.PatientName, "optometrist", r.OptometristID,
		"time_slot", r.TimeSlot, "subject", r.Subject); err != nil {
		return time.Time{}, err
	}
	if !ValidID(r.OptometristID) {
		return time.Time{}, ErrValidation("invalid optometrist id")
	}
	return ParseDate("date", r.Date)
}

// AppointmentUpdate is a partial update; nil fields are left unchanged.
type AppointmentUpdate struct {
	PatientName   *string
	OptometristID *string
	Date          *string
	TimeSlot      *string
	Subject       *string
	Status        *string
}

// Apply applies non-nil fields to a and re-validates the result.
func (r *AppointmentUpdate) Apply(a *Appointment) error {
	setString(&a.PatientName, r.PatientName)
	setString(&a.TimeSlot, r.TimeSlot)
	setString(&a.Subject, r.Subject)
	setString(&a.Status, r.Status)
	if r.OptometristID != nil {
		if !ValidID(*r.OptometristID) {
			return ErrValidation("invalid optometrist id")
		}
		a.OptometristID = *r.OptometristID
	}
	if r.Date != nil {
		d, err := ParseDate("date", *r.Date)
		if err != nil {
			return err
		}
		a.Date = d
	}
	if err := requireAll("patient_name", a.PatientName, "time_slot", a.TimeSlot, "subject", a.Subject); err != nil {
		return err
	}
	return oneOf("status", a.Status,
		AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled)
}

// Prescription is an issued prescription record, owned by the user who
// recorded it.
type Prescription struct {
	ID              string
	OwnerID         string
	PatientName     string
	OptometristID   string
	OptometristName string // filled on read
	Details         string
	DateIssued      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Prescription) ResourceID() string    { return p.ID }
func (p *Prescription) ResourceOwner() string { return p.OwnerID }

// PrescriptionInput holds fields for recording a prescription.
type PrescriptionInput struct {
	PatientName   string
	OptometristID string
	Details       string
	DateIssued    string
}

// Validate checks the request and returns the parsed issue date.
func (r *PrescriptionInput) Validate() (time.Time, error) {
	if err := requireAll("patient_name", r.PatientName, "optometrist", r.OptometristID,
		"prescription_details", r.Details); err != nil {
		return time.Time{}, err
	}
	if !ValidID(r.OptometristID) {
		return time.Time{}, ErrValidation("invalid optometrist id")
	}
	return ParseDate("date_issued", r.DateIssued)
}

// PrescriptionUpdate is a partial update; nil fields are left unchanged.
type PrescriptionUpdate struct {
	PatientName   *string
	OptometristID *string
	Details       *string
	DateIssued    *string
}

// Apply applies non-nil fields to p and re-validates the result.
func (r *PrescriptionUpdate) Apply(p *Prescription) error {
	setString(&p.PatientName, r.PatientName)
	setString(&p.Details, r.Details)
	if r.OptometristID != nil {
		if !ValidID(*r.OptometristID) {
			return ErrValidation("invalid optometrist id")
		}
		p.OptometristID = *r.OptometristID
	}
	if r.DateIssued != nil {
		d, err := ParseDate("date_issued", *r.DateIssued)
		if err != nil {
			return err
		}
		p.DateIssued = d
	}
	return requireAll("patient_name", p.PatientName, "prescription_details", p.Details)
}

// LibraryResource is an entry in the digital library.
type LibraryResource struct {
	ID            string
	Title         string
	Description   string
	Author        string
	Image         string // image URL for card display
	ResourceFile  string // document URL
	DatePublished time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l *LibraryResource) ResourceID() string    { return l.ID }
func (l *LibraryResource) ResourceOwner() string { return "" }

// LibraryResourceInput holds fields for creating a library resource.
type LibraryResourceInput struct {
	Title         string
	Description   string
	Author        string
	Image         string
	ResourceFile  string
	DatePublished string
}

// Validate checks the request and returns the parsed publication date.
func (r *LibraryResourceInput) Validate() (time.Time, error) {
	if err := requireAll("title", r.Title, "description", r.Description, "author", r.Author,
		"image", r.Image, "resource_file", r.ResourceFile); err != nil {
		return time.Time{}, err
	}
	return ParseDate("date_published", r.DatePublished)
}

// LibraryResourceUpdate is a partial update; nil fields are left unchanged.
type LibraryResourceUpdate struct {
	Title         *string
	Description   *string
	Author        *string
	Image         *string
	ResourceFile  *string
	DatePublished *string
}

// Apply applies non-nil fields to l and re-validates the result.
func (r *LibraryResourceUpdate) Apply(l *LibraryResource) error {
	setString(&l.Title, r.Title)
	setString(&l.Description, r.Description)
	setString(&l.Author, r.Author)
	setString(&l.Image, r.Image)
	setString(&l.ResourceFile, r.ResourceFile)
	if r.DatePublished != nil {
		d, err := ParseDate("date_published", *r.DatePublished)
		if err != nil {
			return err
		}
		l.DatePublished = d
	}
	return requireAll("title", l.Title, "description", l.Description, "author", l.Author,
		"image", l.Image, "resource_file", l.ResourceFile)
}

// setString applies a present value, including an empty one; required-field
// checks run afterwards.
func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

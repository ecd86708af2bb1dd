package clinic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icare/internal/access"
	internaldb "icare/internal/db"
	"icare/internal/db/repository"
	"icare/internal/domain"
	"icare/internal/testutil"
)

const (
	u1    = "0190a000-0000-7000-8000-000000000001"
	u2    = "0190a000-0000-7000-8000-000000000002"
	admin = "0190a000-0000-7000-8000-0000000000aa"
)

type fixture struct {
	optometrists  *OptometristService
	appointments  *AppointmentService
	prescriptions *PrescriptionService
	library       *LibraryService
	apptRepo      *repository.AppointmentRepo
	audit         *testutil.MockAuditRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	pool := internaldb.OpenTestSQLite(t)
	audit := &testutil.MockAuditRepo{}
	guard := access.NewGuard(audit, nil, nil)

	opt := NewOptometristService(repository.NewOptometristRepo(pool), audit, guard)
	apptRepo := repository.NewAppointmentRepo(pool)
	return &fixture{
		optometrists:  opt,
		appointments:  NewAppointmentService(apptRepo, opt, audit, guard),
		prescriptions: NewPrescriptionService(repository.NewPrescriptionRepo(pool), opt, audit, guard),
		library:       NewLibraryService(repository.NewLibraryRepo(pool), audit, guard),
		apptRepo:      apptRepo,
		audit:         audit,
	}
}

func (f *fixture) optometrist(t *testing.T) *domain.Optometrist {
	t.Helper()
	o, err := f.optometrists.Create(testutil.AsAdmin(admin), domain.OptometristInput{
		Name: "Dr. Mensah", Specialty: "Pediatric", Contact: "+233 20 000 0000",
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) book(t *testing.T, caller string, optometristID string) *domain.Appointment {
	t.Helper()
	a, err := f.appointments.Create(testutil.As(caller), domain.AppointmentInput{
		PatientName: "Ama", OptometristID: optometristID, Date: "2026-11-02",
		TimeSlot: "10:00 AM - 11:00 AM", Subject: "Eye test",
	})
	require.NoError(t, err)
	return a
}

func TestOptometrist_PublicReadAdminWrite(t *testing.T) {
	f := setup(t)
	o := f.optometrist(t)

	got, err := f.optometrists.Get(testutil.Anonymous(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Mensah", got.Name)

	list, total, err := f.optometrists.List(testutil.Anonymous(), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, err = f.optometrists.Create(testutil.As(u1), domain.OptometristInput{Name: "x", Specialty: "y", Contact: "z"})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	_, err = f.optometrists.Create(testutil.Anonymous(), domain.OptometristInput{Name: "x", Specialty: "y", Contact: "z"})
	var unauth *domain.UnauthenticatedError
	require.ErrorAs(t, err, &unauth)

	name := "Dr. Owusu"
	updated, err := f.optometrists.Update(testutil.AsAdmin(admin), o.ID, domain.OptometristUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Owusu", updated.Name)

	require.NoError(t, f.optometrists.Delete(testutil.AsAdmin(admin), o.ID))
	_, err = f.optometrists.Get(testutil.Anonymous(), o.ID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Optometrist Not Found", notFound.Message)
}

func TestAppointment_CreateStampsOwnerAndPending(t *testing.T) {
	f := setup(t)
	o := f.optometrist(t)

	a := f.book(t, u1, o.ID)
	assert.Equal(t, u1, a.OwnerID)
	assert.Equal(t, domain.AppointmentPending, a.Status)
	assert.Equal(t, "Dr. Mensah", a.OptometristName)
}

func TestAppointment_MissingOptometristIsReferentialAndWritesNothing(t *testing.T) {
	f := setup(t)

	_, err := f.appointments.Create(testutil.As(u1), domain.AppointmentInput{
		PatientName: "Ama", OptometristID: domain.NewID(), Date: "2026-11-02",
		TimeSlot: "10:00 AM - 11:00 AM", Subject: "Eye test",
	})
	var ref *domain.ReferentialError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "Optometrist Not Found", ref.Message)

	_, total, err := f.apptRepo.List(context.Background(), domain.Scope{}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAppointment_NonOwnerReadIsIndistinguishableFromAbsent(t *testing.T) {
	f := setup(t)
	a := f.book(t, u1, f.optometrist(t).ID)

	_, hiddenErr := f.appointments.Get(testutil.As(u2), a.ID)
	_, absentErr := f.appointments.Get(testutil.As(u2), domain.NewID())

	var hidden, absent *domain.NotFoundError
	require.ErrorAs(t, hiddenErr, &hidden)
	require.ErrorAs(t, absentErr, &absent)
	assert.Equal(t, absent.Message, hidden.Message)
	assert.Equal(t, "Appointment Not Found", hidden.Message)
}

func TestAppointment_MalformedID(t *testing.T) {
	f := setup(t)

	_, err := f.appointments.Get(testutil.As(u1), "not-an-id")
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestAppointment_ListScopes(t *testing.T) {
	f := setup(t)
	o := f.optometrist(t)
	f.book(t, u1, o.ID)
	f.book(t, u1, o.ID)
	f.book(t, u2, o.ID)

	tests := []struct {
		name  string
		ctx   context.Context
		mine  bool
		total int64
	}{
		{name: "owner sees own", ctx: testutil.As(u1), total: 2},
		{name: "other user sees own", ctx: testutil.As(u2), total: 1},
		{name: "admin sees all", ctx: testutil.AsAdmin(admin), total: 3},
		{name: "admin mine", ctx: testutil.AsAdmin(admin), mine: true, total: 0},
		{name: "owner mine", ctx: testutil.As(u1), mine: true, total: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := f.appointments.List(tt.ctx, tt.mine, domain.PageRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, items, int(tt.total))
		})
	}

	_, _, err := f.appointments.List(testutil.Anonymous(), false, domain.PageRequest{})
	var unauth *domain.UnauthenticatedError
	require.ErrorAs(t, err, &unauth)
}

func TestAppointment_UpdateIsAdminOnly(t *testing.T) {
	f := setup(t)
	a := f.book(t, u1, f.optometrist(t).ID)
	confirmed := domain.AppointmentConfirmed

	_, err := f.appointments.Update(testutil.As(u1), a.ID, domain.AppointmentUpdate{Status: &confirmed})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	_, err = f.appointments.Update(testutil.As(u2), a.ID, domain.AppointmentUpdate{Status: &confirmed})
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	got, err := f.appointments.Update(testutil.AsAdmin(admin), a.ID, domain.AppointmentUpdate{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, got.Status)
	assert.Equal(t, u1, got.OwnerID)
}

func TestAppointment_RescheduleToMissingOptometrist(t *testing.T) {
	f := setup(t)
	a := f.book(t, u1, f.optometrist(t).ID)
	other := domain.NewID()

	_, err := f.appointments.Update(testutil.AsAdmin(admin), a.ID, domain.AppointmentUpdate{OptometristID: &other})
	var ref *domain.ReferentialError
	require.ErrorAs(t, err, &ref)
}

func TestAppointment_DeleteByOwnerForbiddenByAdminAllowed(t *testing.T) {
	f := setup(t)
	a := f.book(t, u1, f.optometrist(t).ID)

	err := f.appointments.Delete(testutil.As(u1), a.ID)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.True(t, f.audit.HasAction("delete", domain.AuditDenied))

	require.NoError(t, f.appointments.Delete(testutil.AsAdmin(admin), a.ID))
	assert.True(t, f.audit.HasAction("delete", domain.AuditAllowed))
}

func TestPrescription_Lifecycle(t *testing.T) {
	f := setup(t)
	o := f.optometrist(t)

	p, err := f.prescriptions.Create(testutil.As(u1), domain.PrescriptionInput{
		PatientName: "Ama", OptometristID: o.ID, Details: "-1.25 OD, -1.00 OS", DateIssued: "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, u1, p.OwnerID)

	details := "-1.50 OD, -1.00 OS"
	got, err := f.prescriptions.Update(testutil.As(u1), p.ID, domain.PrescriptionUpdate{Details: &details})
	require.NoError(t, err)
	assert.Equal(t, details, got.Details)

	_, err = f.prescriptions.Get(testutil.As(u2), p.ID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	empty := ""
	_, err = f.prescriptions.Update(testutil.AsAdmin(admin), p.ID, domain.PrescriptionUpdate{Details: &empty})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)

	_, err = f.prescriptions.Create(testutil.As(u1), domain.PrescriptionInput{
		PatientName: "Ama", OptometristID: domain.NewID(), Details: "x", DateIssued: "2026-10-01",
	})
	var ref *domain.ReferentialError
	require.ErrorAs(t, err, &ref)
}

func TestLibrary_AuthenticatedReadAdminWrite(t *testing.T) {
	f := setup(t)
	in := domain.LibraryResourceInput{
		Title: "Glaucoma basics", Description: "Patient leaflet", Author: "ICare",
		Image: "https://cdn.icare.test/g.png", ResourceFile: "https://cdn.icare.test/g.pdf",
		DatePublished: "2025-01-15",
	}

	_, err := f.library.Create(testutil.As(u1), in)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	l, err := f.library.Create(testutil.AsAdmin(admin), in)
	require.NoError(t, err)

	got, err := f.library.Get(testutil.As(u2), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glaucoma basics", got.Title)

	_, _, err = f.library.List(testutil.Anonymous(), domain.PageRequest{})
	var unauth *domain.UnauthenticatedError
	require.ErrorAs(t, err, &unauth)

	title := "Glaucoma: the basics"
	_, err = f.library.Update(testutil.As(u2), l.ID, domain.LibraryResourceUpdate{Title: &title})
	require.ErrorAs(t, err, &denied)

	require.NoError(t, f.library.Delete(testutil.AsAdmin(admin), l.ID))
}

package repository

import (
	"context"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

// The optometrist may have been deleted since booking; its name is then empty.
const appointmentSelect = `SELECT a.id, a.owner_id, a.patient_name, a.optometrist_id,
	COALESCE(o.name, ''), a.date, a.time_slot, a.subject, a.status, a.created_at, a.updated_at
	FROM appointments a LEFT JOIN optometrists o ON o.id = a.optometrist_id`

// AppointmentRepo stores appointment bookings.
type AppointmentRepo struct {
	pool *internaldb.Pool
}

func NewAppointmentRepo(pool *internaldb.Pool) *AppointmentRepo {
	return &AppointmentRepo{pool: pool}
}

func scanAppointment(s scanner) (domain.Appointment, error) {
	var a domain.Appointment
	err := s.Scan(&a.ID, &a.OwnerID, &a.PatientName, &a.OptometristID, &a.OptometristName,
		&a.Date, &a.TimeSlot, &a.Subject, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	id := domain.NewID()
	ts := now()
	status := a.Status
	if status == "" {
		status = domain.AppointmentPending
	}
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO appointments (id, owner_id, patient_name, optometrist_id, date, time_slot, subject, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.OwnerID, a.PatientName, a.OptometristID, a.Date.UTC(), a.TimeSlot, a.Subject, status, ts, ts)
	if err != nil {
		return nil, mapDBError(err, "Appointment")
	}
	return r.get(ctx, r.pool.Write, id)
}

func (r *AppointmentRepo) get(ctx context.Context, db execer, id string) (*domain.Appointment, error) {
	a, err := scanAppointment(db.QueryRowContext(ctx, appointmentSelect+` WHERE a.id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Appointment")
	}
	return &a, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return r.get(ctx, r.pool.Read, id)
}

func (r *AppointmentRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.Appointment, int64, error) {
	where, args := scopeClause(scope, "a.owner_id")
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM appointments a`+where,
		appointmentSelect+where+` ORDER BY a.date, a.id LIMIT ? OFFSET ?`,
		args, page, scanAppointment)
}

func (r *AppointmentRepo) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE appointments SET patient_name = ?, optometrist_id = ?, date = ?, time_slot = ?,
		 subject = ?, status = ?, updated_at = ? WHERE id = ?`,
		a.PatientName, a.OptometristID, a.Date.UTC(), a.TimeSlot, a.Subject, a.Status, now(), a.ID)
	if err != nil {
		return nil, mapDBError(err, "Appointment")
	}
	if err := checkUpdated(res, "Appointment"); err != nil {
		return nil, err
	}
	return r.get(ctx, r.pool.Write, a.ID)
}

func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "appointments", id, "Appointment")
}

package repository

import (
	"context"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const prescriptionSelect = `SELECT p.id, p.owner_id, p.patient_name, p.optometrist_id,
	COALESCE(o.name, ''), p.details, p.date_issued, p.created_at, p.updated_at
	FROM prescriptions p LEFT JOIN optometrists o ON o.id = p.optometrist_id`

// PrescriptionRepo stores issued prescriptions.
type PrescriptionRepo struct {
	pool *internaldb.Pool
}

func NewPrescriptionRepo(pool *internaldb.Pool) *PrescriptionRepo {
	return &PrescriptionRepo{pool: pool}
}

func scanPrescription(s scanner) (domain.Prescription, error) {
	var p domain.Prescription
	err := s.Scan(&p.ID, &p.OwnerID, &p.PatientName, &p.OptometristID, &p.OptometristName,
		&p.Details, &p.DateIssued, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PrescriptionRepo) Create(ctx context.Context, p *domain.Prescription) (*domain.Prescription, error) {
	id := domain.NewID()
	ts := now()
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO prescriptions (id, owner_id, patient_name, optometrist_id, details, date_issued, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.OwnerID, p.PatientName, p.OptometristID, p.Details, p.DateIssued.UTC(), ts, ts)
	if err != nil {
		return nil, mapDBError(err, "Prescription")
	}
	return r.get(ctx, r.pool.Write, id)
}

func (r *PrescriptionRepo) get(ctx context.Context, db execer, id string) (*domain.Prescription, error) {
	p, err := scanPrescription(db.QueryRowContext(ctx, prescriptionSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Prescription")
	}
	return &p, nil
}

func (r *PrescriptionRepo) GetByID(ctx context.Context, id string) (*domain.Prescription, error) {
	return r.get(ctx, r.pool.Read, id)
}

func (r *PrescriptionRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.Prescription, int64, error) {
	where, args := scopeClause(scope, "p.owner_id")
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM prescriptions p`+where,
		prescriptionSelect+where+` ORDER BY p.date_issued DESC, p.id LIMIT ? OFFSET ?`,
		args, page, scanPrescription)
}

func (r *PrescriptionRepo) Update(ctx context.Context, p *domain.Prescription) (*domain.Prescription, error) {
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE prescriptions SET patient_name = ?, optometrist_id = ?, details = ?, date_issued = ?,
		 updated_at = ? WHERE id = ?`,
		p.PatientName, p.OptometristID, p.Details, p.DateIssued.UTC(), now(), p.ID)
	if err != nil {
		return nil, mapDBError(err, "Prescription")
	}
	if err := checkUpdated(res, "Prescription"); err != nil {
		return nil, err
	}
	return r.get(ctx, r.pool.Write, p.ID)
}

func (r *PrescriptionRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "prescriptions", id, "Prescription")
}

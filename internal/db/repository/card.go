package repository

import (
	"context"
	"fmt"

	internaldb "icare/internal/db"
	"icare/internal/db/crypto"
	"icare/internal/domain"
)

const cardColumns = `id, owner_id, holder_name, number_enc, last4, expiry, cvv_enc, card_type, created_at, updated_at`

// CardRepo stores saved cards with the number and CVV sealed to the row id.
type CardRepo struct {
	pool *internaldb.Pool
	enc  *crypto.Encryptor
}

func NewCardRepo(pool *internaldb.Pool, enc *crypto.Encryptor) *CardRepo {
	return &CardRepo{pool: pool, enc: enc}
}

type cardRow struct {
	domain.Card
	numberEnc string
	cvvEnc    string
}

func scanCardRow(s scanner) (cardRow, error) {
	var c cardRow
	err := s.Scan(&c.ID, &c.OwnerID, &c.HolderName, &c.numberEnc, &c.Last4, &c.Expiry,
		&c.cvvEnc, &c.CardType, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// open decrypts the sealed fields into the embedded card.
func (r *CardRepo) open(row cardRow) (*domain.Card, error) {
	c := row.Card
	var err error
	if c.Number, err = r.enc.Open(row.numberEnc, c.ID); err != nil {
		return nil, fmt.Errorf("open card number %s: %w", c.ID, err)
	}
	if c.CVV, err = r.enc.Open(row.cvvEnc, c.ID); err != nil {
		return nil, fmt.Errorf("open card cvv %s: %w", c.ID, err)
	}
	return &c, nil
}

func (r *CardRepo) seal(c *domain.Card) (number, cvv string, err error) {
	if number, err = r.enc.Seal(c.Number, c.ID); err != nil {
		return "", "", err
	}
	if cvv, err = r.enc.Seal(c.CVV, c.ID); err != nil {
		return "", "", err
	}
	return number, cvv, nil
}

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) (*domain.Card, error) {
	out := *c
	out.ID = domain.NewID()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	if len(out.Number) >= 4 {
		out.Last4 = out.Number[len(out.Number)-4:]
	}
	numberEnc, cvvEnc, err := r.seal(&out)
	if err != nil {
		return nil, err
	}
	_, err = r.pool.Write.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.OwnerID, out.HolderName, numberEnc, out.Last4, out.Expiry, cvvEnc,
		out.CardType, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, "Card")
	}
	return &out, nil
}

func (r *CardRepo) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	row, err := scanCardRow(r.pool.Read.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Card")
	}
	return r.open(row)
}

// List returns cards without their sealed fields; Number and CVV are empty.
func (r *CardRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.Card, int64, error) {
	where, args := scopeClause(scope, "owner_id")
	return listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM cards`+where,
		`SELECT `+cardColumns+` FROM cards`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		args, page, func(s scanner) (domain.Card, error) {
			row, err := scanCardRow(s)
			return row.Card, err
		})
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) (*domain.Card, error) {
	out := *c
	out.UpdatedAt = now()
	numberEnc, cvvEnc, err := r.seal(&out)
	if err != nil {
		return nil, err
	}
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE cards SET holder_name = ?, number_enc = ?, last4 = ?, expiry = ?, cvv_enc = ?,
		 card_type = ?, updated_at = ? WHERE id = ?`,
		out.HolderName, numberEnc, out.Last4, out.Expiry, cvvEnc, out.CardType, out.UpdatedAt, out.ID)
	if err != nil {
		return nil, mapDBError(err, "Card")
	}
	if err := checkUpdated(res, "Card"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CardRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "cards", id, "Card")
}

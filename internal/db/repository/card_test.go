package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "icare/internal/db"
	"icare/internal/db/crypto"
	"icare/internal/domain"
)

func newCardRepo(t *testing.T, pool *internaldb.Pool) *CardRepo {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	return NewCardRepo(pool, enc)
}

func TestCardRepo_SealedAtRest(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := newCardRepo(t, pool)
	ctx := context.Background()
	u := createUser(t, pool, "holder", false)

	c, err := repo.Create(ctx, &domain.Card{
		OwnerID: u.ID, HolderName: "Holder", Number: "4111111111111111",
		Expiry: "12/29", CVV: "123", CardType: "Visa",
	})
	require.NoError(t, err)
	assert.Equal(t, "1111", c.Last4)

	var numberEnc, cvvEnc string
	require.NoError(t, pool.Read.QueryRow(
		`SELECT number_enc, cvv_enc FROM cards WHERE id = ?`, c.ID).Scan(&numberEnc, &cvvEnc))
	assert.NotContains(t, numberEnc, "4111111111111111")
	assert.NotEqual(t, "123", cvvEnc)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", got.Number)
	assert.Equal(t, "123", got.CVV)

	list, total, err := repo.List(ctx, domain.OwnedBy(u.ID), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Number)
	assert.Equal(t, "1111", list[0].Last4)
}

func TestCardRepo_CiphertextBoundToRow(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := newCardRepo(t, pool)
	ctx := context.Background()
	u := createUser(t, pool, "holder", false)

	in := domain.Card{OwnerID: u.ID, HolderName: "H", Number: "5500000000000004", Expiry: "01/30", CVV: "999", CardType: "MasterCard"}
	a, err := repo.Create(ctx, &in)
	require.NoError(t, err)
	b, err := repo.Create(ctx, &in)
	require.NoError(t, err)

	_, err = pool.Write.Exec(`UPDATE cards SET number_enc = (SELECT number_enc FROM cards WHERE id = ?) WHERE id = ?`, a.ID, b.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, crypto.ErrTampered)
}

func TestCardRepo_ListNewestFirst(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := newCardRepo(t, pool)
	ctx := context.Background()
	u := createUser(t, pool, "holder", false)

	in := domain.Card{OwnerID: u.ID, HolderName: "H", Number: "4111111111111111", Expiry: "12/29", CVV: "123", CardType: "Visa"}
	first, err := repo.Create(ctx, &in)
	require.NoError(t, err)
	second, err := repo.Create(ctx, &in)
	require.NoError(t, err)

	list, _, err := repo.List(ctx, domain.OwnedBy(u.ID), domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

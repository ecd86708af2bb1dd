package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardInput_Validate(t *testing.T) {
	in := CardInput{
		HolderName: "Ada Lovelace",
		Number:     "4111 1111-1111 1111",
		Expiry:     "09/29",
		CVV:        "123",
		CardType:   "Visa",
	}
	require.NoError(t, in.Validate())
	assert.Equal(t, "4111111111111111", in.Number)

	bad := in
	bad.Expiry = "13/29"
	var ve *ValidationError
	assert.ErrorAs(t, bad.Validate(), &ve)

	bad = in
	bad.CVV = "12a"
	assert.ErrorAs(t, bad.Validate(), &ve)

	bad = in
	bad.Number = "4111"
	assert.ErrorAs(t, bad.Validate(), &ve)
}

func TestCardUpdate_NumberRefreshesLast4(t *testing.T) {
	c := &Card{HolderName: "Ada", Number: "4111111111111111", Last4: "1111", Expiry: "09/29", CVV: "123", CardType: "Visa"}
	n := "5500 0000 0000 0004"
	require.NoError(t, (&CardUpdate{Number: &n}).Apply(c))
	assert.Equal(t, "0004", c.Last4)
	assert.Equal(t, "**** **** **** 0004", c.MaskedNumber())
}

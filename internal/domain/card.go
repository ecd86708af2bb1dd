package domain

import (
	"regexp"
	"strings"
	"time"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// Card is a saved payment card owned by one user. Number and CVV are held
// in clear only in memory; repositories store them encrypted.
type Card struct {
	ID         string
	OwnerID    string
	HolderName string
	Number     string
	Last4      string
	Expiry     string // MM/YY
	CVV        string
	CardType   string // e.g. Visa, MasterCard
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Card) ResourceID() string    { return c.ID }
func (c *Card) ResourceOwner() string { return c.OwnerID }

// MaskedNumber returns the card number with everything but the last four
// digits hidden.
func (c *Card) MaskedNumber() string {
	return "**** **** **** " + c.Last4
}

// CardInput holds fields for saving a card.
type CardInput struct {
	HolderName string
	Number     string
	Expiry     string
	CVV        string
	CardType   string
}

// Validate checks the request and normalises the card number.
func (r *CardInput) Validate() error {
	if err := requireAll("card_holder_name", r.HolderName, "card_number", r.Number,
		"expiry_date", r.Expiry, "cvv", r.CVV, "card_type", r.CardType); err != nil {
		return err
	}
	n, err := normalizeCardNumber(r.Number)
	if err != nil {
		return err
	}
	r.Number = n
	return validateCardSecrets(r.Expiry, r.CVV)
}

// CardUpdate is a partial update; nil fields are left unchanged.
type CardUpdate struct {
	HolderName *string
	Number     *string
	Expiry     *string
	CVV        *string
	CardType   *string
}

// Apply applies non-nil fields to c and re-validates the result.
func (r *CardUpdate) Apply(c *Card) error {
	setString(&c.HolderName, r.HolderName)
	setString(&c.Expiry, r.Expiry)
	setString(&c.CVV, r.CVV)
	setString(&c.CardType, r.CardType)
	if r.Number != nil {
		n, err := normalizeCardNumber(*r.Number)
		if err != nil {
			return err
		}
		c.Number = n
		c.Last4 = n[len(n)-4:]
	}
	if err := requireAll("card_holder_name", c.HolderName, "card_type", c.CardType); err != nil {
		return err
	}
	return validateCardSecrets(c.Expiry, c.CVV)
}

func normalizeCardNumber(s string) (string, error) {
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	if len(s) < 12 || len(s) > 19 {
		return "", ErrValidation("card_number must have 12 to 19 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrValidation("card_number must contain only digits")
		}
	}
	return s, nil
}

func validateCardSecrets(expiry, cvv string) error {
	if !expiryPattern.MatchString(expiry) {
		return ErrValidation("expiry_date must be MM/YY")
	}
	if !cvvPattern.MatchString(cvv) {
		return ErrValidation("cvv must be 3 or 4 digits")
	}
	return nil
}

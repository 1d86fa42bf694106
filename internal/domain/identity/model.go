package identity

import (
	"time"

	"github.com/google/uuid"
)

// Gender codes used by test-type applicability rules.
const (
	GenderMale   = "m"
	GenderFemale = "f"
)

// ValidGender reports whether g is a known gender code.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// Patient maps to the patient table.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TenantID   string     `db:"tenant_id" json:"tenant_id"`
	GivenName  string     `db:"given_name" json:"given_name"`
	FamilyName string     `db:"family_name" json:"family_name"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender     *string    `db:"gender" json:"gender,omitempty"`
	Active     bool       `db:"active" json:"active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// AgeOn returns the patient's age in whole years as of the given date, using
// calendar semantics: the age increments on the birthday, so a patient born
// 2000-06-15 is 17 on 2018-06-14 and 18 on 2018-06-15. Returns false when the
// birth date is unknown.
func (p *Patient) AgeOn(at time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	b := *p.BirthDate
	years := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID         uuid.UUID `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"tenant_id"`
	GivenName  string    `db:"given_name" json:"given_name"`
	FamilyName string    `db:"family_name" json:"family_name"`
	Specialty  *string   `db:"specialty" json:"specialty,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

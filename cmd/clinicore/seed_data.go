package main

import (
	"github.com/clinicore/clinicore/internal/domain/identity"
	"github.com/clinicore/clinicore/internal/domain/labs"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// builtinTestTypes is the default catalog loaded by `seed test-types`.
// Ranges are adult reference intervals; sites can adjust rows afterwards.
func builtinTestTypes() []*labs.TestTypeDefinition {
	return []*labs.TestTypeDefinition{
		{
			Code: "cbc", DisplayName: "Complete Blood Count (WBC, 10^9/L)",
			NormalRangeLow: floatPtr(4.0), NormalRangeHigh: floatPtr(11.0), Active: true,
		},
		{
			Code: "glucose-fasting", DisplayName: "Fasting Glucose (mg/dL)",
			NormalRangeLow: floatPtr(70), NormalRangeHigh: floatPtr(100), Active: true,
		},
		{
			Code: "hba1c", DisplayName: "Hemoglobin A1c (%)",
			MinAgeYears:    intPtr(18),
			NormalRangeLow: floatPtr(4.0), NormalRangeHigh: floatPtr(5.6), Active: true,
		},
		{
			Code: "psa", DisplayName: "Prostate Specific Antigen (ng/mL)",
			MinAgeYears: intPtr(40), ApplicableGender: strPtr(identity.GenderMale),
			NormalRangeHigh: floatPtr(4.0), Active: true,
		},
		{
			Code: "hcg", DisplayName: "Beta hCG (mIU/mL)",
			MinAgeYears: intPtr(12), MaxAgeYears: intPtr(60),
			ApplicableGender: strPtr(identity.GenderFemale),
			NormalRangeHigh:  floatPtr(5.0), Active: true,
		},
		{
			Code: "tsh", DisplayName: "Thyroid Stimulating Hormone (mIU/L)",
			NormalRangeLow: floatPtr(0.4), NormalRangeHigh: floatPtr(4.0), Active: true,
		},
		{
			Code: "creatinine", DisplayName: "Serum Creatinine (mg/dL)",
			MinAgeYears:    intPtr(18),
			NormalRangeLow: floatPtr(0.6), NormalRangeHigh: floatPtr(1.3), Active: true,
		},
		{
			Code: "bilirubin-neonatal", DisplayName: "Neonatal Bilirubin (mg/dL)",
			MaxAgeYears:     intPtr(0),
			NormalRangeHigh: floatPtr(12.0), Active: true,
		},
	}
}

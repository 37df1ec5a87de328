// Package model holds the cross-source data types shared by every loader,
// the merger, and the pipeline driver (spec §3).
package model

import "strings"

// Medicine is one monograph record, created by the AIPS loader and
// immutable thereafter. RegNrs is the raw comma/space-separated field as
// read from the feed; RegNrsList is the same data parsed into an ordered
// sequence of zero-padded 5-character RNs.
type Medicine struct {
	Title           string `db:"title"`
	AuthHolder      string `db:"auth"`
	AtcCode         string `db:"atc"`
	ActiveSubstance string `db:"substance"`
	RegNrs          string `db:"regnrs"`
	RegNrsList      []string
	RawContentXML   string
}

// ParseRegNrs splits a medicine's raw regnrs field on commas and/or spaces,
// dropping empty fragments, and pads every fragment to 5 digits (spec §3:
// "all comparisons, map keys, and GTIN compositions use the padded form").
func ParseRegNrs(raw string, pad func(n int, s string) string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, pad(5, f))
	}
	return out
}

// Package is a single packaging/commercial line identified by its GTIN-13
// (spec §3). It belongs to exactly one RN.
type Package struct {
	GTIN          string
	RN            string
	Name          string
	Category      string // single letter A-E, "A+" when narcotics flag set
	PublicPrice   string
	ReservePrice  string
	Reimbursement string
	Application   string
}

// PedCase is a SwissPedDose case (spec §3).
type PedCase struct {
	CaseID        string
	ATCCode       string
	IndicationKey string
	ROACode       string
}

// Indication is a localised SwissPedDose indication name (spec §3).
type Indication struct {
	Key  string
	Name string
}

// UnitRef is an optional reference-unit denominator attached to a dose or
// max-dose value (spec §3: "up to two reference-unit denominators").
type UnitRef struct {
	Ref1 string
	Ref2 string
}

// DosageRecommendation is one SwissPedDose dosage row (spec §3). Multiple
// dosages may share a CaseID.
type DosageRecommendation struct {
	CaseID string

	AgeLow, AgeHigh         string
	AgeLowUnit, AgeHighUnit string
	AgeWeightRelation       string

	WeightLow, WeightHigh string

	DoseLow, DoseHigh string
	DoseUnit          string
	DoseUnitRef       UnitRef

	DailyRepetitionsLow, DailyRepetitionsHigh string

	MaxSingleDose     string
	MaxSingleDoseUnit string
	MaxSingleDoseRef  UnitRef

	MaxDailyDose     string
	MaxDailyDoseUnit string
	MaxDailyDoseRef  UnitRef

	TypeOfCase string
	Remark     string
}

// ATCEntry is a multilingual ATC code entry (spec §3); only the requested
// language's name is retained once a loader resolves it.
type ATCEntry struct {
	Code string
	Name string
}

// NamedGTIN pairs a package display name with the GTIN-13 it belongs to.
// Every source loader's name* query (Refdata.NamesByRn,
// Swissmedic.AdditionalNamesByRn, BAG.AdditionalNamesByRn) returns these so
// the merger (spec §4.3) can de-duplicate by GTIN and the decorator (§4.4)
// can look up price/category per line.
type NamedGTIN struct {
	Name   string
	GTIN13 string
}

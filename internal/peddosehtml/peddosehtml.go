// Package peddosehtml renders the pediatric dosing table embedded in a
// monograph's generated HTML (spec §4.6): one `<table class="s14">` per
// SwissPedDose case matching a medicine's ATC code, each row a dosage
// recommendation.
package peddosehtml

import (
	"fmt"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/model"
)

// Source is the subset of the peddose loader the table generator needs.
type Source interface {
	CasesByAtc(atc string) []model.PedCase
	DescriptionByAtc(atc string) string
	IndicationByKey(key string) string
	DosagesByCaseID(caseID string) []model.DosageRecommendation
	DescriptionByCode(codeType, value string) string
}

// abbreviations is the static fallback unit-name table (spec §9: prefer a
// parsed DOSISUNIT code description when the loader has one, and fall back
// to this table otherwise).
var abbreviations = map[string]string{
	"Dosis":      "dose",
	"Gramm":      "g",
	"Kilogramm":  "kg",
	"Milligramm": "mg",
	"Tag":        "day",
}

func abbreviate(src Source, unit string) string {
	if unit == "" {
		return ""
	}
	if desc := src.DescriptionByCode("DOSISUNIT", unit); desc != "" {
		return desc
	}
	if short, ok := abbreviations[unit]; ok {
		return short
	}
	return unit
}

const (
	tagTableL = `<table class="s14">`
	tagTableR = `</table>`
	tagTdL    = `<td class="s13"><p class="s11">`
	tagTdR    = `</p><div class="s12"/></td>`
	tagThL    = `<th>`
	tagThR    = `</th>`
)

var headerLabels = []string{"Age", "Weight", "Type of use", "Dosage", "Daily repetitions", "ROA", "Max. daily dose"}

// Table renders one table per case matching atc, in the loader's case
// order. Returns "" when atc has no cases (spec §4.6: "a medicine whose ATC
// has no cases contributes nothing").
func Table(src Source, atc string) string {
	cases := src.CasesByAtc(atc)
	if len(cases) == 0 {
		return ""
	}

	description := src.DescriptionByAtc(atc)

	var b strings.Builder
	for _, c := range cases {
		indication := src.IndicationByKey(c.IndicationKey)

		fmt.Fprintf(&b, "<br>\n%s<br>\n", description)
		fmt.Fprintf(&b, "\nATC-Code: %s<br>\n", atc)
		fmt.Fprintf(&b, "Indication: %s<br>\n", indication)

		dosages := src.DosagesByCaseID(c.CaseID)
		b.WriteString(renderTable(src, dosages, c.ROACode))
	}
	return b.String()
}

func renderTable(src Source, dosages []model.DosageRecommendation, roaCode string) string {
	if len(dosages) == 0 {
		return tagTableL + tagTableR
	}

	var table strings.Builder
	table.WriteString(`<colgroup><col span="7" style="background-color: #EEEEEE; padding-right: 5px; padding-left: 5px"/></colgroup>`)

	var header strings.Builder
	for _, label := range headerLabels {
		header.WriteString(tagThL)
		header.WriteString(label)
		header.WriteString(tagThR)
	}
	table.WriteString("<thead><tr>" + header.String() + "</tr></thead>")

	for _, d := range dosages {
		table.WriteString(renderRow(src, d, roaCode))
	}

	return tagTableL + table.String() + tagTableR
}

func renderRow(src Source, d model.DosageRecommendation, roaCode string) string {
	var row strings.Builder

	row.WriteString(tagTdL)
	row.WriteString(d.AgeLow + d.AgeLowUnit)
	row.WriteString(" to " + d.AgeHigh + d.AgeHighUnit)
	if d.AgeWeightRelation != "" {
		row.WriteString(" " + d.AgeWeightRelation)
	}
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(d.WeightLow)
	if d.WeightLow != d.WeightHigh {
		row.WriteString(" to " + d.WeightHigh)
	}
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(d.TypeOfCase)
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(d.DoseLow)
	if d.DoseLow != d.DoseHigh {
		row.WriteString(" - " + d.DoseHigh)
	}
	row.WriteString(" " + abbreviate(src, d.DoseUnit))
	if d.DoseUnitRef.Ref1 != "" {
		row.WriteString("/" + abbreviate(src, d.DoseUnitRef.Ref1))
	}
	if d.DoseUnitRef.Ref2 != "" {
		row.WriteString("/" + abbreviate(src, d.DoseUnitRef.Ref2))
	}
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(d.DailyRepetitionsLow)
	if d.DailyRepetitionsLow != d.DailyRepetitionsHigh {
		row.WriteString(" - " + d.DailyRepetitionsHigh)
	}
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(roaCode)
	row.WriteString(tagTdR)

	row.WriteString(tagTdL)
	row.WriteString(d.MaxDailyDose + " " + abbreviate(src, d.MaxDailyDoseUnit))
	if d.MaxDailyDoseRef.Ref1 != "" {
		row.WriteString("/" + abbreviate(src, d.MaxDailyDoseRef.Ref1))
	}
	row.WriteString(tagTdR)

	return "<tr>" + row.String() + "</tr>"
}

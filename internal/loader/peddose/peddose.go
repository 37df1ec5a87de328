// Package peddose loads the SwissPedDose pediatric dosing feed: cases,
// localised indications, classification codes, and dosage recommendations,
// joined later by ATC code (spec §4.6).
//
// Grounded closely on original_source/peddose.cpp's BOOST_FOREACH walk over
// <SwissPedDosePublication>{Cases,Indications,Codes,Dosages}. Per spec §9
// ("preserve those exact tag names ... to remain bit-compatible with the
// upstream feed"), the upstream misspellings DecsriptionF, DecriptionE and
// IndikationNameE are kept verbatim as XML struct tags; the Go field names
// are spelled correctly.
package peddose

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

type feedDocument struct {
	XMLName xml.Name `xml:"SwissPedDosePublication"`
	Cases struct {
		Case []caseXML `xml:"Case"`
	} `xml:"Cases"`
	Indications struct {
		Indication []indicationXML `xml:"Indication"`
	} `xml:"Indications"`
	Codes struct {
		Code []codeXML `xml:"Code"`
	} `xml:"Codes"`
	Dosages struct {
		Dosage []dosageXML `xml:"Dosage"`
	} `xml:"Dosages"`
}

type caseXML struct {
	CaseID        string `xml:"CaseID"`
	ATCCode       string `xml:"ATCCode"`
	IndicationKey string `xml:"IndicationKey"`
	ROACode       string `xml:"ROACode"`
}

type indicationXML struct {
	IndicationKey   string `xml:"IndicationKey"`
	IndicationNameD string `xml:"IndicationNameD"`
	IndicationNameF string `xml:"IndicationNameF"`
	IndikationNameE string `xml:"IndikationNameE"` // upstream misspelling, kept verbatim
	RecStatus       string `xml:"RecStatus"`
}

type codeXML struct {
	CodeType     string `xml:"CodeType"`
	CodeValue    string `xml:"CodeValue"`
	DescriptionD string `xml:"DescriptionD"`
	DecsriptionF string `xml:"DecsriptionF"` // upstream misspelling, kept verbatim
	DecriptionE  string `xml:"DecriptionE"`  // upstream misspelling, kept verbatim
	RecStatus    string `xml:"RecStatus"`
}

type dosageXML struct {
	DosageKey  string `xml:"DosageKey"`
	CaseID     string `xml:"CaseID"`
	TypeOfCase string `xml:"TypeOfCase"`

	AgeFrom           string `xml:"AgeFrom"`
	AgeFromUnit       string `xml:"AgeFromUnit"`
	AgeTo             string `xml:"AgeTo"`
	AgeToUnit         string `xml:"AgeToUnit"`
	AgeWeightRelation string `xml:"AgeWeightRelation"`

	WeightFrom string `xml:"WeightFrom"`
	WeightTo   string `xml:"WeightTo"`

	LowerDoseRange          string `xml:"LowerDoseRange"`
	UpperDoseRange          string `xml:"UpperDoseRange"`
	DoseRangeUnit           string `xml:"DoseRangeUnit"`
	DoseRangeReferenceUnit1 string `xml:"DoseRangeReferenceUnit1"`
	DoseRangeReferenceUnit2 string `xml:"DoseRangeReferenceUnit2"`

	LowerRangeDailyRepetitions string `xml:"LowerRangeDailyRepetitions"`
	UpperRangeDailyRepetitions string `xml:"UpperRangeDailyRepetitions"`

	MaxSingleDose               string `xml:"MaxSingleDose"`
	MaxSingleDoseUnit           string `xml:"MaxSingleDoseUnit"`
	MaxSingleDoseReferenceUnit1 string `xml:"MaxSingleDoseReferenceUnit1"`
	MaxSingleDoseReferenceUnit2 string `xml:"MaxSingleDoseReferenceUnit2"`

	MaxDailyDose               string `xml:"MaxDailyDose"`
	MaxDailyDoseUnit           string `xml:"MaxDailyDoseUnit"`
	MaxDailyDoseReferenceUnit1 string `xml:"MaxDailyDoseReferenceUnit1"`
	MaxDailyDoseReferenceUnit2 string `xml:"MaxDailyDoseReferenceUnit2"`

	RemarksD string `xml:"RemarksD"`
	RemarksF string `xml:"RemarksF"`
	RemarksI string `xml:"RemarksI"`
	RemarksE string `xml:"RemarksE"`
}

// Loader holds the four indexes spec §4.2 names: casesByAtc,
// dosagesByCaseId, indicationsByKey, codesByValue (partitioned by type).
type Loader struct {
	casesByAtc      map[string][]model.PedCase
	dosagesByCaseID map[string][]model.DosageRecommendation
	indicationByKey map[string]string
	descByCodeType  map[string]map[string]string // codeType -> codeValue -> localised description
}

// Load reads the SwissPedDose feed at path, resolving localised text to
// lang. Remarks resolve to "de", "fr", "it", or English for any other
// value; indication names and code descriptions resolve to "de" or "fr",
// and to English for any other value, "it" included.
func Load(path, lang string) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("peddose: %w: %s", xerr.ErrInputMissing, path)
	}
	defer f.Close()

	var doc feedDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("peddose: %w: %v", xerr.ErrParseFatal, err)
	}

	l := &Loader{
		casesByAtc:      make(map[string][]model.PedCase),
		dosagesByCaseID: make(map[string][]model.DosageRecommendation),
		indicationByKey: make(map[string]string),
		descByCodeType:  make(map[string]map[string]string),
	}

	for _, c := range doc.Cases.Case {
		pc := model.PedCase{
			CaseID:        c.CaseID,
			ATCCode:       c.ATCCode,
			IndicationKey: c.IndicationKey,
			ROACode:       c.ROACode,
		}
		l.casesByAtc[c.ATCCode] = append(l.casesByAtc[c.ATCCode], pc)
	}

	for _, in := range doc.Indications.Indication {
		var name string
		switch lang {
		case "de":
			name = in.IndicationNameD
		case "fr":
			name = in.IndicationNameF
		default:
			name = in.IndikationNameE
		}
		l.indicationByKey[in.IndicationKey] = name
	}

	for _, co := range doc.Codes.Code {
		var desc string
		switch lang {
		case "de":
			desc = co.DescriptionD
		case "fr":
			desc = co.DecsriptionF
		default:
			desc = co.DecriptionE
		}
		byValue, ok := l.descByCodeType[co.CodeType]
		if !ok {
			byValue = make(map[string]string)
			l.descByCodeType[co.CodeType] = byValue
		}
		byValue[co.CodeValue] = desc
	}

	for _, d := range doc.Dosages.Dosage {
		rec := model.DosageRecommendation{
			CaseID: d.CaseID,

			AgeLow: d.AgeFrom, AgeLowUnit: d.AgeFromUnit,
			AgeHigh: d.AgeTo, AgeHighUnit: d.AgeToUnit,
			AgeWeightRelation: d.AgeWeightRelation,

			WeightLow: d.WeightFrom, WeightHigh: d.WeightTo,

			DoseLow: d.LowerDoseRange, DoseHigh: d.UpperDoseRange,
			DoseUnit:    d.DoseRangeUnit,
			DoseUnitRef: model.UnitRef{Ref1: d.DoseRangeReferenceUnit1, Ref2: d.DoseRangeReferenceUnit2},

			DailyRepetitionsLow:  d.LowerRangeDailyRepetitions,
			DailyRepetitionsHigh: d.UpperRangeDailyRepetitions,

			MaxSingleDose:     d.MaxSingleDose,
			MaxSingleDoseUnit: d.MaxSingleDoseUnit,
			MaxSingleDoseRef:  model.UnitRef{Ref1: d.MaxSingleDoseReferenceUnit1, Ref2: d.MaxSingleDoseReferenceUnit2},

			MaxDailyDose:     d.MaxDailyDose,
			MaxDailyDoseUnit: d.MaxDailyDoseUnit,
			MaxDailyDoseRef:  model.UnitRef{Ref1: d.MaxDailyDoseReferenceUnit1, Ref2: d.MaxDailyDoseReferenceUnit2},

			TypeOfCase: d.TypeOfCase,
			Remark:     remarkFor(d, lang),
		}
		l.dosagesByCaseID[d.CaseID] = append(l.dosagesByCaseID[d.CaseID], rec)
	}

	return l, nil
}

func remarkFor(d dosageXML, lang string) string {
	switch lang {
	case "de":
		return d.RemarksD
	case "fr":
		return d.RemarksF
	case "it":
		return d.RemarksI
	default:
		return d.RemarksE
	}
}

// CasesByAtc returns every case for atc, in feed order. Nil if none exist.
func (l *Loader) CasesByAtc(atc string) []model.PedCase {
	return l.casesByAtc[atc]
}

// DescriptionByAtc resolves atc through the ATC-typed code index, mirroring
// the original's codeAtcMap[atc].description.
func (l *Loader) DescriptionByAtc(atc string) string {
	return l.descByCodeType["ATC"][atc]
}

// IndicationByKey resolves a localised indication name.
func (l *Loader) IndicationByKey(key string) string {
	return l.indicationByKey[key]
}

// DosagesByCaseID returns every dosage recommendation sharing caseID.
func (l *Loader) DosagesByCaseID(caseID string) []model.DosageRecommendation {
	return l.dosagesByCaseID[caseID]
}

// DescriptionByCode resolves a localised description for any code type
// (e.g. "DOSISUNIT", "ROA"), used to prefer the parsed feed over the static
// abbreviation table (spec §9: "prefer driving abbreviation from the parsed
// codes, not a literal table").
func (l *Loader) DescriptionByCode(codeType, value string) string {
	return l.descByCodeType[codeType][value]
}

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ywesee/cpp2sqlite-go/internal/model"
	"github.com/ywesee/cpp2sqlite-go/internal/platform/sqlitewriter"
)

type fakeRefdata struct{ names map[string][]model.NamedGTIN }

func (f *fakeRefdata) NamesByRn(rn string, used map[string]bool) []model.NamedGTIN {
	var out []model.NamedGTIN
	for _, ng := range f.names[rn] {
		if used[ng.GTIN13] {
			continue
		}
		used[ng.GTIN13] = true
		out = append(out, ng)
	}
	return out
}

type fakeSwissmedic struct {
	application map[string]string
	categories  map[string]string
}

func (f *fakeSwissmedic) ApplicationByRn(rn string) string { return f.application[rn] }
func (f *fakeSwissmedic) AdditionalNamesByRn(rn string, used map[string]bool) []model.NamedGTIN {
	return nil
}
func (f *fakeSwissmedic) CategoryByGTIN(gtin13 string) string { return f.categories[gtin13] }

type fakeBag struct {
	tindex      map[string]string
	application map[string]string
	paf         map[string]string
}

func (f *fakeBag) TindexByRn(rn string) string      { return f.tindex[rn] }
func (f *fakeBag) ApplicationByRn(rn string) string { return f.application[rn] }
func (f *fakeBag) AdditionalNamesByRn(rn string, used map[string]bool) []model.NamedGTIN {
	return nil
}
func (f *fakeBag) PricesAndFlags(gtin13, fallbackPrice, category string) string { return "" }

type fakeATC struct{ names map[string]string }

func (f *fakeATC) NameByCode(code string) string { return f.names[code] }

type fakeWriter struct {
	rows []sqlitewriter.RowValues
}

func (w *fakeWriter) BindRow(row sqlitewriter.RowValues) error {
	w.rows = append(w.rows, row)
	return nil
}
func (w *fakeWriter) Close() error { return nil }

func TestRun_AssemblesRowsInOrder(t *testing.T) {
	loaders := Loaders{
		Refdata:         &fakeRefdata{names: map[string][]model.NamedGTIN{"00001": {{Name: "Foo", GTIN13: "7680123456781"}}}},
		Swissmedic:      &fakeSwissmedic{application: map[string]string{"00001": "ZSR"}, categories: map[string]string{}},
		SwissmedicMerge: &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		Bag:             &fakeBag{tindex: map[string]string{"00001": "1"}, application: map[string]string{}, paf: map[string]string{}},
	}
	w := &fakeWriter{}
	d := NewDriver(loaders, w, zerolog.Nop())

	medicines := []model.Medicine{
		{Title: "Medicine A", RegNrs: "00001", RegNrsList: []string{"00001"}, RawContentXML: `<content><p id="section1">A</p></content>`},
		{Title: "Medicine B", RegNrs: "00002", RegNrsList: []string{"00002"}, RawContentXML: `<content><p id="section1">B</p></content>`},
	}

	stats, err := d.Run(context.Background(), medicines)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", stats.Rows)
	}
	if len(w.rows) != 2 || w.rows[0].Title != "Medicine A" || w.rows[1].Title != "Medicine B" {
		t.Fatalf("rows not written in document order: %+v", w.rows)
	}
	if w.rows[0].Tindex != "1" || w.rows[0].Application != "ZSR" {
		t.Errorf("row 0 tindex/application = %q/%q, want 1/ZSR", w.rows[0].Tindex, w.rows[0].Application)
	}
	if !strings.Contains(w.rows[0].PackInfo, "Foo") {
		t.Errorf("expected merged packInfo to contain Foo, got %q", w.rows[0].PackInfo)
	}
	if len(stats.Merge.OrphanRNs) != 1 || stats.Merge.OrphanRNs[0] != "00002" {
		t.Errorf("OrphanRNs = %v, want [00002]", stats.Merge.OrphanRNs)
	}
}

func TestRun_FallsBackToAtcNameWhenActiveSubstanceEmpty(t *testing.T) {
	loaders := Loaders{
		Refdata:         &fakeRefdata{names: map[string][]model.NamedGTIN{}},
		Swissmedic:      &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		SwissmedicMerge: &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		Bag:             &fakeBag{tindex: map[string]string{}, application: map[string]string{}, paf: map[string]string{}},
		ATC:             &fakeATC{names: map[string]string{"A02BC02": "Pantoprazolum"}},
	}
	w := &fakeWriter{}
	d := NewDriver(loaders, w, zerolog.Nop())

	medicines := []model.Medicine{
		{Title: "Medicine A", RegNrs: "00001", RegNrsList: []string{"00001"}, AtcCode: "A02BC02", ActiveSubstance: ""},
	}
	if _, err := d.Run(context.Background(), medicines); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.rows[0].ActiveSubstance != "Pantoprazolum" {
		t.Errorf("ActiveSubstance = %q, want Pantoprazolum (ATC fallback)", w.rows[0].ActiveSubstance)
	}
}

func TestRun_KeepsActiveSubstanceWhenPresent(t *testing.T) {
	loaders := Loaders{
		Refdata:         &fakeRefdata{names: map[string][]model.NamedGTIN{}},
		Swissmedic:      &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		SwissmedicMerge: &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		Bag:             &fakeBag{tindex: map[string]string{}, application: map[string]string{}, paf: map[string]string{}},
		ATC:             &fakeATC{names: map[string]string{"A02BC02": "Pantoprazolum"}},
	}
	w := &fakeWriter{}
	d := NewDriver(loaders, w, zerolog.Nop())

	medicines := []model.Medicine{
		{Title: "Medicine A", RegNrs: "00001", RegNrsList: []string{"00001"}, AtcCode: "A02BC02", ActiveSubstance: "Explicit Substance"},
	}
	if _, err := d.Run(context.Background(), medicines); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.rows[0].ActiveSubstance != "Explicit Substance" {
		t.Errorf("ActiveSubstance = %q, want Explicit Substance (no fallback)", w.rows[0].ActiveSubstance)
	}
}

func TestRun_UnparsableMonographXmlStillProducesARow(t *testing.T) {
	loaders := Loaders{
		Refdata:         &fakeRefdata{names: map[string][]model.NamedGTIN{}},
		Swissmedic:      &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		SwissmedicMerge: &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		Bag:             &fakeBag{tindex: map[string]string{}, application: map[string]string{}, paf: map[string]string{}},
	}
	w := &fakeWriter{}
	d := NewDriver(loaders, w, zerolog.Nop())

	medicines := []model.Medicine{
		{Title: "Medicine A", RegNrs: "00001", RegNrsList: []string{"00001"}, RawContentXML: "<unterminated"},
	}
	if _, err := d.Run(context.Background(), medicines); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(w.rows) != 1 {
		t.Fatalf("expected one row even when monograph xml fails to parse, got %d", len(w.rows))
	}
}

func TestRun_JoinsSwissmedicAndBagApplications(t *testing.T) {
	loaders := Loaders{
		Refdata:         &fakeRefdata{names: map[string][]model.NamedGTIN{}},
		Swissmedic:      &fakeSwissmedic{application: map[string]string{"00001": "ZSR"}, categories: map[string]string{}},
		SwissmedicMerge: &fakeSwissmedic{application: map[string]string{}, categories: map[string]string{}},
		Bag:             &fakeBag{tindex: map[string]string{}, application: map[string]string{"00001": "SL"}, paf: map[string]string{}},
	}
	w := &fakeWriter{}
	d := NewDriver(loaders, w, zerolog.Nop())

	medicines := []model.Medicine{
		{Title: "Medicine A", RegNrs: "00001", RegNrsList: []string{"00001"}},
	}
	if _, err := d.Run(context.Background(), medicines); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.rows[0].Application != "ZSR;SL" {
		t.Errorf("Application = %q, want ZSR;SL", w.rows[0].Application)
	}
}

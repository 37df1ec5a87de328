package refdata

import "testing"

func TestNamesByRn_AccumulatesUsedGtins(t *testing.T) {
	l := &Loader{entries: []Entry{
		{RN: "00001", GTIN13: "7680123450000", Name: "Foo 10mg"},
		{RN: "00001", GTIN13: "7680123450017", Name: "Foo 20mg"},
		{RN: "00002", GTIN13: "7680123450024", Name: "Bar"},
	}}

	used := map[string]bool{}
	got := l.NamesByRn("00001", used)
	if len(got) != 2 {
		t.Fatalf("NamesByRn(00001) = %v, want 2 entries", got)
	}
	if !used["7680123450000"] || !used["7680123450017"] {
		t.Errorf("expected both GTINs recorded in usedGtins, got %v", used)
	}
	if used["7680123450024"] {
		t.Error("did not expect an unrelated RN's GTIN to be recorded")
	}
}

func TestNamesByRn_SkipsAlreadyUsedGtin(t *testing.T) {
	l := &Loader{entries: []Entry{
		{RN: "00001", GTIN13: "7680123450000", Name: "Foo"},
	}}

	used := map[string]bool{"7680123450000": true}
	got := l.NamesByRn("00001", used)
	if len(got) != 0 {
		t.Errorf("expected no entries for a GTIN already claimed, got %v", got)
	}
}

func TestNamesByRn_NoMatch(t *testing.T) {
	l := &Loader{entries: []Entry{
		{RN: "00001", GTIN13: "7680123450000", Name: "Foo"},
	}}
	got := l.NamesByRn("09999", map[string]bool{})
	if len(got) != 0 {
		t.Errorf("expected empty result for unknown rn, got %v", got)
	}
}

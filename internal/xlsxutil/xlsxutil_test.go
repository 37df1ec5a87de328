package xlsxutil

import "testing"

func TestColumnIndex(t *testing.T) {
	cases := []struct {
		ref  string
		want int
	}{
		{"A1", 0},
		{"C5", 2},
		{"K12", 10},
		{"N1", 13},
		{"S1", 18},
		{"W1", 22},
		{"AA1", 26},
		{"", -1},
	}
	for _, c := range cases {
		if got := columnIndex(c.ref); got != c.want {
			t.Errorf("columnIndex(%q) = %d, want %d", c.ref, got, c.want)
		}
	}
}

func TestCellValue_SharedString(t *testing.T) {
	shared := []string{"alpha", "beta"}
	c := cellXML{Type: "s", Value: "1"}
	if got := cellValue(c, shared); got != "beta" {
		t.Errorf("cellValue shared string = %q, want %q", got, "beta")
	}
}

func TestCellValue_SharedStringOutOfRange(t *testing.T) {
	c := cellXML{Type: "s", Value: "99"}
	if got := cellValue(c, nil); got != "" {
		t.Errorf("cellValue out-of-range shared string = %q, want empty", got)
	}
}

func TestCellValue_InlineStr(t *testing.T) {
	c := cellXML{Type: "inlineStr", Is: &inlineXML{Text: "hello"}}
	if got := cellValue(c, nil); got != "hello" {
		t.Errorf("cellValue inline string = %q, want %q", got, "hello")
	}
}

func TestCellValue_Number(t *testing.T) {
	c := cellXML{Value: "42"}
	if got := cellValue(c, nil); got != "42" {
		t.Errorf("cellValue numeric = %q, want %q", got, "42")
	}
}

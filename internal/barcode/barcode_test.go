package barcode

import (
	"strings"
	"testing"
)

func TestCreateSVG_ValidGTIN(t *testing.T) {
	svg, err := CreateSVG("4006381333931")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("expected a well-formed <svg>...</svg> string, got %q", svg)
	}
	if !strings.Contains(svg, "4006381333931") {
		t.Errorf("expected the GTIN to be printed in the svg, got %q", svg)
	}
}

func TestCreateSVG_RejectsInvalidChecksum(t *testing.T) {
	if _, err := CreateSVG("4006381333930"); err == nil {
		t.Error("expected an error for an invalid checksum")
	}
}

func TestCreateSVG_RejectsWrongLength(t *testing.T) {
	if _, err := CreateSVG("123"); err == nil {
		t.Error("expected an error for a non-13-digit input")
	}
}

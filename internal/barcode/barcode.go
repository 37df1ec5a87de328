// Package barcode renders a 13-digit GTIN as an EAN-13 barcode, encoded as
// an inline SVG string suitable for embedding directly into the monograph
// HTML (spec §4.5, section 18).
package barcode

import (
	"fmt"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/gtin"
)

// Standard EAN-13 digit encodings, 7 modules each, '1' = bar, '0' = space.
var lCode = [10]string{
	"0001101", "0011001", "0010011", "0111101", "0100011",
	"0110001", "0101111", "0111011", "0110111", "0001011",
}

var gCode = [10]string{
	"0100111", "0110011", "0011011", "0100001", "0011101",
	"0111001", "0000101", "0010001", "0001001", "0010111",
}

var rCode = [10]string{
	"1110010", "1100110", "1101100", "1000010", "1011100",
	"1001110", "1010000", "1000100", "1001000", "1110100",
}

// firstDigitParity maps the leading digit of a GTIN-13 to the L/G pattern
// ('L' or 'G') used to encode the following six digits.
var firstDigitParity = [10]string{
	"LLLLLL", "LLGLGG", "LLGGLG", "LLGGGL", "LGLLGG",
	"LGGLLG", "LGGGLL", "LGLGLG", "LGLGGL", "LGGLGL",
}

const (
	moduleWidth = 2
	barHeight   = 60
	quietZone   = 10 * moduleWidth
)

// CreateSVG renders gtin13 as an EAN-13 barcode SVG. gtin13 must be a
// 13-digit string with a valid checksum; callers that already validated
// gtin.Valid need not check the error again.
func CreateSVG(gtin13 string) (string, error) {
	if !gtin.Valid(gtin13) {
		return "", fmt.Errorf("barcode: %q is not a valid GTIN-13", gtin13)
	}

	first := gtin13[0] - '0'
	parity := firstDigitParity[first]

	var bits strings.Builder
	bits.WriteString("101") // left guard

	for i := 0; i < 6; i++ {
		d := gtin13[1+i] - '0'
		if parity[i] == 'L' {
			bits.WriteString(lCode[d])
		} else {
			bits.WriteString(gCode[d])
		}
	}

	bits.WriteString("01010") // centre guard

	for i := 0; i < 6; i++ {
		d := gtin13[7+i] - '0'
		bits.WriteString(rCode[d])
	}

	bits.WriteString("101") // right guard

	modules := bits.String()
	totalWidth := quietZone*2 + len(modules)*moduleWidth

	var svg strings.Builder
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		totalWidth, barHeight+16, totalWidth, barHeight+16)
	svg.WriteString(`<rect width="100%" height="100%" fill="white"/>`)

	x := quietZone
	for _, m := range modules {
		if m == '1' {
			fmt.Fprintf(&svg, `<rect x="%d" y="0" width="%d" height="%d" fill="black"/>`, x, moduleWidth, barHeight)
		}
		x += moduleWidth
	}

	fmt.Fprintf(&svg, `<text x="%d" y="%d" font-size="12" text-anchor="middle">%s</text>`,
		totalWidth/2, barHeight+14, gtin13)
	svg.WriteString(`</svg>`)

	return svg.String(), nil
}

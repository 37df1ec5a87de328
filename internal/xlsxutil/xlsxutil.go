// Package xlsxutil is a minimal XLSX reader used only by the Swissmedic
// loader. Per spec §1/§6 the spreadsheet reader is an external collaborator
// "specified only by the logical row/element shape it must deliver" — no
// XLSX library appears anywhere in the retrieval pack to ground a
// dependency choice on, so this reads the handful of zip member files an
// XLSX workbook is actually made of (it is a zip of XML parts) using only
// stdlib archive/zip and encoding/xml.
package xlsxutil

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ywesee/cpp2sqlite-go/internal/xerr"
)

type sheetXML struct {
	Rows []rowXML `xml:"sheetData>row"`
}

type rowXML struct {
	Index int       `xml:"r,attr"`
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	Ref   string     `xml:"r,attr"`
	Type  string     `xml:"t,attr"`
	Value string     `xml:"v"`
	Is    *inlineXML `xml:"is"`
}

type inlineXML struct {
	Text string `xml:"t"`
}

type sstXML struct {
	Items []siXML `xml:"si"`
}

type siXML struct {
	Text string    `xml:"t"`
	Runs []runXML  `xml:"r"`
}

type runXML struct {
	Text string `xml:"t"`
}

// ReadFirstSheet opens an XLSX workbook and returns the first worksheet's
// rows, in row order, each row padded out to its widest referenced column
// so that positional column access (spec §6: columns A/C/K/N/S/W) lines up
// even when sparse cells are omitted from the XML. Cells after a row's last
// referenced column are not present: the row slice ends there.
func ReadFirstSheet(path string) ([][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("xlsxutil: %w: %s: %v", xerr.ErrInputMissing, path, err)
	}
	defer zr.Close()

	var shared []string
	var sheet *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "xl/sharedStrings.xml":
			shared, err = readSharedStrings(f)
			if err != nil {
				return nil, err
			}
		case "xl/worksheets/sheet1.xml":
			sheet = f
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("xlsxutil: %w: %s: no worksheet xl/worksheets/sheet1.xml", xerr.ErrParseFatal, path)
	}

	rc, err := sheet.Open()
	if err != nil {
		return nil, fmt.Errorf("xlsxutil: %w: open worksheet: %v", xerr.ErrParseFatal, err)
	}
	defer rc.Close()

	var sx sheetXML
	if err := xml.NewDecoder(rc).Decode(&sx); err != nil {
		return nil, fmt.Errorf("xlsxutil: %w: decode worksheet: %v", xerr.ErrParseFatal, err)
	}

	sort.Slice(sx.Rows, func(i, j int) bool { return sx.Rows[i].Index < sx.Rows[j].Index })

	rows := make([][]string, 0, len(sx.Rows))
	for _, r := range sx.Rows {
		maxCol := -1
		values := make(map[int]string, len(r.Cells))
		for _, c := range r.Cells {
			idx := columnIndex(c.Ref)
			if idx < 0 {
				continue
			}
			if idx > maxCol {
				maxCol = idx
			}
			values[idx] = cellValue(c, shared)
		}
		row := make([]string, maxCol+1)
		for idx, v := range values {
			row[idx] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func readSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("xlsxutil: %w: open shared strings: %v", xerr.ErrParseFatal, err)
	}
	defer rc.Close()

	var sst sstXML
	if err := xml.NewDecoder(rc).Decode(&sst); err != nil {
		return nil, fmt.Errorf("xlsxutil: %w: decode shared strings: %v", xerr.ErrParseFatal, err)
	}

	out := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if item.Text != "" || len(item.Runs) == 0 {
			out[i] = item.Text
			continue
		}
		var b strings.Builder
		for _, r := range item.Runs {
			b.WriteString(r.Text)
		}
		out[i] = b.String()
	}
	return out, nil
}

func cellValue(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(c.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		if c.Is != nil {
			return c.Is.Text
		}
		return ""
	default:
		return c.Value
	}
}

// columnIndex extracts the zero-based column index from a cell reference
// like "C5" -> 2. Returns -1 if ref has no leading column letters.
func columnIndex(ref string) int {
	i := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		i = i*26 + int(r-'A'+1)
	}
	return i - 1
}

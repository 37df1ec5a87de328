package monograph

import (
	"strings"
	"testing"
)

func TestRewrite_ItalicDefaultParagraph(t *testing.T) {
	raw := `<content><p id="section2">Heading</p><p>Plain sentence without closing punctuation</p></content>`
	html, fellBack := Rewrite(raw, []string{"12345"}, "Acme AG", nil)
	if fellBack {
		t.Fatalf("unexpected fallback")
	}
	if !strings.Contains(html, `<span style="font-style:italic;">Plain sentence without closing punctuation</span>`) {
		t.Fatalf("expected italic-wrapped paragraph, got: %s", html)
	}
}

func TestRewrite_BulletParagraphDisablesItalic(t *testing.T) {
	raw := `<content><p id="section2">Heading</p><p>–first item</p></content>`
	html, _ := Rewrite(raw, []string{"12345"}, "Acme AG", nil)
	if strings.Contains(html, "font-style:italic") {
		t.Fatalf("bullet paragraph must not be italicised: %s", html)
	}
	if !strings.Contains(html, `<p class="spacing1">– first item</p>`) {
		t.Fatalf("expected normalised bullet prefix, got: %s", html)
	}
}

func TestRewrite_AtcCodeSentenceNotItalicised(t *testing.T) {
	raw := `<content><p id="section2">Heading</p><p>See ATC-Code for details</p></content>`
	html, _ := Rewrite(raw, []string{"12345"}, "Acme AG", nil)
	if strings.Contains(html, "font-style:italic") {
		t.Fatalf("ATC-Code paragraph must not be italicised: %s", html)
	}
}

func TestRewrite_Section1EmitsOwnerCompany(t *testing.T) {
	raw := `<content><p id="section1">Drug Title</p><p id="section2">Indications</p></content>`
	html, _ := Rewrite(raw, []string{"54321"}, "Roche Pharma AG", nil)
	if !strings.Contains(html, `<div class="MonTitle" id="section1">Drug Title</div>`) {
		t.Fatalf("expected MonTitle div, got: %s", html)
	}
	if !strings.Contains(html, `<div class="ownerCompany">Roche Pharma AG</div>`) {
		t.Fatalf("expected ownerCompany div right after section 1, got: %s", html)
	}
}

func TestRewrite_Section18EmitsBarcodePerGTINThenStops(t *testing.T) {
	raw := `<content><p id="section1">Title</p><p id="section18">Packaging</p><p id="section19">Hidden</p></content>`
	html, _ := Rewrite(raw, []string{"1"}, "Acme AG", []string{"7680123456781", "7680987654323"})
	if n := strings.Count(html, `class="barcode"`); n != 2 {
		t.Fatalf("expected 2 barcodes, got %d in: %s", n, html)
	}
	if strings.Contains(html, "Hidden") {
		t.Fatalf("content after section18 must be suppressed, got: %s", html)
	}
}

func TestRewrite_TableColgroupRenormalized(t *testing.T) {
	raw := `<content><p id="section2">Heading</p>` +
		`<table><colgroup><col style="width:1.0in"/><col style="width:3.0in"/></colgroup>` +
		`<tr><td>a</td><td>b</td></tr></table></content>`
	html, _ := Rewrite(raw, []string{"1"}, "Acme AG", nil)
	if !strings.Contains(html, "width:25.000000%25") {
		t.Fatalf("expected first column normalised to 25%%, got: %s", html)
	}
	if !strings.Contains(html, "width:75.000000%25") {
		t.Fatalf("expected second column normalised to 75%%, got: %s", html)
	}
}

func TestRewrite_ImageParagraphRewrapped(t *testing.T) {
	raw := `<content><p id="section13">Images</p><p><img Src="fig1.png" Alt="Figure 1"/></p></content>`
	html, _ := Rewrite(raw, []string{"1"}, "Acme AG", nil)
	if !strings.Contains(html, `<ppp class="spacing1"><img Src="fig1.png" Alt="Figure 1" /></ppp>`) {
		t.Fatalf("expected rewrapped image paragraph, got: %s", html)
	}
}

func TestRewrite_ImageWithoutSrcSkipped(t *testing.T) {
	raw := `<content><p id="section13">Images</p><p><img Alt="no src"/></p></content>`
	html, _ := Rewrite(raw, []string{"1"}, "Acme AG", nil)
	if strings.Contains(html, "<ppp") {
		t.Fatalf("image without src must be skipped entirely, got: %s", html)
	}
}

func TestRewrite_InvalidXMLFallsBack(t *testing.T) {
	raw := `<content><p id="section1">Unterminated`
	html, fellBack := Rewrite(raw, []string{"1"}, "Acme AG", nil)
	if !fellBack {
		t.Fatalf("expected fallback for unparseable XML")
	}
	if html == "" {
		t.Fatalf("fallback must still return the cleaned raw text")
	}
}

func TestRewrite_InlineSpanTagsStripped(t *testing.T) {
	raw := `<content><p id="section2">Heading</p><p>Take <span class="bold">twice</span> daily.</p></content>`
	html, _ := Rewrite(raw, []string{"1"}, "Acme AG", nil)
	if strings.Contains(html, "<span class") {
		t.Fatalf("original span tag must be stripped, got: %s", html)
	}
}

package monograph

import (
	"fmt"
	"strings"
)

var bulletPrefixes = []string{"–", "·", "-", "•"}

// renderParagraphBody applies the italic/bullet/escape rules of spec
// §4.5, step 5 to a non-section paragraph's raw decoded text. Returns ""
// when the trimmed content is empty (spec: "skip if empty").
func renderParagraphBody(raw string) string {
	trimmed := strings.TrimRight(raw, " \t\n\r")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}

	italic := true
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, ",") || strings.HasSuffix(trimmed, ":") {
		italic = false
	}
	if strings.Contains(trimmed, "ATC-Code") || strings.Contains(trimmed, "Code ATC") {
		italic = false
	}

	for _, bullet := range bulletPrefixes {
		if strings.HasPrefix(trimmed, bullet) {
			trimmed = "– " + strings.TrimPrefix(trimmed, bullet)
			italic = false
			break
		}
	}

	escaped := reEscape(trimmed)
	if italic {
		escaped = `<span style="font-style:italic;">` + escaped + `</span>`
	}

	return `<p class="spacing1">` + escaped + `</p>`
}

// renderParagraph emits either a section-13 image re-wrap (spec §4.5, step
// 6) when p contains <img> children, or a plain body paragraph otherwise.
func renderParagraph(p *node) string {
	imgs := childrenNamed(p, "img")
	if len(imgs) == 0 {
		return renderParagraphBody(p.text)
	}

	var b strings.Builder
	for _, img := range imgs {
		src := firstNonEmpty(img.attr("Src"), img.attr("src"))
		if src == "" {
			continue // missing src is an error (spec §4.5, step 6): skip this image
		}

		var attrs strings.Builder
		fmt.Fprintf(&attrs, ` Src="%s"`, src)
		if style := firstNonEmpty(img.attr("Style"), img.attr("style")); style != "" {
			fmt.Fprintf(&attrs, ` Style="%s"`, style)
		}
		if alt := firstNonEmpty(img.attr("Alt"), img.attr("alt")); alt != "" {
			fmt.Fprintf(&attrs, ` Alt="%s"`, alt)
		}
		// missing alt is only a warning (spec): attribute is simply omitted

		fmt.Fprintf(&b, `<ppp class="spacing1"><img%s /></ppp>`, attrs.String())
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package xerr defines the error taxonomy shared by every stage of the
// build pipeline: which failures abort the process and which are recorded
// as diagnostics and skipped.
package xerr

import "errors"

// Sentinel kinds. Use errors.Is against these, not string comparison.
var (
	// ErrInputMissing means an upstream file could not be opened. Fatal.
	ErrInputMissing = errors.New("input file missing")

	// ErrParseFatal means a loader could not parse its root structure. Fatal.
	ErrParseFatal = errors.New("fatal parse error")

	// ErrParseElement means a single record was malformed. Logged and
	// skipped; never propagates past the owning loader.
	ErrParseElement = errors.New("malformed record")

	// ErrRewriterParse means a monograph's XML would not parse. The
	// rewriter falls back to emitting the cleaned raw XML.
	ErrRewriterParse = errors.New("monograph xml did not parse")

	// ErrBadIdentifier means a non-numeric RN or GTIN fragment was seen.
	ErrBadIdentifier = errors.New("bad identifier")
)

// IsFatal reports whether err should abort the build, per spec §7:
// only InputMissing and ParseFatal terminate the process.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputMissing) || errors.Is(err, ErrParseFatal)
}

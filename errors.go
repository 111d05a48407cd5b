package defc

import "errors"

// Sentinel errors surfaced to callers, per the error taxonomy: encode-time
// failures (InputTooLarge, CodeLengthOverflow) and decode-time failures
// (WrongHeader, TruncatedInput, BadCodeLengths, UnexpectedSymbol,
// OutputOverflow). Internal packages raise their own sentinels; Decode and
// Encode map them onto these with fmt.Errorf("%w: ...", ...) so callers can
// errors.Is against a single stable set regardless of which internal
// package detected the problem.
var (
	ErrWrongHeader        = errors.New("defc: wrong header")
	ErrTruncatedInput     = errors.New("defc: truncated input")
	ErrBadCodeLengths     = errors.New("defc: bad code lengths")
	ErrUnexpectedSymbol   = errors.New("defc: unexpected symbol")
	ErrInputTooLarge      = errors.New("defc: input too large")
	ErrCodeLengthOverflow = errors.New("defc: code length exceeds maximum")
	ErrOutputOverflow     = errors.New("defc: output exceeds declared size")
)

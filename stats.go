package defc

// Stats reports size and token-stream metrics from an EncodeWithOptions or
// DecodeWithStats call, for
// callers that want to log or display compression results (e.g. the CLI's
// -v flag).
type Stats struct {
	InputSize      int
	OutputSize     int
	NumLiterals    int
	NumMatches     int
	DuplicateBytes int // sum of match lengths, i.e. bytes reconstructed from back-references
	CodeLengthMax  int
	CodeLengthSize int // codesN: alphabet size of the code-length tree
}

// Ratio returns OutputSize/InputSize, or 0 if InputSize is 0.
func (s Stats) Ratio() float64 {
	if s.InputSize == 0 {
		return 0
	}
	return float64(s.OutputSize) / float64(s.InputSize)
}

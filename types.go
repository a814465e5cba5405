package langbly

// Format selects how translate input text is interpreted.
type Format string

const (
	// FormatText treats the input as plain text.
	FormatText Format = "text"

	// FormatHTML translates the text content of the markup and passes the
	// markup itself through untouched.
	FormatHTML Format = "html"
)

// TranslateOptions carries the optional parameters of a translate call.
// A nil *TranslateOptions is valid and means auto-detected source, plain text.
type TranslateOptions struct {
	// Source is the source language code. Auto-detected when empty.
	Source string

	// Format is FormatText or FormatHTML. Defaults to FormatText.
	Format Format
}

// Translation is one translated text. Index ties it back to the position of
// the input it translates: result i corresponds to input i.
type Translation struct {
	Text   string
	Source string // detected source language, or the requested one
	Model  string // model identifier, when the service reports one
	Index  int
}

// Detection is the result of a language detection call.
type Detection struct {
	Language   string
	Confidence float64 // in [0,1]; 0 when the service omits it
}

// Language is one entry of the supported-languages listing. Name is only
// populated when the listing was requested with a display target language.
type Language struct {
	Code string
	Name string
}

package langbly

import (
	"testing"

	"github.com/tidwall/sjson"
)

const translateFixture = `{"data":{"translations":[` +
	`{"translatedText":"Hallo","detectedSourceLanguage":"en","model":"lb-base"},` +
	`{"translatedText":"Wereld","detectedSourceLanguage":"en"}]}}`

func TestDecodeTranslations(t *testing.T) {
	results, err := decodeTranslations([]byte(translateFixture), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Text != "Hallo" || results[0].Source != "en" || results[0].Model != "lb-base" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Text != "Wereld" || results[1].Model != "" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
}

func TestDecodeTranslationsMalformed(t *testing.T) {
	mutate := func(path string) []byte {
		out, err := sjson.DeleteBytes([]byte(translateFixture), path)
		if err != nil {
			t.Fatalf("mutate fixture: %v", err)
		}
		return out
	}

	tests := []struct {
		name    string
		payload []byte
		want    int
	}{
		{"not json", []byte("<html>502</html>"), 2},
		{"missing data", mutate("data"), 2},
		{"missing translations", mutate("data.translations"), 2},
		{"missing translatedText", mutate("data.translations.1.translatedText"), 2},
		{"arity mismatch", []byte(translateFixture), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTranslations(tt.payload, tt.want)
			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected a typed error, got %v", err)
			}
			if apiErr.Kind != KindDecode {
				t.Errorf("expected KindDecode, got %q", apiErr.Kind)
			}
		})
	}
}

const detectFixture = `{"data":{"detections":[[{"language":"fr","confidence":0.92}]]}}`

func TestDecodeDetection(t *testing.T) {
	det, err := decodeDetection([]byte(detectFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.Language != "fr" {
		t.Errorf("unexpected language: %q", det.Language)
	}
	if det.Confidence != 0.92 {
		t.Errorf("unexpected confidence: %v", det.Confidence)
	}
}

func TestDecodeDetectionConfidenceOptional(t *testing.T) {
	payload, err := sjson.DeleteBytes([]byte(detectFixture), "data.detections.0.0.confidence")
	if err != nil {
		t.Fatalf("mutate fixture: %v", err)
	}
	det, decodeErr := decodeDetection(payload)
	if decodeErr != nil {
		t.Fatalf("unexpected error: %v", decodeErr)
	}
	if det.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", det.Confidence)
	}
}

func TestDecodeDetectionMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "oops"},
		{"missing data", `{}`},
		{"empty detections", `{"data":{"detections":[]}}`},
		{"empty inner detections", `{"data":{"detections":[[]]}}`},
		{"missing language", `{"data":{"detections":[[{"confidence":0.5}]]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDetection([]byte(tt.payload))
			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected a typed error, got %v", err)
			}
			if apiErr.Kind != KindDecode {
				t.Errorf("expected KindDecode, got %q", apiErr.Kind)
			}
		})
	}
}

func TestDecodeLanguages(t *testing.T) {
	payload := `{"data":{"languages":[{"language":"nl","name":"Dutch"},{"language":"de"}]}}`
	langs, err := decodeLanguages([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(langs) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(langs))
	}
	if langs[0].Code != "nl" || langs[0].Name != "Dutch" {
		t.Errorf("unexpected first entry: %+v", langs[0])
	}
	if langs[1].Code != "de" || langs[1].Name != "" {
		t.Errorf("unexpected second entry: %+v", langs[1])
	}
}

func TestDecodeLanguagesMalformed(t *testing.T) {
	_, err := decodeLanguages([]byte(`{"data":{"languages":[{"name":"Nameless"}]}}`))
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected a typed error, got %v", err)
	}
	if apiErr.Kind != KindDecode {
		t.Errorf("expected KindDecode, got %q", apiErr.Kind)
	}
}

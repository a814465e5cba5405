package langbly

import "github.com/bytedance/sonic"

// Wire shapes of successful responses. Required strings are pointers so a
// missing field is distinguishable from a present-but-empty one.

type wireTranslation struct {
	TranslatedText         *string `json:"translatedText"`
	DetectedSourceLanguage string  `json:"detectedSourceLanguage"`
	Model                  string  `json:"model"`
}

type wireTranslateResponse struct {
	Data *struct {
		Translations []wireTranslation `json:"translations"`
	} `json:"data"`
}

type wireDetection struct {
	Language   *string `json:"language"`
	Confidence float64 `json:"confidence"`
}

type wireDetectResponse struct {
	Data *struct {
		Detections [][]wireDetection `json:"detections"`
	} `json:"data"`
}

type wireLanguage struct {
	Language *string `json:"language"`
	Name     string  `json:"name"`
}

type wireLanguagesResponse struct {
	Data *struct {
		Languages []wireLanguage `json:"languages"`
	} `json:"data"`
}

// decodeTranslations parses a translate response body and enforces the
// result contract: exactly want entries, each with its translated text, in
// the order the inputs were sent.
func decodeTranslations(payload []byte, want int) ([]Translation, error) {
	var resp wireTranslateResponse
	if err := sonic.Unmarshal(payload, &resp); err != nil {
		return nil, decodeErrorf("translate response is not valid JSON: %v", err)
	}
	if resp.Data == nil {
		return nil, decodeErrorf("translate response has no data field")
	}
	if got := len(resp.Data.Translations); got != want {
		return nil, decodeErrorf("translate response has %d translations, expected %d", got, want)
	}
	results := make([]Translation, len(resp.Data.Translations))
	for i, item := range resp.Data.Translations {
		if item.TranslatedText == nil {
			return nil, decodeErrorf("translation %d is missing translatedText", i)
		}
		results[i] = Translation{
			Text:   *item.TranslatedText,
			Source: item.DetectedSourceLanguage,
			Model:  item.Model,
			Index:  i,
		}
	}
	return results, nil
}

// decodeDetection parses a detect response body. The wire format nests
// detections in an array of arrays; only the first candidate of the first
// input is meaningful for a single-text call.
func decodeDetection(payload []byte) (*Detection, error) {
	var resp wireDetectResponse
	if err := sonic.Unmarshal(payload, &resp); err != nil {
		return nil, decodeErrorf("detect response is not valid JSON: %v", err)
	}
	if resp.Data == nil {
		return nil, decodeErrorf("detect response has no data field")
	}
	if len(resp.Data.Detections) == 0 || len(resp.Data.Detections[0]) == 0 {
		return nil, decodeErrorf("detect response has no detections")
	}
	det := resp.Data.Detections[0][0]
	if det.Language == nil {
		return nil, decodeErrorf("detection is missing language")
	}
	return &Detection{Language: *det.Language, Confidence: det.Confidence}, nil
}

// decodeLanguages parses a languages listing. Name stays empty when the
// listing was requested without a display target.
func decodeLanguages(payload []byte) ([]Language, error) {
	var resp wireLanguagesResponse
	if err := sonic.Unmarshal(payload, &resp); err != nil {
		return nil, decodeErrorf("languages response is not valid JSON: %v", err)
	}
	if resp.Data == nil {
		return nil, decodeErrorf("languages response has no data field")
	}
	results := make([]Language, len(resp.Data.Languages))
	for i, item := range resp.Data.Languages {
		if item.Language == nil {
			return nil, decodeErrorf("language entry %d is missing its code", i)
		}
		results[i] = Language{Code: *item.Language, Name: item.Name}
	}
	return results, nil
}

package langbly

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/tidwall/sjson"
	"golang.org/x/text/language"
)

const (
	pathTranslate = "/language/translate/v2"
	pathDetect    = "/language/translate/v2/detect"
	pathLanguages = "/language/translate/v2/languages"
)

// apiRequest is a fully built, deterministic request descriptor. The body is
// encoded once per logical call and re-issued verbatim on every retry.
type apiRequest struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

type translateBody struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
}

type detectBody struct {
	Q string `json:"q"`
}

func buildTranslateRequest(texts []string, target string, opts *TranslateOptions) (*apiRequest, error) {
	if len(texts) == 0 {
		return nil, invalidRequestf("no texts to translate")
	}
	for i, text := range texts {
		if text == "" {
			return nil, invalidRequestf("text at index %d is empty", i)
		}
	}
	if err := validateLanguageCode("target", target); err != nil {
		return nil, err
	}
	if opts != nil && opts.Source != "" {
		if err := validateLanguageCode("source", opts.Source); err != nil {
			return nil, err
		}
	}
	if opts != nil && opts.Format != "" && opts.Format != FormatText && opts.Format != FormatHTML {
		return nil, invalidRequestf("format must be %q or %q, got %q", FormatText, FormatHTML, opts.Format)
	}

	body, err := sonic.Marshal(translateBody{Q: texts, Target: target})
	if err != nil {
		return nil, invalidRequestf("encode request: %v", err)
	}
	// Optional fields are added only when set, so the wire body stays
	// minimal and stable.
	if opts != nil && opts.Source != "" {
		if body, err = sjson.SetBytes(body, "source", opts.Source); err != nil {
			return nil, invalidRequestf("encode request: %v", err)
		}
	}
	if opts != nil && opts.Format != "" {
		if body, err = sjson.SetBytes(body, "format", string(opts.Format)); err != nil {
			return nil, invalidRequestf("encode request: %v", err)
		}
	}
	return &apiRequest{method: http.MethodPost, path: pathTranslate, body: body}, nil
}

func buildDetectRequest(text string) (*apiRequest, error) {
	if text == "" {
		return nil, invalidRequestf("text is empty")
	}
	body, err := sonic.Marshal(detectBody{Q: text})
	if err != nil {
		return nil, invalidRequestf("encode request: %v", err)
	}
	return &apiRequest{method: http.MethodPost, path: pathDetect, body: body}, nil
}

func buildLanguagesRequest(target string) (*apiRequest, error) {
	req := &apiRequest{method: http.MethodGet, path: pathLanguages}
	if target != "" {
		if err := validateLanguageCode("target", target); err != nil {
			return nil, err
		}
		req.query = url.Values{"target": []string{target}}
	}
	return req, nil
}

// validateLanguageCode checks code syntax (BCP 47 shaped, e.g. "nl", "pt-BR")
// before any network call. Well-formed codes the library does not know are
// accepted; the server owns the set of supported languages.
func validateLanguageCode(field, code string) error {
	if code == "" {
		return invalidRequestf("%s language code is empty", field)
	}
	_, err := language.Parse(code)
	if err == nil {
		return nil
	}
	var unknown language.ValueError
	if errors.As(err, &unknown) {
		return nil
	}
	return invalidRequestf("%s language code %q is malformed", field, code)
}

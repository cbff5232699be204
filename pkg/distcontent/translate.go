package distcontent

import (
	"context"
	"errors"
	"fmt"
)

// Translation fan-out coordinator.
//
// One call to the translation backend carries every non-empty field into
// every requested language; the backend loops internally and reports
// per-(field, language) outcomes. The coordinator reconciles those into a
// per-language status map. A language is success only when the response
// explicitly says so for every field; a language the response never
// mentions defaults to error, never to success.

// TranslateContent requests translation of the item's non-empty fields
// into every requested language and reconciles the per-language statuses.
//
// Partial success is a valid terminal state: the summary reports success
// and failure counts while Statuses names the languages that failed. Only
// a total failure (transport error, provider not configured) returns a
// non-nil error; the summary then marks every requested language as error.
func (s *service) TranslateContent(ctx context.Context, req TranslateContentRequest) (*TranslationSummary, error) {
	if s.translator == nil {
		return failAll(req, TranslationError), ErrTranslatorNotConfigured
	}
	if !req.Kind.Valid() {
		return nil, ErrInvalidContentKind
	}
	if len(req.TargetLanguages) == 0 {
		return nil, &ValidationError{Section: "languages", Field: "target_languages", Message: "select at least one language"}
	}

	fields := make(map[string]string, len(req.Fields))
	for name, text := range req.Fields {
		if text != "" {
			fields[name] = text
		}
	}
	if len(fields) == 0 {
		return nil, &ValidationError{Section: "fields", Field: "fields", Message: "no translatable fields"}
	}

	for _, lang := range req.TargetLanguages {
		setStatus(req, lang, TranslationTranslating)
	}

	resp, err := s.translator.Translate(ctx, TranslateRequest{
		ContentType:     string(req.Kind),
		ContentID:       req.ContentID,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguages: req.TargetLanguages,
		Fields:          fields,
	})
	if err != nil {
		summary := failAll(req, TranslationError)
		if errors.Is(err, ErrProviderNotConfigured) {
			return summary, err
		}
		return summary, fmt.Errorf("translation request failed: %w", err)
	}

	// Reconcile: a language succeeds only if every result the backend
	// reported for it succeeded and at least one result mentioned it.
	perLanguage := make(map[string]*bool, len(req.TargetLanguages))
	for _, r := range resp.Results {
		ok := r.Success
		if prev, seen := perLanguage[r.Language]; seen {
			ok = ok && *prev
		}
		v := ok
		perLanguage[r.Language] = &v
	}

	summary := &TranslationSummary{Statuses: make(map[string]TranslationStatus, len(req.TargetLanguages))}
	for _, lang := range req.TargetLanguages {
		status := TranslationError
		if ok, seen := perLanguage[lang]; seen && *ok {
			status = TranslationSuccess
		}
		summary.Statuses[lang] = status
		setStatus(req, lang, status)
		if status == TranslationSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	return summary, nil
}

// failAll marks every requested language with the given terminal status.
func failAll(req TranslateContentRequest, status TranslationStatus) *TranslationSummary {
	summary := &TranslationSummary{
		Statuses: make(map[string]TranslationStatus, len(req.TargetLanguages)),
		Failed:   len(req.TargetLanguages),
	}
	for _, lang := range req.TargetLanguages {
		summary.Statuses[lang] = status
		setStatus(req, lang, status)
	}
	return summary
}

func setStatus(req TranslateContentRequest, lang string, status TranslationStatus) {
	if req.OnStatus != nil {
		req.OnStatus(lang, status)
	}
}

package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

// Supported UI languages. 先頭がデフォルト。
var supportedLanguages = []language.Tag{language.Arabic, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Language は Accept-Language (または ?lang=) から ar / en を決めて context に詰める。
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := MatchLanguage(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyLang, tag)))
	})
}

// MatchLanguage picks the best supported tag for the given preferences.
func MatchLanguage(prefs ...string) language.Tag {
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := languageMatcher.Match(tags...)
		if conf != language.No {
			return supportedLanguages[idx]
		}
	}
	return supportedLanguages[0]
}

// RequestLanguage returns the tag set by Language, or Arabic.
func RequestLanguage(r *http.Request) language.Tag {
	if t, ok := r.Context().Value(ctxKeyLang).(language.Tag); ok {
		return t
	}
	return supportedLanguages[0]
}

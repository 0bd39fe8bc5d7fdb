package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var LocaleKey = localeContextKey{}

var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

// I18N resolves "en" or "id" from X-Locale, then Accept-Language, then the
// configured default.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if locale, ok := matchLocale(v); ok {
			return locale
		}
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		if locale, ok := matchLocale(v); ok {
			return locale
		}
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

func matchLocale(header string) (string, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	base, _ := supported[idx].Base()
	return base.String(), true
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

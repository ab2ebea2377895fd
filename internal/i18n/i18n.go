// Package i18n provides UI label translation. Korean is the default
// language; English is available for the same keys. Ledger output strings
// (due descriptions, proration notes) are part of the engine's contract and
// are not translated here.
package i18n

import (
	"context"
	"strings"
)

const defaultLang = "ko"

type langKey struct{}

// WithLang stores the language in context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language from context, defaulting to Korean.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return defaultLang
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "en"):
		return "en"
	default:
		return defaultLang
	}
}

var translations = map[string]map[string]string{
	"ko": {
		"buildings":        "건물",
		"units":            "호실",
		"leases":           "임대 계약",
		"payments":         "입금 내역",
		"adjustments":      "임대료 조정",
		"ledger":           "원장",
		"dashboard":        "대시보드",
		"login":            "로그인",
		"logout":           "로그아웃",
		"signup":           "회원가입",
		"required":         "필수 항목입니다",
		"must_be_positive": "0보다 커야 합니다",
		"invalid_date":     "날짜 형식이 잘못되었습니다",
		"supply_value":     "공급가액",
		"vat":              "부가세",
		"total_due":        "임대료 합계",
		"payment":          "입금액",
		"balance":          "잔액",
		"notes":            "비고",
	},
	"en": {
		"buildings":        "Buildings",
		"units":            "Units",
		"leases":           "Leases",
		"payments":         "Payments",
		"adjustments":      "Rent adjustments",
		"ledger":           "Ledger",
		"dashboard":        "Dashboard",
		"login":            "Log in",
		"logout":           "Log out",
		"signup":           "Sign up",
		"required":         "Required",
		"must_be_positive": "Must be positive",
		"invalid_date":     "Invalid date",
		"supply_value":     "Supply value",
		"vat":              "VAT",
		"total_due":        "Total due",
		"payment":          "Payment",
		"balance":          "Balance",
		"notes":            "Notes",
	},
}

// T translates a code for the given language. Unknown languages fall back
// to Korean; unknown codes fall back to the code itself so missing keys
// are visible rather than blank.
func T(lang, code string) string {
	m, ok := translations[lang]
	if !ok {
		m = translations[defaultLang]
	}
	if s, ok := m[code]; ok {
		return s
	}
	if lang != defaultLang {
		if s, ok := translations[defaultLang][code]; ok {
			return s
		}
	}
	return code
}

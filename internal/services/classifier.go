package services

import "strings"

// examKeywords marks a query as an exam/test-result analysis request. The
// list is data so it can be extended and tested without touching control
// flow.
var examKeywords = []string{
	"sınav", "deneme", "analiz", "test", "sonuç", "soru",
	"yanlış", "doğru", "boş", "net", "puan", "not",
	"hata", "eksik", "zayıf", "güçlü",
	"inceleme", "değerlendir", "analiz et", "tekrar analiz",
	"sınavım", "denemem", "sınavımı", "denememi",
	"performans", "başarı", "skor", "notu",
}

// reportKeywords identify the "general progress report" request shape that is
// served from the same-day cache.
var reportKeywords = []string{
	"kişisel gelişim raporu",
	"performans değerlendirmesi",
	"gelişim raporu",
}

var turkishFolder = strings.NewReplacer(
	"ı", "i",
	"ö", "o",
	"ü", "u",
	"ş", "s",
	"ç", "c",
	"ğ", "g",
)

// normalizeQuery lowercases and strips Turkish diacritics so keyword checks
// are insensitive to both case and accent variants.
func normalizeQuery(q string) string {
	return turkishFolder.Replace(strings.ToLower(q))
}

// IsExamAnalysisQuery reports whether the free-text query asks for an
// exam-result analysis rather than general coaching.
func IsExamAnalysisQuery(query string) bool {
	normalized := normalizeQuery(query)
	for _, keyword := range examKeywords {
		if strings.Contains(normalized, normalizeQuery(keyword)) {
			return true
		}
	}
	return false
}

// IsGeneralReportQuery reports whether the query is a daily progress-report
// request.
func IsGeneralReportQuery(query string) bool {
	normalized := normalizeQuery(query)
	for _, keyword := range reportKeywords {
		if strings.Contains(normalized, normalizeQuery(keyword)) {
			return true
		}
	}
	return false
}

package services

import "testing"

func TestIsExamAnalysisQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"exam word", "Son sınavımı analiz eder misin?", true},
		{"deneme result", "deneme sonucumu göster", true},
		{"net count", "kaç net yaptım", true},
		{"wrong answers", "yanlışlarımı incele", true},
		{"folded diacritics", "sinavimi degerlendir", true},
		{"uppercase ascii", "DENEME SONUCUM", true},
		{"general coaching", "bugün hangi derse çalışmalıyım", false},
		{"motivation", "motivasyonum düşük, bana yardım et", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsExamAnalysisQuery(tc.query); got != tc.want {
				t.Fatalf("IsExamAnalysisQuery(%q): want=%v got=%v", tc.query, tc.want, got)
			}
		})
	}
}

func TestIsGeneralReportQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"personal report", "kişisel gelişim raporu istiyorum", true},
		{"report with suffix", "gelişim raporumu görmek istiyorum", true},
		{"performance review", "performans değerlendirmesi yapar mısın", true},
		{"folded diacritics", "gelisim raporu hazirla", true},
		{"exam question", "sınavımı analiz et", false},
		{"general chat", "bugün ne yapmalıyım", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsGeneralReportQuery(tc.query); got != tc.want {
				t.Fatalf("IsGeneralReportQuery(%q): want=%v got=%v", tc.query, tc.want, got)
			}
		})
	}
}

package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/testoloji/akademi-backend/internal/types"
)

// footerMarker starts the attribution footer appended to every analysis. It
// doubles as the cut point when past responses are replayed as context, so
// the model never echoes the footer back.
const footerMarker = "\n\n---\n*Bu analiz 'Akademi Kovancılar' için özel olarak hazırlanmış"

const footerBadge = "Bu analiz 'Akademi Kovancılar' için özel olarak hazırlanmış"

// maxHistoryTurns bounds how many prior conversation turns are replayed.
const maxHistoryTurns = 3

type AskAIRequest struct {
	QuestionID    string         `json:"questionId" binding:"required"`
	UserAnswer    string         `json:"userAnswer,omitempty"`
	CorrectAnswer string         `json:"correctAnswer,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
}

type AnalyzeProgressRequest struct {
	Query       string           `json:"query" binding:"required"`
	StudentData *StudentOverview `json:"studentData,omitempty"`
	StudentID   string           `json:"studentId,omitempty"`
}

// AppendFooter adds the attribution footer unless the model already produced
// one (it can pick the habit up from the replayed history).
func AppendFooter(text, modelName string) string {
	if strings.Contains(text, footerBadge) {
		return text
	}
	return text + fmt.Sprintf("%s **%s** modeli kullanılarak oluşturulmuştur.*", footerMarker, modelName)
}

// StripFooter removes the attribution footer from a past response before it
// is replayed as conversation context.
func StripFooter(response string) string {
	if idx := strings.Index(response, footerMarker); idx >= 0 {
		return response[:idx]
	}
	return response
}

// BuildQuestionPrompt builds the short single-question coaching prompt.
func BuildQuestionPrompt(req AskAIRequest) string {
	var b strings.Builder

	b.WriteString("Sen \"Testoloji Akademi\"nin uzman eğitim koçusun. Bir öğrenci çözdüğü bir soru hakkında senden yardım istiyor. \n\n")

	switch {
	case req.UserAnswer != "" && req.CorrectAnswer != "" && req.UserAnswer == req.CorrectAnswer:
		b.WriteString(fmt.Sprintf("Öğrenci bu soruyu DOĞRU cevaplamış (Cevabı: %s). Ona neden doğru yaptığını pekiştiren, konuyu özetleyen ve motivasyon veren kısa bir analiz yap. \n", req.UserAnswer))
	case req.UserAnswer != "" && req.CorrectAnswer != "":
		b.WriteString(fmt.Sprintf("Öğrenci bu soruyu YANLIŞ cevaplamış. Öğrencinin cevabı: %s, Doğru cevap: %s. \n", req.UserAnswer, req.CorrectAnswer))
		b.WriteString("Lütfen öğrenciye nerede hata yapmış olabileceğini, konunun püf noktalarını ve bir dahaki sefere nelere dikkat etmesi gerektiğini nazik ve teşvik edici bir dille anlat. \n")
	default:
		b.WriteString(fmt.Sprintf("Öğrenci bu soruyu boş bırakmış veya sadece konuyu anlamak istiyor. Doğru cevap: %s. \n", req.CorrectAnswer))
		b.WriteString("Lütfen sorunun çözüm mantığını ve ilgili konuyu açıklayarak öğrenciye yardımcı ol. \n")
	}

	if len(req.Context) > 0 {
		if raw, err := json.Marshal(req.Context); err == nil {
			b.WriteString(fmt.Sprintf("Ek Bağlam: %s \n", string(raw)))
		}
	}

	b.WriteString("\nYanıtını verirken:\n")
	b.WriteString("1. Samimi ve motive edici bir dil kullan.\n")
	b.WriteString("2. Karmaşık terimlerden kaçın, öğrencinin seviyesine in.\n")
	b.WriteString("3. Yanıtın çok uzun olmasın (maksimum 2-3 kısa paragraf).\n")
	b.WriteString("4. Markdown formatını kullanabilirsin.\n")
	b.WriteString("5. Matematik ifadelerini LaTeX formatında yaz.")

	return b.String()
}

// BuildAnalysisPrompt builds the progress-analysis prompt. History is
// expected oldest first; examMode switches between the attached-document
// instructions and the general-coaching ones.
func BuildAnalysisPrompt(query string, studentData *StudentOverview, history []*types.CoachingHistory, examMode bool) string {
	var b strings.Builder

	b.WriteString("Sen \"Testoloji Akademi\"nin uzman eğitim danışmanı ve öğrenci koçusun. \n")

	if len(history) > 0 {
		turns := history
		if len(turns) > maxHistoryTurns {
			turns = turns[len(turns)-maxHistoryTurns:]
		}
		b.WriteString("\nÖnceki Konuşmalarımız:\n")
		for _, h := range turns {
			b.WriteString(fmt.Sprintf("Öğrenci: %s\n", h.Query))
			b.WriteString(fmt.Sprintf("Sen (Koç): %s\n\n", StripFooter(h.Response)))
		}
		b.WriteString("--- Geçmiş Konuşma Sonu ---\n\n")
	}

	b.WriteString(fmt.Sprintf("Öğrenci şimdiki sorusu: \"%s\" \n\n", query))

	if studentData != nil {
		scores, _ := json.Marshal(studentData.ScoreHistory)
		b.WriteString("Öğrencinin Mevcut Durumu:\n")
		b.WriteString(fmt.Sprintf("- Ortalama Puan: %.1f\n", studentData.AvgScore))
		b.WriteString(fmt.Sprintf("- Toplam Çözülen Sınav: %d\n", studentData.TotalExams))
		b.WriteString(fmt.Sprintf("- Son Sınav Performansları (Başarı %%): %s\n\n", string(scores)))

		if summary := studentData.ScheduleSummary; summary != nil {
			subjects, _ := json.Marshal(summary.SubjectStats)
			b.WriteString("Öğrencinin Son 30 Günlük Çalışma Programı Özeti:\n")
			b.WriteString(fmt.Sprintf("- Toplam Planlanan Aktivite: %d\n", summary.TotalActivities))
			b.WriteString(fmt.Sprintf("- Tamamlanan Aktivite: %d\n", summary.CompletedActivities))
			b.WriteString(fmt.Sprintf("- Program Uyum Oranı: %%%d\n", summary.CompletionRate))
			b.WriteString(fmt.Sprintf("- Ders Bazlı Çalışma Dağılımı: %s\n\n", string(subjects)))
		}
	}

	if examMode {
		b.WriteString("SANA BİR PDF DOSYASI SUNULDU. Bu dosyada sınav soruları ve en son sayfada CEVAP ANAHTARI var. Ayrıca öğrencinin verdiği cevaplar her sorunun üzerinde belirtilmiştir.\n")
		b.WriteString("Lütfen şu adımları izle:\n")
		b.WriteString("1. PDF'teki soruları (özellikle öğrencinin YANLIŞ yaptığı veya BOŞ bıraktığı soruları) incele.\n")
		b.WriteString("2. Soruların hangi konulardan (örn: Türev, integral, optik vb.) geldiğini tespit et.\n")
		b.WriteString("3. Öğrencinin yanlışlarına bakarak hangi konuda eksiği olduğunu belirle.\n")
		b.WriteString("4. Buna göre \"Şu konuda eksiksin, şuna çalışmalısın\" gibi nokta atışı tavsiyeler ver.\n")
	} else {
		b.WriteString("Bu bir genel koçluk sorusudur. Sınav PDF'i GÖNDERİLMEDİ. Öğrencinin sorusuna doğrudan, samimi ve profesyonel bir şekilde cevap ver.\n")
		b.WriteString("Öğrencinin verilerine dayanarak uygun tavsiyeler ve motivasyonel destek ver.\n")
	}

	b.WriteString("\nYanıtını verirken:\n")
	b.WriteString("1. \"Sen\" diliyle konuş, samimi ol.\n")
	b.WriteString("2. Somut verilere atıfta bulun.\n")
	b.WriteString("3. Nokta atışı konu eksiklerini belirle.\n")
	b.WriteString("4. Yanıtı Markdown formatında yapılandır.\n")
	b.WriteString("5. Matematik ifadelerini LaTeX formatında yaz ($ ... $ veya $$ ... $$).")

	return b.String()
}

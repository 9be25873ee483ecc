package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

const (
	answerStatusCorrect = "DOĞRU"
	answerStatusWrong   = "YANLIŞ"
	answerStatusBlank   = "BOŞ"
)

// examQuestionPage is one question with everything the PDF page needs. Image
// is nil when the question has no visual or the download failed; ImageNote
// carries the placeholder text for that case.
type examQuestionPage struct {
	Number        int
	StudentAnswer string
	CorrectAnswer string
	Status        string
	Image         []byte
	ImageExt      extension.Type
	ImageNote     string
}

// ExamArtifactBuilder renders a completed exam into a PDF the model can read:
// a cover page, one page per question with the student's answer, and an
// answer-key page. The result is base64 so it can ride in a provider request.
type ExamArtifactBuilder interface {
	BuildExamPDF(ctx context.Context, assignment *types.Assignment, questions []*types.Question) (string, error)
}

type examArtifactService struct {
	log        *logger.Logger
	httpClient *http.Client
}

func NewExamArtifactService(baseLog *logger.Logger) ExamArtifactBuilder {
	return &examArtifactService{
		log: baseLog.With("service", "ExamArtifactService"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (s *examArtifactService) BuildExamPDF(ctx context.Context, assignment *types.Assignment, questions []*types.Question) (string, error) {
	answers := decodeAnswers(assignment.Answers)

	pages := make([]examQuestionPage, 0, len(questions))
	for i, q := range questions {
		studentAnswer := answers[q.ID.String()]
		qp := examQuestionPage{
			Number:        i + 1,
			StudentAnswer: studentAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Status:        answerStatus(studentAnswer, q.CorrectAnswer),
		}
		if q.ImageURL == "" {
			qp.ImageNote = "[Görsel yok]"
		} else {
			data, ext, err := s.fetchImage(ctx, q.ImageURL)
			if err != nil {
				s.log.Warn("Question image download failed", "question_id", q.ID, "error", err)
				qp.ImageNote = "[Görsel yüklenemedi]"
			} else {
				qp.Image = data
				qp.ImageExt = ext
			}
		}
		pages = append(pages, qp)
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	m.AddPages(buildPages(assignment.Title, pages)...)

	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("exam pdf generation failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(doc.GetBytes()), nil
}

// buildPages lays out the document: cover, one page per question, answer key.
func buildPages(title string, questions []examQuestionPage) []core.Page {
	pages := make([]core.Page, 0, len(questions)+2)

	cover := page.New()
	cover.Add(
		row.New(30).Add(
			text.NewCol(12, title, props.Text{
				Size:  22,
				Style: fontstyle.Bold,
				Align: align.Center,
				Top:   10,
			}),
		),
		row.New(12).Add(
			text.NewCol(12, "Sınav Analiz Raporu ve Sorular", props.Text{
				Size:  14,
				Align: align.Center,
			}),
		),
	)
	pages = append(pages, cover)

	for _, q := range questions {
		p := page.New()
		p.Add(
			row.New(12).Add(
				text.NewCol(12, fmt.Sprintf("Soru %d:", q.Number), props.Text{
					Size:  16,
					Style: fontstyle.Bold,
				}),
			),
			row.New(8).Add(
				text.NewCol(4, fmt.Sprintf("Durum: %s", q.Status), props.Text{
					Size:  11,
					Style: fontstyle.Bold,
				}),
				text.NewCol(4, fmt.Sprintf("Öğrenci Cevabı: %s", displayAnswer(q.StudentAnswer)), props.Text{
					Size: 11,
				}),
				text.NewCol(4, fmt.Sprintf("Doğru Cevap: %s", q.CorrectAnswer), props.Text{
					Size: 11,
				}),
			),
		)
		if q.Image != nil {
			p.Add(
				row.New(160).Add(
					image.NewFromBytesCol(12, q.Image, q.ImageExt, props.Rect{
						Center:  true,
						Percent: 90,
					}),
				),
			)
		} else {
			p.Add(
				row.New(20).Add(
					text.NewCol(12, q.ImageNote, props.Text{
						Size:  12,
						Align: align.Center,
						Top:   8,
					}),
				),
			)
		}
		pages = append(pages, p)
	}

	key := page.New()
	keyRows := []core.Row{
		row.New(14).Add(
			text.NewCol(12, "Cevap Anahtarı", props.Text{
				Size:  18,
				Style: fontstyle.Bold,
			}),
		),
	}
	for _, q := range questions {
		keyRows = append(keyRows, row.New(7).Add(
			text.NewCol(12, fmt.Sprintf("%d. Doğru: %s (Sen: %s)", q.Number, q.CorrectAnswer, displayAnswer(q.StudentAnswer)), props.Text{
				Size: 11,
			}),
		))
	}
	key.Add(keyRows...)
	pages = append(pages, key)

	return pages
}

func decodeAnswers(raw []byte) map[string]string {
	answers := map[string]string{}
	if len(raw) == 0 {
		return answers
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		// Answers written by older clients may use non-string values.
		var loose map[string]any
		if err := json.Unmarshal(raw, &loose); err != nil {
			return answers
		}
		for k, v := range loose {
			answers[k] = fmt.Sprintf("%v", v)
		}
	}
	return answers
}

func answerStatus(studentAnswer, correctAnswer string) string {
	switch {
	case studentAnswer == "":
		return answerStatusBlank
	case strings.EqualFold(studentAnswer, correctAnswer):
		return answerStatusCorrect
	default:
		return answerStatusWrong
	}
}

func displayAnswer(answer string) string {
	if answer == "" {
		return answerStatusBlank
	}
	return answer
}

func (s *examArtifactService) fetchImage(ctx context.Context, url string) ([]byte, extension.Type, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, imageExtension(url), nil
}

func imageExtension(url string) extension.Type {
	lower := strings.ToLower(url)
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}
	switch {
	case strings.HasSuffix(lower, ".png"):
		return extension.Png
	default:
		return extension.Jpg
	}
}

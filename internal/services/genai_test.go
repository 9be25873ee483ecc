package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/types"
)

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) GetSetting(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) SetSetting(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettings) ListSettings(_ context.Context) ([]*types.SystemSetting, error) {
	return nil, nil
}

type fakeUsageLogRepo struct {
	entries []*types.AIUsageLog
}

func (f *fakeUsageLogRepo) Create(_ context.Context, _ *gorm.DB, entry *types.AIUsageLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeUsageLogRepo) ListRecent(_ context.Context, _ *gorm.DB, _ int) ([]*types.AIUsageLog, error) {
	return f.entries, nil
}

func (f *fakeUsageLogRepo) Totals(_ context.Context, _ *gorm.DB) (*repos.AIUsageTotals, error) {
	return &repos.AIUsageTotals{Requests: int64(len(f.entries))}, nil
}

const generateResponse = `{
	"candidates": [{"content": {"parts": [{"text": "Merhaba öğrenci."}]}}],
	"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 7, "totalTokenCount": 19}
}`

func TestGeminiClientGenerate(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateResponse))
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")

	ledger := &fakeUsageLogRepo{}
	client := NewGeminiClient(mustTestLogger(t), &fakeSettings{}, ledger)

	userID := uuid.New()
	gen, err := client.Generate(context.Background(), aiActionCoachingChat, &userID, []Part{{Text: "selam"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.Text != "Merhaba öğrenci." {
		t.Fatalf("text: got %q", gen.Text)
	}
	if gen.ModelName != defaultModelName {
		t.Fatalf("model: want=%s got=%s", defaultModelName, gen.ModelName)
	}
	if gen.Usage.TotalTokens != 19 {
		t.Fatalf("total tokens: want=19 got=%d", gen.Usage.TotalTokens)
	}

	if len(paths) != 1 || !strings.Contains(paths[0], defaultModelName) {
		t.Fatalf("request should target the default model, got %v", paths)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries: want=1 got=%d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.ModelName != defaultModelName || entry.Action != aiActionCoachingChat || entry.TotalTokens != 19 {
		t.Fatalf("ledger entry mismatch: %+v", entry)
	}
}

func TestGeminiClientFallback(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, fallbackModelName) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(generateResponse))
			return
		}
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")

	ledger := &fakeUsageLogRepo{}
	client := NewGeminiClient(mustTestLogger(t), &fakeSettings{}, ledger)

	gen, err := client.Generate(context.Background(), aiActionExamAnalysis, nil, []Part{{Text: "analiz"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.ModelName != fallbackModelName {
		t.Fatalf("fallback model: want=%s got=%s", fallbackModelName, gen.ModelName)
	}
	if len(paths) != 2 {
		t.Fatalf("request count: want=2 got=%d", len(paths))
	}
	if len(ledger.entries) != 1 || ledger.entries[0].ModelName != fallbackModelName {
		t.Fatalf("ledger should record the model that answered, got %+v", ledger.entries)
	}
}

func TestGeminiClientBothModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")

	ledger := &fakeUsageLogRepo{}
	client := NewGeminiClient(mustTestLogger(t), &fakeSettings{}, ledger)

	if _, err := client.Generate(context.Background(), aiActionCoachingChat, nil, []Part{{Text: "x"}}); err == nil {
		t.Fatalf("want error when both models fail")
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("failed calls must not be recorded in the ledger")
	}
}

func TestGeminiClientMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	client := NewGeminiClient(mustTestLogger(t), &fakeSettings{}, nil)
	if _, err := client.Generate(context.Background(), aiActionCoachingChat, nil, []Part{{Text: "x"}}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want=ErrMissingAPIKey got=%v", err)
	}
}

func TestGeminiClientModelFromSettings(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateResponse))
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	t.Setenv("GEMINI_API_KEY", "env-key")

	settings := &fakeSettings{values: map[string]string{
		types.SettingGeminiModel:  "gemini-custom",
		types.SettingGeminiAPIKey: "db-key",
	}}
	client := NewGeminiClient(mustTestLogger(t), settings, nil)

	gen, err := client.Generate(context.Background(), aiActionCoachingChat, nil, []Part{{Text: "x"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.ModelName != "gemini-custom" {
		t.Fatalf("model: want=gemini-custom got=%s", gen.ModelName)
	}
	if len(paths) != 1 || !strings.Contains(paths[0], "gemini-custom") {
		t.Fatalf("request should target the configured model, got %v", paths)
	}
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/types"
	"github.com/testoloji/akademi-backend/internal/utils"
)

const (
	defaultModelName  = "gemini-2.5-flash"
	fallbackModelName = "gemini-2.5-flash-lite"
)

// Part is one piece of model input: plain text or an inline document.
type Part struct {
	Text       string
	InlineData *InlineData
}

type InlineData struct {
	MIMEType string
	Data     string // base64
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generation is a completed provider round trip. ModelName records which
// model actually answered, which differs from the configured one after a
// fallback.
type Generation struct {
	Text      string
	ModelName string
	Usage     Usage
}

// GenAIClient calls the LLM provider. Exactly one fallback attempt is made
// against the lighter secondary model when the primary fails; if that fails
// too the error is terminal for the job. Every successful call is recorded in
// the usage ledger best-effort.
type GenAIClient interface {
	Generate(ctx context.Context, action string, userID *uuid.UUID, parts []Part) (*Generation, error)
}

type geminiClient struct {
	log        *logger.Logger
	settings   SettingsService
	usageLog   repos.AIUsageLogRepo
	baseURL    string
	envAPIKey  string
	httpClient *http.Client

	mu         sync.Mutex
	currentKey string
}

func NewGeminiClient(baseLog *logger.Logger, settings SettingsService, usageLog repos.AIUsageLogRepo) GenAIClient {
	clientLog := baseLog.With("service", "GeminiClient")
	timeoutSeconds := utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 90, baseLog)
	return &geminiClient{
		log:       clientLog,
		settings:  settings,
		usageLog:  usageLog,
		baseURL:   utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com", baseLog),
		envAPIKey: utils.GetEnv("GEMINI_API_KEY", "", nil),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// resolveKey prefers the runtime setting over the environment credential, and
// notes when the active key changes so stale credentials are never reused.
func (c *geminiClient) resolveKey(ctx context.Context) (string, error) {
	dbKey, err := c.settings.GetSetting(ctx, types.SettingGeminiAPIKey)
	if err != nil {
		c.log.Warn("Could not read provider key from settings", "error", err)
	}
	key := dbKey
	if key == "" {
		key = c.envAPIKey
	}
	if key == "" {
		return "", ErrMissingAPIKey
	}

	c.mu.Lock()
	if c.currentKey != key {
		if c.currentKey != "" {
			c.log.Info("Provider API key changed, switching")
		}
		c.currentKey = key
	}
	c.mu.Unlock()

	return key, nil
}

func (c *geminiClient) resolveModel(ctx context.Context) string {
	model, err := c.settings.GetSetting(ctx, types.SettingGeminiModel)
	if err != nil {
		c.log.Warn("Could not read model name from settings", "error", err)
	}
	if model == "" {
		return defaultModelName
	}
	return model
}

func (c *geminiClient) Generate(ctx context.Context, action string, userID *uuid.UUID, parts []Part) (*Generation, error) {
	key, err := c.resolveKey(ctx)
	if err != nil {
		return nil, err
	}
	model := c.resolveModel(ctx)

	gen, err := c.generateOnce(ctx, model, key, parts)
	if err != nil {
		c.log.Warn("Primary model failed, trying fallback", "model", model, "fallback", fallbackModelName, "error", err)
		gen, err = c.generateOnce(ctx, fallbackModelName, key, parts)
		if err != nil {
			return nil, fmt.Errorf("generation failed on primary and fallback: %w", err)
		}
	}

	c.recordUsage(ctx, gen, action, userID)
	return gen, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (c *geminiClient) generateOnce(ctx context.Context, model, key string, parts []Part) (*Generation, error) {
	reqBody := geminiRequest{}
	reqBody.Contents = make([]struct {
		Parts []geminiPart `json:"parts"`
	}, 1)
	for _, p := range parts {
		gp := geminiPart{Text: p.Text}
		if p.InlineData != nil {
			gp.InlineData = &geminiInlineData{
				MIMEType: p.InlineData.MIMEType,
				Data:     p.InlineData.Data,
			}
		}
		reqBody.Contents[0].Parts = append(reqBody.Contents[0].Parts, gp)
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, key)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("provider returned no candidates")
	}

	var text bytes.Buffer
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	return &Generation{
		Text:      text.String(),
		ModelName: model,
		Usage: Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// recordUsage writes the ledger entry. Failures are swallowed: observability
// must never fail the main flow.
func (c *geminiClient) recordUsage(ctx context.Context, gen *Generation, action string, userID *uuid.UUID) {
	if c.usageLog == nil {
		return
	}
	entry := &types.AIUsageLog{
		ID:               uuid.New(),
		UserID:           userID,
		ModelName:        gen.ModelName,
		Action:           action,
		PromptTokens:     gen.Usage.PromptTokens,
		CompletionTokens: gen.Usage.CompletionTokens,
		TotalTokens:      gen.Usage.TotalTokens,
	}
	if err := c.usageLog.Create(ctx, nil, entry); err != nil {
		c.log.Warn("AI usage logging failed", "error", err)
	}
}

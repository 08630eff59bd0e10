package dua

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"barakah/models"
	"barakah/utils"

	"go.uber.org/zap"
)

type MockLLM struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (string, error)
	Calls        int
	LastRequest  CompletionRequest
}

func (m *MockLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.Calls++
	m.LastRequest = req
	return m.CompleteFunc(ctx, req)
}

type memoryCache struct {
	items map[string]*models.DuaContent
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]*models.DuaContent{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (*models.DuaContent, error) {
	return c.items[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, content *models.DuaContent) error {
	c.items[key] = content
	return nil
}

const wellFormedReply = "**Arabic:**\nرَبِّ اشْرَحْ لِي صَدْرِي\n\n**Transliteration:**\nRabbi ishrah li sadri\n\n**Translation in English:**\nMy Lord, expand my chest."

func TestGeneratorParsesReply(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return wellFormedReply, nil
	}}
	g := NewGenerator(llm, nil, zap.NewNop())

	res, err := g.Generate(context.Background(), models.DuaRequest{Situation: "exam nerves"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Content.Source != models.SourceAIGenerated {
		t.Errorf("Source = %q", res.Content.Source)
	}
	if res.Content.Language != DefaultLanguage {
		t.Errorf("Language = %q, want default", res.Content.Language)
	}
	if res.Content.Translation != "My Lord, expand my chest." {
		t.Errorf("Translation = %q", res.Content.Translation)
	}
}

func TestGeneratorFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "upstream error", err: errors.New("timeout")},
		{name: "empty reply", reply: "   "},
		{name: "translation missing", reply: "**Arabic:**\nنص\n\n**Transliteration:**\nnass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
				return tt.reply, tt.err
			}}
			g := NewGenerator(llm, nil, zap.NewNop())

			res, err := g.Generate(context.Background(), models.DuaRequest{Situation: "new job interview", Language: "Urdu"})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if res.Content.Source != models.SourceFallback {
				t.Errorf("Source = %q, want fallback", res.Content.Source)
			}
			if res.Content.Arabic != successDua.Arabic {
				t.Errorf("expected the success dua for a job situation")
			}
			if res.Content.Language != "Urdu" {
				t.Errorf("Language = %q", res.Content.Language)
			}
		})
	}
}

func TestGeneratorSalvagesUnstructuredReply(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return "Recite حَسْبُنَا اللَّهُ often.", nil
	}}
	g := NewGenerator(llm, nil, zap.NewNop())

	res, err := g.Generate(context.Background(), models.DuaRequest{Situation: "worry"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Content.Source != models.SourceAIGenerated {
		t.Errorf("Source = %q", res.Content.Source)
	}
	if res.Content.Arabic != "حَسْبُنَا" {
		t.Errorf("Arabic = %q, want longest arabic run", res.Content.Arabic)
	}
}

func TestGeneratorCache(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return wellFormedReply, nil
	}}
	cache := newMemoryCache()
	g := NewGenerator(llm, cache, zap.NewNop())
	ctx := context.Background()
	req := models.DuaRequest{Situation: "Travel", Language: "English"}

	first, _ := g.Generate(ctx, req)
	second, _ := g.Generate(ctx, req)
	if first.Cached || !second.Cached {
		t.Errorf("cached flags = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if llm.Calls != 1 {
		t.Errorf("llm calls = %d, want 1", llm.Calls)
	}

	req.PremiumFeatures = true
	third, _ := g.Generate(ctx, req)
	if third.Cached {
		t.Error("premium requests must bypass the cache")
	}
	if llm.Calls != 2 {
		t.Errorf("llm calls = %d, want 2", llm.Calls)
	}
	if llm.LastRequest.MaxTokens != premiumTokens {
		t.Errorf("MaxTokens = %d, want %d", llm.LastRequest.MaxTokens, premiumTokens)
	}
}

func TestGeneratorDoesNotCacheFallback(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return "", errors.New("down")
	}}
	cache := newMemoryCache()
	g := NewGenerator(llm, cache, zap.NewNop())

	if _, err := g.Generate(context.Background(), models.DuaRequest{Situation: "rain"}); err != nil {
		t.Fatal(err)
	}
	if len(cache.items) != 0 {
		t.Errorf("fallback content was cached")
	}
}

func TestGeneratorRejectsEmptySituation(t *testing.T) {
	g := NewGenerator(&MockLLM{}, nil, zap.NewNop())
	_, err := g.Generate(context.Background(), models.DuaRequest{Situation: "  "})
	if !errors.Is(err, utils.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestBuildCompletion(t *testing.T) {
	std := BuildCompletion("loss", "", false)
	if std.MaxTokens != standardTokens || std.Temperature != temperature {
		t.Errorf("standard params = %d / %v", std.MaxTokens, std.Temperature)
	}
	if !strings.Contains(std.User, "Language for translation: English") {
		t.Error("empty language should default to English")
	}
	if strings.Contains(std.System, "PREMIUM") {
		t.Error("standard prompt must not include premium section")
	}

	prem := BuildCompletion("loss", "Somali", true)
	if !strings.Contains(prem.System, "PREMIUM FEATURES") || !strings.Contains(prem.User, "PREMIUM REQUEST") {
		t.Error("premium prompt sections missing")
	}
}

func TestBreakerClientOpens(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(context.Context, CompletionRequest) (string, error) {
		return "", errors.New("boom")
	}}
	b := NewBreakerClient(llm, 2, time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := b.Complete(context.Background(), CompletionRequest{}); err == nil {
			t.Fatal("expected error")
		}
	}
	if _, err := b.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Fatal("expected open breaker error")
	}
	if llm.Calls != 2 {
		t.Errorf("calls reached provider = %d, want 2", llm.Calls)
	}
	if b.State() != "open" {
		t.Errorf("State() = %q", b.State())
	}
}

func TestBreakerClientIgnoresCanceledCalls(t *testing.T) {
	llm := &MockLLM{CompleteFunc: func(ctx context.Context, _ CompletionRequest) (string, error) {
		return "", ctx.Err()
	}}
	b := NewBreakerClient(llm, 2, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if _, err := b.Complete(ctx, CompletionRequest{}); !errors.Is(err, context.Canceled) {
			t.Fatalf("Complete() error = %v, want context.Canceled", err)
		}
	}
	if llm.Calls != 5 {
		t.Errorf("calls reached provider = %d, want 5", llm.Calls)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

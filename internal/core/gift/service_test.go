package gift

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeProvider) Name() string  { return "grok" }
func (f *fakeProvider) Model() string { return "grok-3" }

type fakeResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, name, keywords string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.urls[name]
}

func validItems(n int) []string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{"name":"Gift %d","reasoning":"Because %d","priceRange":"₹%d00","imageKeywords":"gift %d","image":"https://model.example/%d.jpg"}`, i, i, i, i, i))
	}
	return items
}

func arrayOf(items ...string) string {
	return "[" + strings.Join(items, ",") + "]"
}

var defaultOptions = Options{Count: 5, MinCount: 5, ImageKeywords: true}

func TestRecommendSuccess(t *testing.T) {
	p := &fakeProvider{response: arrayOf(append(validItems(5), `{"name":"broken"}`)...)}
	r := &fakeResolver{urls: map[string]string{"Gift 2": "https://img.example/2.jpg"}}
	svc := NewService(p, nil, "grok", r, defaultOptions)

	recs, err := svc.Recommend(context.Background(), RecipientProfile{Relationship: "friend"})
	require.NoError(t, err)
	require.Len(t, recs, 5)

	for i, rec := range recs {
		assert.Equal(t, fmt.Sprintf("%d", i+1), rec.ID)
		assert.Equal(t, fmt.Sprintf("Gift %d", i+1), rec.Name)
	}
	// 圖片一律以解析結果為準
	assert.Equal(t, "", recs[0].Image)
	assert.Equal(t, "https://img.example/2.jpg", recs[1].Image)
	assert.Len(t, r.calls, 5)

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "Friend or sibling (peer)")
}

func TestRecommendTruncatesToCount(t *testing.T) {
	p := &fakeProvider{response: arrayOf(validItems(7)...)}
	svc := NewService(p, nil, "grok", &fakeResolver{}, defaultOptions)

	recs, err := svc.Recommend(context.Background(), RecipientProfile{})
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "Gift 5", recs[4].Name)
}

func TestRecommendInsufficient(t *testing.T) {
	raw := arrayOf(append(validItems(4), `{"name":"no reasoning","priceRange":"₹1"}`)...)
	p := &fakeProvider{response: raw}
	svc := NewService(p, nil, "grok", &fakeResolver{}, defaultOptions)

	_, err := svc.Recommend(context.Background(), RecipientProfile{})
	require.Error(t, err)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeInsufficient, ce.Code)
	assert.Equal(t, 502, ce.Status)
	assert.Equal(t, "GROK returned insufficient recommendations", ce.Message)
	assert.Equal(t, raw, ce.Fields["raw"])
}

func TestRecommendRawTruncated(t *testing.T) {
	raw := strings.Repeat("₹", 1000)
	p := &fakeProvider{response: raw}
	svc := NewService(p, nil, "grok", &fakeResolver{}, defaultOptions)

	_, err := svc.Recommend(context.Background(), RecipientProfile{})
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeMalformed, ce.Code)
	assert.Equal(t, "Failed to parse GROK response", ce.Message)
	assert.Equal(t, strings.Repeat("₹", 800), ce.Fields["raw"])
}

func TestRecommendProviderFailure(t *testing.T) {
	p := &fakeProvider{err: &provider.RequestError{Provider: "grok", Model: "grok-3", StatusCode: 401, Body: "bad key"}}
	r := &fakeResolver{}
	svc := NewService(p, nil, "grok", r, defaultOptions)

	_, err := svc.Recommend(context.Background(), RecipientProfile{})
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeProviderRequest, ce.Code)
	assert.Equal(t, 502, ce.Status)
	assert.Equal(t, "GROK request failed", ce.Message)
	assert.Equal(t, "grok-3", ce.Fields["model"])
	assert.Equal(t, "grok", ce.Fields["provider"])
	assert.Contains(t, ce.Fields["details"], "bad key")

	var reqErr *provider.RequestError
	assert.True(t, errors.As(err, &reqErr))
	assert.Empty(t, r.calls)
}

func TestRecommendMissingConfiguration(t *testing.T) {
	svc := NewService(nil, common.NewConfigurationError("Missing GEMINI_API_KEY"), "gemini", &fakeResolver{}, defaultOptions)

	_, err := svc.Recommend(context.Background(), RecipientProfile{})
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeConfiguration, ce.Code)
	assert.Equal(t, 500, ce.Status)
	assert.Equal(t, "Missing GEMINI_API_KEY", ce.Message)
	assert.Equal(t, "gemini", svc.ProviderName())
	assert.Empty(t, svc.ProviderModel())
}

func TestRecommendSmallerCount(t *testing.T) {
	p := &fakeProvider{response: arrayOf(validItems(3)...)}
	svc := NewService(p, nil, "grok", nil, Options{Count: 3, MinCount: 3})

	recs, err := svc.Recommend(context.Background(), RecipientProfile{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, rec := range recs {
		assert.Empty(t, rec.Image)
	}
	assert.Contains(t, p.prompts[0], "Recommend EXACTLY 3 items")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"vibe-gift/internal/core/ai/cache"
	"vibe-gift/internal/core/ai/provider"
	"vibe-gift/internal/core/gift"
	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.InitTestLogger()
	os.Exit(m.Run())
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Generate(context.Context, string) (string, error) { return s.response, s.err }
func (s *stubProvider) Name() string                                     { return "grok" }
func (s *stubProvider) Model() string                                    { return "grok-3" }

// blockingProvider 直到 context 結束才回傳
type blockingProvider struct{ stubProvider }

func (b *blockingProvider) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, name, _ string) string {
	return "https://img.example/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".jpg"
}

func giftItems(n int) []string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{"name":"Gift %d","reasoning":"Fits %d","priceRange":"₹%d000","imageKeywords":"gift %d"}`, i, i, i, i))
	}
	return items
}

func newTestRouter(t *testing.T, p provider.Provider, providerErr error) (*gin.Engine, *config.Config) {
	t.Helper()
	cfg := config.Default()
	svc := gift.NewService(p, providerErr, "grok", stubResolver{}, gift.Options{Count: 5, MinCount: 5, ImageKeywords: true})
	return NewRouter(cfg, svc, cache.NewMemoryStore()), cfg
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

const profileJSON = `{"ageGroup":"young-adult","gender":"female","relationship":"partner","occasion":"birthday","lifestyle":"cafe","budget":"premium"}`

func TestRecommendationsDropsMalformedItem(t *testing.T) {
	raw := "[" + strings.Join(append(giftItems(5), `{"name":"Broken"}`), ",") + "]"
	router, _ := newTestRouter(t, &stubProvider{response: raw}, nil)

	w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recs []gift.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.Len(t, recs, 5)
	assert.Equal(t, "1", recs[0].ID)
	assert.Equal(t, "https://img.example/gift-1.jpg", recs[0].Image)
	assert.Equal(t, "Gift 5", recs[4].Name)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRecommendationsAPIAlias(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{response: "[" + strings.Join(giftItems(5), ",") + "]"}, nil)

	w := doJSON(router, http.MethodPost, "/api/recommendations", profileJSON)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecommendationsInsufficient(t *testing.T) {
	raw := "[" + strings.Join(giftItems(4), ",") + "]"
	router, _ := newTestRouter(t, &stubProvider{response: raw}, nil)

	w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "GROK returned insufficient recommendations", body["error"])
	assert.NotEmpty(t, body["request_id"])
	assert.Equal(t, common.ErrCodeInsufficient, body["code"])
	assert.Equal(t, raw, body["raw"])
}

func TestRecommendationsMalformed(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{response: "Sorry, I can't do that."}, nil)

	w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Failed to parse GROK response", body["error"])
	assert.Equal(t, "Sorry, I can't do that.", body["raw"])
}

func TestRecommendationsProviderFailure(t *testing.T) {
	p := &stubProvider{err: &provider.RequestError{Provider: "grok", Model: "grok-3", StatusCode: 429, Body: "rate limited"}}
	router, _ := newTestRouter(t, p, nil)

	w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "GROK request failed", body["error"])
	assert.Equal(t, "grok-3", body["model"])
	assert.Equal(t, "grok", body["provider"])
	assert.Contains(t, body["details"], "rate limited")
}

func TestRecommendationsInvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{}, nil)

	for _, payload := range []string{"{not json", "", `{"ageGroup":`} {
		w := doJSON(router, http.MethodPost, "/recommendations", payload)
		require.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.Equal(t, "Invalid JSON body", decodeBody(t, w)["error"])
	}
}

func TestRecommendationsMissingKeyCheckedFirst(t *testing.T) {
	router, _ := newTestRouter(t, nil, common.NewConfigurationError("Missing GROK_API_KEY"))

	// 設定錯誤優先於請求格式錯誤
	w := doJSON(router, http.MethodPost, "/recommendations", "{not json")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Missing GROK_API_KEY", body["error"])
	assert.Equal(t, common.ErrCodeConfiguration, body["code"])

	ready := doJSON(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
}

func TestRecommendationsBodyTooLarge(t *testing.T) {
	router, cfg := newTestRouter(t, &stubProvider{}, nil)

	big := `{"ageGroup":"` + strings.Repeat("x", int(cfg.Server.MaxBodyBytes)) + `"}`
	w := doJSON(router, http.MethodPost, "/recommendations", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestPlaceOrder(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{}, nil)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	payload := fmt.Sprintf(`{"gift":{"id":"1","name":"Ceramic Mug","image":"","reasoning":"r","priceRange":"₹500"},
		"delivery":{"deliveryDate":%q,"deliveryTime":"morning","address":"12 MG Road","personalNote":"Happy birthday!"}}`, tomorrow)
	w := doJSON(router, http.MethodPost, "/orders", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	_, err := uuid.Parse(body["orderId"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "confirmed", body["status"])
	assert.Equal(t, "Morning (9 AM - 12 PM)", body["timeSlotLabel"])
}

func TestPlaceOrderValidation(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{}, nil)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	cases := map[string]string{
		"missing address":   fmt.Sprintf(`{"gift":{"name":"Mug"},"delivery":{"deliveryDate":%q,"deliveryTime":"morning"}}`, tomorrow),
		"missing gift name": fmt.Sprintf(`{"gift":{},"delivery":{"deliveryDate":%q,"deliveryTime":"morning","address":"x"}}`, tomorrow),
		"bad time slot":     fmt.Sprintf(`{"gift":{"name":"Mug"},"delivery":{"deliveryDate":%q,"deliveryTime":"midnight","address":"x"}}`, tomorrow),
		"bad date":          `{"gift":{"name":"Mug"},"delivery":{"deliveryDate":"31/12/2030","deliveryTime":"morning","address":"x"}}`,
		"past date":         `{"gift":{"name":"Mug"},"delivery":{"deliveryDate":"2001-01-01","deliveryTime":"morning","address":"x"}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/orders", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{}, nil)

	w := doJSON(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	prov := body["provider"].(map[string]interface{})
	assert.Equal(t, "grok", prov["name"])
	assert.Equal(t, true, prov["configured"])
	assert.Equal(t, "memory", body["cache"].(map[string]interface{})["backend"])

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/live", "").Code)
}

// TestSetupRouterEndToEnd 以假的 Grok、搜尋與圖片伺服器跑完整流程
func TestSetupRouterEndToEnd(t *testing.T) {
	var searchCalls atomic.Int32

	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".jpg") {
			w.Header().Set("Content-Type", "image/jpeg")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer images.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)
		slug := strings.ReplaceAll(r.URL.Query().Get("q"), " ", "-")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[{"link":"%s/%s.html"},{"link":"%s/%s.jpg","image":{"height":500,"width":500}}]}`,
			images.URL, slug, images.URL, slug)
	}))
	defer search.Close()

	content, err := json.Marshal("```json\n[" + strings.Join(giftItems(5), ",") + "]\n```")
	require.NoError(t, err)
	grok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, content)
	}))
	defer grok.Close()

	cfg := config.Default()
	cfg.Grok.APIKey = "xai-test"
	cfg.Grok.BaseURL = grok.URL
	cfg.Search.APIKey = "search-key"
	cfg.Search.CX = "cx"
	cfg.Search.BaseURL = search.URL

	router, err := SetupRouter(context.Background(), cfg, cache.NewMemoryStore())
	require.NoError(t, err)

	for round := 0; round < 2; round++ {
		w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var recs []gift.Recommendation
		require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&recs))
		require.Len(t, recs, 5)
		for i, rec := range recs {
			assert.Equal(t, fmt.Sprintf("%s/gift-%d-product-photo.jpg", images.URL, i+1), rec.Image)
		}
	}

	// 第二輪全部命中快取
	assert.Equal(t, int32(5), searchCalls.Load())
}

func TestRecommendationsNonObjectBodyIsEmptyProfile(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{response: "[" + strings.Join(giftItems(5), ",") + "]"}, nil)

	for _, payload := range []string{"[1,2,3]", "null", `"text"`} {
		w := doJSON(router, http.MethodPost, "/recommendations", payload)
		assert.Equal(t, http.StatusOK, w.Code, payload)
	}
}

func TestRecommendationsRequestTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RequestTimeout = 50 * time.Millisecond
	svc := gift.NewService(&blockingProvider{}, nil, "grok", stubResolver{}, gift.Options{Count: 5, MinCount: 5})
	router := NewRouter(cfg, svc, cache.NewMemoryStore())

	w := doJSON(router, http.MethodPost, "/recommendations", profileJSON)
	require.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Request timeout", body["error"])
	assert.Equal(t, common.ErrCodeGatewayTimeout, body["code"])
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{}, nil)

	w := doJSON(router, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeNotFound, decodeBody(t, w)["code"])
}

func TestServiceErrorsCarryCodes(t *testing.T) {
	svc := gift.NewService(&stubProvider{response: "[]"}, nil, "grok", nil, gift.Options{Count: 5, MinCount: 5})
	_, err := svc.Recommend(context.Background(), gift.RecipientProfile{})
	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeInsufficient))
	assert.False(t, common.HasCode(err, common.ErrCodeMalformed))
}

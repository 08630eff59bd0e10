package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"barakah/middleware"
	"barakah/models"
	"barakah/services/document"
	"barakah/services/dua"
	"barakah/services/narration"
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockDuaService struct {
	GenerateFunc func(ctx context.Context, req models.DuaRequest) (*dua.Result, error)
	LastRequest  models.DuaRequest
}

func (m *MockDuaService) Generate(ctx context.Context, req models.DuaRequest) (*dua.Result, error) {
	m.LastRequest = req
	return m.GenerateFunc(ctx, req)
}

type MockDispatcher struct {
	Jobs []models.PDFJob
	Err  error
}

func (m *MockDispatcher) Dispatch(_ context.Context, job models.PDFJob) error {
	m.Jobs = append(m.Jobs, job)
	return m.Err
}

type MockArchive struct {
	URLs map[string]string
}

func (m *MockArchive) URL(_ context.Context, id string) (string, error) {
	return m.URLs[id], nil
}

type MockAuthenticator struct {
	Grants map[string]*models.AccessGrant
}

func (m *MockAuthenticator) Authenticate(_ context.Context, key string) (*models.AccessGrant, error) {
	if g, ok := m.Grants[key]; ok {
		return g, nil
	}
	return nil, utils.ErrInvalidAPIKey
}

func sampleContent() *models.DuaContent {
	return &models.DuaContent{
		Arabic:      "رَبِّ يَسِّرْ",
		Translation: "My Lord, make it easy",
		Language:    "English",
		Situation:   "exam",
		Source:      models.SourceAIGenerated,
	}
}

func newDuaRouter(t *testing.T, svc dua.Service, disp *MockDispatcher, archive ArchiveResolver, auth middleware.KeyAuthenticator) (*gin.Engine, *document.Renderer) {
	t.Helper()
	renderer, err := document.NewRenderer(t.TempDir(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	h := NewDuaHandler(svc, disp, renderer, archive)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	r := gin.New()
	api := r.Group("/api/dua")
	api.POST("/generate", middleware.OptionalAPIKeyMiddleware(auth), h.GenerateDuaHandler)
	api.GET("/:id/pdf", h.GetDuaPDFHandler)
	return r, renderer
}

func TestGenerateDuaHandler(t *testing.T) {
	svc := &MockDuaService{GenerateFunc: func(ctx context.Context, req models.DuaRequest) (*dua.Result, error) {
		return &dua.Result{Content: sampleContent(), Cached: true}, nil
	}}
	disp := &MockDispatcher{}
	auth := &MockAuthenticator{Grants: map[string]*models.AccessGrant{"bt_api": {APIAccess: true}}}
	r, _ := newDuaRouter(t, svc, disp, nil, auth)

	body := `{"situation":"exam","language":"English"}`
	req := httptest.NewRequest(http.MethodPost, "/api/dua/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.DuaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Errorf("id %q is not a uuid", resp.ID)
	}
	if resp.PDFURL != "/api/dua/"+resp.ID+"/pdf" || !resp.Cached || resp.Arabic != "رَبِّ يَسِّرْ" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(disp.Jobs) != 1 || disp.Jobs[0].ID != resp.ID {
		t.Errorf("cached hits must still dispatch a pdf job, got %+v", disp.Jobs)
	}
	if svc.LastRequest.PremiumFeatures {
		t.Error("anonymous request should not be premium")
	}

	// An API key with API access upgrades to premium.
	req = httptest.NewRequest(http.MethodPost, "/api/dua/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "bt_api")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !svc.LastRequest.PremiumFeatures {
		t.Errorf("status = %d, premium = %v", w.Code, svc.LastRequest.PremiumFeatures)
	}
}

func TestGenerateDuaHandlerErrors(t *testing.T) {
	svc := &MockDuaService{GenerateFunc: func(ctx context.Context, req models.DuaRequest) (*dua.Result, error) {
		return nil, fmt.Errorf("%w: situation is required", utils.ErrInvalidRequest)
	}}
	r, _ := newDuaRouter(t, svc, &MockDispatcher{}, nil, &MockAuthenticator{})

	tests := []struct {
		name     string
		body     string
		key      string
		wantCode int
	}{
		{"missing situation", `{"language":"English"}`, "", http.StatusBadRequest},
		{"malformed json", `{`, "", http.StatusBadRequest},
		{"blank situation", `{"situation":"   "}`, "", http.StatusBadRequest},
		{"unknown api key", `{"situation":"exam"}`, "bt_nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dua/generate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestGetDuaPDFHandler(t *testing.T) {
	ready := uuid.NewString()
	archived := uuid.NewString()
	archive := &MockArchive{URLs: map[string]string{archived: "https://res.cloudinary.com/demo/raw/upload/duas/" + archived}}
	r, renderer := newDuaRouter(t, &MockDuaService{}, &MockDispatcher{}, archive, &MockAuthenticator{})

	path, err := renderer.Path(ready)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.3\n"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	tests := []struct {
		name     string
		id       string
		wantCode int
		check    func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{"bad id", "not-a-uuid", http.StatusBadRequest, nil},
		{"not yet rendered", uuid.NewString(), http.StatusNotFound, func(t *testing.T, w *httptest.ResponseRecorder) {
			if !strings.Contains(w.Body.String(), "PDF not found or still generating") {
				t.Errorf("body = %s", w.Body.String())
			}
		}},
		{"on disk", ready, http.StatusOK, func(t *testing.T, w *httptest.ResponseRecorder) {
			if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "BarakahTool_Dua_"+ready+".pdf") {
				t.Errorf("Content-Disposition = %q", cd)
			}
			if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
				t.Error("body is not the pdf")
			}
		}},
		{"archived", archived, http.StatusFound, func(t *testing.T, w *httptest.ResponseRecorder) {
			if loc := w.Header().Get("Location"); loc != archive.URLs[archived] {
				t.Errorf("Location = %q", loc)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dua/"+tt.id+"/pdf", nil))
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

type MockPaymentService struct {
	CreateFunc  func(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
	WebhookFunc func(ctx context.Context, payload []byte, sig string) (*models.WebhookResult, error)
	VerifyFunc  func(ctx context.Context, id string) (*models.WebhookResult, error)
	LookupFunc  func(ctx context.Context, email string) ([]models.AccessGrant, error)
}

func (m *MockPaymentService) Plans() []models.PaymentPlan {
	return []models.PaymentPlan{{ID: models.PlanPremium, Price: 4999}}
}

func (m *MockPaymentService) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	return m.CreateFunc(ctx, req)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, sig string) (*models.WebhookResult, error) {
	return m.WebhookFunc(ctx, payload, sig)
}

func (m *MockPaymentService) VerifySession(ctx context.Context, id string) (*models.WebhookResult, error) {
	return m.VerifyFunc(ctx, id)
}

func (m *MockPaymentService) LookupAccess(ctx context.Context, email string) ([]models.AccessGrant, error) {
	return m.LookupFunc(ctx, email)
}

func (m *MockPaymentService) Authenticate(ctx context.Context, key string) (*models.AccessGrant, error) {
	return nil, utils.ErrInvalidAPIKey
}

func newPaymentRouter(svc *MockPaymentService) *gin.Engine {
	h := NewPaymentHandler(svc)
	r := gin.New()
	r.POST("/api/payment/create-session", h.CreateSessionHandler)
	r.POST("/api/payment/webhook", h.WebhookHandler)
	r.POST("/api/payment/verify", h.VerifySessionHandler)
	r.GET("/api/pricing", h.PricingHandler)
	r.GET("/api/access/:email", h.AccessHandler)
	return r
}

func TestPaymentHandlers(t *testing.T) {
	var gotPayload, gotSig string
	svc := &MockPaymentService{
		CreateFunc: func(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
			if req.Plan == "gold" {
				return nil, utils.ErrInvalidPlan
			}
			return &models.CheckoutSession{CheckoutURL: "https://checkout.stripe.com/c/cs_1", SessionID: "cs_1"}, nil
		},
		WebhookFunc: func(ctx context.Context, payload []byte, sig string) (*models.WebhookResult, error) {
			gotPayload, gotSig = string(payload), sig
			if sig == "" {
				return nil, utils.ErrInvalidSignature
			}
			return &models.WebhookResult{Success: true, EventType: "customer.created"}, nil
		},
		VerifyFunc: func(ctx context.Context, id string) (*models.WebhookResult, error) {
			if id == "cs_missing" {
				return nil, utils.ErrSessionNotFound
			}
			return nil, fmt.Errorf("%w: stripe down", utils.ErrUpstream)
		},
		LookupFunc: func(ctx context.Context, email string) ([]models.AccessGrant, error) {
			return nil, nil
		},
	}
	r := newPaymentRouter(svc)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		sig      string
		wantCode int
		wantBody string
	}{
		{"create session", http.MethodPost, "/api/payment/create-session", `{"plan":"premium","user_email":"a@example.com","user_name":"A"}`, "", http.StatusOK, `"checkout_url":"https://checkout.stripe.com/c/cs_1"`},
		{"create bad email", http.MethodPost, "/api/payment/create-session", `{"plan":"premium","user_email":"nope","user_name":"A"}`, "", http.StatusBadRequest, ""},
		{"create unknown plan", http.MethodPost, "/api/payment/create-session", `{"plan":"gold","user_email":"a@example.com","user_name":"A"}`, "", http.StatusBadRequest, "Invalid plan"},
		{"webhook signed", http.MethodPost, "/api/payment/webhook", `{"id":"evt_1"}`, "t=1,v1=abc", http.StatusOK, `"status":"success"`},
		{"webhook unsigned", http.MethodPost, "/api/payment/webhook", `{"id":"evt_1"}`, "", http.StatusBadRequest, "Invalid signature"},
		{"verify missing", http.MethodPost, "/api/payment/verify", `{"session_id":"cs_missing"}`, "", http.StatusNotFound, ""},
		{"verify upstream", http.MethodPost, "/api/payment/verify", `{"session_id":"cs_2"}`, "", http.StatusBadGateway, ""},
		{"pricing", http.MethodGet, "/api/pricing", "", "", http.StatusOK, `"plans":[`},
		{"access none", http.MethodGet, "/api/access/a@example.com", "", "", http.StatusOK, `"access_levels":[],"has_access":false`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.sig != "" {
				req.Header.Set("Stripe-Signature", tt.sig)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}

	if gotPayload != `{"id":"evt_1"}` || gotSig != "" {
		t.Errorf("webhook saw payload %q sig %q", gotPayload, gotSig)
	}
}

func TestAccessHandlerReturnsLevelsOnly(t *testing.T) {
	svc := &MockPaymentService{
		LookupFunc: func(ctx context.Context, email string) ([]models.AccessGrant, error) {
			return []models.AccessGrant{{
				SessionID:   "cs_secret",
				PurchaseID:  "pur_secret",
				Email:       email,
				AccessLevel: models.PlanEnterprise,
				APIAccess:   true,
				APIKeyHash:  "hash",
			}}, nil
		},
	}
	r := newPaymentRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/access/buyer@example.com", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if body != `{"access_levels":["enterprise"],"has_access":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestWebhookHandlerOmitsGrant(t *testing.T) {
	svc := &MockPaymentService{
		WebhookFunc: func(ctx context.Context, payload []byte, sig string) (*models.WebhookResult, error) {
			return &models.WebhookResult{
				Success:   true,
				EventType: "checkout.session.completed",
				Grant:     &models.AccessGrant{SessionID: "cs_1", Email: "buyer@example.com", APIKey: "bt_0123456789abcdef01234567"},
			}, nil
		},
	}
	r := newPaymentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "bt_") || strings.Contains(body, "buyer@example.com") {
		t.Errorf("webhook response leaks grant details: %s", body)
	}
	if !strings.Contains(body, `"granted":true`) {
		t.Errorf("body = %s", body)
	}
}

func TestNarrateHandler(t *testing.T) {
	h := NewNarrationHandler(narration.NewRegistry(narration.MetadataEngine{}))
	r := gin.New()
	r.POST("/api/narration", h.NarrateHandler)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"default engine", `{"text":"alhamdulillah"}`, http.StatusOK, `"audio_id":"islamic_story_`},
		{"missing text", `{"text":""}`, http.StatusBadRequest, `"error_type":"invalid_input"`},
		{"unknown engine", `{"text":"salaam","engine":"coqui"}`, http.StatusBadRequest, "Unknown narration engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/narration", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

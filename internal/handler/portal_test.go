package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/dto"
	"github.com/oyaguma3/portal-controller/internal/mac"
	"github.com/oyaguma3/portal-controller/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockService はテスト用のモック
type mockService struct {
	response *dto.SessionResponse
	batch    *dto.BatchStatusResponse
	health   *dto.HealthResponse
	err      error

	lastMAC    string
	lastSource *string
}

func (m *mockService) Login(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m.lastMAC = rawMAC
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockService) Heartbeat(ctx context.Context, rawMAC string, source *string) (*dto.SessionResponse, error) {
	m.lastMAC = rawMAC
	m.lastSource = source
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockService) Logout(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m.lastMAC = rawMAC
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockService) Status(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m.lastMAC = rawMAC
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockService) BatchStatus(ctx context.Context, entries []dto.BatchStatusEntry) (*dto.BatchStatusResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

func (m *mockService) Health(ctx context.Context) *dto.HealthResponse {
	return m.health
}

func authorizedResponse() *dto.SessionResponse {
	role := "guest"
	ttl := int64(3600)
	return &dto.SessionResponse{
		Authorized: true,
		Role:       &role,
		TTL:        &ttl,
	}
}

func newTestHandler(m *mockService) *PortalHandler {
	return NewPortalHandler(m, &config.Config{LogMaskMAC: true})
}

func postJSON(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestHandleLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &mockService{response: authorizedResponse()}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleLogin, `{"mac":"AA:BB:CC:DD:EE:FF"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		var resp dto.SessionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if !resp.Authorized {
			t.Error("Authorized = false, want true")
		}
		if m.lastMAC != "AA:BB:CC:DD:EE:FF" {
			t.Errorf("service received %q, want raw MAC", m.lastMAC)
		}
	})

	t.Run("missing mac field", func(t *testing.T) {
		m := &mockService{response: authorizedResponse()}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleLogin, `{}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		m := &mockService{response: authorizedResponse()}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleLogin, `not json`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid mac", func(t *testing.T) {
		m := &mockService{err: mac.ErrInvalidMAC}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleLogin, `{"mac":"bogus"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		var pd dto.ProblemDetail
		if err := json.Unmarshal(w.Body.Bytes(), &pd); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if pd.Status != http.StatusBadRequest || pd.Title != "Bad Request" {
			t.Errorf("ProblemDetail = %+v", pd)
		}
	})

	t.Run("store unavailable", func(t *testing.T) {
		m := &mockService{err: store.ErrValkeyUnavailable}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleLogin, `{"mac":"aa:bb:cc:dd:ee:ff"}`)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestHandleHeartbeat(t *testing.T) {
	t.Run("with source", func(t *testing.T) {
		m := &mockService{response: authorizedResponse()}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleHeartbeat, `{"mac":"aa:bb:cc:dd:ee:ff","source":"ap-beacon","rssi":-42}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if m.lastSource == nil || *m.lastSource != "ap-beacon" {
			t.Errorf("source = %v, want ap-beacon", m.lastSource)
		}
	})

	t.Run("without source", func(t *testing.T) {
		m := &mockService{response: authorizedResponse()}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleHeartbeat, `{"mac":"aa:bb:cc:dd:ee:ff"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if m.lastSource != nil {
			t.Errorf("source = %v, want nil", m.lastSource)
		}
	})

	t.Run("unauthorized result is still 200", func(t *testing.T) {
		m := &mockService{response: &dto.SessionResponse{Authorized: false}}
		h := newTestHandler(m)

		w := postJSON(t, h.HandleHeartbeat, `{"mac":"aa:bb:cc:dd:ee:ff"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		var resp dto.SessionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if resp.Authorized {
			t.Error("Authorized = true, want false")
		}
	})
}

func TestHandleLogout(t *testing.T) {
	m := &mockService{response: &dto.SessionResponse{Authorized: false}}
	h := newTestHandler(m)

	w := postJSON(t, h.HandleLogout, `{"mac":"aa:bb:cc:dd:ee:ff"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if m.lastMAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("service received %q", m.lastMAC)
	}
}

func TestHandleStatus(t *testing.T) {
	m := &mockService{response: authorizedResponse()}
	h := newTestHandler(m)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/portal/status/aa:bb:cc:dd:ee:ff", nil)
	c.Params = gin.Params{{Key: "mac", Value: "aa:bb:cc:dd:ee:ff"}}

	h.HandleStatus(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if m.lastMAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("service received %q", m.lastMAC)
	}
}

func TestHandleBatchStatus(t *testing.T) {
	m := &mockService{batch: &dto.BatchStatusResponse{
		Results: []dto.BatchStatusResult{
			{MAC: "aa:bb:cc:dd:ee:ff", SessionResponse: *authorizedResponse()},
			{MAC: "11:22:33:44:55:66", SessionResponse: dto.SessionResponse{Authorized: false}},
		},
	}}
	h := newTestHandler(m)

	w := postJSON(t, h.HandleBatchStatus, `{"entries":[{"mac":"aa:bb:cc:dd:ee:ff"},{"mac":"11:22:33:44:55:66"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp dto.BatchStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(resp.Results))
	}
}

func TestHandleHealthz(t *testing.T) {
	tests := []struct {
		name   string
		health *dto.HealthResponse
	}{
		{"healthy", &dto.HealthResponse{Status: "ok", Valkey: dto.ValkeyHealth{Ping: true}}},
		{"degraded", &dto.HealthResponse{Status: "degraded", Valkey: dto.ValkeyHealth{Ping: false, Error: "connection refused"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockService{health: tt.health}
			h := newTestHandler(m)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

			h.HandleHealthz(c)

			// 劣化時もプローブ自体は200で応答する
			if w.Code != http.StatusOK {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp dto.HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if resp.Status != tt.health.Status {
				t.Errorf("Status = %q, want %q", resp.Status, tt.health.Status)
			}
		})
	}
}

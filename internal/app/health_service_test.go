package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/config"
	"github.com/dokzlo13/torchlight/internal/state"
)

type fakeReadiness struct {
	ready  bool
	online int
}

func (f fakeReadiness) Ready() bool { return f.ready }
func (f fakeReadiness) Online() int { return f.online }

func TestHealthService_Endpoints(t *testing.T) {
	table := state.NewTable()
	v := float32(0.5)
	table.SetBrightness(uuid.New(), &v)

	tests := []struct {
		name       string
		game       fakeReadiness
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", fakeReadiness{}, "/health", http.StatusOK, `"healthy"`},
		{"not ready", fakeReadiness{}, "/ready", http.StatusServiceUnavailable, `"not_ready"`},
		{"ready", fakeReadiness{ready: true, online: 3}, "/ready", http.StatusOK, `"online":3,"tracked":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHealthService(config.Default(), tt.game, table)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

package insight

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Bahjat/page-insight-tool/web/internal/model"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/errs"
)

var errConnectionRefused = errors.New("dial tcp 127.0.0.1:8080: connect: connection refused")

// mockBackend implements Backend for testing.
type mockBackend struct {
	analysis   *model.AnalysisData
	analyzeErr error
	health     model.HealthStatus
	healthErr  error
	gotURL     string
}

func (m *mockBackend) Analyze(_ context.Context, targetURL string) (*model.AnalysisData, error) {
	m.gotURL = targetURL
	return m.analysis, m.analyzeErr
}

func (m *mockBackend) Health(_ context.Context) (model.HealthStatus, error) {
	return m.health, m.healthErr
}

func sampleAnalysis() *model.AnalysisData {
	return &model.AnalysisData{
		HTMLVersion:    "HTML5",
		PageTitle:      "Example Domain",
		Headings:       map[string]int{"h1": 1, "h2": 2, "h3": 0, "h4": 0, "h5": 0, "h6": 0},
		Links:          model.LinkStats{Internal: 4, External: 3, Inaccessible: 1},
		HasLoginForm:   true,
		AnalysisTimeMs: 87,
	}
}

func newTestService(b Backend) *Service {
	svc := NewService(b, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_LoadAnalysis_Success(t *testing.T) {
	b := &mockBackend{analysis: sampleAnalysis()}

	result := newTestService(b).LoadAnalysis(context.Background(), "https://example.com")

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	if result.Data == nil || result.Data.PageTitle != "Example Domain" {
		t.Errorf("Data = %+v, want sample analysis", result.Data)
	}
	if b.gotURL != "https://example.com" {
		t.Errorf("backend got URL %q, want %q", b.gotURL, "https://example.com")
	}
	if !result.Timestamp.Equal(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", result.Timestamp)
	}
}

func TestService_LoadAnalysis_FailureCarriesMessageOnly(t *testing.T) {
	b := &mockBackend{analyzeErr: &errs.AppError{Kind: errs.Upstream, UpstreamStatus: 400, Message: "Invalid URL"}}

	result := newTestService(b).LoadAnalysis(context.Background(), "nope")

	if result.Error != "Invalid URL" {
		t.Errorf("Error = %q, want %q", result.Error, "Invalid URL")
	}
	if result.Data != nil {
		t.Errorf("Data = %+v, want nil", result.Data)
	}
}

func TestService_LoadHealth(t *testing.T) {
	healthy := model.HealthStatus{Status: "healthy", Timestamp: "t", Version: "1.0.0", BuildDate: "2026-10-01"}

	tests := []struct {
		name         string
		backend      *mockBackend
		wantFallback bool
		wantError    string
		wantStatus   string
	}{
		{
			name:       "healthy",
			backend:    &mockBackend{health: healthy},
			wantStatus: "healthy",
		},
		{
			name: "transport failure keeps facade fallback",
			backend: &mockBackend{
				health:    model.FallbackHealth(time.Now()),
				healthErr: &errs.AppError{Kind: errs.Transport, Message: errConnectionRefused.Error(), Cause: errConnectionRefused},
			},
			wantFallback: true,
			wantError:    errConnectionRefused.Error(),
			wantStatus:   "unhealthy",
		},
		{
			name:         "error without status still renders fallback",
			backend:      &mockBackend{healthErr: errConnectionRefused},
			wantFallback: true,
			wantError:    errConnectionRefused.Error(),
			wantStatus:   "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newTestService(tt.backend).LoadHealth(context.Background())

			if report.Fallback != tt.wantFallback {
				t.Errorf("Fallback = %v, want %v", report.Fallback, tt.wantFallback)
			}
			if report.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", report.Error, tt.wantError)
			}
			if report.Status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", report.Status.Status, tt.wantStatus)
			}
			if report.Status.Version == "" {
				t.Error("Version must never be empty")
			}
		})
	}
}

package insight

import (
	"context"
	"log/slog"
	"time"

	"github.com/Bahjat/page-insight-tool/web/internal/model"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/errs"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/requestid"
)

// Service loads the data one render pass needs and logs the outcome.
type Service struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a Service backed by the given facade.
func NewService(backend Backend, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger, now: time.Now}
}

// LoadAnalysis runs the analyze flow for targetURL. The result carries
// either data or an error message, stamped with the time the load began.
func (s *Service) LoadAnalysis(ctx context.Context, targetURL string) model.AnalysisResult {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))
	result := model.AnalysisResult{URL: targetURL, Timestamp: s.now()}

	data, err := s.backend.Analyze(ctx, targetURL)
	if err != nil {
		logger.Error("analysis failed", "error", err, "kind", errs.KindOf(err).String())
		result.Error = errs.Message(err)
		return result
	}

	logger.Info("analysis complete",
		"title", data.PageTitle,
		"html_version", data.HTMLVersion,
		"has_login_form", data.HasLoginForm,
		"internal_links", data.Links.Internal,
		"external_links", data.Links.External,
		"inaccessible_links", data.Links.Inaccessible,
		"analysis_time_ms", data.AnalysisTimeMs,
	)
	result.Data = data
	return result
}

// LoadHealth fetches the backend status. The report always holds a
// renderable status; on failure it is the fallback and Error says why.
func (s *Service) LoadHealth(ctx context.Context) model.HealthReport {
	report := model.HealthReport{Timestamp: s.now()}

	status, err := s.backend.Health(ctx)
	report.Status = status
	if err != nil {
		s.logger.Warn("health check failed, using fallback data",
			"error", err,
			"request_id", requestid.FromContext(ctx),
		)
		if status.Status == "" {
			report.Status = model.FallbackHealth(report.Timestamp)
		}
		report.Error = errs.Message(err)
		report.Fallback = true
	}
	return report
}

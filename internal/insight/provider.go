package insight

import (
	"context"

	"github.com/Bahjat/page-insight-tool/web/internal/model"
)

// Backend is the contract the render pass needs from the remote data facade.
// *backend.Client implements it.
type Backend interface {
	Analyze(ctx context.Context, targetURL string) (*model.AnalysisData, error)
	Health(ctx context.Context) (model.HealthStatus, error)
}

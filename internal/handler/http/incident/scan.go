package incident

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"lima-segura/internal/handler/http/respond"
	"lima-segura/internal/observability/logging"
	incUC "lima-segura/internal/usecase/incident"
	"lima-segura/internal/usecase/scan"
)

// ErrScanInProgress is returned while another on-demand scan is running.
var ErrScanInProgress = errors.New("scan already in progress")

// Scanner runs one ingest cycle.
type Scanner interface {
	Run(ctx context.Context) (incUC.IngestResult, error)
}

// ScanResponse is the body of a successful POST /scans.
type ScanResponse struct {
	Found    int        `json:"found"`
	Inserted []DTO      `json:"inserted"`
	Total    int64      `json:"total"`
	Stats    scan.Stats `json:"stats"`
}

// ScanHandler serves POST /scans. At most one scan runs at a time; a
// concurrent request gets 409.
type ScanHandler struct {
	scanner Scanner
	mu      *sync.Mutex
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(scanner Scanner) ScanHandler {
	return ScanHandler{scanner: scanner, mu: &sync.Mutex{}}
}

func (h ScanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.mu.TryLock() {
		respond.JSON(w, http.StatusConflict, map[string]string{"error": ErrScanInProgress.Error()})
		return
	}
	defer h.mu.Unlock()

	logger := logging.FromContext(r.Context())
	logger.Info("on-demand scan started")

	res, err := h.scanner.Run(r.Context())
	if err != nil {
		logger.Error("on-demand scan failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, ScanResponse{
		Found:    res.Found,
		Inserted: toDTOs(res.Inserted),
		Total:    res.Total,
		Stats:    res.Stats,
	})
}

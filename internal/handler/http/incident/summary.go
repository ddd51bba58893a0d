package incident

import (
	"net/http"

	"lima-segura/internal/handler/http/respond"
	incUC "lima-segura/internal/usecase/incident"
)

// SummaryHandler serves GET /incidents/summary.
type SummaryHandler struct{ Svc *incUC.Service }

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Svc.Summary(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}

// DistrictsHandler serves GET /districts.
type DistrictsHandler struct{ Svc *incUC.Service }

func (h DistrictsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.Districts())
}

package incident

import (
	"net/http"

	"lima-segura/internal/common/pagination"
	incUC "lima-segura/internal/usecase/incident"
)

// Register wires the incident, district and scan routes into mux.
//
// POST /scans starts outbound requests to every source, so it is only
// registered behind guard. A nil scanner or a nil guard leaves it out.
func Register(mux *http.ServeMux, svc *incUC.Service, scanner Scanner, paginationCfg pagination.Config, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /incidents", ListHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET /incidents/summary", SummaryHandler{Svc: svc})
	mux.Handle("GET /incidents/{id}", GetHandler{Svc: svc})
	mux.Handle("GET /districts", DistrictsHandler{Svc: svc})
	if scanner != nil && guard != nil {
		mux.Handle("POST /scans", guard(NewScanHandler(scanner)))
	}
}

package incident

import (
	"errors"
	"net/http"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/handler/http/pathutil"
	"lima-segura/internal/handler/http/respond"
	incUC "lima-segura/internal/usecase/incident"
)

// GetHandler serves GET /incidents/{id}.
type GetHandler struct{ Svc *incUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err == nil {
		var inc *entity.Incident
		inc, err = h.Svc.Get(r.Context(), id)
		if err == nil {
			respond.JSON(w, http.StatusOK, toDTO(*inc))
			return
		}
	}

	switch {
	case errors.Is(err, pathutil.ErrInvalidID), errors.Is(err, incUC.ErrInvalidIncidentID):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, incUC.ErrIncidentNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

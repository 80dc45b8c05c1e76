package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AuditHandler interface {
	ListTrail(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

// ListTrail implements AuditHandler.
func (h *auditHandlerImpl) ListTrail(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrMissingActor)
		return
	}

	entityType := audit.EntityType(chi.URLParam(r, "entityType"))
	entityID := chi.URLParam(r, "entityID")

	entries, err := h.auditService.ListAuditTrail(r.Context(), actorID, entityType, entityID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

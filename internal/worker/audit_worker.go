package worker

import (
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// StartAuditWorker registers audit trail handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

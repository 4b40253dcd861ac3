package service

import "github.com/talentpulse/performance-api/internal/core/ports"

type nopAudit struct{}

func (nopAudit) Record(ports.AuditEvent) {}

func auditOrNop(a ports.AuditRecorder) ports.AuditRecorder {
	if a == nil {
		return nopAudit{}
	}
	return a
}

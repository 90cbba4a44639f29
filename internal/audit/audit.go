// Package audit keeps the append-only action trail, capped to the most
// recent entries.
package audit

import (
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// MaxEntries bounds the retained log; older entries fall off on write.
const MaxEntries = 500

type Recorder struct {
	Store *store.Store
	// Broadcast, when set, receives every new entry (the admin event feed).
	Broadcast func(models.AuditEntry)
}

// Log prepends a new entry so the freshest action is always first.
func (r *Recorder) Log(action string, user models.User, detail string) {
	entry := models.AuditEntry{
		ID:        utils.NewID("log"),
		Action:    action,
		UserID:    orSystem(user.ID),
		UserName:  orSystemName(user.Name),
		Role:      orSystem(user.Role),
		Detail:    detail,
		Timestamp: utils.NowISO(),
	}

	logs := store.Load[models.AuditEntry](r.Store, collections.AuditLogs)
	logs = append([]models.AuditEntry{entry}, logs...)
	if len(logs) > MaxEntries {
		logs = logs[:MaxEntries]
	}
	store.Save(r.Store, collections.AuditLogs, logs)

	if r.Broadcast != nil {
		r.Broadcast(entry)
	}
}

// Entries returns the retained log, freshest first.
func (r *Recorder) Entries() []models.AuditEntry {
	return store.Load[models.AuditEntry](r.Store, collections.AuditLogs)
}

func orSystem(v string) string {
	if v == "" {
		return "system"
	}
	return v
}

func orSystemName(v string) string {
	if v == "" {
		return "System"
	}
	return v
}

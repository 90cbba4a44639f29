// Package migrate runs the one-time structural migrations and default
// seeding against the local store, after hydration and before the push back
// to the mirror.
package migrate

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/config"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

type migration struct {
	version int
	name    string
	run     func(s *store.Store, cfg *config.Config)
}

// Each migration body executes at most once ever, gated by the version
// marker. Bodies must stay idempotent regardless: a crash between run and
// marker write means a re-run on next start.
var migrations = []migration{
	{version: 2, name: "drop legacy demo data", run: dropLegacyDemoData},
}

// Run applies every migration newer than the stored marker, in order.
func Run(s *store.Store, cfg *config.Config) {
	current := currentVersion(s)
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		m.run(s, cfg)
		s.Set(store.SchemaVersionKey, []byte(strconv.Itoa(m.version)))
		log.Printf("migrate: applied v%d (%s)", m.version, m.name)
	}
}

func currentVersion(s *store.Store) int {
	raw, ok := s.Get(store.SchemaVersionKey)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return v
}

var (
	legacyDemoEmails      = []string{"hod@dept.edu", "sharma@dept.edu", "meena@dept.edu"}
	legacyDemoUploaderIDs = []string{"faculty-001", "faculty-002", "student-001", "student-002"}
	legacyDemoNoticeIDs   = []string{"notice-001", "notice-002", "notice-003"}
)

// dropLegacyDemoData clears the demo accounts and their content that early
// deployments shipped with, and resets the admin account to the configured
// credentials.
func dropLegacyDemoData(s *store.Store, cfg *config.Config) {
	users := store.Load[models.User](s, collections.Users)
	cleaned := users[:0]
	for _, u := range users {
		if !contains(legacyDemoEmails, u.Email) {
			cleaned = append(cleaned, u)
		}
	}
	for i := range cleaned {
		if cleaned[i].Role == models.RoleAdmin {
			cleaned[i].Name = cfg.AdminName
			cleaned[i].Email = cfg.AdminEmail
			cleaned[i].Password = hashOrPlain(cfg.AdminPassword)
			cleaned[i].Avatar = utils.AvatarInitials(cfg.AdminName)
			break
		}
	}
	store.Save(s, collections.Users, cleaned)

	files := store.Load[models.File](s, collections.Files)
	keptFiles := files[:0]
	for _, f := range files {
		if !contains(legacyDemoUploaderIDs, f.UploaderID) {
			keptFiles = append(keptFiles, f)
		}
	}
	store.Save(s, collections.Files, keptFiles)

	notices := store.Load[models.Notice](s, collections.Notices)
	keptNotices := notices[:0]
	for _, n := range notices {
		if !contains(legacyDemoNoticeIDs, n.ID) {
			keptNotices = append(keptNotices, n)
		}
	}
	store.Save(s, collections.Notices, keptNotices)
}

// Seed guarantees the baseline state every deployment needs: exactly one
// admin account, default program/section for students that predate those
// fields, and an empty list under every declared collection key.
func Seed(s *store.Store, cfg *config.Config) {
	users := store.Load[models.User](s, collections.Users)

	hasAdmin := false
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		users = append(users, models.User{
			ID:       "admin-001",
			Role:     models.RoleAdmin,
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: hashOrPlain(cfg.AdminPassword),
			Avatar:   utils.AvatarInitials(cfg.AdminName),
		})
		log.Println("migrate: seeded initial admin:", cfg.AdminEmail)
	}

	changed := !hasAdmin
	for i := range users {
		if users[i].Role == models.RoleStudent && users[i].Program == "" {
			users[i].Program = "BCA"
			users[i].Section = "A"
			changed = true
		}
	}
	if changed {
		store.Save(s, collections.Users, users)
	}

	for _, key := range collections.Keys() {
		if _, ok := s.Get(key); !ok {
			s.Set(key, json.RawMessage("[]"))
		}
	}
}

func hashOrPlain(password string) string {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return password
	}
	return hashed
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

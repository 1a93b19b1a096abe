package services

import (
	"fmt"
	"sync"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
)

// Defaults used when the review_settings row has not been seeded yet.
const (
	defaultMinimumReviewers     = 2
	defaultReviewDeadlineDays   = 21
	defaultRevisionDeadlineDays = 30
)

var (
	settingsCacheMu sync.RWMutex
	settingsCache   *settingsCacheEntry
	settingsTTL     = 5 * time.Minute
)

type settingsCacheEntry struct {
	settings  models.ReviewSettings
	fetchedAt time.Time
}

func loadSettings(db *gorm.DB, force bool) (*settingsCacheEntry, error) {
	settingsCacheMu.RLock()
	cached := settingsCache
	settingsCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < settingsTTL {
		return cached, nil
	}

	settingsCacheMu.Lock()
	defer settingsCacheMu.Unlock()

	if settingsCache != nil && !force && time.Since(settingsCache.fetchedAt) < settingsTTL {
		return settingsCache, nil
	}

	var row models.ReviewSettings
	err := db.Order("settings_id ASC").First(&row).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		row = defaultReviewSettings()
	case err != nil:
		return nil, fmt.Errorf("failed to load review settings: %w", err)
	}

	entry := &settingsCacheEntry{settings: row, fetchedAt: time.Now()}
	settingsCache = entry
	return entry, nil
}

func defaultReviewSettings() models.ReviewSettings {
	settings := models.ReviewSettings{
		MinimumReviewers:     defaultMinimumReviewers,
		ReviewDeadlineDays:   defaultReviewDeadlineDays,
		RevisionDeadlineDays: defaultRevisionDeadlineDays,
	}
	// Double blind is the safe default for a journal that has not configured
	// its process yet.
	_ = ApplyBlindMode(&settings, models.BlindModeDouble)
	return settings
}

// ClearSettingsCache invalidates the in-memory settings cache.
func ClearSettingsCache() {
	settingsCacheMu.Lock()
	defer settingsCacheMu.Unlock()
	settingsCache = nil
}

// GetReviewSettings returns the active review configuration with caching.
func GetReviewSettings(db *gorm.DB) (models.ReviewSettings, error) {
	if db == nil {
		db = config.DB
	}
	entry, err := loadSettings(db, false)
	if err != nil {
		return models.ReviewSettings{}, err
	}
	return entry.settings, nil
}

// ReviewSettingsUpdate carries the mutable settings fields. The visibility
// booleans are absent on purpose: they are derived from the mode and cannot
// be set directly.
type ReviewSettingsUpdate struct {
	BlindReviewMode      *string `json:"blind_review_mode"`
	MinimumReviewers     *int    `json:"minimum_reviewers"`
	ReviewDeadlineDays   *int    `json:"review_deadline_days"`
	RevisionDeadlineDays *int    `json:"revision_deadline_days"`
	AutoAssignReviewers  *bool   `json:"auto_assign_reviewers"`
}

// UpdateReviewSettings applies the update to the singleton settings row.
// Changing the blind mode always rewrites both visibility flags through the
// derivation table.
func UpdateReviewSettings(db *gorm.DB, update ReviewSettingsUpdate) (models.ReviewSettings, error) {
	if db == nil {
		db = config.DB
	}

	var settings models.ReviewSettings
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Order("settings_id ASC").First(&settings).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			settings = defaultReviewSettings()
		case err != nil:
			return err
		}

		if update.BlindReviewMode != nil {
			if err := ApplyBlindMode(&settings, *update.BlindReviewMode); err != nil {
				return err
			}
		}
		if update.MinimumReviewers != nil {
			if *update.MinimumReviewers < 1 {
				return NewValidationError("minimum_reviewers", "must be at least 1")
			}
			settings.MinimumReviewers = *update.MinimumReviewers
		}
		if update.ReviewDeadlineDays != nil {
			if *update.ReviewDeadlineDays < 1 {
				return NewValidationError("review_deadline_days", "must be at least 1")
			}
			settings.ReviewDeadlineDays = *update.ReviewDeadlineDays
		}
		if update.RevisionDeadlineDays != nil {
			if *update.RevisionDeadlineDays < 1 {
				return NewValidationError("revision_deadline_days", "must be at least 1")
			}
			settings.RevisionDeadlineDays = *update.RevisionDeadlineDays
		}
		if update.AutoAssignReviewers != nil {
			settings.AutoAssignReviewers = *update.AutoAssignReviewers
		}

		settings.UpdatedAt = time.Now()
		return tx.Save(&settings).Error
	})
	if err != nil {
		return models.ReviewSettings{}, err
	}

	ClearSettingsCache()
	return settings, nil
}

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teachtimer/internal/core/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const settingsRowID = 1

type presetRecord struct {
	ID              string `gorm:"primarykey;size:64"`
	Position        int    `gorm:"index;not null"`
	Name            string `gorm:"size:40;not null"`
	DurationSeconds int    `gorm:"not null"`
	SortOrder       int    `gorm:"not null"`
	CreatedOn       string `gorm:"size:40;not null"`
	UpdatedOn       string `gorm:"size:40;not null"`
}

// TableName specifies the table name for GORM
func (presetRecord) TableName() string {
	return "presets"
}

type settingsRecord struct {
	ID                  uint    `gorm:"primarykey"`
	Version             int     `gorm:"not null"`
	Theme               string  `gorm:"size:20;not null"`
	Sound               string  `gorm:"size:20;not null"`
	Volume              float64 `gorm:"not null"`
	FinalMinuteWarnings bool
	AutoFullscreen      bool
	LargeFont           bool
}

// TableName specifies the table name for GORM
func (settingsRecord) TableName() string {
	return "settings"
}

// SQLiteStore keeps the snapshot in a SQLite database through GORM.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path with the pure Go driver.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
	}

	gormLog := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	if err := configureSQLite(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	if err := db.AutoMigrate(&presetRecord{}, &settingsRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}

	slog.Debug("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	// A single connection keeps ":memory:" databases shared across calls.
	sqlDB.SetMaxOpenConns(1)
	pragmaSettings := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmaSettings {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the snapshot. An empty database yields defaults.
func (store *SQLiteStore) Load() (model.Snapshot, error) {
	defaults := model.DefaultSnapshot(store.now())

	var settings settingsRecord
	if err := store.db.First(&settings, settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("query settings: %w", err)
	}

	var records []presetRecord
	if err := store.db.Order("position").Find(&records).Error; err != nil {
		return defaults, fmt.Errorf("query presets: %w", err)
	}

	snapshot := model.Snapshot{
		Version: settings.Version,
		Settings: model.Settings{
			Theme:               model.ThemeMode(settings.Theme),
			Sound:               model.SoundMode(settings.Sound),
			Volume:              settings.Volume,
			FinalMinuteWarnings: settings.FinalMinuteWarnings,
			AutoFullscreen:      settings.AutoFullscreen,
			LargeFont:           settings.LargeFont,
		},
	}

	var errs []error
	for index, record := range records {
		createdAt, err := parseTimestamp(record.CreatedOn)
		if err != nil {
			errs = append(errs, fmt.Errorf("presets[%d].created_at: %w", index, err))
		}
		updatedAt, err := parseTimestamp(record.UpdatedOn)
		if err != nil {
			errs = append(errs, fmt.Errorf("presets[%d].updated_at: %w", index, err))
		}
		snapshot.Presets = append(snapshot.Presets, model.Preset{
			ID:              record.ID,
			Name:            record.Name,
			DurationSeconds: record.DurationSeconds,
			SortOrder:       record.SortOrder,
			CreatedAt:       createdAt,
			UpdatedAt:       updatedAt,
		})
	}
	if len(errs) > 0 {
		return defaults, fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, errors.Join(errs...))
	}

	if err := snapshot.Validate(); err != nil {
		return defaults, err
	}
	return snapshot, nil
}

// Save validates and replaces the stored snapshot in one transaction.
func (store *SQLiteStore) Save(snapshot model.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	records := make([]presetRecord, 0, len(snapshot.Presets))
	for index, preset := range snapshot.Presets {
		records = append(records, presetRecord{
			ID:              preset.ID,
			Position:        index,
			Name:            preset.Name,
			DurationSeconds: preset.DurationSeconds,
			SortOrder:       preset.SortOrder,
			CreatedOn:       formatTimestamp(preset.CreatedAt),
			UpdatedOn:       formatTimestamp(preset.UpdatedAt),
		})
	}

	settings := snapshot.Settings
	settingsRow := settingsRecord{
		ID:                  settingsRowID,
		Version:             snapshot.Version,
		Theme:               string(settings.Theme),
		Sound:               string(settings.Sound),
		Volume:              settings.Volume,
		FinalMinuteWarnings: settings.FinalMinuteWarnings,
		AutoFullscreen:      settings.AutoFullscreen,
		LargeFont:           settings.LargeFont,
	}

	err := store.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&presetRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&records).Error; err != nil {
			return err
		}
		return tx.Save(&settingsRow).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (store *SQLiteStore) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package catalog manages the device template store.
// It initializes GORM with SQLite (in memory by default) and seeds it with
// the product line-up, either built in or loaded from a catalog file.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vesaa/storagepulse/internal/models"
)

// ErrNotFound is returned when no template has the requested id.
var ErrNotFound = errors.New("device template not found")

// Store is a read-mostly catalog of device templates.
type Store struct {
	db *gorm.DB
}

// Open creates the catalog at dsn, runs AutoMigrate and seeds it. When file
// is non-empty its templates replace the built-in ones.
func Open(dsn, file string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("catalog pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.DeviceTemplate{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	templates := DefaultTemplates()
	if file != "" {
		templates, err = LoadFile(file)
		if err != nil {
			return nil, err
		}
	}

	s := &Store{db: db}
	if err := s.Seed(context.Background(), templates); err != nil {
		return nil, err
	}
	log.Info().Str("dsn", dsn).Int("templates", len(templates)).Msg("catalog ready")
	return s, nil
}

// Seed replaces every stored template with templates.
func (s *Store) Seed(ctx context.Context, templates []models.DeviceTemplate) error {
	if err := validate(templates); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.DeviceTemplate{}).Error; err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
		if len(templates) == 0 {
			return nil
		}
		if err := tx.Create(&templates).Error; err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		return nil
	})
}

// List returns all templates ordered by id.
func (s *Store) List(ctx context.Context) ([]models.DeviceTemplate, error) {
	var out []models.DeviceTemplate
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return out, nil
}

// Get returns the template with the given id.
func (s *Store) Get(ctx context.Context, id uint) (*models.DeviceTemplate, error) {
	var t models.DeviceTemplate
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading template %d: %w", id, err)
	}
	return &t, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadFile reads templates from a yaml or json file with a top-level
// "devices" list.
func LoadFile(path string) ([]models.DeviceTemplate, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file struct {
		Devices []models.DeviceTemplate `mapstructure:"devices"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decoding catalog file: %w", err)
	}
	if len(file.Devices) == 0 {
		return nil, fmt.Errorf("catalog file %s lists no devices", path)
	}
	return file.Devices, nil
}

func validate(templates []models.DeviceTemplate) error {
	seen := make(map[uint]bool, len(templates))
	for _, t := range templates {
		if t.ID == 0 {
			return fmt.Errorf("template %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate template id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

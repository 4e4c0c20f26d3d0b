// Package storage keeps profiles and connection records in a relational database through GORM.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spigell/collab-matcher/internal/profile"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	sqliteBusyTimeout = "_busy_timeout=5000"
)

// Store is the profile store backed by SQLite or MySQL.
type Store struct {
	db *gorm.DB
}

// Open connects to the database and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		if dir := filepath.Dir(sqlitePath(dsn)); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dialector = sqlite.Open(withBusyTimeout(dsn))
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}

	if dialector.Name() == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql DB: %w", err)
		}
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&profileRow{}, &connectionRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	return path
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteBusyTimeout
	}
	return dsn + "?" + sqliteBusyTimeout
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func preloadConnections(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// GetByID returns the profile with its connection records.
func (s *Store) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).
		Preload("Connections", preloadConnections).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile %s: %w", id, profile.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return row.toProfile(), nil
}

// Query returns matching profiles in a stable order: creation time, then ID.
func (s *Store) Query(ctx context.Context, q profile.Query) ([]*profile.Profile, error) {
	db := s.db.WithContext(ctx).
		Preload("Connections", preloadConnections).
		Order("created_at ASC").
		Order("id ASC")

	if len(q.IDs) > 0 {
		db = db.Where("id IN ?", q.IDs)
	}
	if len(q.ExcludeIDs) > 0 {
		db = db.Where("id NOT IN ?", q.ExcludeIDs)
	}
	if industry := strings.TrimSpace(q.Industry); industry != "" {
		db = db.Where("LOWER(industry) = ?", strings.ToLower(industry))
	}

	var rows []profileRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	profiles := make([]*profile.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toProfile())
	}
	return profiles, nil
}

// Save inserts or updates a profile. Connection records are managed separately.
func (s *Store) Save(ctx context.Context, p *profile.Profile) error {
	return s.SaveAll(ctx, []*profile.Profile{p})
}

// SaveAll upserts profiles in a single transaction.
func (s *Store) SaveAll(ctx context.Context, profiles []*profile.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	rows := make([]profileRow, 0, len(profiles))
	for _, p := range profiles {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			return errors.New("profile id is required")
		}
		rows = append(rows, toRow(p))
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	// The upsert keeps created_at of existing rows, so timestamps are read back.
	var stamps []profileRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(profileColumns),
		}).Create(&rows).Error
		if err != nil {
			return err
		}
		return tx.Select("id", "created_at", "updated_at").Where("id IN ?", ids).Find(&stamps).Error
	})
	if err != nil {
		return fmt.Errorf("upsert profiles: %w", err)
	}

	byID := make(map[string]profileRow, len(stamps))
	for _, st := range stamps {
		byID[st.ID] = st
	}
	for _, p := range profiles {
		if st, ok := byID[p.ID]; ok {
			p.CreatedAt = st.CreatedAt
			p.UpdatedAt = st.UpdatedAt
		}
	}
	return nil
}

// Delete removes a profile and the connection records it owns.
// Records held by its peers are left in place.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&connectionRow{}).Error; err != nil {
			return fmt.Errorf("delete connections: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&profileRow{})
		if res.Error != nil {
			return fmt.Errorf("delete profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("profile %s: %w", id, profile.ErrNotFound)
		}
		return nil
	})
}

// PairUpdate receives both sides of a pair, nil when absent, and returns the records to write.
type PairUpdate func(own, mirror *profile.ConnectionRecord) ([]profile.ConnectionRecord, error)

// UpdatePair reads ownerID's and peerID's records about each other and writes
// the records returned by fn, all inside one transaction.
func (s *Store) UpdatePair(ctx context.Context, ownerID, peerID string, fn PairUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		read := tx
		if tx.Dialector.Name() == DriverMySQL {
			read = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var rows []connectionRow
		err := read.
			Where("(owner_id = ? AND peer_id = ?) OR (owner_id = ? AND peer_id = ?)", ownerID, peerID, peerID, ownerID).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("read connection pair: %w", err)
		}

		var own, mirror *profile.ConnectionRecord
		for _, row := range rows {
			rec := row.toRecord()
			if row.OwnerID == ownerID {
				own = &rec
			} else {
				mirror = &rec
			}
		}

		records, err := fn(own, mirror)
		if err != nil {
			return err
		}
		return saveConnections(tx, records)
	})
}

func saveConnections(tx *gorm.DB, records []profile.ConnectionRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]connectionRow, 0, len(records))
	now := time.Now().UTC()
	for _, r := range records {
		row := toConnectionRow(r)
		row.UpdatedAt = now
		rows = append(rows, row)
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "peer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "initiated_by", "connected_at", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert connections: %w", err)
	}
	return nil
}

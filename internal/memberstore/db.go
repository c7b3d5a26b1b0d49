package memberstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/model"
)

// memberRecord is the persisted form of one declared member. Name is the
// member's globally unique fragment name, which makes re-declaration an
// upsert rather than a duplicate row.
type memberRecord struct {
	gorm.Model

	Name          string `gorm:"uniqueIndex;not null"`
	Section       string `gorm:"index;not null"`
	MemberName    string `gorm:"not null"`
	Instance      string
	ServerNames   datatypes.JSONSlice[string]
	Addresses     datatypes.JSONSlice[string]
	Port          string
	Options       datatypes.JSONSlice[string]
	DefaultsGroup string
	TargetFile    string
	RunID         string
}

// dbStore implements Store on a gorm connection.
type dbStore struct {
	db *gorm.DB
}

// Open connects to the member store described by dsn and migrates its
// schema. A PostgreSQL DSN connects to PostgreSQL; anything else is
// treated as the path of an embedded SQLite database file, opened in WAL
// mode so declaring hosts on one machine do not lock each other out.
func Open(ctx context.Context, dsn string) (Store, error) {
	logger := ctxlog.FromContext(ctx)

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		logger.Debug("Opening PostgreSQL member store.")
		dialector = postgres.Open(dsn)
	} else {
		logger.Debug("Opening embedded SQLite member store.", "path", dsn)
		dialector = sqlite.Open(fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dsn))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to member store: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&memberRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate member store schema: %w", err)
	}
	return &dbStore{db: db}, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Declare upserts the member keyed by its fragment name.
func (s *dbStore) Declare(ctx context.Context, runID string, m *model.Member) error {
	rec := recordFromMember(m, runID)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to declare member %q: %w", rec.Name, err)
	}
	return nil
}

// CollectFor returns the members declared for section, ordered by
// fragment name.
func (s *dbStore) CollectFor(ctx context.Context, section string) ([]*model.Member, error) {
	var recs []memberRecord
	err := s.db.WithContext(ctx).
		Where("section = ?", section).
		Order("name ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect members for section %q: %w", section, err)
	}
	return membersFromRecords(recs), nil
}

// All returns every declared member, ordered by fragment name.
func (s *dbStore) All(ctx context.Context) ([]*model.Member, error) {
	var recs []memberRecord
	err := s.db.WithContext(ctx).Order("name ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list declared members: %w", err)
	}
	return membersFromRecords(recs), nil
}

func (s *dbStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func recordFromMember(m *model.Member, runID string) memberRecord {
	return memberRecord{
		Name:          m.FragmentName(),
		Section:       m.Section,
		MemberName:    m.Name,
		Instance:      m.Instance,
		ServerNames:   datatypes.NewJSONSlice(m.ServerNames),
		Addresses:     datatypes.NewJSONSlice(m.Addresses),
		Port:          m.Port,
		Options:       datatypes.NewJSONSlice(m.Options),
		DefaultsGroup: m.DefaultsGroup,
		TargetFile:    m.TargetFile,
		RunID:         runID,
	}
}

func membersFromRecords(recs []memberRecord) []*model.Member {
	members := make([]*model.Member, 0, len(recs))
	for _, rec := range recs {
		members = append(members, &model.Member{
			Section:       rec.Section,
			Name:          rec.MemberName,
			ServerNames:   rec.ServerNames,
			Addresses:     rec.Addresses,
			Port:          rec.Port,
			Options:       rec.Options,
			DefaultsGroup: rec.DefaultsGroup,
			Instance:      rec.Instance,
			TargetFile:    rec.TargetFile,
		})
	}
	return members
}

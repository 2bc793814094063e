package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the postgres EventJournal. Rows are keyed by sequence so the
// journal is the election's event log, verbatim.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the journal table when it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&eventModel{}); err != nil {
		return r.logError("election_repo_migrate_failed", err)
	}
	return nil
}

// AppendEvents stores items in order. Each sequence must either name an event
// already stored with the same id or extend the journal by exactly one.
func (r *Repository) AppendEvents(ctx context.Context, items []ports.EventEnvelope) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last uint64
		if err := tx.Model(&eventModel{}).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			if isUndefinedTable(err) {
				return r.logError("election_repo_append_tail_failed", domainerrors.ErrJournalUnavailable)
			}
			return r.logError("election_repo_append_tail_failed", err)
		}

		for _, item := range items {
			stored, err := checkAppendSequence(last, item.Sequence)
			if err != nil {
				return r.logError("election_repo_append_sequence_rejected", err,
					"sequence", item.Sequence,
					"last_sequence", last,
				)
			}
			row := eventModelFromEnvelope(item)
			if stored {
				var existing eventModel
				if err := tx.Select("event_id").
					Where("sequence = ?", row.Sequence).
					First(&existing).Error; err != nil {
					return r.logError("election_repo_append_event_load_existing_failed", err,
						"sequence", item.Sequence,
					)
				}
				if existing.EventID != row.EventID {
					return domainerrors.ErrConflict
				}
				continue
			}

			create := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "sequence"}},
				DoNothing: true,
			}).Create(&row)
			if create.Error != nil {
				if isUniqueViolation(create.Error) {
					return domainerrors.ErrConflict
				}
				return r.logError("election_repo_append_event_failed", create.Error,
					"sequence", item.Sequence,
					"event_id", strings.TrimSpace(item.EventID),
				)
			}
			if create.RowsAffected == 0 {
				// Another writer took the sequence since the tail was read.
				return domainerrors.ErrConflict
			}
			last = item.Sequence
		}
		return nil
	})
}

func (r *Repository) LoadEvents(ctx context.Context, afterSequence uint64) ([]ports.EventEnvelope, error) {
	var rows []eventModel
	err := r.db.WithContext(ctx).
		Where("sequence > ?", afterSequence).
		Order("sequence ASC").
		Find(&rows).
		Error
	if err != nil {
		if isUndefinedTable(err) {
			return nil, domainerrors.ErrJournalUnavailable
		}
		return nil, r.logError("election_repo_load_events_failed", err,
			"after_sequence", afterSequence,
		)
	}
	items := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEnvelope())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

type eventModel struct {
	Sequence         uint64    `gorm:"column:sequence;primaryKey;autoIncrement:false"`
	EventID          string    `gorm:"column:event_id;uniqueIndex"`
	EventType        string    `gorm:"column:event_type"`
	SourceService    string    `gorm:"column:source_service"`
	SchemaVersion    int       `gorm:"column:schema_version"`
	PartitionKeyPath string    `gorm:"column:partition_key_path"`
	PartitionKey     string    `gorm:"column:partition_key"`
	Payload          []byte    `gorm:"column:payload"`
	OccurredAt       time.Time `gorm:"column:occurred_at"`
	RecordedAt       time.Time `gorm:"column:recorded_at"`
}

func (eventModel) TableName() string {
	return "election_events"
}

func eventModelFromEnvelope(envelope ports.EventEnvelope) eventModel {
	row := eventModel{
		Sequence:         envelope.Sequence,
		EventID:          strings.TrimSpace(envelope.EventID),
		EventType:        strings.TrimSpace(envelope.EventType),
		SourceService:    strings.TrimSpace(envelope.SourceService),
		SchemaVersion:    envelope.SchemaVersion,
		PartitionKeyPath: strings.TrimSpace(envelope.PartitionKeyPath),
		PartitionKey:     strings.TrimSpace(envelope.PartitionKey),
		Payload:          append([]byte(nil), envelope.Data...),
		OccurredAt:       envelope.OccurredAt.UTC(),
		RecordedAt:       time.Now().UTC(),
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = row.RecordedAt
	}
	return row
}

func (m eventModel) toEnvelope() ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:          m.EventID,
		EventType:        m.EventType,
		OccurredAt:       m.OccurredAt.UTC(),
		SourceService:    m.SourceService,
		TraceID:          m.EventID,
		SchemaVersion:    m.SchemaVersion,
		Sequence:         m.Sequence,
		PartitionKeyPath: m.PartitionKeyPath,
		PartitionKey:     m.PartitionKey,
		Data:             append([]byte(nil), m.Payload...),
	}
}

// checkAppendSequence reports whether sequence names an already stored event
// (stored) or the next free slot after last. Zero and gaps are conflicts.
func checkAppendSequence(last uint64, sequence uint64) (stored bool, err error) {
	switch {
	case sequence == 0:
		return false, domainerrors.ErrConflict
	case sequence <= last:
		return true, nil
	case sequence == last+1:
		return false, nil
	default:
		return false, domainerrors.ErrConflict
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

var _ ports.EventJournal = (*Repository)(nil)

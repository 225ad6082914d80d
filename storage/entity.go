// Package storage persists glossary entries and lint reports in NATS KV.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/lint"
)

// EntityType represents the type of entity stored in KV.
type EntityType string

const (
	EntityTypeEntry  EntityType = "entry"
	EntityTypeReport EntityType = "report"
)

// Bucket names for each entity type.
const (
	BucketEntries = "TYPETERMS_ENTRIES"
	BucketReports = "TYPETERMS_REPORTS"
)

// latestReportKey points at the most recent lint report.
const latestReportKey = "latest"

// EntityID represents a typed entity identifier.
type EntityID struct {
	Type EntityType
	ID   string
}

// String returns the string representation of the entity ID.
func (e EntityID) String() string {
	return fmt.Sprintf("%s:%s", e.Type, e.ID)
}

// ParseEntityID parses an entity ID string into its components.
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return EntityID{}, fmt.Errorf("invalid entity ID format: %s", s)
	}
	entityType := EntityType(parts[0])
	switch entityType {
	case EntityTypeEntry, EntityTypeReport:
		return EntityID{Type: entityType, ID: parts[1]}, nil
	default:
		return EntityID{}, fmt.Errorf("unknown entity type: %s", parts[0])
	}
}

// NewEntityID generates a new unique entity ID for the given type.
func NewEntityID(t EntityType) EntityID {
	return EntityID{
		Type: t,
		ID:   uuid.New().String(),
	}
}

// StoredEntry wraps a glossary entry with storage metadata.
// Entries are keyed by their anchor, so publishing the same term twice
// overwrites rather than duplicates.
type StoredEntry struct {
	Anchor    string         `json:"anchor"`
	Entry     glossary.Entry `json:"entry"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store provides entity storage operations backed by NATS KV.
type Store struct {
	entries jetstream.KeyValue
	reports jetstream.KeyValue
}

// NewStore creates a new Store with the given JetStream context.
// It creates the necessary KV buckets if they don't exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	entries, err := getOrCreateBucket(ctx, js, BucketEntries)
	if err != nil {
		return nil, fmt.Errorf("create entries bucket: %w", err)
	}

	reports, err := getOrCreateBucket(ctx, js, BucketReports)
	if err != nil {
		return nil, fmt.Errorf("create reports bucket: %w", err)
	}

	return &Store{
		entries: entries,
		reports: reports,
	}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Typeterms %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

// PutEntry stores a glossary entry keyed by its anchor. Existing entries
// with the same anchor are overwritten.
func (s *Store) PutEntry(ctx context.Context, e *glossary.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validate entry: %w", err)
	}

	stored := StoredEntry{
		Anchor:    e.Anchor(),
		Entry:     *e,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	if _, err := s.entries.Put(ctx, stored.Anchor, data); err != nil {
		return "", fmt.Errorf("store entry: %w", err)
	}

	return stored.Anchor, nil
}

// GetEntry retrieves a glossary entry by its anchor.
func (s *Store) GetEntry(ctx context.Context, anchor string) (*glossary.Entry, error) {
	kve, err := s.entries.Get(ctx, anchor)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	var stored StoredEntry
	if err := json.Unmarshal(kve.Value(), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}

	return &stored.Entry, nil
}

// ListEntries returns all stored glossary entries.
func (s *Store) ListEntries(ctx context.Context) ([]*glossary.Entry, error) {
	keys, err := s.entries.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list entry keys: %w", err)
	}

	result := make([]*glossary.Entry, 0, len(keys))
	for _, key := range keys {
		kve, err := s.entries.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var stored StoredEntry
		if err := json.Unmarshal(kve.Value(), &stored); err != nil {
			continue
		}
		e := stored.Entry
		result = append(result, &e)
	}

	return result, nil
}

// DeleteEntry removes a glossary entry by its anchor.
func (s *Store) DeleteEntry(ctx context.Context, anchor string) error {
	if err := s.entries.Delete(ctx, anchor); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// SaveReport persists a lint report and marks it as the latest run.
func (s *Store) SaveReport(ctx context.Context, r *lint.Report) (EntityID, error) {
	if r.ID == "" {
		return EntityID{}, fmt.Errorf("report has no ID")
	}
	id := EntityID{Type: EntityTypeReport, ID: r.ID}

	data, err := json.Marshal(r)
	if err != nil {
		return EntityID{}, fmt.Errorf("marshal report: %w", err)
	}

	if _, err := s.reports.Create(ctx, id.ID, data); err != nil {
		return EntityID{}, fmt.Errorf("store report: %w", err)
	}
	if _, err := s.reports.Put(ctx, latestReportKey, data); err != nil {
		return EntityID{}, fmt.Errorf("update latest report: %w", err)
	}

	return id, nil
}

// GetReport retrieves a lint report by ID.
func (s *Store) GetReport(ctx context.Context, id EntityID) (*lint.Report, error) {
	if id.Type != EntityTypeReport {
		return nil, fmt.Errorf("invalid entity type: expected report, got %s", id.Type)
	}

	kve, err := s.reports.Get(ctx, id.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	var r lint.Report
	if err := json.Unmarshal(kve.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}

	return &r, nil
}

// LatestReport retrieves the most recently saved lint report.
func (s *Store) LatestReport(ctx context.Context) (*lint.Report, error) {
	kve, err := s.reports.Get(ctx, latestReportKey)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest report: %w", err)
	}

	var r lint.Report
	if err := json.Unmarshal(kve.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}

	return &r, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}

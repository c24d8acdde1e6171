// Package store keeps a catalog of explored Rauzy classes.
//
// A [Class] summarises one exploration: its representative, size, kind,
// the stratum of the surface (of the orientation cover for flipped
// classes) and a JSON snapshot of the full diagram, so a class can be
// reloaded without exploring again.
//
// [MongoStore] persists the catalog in MongoDB; [MemoryStore] keeps it in
// process for the CLI and tests.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/rauzy/pkg/errors"
	rio "github.com/matzehuels/rauzy/pkg/io"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

// Class is one catalog entry. Key is the smallest canonical key of the
// minimal component, so every seed of a class yields the same key.
type Class struct {
	Key        string    `bson:"_id" json:"key"`
	RunID      string    `bson:"run_id" json:"run_id"`
	Size       int       `bson:"size" json:"size"`
	Kind       string    `bson:"kind" json:"kind"`
	Nodes      int       `bson:"nodes" json:"nodes"`
	Edges      int       `bson:"edges" json:"edges"`
	Components int       `bson:"components" json:"components"`
	Genus      int       `bson:"genus" json:"genus"`
	Stratum    string    `bson:"stratum" json:"stratum"`
	Seeds      []string  `bson:"seeds" json:"seeds"`
	Snapshot   []byte    `bson:"snapshot" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Diagram decodes the stored snapshot.
func (c *Class) Diagram() (*rauzy.Diagram, error) {
	return rio.UnmarshalDiagram(c.Snapshot)
}

// ClassFromDiagram summarises d as a catalog entry.
func ClassFromDiagram(d *rauzy.Diagram, runID string) (Class, error) {
	mc, err := d.MinimalComponent()
	if err != nil {
		return Class{}, err
	}
	snap, err := rio.MarshalDiagram(d)
	if err != nil {
		return Class{}, err
	}
	st := d.Stats()
	kind := "orientable"
	if !d.IsOrientable() {
		kind = "flipped"
	}
	return Class{
		Key:        slices.Min(mc.Keys),
		RunID:      runID,
		Size:       mc.Representative.Len(),
		Kind:       kind,
		Nodes:      st.Nodes,
		Edges:      st.Edges,
		Components: len(d.Components()),
		Genus:      mc.Cover.Genus,
		Stratum:    mc.Cover.Stratum,
		Seeds:      d.Seeds(),
		Snapshot:   snap,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Store is a class catalog backend.
type Store interface {
	// SaveClass inserts or replaces the class with the same key.
	SaveClass(ctx context.Context, c Class) error
	// LoadClass returns the class with the given key, or NOT_FOUND.
	LoadClass(ctx context.Context, key string) (*Class, error)
	// ListClasses returns the classes over size labels, or all classes
	// when size is zero, ordered by key. Snapshots are omitted.
	ListClasses(ctx context.Context, size int) ([]Class, error)
	// Close releases the backend.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	classes map[string]Class
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{classes: make(map[string]Class)}
}

func (s *MemoryStore) SaveClass(ctx context.Context, c Class) error {
	if c.Key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "class without key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[c.Key] = c
	return nil
}

func (s *MemoryStore) LoadClass(ctx context.Context, key string) (*Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "class %q not found", key)
	}
	return &c, nil
}

func (s *MemoryStore) ListClasses(ctx context.Context, size int) ([]Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Class
	for _, c := range s.classes {
		if size == 0 || c.Size == size {
			c.Snapshot = nil
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b Class) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)

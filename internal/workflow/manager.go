package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/praxislabs/sdlcwiz/internal/config"
	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/generator"
)

// Manager owns the live machines of this process and serializes all calls
// into each instance. Instances not in memory are restored from the store
// on demand.
type Manager struct {
	cfg   config.Config
	def   Definition
	gens  []generator.Generator
	store *db.Store

	mu       sync.Mutex
	machines map[string]*Machine
	locks    map[string]*sync.Mutex
}

func NewManager(cfg config.Config, def Definition, gens []generator.Generator, store *db.Store) *Manager {
	return &Manager{
		cfg:      cfg,
		def:      def,
		gens:     gens,
		store:    store,
		machines: make(map[string]*Machine),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Start creates a new instance and advances it until it suspends,
// completes, or fails.
func (mg *Manager) Start(ctx context.Context, requirements string) (*Instance, error) {
	m, err := NewMachine(mg.cfg, mg.def, mg.gens, mg.store)
	if err != nil {
		return nil, err
	}
	inst, err := m.Start(ctx, requirements)
	if inst != nil {
		mg.mu.Lock()
		mg.machines[inst.ID] = m
		mg.locks[inst.ID] = &sync.Mutex{}
		mg.mu.Unlock()
	}
	return inst, err
}

// Resume delivers a human decision to an instance, loading it from the
// store if it is not live in this process.
func (mg *Manager) Resume(ctx context.Context, id string, approve bool, feedback string) (*Instance, error) {
	m, lock, err := mg.machine(ctx, id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()
	if err := m.Resume(ctx, approve, feedback); err != nil {
		return m.Instance(), err
	}
	return m.Instance(), nil
}

// Abandon cancels a run at its current suspension point.
func (mg *Manager) Abandon(ctx context.Context, id string) error {
	m, lock, err := mg.machine(ctx, id)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()
	return m.Abandon(ctx)
}

// Snapshot returns the read model for an instance.
func (mg *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	m, lock, err := mg.machine(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	lock.Lock()
	defer lock.Unlock()
	return m.Snapshot(), nil
}

// List returns the stored workflow index.
func (mg *Manager) List(ctx context.Context) ([]db.RunInfo, error) {
	if mg.store == nil {
		return nil, fmt.Errorf("no store configured")
	}
	return mg.store.ListRuns(ctx)
}

func (mg *Manager) machine(ctx context.Context, id string) (*Machine, *sync.Mutex, error) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if m, ok := mg.machines[id]; ok {
		return m, mg.locks[id], nil
	}
	if mg.store == nil {
		return nil, nil, fmt.Errorf("instance %s not found", id)
	}

	snapshotJSON, err := mg.store.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	snap, err := ParseSnapshot([]byte(snapshotJSON))
	if err != nil {
		return nil, nil, err
	}
	m, err := NewMachine(mg.cfg, snap.Definition, mg.gens, mg.store)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Restore(snap); err != nil {
		return nil, nil, err
	}
	mg.machines[id] = m
	mg.locks[id] = &sync.Mutex{}
	return m, mg.locks[id], nil
}

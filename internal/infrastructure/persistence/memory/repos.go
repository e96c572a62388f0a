package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOCATION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// LocationRepository implements riddle.LocationRepository in memory.
type LocationRepository struct {
	mu    sync.RWMutex
	items map[shared.LocationID]*riddle.Location
	order []shared.LocationID

	// inUse reports whether submissions reference the location.
	// Wired by the container to the riddle repo + ledger; nil means never in use.
	inUse func(ctx context.Context, id shared.LocationID) (bool, error)
}

// NewLocationRepository creates an empty in-memory location repository.
func NewLocationRepository() *LocationRepository {
	return &LocationRepository{items: make(map[shared.LocationID]*riddle.Location)}
}

// SetInUseCheck installs the referential check used by Delete.
func (r *LocationRepository) SetInUseCheck(fn func(ctx context.Context, id shared.LocationID) (bool, error)) {
	r.inUse = fn
}

func (r *LocationRepository) Create(ctx context.Context, loc *riddle.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[loc.ID]; exists {
		return shared.ErrAlreadyExists
	}
	cp := *loc
	r.items[loc.ID] = &cp
	r.order = append(r.order, loc.ID)
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id shared.LocationID) (*riddle.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.items[id]
	if !ok {
		return nil, shared.ErrLocationNotFound
	}
	cp := *loc
	return &cp, nil
}

func (r *LocationRepository) Update(ctx context.Context, loc *riddle.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[loc.ID]; !ok {
		return shared.ErrLocationNotFound
	}
	cp := *loc
	r.items[loc.ID] = &cp
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id shared.LocationID) error {
	if r.inUse != nil {
		used, err := r.inUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return shared.ErrLocationInUse
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return shared.ErrLocationNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *LocationRepository) List(ctx context.Context) ([]*riddle.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*riddle.Location, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RIDDLE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// RiddleRepository implements riddle.Repository in memory.
type RiddleRepository struct {
	mu    sync.RWMutex
	items map[shared.RiddleID]*riddle.Riddle
}

// NewRiddleRepository creates an empty in-memory riddle repository.
func NewRiddleRepository() *RiddleRepository {
	return &RiddleRepository{items: make(map[shared.RiddleID]*riddle.Riddle)}
}

func (r *RiddleRepository) Create(ctx context.Context, rd *riddle.Riddle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[rd.ID]; exists {
		return shared.ErrAlreadyExists
	}
	cp := *rd
	r.items[rd.ID] = &cp
	return nil
}

func (r *RiddleRepository) GetByID(ctx context.Context, id shared.RiddleID) (*riddle.Riddle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.items[id]
	if !ok {
		return nil, shared.ErrRiddleNotFound
	}
	cp := *rd
	return &cp, nil
}

func (r *RiddleRepository) GetActiveAt(ctx context.Context, t time.Time) (*riddle.Riddle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := timeutil.StartOfDayUTC(t)
	for _, rd := range r.items {
		if rd.ActiveDate.Equal(day) {
			cp := *rd
			return &cp, nil
		}
	}
	return nil, shared.ErrRiddleNotFound
}

func (r *RiddleRepository) Update(ctx context.Context, rd *riddle.Riddle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rd.ID]; !ok {
		return shared.ErrRiddleNotFound
	}
	cp := *rd
	r.items[rd.ID] = &cp
	return nil
}

func (r *RiddleRepository) Delete(ctx context.Context, id shared.RiddleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return shared.ErrRiddleNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RiddleRepository) List(ctx context.Context) ([]*riddle.Riddle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*riddle.Riddle, 0, len(r.items))
	for _, rd := range r.items {
		cp := *rd
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// PlayerRepository implements player.Repository in memory.
type PlayerRepository struct {
	mu    sync.RWMutex
	items map[shared.PlayerID]*player.Player
	order []shared.PlayerID
}

// NewPlayerRepository creates an empty in-memory player repository.
func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{items: make(map[shared.PlayerID]*player.Player)}
}

func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return shared.ErrPlayerExists
	}
	cp := *p
	r.items[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id shared.PlayerID) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []shared.PlayerID) (map[shared.PlayerID]*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[shared.PlayerID]*player.Player, len(ids))
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *PlayerRepository) Update(ctx context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return shared.ErrPlayerNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*player.Player, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SETTINGS REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SettingsRepository implements settings.Repository in memory.
type SettingsRepository struct {
	mu      sync.RWMutex
	current settings.Settings
}

// NewSettingsRepository creates a settings repository seeded with defaults.
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{current: settings.Default()}
}

func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
	return nil
}

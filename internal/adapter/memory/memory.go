// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"mybites/internal/domain"

	"github.com/google/uuid"
)

// DB implements an in-memory database storage. Every method is safe for
// concurrent use.
type DB struct {
	mu          sync.Mutex
	waterEvents []domain.WaterEvent
	meals       []domain.MealEntry
	favorites   []domain.FavoriteMeal
	profiles    map[string]domain.Profile
	users       []*domain.User
	sessions    map[string]*domain.Session

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles: make(map[string]domain.Profile),
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Ensure interfaces are met.
var _ domain.WaterRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- WaterRepository ---

// AddWaterEvent adds a water event.
func (db *DB) AddWaterEvent(ctx context.Context, userID string, amount float64, createdAt time.Time) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := uuid.NewString()
	db.waterEvents = append(db.waterEvents, domain.WaterEvent{
		ID:        id,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: createdAt.UTC(),
	})
	return id, nil
}

// DeleteWaterEvent deletes a water event by ID.
func (db *DB) DeleteWaterEvent(ctx context.Context, userID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, w := range db.waterEvents {
		if w.UserID == userID && w.ID == id {
			db.waterEvents = append(db.waterEvents[:i], db.waterEvents[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListRecentWaterEvents lists the most recent water events.
func (db *DB) ListRecentWaterEvents(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.waterFor(userID, time.Time{})
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// WaterEventsForUser returns a copy of the user's events created at or after
// since.
func (db *DB) WaterEventsForUser(ctx context.Context, userID string, since time.Time) ([]domain.WaterEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.waterFor(userID, since), nil
}

// WaterTotalBetween returns the summed amount of events in [from, to).
func (db *DB) WaterTotalBetween(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var total float64
	for _, w := range db.waterEvents {
		if w.UserID == userID && !w.CreatedAt.Before(from) && w.CreatedAt.Before(to) {
			total += w.Amount
		}
	}
	return total, nil
}

func (db *DB) waterFor(userID string, since time.Time) []domain.WaterEvent {
	out := make([]domain.WaterEvent, 0)
	for _, w := range db.waterEvents {
		if w.UserID == userID && !w.CreatedAt.Before(since) {
			out = append(out, w)
		}
	}
	return out
}

// --- ProfileRepository ---

// GetProfile returns the stored profile.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// UpsertProfile stores p, replacing any previous profile for the user.
func (db *DB) UpsertProfile(ctx context.Context, p domain.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profiles[p.UserID] = p
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    db.now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: r.db.now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. Expiry is left to the caller.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	n := 0
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}

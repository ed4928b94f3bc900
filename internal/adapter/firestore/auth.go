package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"mybites/internal/domain"
)

var _ domain.UserRepository = (*Store)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

type accountDoc struct {
	Username     string    `firestore:"username"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

type sessionDoc struct {
	UserID    string    `firestore:"userId"`
	UserAgent string    `firestore:"userAgent"`
	IP        string    `firestore:"ip"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func toUser(doc *firestore.DocumentSnapshot) (*domain.User, error) {
	var d accountDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", doc.Ref.ID, err)
	}
	return &domain.User{ID: doc.Ref.ID, Username: d.Username, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}, nil
}

// GetByUsername finds an account by username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	iter := s.client.Collection(accountsCollection).Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toUser(doc)
}

// GetByID reads accounts/{id}.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := s.client.Collection(accountsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return toUser(doc)
}

// Create adds an account, failing when the username is taken. The check and
// insert run in one transaction.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	accounts := s.client.Collection(accountsCollection)
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(accounts.Where("username", "==", username).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("user %q already exists", username)
		}
		return tx.Create(accounts.Doc(user.ID), accountDoc{
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Count returns the number of accounts.
func (s *Store) Count(ctx context.Context) (int, error) {
	iter := s.client.Collection(accountsCollection).Select().Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		n++
	}
}

// SessionRepo stores login sessions keyed by token.
type SessionRepo struct {
	store *Store
}

// NewSessionRepo wraps a Store as a SessionRepository.
func NewSessionRepo(s *Store) *SessionRepo {
	return &SessionRepo{store: s}
}

func (r *SessionRepo) sessions() *firestore.CollectionRef {
	return r.store.client.Collection(sessionsCollection)
}

// Create writes sessions/{token}.
func (r *SessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.sessions().Doc(token).Set(ctx, sessionDoc{
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// GetByToken reads sessions/{token}.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	doc, err := r.sessions().Doc(token).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var d sessionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &domain.Session{
		Token:     token,
		UserID:    d.UserID,
		UserAgent: d.UserAgent,
		IP:        d.IP,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}, nil
}

// Delete removes sessions/{token}. Missing sessions are not an error.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.sessions().Doc(token).Delete(ctx)
	return err
}

// DeleteExpired removes every session past its expiry.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	iter := r.sessions().Where("expiresAt", "<", time.Now().UTC()).Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return n, err
		}
		n++
	}
}

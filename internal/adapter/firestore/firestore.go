// Package firestore implements the domain repositories on Cloud Firestore.
//
// Per-user data lives under users/{uid}: water, meals and favorites
// subcollections. Profiles are stored at profiles/{uid}. Local accounts and
// login sessions use the top-level accounts and sessions collections.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mybites/internal/domain"
)

const (
	usersCollection     = "users"
	waterCollection     = "water"
	mealsCollection     = "meals"
	favoritesCollection = "favorites"
	profilesCollection  = "profiles"
	accountsCollection  = "accounts"
	sessionsCollection  = "sessions"
)

// Store implements the water, meal, profile and user repositories.
type Store struct {
	client *firestore.Client
}

// Open creates a Firestore client for projectID. The client honours
// FIRESTORE_EMULATOR_HOST.
func Open(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// New wraps an existing client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) userCollection(userID, name string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(name)
}

// deleteOwned removes ref, reporting domain.ErrNotFound when it is missing.
// Firestore deletes of absent documents succeed silently, so existence is
// checked first.
func deleteOwned(ctx context.Context, ref *firestore.DocumentRef) error {
	if _, err := ref.Get(ctx); err != nil {
		return notFound(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

// notFound maps a gRPC NotFound to domain.ErrNotFound.
func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return err
}

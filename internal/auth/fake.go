package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// FakeIdentity is an in-memory Identity for tests and for running the
// server with the memory store backend. ID tokens are simply "token:<uid>".
type FakeIdentity struct {
	mu      sync.Mutex
	byEmail map[string]string
	revoked map[string]bool

	// CreateUserErr forces CreateUser to fail, for testing rollback paths.
	CreateUserErr error
	// NextUID, when set, is consumed as the UID of the next created user
	// instead of a random one.
	NextUID string
	// CreateCalls counts CreateUser invocations.
	CreateCalls int
}

// NewFakeIdentity creates an empty fake provider.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{
		byEmail: make(map[string]string),
		revoked: make(map[string]bool),
	}
}

func (f *FakeIdentity) CreateUser(_ context.Context, email, password, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateUserErr != nil {
		return "", f.CreateUserErr
	}
	if _, exists := f.byEmail[email]; exists {
		return "", fmt.Errorf("email already exists: %s", email)
	}
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}
	uid := f.NextUID
	if uid == "" {
		uid = uuid.NewString()
	}
	f.NextUID = ""
	f.byEmail[email] = uid
	return uid, nil
}

func (f *FakeIdentity) VerifyIDToken(_ context.Context, idToken string) (string, error) {
	const prefix = "token:"
	if len(idToken) <= len(prefix) || idToken[:len(prefix)] != prefix {
		return "", fmt.Errorf("malformed token")
	}
	uid := idToken[len(prefix):]
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked[uid] {
		return "", fmt.Errorf("token revoked for uid %s", uid)
	}
	return uid, nil
}

func (f *FakeIdentity) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[uid] = true
	return nil
}

func (f *FakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, id := range f.byEmail {
		if id == uid {
			delete(f.byEmail, email)
		}
	}
	return nil
}

// TokenFor returns the fake ID token for a UID.
func TokenFor(uid string) string { return "token:" + uid }

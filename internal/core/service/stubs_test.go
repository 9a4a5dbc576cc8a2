package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	err    error // returned by every call when set

	// afterFindByID runs once FindByID has released the lock, to interleave
	// a concurrent write between a service's read and its write.
	afterFindByID func(id string)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) emailOwner(email string) *domain.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.emailOwner(user.Email) != nil {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%03d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, err := r.findByID(id)
	if err == nil && r.afterFindByID != nil {
		hook := r.afterFindByID
		r.afterFindByID = nil
		hook(id)
	}
	return u, err
}

func (r *stubUserRepo) findByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u := r.emailOwner(email); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, changes ports.UserChanges) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if changes.Email != nil {
		if owner := r.emailOwner(*changes.Email); owner != nil && owner.ID != id {
			return nil, domain.ErrEmailTaken
		}
		u.Email = *changes.Email
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.Role != nil {
		u.Role = *changes.Role
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
		u.SecurityStamp++
	}
	u.UpdatedAt = changes.UpdatedAt
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ToggleActive(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.IsActive {
		u.SecurityStamp++
	}
	u.IsActive = !u.IsActive
	return cloneUser(u), nil
}

// fakeHasher is a transparent, fast stand-in for bcrypt.
type fakeHasher struct {
	mu       sync.Mutex
	verifies int
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(plaintext, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return strings.HasPrefix(hash, "hashed:") && hash == "hashed:"+plaintext
}

type stubRevocationList struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevocationList() *stubRevocationList {
	return &stubRevocationList{revoked: make(map[string]time.Duration)}
}

func (l *stubRevocationList) IsRevoked(_ context.Context, id string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.revoked[id]
	return ok, nil
}

func (l *stubRevocationList) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if l.err != nil {
		return l.err
	}
	l.revoked[id] = ttl
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) last() domain.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return domain.AuditEvent{}
	}
	return a.events[len(a.events)-1]
}

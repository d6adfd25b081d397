// Package users implements the registration/approval/role workflow for
// accounts that view or administer the policy board.
package users

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dreamkkun/retention/internal/store"
)

const usersFile = "users.json"

// Status is the approval state of an account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Role controls what an approved account may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicate      = errors.New("username already registered")
	ErrNotApproved    = errors.New("account not approved")
	ErrBadCredentials = errors.New("invalid username or password")
)

// User is one registered account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Status       Status    `json:"status"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public is the wire view of a user, without the credential hash.
type Public struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) public() Public {
	return Public{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Status:    u.Status,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Service manages the user registry backed by the flat-file store.
type Service struct {
	mu    sync.Mutex
	st    *store.Store
	log   *slog.Logger
	users map[string]User // by ID
}

// NewService loads the registry from the store.
func NewService(st *store.Store, log *slog.Logger) (*Service, error) {
	s := &Service{st: st, log: log, users: make(map[string]User)}
	var list []User
	if _, err := st.ReadJSON(usersFile, &list); err != nil {
		return nil, err
	}
	for _, u := range list {
		s.users[u.ID] = u
	}
	return s, nil
}

// EnsureAdmin seeds the fixed admin account on first start. An existing
// account with the same username is left untouched.
func (s *Service) EnsureAdmin(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil
		}
	}
	u := User{
		ID:           newID(),
		Username:     username,
		Name:         username,
		PasswordHash: hashPassword(password),
		Status:       StatusApproved,
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.log.Info("seeded admin account", "username", username)
	return s.persistLocked()
}

// Register creates a pending account awaiting admin approval.
func (s *Service) Register(username, name, email, password string) (Public, error) {
	if username == "" || password == "" {
		return Public{}, fmt.Errorf("username and password are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return Public{}, ErrDuplicate
		}
	}
	u := User{
		ID:           newID(),
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: hashPassword(password),
		Status:       StatusPending,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	if err := s.persistLocked(); err != nil {
		delete(s.users, u.ID)
		return Public{}, err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", username)
	return u.public(), nil
}

// List returns all accounts ordered by registration time.
func (s *Service) List() []Public {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Public, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Approve marks a pending account as approved.
func (s *Service) Approve(id string) (Public, error) {
	return s.setStatus(id, StatusApproved)
}

// Reject marks a pending account as rejected.
func (s *Service) Reject(id string) (Public, error) {
	return s.setStatus(id, StatusRejected)
}

func (s *Service) setStatus(id string, status Status) (Public, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return Public{}, ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	if err := s.persistLocked(); err != nil {
		return Public{}, err
	}
	s.log.Info("user status changed", "user_id", id, "status", status)
	return u.public(), nil
}

// Delete removes an account permanently.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.log.Info("user deleted", "user_id", id)
	return nil
}

// ChangeRole switches an account between admin and user.
func (s *Service) ChangeRole(id string, role Role) (Public, error) {
	if role != RoleAdmin && role != RoleUser {
		return Public{}, fmt.Errorf("unknown role %q", role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return Public{}, ErrNotFound
	}
	u.Role = role
	s.users[id] = u
	if err := s.persistLocked(); err != nil {
		return Public{}, err
	}
	s.log.Info("user role changed", "user_id", id, "role", role)
	return u.public(), nil
}

// Authenticate checks credentials for an approved account.
func (s *Service) Authenticate(username, password string) (Public, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		hash := hashPassword(password)
		if subtle.ConstantTimeCompare([]byte(hash), []byte(u.PasswordHash)) != 1 {
			return Public{}, ErrBadCredentials
		}
		if u.Status != StatusApproved {
			return Public{}, ErrNotApproved
		}
		return u.public(), nil
	}
	return Public{}, ErrBadCredentials
}

func (s *Service) persistLocked() error {
	list := make([]User, 0, len(s.users))
	for _, u := range s.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return s.st.WriteJSON(usersFile, list)
}

func hashPassword(password string) string {
	h := sha256.Sum256([]byte(password))
	return hex.EncodeToString(h[:])
}

func newID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

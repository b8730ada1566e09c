package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campusdesk/campusdesk/pkg/logging"
)

// Store persists the user directory.
type Store interface {
	// Initialize seeds the default accounts when the store holds none
	Initialize() error

	// AddUser appends a user and persists the sorted collection
	AddUser(user *User) error

	// GetAllUsers returns every user in sorted order; read failures yield an empty slice
	GetAllUsers() []User

	// SaveUsers replaces the stored collection with a sorted copy of users
	SaveUsers(users []User) error
}

// LoadResult is the outcome of reading the users file.
// Err is set when Users is empty because the file could not be read or parsed;
// a missing file is not an error.
type LoadResult struct {
	Users []User
	Err   error
}

// FileStore implements Store using a single JSON file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLogger sets the logger used to report degraded reads.
func WithLogger(l *logging.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = l
	}
}

// NewFileStore creates a store backed by the file at path.
// The file is not touched until the first operation.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("directory: users file path is required")
	}
	s := &FileStore{path: path, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultUsers returns the accounts created on first use so nobody is locked out.
func DefaultUsers() []User {
	return Sorted([]User{
		NewStudent("Default", "Student", "0001"),
		NewPersonalSupervisor("Default", "Supervisor", "0002"),
		NewSeniorTutor("Default", "Tutor", "0003"),
	})
}

// Initialize writes the default accounts if the file is absent, empty or corrupt.
func (s *FileStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.load(); len(res.Users) > 0 {
		return nil
	}

	s.logger.Infof("no accounts in %s, creating default accounts", s.path)
	return s.save(DefaultUsers())
}

// AddUser appends user to the stored collection.
func (s *FileStore) AddUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load().Users
	users = append(users, *user)
	SortUsers(users)
	return s.save(users)
}

// GetAllUsers returns the stored users, or an empty slice if they cannot be read.
func (s *FileStore) GetAllUsers() []User {
	return s.Load().Users
}

// Load returns the stored users along with the error that caused an empty result, if any.
func (s *FileStore) Load() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveUsers replaces the stored collection.
func (s *FileStore) SaveUsers(users []User) error {
	if users == nil {
		return fmt.Errorf("%w: users is nil", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(Sorted(users))
}

// FindByLoginCode returns the first user, in sorted order, holding code.
// Login codes are not unique; later holders of the same code are unreachable here.
func (s *FileStore) FindByLoginCode(code string) (User, error) {
	return FindByLoginCode(s.GetAllUsers(), code)
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

// load must be called with s.mu held.
func (s *FileStore) load() LoadResult {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadResult{Users: []User{}}
		}
		s.logger.Warnf("cannot read %s, treating directory as empty: %v", s.path, err)
		return LoadResult{Users: []User{}, Err: fmt.Errorf("directory: read %s: %w", s.path, err)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return LoadResult{Users: []User{}}
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warnf("cannot parse %s, treating directory as empty: %v", s.path, err)
		return LoadResult{Users: []User{}, Err: fmt.Errorf("directory: parse %s: %w", s.path, err)}
	}
	if users == nil {
		users = []User{}
	}
	SortUsers(users)
	return LoadResult{Users: users}
}

// save must be called with s.mu held. The file is replaced atomically.
func (s *FileStore) save(users []User) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("directory: create data directory: %w", err)
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("directory: encode users: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("directory: write users file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("directory: replace users file: %w", err)
	}

	s.logger.Debugf("saved %d users to %s", len(users), s.path)
	return nil
}

// FindByLoginCode returns the first user in users holding code.
func FindByLoginCode(users []User, code string) (User, error) {
	for _, u := range users {
		if u.LoginCode == code {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: no account with login code %q", ErrNotFound, code)
}

// DuplicateLoginCodes returns the login codes held by more than one user, in first-seen order.
func DuplicateLoginCodes(users []User) []string {
	seen := make(map[string]int, len(users))
	var dups []string
	for _, u := range users {
		seen[u.LoginCode]++
		if seen[u.LoginCode] == 2 {
			dups = append(dups, u.LoginCode)
		}
	}
	return dups
}

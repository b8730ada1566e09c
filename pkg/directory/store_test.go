package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return store
}

func loginCodes(users []User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.LoginCode
	}
	return out
}

func TestNewFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestGetAllUsers_MissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	res := store.Load()
	assert.Empty(t, res.Users)
	assert.NoError(t, res.Err)
	assert.Empty(t, store.GetAllUsers())
}

func TestInitialize_CreatesDefaults(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Initialize())

	users := store.GetAllUsers()
	require.Len(t, users, 3)
	assert.Equal(t, []string{"0001", "0002", "0003"}, loginCodes(users))
	assert.Equal(t, RoleStudent, users[0].Role)
	assert.Equal(t, RolePersonalSupervisor, users[1].Role)
	assert.Equal(t, RoleSeniorTutor, users[2].Role)
}

func TestInitialize_Idempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Initialize())
	first := store.GetAllUsers()
	require.NoError(t, store.Initialize())

	assert.Equal(t, first, store.GetAllUsers())
}

func TestInitialize_KeepsExistingAccounts(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveUsers([]User{NewStudent("Only", "One", "4321")}))

	require.NoError(t, store.Initialize())

	assert.Equal(t, []string{"4321"}, loginCodes(store.GetAllUsers()))
}

func TestInitialize_CorruptOrEmptyFile(t *testing.T) {
	for name, content := range map[string]string{
		"corrupt": "{not json",
		"empty":   "",
		"blank":   "  \n",
		"null":    "null",
		"array":   "[]",
	} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))

			require.NoError(t, store.Initialize())

			assert.Equal(t, []string{"0001", "0002", "0003"}, loginCodes(store.GetAllUsers()))
		})
	}
}

func TestLoad_ReportsParseFailure(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[{"), 0600))

	res := store.Load()

	assert.Empty(t, res.Users)
	assert.Error(t, res.Err)
	assert.Empty(t, store.GetAllUsers())
}

func TestAddUser_Nil(t *testing.T) {
	store := newTestStore(t)

	err := store.AddUser(nil)

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestSaveUsers_Nil(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveUsers(nil)

	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestSaveUsers_EmptyIsAllowed(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Initialize())

	require.NoError(t, store.SaveUsers([]User{}))

	assert.Empty(t, store.GetAllUsers())
}

func TestSaveUsers_ReplacesAndSorts(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Initialize())

	input := []User{
		NewSeniorTutor("Tia", "Zane", "0100"),
		NewStudent("Sue", "Moss", "0101"),
	}
	require.NoError(t, store.SaveUsers(input))

	assert.Equal(t, []string{"0101", "0100"}, loginCodes(store.GetAllUsers()))
	assert.Equal(t, RoleSeniorTutor, input[0].Role, "caller's slice must not be reordered")
}

func TestAddUser_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Initialize())

	alice := NewStudent("Alice", "Example", "1234")
	require.NoError(t, store.AddUser(&alice))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	users := reopened.GetAllUsers()

	require.Len(t, users, 4)
	// "Example" sorts before "Student" among students
	assert.Equal(t, []string{"1234", "0001", "0002", "0003"}, loginCodes(users))
	assert.Equal(t, alice, users[0])
}

func TestAddUser_NoTempFileLeftBehind(t *testing.T) {
	store := newTestStore(t)
	u := NewStudent("A", "B", "0001")
	require.NoError(t, store.AddUser(&u))

	_, err := os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestAddUser_WriteFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// The parent of the users file is a regular file, so the directory cannot be created
	store, err := NewFileStore(filepath.Join(blocker, "users.json"))
	require.NoError(t, err)

	u := NewStudent("A", "B", "0001")
	assert.Error(t, store.AddUser(&u))
	assert.Error(t, store.Initialize())
}

func TestAddUser_ConcurrentCallersAreSerialized(t *testing.T) {
	store := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := NewStudent(fmt.Sprintf("First%02d", i), "Same", fmt.Sprintf("%04d", i))
			assert.NoError(t, store.AddUser(&u))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.GetAllUsers(), n)
}

func TestLoginCodeUniqueness_NotEnforcedByStore(t *testing.T) {
	store := newTestStore(t)

	first := NewStudent("Ann", "Able", "5555")
	second := NewPersonalSupervisor("Ben", "Baker", "5555")
	require.NoError(t, store.AddUser(&second))
	require.NoError(t, store.AddUser(&first))

	assert.Len(t, store.GetAllUsers(), 2)
	assert.Equal(t, []string{"5555"}, DuplicateLoginCodes(store.GetAllUsers()))

	// First match in sorted order wins: the student sorts ahead of the supervisor
	found, err := store.FindByLoginCode("5555")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestFindByLoginCode_NotFound(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Initialize())

	_, err := store.FindByLoginCode("9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllUsers_SortsUnorderedFile(t *testing.T) {
	store := newTestStore(t)
	raw := `[
  {"id": "a", "firstName": "Tess", "lastName": "Tutor", "loginCode": "0300", "type": "SeniorTutor"},
  {"id": "b", "firstName": "zed", "lastName": "Young", "loginCode": "0101", "type": "Student"},
  {"id": "c", "firstName": "Pam", "lastName": "Par", "loginCode": "0200", "type": "PersonalSupervisor"},
  {"id": "d", "firstName": "Amy", "lastName": "adams", "loginCode": "0100", "type": "Student"}
]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0600))

	assert.Equal(t, []string{"0100", "0101", "0200", "0300"}, loginCodes(store.GetAllUsers()))

	first, err := store.FindByLoginCode("0100")
	require.NoError(t, err)
	assert.Equal(t, "Amy", first.FirstName)
}

package service_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/atinyakov/passc/internal/crypto"
	"github.com/atinyakov/passc/internal/models"
	"github.com/atinyakov/passc/internal/service"
	"github.com/atinyakov/passc/internal/storage"
)

type mockStore struct {
	LoadFunc func(path, masterPassword string) (*models.Collection, error)
	SaveFunc func(path, masterPassword string, c *models.Collection) error
}

func (m *mockStore) Load(path, masterPassword string) (*models.Collection, error) {
	return m.LoadFunc(path, masterPassword)
}

func (m *mockStore) Save(path, masterPassword string, c *models.Collection) error {
	return m.SaveFunc(path, masterPassword, c)
}

func notFoundStore() *mockStore {
	return &mockStore{
		LoadFunc: func(path, _ string) (*models.Collection, error) {
			return nil, fmt.Errorf("%w: %s", storage.ErrStoreNotFound, path)
		},
	}
}

func names(entries []models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestOpen_WeakMasterPassword(t *testing.T) {
	called := false
	store := &mockStore{LoadFunc: func(string, string) (*models.Collection, error) {
		called = true
		return &models.Collection{}, nil
	}}
	_, err := service.Open(store, "p", "12345", nil)
	if !errors.Is(err, service.ErrWeakMasterPassword) {
		t.Fatalf("err = %v; want ErrWeakMasterPassword", err)
	}
	if called {
		t.Errorf("store must not be loaded with an invalid master password")
	}
}

func TestOpen_NotFoundStartsEmpty(t *testing.T) {
	v, err := service.Open(notFoundStore(), "p", "correcthorse", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !v.Created() || v.Len() != 0 {
		t.Errorf("expected a new empty vault, created=%v len=%d", v.Created(), v.Len())
	}
}

func TestOpen_PropagatesAuthFailure(t *testing.T) {
	store := &mockStore{LoadFunc: func(string, string) (*models.Collection, error) {
		return nil, storage.ErrAuthenticationFailure
	}}
	_, err := service.Open(store, "p", "wrongpass", nil)
	if !errors.Is(err, storage.ErrAuthenticationFailure) {
		t.Fatalf("err = %v; want ErrAuthenticationFailure", err)
	}
}

func TestAddEditRemove(t *testing.T) {
	v, err := service.Open(notFoundStore(), "p", "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Add("github", "x", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	generated, err := v.Add("mail", "", "me@example.com")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if generated.Password == "" {
		t.Errorf("expected a generated password")
	}
	if _, err := v.Add("github", "y", ""); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("err = %v; want ErrDuplicateName", err)
	}

	newInfo := "work account"
	edited, err := v.Edit("github", nil, &newInfo)
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Password != "x" || edited.Info != newInfo {
		t.Errorf("edited = %+v", edited)
	}
	if got, _ := v.Get("github"); got.Info != newInfo {
		t.Errorf("Get after Edit = %+v", got)
	}
	if _, err := v.Edit("missing", nil, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}

	if _, err := v.Remove("mail"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := v.Get("mail"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestList_Filter(t *testing.T) {
	loaded, _ := models.NewCollection(
		models.Entry{Name: "GitHub"}, models.Entry{Name: "gitlab"}, models.Entry{Name: "mail"},
	)
	store := &mockStore{LoadFunc: func(string, string) (*models.Collection, error) {
		return loaded, nil
	}}
	v, err := service.Open(store, "p", "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := names(v.List("")); len(got) != 3 {
		t.Errorf("List(\"\") = %v", got)
	}
	if got := names(v.List("git")); !reflect.DeepEqual(got, []string{"GitHub", "gitlab"}) {
		t.Errorf("List(git) = %v", got)
	}
}

func TestCommit_SavesWholeCollection(t *testing.T) {
	var (
		savedPath string
		savedPass string
		saved     []models.Entry
	)
	store := notFoundStore()
	store.SaveFunc = func(path, masterPassword string, c *models.Collection) error {
		savedPath, savedPass, saved = path, masterPassword, c.Entries()
		return nil
	}

	v, err := service.Open(store, "/tmp/store.dat", "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Add("github", "x", ""); err != nil {
		t.Fatal(err)
	}
	if err := v.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if savedPath != "/tmp/store.dat" || savedPass != "correcthorse" {
		t.Errorf("Save called with %q, %q", savedPath, savedPass)
	}
	if !reflect.DeepEqual(saved, []models.Entry{{Name: "github", Password: "x"}}) {
		t.Errorf("saved = %+v", saved)
	}
	if v.Created() {
		t.Errorf("Created must be false after Commit")
	}
}

func TestCommit_Error(t *testing.T) {
	wantErr := errors.New("disk full")
	store := notFoundStore()
	store.SaveFunc = func(string, string, *models.Collection) error { return wantErr }

	v, err := service.Open(store, "p", "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Commit(); err != wantErr {
		t.Fatalf("Commit error = %v; want %v", err, wantErr)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	existing, _ := models.NewCollection(models.Entry{Name: "db", Password: "old"})
	store := &mockStore{LoadFunc: func(string, string) (*models.Collection, error) {
		return existing, nil
	}}
	v, err := service.Open(store, "p", "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}

	clash := filepath.Join(dir, "clash.json")
	if err := os.WriteFile(clash, []byte(`[{"name":"api","password":"a"},{"name":"db","password":"new"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Import(clash); !errors.Is(err, models.ErrCrossDuplicate) {
		t.Fatalf("err = %v; want ErrCrossDuplicate", err)
	}
	if v.Len() != 1 {
		t.Errorf("vault changed after failed import: %v", names(v.List("")))
	}

	repeated := filepath.Join(dir, "repeated.json")
	if err := os.WriteFile(repeated, []byte(`[{"name":"api","password":"a"},{"name":"api","password":"b"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = v.Import(repeated)
	if !errors.Is(err, models.ErrInternalDuplicate) {
		t.Fatalf("err = %v; want ErrInternalDuplicate", err)
	}
	var ne *models.NameError
	if !errors.As(err, &ne) || ne.Name != "api" {
		t.Errorf("err = %v; want NameError for api", err)
	}
	if v.Len() != 1 {
		t.Errorf("vault changed after failed import: %v", names(v.List("")))
	}

	ok := filepath.Join(dir, "ok.json")
	if err := os.WriteFile(ok, []byte(`[{"name":"zeta","password":"z"},{"name":"api","password":"a"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	n, err := v.Import(ok)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d; want 2", n)
	}
	if got := names(v.List("")); !reflect.DeepEqual(got, []string{"api", "db", "zeta"}) {
		t.Errorf("entries = %v", got)
	}
}

func TestEndToEnd_RealStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passwords.dat")
	exportPath := filepath.Join(dir, "export.json")
	store := storage.New(nil, storage.WithParams(crypto.Params{Time: 1, Memory: 64, Threads: 1}))

	v, err := service.Open(store, path, "correcthorse", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Add("github", "x", ""); err != nil {
		t.Fatal(err)
	}
	if err := v.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := v.Export(exportPath); err != nil {
		t.Fatal(err)
	}
	v.Close()

	if _, err := service.Open(store, path, "wrongpass", nil); !errors.Is(err, storage.ErrAuthenticationFailure) {
		t.Fatalf("err = %v; want ErrAuthenticationFailure", err)
	}

	other, err := service.Open(store, filepath.Join(dir, "other.dat"), "anotherpass", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Import(exportPath); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got, err := other.Get("github"); err != nil || got.Password != "x" {
		t.Errorf("Get(github) = %+v, %v", got, err)
	}
}

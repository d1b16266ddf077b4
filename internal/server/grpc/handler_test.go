package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeUsers struct {
	regResp   *models.User
	regErr    error
	loginResp *services.TokenPair
	loginErr  error
	refResp   *services.TokenPair
	refErr    error
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refResp, f.refErr
}

type fakeVault struct {
	owner    string
	items    []*models.Entry
	entry    *models.Entry
	id       string
	fav      bool
	err      error
	fields   models.EntryFields
	patch    models.EntryPatch
	folderID *string
}

func (f *fakeVault) List(ctx context.Context, ownerID string, folderID *string) ([]*models.Entry, error) {
	f.owner, f.folderID = ownerID, folderID
	return f.items, f.err
}
func (f *fakeVault) ListFavorites(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	f.owner = ownerID
	return f.items, f.err
}
func (f *fakeVault) Get(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	f.owner = ownerID
	return f.entry, f.err
}
func (f *fakeVault) Create(ctx context.Context, ownerID string, fields models.EntryFields) (string, error) {
	f.owner, f.fields = ownerID, fields
	return f.id, f.err
}
func (f *fakeVault) Update(ctx context.Context, ownerID, id string, patch models.EntryPatch) error {
	f.owner, f.patch = ownerID, patch
	return f.err
}
func (f *fakeVault) SoftDelete(ctx context.Context, ownerID, id string) error {
	f.owner = ownerID
	return f.err
}
func (f *fakeVault) ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error) {
	f.owner = ownerID
	return f.fav, f.err
}

type fakeFolders struct {
	owner string
	items []*models.Folder
	id    string
	err   error
}

func (f *fakeFolders) List(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	f.owner = ownerID
	return f.items, f.err
}
func (f *fakeFolders) Create(ctx context.Context, ownerID, name string) (string, error) {
	f.owner = ownerID
	return f.id, f.err
}
func (f *fakeFolders) Update(ctx context.Context, ownerID, id, name string) error {
	f.owner = ownerID
	return f.err
}
func (f *fakeFolders) Delete(ctx context.Context, ownerID, id string) error {
	f.owner = ownerID
	return f.err
}

type fakeBackups struct {
	receipt *models.BackupReceipt
	err     error
}

func (f *fakeBackups) Export(ctx context.Context, ownerID string) (*models.BackupReceipt, error) {
	return f.receipt, f.err
}

// ---- helpers ----

func newServer(u UserService, v VaultService, f FolderService, b BackupService) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, u, v, f, b, "k")
}

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), userIDKey, owner)
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if status.Code(err) != code {
		t.Fatalf("expected %v, got %v (%v)", code, status.Code(err), err)
	}
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUsers{}, &fakeVault{}, &fakeFolders{}, &fakeBackups{})
	resp, err := s.Ping(context.Background(), &PingRequest{})
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
}

func TestRegister(t *testing.T) {
	u := &fakeUsers{regResp: &models.User{ID: "u1"}}
	s := newServer(u, &fakeVault{}, &fakeFolders{}, &fakeBackups{})

	resp, err := s.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if resp.UserID != "u1" {
		t.Fatalf("unexpected user id: %q", resp.UserID)
	}

	u.regErr = fmt.Errorf("%w: username", common.ErrorAlreadyExists)
	_, err = s.Register(context.Background(), &RegisterRequest{})
	wantCode(t, err, codes.AlreadyExists)
}

func TestLoginAndRefresh(t *testing.T) {
	pair := &services.TokenPair{AccessToken: "a", RefreshToken: "r"}
	u := &fakeUsers{loginResp: pair, refResp: pair}
	s := newServer(u, &fakeVault{}, &fakeFolders{}, &fakeBackups{})

	resp, err := s.Login(context.Background(), &LoginRequest{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.AccessToken != "a" || resp.RefreshToken != "r" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}

	ref, err := s.RefreshToken(context.Background(), &RefreshTokenRequest{RefreshToken: "r"})
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if ref.AccessToken != "a" {
		t.Fatalf("unexpected access token: %q", ref.AccessToken)
	}

	u.loginErr = common.ErrorUnauthorized
	_, err = s.Login(context.Background(), &LoginRequest{})
	wantCode(t, err, codes.Unauthenticated)

	u.refErr = common.ErrRefreshTokenExpired
	_, err = s.RefreshToken(context.Background(), &RefreshTokenRequest{})
	wantCode(t, err, codes.Unauthenticated)
}

func TestEntryHandlers_PassOwnerFromContext(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	folder := "f1"
	v := &fakeVault{
		items: []*models.Entry{{ID: "e1", Title: "mail", Secret: "42", FolderID: &folder, CreatedAt: now, UpdatedAt: now}},
		entry: &models.Entry{ID: "e1", Title: "mail", Secret: "42"},
		id:    "e2",
		fav:   true,
	}
	s := newServer(&fakeUsers{}, v, &fakeFolders{}, &fakeBackups{})
	ctx := ownerCtx("owner-1")

	list, err := s.ListEntries(ctx, &ListEntriesRequest{FolderID: &folder})
	if err != nil {
		t.Fatalf("ListEntries error: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Secret != "42" || *list.Entries[0].FolderID != "f1" {
		t.Fatalf("unexpected entries: %+v", list.Entries)
	}
	if v.owner != "owner-1" || v.folderID == nil || *v.folderID != "f1" {
		t.Fatalf("owner/folder not forwarded: %q %v", v.owner, v.folderID)
	}

	if _, err := s.ListFavorites(ctx, &ListFavoritesRequest{}); err != nil {
		t.Fatalf("ListFavorites error: %v", err)
	}

	got, err := s.GetEntry(ctx, &GetEntryRequest{ID: "e1"})
	if err != nil {
		t.Fatalf("GetEntry error: %v", err)
	}
	if got.Entry.Title != "mail" {
		t.Fatalf("unexpected entry: %+v", got.Entry)
	}

	created, err := s.CreateEntry(ctx, &CreateEntryRequest{Title: "t", Secret: "s", Username: "bob"})
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}
	if created.ID != "e2" || v.fields.Username != "bob" || v.fields.Secret != "s" {
		t.Fatalf("unexpected create: %q %+v", created.ID, v.fields)
	}

	title := "renamed"
	if _, err := s.UpdateEntry(ctx, &UpdateEntryRequest{ID: "e1", Title: &title}); err != nil {
		t.Fatalf("UpdateEntry error: %v", err)
	}
	if v.patch.Title == nil || *v.patch.Title != "renamed" || v.patch.Secret != nil {
		t.Fatalf("unexpected patch: %+v", v.patch)
	}

	fav, err := s.ToggleFavorite(ctx, &ToggleFavoriteRequest{ID: "e1"})
	if err != nil || !fav.Favorite {
		t.Fatalf("ToggleFavorite: %v %+v", err, fav)
	}

	if _, err := s.DeleteEntry(ctx, &DeleteEntryRequest{ID: "e1"}); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}
}

func TestEntryHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", fmt.Errorf("get: %w", common.ErrorNotFound), codes.NotFound},
		{"validation", fmt.Errorf("%w: title is required", common.ErrorValidation), codes.InvalidArgument},
		{"missing owner", common.ErrorMissingOwner, codes.Unauthenticated},
		{"decode", fmt.Errorf("open e1: %w", common.ErrorDecode), codes.DataLoss},
		{"storage", fmt.Errorf("%w: select: %w", common.ErrorStorage, errors.New("conn reset")), codes.Internal},
		{"canceled", context.Canceled, codes.Canceled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newServer(&fakeUsers{}, &fakeVault{err: tc.err}, &fakeFolders{}, &fakeBackups{})
			_, err := s.GetEntry(ownerCtx("o"), &GetEntryRequest{ID: "x"})
			wantCode(t, err, tc.want)
		})
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	cause := fmt.Errorf("%w: select: %w", common.ErrorStorage, errors.New("password=hunter2"))
	s := newServer(&fakeUsers{}, &fakeVault{err: cause}, &fakeFolders{}, &fakeBackups{})

	_, err := s.ListEntries(ownerCtx("o"), &ListEntriesRequest{})
	wantCode(t, err, codes.Internal)
	if msg := status.Convert(err).Message(); msg != "internal error" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestFolderHandlers(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeFolders{items: []*models.Folder{{ID: "f1", Name: "Work", CreatedAt: now, UpdatedAt: now}}, id: "f2"}
	s := newServer(&fakeUsers{}, &fakeVault{}, f, &fakeBackups{})
	ctx := ownerCtx("owner-1")

	list, err := s.ListFolders(ctx, &ListFoldersRequest{})
	if err != nil {
		t.Fatalf("ListFolders error: %v", err)
	}
	if len(list.Folders) != 1 || list.Folders[0].Name != "Work" {
		t.Fatalf("unexpected folders: %+v", list.Folders)
	}

	created, err := s.CreateFolder(ctx, &CreateFolderRequest{Name: "Home"})
	if err != nil || created.ID != "f2" {
		t.Fatalf("CreateFolder: %v %+v", err, created)
	}
	if _, err := s.RenameFolder(ctx, &RenameFolderRequest{ID: "f1", Name: "Job"}); err != nil {
		t.Fatalf("RenameFolder error: %v", err)
	}
	if _, err := s.DeleteFolder(ctx, &DeleteFolderRequest{ID: "f1"}); err != nil {
		t.Fatalf("DeleteFolder error: %v", err)
	}
	if f.owner != "owner-1" {
		t.Fatalf("owner not forwarded: %q", f.owner)
	}

	f.err = common.ErrorNotFound
	_, err = s.DeleteFolder(ctx, &DeleteFolderRequest{ID: "nope"})
	wantCode(t, err, codes.NotFound)
}

func TestExportBackup(t *testing.T) {
	b := &fakeBackups{receipt: &models.BackupReceipt{StorageKey: "backups/o/x.json", DownloadURL: "http://dl", Entries: 3, Folders: 1}}
	s := newServer(&fakeUsers{}, &fakeVault{}, &fakeFolders{}, b)

	resp, err := s.ExportBackup(ownerCtx("o"), &ExportBackupRequest{})
	if err != nil {
		t.Fatalf("ExportBackup error: %v", err)
	}
	if resp.StorageKey != "backups/o/x.json" || resp.DownloadURL != "http://dl" || resp.Entries != 3 || resp.Folders != 1 {
		t.Fatalf("unexpected receipt: %+v", resp)
	}

	b.err = fmt.Errorf("%w: upload backup: %w", common.ErrorInternal, errors.New("s3 down"))
	_, err = s.ExportBackup(ownerCtx("o"), &ExportBackupRequest{})
	wantCode(t, err, codes.Internal)
}

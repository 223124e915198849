package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	commentsrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/comments"
	profilesrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/profiles"
	reactionsrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/reactions"
	rolesrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/roles"
	usersrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	createErr error
	created   *models.User

	byEmail *models.User
	byID    *models.User
	getErr  error

	exists    bool
	existsErr error

	list      []models.User
	listErr   error
	updateErr error
	updated   *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-new"
	u.CreatedAt = time.Now()
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.byEmail == nil || f.byEmail.Email != email {
		return nil, common.ErrorNotFound
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.byID == nil || f.byID.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.byID, nil
}

func (f *fakeUsersRepo) ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	return f.list, f.listErr
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *u
	f.updated = &cp
	return nil
}

// --- roles ---

type fakeRolesRepo struct {
	role    *models.Role
	roleErr error
	list    []models.Role
	listErr error
}

func (f *fakeRolesRepo) FindOrCreate(ctx context.Context, name string) (*models.Role, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	if f.role != nil {
		return f.role, nil
	}
	return &models.Role{ID: "r-" + name, Name: name}, nil
}

func (f *fakeRolesRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRolesRepo) List(ctx context.Context) ([]models.Role, error) {
	return f.list, f.listErr
}

// --- profiles ---

type fakeProfilesRepo struct {
	items map[string]*models.Profile

	createErr  error
	getErr     error
	existsErr  error
	adjustErr  error
	popular    []models.Profile
	popularErr error
	setKeyErr  error

	popularLimit int
}

func newFakeProfilesRepo(profiles ...*models.Profile) *fakeProfilesRepo {
	f := &fakeProfilesRepo{items: map[string]*models.Profile{}}
	for _, p := range profiles {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProfilesRepo) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "p-new"
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProfilesRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfilesRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeProfilesRepo) AdjustCounter(ctx context.Context, id string, polarity models.Polarity, delta int) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	p, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	if polarity == models.PolarityLike {
		p.LikeCount += int64(delta)
	} else {
		p.DislikeCount += int64(delta)
	}
	return nil
}

func (f *fakeProfilesRepo) Popular(ctx context.Context, limit int) ([]models.Profile, error) {
	f.popularLimit = limit
	return f.popular, f.popularErr
}

func (f *fakeProfilesRepo) SetPreviewKey(ctx context.Context, id string, key string) error {
	if f.setKeyErr != nil {
		return f.setKeyErr
	}
	p, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.PreviewImageKey = key
	return nil
}

// --- reactions ---

type fakeReactionsRepo struct {
	items map[string]*models.Reaction

	lockErr   error
	findErr   error
	createErr error
	deleteErr error

	// stale, when set, is returned by Find regardless of items.
	stale *models.Reaction

	locks []string
	seq   int
}

func newFakeReactionsRepo() *fakeReactionsRepo {
	return &fakeReactionsRepo{items: map[string]*models.Reaction{}}
}

func pairKey(userID, profileID string) string { return userID + ":" + profileID }

func (f *fakeReactionsRepo) LockPair(ctx context.Context, userID, profileID string) error {
	f.locks = append(f.locks, pairKey(userID, profileID))
	return f.lockErr
}

func (f *fakeReactionsRepo) Find(ctx context.Context, userID, profileID string) (*models.Reaction, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.stale != nil {
		return f.stale, nil
	}
	r, ok := f.items[pairKey(userID, profileID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (f *fakeReactionsRepo) Create(ctx context.Context, r *models.Reaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	k := pairKey(r.UserID, r.ProfileID)
	if _, ok := f.items[k]; ok {
		return common.ErrorAlreadyExists
	}
	f.seq++
	r.ID = fmt.Sprintf("r-%d", f.seq)
	f.items[k] = r
	return nil
}

func (f *fakeReactionsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, r := range f.items {
		if r.ID == id {
			delete(f.items, k)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- comments ---

type fakeCommentsRepo struct {
	created   *models.Comment
	createErr error

	list     []models.Comment
	listErr  error
	count    int64
	countErr error

	gotProfileID        string
	gotLimit, gotOffset int
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = "c-new"
	f.created = c
	return c, nil
}

func (f *fakeCommentsRepo) ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]models.Comment, error) {
	f.gotProfileID, f.gotLimit, f.gotOffset = profileID, limit, offset
	return f.list, f.listErr
}

func (f *fakeCommentsRepo) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	return f.count, f.countErr
}

// --- manager ---

type fakeRepoManager struct {
	users     *fakeUsersRepo
	roles     *fakeRolesRepo
	profiles  *fakeProfilesRepo
	reactions *fakeReactionsRepo
	comments  *fakeCommentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.users }
func (m *fakeRepoManager) Roles(db dbx.DBTX) rolesrepo.Repository         { return m.roles }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository   { return m.profiles }
func (m *fakeRepoManager) Reactions(db dbx.DBTX) reactionsrepo.Repository { return m.reactions }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository   { return m.comments }

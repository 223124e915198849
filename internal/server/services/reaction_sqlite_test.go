package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	reactionsrepo "github.com/dmitrijs2005/profilehub/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// The reaction engine runs here against the real repositories on an in-memory
// SQLite database. With a single connection every transaction is serialized
// at the pool, which stands in for the advisory lock SQLite does not have.

const sqliteSchema = `
CREATE TABLE profiles (
    id            TEXT PRIMARY KEY,
    like_count    INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
    dislike_count INTEGER NOT NULL DEFAULT 0 CHECK (dislike_count >= 0)
);
CREATE TABLE reactions (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    profile_id TEXT NOT NULL REFERENCES profiles (id),
    polarity   TEXT NOT NULL CHECK (polarity IN ('like', 'dislike')),
    UNIQUE (user_id, profile_id)
);`

type sqliteRepoManager struct {
	repomanager.RepositoryManager
}

func (m sqliteRepoManager) Reactions(db dbx.DBTX) reactionsrepo.Repository {
	return noLockReactions{reactionsrepo.NewPostgresRepository(db)}
}

type noLockReactions struct {
	*reactionsrepo.PostgresRepository
}

func (noLockReactions) LockPair(context.Context, string, string) error { return nil }

// staleReactions answers Find with a reaction read before another
// transaction committed, as READ COMMITTED allows when two toggles of the
// same pair are not serialized.
type staleReactions struct {
	noLockReactions
	snapshot *models.Reaction
}

func (r staleReactions) Find(context.Context, string, string) (*models.Reaction, error) {
	cp := *r.snapshot
	return &cp, nil
}

type staleRepoManager struct {
	sqliteRepoManager
	snapshot *models.Reaction
}

func (m staleRepoManager) Reactions(db dbx.DBTX) reactionsrepo.Repository {
	return staleReactions{noLockReactions{reactionsrepo.NewPostgresRepository(db)}, m.snapshot}
}

func newSQLiteReactionService(t *testing.T, profileIDs ...string) (*ReactionService, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	for _, id := range profileIDs {
		_, err = db.Exec(`INSERT INTO profiles (id) VALUES ($1)`, id)
		require.NoError(t, err)
	}

	rm := sqliteRepoManager{repomanager.NewPostgresRepositoryManager()}
	return NewReactionService(db, rm), db
}

func readCounters(t *testing.T, db *sql.DB, profileID string) (int64, int64) {
	t.Helper()
	var likes, dislikes int64
	require.NoError(t, db.QueryRow(`SELECT like_count, dislike_count FROM profiles WHERE id = $1`, profileID).
		Scan(&likes, &dislikes))
	return likes, dislikes
}

// assertConsistent checks that counters equal the reaction records of each
// polarity and that no pair holds more than one reaction.
func assertConsistent(t *testing.T, db *sql.DB, profileID string) {
	t.Helper()
	likes, dislikes := readCounters(t, db, profileID)

	var likeRows, dislikeRows int64
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM reactions WHERE profile_id = $1 AND polarity = 'like'`, profileID).Scan(&likeRows))
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM reactions WHERE profile_id = $1 AND polarity = 'dislike'`, profileID).Scan(&dislikeRows))
	assert.Equal(t, likeRows, likes, "like_count drifted")
	assert.Equal(t, dislikeRows, dislikes, "dislike_count drifted")

	var dup int64
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM (SELECT user_id FROM reactions WHERE profile_id = $1 GROUP BY user_id HAVING COUNT(*) > 1)`,
		profileID).Scan(&dup))
	assert.Zero(t, dup)
}

func TestToggleSQLite_TwoUserScenario(t *testing.T) {
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)
	ctx := context.Background()

	steps := []struct {
		user      string
		polarity  models.Polarity
		wantState models.ReactionState
		likes     int64
		dislikes  int64
	}{
		{"A", models.PolarityLike, models.ReactionState{Liked: true}, 1, 0},
		{"B", models.PolarityDislike, models.ReactionState{Disliked: true}, 1, 1},
		{"A", models.PolarityDislike, models.ReactionState{Disliked: true}, 0, 2},
		{"A", models.PolarityDislike, models.ReactionState{}, 0, 1},
	}

	for i, st := range steps {
		state, err := s.Toggle(ctx, st.user, p, st.polarity)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, st.wantState, state, "step %d", i)

		likes, dislikes := readCounters(t, db, p)
		assert.Equal(t, st.likes, likes, "step %d likes", i)
		assert.Equal(t, st.dislikes, dislikes, "step %d dislikes", i)
		assertConsistent(t, db, p)
	}
}

func TestToggleSQLite_TwiceIsNone(t *testing.T) {
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)
	ctx := context.Background()

	for _, pol := range []models.Polarity{models.PolarityLike, models.PolarityDislike} {
		_, err := s.Toggle(ctx, "u-1", p, pol)
		require.NoError(t, err)
		state, err := s.Toggle(ctx, "u-1", p, pol)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionState{}, state)

		likes, dislikes := readCounters(t, db, p)
		assert.Zero(t, likes)
		assert.Zero(t, dislikes)
	}
}

func TestToggleSQLite_UnknownProfile(t *testing.T) {
	s, db := newSQLiteReactionService(t)

	_, err := s.Toggle(context.Background(), "u-1", uuid.NewString(), models.PolarityLike)
	assert.ErrorIs(t, err, common.ErrProfileNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM reactions`).Scan(&n))
	assert.Zero(t, n)
}

func TestToggleSQLite_RandomSequencesKeepInvariants(t *testing.T) {
	profiles := []string{uuid.NewString(), uuid.NewString()}
	s, db := newSQLiteReactionService(t, profiles...)
	users := []string{"u-1", "u-2", "u-3"}
	polarities := []models.Polarity{models.PolarityLike, models.PolarityDislike}

	// model holds the expected reaction per user/profile pair.
	model := map[string]models.Polarity{}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		u := users[rng.Intn(len(users))]
		p := profiles[rng.Intn(len(profiles))]
		pol := polarities[rng.Intn(len(polarities))]

		state, err := s.Toggle(context.Background(), u, p, pol)
		require.NoError(t, err)

		key := u + ":" + p
		var want models.ReactionState
		if model[key] == pol {
			delete(model, key)
		} else {
			model[key] = pol
			want = models.StateOf(&pol)
		}
		require.Equal(t, want, state, "op %d", i)

		assertConsistent(t, db, p)
	}

	for _, p := range profiles {
		var wantLikes, wantDislikes int64
		for _, u := range users {
			switch model[u+":"+p] {
			case models.PolarityLike:
				wantLikes++
			case models.PolarityDislike:
				wantDislikes++
			}
		}
		likes, dislikes := readCounters(t, db, p)
		assert.Equal(t, wantLikes, likes)
		assert.Equal(t, wantDislikes, dislikes)
	}
}

func TestToggleSQLite_ConcurrentDistinctUsers(t *testing.T) {
	const n = 25
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Toggle(context.Background(), fmt.Sprintf("user-%d", i), p, models.PolarityLike); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("toggle failed: %v", err)
	}

	likes, dislikes := readCounters(t, db, p)
	assert.Equal(t, int64(n), likes)
	assert.Zero(t, dislikes)
	assertConsistent(t, db, p)
}

func TestToggleSQLite_ConcurrentSamePair(t *testing.T) {
	const n = 10
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(context.Background(), "same-user", p, models.PolarityLike)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles leaves nothing behind.
	likes, _ := readCounters(t, db, p)
	assert.Zero(t, likes)
	assertConsistent(t, db, p)
}

func TestToggleSQLite_StaleReactionRollsBack(t *testing.T) {
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)
	ctx := context.Background()

	_, err := s.Toggle(ctx, "A", p, models.PolarityLike)
	require.NoError(t, err)
	snapshot, err := reactionsrepo.NewPostgresRepository(db).Find(ctx, "A", p)
	require.NoError(t, err)

	_, err = s.Toggle(ctx, "A", p, models.PolarityLike)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "B", p, models.PolarityLike)
	require.NoError(t, err)

	stale := NewReactionService(db, staleRepoManager{sqliteRepoManager{repomanager.NewPostgresRepositoryManager()}, snapshot})
	for _, pol := range []models.Polarity{models.PolarityLike, models.PolarityDislike} {
		_, err = stale.Toggle(ctx, "A", p, pol)
		assert.ErrorIs(t, err, common.ErrReactionConflict)

		likes, dislikes := readCounters(t, db, p)
		assert.Equal(t, int64(1), likes)
		assert.Equal(t, int64(0), dislikes)
		assertConsistent(t, db, p)
	}
}

func TestToggleSQLite_ProfileIDSpellings(t *testing.T) {
	p := uuid.NewString()
	s, db := newSQLiteReactionService(t, p)
	ctx := context.Background()

	state, err := s.Toggle(ctx, "A", strings.ToUpper(p), models.PolarityLike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionState{Liked: true}, state)

	state, err = s.Toggle(ctx, "A", "{"+p+"}", models.PolarityDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionState{Disliked: true}, state)

	state, err = s.Toggle(ctx, "A", "urn:uuid:"+p, models.PolarityDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionState{}, state)

	likes, dislikes := readCounters(t, db, p)
	assert.Equal(t, [2]int64{0, 0}, [2]int64{likes, dislikes})
	assertConsistent(t, db, p)
}

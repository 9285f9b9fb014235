package userstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersadmin/console/internal/usertable"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUserStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, usertable.User{
		Name:  "Ann",
		Email: "a@x.com",
		Roles: []usertable.Role{{Name: "editor"}, {Name: "admin"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, []string{"editor", "admin"}, usertable.RoleNames(got))
}

func TestUserStore_SaveReplacesRoles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	u, err := store.Save(ctx, usertable.User{ID: "u1", Name: "Ann", Roles: []usertable.Role{{Name: "admin"}}})
	require.NoError(t, err)

	u.Name = "Ann B."
	u.Roles = []usertable.Role{{Name: "viewer"}}
	_, err = store.Save(ctx, u)
	require.NoError(t, err)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", got.Name)
	assert.Equal(t, []string{"viewer"}, usertable.RoleNames(got))
}

func TestUserStore_ListOrdersByName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, u := range []usertable.User{
		{ID: "2", Name: "bo", Roles: []usertable.Role{{Name: "editor"}}},
		{ID: "1", Name: "Ann", Roles: []usertable.Role{{Name: "admin"}, {Name: "editor"}}},
		{ID: "3", Name: "Cy"},
	} {
		_, err := store.Save(ctx, u)
		require.NoError(t, err)
	}

	users, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Ann", users[0].Name)
	assert.Equal(t, []string{"admin", "editor"}, usertable.RoleNames(users[0]))
	assert.Equal(t, "bo", users[1].Name)
	assert.NotNil(t, users[2].Roles)
	assert.Empty(t, users[2].Roles)
}

func TestUserStore_SetArchived(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, usertable.User{ID: "u1", Name: "Ann"})
	require.NoError(t, err)

	require.NoError(t, store.SetArchived(ctx, "u1", true))
	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Archived)

	require.NoError(t, store.SetArchived(ctx, "u1", false))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.Archived)

	err = store.SetArchived(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_GetMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_SeedOnlyWhenEmpty(t *testing.T) {
	store := openTestStore(t)
	seedUsers := []usertable.User{
		{Name: "Ann", Email: "a@x.com", Roles: []usertable.Role{{Name: "admin"}}},
		{Name: "Bo", Email: "b@x.com", Archived: true},
	}
	ctx := context.Background()

	n, err := store.Seed(ctx, seedUsers)
	require.NoError(t, err)
	assert.Equal(t, len(seedUsers), n)

	n, err = store.Seed(ctx, seedUsers)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedUsers), count)
}

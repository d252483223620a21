package database_test

import (
	"context"
	"io"
	"testing"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both store drivers must agree on matching rules.
func storeDrivers(t *testing.T) map[string]domain.Repository {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]domain.Repository{
		"sqlite": db,
		"memory": repository.NewMemoryStore(),
	}
}

func TestStores_SearchAndEmailMatching(t *testing.T) {
	for name, store := range storeDrivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			owner := &models.User{Name: "Öz", Email: "Öz@Example.com"}
			require.NoError(t, store.CreateUser(ctx, owner))

			for _, it := range []*models.Item{
				{Name: "Стул", Description: "деревянный", Available: true, OwnerID: owner.ID},
				{Name: "Drill", Description: "Mit ÜBERLAST-Schutz", Available: true, OwnerID: owner.ID},
				{Name: "Стул складной", Description: "в ремонте", Available: false, OwnerID: owner.ID},
				{Name: "50% off", Description: "tent", Available: true, OwnerID: owner.ID},
			} {
				require.NoError(t, store.CreateItem(ctx, it))
			}

			names := func(text string) []string {
				items, err := store.SearchAvailableItems(ctx, text)
				require.NoError(t, err)
				out := []string{}
				for _, it := range items {
					out = append(out, it.Name)
				}
				return out
			}

			assert.Equal(t, []string{"Стул"}, names("стул"))
			assert.Equal(t, []string{"Стул"}, names("ДЕРЕВ"))
			assert.Equal(t, []string{"Drill"}, names("überlast"))
			assert.Equal(t, []string{"50% off"}, names("0%"))
			assert.Empty(t, names("_"))
			assert.Empty(t, names(" "))

			got, err := store.GetUserByEmail(ctx, "öz@example.COM")
			require.NoError(t, err)
			assert.Equal(t, owner.ID, got.ID)

			err = store.CreateUser(ctx, &models.User{Name: "Dup", Email: "ÖZ@EXAMPLE.COM"})
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

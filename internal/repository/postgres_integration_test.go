//go:build integration

package repository_test

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/UnknownOlympus/crust1/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRepository_Postgres(t *testing.T) {
	ctx := t.Context()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("crust"),
		postgres.WithUsername("crust"),
		postgres.WithPassword("crust"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)

	pool, err := repository.NewDatabase(host, port, "crust", "crust", "crust")
	require.NoError(t, err)
	defer pool.Close()

	repo := repository.NewRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be idempotent")

	_, err = pool.Exec(ctx, `
		INSERT INTO public.sites (code, latitude, longitude) VALUES
			('IU.ANMO', 34.9459, -106.4572),
			('XX.NONE', NULL, NULL),
			('II.KDAK', 57.7828, -152.5835);
	`)
	require.NoError(t, err)

	sites, err := repo.FetchSitesForProfiling(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "IU.ANMO", sites[0].Code)

	zeros := make([]float64, crust.GridSize)
	model, err := crust.New(crust.Grids{VP: zeros, VS: zeros, Rho: zeros, Bnds: zeros})
	require.NoError(t, err)
	point, err := model.Point(sites[0].Coordinates.Latitude, sites[0].Coordinates.Longitude, crust.WithZeroThickness())
	require.NoError(t, err)

	require.NoError(t, repo.SaveProfile(ctx, sites[0].ID, point))
	require.NoError(t, repo.SaveProfile(ctx, sites[0].ID, point), "saving twice replaces the layers")

	var layers int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM public.site_layers WHERE site_id = $1`, sites[0].ID).Scan(&layers))
	assert.Equal(t, crust.NumLayers, layers)

	for range 5 {
		require.NoError(t, repo.IncrementFailureCount(ctx, sites[1].ID, "out of range"))
	}

	sites, err = repo.FetchSitesForProfiling(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sites)
}

package repository

import (
	"context"
	_ "embed"
	"fmt"
	"net"
	"net/url"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/UnknownOlympus/crust1/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxProfilingAttempts is the number of failures after which a site is skipped.
const maxProfilingAttempts = 5

//go:embed schema.sql
var schemaSQL string

// NewDatabase opens a connection pool to PostgreSQL and checks it with a ping.
func NewDatabase(host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   name,
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the sites and site_layers tables when they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// FetchSitesForProfiling retrieves a list of sites that still need a crustal profile.
// It returns sites with coordinates, without a profile and with fewer than 5 failed
// attempts, ordered by creation date and limited to the specified count.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of sites to retrieve.
//
// Returns:
// - A slice of models.Site containing the sites that match the criteria.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchSitesForProfiling(ctx context.Context, limit int) ([]models.Site, error) {
	var sites []models.Site
	query := `
		SELECT site_id, code, latitude, longitude
		FROM public.sites
		WHERE
			profiled_at IS NULL
			AND profiling_attempts < $1
			AND latitude IS NOT NULL
			AND longitude IS NOT NULL
		ORDER BY created_at ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, maxProfilingAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites without profile: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var site models.Site
		if errScan := rows.Scan(
			&site.ID, &site.Code, &site.Coordinates.Latitude, &site.Coordinates.Longitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan site without profile: %w", errScan)
		}
		r.log.DebugContext(ctx, "A new site without profile has been received.",
			"ID", site.ID, "code", site.Code)
		sites = append(sites, site)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return sites, nil
}

// SaveProfile replaces the stored layers of a site with the layers of point and
// marks the site as profiled. All statements run in one transaction.
func (r *Repository) SaveProfile(ctx context.Context, siteID int, point *crust.Point) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = r.saveProfile(ctx, tx, siteID, point); err != nil {
		if errRollback := tx.Rollback(ctx); errRollback != nil {
			r.log.ErrorContext(ctx, "Failed to rollback profile transaction", "site", siteID, "error", errRollback)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	return nil
}

func (r *Repository) saveProfile(ctx context.Context, tx Database, siteID int, point *crust.Point) error {
	deleteQuery := `DELETE FROM public.site_layers WHERE site_id = $1;`
	if _, err := tx.Exec(ctx, deleteQuery, siteID); err != nil {
		return fmt.Errorf("failed to delete previous layers: %w", err)
	}

	insertQuery := `
		INSERT INTO public.site_layers
			(site_id, layer_index, layer, vp, vs, rho, layer_thickness, bnd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	var err error
	point.Each(func(l crust.Layer, props crust.LayerProperties) bool {
		_, err = tx.Exec(ctx, insertQuery,
			siteID, int(l), l.String(), props.VP, props.VS, props.Rho, props.Thickness, props.Boundary)
		if err != nil {
			err = fmt.Errorf("failed to insert layer %s: %w", l, err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	updateQuery := `
		UPDATE public.sites
		SET
			lat_bucket = $1,
			lon_bucket = $2,
			profiled_at = now(),
			profiling_error = NULL
		WHERE
			site_id = $3;
	`
	if _, err = tx.Exec(ctx, updateQuery, point.Index.Lat, point.Index.Lon, siteID); err != nil {
		return fmt.Errorf("failed to mark site as profiled: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the profiling attempt count for a specific site
// identified by siteID and updates the associated error message. If the update
// operation fails, it returns an error with additional context.
func (r *Repository) IncrementFailureCount(ctx context.Context, siteID int, errMsg string) error {
	query := `
		UPDATE public.sites
		SET
			profiling_attempts = profiling_attempts + 1,
			profiling_error = $1
		WHERE site_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, siteID)
	if err != nil {
		return fmt.Errorf("failed to update profiling error and number of attempts: %w", err)
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/UnknownOlympus/crust1/internal/metrics"
	"github.com/UnknownOlympus/crust1/internal/models"
	"github.com/UnknownOlympus/crust1/internal/repository"
)

// Model answers point queries; *crust.Model implements it.
type Model interface {
	Point(lat, lon float64, opts ...crust.QueryOption) (*crust.Point, error)
}

// ProfilingService resolves crustal profiles for stored sites. It periodically
// fetches sites without a profile, queries the model for each of them with a
// pool of workers and writes the layers back to the repository.
type ProfilingService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	model        Model                // Crust model answering point queries
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	numWorkers   int                  // Number of concurrent workers for processing
	pollInterval time.Duration        // Interval for polling new sites
	batchSize    int                  // Maximum number of sites fetched per round
}

// NewProfilingService creates a new instance of ProfilingService.
func NewProfilingService(
	log *slog.Logger,
	repo repository.Interface,
	model Model,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	batchSize int,
) *ProfilingService {
	return &ProfilingService{
		log:          log,
		repo:         repo,
		model:        model,
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run starts the profiling service, which periodically polls for new sites.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (ps *ProfilingService) Run(ctx context.Context) {
	ticker := time.NewTicker(ps.pollInterval)
	defer ticker.Stop()

	ps.log.InfoContext(ctx, "Profiling service started...")

	for {
		select {
		case <-ctx.Done():
			ps.log.InfoContext(ctx, "Profiling service stopped.")
			return
		case <-ticker.C:
			ps.log.InfoContext(ctx, "Polling for new sites to profile...")
			ps.processSites(ctx)
		}
	}
}

// processSites fetches sites from the repository, starts a worker pool to process
// them and waits for all workers to finish.
func (ps *ProfilingService) processSites(ctx context.Context) {
	sites, err := ps.repo.FetchSitesForProfiling(ctx, ps.batchSize)
	if err != nil {
		ps.log.ErrorContext(ctx, "Failed to fetch sites", "error", err)
		return
	}
	if len(sites) == 0 {
		ps.log.InfoContext(ctx, "No sites to process.")
		return
	}

	ps.log.InfoContext(
		ctx,
		"Found sites to process. Starting worker pool.",
		"jobs", len(sites),
		"num_workers", ps.numWorkers,
	)

	jobs := make(chan models.Site, len(sites))
	var wgr sync.WaitGroup

	for i := 1; i <= ps.numWorkers; i++ {
		wgr.Add(1)
		go ps.worker(ctx, i, &wgr, jobs)
	}

	for _, site := range sites {
		jobs <- site
	}
	close(jobs)

	wgr.Wait()
	ps.log.InfoContext(ctx, "Processing batch finished")
}

// worker processes sites from the jobs channel. A site whose coordinates fall
// outside the grid is recorded as a failure; it is not retried in this round.
func (ps *ProfilingService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Site) {
	defer wg.Done()
	for site := range jobs {
		ps.metrics.ActiveWorkers.Inc()
		ps.processSite(ctx, idx, site)
		ps.metrics.ActiveWorkers.Dec()
	}
}

func (ps *ProfilingService) processSite(ctx context.Context, idx int, site models.Site) {
	ps.log.DebugContext(ctx, "Processing site", "worker", idx, "site", site.ID, "code", site.Code)

	start := time.Now()
	point, err := ps.model.Point(site.Coordinates.Latitude, site.Coordinates.Longitude)
	ps.metrics.QuerySeconds.WithLabelValues("profiler").Observe(time.Since(start).Seconds())

	if err != nil {
		status := metrics.StatusFailure
		if errors.Is(err, crust.ErrOutOfRange) {
			status = metrics.StatusOutOfRange
		}
		ps.log.WarnContext(ctx, "Failed to resolve profile", "worker", idx, "site", site.ID, "error", err)
		ps.metrics.PointQueries.WithLabelValues("profiler", status).Inc()
		ps.metrics.SitesProfiled.WithLabelValues(metrics.StatusFailure).Inc()

		if err = ps.repo.IncrementFailureCount(ctx, site.ID, err.Error()); err != nil {
			ps.log.ErrorContext(ctx, "Could not update failure count for site",
				"worker", idx, "site", site.ID, "error", err)
		}
		return
	}

	ps.metrics.PointQueries.WithLabelValues("profiler", metrics.StatusSuccess).Inc()
	ps.metrics.PointLayers.WithLabelValues("profiler").Observe(float64(point.Len()))

	if err = ps.repo.SaveProfile(ctx, site.ID, point); err != nil {
		ps.log.ErrorContext(ctx, "Failed to save profile for site", "worker", idx, "site", site.ID, "error", err)
		ps.metrics.SitesProfiled.WithLabelValues(metrics.StatusFailure).Inc()
		return
	}

	ps.metrics.SitesProfiled.WithLabelValues(metrics.StatusSuccess).Inc()
	ps.log.DebugContext(ctx, "Worker successfully processed the site",
		"worker", idx, "site", site.ID, "layers", point.Len())
}

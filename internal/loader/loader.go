// Package loader reads the CRUST 1.0 distribution files (crust1.vp, crust1.vs,
// crust1.rho, crust1.bnds) from a directory or an HTTP mirror and builds a
// crust.Model from them.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/crust1/internal/crust"
)

// ParseValues reads whitespace separated floats from r. It fails unless r
// holds exactly want values. All errors wrap crust.ErrLoad.
func ParseValues(r io.Reader, want int) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	vals := make([]float64, 0, want)
	for scanner.Scan() {
		if len(vals) == want {
			return nil, fmt.Errorf("%w: more than %d values", crust.ErrLoad, want)
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", crust.ErrLoad, len(vals)+1, err)
		}
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", crust.ErrLoad, err)
	}
	if len(vals) != want {
		return nil, fmt.Errorf("%w: got %d values, want %d", crust.ErrLoad, len(vals), want)
	}

	return vals, nil
}

// Load reads all four data files from src.
func Load(ctx context.Context, src Source) (crust.Grids, error) {
	var grids crust.Grids
	targets := map[Property]*[]float64{
		PropertyVP:   &grids.VP,
		PropertyVS:   &grids.VS,
		PropertyRho:  &grids.Rho,
		PropertyBnds: &grids.Bnds,
	}

	for _, prop := range Properties() {
		if err := ctx.Err(); err != nil {
			return crust.Grids{}, fmt.Errorf("%w: %w", crust.ErrLoad, err)
		}
		vals, err := loadProperty(ctx, src, prop)
		if err != nil {
			return crust.Grids{}, err
		}
		*targets[prop] = vals
	}

	return grids, nil
}

func loadProperty(ctx context.Context, src Source, prop Property) ([]float64, error) {
	rc, err := src.Open(ctx, prop)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", crust.ErrLoad, prop.FileName(), err)
	}
	defer rc.Close()

	vals, err := ParseValues(rc, crust.GridSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", prop.FileName(), err)
	}
	return vals, nil
}

// LoadModel reads the data files from src and builds a model. It returns the
// time spent so callers can report it.
func LoadModel(ctx context.Context, src Source, log *slog.Logger) (*crust.Model, time.Duration, error) {
	start := time.Now()
	log.InfoContext(ctx, "Loading CRUST 1.0 model")

	grids, err := Load(ctx, src)
	if err != nil {
		return nil, 0, err
	}

	model, err := crust.New(grids)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", crust.ErrLoad, err)
	}

	elapsed := time.Since(start)
	log.InfoContext(ctx, "CRUST 1.0 model loaded", "shape", model.Shape(), "duration", elapsed)

	return model, elapsed, nil
}

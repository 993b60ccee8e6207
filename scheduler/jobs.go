package scheduler

import (
	"context"
	"errors"

	"news-spectrum/services"
)

type GlobalWarmer interface {
	Warm(ctx context.Context) error
}

type TrendsWarmer interface {
	WarmTrends(ctx context.Context, q services.TrendsQuery) error
}

// Sweeper drops idle per-client state.
type Sweeper interface {
	Sweep() int
}

// WarmGlobal refreshes the cached global insights listing.
func WarmGlobal(w GlobalWarmer) Job {
	return Job{Name: "warm-global", Run: w.Warm}
}

// WarmTrends refreshes the first trends page of each country.
func WarmTrends(w TrendsWarmer, countries ...string) Job {
	return Job{Name: "warm-trends", Run: func(ctx context.Context) error {
		var errs []error
		for _, c := range countries {
			if err := w.WarmTrends(ctx, services.TrendsQuery{Country: c}); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}}
}

func SweepClients(s Sweeper) Job {
	return Job{Name: "sweep-clients", Run: func(context.Context) error {
		s.Sweep()
		return nil
	}}
}

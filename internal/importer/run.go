package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/models"
)

// Store is the subset of the car repository the importer writes through.
type Store interface {
	Upsert(ctx context.Context, c *models.Car) (bool, error)
	ExistsByExternalLink(ctx context.Context, link string) (bool, error)
}

// Summary counts what happened to each record of a run.
type Summary struct {
	RunID   string `json:"run_id"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Importer writes normalized listings into a Store.
type Importer struct {
	store Store
	log   *zap.Logger

	// SkipExisting leaves listings whose link is already stored untouched.
	SkipExisting bool
}

// New returns an Importer with SkipExisting enabled.
func New(store Store, log *zap.Logger) *Importer {
	return &Importer{store: store, log: log, SkipExisting: true}
}

// Run imports listings one by one. Sold listings are skipped. A record that
// fails to normalize or store is counted as failed and the run continues.
// Run stops early only when ctx is done.
func (im *Importer) Run(ctx context.Context, listings []Listing) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := im.log.With(zap.String("run_id", sum.RunID))
	log.Info("import started", zap.Int("listings", len(listings)))

	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("import interrupted: %w", err)
		}

		rec := log.With(zap.String("link", l.Link), zap.String("plate", l.LicensePlate))

		if l.Sold {
			rec.Debug("skipped sold listing")
			sum.Skipped++
			continue
		}

		if im.SkipExisting && l.Link != "" {
			exists, err := im.store.ExistsByExternalLink(ctx, l.Link)
			if err != nil {
				rec.Warn("lookup failed", zap.Error(err))
				sum.Failed++
				continue
			}
			if exists {
				rec.Debug("skipped known listing")
				sum.Skipped++
				continue
			}
		}

		car, err := Normalize(l)
		if err != nil {
			rec.Warn("normalize failed", zap.Error(err))
			sum.Failed++
			continue
		}

		created, err := im.store.Upsert(ctx, &car)
		if err != nil {
			rec.Warn("upsert failed", zap.Error(err))
			sum.Failed++
			continue
		}
		if created {
			rec.Info("created listing", zap.Int64("id", car.ID))
			sum.Created++
		} else {
			rec.Info("updated listing", zap.Int64("id", car.ID))
			sum.Updated++
		}
	}

	log.Info("import finished",
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}

package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type tenderExpiryRepo interface {
	DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

// TenderExpiryJobParams configure the tender expiry sweep.
type TenderExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository tenderExpiryRepo
}

// NewTenderExpiryJob deactivates transportation tenders whose deadline has
// passed so they drop off the public listing.
func NewTenderExpiryJob(params TenderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("tenders repository required")
	}
	return &tenderExpiryJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type tenderExpiryJob struct {
	logg *logger.Logger
	db   txRunner
	repo tenderExpiryRepo
	now  func() time.Time
}

func (j *tenderExpiryJob) Name() string { return "tender-expiry" }

func (j *tenderExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var closed int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeactivateExpired(ctx, tx, now)
		if err != nil {
			return err
		}
		closed = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("tender expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":       now,
		"rows_closed": closed,
	})
	j.logg.Info(logCtx, "tender expiry sweep complete")
	return nil
}

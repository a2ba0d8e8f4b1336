package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	cron "github.com/robfig/cron/v3"

	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

// ArchiveKey is where a merchant's monthly workbook is kept.
func ArchiveKey(userID uuid.UUID, month models.YearMonth) string {
	return fmt.Sprintf("exports/%s/Saree_Ledger_%s.xlsx", userID, month)
}

// ArchiveJob writes the previous month's ledger for every merchant to object
// storage on a cron schedule.
type ArchiveJob struct {
	reports *ReportService
	store   clients.ObjectStore
	log     *logger.Logger
	now     func() time.Time
	cron    *cron.Cron
}

func NewArchiveJob(reports *ReportService, store clients.ObjectStore, log *logger.Logger) *ArchiveJob {
	return &ArchiveJob{
		reports: reports,
		store:   store,
		log:     log.With("job", "LedgerArchive"),
		now:     time.Now,
	}
}

// Start schedules the job. schedule is a standard five-field cron expression.
func (j *ArchiveJob) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		month := models.DateOf(j.now()).YearMonth().Previous()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := j.RunFor(ctx, month); err != nil {
			j.log.Error("ledger archive run failed", "month", month.String(), "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid archive schedule %q: %w", schedule, err)
	}
	c.Start()
	j.cron = c
	j.log.Info("ledger archive scheduled", "schedule", schedule)
	return nil
}

// Stop waits for a running archive to finish.
func (j *ArchiveJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// RunFor archives one month and reports how many workbooks were stored. A
// failure for one merchant is logged and the run moves on.
func (j *ArchiveJob) RunFor(ctx context.Context, month models.YearMonth) (int, error) {
	merchants, err := j.reports.MerchantsWithSales(ctx, month)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, userID := range merchants {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if err := j.archiveOne(ctx, userID, month); err != nil {
			j.log.Warn("ledger archive failed", "user_id", userID, "month", month.String(), "error", err)
			continue
		}
		stored++
	}
	j.log.Info("ledger archive finished", "month", month.String(), "merchants", len(merchants), "stored", stored)
	return stored, nil
}

func (j *ArchiveJob) archiveOne(ctx context.Context, userID uuid.UUID, month models.YearMonth) error {
	ledger, err := j.reports.Ledger(ctx, userID, month)
	if errors.Is(err, ErrNoSales) {
		return nil
	}
	if err != nil {
		return err
	}
	buf, err := WriteLedgerWorkbook(ledger)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	return j.store.Upload(ctx, ArchiveKey(userID, month), bytes.NewReader(buf.Bytes()))
}

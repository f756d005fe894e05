package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
)

// FolioGenerator hands out receipt numbers. The per-day counter row stays
// locked until the enclosing transaction ends, so two sales created the same
// day never share a folio.
type FolioGenerator struct{}

// Next returns the next folio for the calendar day of date.
func (FolioGenerator) Next(ctx context.Context, uow portsrepo.UnitOfWork, date time.Time) (domain.Folio, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	seq, err := uow.Folios().NextFolioSequence(ctx, day)
	if err != nil {
		return domain.Folio{}, err
	}
	if seq > domain.MaxFolioSequence {
		return domain.Folio{}, apperrors.Newf(apperrors.CodeInvalidArgument, "folio sequence for %s is exhausted", day.Format("2006-01-02"))
	}
	return domain.NewFolio(day, seq)
}

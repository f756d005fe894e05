package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/SscSPs/pos_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// cashDrawerService implements the CashDrawerSvcFacade interface
type cashDrawerService struct {
	BaseService
}

// NewCashDrawerService creates the cash drawer service.
func NewCashDrawerService(factory portsrepo.UnitOfWorkFactory, options ...ServiceOption) portssvc.CashDrawerSvcFacade {
	return &cashDrawerService{
		BaseService: newBaseService(factory, buildOptions(options)),
	}
}

// Ensure cashDrawerService implements the CashDrawerSvcFacade interface
var _ portssvc.CashDrawerSvcFacade = (*cashDrawerService)(nil)

func (s *cashDrawerService) GetOpenDrawer(ctx context.Context) (*domain.CashDrawer, error) {
	var drawer *domain.CashDrawer
	err := s.withTransaction(ctx, "drawer.get_open", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := findOpenDrawer(ctx, uow)
		drawer = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get open drawer")
		return nil, err
	}
	return drawer, nil
}

func (s *cashDrawerService) ListMovements(ctx context.Context, drawerID string, params dto.ListParams) (*dto.ListCashMovementsResponse, error) {
	after, err := pagination.DecodeCursor(params.NextToken)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error())
	}
	limit := params.PageLimit()

	var movements []domain.CashMovement
	err = s.withTransaction(ctx, "drawer.list_movements", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := uow.CashDrawers().FindCashDrawerByID(ctx, drawerID); err != nil {
			return err
		}
		found, err := uow.CashDrawers().ListCashMovements(ctx, drawerID, limit+1, after)
		movements = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list cash movements", slog.String("drawer_id", drawerID))
		return nil, err
	}

	resp := &dto.ListCashMovementsResponse{}
	if len(movements) > limit {
		movements = movements[:limit]
		last := movements[len(movements)-1]
		resp.NextToken = pagination.EncodeCursor(&portsrepo.PageCursor{CreatedAt: last.CreatedAt, ID: last.MovementID})
	}
	resp.Movements = dto.ToCashMovementResponses(movements)
	return resp, nil
}

// OpenDrawer opens drawer number, creating it the first time it is used.
// Only one drawer may be open at a time.
func (s *cashDrawerService) OpenDrawer(ctx context.Context, number int, openingFloat decimal.Decimal, userID string) (*domain.CashDrawer, error) {
	var drawer *domain.CashDrawer
	err := s.withTransaction(ctx, "drawer.open", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		open, err := uow.CashDrawers().FindOpenCashDrawer(ctx)
		switch {
		case err == nil:
			return apperrors.Newf(apperrors.CodeDrawerAlreadyOpen, "drawer %d is already open", open.Number)
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		found, err := uow.CashDrawers().FindCashDrawerByNumber(ctx, number)
		isNew := false
		if errors.Is(err, apperrors.ErrNotFound) {
			found, err = domain.NewCashDrawer(number, fmt.Sprintf("Caja %d", number))
			isNew = true
		}
		if err != nil {
			return err
		}

		if err := found.Open(openingFloat, userID); err != nil {
			return err
		}
		if isNew {
			err = uow.CashDrawers().SaveCashDrawer(ctx, found)
		} else {
			err = uow.CashDrawers().UpdateCashDrawer(ctx, found)
		}
		if err != nil {
			return err
		}
		drawer = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to open drawer", slog.Int("number", number))
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:        events.DrawerOpened,
		AggregateID: drawer.DrawerID,
		Amount:      openingFloat,
		UserID:      userID,
		Attributes:  map[string]any{"number": drawer.Number, "sessionID": drawer.SessionID()},
	})
	s.LogInfo(ctx, "Cash drawer opened",
		slog.String("drawer_id", drawer.DrawerID),
		slog.Int("number", drawer.Number),
		slog.String("opening_float", openingFloat.StringFixed(2)))
	return drawer, nil
}

// CloseDrawer closes the open drawer and books any difference between the
// declared and the calculated balance.
func (s *cashDrawerService) CloseDrawer(ctx context.Context, declared decimal.Decimal, userID, notes string) (*domain.CashDrawer, error) {
	var (
		drawer   *domain.CashDrawer
		expected decimal.Decimal
	)
	err := s.withTransaction(ctx, "drawer.close", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := findOpenDrawer(ctx, uow)
		if err != nil {
			return err
		}
		expected = found.CalculatedBalance()
		if err := found.Close(declared, userID, notes); err != nil {
			return err
		}
		if err := uow.CashDrawers().UpdateCashDrawer(ctx, found); err != nil {
			return err
		}
		drawer = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to close drawer")
		return nil, err
	}

	difference := decimal.Zero
	if d := drawer.Difference(); d != nil {
		difference = *d
	}
	s.publish(ctx, events.Event{
		Type:        events.DrawerClosed,
		AggregateID: drawer.DrawerID,
		Amount:      declared,
		UserID:      userID,
		Attributes: map[string]any{
			"number":     drawer.Number,
			"expected":   expected.StringFixed(2),
			"difference": difference.StringFixed(2),
		},
	})
	logArgs := []any{
		slog.String("drawer_id", drawer.DrawerID),
		slog.String("expected", expected.StringFixed(2)),
		slog.String("declared", declared.StringFixed(2)),
		slog.String("difference", difference.StringFixed(2)),
	}
	if difference.IsZero() {
		s.LogInfo(ctx, "Cash drawer closed", logArgs...)
	} else {
		s.GetLogger(ctx).Warn("Cash drawer closed with a difference", logArgs...)
	}
	return drawer, nil
}

func (s *cashDrawerService) WithdrawCash(ctx context.Context, amount decimal.Decimal, reason, userID string) (*domain.CashDrawer, error) {
	return s.registerMovement(ctx, "drawer.withdraw", func(d *domain.CashDrawer) error {
		return d.RegisterWithdrawal(amount, reason, userID)
	}, slog.String("kind", string(domain.CashWithdrawal)), slog.String("amount", amount.StringFixed(2)))
}

func (s *cashDrawerService) DepositCash(ctx context.Context, amount decimal.Decimal, reason, userID string) (*domain.CashDrawer, error) {
	return s.registerMovement(ctx, "drawer.deposit", func(d *domain.CashDrawer) error {
		return d.RegisterDeposit(amount, reason, userID)
	}, slog.String("kind", string(domain.CashDeposit)), slog.String("amount", amount.StringFixed(2)))
}

func (s *cashDrawerService) registerMovement(ctx context.Context, operation string, apply func(*domain.CashDrawer) error, logArgs ...any) (*domain.CashDrawer, error) {
	var drawer *domain.CashDrawer
	err := s.withTransaction(ctx, operation, portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := findOpenDrawer(ctx, uow)
		if err != nil {
			return err
		}
		if err := apply(found); err != nil {
			return err
		}
		if err := uow.CashDrawers().UpdateCashDrawer(ctx, found); err != nil {
			return err
		}
		drawer = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to register cash movement", logArgs...)
		return nil, err
	}
	s.LogInfo(ctx, "Cash movement registered", append(logArgs, slog.String("balance", drawer.Balance().StringFixed(2)))...)
	return drawer, nil
}

package orderservice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/domain/orders"
	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/contracts"
)

// Service implements ports.OrderService. It owns the order lifecycle: line
// aggregation, catalog resolution, ownership enforcement, payment-event
// emission, and event-driven status transitions.
type Service struct {
	uow      ports.UnitOfWork
	orders   ports.OrderRepository
	items    ports.ItemRepository
	users    ports.UserDirectory
	payments ports.PaymentPublisher
	log      *zap.Logger
}

var _ ports.OrderService = (*Service)(nil)

// New creates the order lifecycle manager with the required dependencies.
func New(
	uow ports.UnitOfWork,
	orderRepo ports.OrderRepository,
	itemRepo ports.ItemRepository,
	users ports.UserDirectory,
	payments ports.PaymentPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		uow:      uow,
		orders:   orderRepo,
		items:    itemRepo,
		users:    users,
		payments: payments,
		log:      log,
	}
}

// Create assembles and persists a new order, then emits the create-payment
// event and enriches the response with the owner's profile. The persist is the
// committing action; the publish and the profile fetch happen outside the
// transaction boundary.
func (s *Service) Create(ctx context.Context, cmd ports.CreateOrderCommand) (ports.OrderView, error) {
	order := &orders.Order{
		UserID:       cmd.UserID,
		Status:       cmd.Status,
		CreationDate: time.Now().UTC(),
	}

	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		lines, err := s.resolveLines(txCtx, cmd.Lines)
		if err != nil {
			return err
		}
		order.Lines = lines
		return s.orders.Create(txCtx, order)
	})
	if err != nil {
		s.log.Warn("order creation failed", zap.Int64("user_id", cmd.UserID), zap.Error(err))
		return ports.OrderView{}, err
	}

	s.log.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int("lines", len(order.Lines)),
	)

	// fire-and-forget: a publish failure never rolls the order back
	if err := s.payments.PublishCreatePayment(ctx, order.ID, order.UserID, order.TotalAmount()); err != nil {
		s.log.Error("failed to send CREATE_ORDER event", zap.Int64("order_id", order.ID), zap.Error(err))
	}

	return ports.OrderView{Order: order, User: s.users.Fetch(ctx, cmd.UserID, cmd.Token)}, nil
}

// Get returns a single order after an ownership check.
func (s *Service) Get(ctx context.Context, orderID, userID int64, token string) (ports.OrderView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return ports.OrderView{}, err
	}
	if err := checkOwnership(order, userID); err != nil {
		return ports.OrderView{}, err
	}

	return ports.OrderView{Order: order, User: s.users.Fetch(ctx, userID, token)}, nil
}

// GetByIDs batch-loads orders; ownership is verified on every returned order,
// failing fast on the first foreign one. The profile lookup is shared.
func (s *Service) GetByIDs(ctx context.Context, ids []int64, userID int64, token string) ([]ports.OrderView, error) {
	found, err := s.orders.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errs.NotFound("None of the orders with ids %v were found", ids)
	}

	for i := range found {
		if err := checkOwnership(&found[i], userID); err != nil {
			return nil, err
		}
	}

	user := s.users.Fetch(ctx, userID, token)
	views := make([]ports.OrderView, len(found))
	for i := range found {
		views[i] = ports.OrderView{Order: &found[i], User: user}
	}
	return views, nil
}

// GetByStatus parses the status case-insensitively and loads the requester's
// orders with that status; ownership is enforced at the query level here.
func (s *Service) GetByStatus(ctx context.Context, status string, userID int64, token string) ([]ports.OrderView, error) {
	parsed, err := orders.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	found, err := s.orders.GetByStatusAndUser(ctx, parsed, userID)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errs.NotFound("None of the orders with status %s were found", parsed)
	}

	user := s.users.Fetch(ctx, userID, token)
	views := make([]ports.OrderView, len(found))
	for i := range found {
		views[i] = ports.OrderView{Order: &found[i], User: user}
	}
	return views, nil
}

// Update sets the new status unconditionally and, when lines are supplied,
// replaces the order's lines wholesale after re-running aggregation/resolution.
func (s *Service) Update(ctx context.Context, cmd ports.UpdateOrderCommand) (ports.OrderView, error) {
	var order *orders.Order

	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orders.GetByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}
		if err := checkOwnership(order, cmd.UserID); err != nil {
			return err
		}

		order.Status = cmd.Status
		if err := s.orders.UpdateStatus(txCtx, order.ID, cmd.Status); err != nil {
			return err
		}

		if cmd.Lines != nil {
			lines, err := s.resolveLines(txCtx, cmd.Lines)
			if err != nil {
				return err
			}
			if err := s.orders.ReplaceLines(txCtx, order.ID, lines); err != nil {
				return err
			}
			order.Lines = lines
		}
		return nil
	})
	if err != nil {
		s.log.Warn("order update failed", zap.Int64("order_id", cmd.OrderID), zap.Error(err))
		return ports.OrderView{}, err
	}

	s.log.Info("order updated", zap.Int64("order_id", order.ID), zap.String("status", string(order.Status)))

	return ports.OrderView{Order: order, User: s.users.Fetch(ctx, cmd.UserID, cmd.Token)}, nil
}

// Delete removes an order permanently after an ownership check.
func (s *Service) Delete(ctx context.Context, orderID, userID int64) error {
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := checkOwnership(order, userID); err != nil {
			return err
		}
		return s.orders.Delete(txCtx, orderID)
	})
	if err != nil {
		s.log.Warn("order deletion failed", zap.Int64("order_id", orderID), zap.Error(err))
		return err
	}

	s.log.Info("order deleted", zap.Int64("order_id", orderID))
	return nil
}

// ApplyPaymentOutcome transitions the order's status from an inbound payment
// event: COMPLETED maps to PAYMENT_RECEIVED, anything else to PAYMENT_FAILED.
// System-to-system trust boundary: no ownership check.
func (s *Service) ApplyPaymentOutcome(ctx context.Context, orderID int64, paymentStatus string) error {
	next := orders.StatusPaymentFailed
	if paymentStatus == contracts.PaymentStatusCompleted {
		next = orders.StatusPaymentReceived
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}

	s.log.Info("payment outcome applied",
		zap.Int64("order_id", orderID),
		zap.String("payment_status", paymentStatus),
		zap.String("order_status", string(next)),
	)
	return nil
}

// resolveLines aggregates duplicate item references (summing quantities) and
// resolves the distinct ids against the catalog in one batch lookup.
func (s *Service) resolveLines(ctx context.Context, inputs []ports.OrderLineInput) ([]orders.OrderLine, error) {
	requests := make([]orders.LineRequest, len(inputs))
	for i, in := range inputs {
		requests[i] = orders.LineRequest{ItemID: in.ItemID, Quantity: in.Quantity}
	}
	aggregated := orders.AggregateLines(requests)

	ids := make([]int64, len(aggregated))
	for i, req := range aggregated {
		ids[i] = req.ItemID
	}

	resolved, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resolved) < len(aggregated) {
		return nil, errs.NotFound("Some requested items were not found. Expected: %d items, Found: %d", len(aggregated), len(resolved))
	}

	byID := make(map[int64]int, len(resolved))
	for i := range resolved {
		byID[resolved[i].ID] = i
	}

	lines := make([]orders.OrderLine, len(aggregated))
	for i, req := range aggregated {
		item := resolved[byID[req.ItemID]]
		lines[i] = orders.OrderLine{
			ItemID:    item.ID,
			ItemName:  item.Name,
			ItemPrice: item.Price,
			Quantity:  req.Quantity,
		}
	}
	return lines, nil
}

// checkOwnership verifies the requester owns the order.
func checkOwnership(order *orders.Order, userID int64) error {
	if order.UserID != userID {
		return errs.AccessDenied("User %d does not have access to order %d", userID, order.ID)
	}
	return nil
}

package itemservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/domain/items"
	"github.com/abekenza/order-service/internal/ports"
)

// Service implements ports.ItemService.
type Service struct {
	uow  ports.UnitOfWork
	repo ports.ItemRepository
	log  *zap.Logger
}

var _ ports.ItemService = (*Service)(nil)

// New creates the item lifecycle manager with the required dependencies.
func New(uow ports.UnitOfWork, repo ports.ItemRepository, log *zap.Logger) *Service {
	return &Service{uow: uow, repo: repo, log: log}
}

// Create persists a new catalog item after an advisory uniqueness check.
// The DB unique constraint backstops a concurrent creation with the same name.
func (s *Service) Create(ctx context.Context, in ports.ItemInput) (*items.Item, error) {
	item := &items.Item{Name: in.Name, Price: in.Price}

	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.validateNameUnique(txCtx, in.Name); err != nil {
			return err
		}
		return s.repo.Create(txCtx, item)
	})
	if err != nil {
		s.log.Warn("item creation failed", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}

	s.log.Info("item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// Get loads a single item.
func (s *Service) Get(ctx context.Context, id int64) (*items.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a new name/price to an existing item. The uniqueness check is
// re-run only when the name actually changes.
func (s *Service) Update(ctx context.Context, id int64, in ports.ItemInput) (*items.Item, error) {
	var item *items.Item

	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if item.Name != in.Name {
			if err := s.validateNameUnique(txCtx, in.Name); err != nil {
				return err
			}
		}

		item.Name = in.Name
		item.Price = in.Price
		return s.repo.Update(txCtx, item)
	})
	if err != nil {
		s.log.Warn("item update failed", zap.Int64("item_id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("item updated", zap.Int64("item_id", item.ID))
	return item, nil
}

// Delete removes an item permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, id); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		s.log.Warn("item deletion failed", zap.Int64("item_id", id), zap.Error(err))
		return err
	}

	s.log.Info("item deleted", zap.Int64("item_id", id))
	return nil
}

func (s *Service) validateNameUnique(ctx context.Context, name string) error {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return errs.Duplicate("Item %s already exists", name)
	}
	return nil
}

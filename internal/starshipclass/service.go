package starshipclass

import (
	"context"
	"log/slog"

	"starships-server/internal/shared/database"
	"starships-server/internal/shared/errors"
)

// StarshipCascader rewrites the mirrored stats of every starship of a class inside tx.
type StarshipCascader interface {
	ApplyClassCapacity(ctx context.Context, classID int, fuelCapacity, hullPoints *int, tx *database.Tx) (int64, error)
}

// CapacityInvalidator drops cached capacity for a class after it changed.
type CapacityInvalidator interface {
	Invalidate(ctx context.Context, classID int) error
}

type Service struct {
	db          *database.DB
	repo        *Repository
	cascader    StarshipCascader
	invalidator CapacityInvalidator
	logger      *slog.Logger
}

func NewService(db *database.DB, repo *Repository, cascader StarshipCascader, invalidator CapacityInvalidator, logger *slog.Logger) *Service {
	logger.Debug("Initializing starship class service")

	return &Service{
		db:          db,
		repo:        repo,
		cascader:    cascader,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (*StarshipClass, error) {
	logger := s.logger.With("component", "starship_class_service", "operation", "create")

	in.normalize()
	if err := in.validateCreate(); err != nil {
		return nil, err
	}

	class, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, s.classifyWriteError(err)
	}

	logger.Info("Starship class created", "class_id", class.ID, "name", class.Name)
	return class, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*StarshipClass, error) {
	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.WrapInternal("failed to retrieve starship class", err)
	}
	if class == nil {
		return nil, errors.NotFoundf("cannot find a starship class with id=%d", id)
	}
	return class, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*StarshipClass, error) {
	class, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, errors.WrapInternal("failed to retrieve starship class", err)
	}
	if class == nil {
		return nil, errors.NotFoundf("cannot find a starship class with name=%s", name)
	}
	return class, nil
}

func (s *Service) List(ctx context.Context) ([]StarshipClass, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list starship classes", err)
	}
	return classes, nil
}

// GetCapacity resolves the stats starships mirror. It backs the local capacity lookup.
func (s *Service) GetCapacity(ctx context.Context, id int) (*Capacity, error) {
	capacity, err := s.repo.GetCapacity(ctx, id)
	if err != nil {
		return nil, errors.WrapInternal("failed to retrieve starship class capacity", err)
	}
	if capacity == nil {
		return nil, errors.NotFoundf("cannot find a starship class with id=%d", id)
	}
	return capacity, nil
}

func (s *Service) GetFuelCapacity(ctx context.Context, id int) (*FuelCapacity, error) {
	capacity, err := s.GetCapacity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FuelCapacity{ID: capacity.ID, FuelCapacity: capacity.FuelCapacity}, nil
}

// Update changes a class and, when capacity fields change, every starship of the class
// in the same transaction. A failed cascade leaves the class untouched.
func (s *Service) Update(ctx context.Context, id int, in Input) (*StarshipClass, error) {
	logger := s.logger.With("component", "starship_class_service", "operation", "update", "class_id", id)

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *StarshipClass
	var cascaded int64
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		affected, err := s.repo.Update(ctx, id, in, tx)
		if err != nil {
			return s.classifyWriteError(err)
		}
		if affected == 0 {
			return errors.NotFoundf("cannot update starship class with id=%d: not found", id)
		}

		if in.TouchesCapacity() {
			cascaded, err = s.cascader.ApplyClassCapacity(ctx, id, in.FuelCapacity, in.HullPoints, tx)
			if err != nil {
				return errors.WrapInternal("failed to update starships of the class", err)
			}
		}

		updated, err = s.repo.GetByIDTx(ctx, id, tx)
		if err != nil {
			return errors.WrapInternal("failed to reload starship class", err)
		}
		return nil
	})
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeInternal {
			logger.Warn("Starship class update rolled back", "error", err)
		}
		return nil, err
	}

	if in.TouchesCapacity() {
		s.invalidate(ctx, id)
	}

	logger.Info("Starship class updated", "starships_cascaded", cascaded)
	return updated, nil
}

// Delete removes a class. It reports false without error when no class matched.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	logger := s.logger.With("component", "starship_class_service", "operation", "delete", "class_id", id)

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, errors.Conflictf("starship class with id=%d still has starships", id)
		}
		return false, errors.WrapInternal("failed to delete starship class", err)
	}

	if affected == 0 {
		logger.Debug("No starship class deleted")
		return false, nil
	}

	s.invalidate(ctx, id)
	logger.Info("Starship class deleted")
	return true, nil
}

func (s *Service) invalidate(ctx context.Context, id int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate cached capacity", "class_id", id, "error", err)
	}
}

func (s *Service) classifyWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return errors.Conflictf("a starship class with this name or color already exists")
	}
	if database.IsCheckViolation(err) {
		return errors.WrapValidation("starship class values out of range", err)
	}
	return errors.WrapInternal("failed to save starship class", err)
}

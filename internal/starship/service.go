package starship

import (
	"context"
	"log/slog"

	"starships-server/internal/shared/database"
	"starships-server/internal/shared/errors"
	"starships-server/internal/starshipclass"
)

// CapacityLookup resolves the capacity of the class a starship refers to.
type CapacityLookup interface {
	GetCapacity(ctx context.Context, classID int) (*starshipclass.Capacity, error)
}

type Service struct {
	repo        *Repository
	lookup      CapacityLookup
	newPublicID func() (string, error)
	logger      *slog.Logger
}

func NewService(repo *Repository, lookup CapacityLookup, logger *slog.Logger) *Service {
	logger.Debug("Initializing starship service")

	return &Service{
		repo:        repo,
		lookup:      lookup,
		newPublicID: NewPublicID,
		logger:      logger,
	}
}

// Create stores a starship whose fuel and hull mirror its class.
func (s *Service) Create(ctx context.Context, in Input) (*Starship, error) {
	logger := s.logger.With("component", "starship_service", "operation", "create")

	in.normalize()
	if err := in.validateCreate(); err != nil {
		return nil, err
	}

	capacity, err := s.lookup.GetCapacity(ctx, *in.StarshipClassID)
	if err != nil {
		return nil, err
	}

	publicID, err := s.assignPublicID(ctx)
	if err != nil {
		return nil, err
	}

	starship, err := s.repo.Create(ctx, publicID, *in.Name, capacity)
	if err != nil {
		return nil, s.classifyWriteError(err, in)
	}

	logger.Info("Starship created",
		"starship_id", starship.ID,
		"public_id", publicID,
		"class_id", starship.StarshipClassID,
		"fuel_left", starship.FuelLeft)
	return starship, nil
}

// assignPublicID draws tokens until one is not held by any starship.
func (s *Service) assignPublicID(ctx context.Context) (string, error) {
	logger := s.logger.With("component", "starship_service", "operation", "assign_public_id")

	for attempt := 1; attempt <= maxPublicIDAttempts; attempt++ {
		candidate, err := s.newPublicID()
		if err != nil {
			return "", errors.WrapInternal("failed to generate public id", err)
		}

		count, err := s.repo.CountByPublicID(ctx, candidate)
		if err != nil {
			return "", errors.WrapInternal("failed to check public id", err)
		}
		if count == 0 {
			return candidate, nil
		}

		logger.Debug("Public id collision, regenerating", "attempt", attempt)
	}

	return "", errors.WrapInternal("failed to generate public id",
		errors.Conflictf("no unique public id after %d attempts", maxPublicIDAttempts))
}

func (s *Service) GetByID(ctx context.Context, id int) (*Starship, error) {
	starship, err := s.repo.GetByID(ctx, id)
	return s.found(starship, err, "id=%d", id)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*Starship, error) {
	starship, err := s.repo.GetByPublicID(ctx, publicID)
	return s.found(starship, err, "publicId=%s", publicID)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Starship, error) {
	starship, err := s.repo.GetByName(ctx, name)
	return s.found(starship, err, "name=%s", name)
}

func (s *Service) found(starship *Starship, err error, format string, arg interface{}) (*Starship, error) {
	if err != nil {
		return nil, errors.WrapInternal("failed to retrieve starship", err)
	}
	if starship == nil {
		return nil, errors.NotFoundf("cannot find a starship with "+format, arg)
	}
	return starship, nil
}

func (s *Service) List(ctx context.Context) ([]Starship, error) {
	starships, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list starships", err)
	}
	return starships, nil
}

func (s *Service) ListByClass(ctx context.Context, classID int) ([]Starship, error) {
	starships, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, errors.WrapInternal("failed to list starships of class", err)
	}
	return starships, nil
}

// Update renames a starship or moves it to another class. Moving re-derives fuel and hull
// from the new class.
func (s *Service) Update(ctx context.Context, id int, in Input) (*Starship, error) {
	logger := s.logger.With("component", "starship_service", "operation", "update", "starship_id", id)

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var capacity *starshipclass.Capacity
	if in.StarshipClassID != nil && *in.StarshipClassID != current.StarshipClassID {
		capacity, err = s.lookup.GetCapacity(ctx, *in.StarshipClassID)
		if err != nil {
			return nil, err
		}
		logger.Debug("Starship changes class, re-deriving stats",
			"from_class_id", current.StarshipClassID,
			"to_class_id", capacity.ID)
	}

	if in.Name == nil && capacity == nil {
		return current, nil
	}

	affected, err := s.repo.Update(ctx, id, in.Name, capacity)
	if err != nil {
		return nil, s.classifyWriteError(err, in)
	}
	if affected == 0 {
		return nil, errors.NotFoundf("cannot update starship with id=%d: not found", id)
	}

	logger.Info("Starship updated")
	return s.GetByID(ctx, id)
}

// UpdateFuelLeft sets fuel within [0, fuelCapacity] of the starship's current class.
func (s *Service) UpdateFuelLeft(ctx context.Context, id int, in FuelInput) (*Starship, error) {
	if in.FuelLeft == nil {
		return nil, errors.Validation("fuelLeft is required")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	capacity, err := s.lookup.GetCapacity(ctx, current.StarshipClassID)
	if err != nil {
		return nil, err
	}

	if *in.FuelLeft < 0 || *in.FuelLeft > capacity.FuelCapacity {
		return nil, errors.Validationf("fuelLeft must be between 0 and %d", capacity.FuelCapacity)
	}

	affected, err := s.repo.UpdateFuelLeft(ctx, id, *in.FuelLeft)
	if err != nil {
		return nil, errors.WrapInternal("failed to update fuel left", err)
	}
	if affected == 0 {
		return nil, s.rejectedStatWrite(ctx, id, "fuelLeft", *in.FuelLeft)
	}

	s.logger.Info("Starship fuel updated", "starship_id", id, "fuel_left", *in.FuelLeft)
	return s.GetByID(ctx, id)
}

// UpdateHullPoints sets hull points within [0, hullPoints] of the starship's current class.
func (s *Service) UpdateHullPoints(ctx context.Context, id int, in HullInput) (*Starship, error) {
	if in.HullPoints == nil {
		return nil, errors.Validation("hullPoints is required")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	capacity, err := s.lookup.GetCapacity(ctx, current.StarshipClassID)
	if err != nil {
		return nil, err
	}

	if capacity.HullPoints == nil {
		return nil, errors.Validationf("starship class with id=%d has no hull points", capacity.ID)
	}
	if *in.HullPoints < 0 || *in.HullPoints > *capacity.HullPoints {
		return nil, errors.Validationf("hullPoints must be between 0 and %d", *capacity.HullPoints)
	}

	affected, err := s.repo.UpdateHullPoints(ctx, id, *in.HullPoints)
	if err != nil {
		return nil, errors.WrapInternal("failed to update hull points", err)
	}
	if affected == 0 {
		return nil, s.rejectedStatWrite(ctx, id, "hullPoints", *in.HullPoints)
	}

	s.logger.Info("Starship hull updated", "starship_id", id, "hull_points", *in.HullPoints)
	return s.GetByID(ctx, id)
}

// rejectedStatWrite explains a guarded stat write that matched no row: either the starship
// vanished or its class capacity shrank after the range check.
func (s *Service) rejectedStatWrite(ctx context.Context, id int, field string, value int) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Debug("Stat write rejected by class capacity",
		"starship_id", id,
		"field", field,
		"class_id", current.StarshipClassID)
	return errors.Validationf("%s=%d exceeds the capacity of starship class with id=%d", field, value, current.StarshipClassID)
}

// Delete removes a starship. It reports false without error when no starship matched.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, errors.WrapInternal("failed to delete starship", err)
	}

	if affected == 0 {
		s.logger.Debug("No starship deleted", "starship_id", id)
		return false, nil
	}

	s.logger.Info("Starship deleted", "starship_id", id)
	return true, nil
}

func (s *Service) classifyWriteError(err error, in Input) error {
	switch {
	case database.IsUniqueViolation(err):
		if in.Name != nil {
			return errors.Conflictf("a starship named %q already exists", *in.Name)
		}
		return errors.Conflictf("starship already exists")
	case database.IsForeignKeyViolation(err) && in.StarshipClassID != nil:
		return errors.NotFoundf("cannot find a starship class with id=%d", *in.StarshipClassID)
	case database.IsCheckViolation(err):
		return errors.WrapValidation("starship values out of range", err)
	default:
		return errors.WrapInternal("failed to save starship", err)
	}
}

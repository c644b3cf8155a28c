package starship

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"starships-server/internal/shared/database"
	"starships-server/internal/starshipclass"
)

const selectColumns = `id, public_id, name, fuel_left, hull_points, starship_class_id, created_at, updated_at`

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing starship repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a starship whose stats are copied from capacity.
func (r *Repository) Create(ctx context.Context, publicID, name string, capacity *starshipclass.Capacity) (*Starship, error) {
	logger := r.logger.With(
		"component", "starship_repository",
		"operation", "create",
		"name", name,
		"class_id", capacity.ID,
	)
	logger.Debug("Creating starship")

	query := r.db.Rebind(`
		INSERT INTO starships (public_id, name, fuel_left, hull_points, starship_class_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int
	if err := r.db.GetContext(ctx, &id, query, publicID, name, capacity.FuelCapacity, capacity.HullPoints, capacity.ID); err != nil {
		logger.Debug("Failed to create starship", "error", err)
		return nil, fmt.Errorf("failed to create starship: %w", err)
	}

	logger.Debug("Starship created", "starship_id", id)
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Starship, error) {
	return r.getOne(ctx, "id", id)
}

func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*Starship, error) {
	return r.getOne(ctx, "public_id", publicID)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Starship, error) {
	return r.getOne(ctx, "name", name)
}

func (r *Repository) getOne(ctx context.Context, column string, value interface{}) (*Starship, error) {
	logger := r.logger.With("component", "starship_repository", "operation", "get_by_"+column, column, value)
	logger.Debug("Getting starship")

	query := r.db.Rebind(`SELECT ` + selectColumns + ` FROM starships WHERE ` + column + ` = ?`)

	var starship Starship
	if err := r.db.GetContext(ctx, &starship, query, value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			logger.Debug("Starship not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starship: %w", err)
	}

	return &starship, nil
}

func (r *Repository) List(ctx context.Context) ([]Starship, error) {
	logger := r.logger.With("component", "starship_repository", "operation", "list")

	starships := []Starship{}
	if err := r.db.SelectContext(ctx, &starships, `SELECT `+selectColumns+` FROM starships ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list starships: %w", err)
	}

	logger.Debug("Starships retrieved", "count", len(starships))
	return starships, nil
}

func (r *Repository) ListByClass(ctx context.Context, classID int) ([]Starship, error) {
	logger := r.logger.With("component", "starship_repository", "operation", "list_by_class", "class_id", classID)

	query := r.db.Rebind(`SELECT ` + selectColumns + ` FROM starships WHERE starship_class_id = ? ORDER BY id`)

	starships := []Starship{}
	if err := r.db.SelectContext(ctx, &starships, query, classID); err != nil {
		return nil, fmt.Errorf("failed to list starships of class: %w", err)
	}

	logger.Debug("Starships retrieved", "count", len(starships))
	return starships, nil
}

// CountByPublicID returns how many starships already carry publicID.
func (r *Repository) CountByPublicID(ctx context.Context, publicID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM starships WHERE public_id = ?`), publicID); err != nil {
		return 0, fmt.Errorf("failed to count public ids: %w", err)
	}
	return count, nil
}

// Update renames a starship and, when capacity is non-nil, moves it to that class with
// its stats re-derived.
func (r *Repository) Update(ctx context.Context, id int, name *string, capacity *starshipclass.Capacity) (int64, error) {
	var sets []string
	var args []interface{}
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if capacity != nil {
		sets = append(sets, "starship_class_id = ?", "fuel_left = ?", "hull_points = ?")
		args = append(args, capacity.ID, capacity.FuelCapacity, capacity.HullPoints)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	return r.exec(ctx, r.db, "update",
		fmt.Sprintf(`UPDATE starships SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
}

// UpdateFuelLeft writes fuelLeft only while it fits the current fuel capacity of the
// starship's class. Zero rows means the starship is gone or the value no longer fits.
func (r *Repository) UpdateFuelLeft(ctx context.Context, id, fuelLeft int) (int64, error) {
	return r.exec(ctx, r.db, "update_fuel_left", `
		UPDATE starships SET fuel_left = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND ? <= (SELECT c.fuel_capacity FROM starship_classes c WHERE c.id = starships.starship_class_id)`,
		fuelLeft, id, fuelLeft)
}

// UpdateHullPoints is the hull counterpart of UpdateFuelLeft. A class without hull points
// accepts no value.
func (r *Repository) UpdateHullPoints(ctx context.Context, id, hullPoints int) (int64, error) {
	return r.exec(ctx, r.db, "update_hull_points", `
		UPDATE starships SET hull_points = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND ? <= (SELECT c.hull_points FROM starship_classes c WHERE c.id = starships.starship_class_id)`,
		hullPoints, id, hullPoints)
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	return r.exec(ctx, r.db, "delete", `DELETE FROM starships WHERE id = ?`, id)
}

// ApplyClassCapacity sets the mirrored stats of every starship of classID to the supplied
// capacity values. Nil values leave the matching column alone.
func (r *Repository) ApplyClassCapacity(ctx context.Context, classID int, fuelCapacity, hullPoints *int, tx *database.Tx) (int64, error) {
	var sets []string
	var args []interface{}
	if fuelCapacity != nil {
		sets = append(sets, "fuel_left = ?")
		args = append(args, *fuelCapacity)
	}
	if hullPoints != nil {
		sets = append(sets, "hull_points = ?")
		args = append(args, *hullPoints)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, classID)

	return r.exec(ctx, r.getExecutor(tx), "apply_class_capacity",
		fmt.Sprintf(`UPDATE starships SET %s WHERE starship_class_id = ?`, strings.Join(sets, ", ")), args...)
}

func (r *Repository) exec(ctx context.Context, exec database.Executor, operation, query string, args ...interface{}) (int64, error) {
	logger := r.logger.With("component", "starship_repository", "operation", operation)

	result, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s starship: %w", strings.ReplaceAll(operation, "_", " "), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	logger.Debug("Starship statement executed", "rows_affected", affected)
	return affected, nil
}

package starshipclass

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"starships-server/internal/shared/database"
)

const selectColumns = `id, name, speed, fuel_capacity, hull_points, color, created_at, updated_at`

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing starship class repository")

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

func (r *Repository) Create(ctx context.Context, in Input) (*StarshipClass, error) {
	logger := r.logger.With(
		"component", "starship_class_repository",
		"operation", "create",
		"name", *in.Name,
	)
	logger.Debug("Creating starship class")

	query := r.db.Rebind(`
		INSERT INTO starship_classes (name, speed, fuel_capacity, hull_points, color)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int
	if err := r.db.GetContext(ctx, &id, query, *in.Name, *in.Speed, *in.FuelCapacity, in.HullPoints, *in.Color); err != nil {
		logger.Debug("Failed to create starship class", "error", err)
		return nil, fmt.Errorf("failed to create starship class: %w", err)
	}

	logger.Debug("Starship class created", "class_id", id)
	return r.getByID(ctx, r.db, id)
}

func (r *Repository) GetByID(ctx context.Context, id int) (*StarshipClass, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *Repository) getByID(ctx context.Context, exec database.Executor, id int) (*StarshipClass, error) {
	logger := r.logger.With("component", "starship_class_repository", "operation", "get_by_id", "class_id", id)
	logger.Debug("Getting starship class by ID")

	query := exec.Rebind(`SELECT ` + selectColumns + ` FROM starship_classes WHERE id = ?`)

	var class StarshipClass
	if err := exec.GetContext(ctx, &class, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			logger.Debug("Starship class not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starship class: %w", err)
	}

	return &class, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*StarshipClass, error) {
	logger := r.logger.With("component", "starship_class_repository", "operation", "get_by_name", "name", name)
	logger.Debug("Getting starship class by name")

	query := r.db.Rebind(`SELECT ` + selectColumns + ` FROM starship_classes WHERE name = ?`)

	var class StarshipClass
	if err := r.db.GetContext(ctx, &class, query, name); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			logger.Debug("Starship class not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starship class: %w", err)
	}

	return &class, nil
}

func (r *Repository) List(ctx context.Context) ([]StarshipClass, error) {
	logger := r.logger.With("component", "starship_class_repository", "operation", "list")

	classes := []StarshipClass{}
	if err := r.db.SelectContext(ctx, &classes, `SELECT `+selectColumns+` FROM starship_classes ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list starship classes: %w", err)
	}

	logger.Debug("Starship classes retrieved", "count", len(classes))
	return classes, nil
}

func (r *Repository) GetCapacity(ctx context.Context, id int) (*Capacity, error) {
	query := r.db.Rebind(`SELECT id, fuel_capacity, hull_points FROM starship_classes WHERE id = ?`)

	var capacity Capacity
	if err := r.db.GetContext(ctx, &capacity, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starship class capacity: %w", err)
	}

	return &capacity, nil
}

// Update writes the fields present in the input and returns the number of matched rows.
func (r *Repository) Update(ctx context.Context, id int, in Input, tx *database.Tx) (int64, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With("component", "starship_class_repository", "operation", "update", "class_id", id)

	var sets []string
	var args []interface{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Speed != nil {
		sets = append(sets, "speed = ?")
		args = append(args, *in.Speed)
	}
	if in.FuelCapacity != nil {
		sets = append(sets, "fuel_capacity = ?")
		args = append(args, *in.FuelCapacity)
	}
	if in.HullPoints != nil {
		sets = append(sets, "hull_points = ?")
		args = append(args, *in.HullPoints)
	}
	if in.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *in.Color)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := exec.Rebind(fmt.Sprintf(`UPDATE starship_classes SET %s WHERE id = ?`, strings.Join(sets, ", ")))

	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update starship class: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	logger.Debug("Starship class updated", "rows_affected", affected)
	return affected, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	logger := r.logger.With("component", "starship_class_repository", "operation", "delete", "class_id", id)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM starship_classes WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete starship class: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	logger.Debug("Starship class deleted", "rows_affected", affected)
	return affected, nil
}

// GetByIDTx reads a class inside tx.
func (r *Repository) GetByIDTx(ctx context.Context, id int, tx *database.Tx) (*StarshipClass, error) {
	return r.getByID(ctx, r.getExecutor(tx), id)
}

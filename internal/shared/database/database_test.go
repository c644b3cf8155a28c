package database_test

import (
	"context"
	"fmt"
	"testing"

	"starships-server/internal/shared/database"
	"starships-server/internal/shared/database/databasetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)

	require.NoError(t, db.RunMigrations(ctx))

	var versions []string
	require.NoError(t, db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"))
	assert.Equal(t, []string{"001_create_starship_classes.sql", "002_create_starships.sql"}, versions)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO starship_classes (name, speed, fuel_capacity, color) VALUES (?, ?, ?, ?)`),
			"Scout", 9, 40, "#00FF00")
		require.NoError(t, err)
		return fmt.Errorf("abort")
	})
	require.EqualError(t, err, "abort")

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM starship_classes"))
	assert.Zero(t, count)
}

func TestConstraintClassification(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)

	insertClass := db.Rebind(`INSERT INTO starship_classes (name, speed, fuel_capacity, color) VALUES (?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, insertClass, "Scout", 9, 40, "#00FF00")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insertClass, "Scout", 3, 10, "#0000FF")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx, db.Rebind(
		`INSERT INTO starships (name, fuel_left, starship_class_id) VALUES (?, ?, ?)`),
		"Orphan", 1, 999)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx, insertClass, "Broken", -1, 10, "#123456")
	require.Error(t, err)
	assert.True(t, database.IsCheckViolation(err))
}

func TestRestrictDeleteIsForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)

	var classID int
	require.NoError(t, db.GetContext(ctx, &classID, db.Rebind(
		`INSERT INTO starship_classes (name, speed, fuel_capacity, color) VALUES (?, ?, ?, ?) RETURNING id`),
		"Scout", 9, 40, "#00FF00"))

	_, err := db.ExecContext(ctx, db.Rebind(
		`INSERT INTO starships (name, fuel_left, starship_class_id) VALUES (?, ?, ?)`),
		"Pathfinder", 40, classID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, db.Rebind(`DELETE FROM starship_classes WHERE id = ?`), classID)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err), err.Error())
	assert.False(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsCheckViolation(err))
}

func TestTriggerAbortIsNotForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)

	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER block_classes BEFORE INSERT ON starship_classes
		BEGIN
			SELECT RAISE(ABORT, 'classes are frozen');
		END`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, db.Rebind(
		`INSERT INTO starship_classes (name, speed, fuel_capacity, color) VALUES (?, ?, ?, ?)`),
		"Scout", 9, 40, "#00FF00")
	require.Error(t, err)
	assert.False(t, database.IsForeignKeyViolation(err))
}

package starshipclass_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"starships-server/internal/classlookup"
	"starships-server/internal/shared/database"
	"starships-server/internal/shared/database/databasetest"
	"starships-server/internal/shared/errors"
	"starships-server/internal/starship"
	"starships-server/internal/starshipclass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        *database.DB
	classes   *starshipclass.Service
	starships *starship.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := databasetest.Open(t)

	starshipRepo := starship.NewRepository(db, logger)
	cache := classlookup.NewCache(nil, nil, 0, logger)
	classes := starshipclass.NewService(db, starshipclass.NewRepository(db, logger), starshipRepo, cache, logger)
	cache.SetNext(classlookup.NewLocal(classes))

	return fixture{
		db:        db,
		classes:   classes,
		starships: starship.NewService(starshipRepo, cache, logger),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func classInput(name string, fuel int, color string) starshipclass.Input {
	return starshipclass.Input{
		Name:         ptr(name),
		Speed:        ptr(9),
		FuelCapacity: ptr(fuel),
		HullPoints:   ptr(40),
		Color:        ptr(color),
	}
}

func TestCreateNormalizesColor(t *testing.T) {
	f := setup(t)

	class, err := f.classes.Create(context.Background(), classInput("Constitution", 100, " #aa11bb "))
	require.NoError(t, err)
	assert.Equal(t, "#AA11BB", class.Color)
	assert.Equal(t, 100, class.FuelCapacity)
	assert.NotZero(t, class.ID)
}

func TestCreateRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      starshipclass.Input
		errType errors.ErrorType
	}{
		{"duplicate name", classInput("Constitution", 10, "#000001"), errors.ErrorTypeConflict},
		{"duplicate color", classInput("Galaxy", 10, "#aa11bb"), errors.ErrorTypeConflict},
		{"bad color", classInput("Galaxy", 10, "red"), errors.ErrorTypeValidation},
		{"bad name", classInput("Galaxy class", 10, "#000002"), errors.ErrorTypeValidation},
		{"negative fuel", classInput("Galaxy", -1, "#000003"), errors.ErrorTypeValidation},
		{"missing speed", starshipclass.Input{Name: ptr("Galaxy"), FuelCapacity: ptr(1), Color: ptr("#000004")}, errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.classes.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.errType, errors.GetType(err))
		})
	}
}

func TestUpdateCascadesCapacityToStarships(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	class, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)
	other, err := f.classes.Create(ctx, classInput("Miranda", 60, "#00FF00"))
	require.NoError(t, err)

	for _, name := range []string{"Enterprise", "Excelsior"} {
		_, err := f.starships.Create(ctx, starship.Input{Name: ptr(name), StarshipClassID: &class.ID})
		require.NoError(t, err)
	}
	bystander, err := f.starships.Create(ctx, starship.Input{Name: ptr("Reliant"), StarshipClassID: &other.ID})
	require.NoError(t, err)

	updated, err := f.classes.Update(ctx, class.ID, starshipclass.Input{FuelCapacity: ptr(150)})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.FuelCapacity)
	assert.Equal(t, "Constitution", updated.Name)

	ships, err := f.starships.ListByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, ships, 2)
	for _, ship := range ships {
		assert.Equal(t, 150, ship.FuelLeft)
		require.NotNil(t, ship.HullPoints)
		assert.Equal(t, 40, *ship.HullPoints)
	}

	unchanged, err := f.starships.GetByID(ctx, bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, unchanged.FuelLeft)
}

func TestUpdateRollsBackWhenCascadeFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	class, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)
	ship, err := f.starships.Create(ctx, starship.Input{Name: ptr("Enterprise"), StarshipClassID: &class.ID})
	require.NoError(t, err)

	_, err = f.db.ExecContext(ctx, `
		CREATE TRIGGER block_cascade BEFORE UPDATE OF fuel_left ON starships
		BEGIN
			SELECT RAISE(ABORT, 'cascade blocked');
		END`)
	require.NoError(t, err)

	_, err = f.classes.Update(ctx, class.ID, starshipclass.Input{FuelCapacity: ptr(150), Speed: ptr(7)})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInternal, errors.GetType(err))

	reloaded, err := f.classes.GetByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.FuelCapacity)
	assert.Equal(t, 9, reloaded.Speed)

	stored, err := f.starships.GetByID(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.FuelLeft)
}

func TestUpdateWithoutCapacityLeavesStarships(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	class, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)
	ship, err := f.starships.Create(ctx, starship.Input{Name: ptr("Enterprise"), StarshipClassID: &class.ID})
	require.NoError(t, err)
	_, err = f.starships.UpdateFuelLeft(ctx, ship.ID, starship.FuelInput{FuelLeft: ptr(30)})
	require.NoError(t, err)

	updated, err := f.classes.Update(ctx, class.ID, starshipclass.Input{Speed: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Speed)

	stored, err := f.starships.GetByID(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.FuelLeft)
}

func TestUpdateMissingClass(t *testing.T) {
	f := setup(t)

	_, err := f.classes.Update(context.Background(), 404, starshipclass.Input{Speed: ptr(1)})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	class, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)
	ship, err := f.starships.Create(ctx, starship.Input{Name: ptr("Enterprise"), StarshipClassID: &class.ID})
	require.NoError(t, err)

	_, err = f.classes.Delete(ctx, class.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	deleted, err := f.starships.Delete(ctx, ship.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.classes.Delete(ctx, class.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.classes.Delete(ctx, class.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCapacityLookups(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	class, err := f.classes.Create(ctx, classInput("Constitution", 100, "#AA11BB"))
	require.NoError(t, err)

	fuel, err := f.classes.GetFuelCapacity(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, fuel.FuelCapacity)

	byName, err := f.classes.GetByName(ctx, "Constitution")
	require.NoError(t, err)
	assert.Equal(t, class.ID, byName.ID)

	_, err = f.classes.GetCapacity(ctx, class.ID+1)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

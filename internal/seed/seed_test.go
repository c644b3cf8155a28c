package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"starships-server/internal/classlookup"
	"starships-server/internal/shared/database/databasetest"
	"starships-server/internal/starship"
	"starships-server/internal/starshipclass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
classes:
  - name: Constitution
    speed: 9
    fuelCapacity: 100
    hullPoints: 40
    color: "#aa11bb"
  - name: Miranda
    speed: 6
    fuelCapacity: 60
    color: "#00FF00"
starships:
  - name: Enterprise
    class: Constitution
  - name: Reliant
    class: Miranda
`

func newSeeder(t *testing.T) (*Seeder, *starship.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := databasetest.Open(t)

	starshipRepo := starship.NewRepository(db, logger)
	classes := starshipclass.NewService(db, starshipclass.NewRepository(db, logger), starshipRepo, nil, logger)
	starships := starship.NewService(starshipRepo, classlookup.NewLocal(classes), logger)

	return NewSeeder(classes, starships, logger), starships
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("classes:\n  - name: A\n    warp: 9\n"))
	assert.Error(t, err)

	fixtures, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fixtures.Classes)
}

func TestLoadFileIsIdempotent(t *testing.T) {
	seeder, starships := newSeeder(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	result, err := seeder.LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ClassesCreated)
	assert.Equal(t, 2, result.StarshipsCreated)

	enterprise, err := starships.GetByName(ctx, "Enterprise")
	require.NoError(t, err)
	assert.Equal(t, 100, enterprise.FuelLeft)

	reliant, err := starships.GetByName(ctx, "Reliant")
	require.NoError(t, err)
	assert.Equal(t, 60, reliant.FuelLeft)
	assert.Nil(t, reliant.HullPoints)

	result, err = seeder.LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, result.ClassesCreated)
	assert.Zero(t, result.StarshipsCreated)
	assert.Equal(t, 4, result.Skipped)
}

func TestApplyUnknownClass(t *testing.T) {
	seeder, _ := newSeeder(t)

	_, err := seeder.Apply(context.Background(), &Fixtures{
		Starships: []StarshipFixture{{Name: "Defiant", Class: "Ghost"}},
	})
	assert.Error(t, err)
}

func TestApplyMatchesTrimmedNames(t *testing.T) {
	seeder, starships := newSeeder(t)
	ctx := context.Background()

	fixtures := &Fixtures{
		Classes:   []ClassFixture{{Name: " Constitution ", Speed: 9, FuelCapacity: 100, Color: "#AA11BB"}},
		Starships: []StarshipFixture{{Name: "  Enterprise", Class: "Constitution "}},
	}

	result, err := seeder.Apply(ctx, fixtures)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ClassesCreated)
	assert.Equal(t, 1, result.StarshipsCreated)

	result, err = seeder.Apply(ctx, fixtures)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)

	_, err = starships.GetByName(ctx, "Enterprise")
	assert.NoError(t, err)
}

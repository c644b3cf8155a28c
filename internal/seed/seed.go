package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"starships-server/internal/shared/errors"
	"starships-server/internal/starship"
	"starships-server/internal/starshipclass"

	"gopkg.in/yaml.v3"
)

type Fixtures struct {
	Classes   []ClassFixture    `yaml:"classes"`
	Starships []StarshipFixture `yaml:"starships"`
}

type ClassFixture struct {
	Name         string `yaml:"name"`
	Speed        int    `yaml:"speed"`
	FuelCapacity int    `yaml:"fuelCapacity"`
	HullPoints   *int   `yaml:"hullPoints"`
	Color        string `yaml:"color"`
}

// StarshipFixture refers to its class by name so files stay independent of generated ids.
type StarshipFixture struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
}

type Result struct {
	ClassesCreated   int
	StarshipsCreated int
	Skipped          int
}

type Seeder struct {
	classes   *starshipclass.Service
	starships *starship.Service
	logger    *slog.Logger
}

func NewSeeder(classes *starshipclass.Service, starships *starship.Service, logger *slog.Logger) *Seeder {
	return &Seeder{classes: classes, starships: starships, logger: logger}
}

func Parse(r io.Reader) (*Fixtures, error) {
	var fixtures Fixtures
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixtures); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fixtures, nil
}

func (s *Seeder) LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	fixtures, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, fixtures)
}

// Apply creates every fixture that does not exist yet. Records are matched by name, so
// running the same file twice is a no-op.
func (s *Seeder) Apply(ctx context.Context, fixtures *Fixtures) (*Result, error) {
	logger := s.logger.With("component", "seeder", "operation", "apply")
	result := &Result{}

	for _, fixture := range fixtures.Classes {
		fixture.Name = strings.TrimSpace(fixture.Name)
		_, err := s.classes.GetByName(ctx, fixture.Name)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, errors.ErrorTypeNotFound) {
			return result, err
		}

		in := starshipclass.Input{
			Name:         &fixture.Name,
			Speed:        &fixture.Speed,
			FuelCapacity: &fixture.FuelCapacity,
			HullPoints:   fixture.HullPoints,
			Color:        &fixture.Color,
		}
		if _, err := s.classes.Create(ctx, in); err != nil {
			return result, fmt.Errorf("class %q: %w", fixture.Name, err)
		}
		result.ClassesCreated++
	}

	for _, fixture := range fixtures.Starships {
		fixture.Name = strings.TrimSpace(fixture.Name)
		fixture.Class = strings.TrimSpace(fixture.Class)
		_, err := s.starships.GetByName(ctx, fixture.Name)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, errors.ErrorTypeNotFound) {
			return result, err
		}

		class, err := s.classes.GetByName(ctx, fixture.Class)
		if err != nil {
			return result, fmt.Errorf("starship %q: %w", fixture.Name, err)
		}

		in := starship.Input{Name: &fixture.Name, StarshipClassID: &class.ID}
		if _, err := s.starships.Create(ctx, in); err != nil {
			return result, fmt.Errorf("starship %q: %w", fixture.Name, err)
		}
		result.StarshipsCreated++
	}

	logger.Info("Fixtures applied",
		"classes_created", result.ClassesCreated,
		"starships_created", result.StarshipsCreated,
		"skipped", result.Skipped)
	return result, nil
}

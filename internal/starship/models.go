package starship

import (
	"regexp"
	"strings"
	"time"

	"starships-server/internal/shared/errors"
)

var (
	// Fields is the whitelist for create and general update bodies. Stats have dedicated routes.
	Fields     = []string{"name", "starshipClassId"}
	FuelFields = []string{"fuelLeft"}
	HullFields = []string{"hullPoints"}
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 '\-]{0,19}$`)

type Starship struct {
	ID              int       `json:"id" db:"id"`
	PublicID        *string   `json:"publicId" db:"public_id"`
	Name            string    `json:"name" db:"name"`
	FuelLeft        int       `json:"fuelLeft" db:"fuel_left"`
	HullPoints      *int      `json:"hullPoints" db:"hull_points"`
	StarshipClassID int       `json:"starshipClassId" db:"starship_class_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

type Input struct {
	Name            *string `json:"name"`
	StarshipClassID *int    `json:"starshipClassId"`
}

type FuelInput struct {
	FuelLeft *int `json:"fuelLeft"`
}

type HullInput struct {
	HullPoints *int `json:"hullPoints"`
}

func (in *Input) normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
}

func (in Input) validate() error {
	if in.Name != nil && !namePattern.MatchString(*in.Name) {
		return errors.Validationf("name %q must be 1 to 20 letters, digits, spaces, hyphens or apostrophes", *in.Name)
	}
	if in.StarshipClassID != nil && *in.StarshipClassID <= 0 {
		return errors.Validation("starshipClassId must be a positive integer")
	}
	return nil
}

func (in Input) validateCreate() error {
	if in.Name == nil {
		return errors.Validation("name is required")
	}
	if in.StarshipClassID == nil {
		return errors.Validation("starshipClassId is required")
	}
	return in.validate()
}

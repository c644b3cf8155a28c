package starshipclass

import (
	"regexp"
	"strings"
	"time"

	"starships-server/internal/shared/errors"
)

// Fields is the whitelist of request body properties for class create and update.
var Fields = []string{"name", "speed", "fuelCapacity", "hullPoints", "color"}

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9]{1,30}$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

type StarshipClass struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Speed        int       `json:"speed" db:"speed"`
	FuelCapacity int       `json:"fuelCapacity" db:"fuel_capacity"`
	HullPoints   *int      `json:"hullPoints" db:"hull_points"`
	Color        string    `json:"color" db:"color"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Capacity is the part of a class that starships mirror.
type Capacity struct {
	ID           int  `json:"id" db:"id"`
	FuelCapacity int  `json:"fuelCapacity" db:"fuel_capacity"`
	HullPoints   *int `json:"hullPoints" db:"hull_points"`
}

type FuelCapacity struct {
	ID           int `json:"id"`
	FuelCapacity int `json:"fuelCapacity"`
}

// Input carries the optional fields of a create or update body.
type Input struct {
	Name         *string `json:"name"`
	Speed        *int    `json:"speed"`
	FuelCapacity *int    `json:"fuelCapacity"`
	HullPoints   *int    `json:"hullPoints"`
	Color        *string `json:"color"`
}

// TouchesCapacity reports whether applying the input changes stats mirrored by starships.
func (in Input) TouchesCapacity() bool {
	return in.FuelCapacity != nil || in.HullPoints != nil
}

func (in *Input) normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Color != nil {
		color := strings.ToUpper(strings.TrimSpace(*in.Color))
		in.Color = &color
	}
}

func (in Input) validate() error {
	if in.Name != nil && !namePattern.MatchString(*in.Name) {
		return errors.Validationf("name %q must be 1 to 30 alphanumeric characters", *in.Name)
	}
	if in.Color != nil && !colorPattern.MatchString(*in.Color) {
		return errors.Validationf("color %q must be a hex code like #1A2B3C", *in.Color)
	}
	if in.Speed != nil && *in.Speed < 0 {
		return errors.Validation("speed cannot be negative")
	}
	if in.FuelCapacity != nil && *in.FuelCapacity < 0 {
		return errors.Validation("fuelCapacity cannot be negative")
	}
	if in.HullPoints != nil && *in.HullPoints < 0 {
		return errors.Validation("hullPoints cannot be negative")
	}
	return nil
}

func (in Input) validateCreate() error {
	switch {
	case in.Name == nil:
		return errors.Validation("name is required")
	case in.Speed == nil:
		return errors.Validation("speed is required")
	case in.FuelCapacity == nil:
		return errors.Validation("fuelCapacity is required")
	case in.Color == nil:
		return errors.Validation("color is required")
	}
	return in.validate()
}

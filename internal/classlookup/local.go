package classlookup

import (
	"context"

	"starships-server/internal/starshipclass"
)

// Local resolves capacity from the class service of this process.
type Local struct {
	service *starshipclass.Service
}

func NewLocal(service *starshipclass.Service) *Local {
	return &Local{service: service}
}

func (l *Local) GetCapacity(ctx context.Context, classID int) (*starshipclass.Capacity, error) {
	return l.service.GetCapacity(ctx, classID)
}

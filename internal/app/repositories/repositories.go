package repositories

import (
	"github.com/courselens/backend/internal/db"
)

// Repositories holds all repository instances
type Repositories struct {
	Offering  *OfferingRepository
	Professor *ProfessorRepository
	Aggregate *AggregateRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Offering:  NewOfferingRepository(database),
		Professor: NewProfessorRepository(database.Pool),
		Aggregate: NewAggregateRepository(database.Pool),
	}
}

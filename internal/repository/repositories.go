package repository

import (
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Academy    *AcademyRepository
	Cinema     *CinemaRepository
	Commerce   *CommerceRepository
	Publishing *PublishingRepository
	Tennis     *TennisRepository
	Space      *SpaceRepository
	Records    *RecordsRepository
	Media      *MediaRepository
	Accounts   *AccountsRepository
}

// NewRepositories constructs the repository container on top of the
// server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return New(s.DB.Pool)
}

// New builds every repository on db. Tests pass a pgxmock pool here.
func New(db database.DBTX) *Repositories {
	return &Repositories{
		Academy:    NewAcademyRepository(db),
		Cinema:     NewCinemaRepository(db),
		Commerce:   NewCommerceRepository(db),
		Publishing: NewPublishingRepository(db),
		Tennis:     NewTennisRepository(db),
		Space:      NewSpaceRepository(db),
		Records:    NewRecordsRepository(db),
		Media:      NewMediaRepository(db),
		Accounts:   NewAccountsRepository(db),
	}
}

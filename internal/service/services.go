package service

import (
	"github.com/deppfellow/labstore/internal/admin"
	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/cinema"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/server"
)

type Services struct {
	Academy    *AcademyService
	Cinema     *CinemaService
	Commerce   *CommerceService
	Publishing *PublishingService
	Tennis     *TennisService
	Space      *SpaceService
	Records    *RecordsService
	Media      *MediaService
	Accounts   *AccountsService

	// Admin holds the admin-panel configuration of every registered entity.
	Admin *admin.Site
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	observer := logger.NewObserver(s.Logger, s.LoggerService, s.Config.Observability.Logging.SlowQueryThreshold)
	return New(repos, observer)
}

// New wires every service to repos. observer may be nil.
func New(repos *repository.Repositories, observer *logger.Observer) (*Services, error) {
	site := admin.NewSite()
	if err := site.Register(cinema.Admins()...); err != nil {
		return nil, err
	}

	return &Services{
		Academy:    NewAcademyService(repos.Academy, observer),
		Cinema:     NewCinemaService(repos.Cinema, observer),
		Commerce:   NewCommerceService(repos.Commerce, observer),
		Publishing: NewPublishingService(repos.Publishing, observer),
		Tennis:     NewTennisService(repos.Tennis, observer),
		Space:      NewSpaceService(repos.Space, observer),
		Records:    NewRecordsService(repos.Records, observer),
		Media:      NewMediaService(repos.Media, observer),
		Accounts:   NewAccountsService(repos.Accounts, observer),
		Admin:      site,
	}, nil
}

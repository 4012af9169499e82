package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/media"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

type MediaService struct {
	repo     *repository.MediaRepository
	observer *logger.Observer
}

func NewMediaService(repo *repository.MediaRepository, observer *logger.Observer) *MediaService {
	return &MediaService{repo: repo, observer: observer}
}

// SaveCustomer validates the customer and stores it. Nothing is written
// when any field is invalid.
func (s *MediaService) SaveCustomer(ctx context.Context, c *media.Customer) error {
	return logger.Run(ctx, s.observer, "save_customer", func(ctx context.Context) error {
		if err := validation.Check(c); err != nil {
			return err
		}
		return s.repo.CreateCustomer(ctx, c)
	})
}

func (s *MediaService) SaveBook(ctx context.Context, b *media.Book) error {
	return logger.Run(ctx, s.observer, "save_book", func(ctx context.Context) error {
		taken, err := unique(ctx, s.repo.ISBNTaken, b.ISBN, "isbn", "Book with this ISBN already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(b), taken...); err != nil {
			return err
		}
		return s.repo.CreateBook(ctx, b)
	})
}

func (s *MediaService) SaveMovie(ctx context.Context, m *media.Movie) error {
	return logger.Run(ctx, s.observer, "save_movie", func(ctx context.Context) error {
		if err := validation.Check(m); err != nil {
			return err
		}
		return s.repo.CreateMovie(ctx, m)
	})
}

func (s *MediaService) SaveMusic(ctx context.Context, m *media.Music) error {
	return logger.Run(ctx, s.observer, "save_music", func(ctx context.Context) error {
		if err := validation.Check(m); err != nil {
			return err
		}
		return s.repo.CreateMusic(ctx, m)
	})
}

// ListBooks lists books newest first, then by title.
func (s *MediaService) ListBooks(ctx context.Context) ([]media.Book, error) {
	return logger.Observe(ctx, s.observer, "list_books", s.repo.Books)
}

func (s *MediaService) CreateProduct(ctx context.Context, p *media.Product) error {
	return logger.Run(ctx, s.observer, "create_product", func(ctx context.Context) error {
		if err := validation.Check(p); err != nil {
			return err
		}
		return s.repo.CreateProduct(ctx, p)
	})
}

// Pricing loads a product and wraps it in the requested pricing view.
func (s *MediaService) Pricing(ctx context.Context, productID int64, variant media.PricingVariant) (media.Pricing, error) {
	return logger.Observe(ctx, s.observer, "pricing", func(ctx context.Context) (media.Pricing, error) {
		product, ok, err := s.repo.Product(ctx, productID)
		if err != nil {
			return media.Pricing{}, err
		}
		if !ok {
			return media.Pricing{}, errs.NewNotFoundError(fmt.Sprintf("Product %d not found", productID), false, nil)
		}
		return media.NewPricing(&product, variant), nil
	})
}

func (s *MediaService) CreateHero(ctx context.Context, h *media.Hero) error {
	return logger.Run(ctx, s.observer, "create_hero", func(ctx context.Context) error {
		if err := validation.Check(h); err != nil {
			return err
		}
		return s.repo.CreateHero(ctx, h)
	})
}

// SwingFromBuildings runs the spider ability of a hero and persists the
// energy it spent.
func (s *MediaService) SwingFromBuildings(ctx context.Context, heroID int64) (string, error) {
	return logger.Observe(ctx, s.observer, "swing_from_buildings", func(ctx context.Context) (string, error) {
		return s.useHero(ctx, heroID, func(h *media.Hero) (string, bool) {
			return media.SpiderHero{Hero: h}.SwingFromBuildings()
		})
	})
}

// RunAtSuperSpeed runs the flash ability of a hero and persists the
// energy it spent.
func (s *MediaService) RunAtSuperSpeed(ctx context.Context, heroID int64) (string, error) {
	return logger.Observe(ctx, s.observer, "run_at_super_speed", func(ctx context.Context) (string, error) {
		return s.useHero(ctx, heroID, func(h *media.Hero) (string, bool) {
			return media.FlashHero{Hero: h}.RunAtSuperSpeed()
		})
	})
}

// RechargeEnergy adds amount to a hero's energy, capped at MaxEnergy, and
// returns the new energy.
func (s *MediaService) RechargeEnergy(ctx context.Context, heroID int64, amount int) (int, error) {
	return logger.Observe(ctx, s.observer, "recharge_energy", func(ctx context.Context) (int, error) {
		var energy int
		_, err := s.useHero(ctx, heroID, func(h *media.Hero) (string, bool) {
			h.RechargeEnergy(amount)
			energy = h.Energy
			return "", true
		})
		return energy, err
	})
}

// useHero locks a hero, applies act and saves the energy when act changed it.
func (s *MediaService) useHero(ctx context.Context, heroID int64, act func(h *media.Hero) (string, bool)) (string, error) {
	var msg string

	err := s.repo.InTx(ctx, func(repo *repository.MediaRepository) error {
		hero, ok, err := repo.LockHero(ctx, heroID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NewNotFoundError(fmt.Sprintf("Hero %d not found", heroID), false, nil)
		}

		var changed bool
		msg, changed = act(&hero)
		if !changed {
			return nil
		}

		if err := validation.Check(hero); err != nil {
			return err
		}
		return repo.SaveEnergy(ctx, hero.ID, hero.Energy)
	})
	return msg, err
}

func (s *MediaService) CreateDocument(ctx context.Context, d *media.Document) error {
	return logger.Run(ctx, s.observer, "create_document", func(ctx context.Context) error {
		if err := validation.Check(d); err != nil {
			return err
		}
		return s.repo.CreateDocument(ctx, d)
	})
}

// RefreshSearchVectors rebuilds the full-text index column of every document.
func (s *MediaService) RefreshSearchVectors(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "refresh_search_vectors", s.repo.RefreshSearchVectors)
}

// SearchDocuments runs a full-text search, best match first. Nil terms
// return no documents.
func (s *MediaService) SearchDocuments(ctx context.Context, terms *string) ([]media.Document, error) {
	return logger.Observe(ctx, s.observer, "search_documents", func(ctx context.Context) ([]media.Document, error) {
		if terms == nil {
			return nil, nil
		}
		return s.repo.SearchDocuments(ctx, *terms)
	})
}

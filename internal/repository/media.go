package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model"
	"github.com/deppfellow/labstore/internal/model/media"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// searchConfig is the text search configuration of the document index.
const searchConfig = "english"

type MediaRepository struct {
	db database.DBTX
}

func NewMediaRepository(db database.DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *MediaRepository) InTx(ctx context.Context, fn func(repo *MediaRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&MediaRepository{db: tx})
	})
}

func (r *MediaRepository) CreateCustomer(ctx context.Context, c *media.Customer) error {
	id, err := insert(ctx, r.db, "customers", query.Psql.Insert("customers").
		Columns("name", "age", "email", "phone_number", "website_url").
		Values(c.Name, c.Age, c.Email, c.PhoneNumber, c.WebsiteURL))
	if err != nil {
		return errors.Wrap(err, "creating customer")
	}

	c.ID = id
	return nil
}

func (r *MediaRepository) CreateBook(ctx context.Context, b *media.Book) error {
	id, err := insert(ctx, r.db, "books", query.Psql.Insert("books").
		Columns("title", "description", "genre", "author", "isbn").
		Values(b.Title, b.Description, b.Genre, b.Author, b.ISBN))
	if err != nil {
		return errors.Wrap(err, "creating book")
	}

	b.ID = id
	return nil
}

func (r *MediaRepository) ISBNTaken(ctx context.Context, isbn string) (bool, error) {
	return query.Taken(ctx, r.db, "books", "isbn", isbn, nil)
}

func (r *MediaRepository) CreateMovie(ctx context.Context, m *media.Movie) error {
	id, err := insert(ctx, r.db, "media_movies", query.Psql.Insert("media_movies").
		Columns("title", "description", "genre", "director").
		Values(m.Title, m.Description, m.Genre, m.Director))
	if err != nil {
		return errors.Wrap(err, "creating movie")
	}

	m.ID = id
	return nil
}

func (r *MediaRepository) CreateMusic(ctx context.Context, m *media.Music) error {
	id, err := insert(ctx, r.db, "music", query.Psql.Insert("music").
		Columns("title", "description", "genre", "artist").
		Values(m.Title, m.Description, m.Genre, m.Artist))
	if err != nil {
		return errors.Wrap(err, "creating music")
	}

	m.ID = id
	return nil
}

// Books lists every book in the default media ordering.
func (r *MediaRepository) Books(ctx context.Context) ([]media.Book, error) {
	b := query.Psql.Select("id", "title", "description", "genre", "created_at", "author", "isbn").
		From("books").
		OrderBy(model.MediaOrdering...)

	items, err := selectAll(ctx, r.db, "books", b, func(row pgx.CollectableRow) (media.Book, error) {
		var bk media.Book
		err := row.Scan(&bk.ID, &bk.Title, &bk.Description, &bk.Genre, &bk.CreatedAt, &bk.Author, &bk.ISBN)
		return bk, err
	})
	return items, errors.Wrap(err, "listing books")
}

func (r *MediaRepository) CreateProduct(ctx context.Context, p *media.Product) error {
	id, err := insert(ctx, r.db, "media_products", query.Psql.Insert("media_products").
		Columns("name", "price").
		Values(p.Name, p.Price))
	if err != nil {
		return errors.Wrap(err, "creating product")
	}

	p.ID = id
	return nil
}

func (r *MediaRepository) Product(ctx context.Context, id int64) (media.Product, bool, error) {
	b := query.Psql.Select("id", "name", "price").
		From("media_products").
		Where(sq.Eq{"id": id})

	item, ok, err := selectFirst(ctx, r.db, "media_products", b, func(row pgx.CollectableRow) (media.Product, error) {
		var p media.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price)
		return p, err
	})
	return item, ok, errors.Wrap(err, "loading product")
}

func (r *MediaRepository) CreateHero(ctx context.Context, h *media.Hero) error {
	id, err := insert(ctx, r.db, "heroes", query.Psql.Insert("heroes").
		Columns("name", "hero_title", "energy").
		Values(h.Name, h.HeroTitle, h.Energy))
	if err != nil {
		return errors.Wrap(err, "creating hero")
	}

	h.ID = id
	return nil
}

// LockHero locks and returns one hero.
func (r *MediaRepository) LockHero(ctx context.Context, id int64) (media.Hero, bool, error) {
	b := query.Psql.Select("id", "name", "hero_title", "energy").
		From("heroes").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	item, ok, err := selectFirst(ctx, r.db, "heroes", b, func(row pgx.CollectableRow) (media.Hero, error) {
		var h media.Hero
		err := row.Scan(&h.ID, &h.Name, &h.HeroTitle, &h.Energy)
		return h, err
	})
	return item, ok, errors.Wrap(err, "locking hero")
}

func (r *MediaRepository) SaveEnergy(ctx context.Context, id int64, energy int) error {
	_, err := exec(ctx, r.db, "heroes", query.Psql.Update("heroes").
		Set("energy", energy).
		Where(sq.Eq{"id": id}))
	return errors.Wrap(err, "saving hero energy")
}

func (r *MediaRepository) CreateDocument(ctx context.Context, d *media.Document) error {
	id, err := insert(ctx, r.db, "documents", query.Psql.Insert("documents").
		Columns("title", "content").
		Values(d.Title, d.Content))
	if err != nil {
		return errors.Wrap(err, "creating document")
	}

	d.ID = id
	return nil
}

// RefreshSearchVectors rebuilds the search vector of every document from
// its title and content.
func (r *MediaRepository) RefreshSearchVectors(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "documents", query.Psql.Update("documents").
		Set("search_vector", sq.Expr("to_tsvector(?::regconfig, title || ' ' || content)", searchConfig)))
	return n, errors.Wrap(err, "refreshing search vectors")
}

// SearchDocuments returns the documents matching the plain text terms,
// best match first.
func (r *MediaRepository) SearchDocuments(ctx context.Context, terms string) ([]media.Document, error) {
	b := query.Psql.Select("id", "title", "content").
		From("documents").
		Where("search_vector @@ plainto_tsquery(?::regconfig, ?)", searchConfig, terms).
		OrderByClause("ts_rank(search_vector, plainto_tsquery(?::regconfig, ?)) DESC", searchConfig, terms).
		OrderBy("id ASC")

	items, err := selectAll(ctx, r.db, "documents", b, func(row pgx.CollectableRow) (media.Document, error) {
		var d media.Document
		err := row.Scan(&d.ID, &d.Title, &d.Content)
		return d, err
	})
	return items, errors.Wrap(err, "searching documents")
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/trustlens/internal/db"
	"github.com/sells-group/trustlens/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS products (
	id                         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	url                        TEXT NOT NULL UNIQUE,
	name                       TEXT NOT NULL DEFAULT '',
	price                      TEXT NOT NULL DEFAULT '',
	rating                     TEXT NOT NULL DEFAULT '',
	review_count               TEXT NOT NULL DEFAULT '',
	rating_dist_5_star_percent TEXT NOT NULL DEFAULT '',
	rating_dist_4_star_percent TEXT NOT NULL DEFAULT '',
	rating_dist_3_star_percent TEXT NOT NULL DEFAULT '',
	rating_dist_2_star_percent TEXT NOT NULL DEFAULT '',
	rating_dist_1_star_percent TEXT NOT NULL DEFAULT '',
	detailed_summary           TEXT NOT NULL DEFAULT '',
	scraped_at                 TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS product_images (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	image_url  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_reviews (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id    TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	review_text   TEXT NOT NULL,
	review_rating TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS product_image_texts (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	image_id       TEXT NOT NULL UNIQUE REFERENCES product_images(id) ON DELETE CASCADE,
	product_id     TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	image_url      TEXT NOT NULL,
	extracted_text TEXT NOT NULL DEFAULT '',
	extracted_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS review_analysis (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id      TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	sentiment_group TEXT NOT NULL,
	advantages      JSONB NOT NULL DEFAULT '[]',
	disadvantages   JSONB NOT NULL DEFAULT '[]',
	review_count    INTEGER NOT NULL DEFAULT 0,
	analyzed_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(product_id, sentiment_group)
);

CREATE TABLE IF NOT EXISTS product_evaluations (
	id                      TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id              TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
	weighted_score          DOUBLE PRECISION NOT NULL DEFAULT 0,
	contradiction_penalties DOUBLE PRECISION NOT NULL DEFAULT 0,
	final_score             DOUBLE PRECISION NOT NULL DEFAULT 0,
	grade                   TEXT NOT NULL DEFAULT '',
	evaluation_details      JSONB NOT NULL DEFAULT '{}',
	evaluated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS claims_vs_reality (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_id         TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
	contradictions     JSONB NOT NULL DEFAULT '[]',
	consistency_points JSONB NOT NULL DEFAULT '[]',
	overall_assessment TEXT NOT NULL DEFAULT '',
	trust_level        TEXT NOT NULL DEFAULT '',
	raw_response       TEXT NOT NULL DEFAULT '',
	analyzed_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_product_images_product_id ON product_images(product_id);
CREATE INDEX IF NOT EXISTS idx_product_reviews_product_id ON product_reviews(product_id);
CREATE INDEX IF NOT EXISTS idx_product_reviews_rating ON product_reviews(product_id, review_rating);
CREATE INDEX IF NOT EXISTS idx_image_texts_product_id ON product_image_texts(product_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const pgProductSelect = `
	SELECT id, url, name, price, rating, review_count,
		rating_dist_5_star_percent, rating_dist_4_star_percent,
		rating_dist_3_star_percent, rating_dist_2_star_percent,
		rating_dist_1_star_percent, detailed_summary, scraped_at
	FROM products`

func (s *PostgresStore) UpsertProductByURL(ctx context.Context, p *model.Product) (string, error) {
	now := time.Now().UTC()
	if !p.ScrapedAt.IsZero() {
		now = p.ScrapedAt.UTC()
	}

	var rowID string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (
			id, url, name, price, rating, review_count,
			rating_dist_5_star_percent, rating_dist_4_star_percent,
			rating_dist_3_star_percent, rating_dist_2_star_percent,
			rating_dist_1_star_percent, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			rating_dist_5_star_percent = EXCLUDED.rating_dist_5_star_percent,
			rating_dist_4_star_percent = EXCLUDED.rating_dist_4_star_percent,
			rating_dist_3_star_percent = EXCLUDED.rating_dist_3_star_percent,
			rating_dist_2_star_percent = EXCLUDED.rating_dist_2_star_percent,
			rating_dist_1_star_percent = EXCLUDED.rating_dist_1_star_percent,
			scraped_at = EXCLUDED.scraped_at
		RETURNING id`,
		uuid.New().String(), p.URL, p.Name, p.Price, p.Rating, p.ReviewCount,
		p.RatingDist.FiveStar, p.RatingDist.FourStar, p.RatingDist.ThreeStar,
		p.RatingDist.TwoStar, p.RatingDist.OneStar, now,
	).Scan(&rowID)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: upsert product %s", p.URL)
	}
	p.ID = rowID
	return rowID, nil
}

func (s *PostgresStore) FindProductByURL(ctx context.Context, url string) (*model.Product, error) {
	row := s.pool.QueryRow(ctx, pgProductSelect+` WHERE url = $1 ORDER BY id DESC LIMIT 1`, url)
	p, err := scanPgProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *PostgresStore) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	row := s.pool.QueryRow(ctx, pgProductSelect+` WHERE id = $1`, productID)
	p, err := scanPgProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("product not found: %s", productID)
	}
	return p, err
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx, pgProductSelect+` ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanPgProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, eris.Wrap(rows.Err(), "postgres: list products iterate")
}

func (s *PostgresStore) ReplaceImages(ctx context.Context, productID string, urls []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace images")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return eris.Wrap(err, "postgres: delete images")
	}
	rows := make([][]any, len(urls))
	for i, u := range urls {
		rows[i] = []any{uuid.New().String(), productID, u}
	}
	if _, err := db.CopyFrom(ctx, tx, "product_images", []string{"id", "product_id", "image_url"}, rows); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace images")
}

func (s *PostgresStore) ReplaceReviews(ctx context.Context, productID string, reviews []model.Review) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace reviews")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM product_reviews WHERE product_id = $1`, productID); err != nil {
		return eris.Wrap(err, "postgres: delete reviews")
	}
	rows := make([][]any, len(reviews))
	for i, r := range reviews {
		rows[i] = []any{uuid.New().String(), productID, r.Text, r.Rating}
	}
	if _, err := db.CopyFrom(ctx, tx, "product_reviews", []string{"id", "product_id", "review_text", "review_rating"}, rows); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace reviews")
}

func (s *PostgresStore) GetImages(ctx context.Context, productID string) ([]model.Image, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_id, image_url FROM product_images WHERE product_id = $1`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get images")
	}
	defer rows.Close()
	return collectPgImages(rows)
}

func (s *PostgresStore) GetUnprocessedImages(ctx context.Context, productID string) ([]model.Image, error) {
	query := `
		SELECT i.id, i.product_id, i.image_url
		FROM product_images i
		LEFT JOIN product_image_texts t ON t.image_id = i.id
		WHERE t.id IS NULL`
	args := []any{}
	if productID != "" {
		query += ` AND i.product_id = $1`
		args = append(args, productID)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get unprocessed images")
	}
	defer rows.Close()
	return collectPgImages(rows)
}

func (s *PostgresStore) GetReviewsByRating(ctx context.Context, productID string, ratings []string) ([]model.Review, error) {
	if len(ratings) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, review_text, review_rating FROM product_reviews
		 WHERE product_id = $1 AND review_rating = ANY($2)`, productID, ratings)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get reviews by rating")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.Text, &r.Rating); err != nil {
			return nil, eris.Wrap(err, "postgres: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "postgres: get reviews iterate")
}

func (s *PostgresStore) GetReviewRatingCounts(ctx context.Context, productID string) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT review_rating, COUNT(*) FROM product_reviews WHERE product_id = $1 GROUP BY review_rating`,
		productID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: rating counts")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var rating string
		var n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rating count")
		}
		counts[rating] = n
	}
	return counts, eris.Wrap(rows.Err(), "postgres: rating counts iterate")
}

func (s *PostgresStore) UpsertImageText(ctx context.Context, t *model.ImageText) error {
	at := t.ExtractedAt.UTC()
	if t.ExtractedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO product_image_texts (id, image_id, product_id, image_url, extracted_text, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (image_id) DO UPDATE SET
			extracted_text = EXCLUDED.extracted_text,
			extracted_at = EXCLUDED.extracted_at`,
		uuid.New().String(), t.ImageID, t.ProductID, t.ImageURL, t.Text, at,
	)
	return eris.Wrapf(err, "postgres: upsert image text %s", t.ImageID)
}

func (s *PostgresStore) GetImageTexts(ctx context.Context, productID string) ([]model.ImageText, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT image_id, product_id, image_url, extracted_text, extracted_at
		FROM product_image_texts WHERE product_id = $1`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get image texts")
	}
	defer rows.Close()

	var texts []model.ImageText
	for rows.Next() {
		var t model.ImageText
		if err := rows.Scan(&t.ImageID, &t.ProductID, &t.ImageURL, &t.Text, &t.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan image text")
		}
		texts = append(texts, t)
	}
	return texts, eris.Wrap(rows.Err(), "postgres: get image texts iterate")
}

func (s *PostgresStore) SaveSummary(ctx context.Context, productID, summary string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET detailed_summary = $1 WHERE id = $2`, summary, productID)
	if err != nil {
		return eris.Wrapf(err, "postgres: save summary %s", productID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("product not found: %s", productID)
	}
	return nil
}

func (s *PostgresStore) GetSummary(ctx context.Context, productID string) (string, error) {
	var summary string
	err := s.pool.QueryRow(ctx,
		`SELECT detailed_summary FROM products WHERE id = $1`, productID).Scan(&summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", eris.Errorf("product not found: %s", productID)
	}
	return summary, eris.Wrap(err, "postgres: get summary")
}

func (s *PostgresStore) UpsertGroupAnalysis(ctx context.Context, a *model.GroupAnalysis) error {
	advJSON, disJSON, err := marshalFindings(a.Advantages, a.Disadvantages)
	if err != nil {
		return err
	}
	at := a.AnalyzedAt.UTC()
	if a.AnalyzedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO review_analysis (id, product_id, sentiment_group, advantages, disadvantages, review_count, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, sentiment_group) DO UPDATE SET
			advantages = EXCLUDED.advantages,
			disadvantages = EXCLUDED.disadvantages,
			review_count = EXCLUDED.review_count,
			analyzed_at = EXCLUDED.analyzed_at`,
		uuid.New().String(), a.ProductID, string(a.Group), advJSON, disJSON, a.ReviewCount, at,
	)
	return eris.Wrapf(err, "postgres: upsert group analysis %s/%s", a.ProductID, a.Group)
}

func (s *PostgresStore) GetGroupAnalyses(ctx context.Context, productID string) ([]model.GroupAnalysis, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, sentiment_group, advantages, disadvantages, review_count, analyzed_at
		FROM review_analysis WHERE product_id = $1`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get group analyses")
	}
	defer rows.Close()

	var analyses []model.GroupAnalysis
	for rows.Next() {
		var a model.GroupAnalysis
		var advJSON, disJSON string
		if err := rows.Scan(&a.ProductID, &a.Group, &advJSON, &disJSON, &a.ReviewCount, &a.AnalyzedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan group analysis")
		}
		if err := unmarshalFindings(advJSON, disJSON, &a.Advantages, &a.Disadvantages); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, eris.Wrap(rows.Err(), "postgres: get group analyses iterate")
}

func (s *PostgresStore) UpsertEvaluation(ctx context.Context, e *model.Evaluation) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	if len(e.Contradictions) > 0 {
		details["contradictions"] = e.Contradictions
	}
	if e.Grade != "" {
		details["grade"] = e.Grade
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal evaluation details")
	}
	at := e.EvaluatedAt.UTC()
	if e.EvaluatedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO product_evaluations (id, product_id, weighted_score, contradiction_penalties, final_score, grade, evaluation_details, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE SET
			weighted_score = EXCLUDED.weighted_score,
			contradiction_penalties = EXCLUDED.contradiction_penalties,
			final_score = EXCLUDED.final_score,
			grade = EXCLUDED.grade,
			evaluation_details = EXCLUDED.evaluation_details,
			evaluated_at = EXCLUDED.evaluated_at`,
		uuid.New().String(), e.ProductID, e.WeightedScore, e.ContradictionPenalty,
		e.FinalScore, e.Grade, string(detailsJSON), at,
	)
	return eris.Wrapf(err, "postgres: upsert evaluation %s", e.ProductID)
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, productID string) (*model.Evaluation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT product_id, weighted_score, contradiction_penalties, final_score, grade, evaluation_details, evaluated_at
		FROM product_evaluations WHERE product_id = $1`, productID)

	var e model.Evaluation
	var detailsJSON string
	err := row.Scan(&e.ProductID, &e.WeightedScore, &e.ContradictionPenalty,
		&e.FinalScore, &e.Grade, &detailsJSON, &e.EvaluatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get evaluation")
	}
	if err := json.Unmarshal([]byte(detailsJSON), &e.Details); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal evaluation details")
	}
	return &e, nil
}

func (s *PostgresStore) UpsertClaimsAnalysis(ctx context.Context, c *model.ClaimsAnalysis) error {
	conJSON, pointsJSON, err := marshalFindings(c.Contradictions, c.ConsistencyPoints)
	if err != nil {
		return err
	}
	at := c.AnalyzedAt.UTC()
	if c.AnalyzedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO claims_vs_reality (id, product_id, contradictions, consistency_points, overall_assessment, trust_level, raw_response, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE SET
			contradictions = EXCLUDED.contradictions,
			consistency_points = EXCLUDED.consistency_points,
			overall_assessment = EXCLUDED.overall_assessment,
			trust_level = EXCLUDED.trust_level,
			raw_response = EXCLUDED.raw_response,
			analyzed_at = EXCLUDED.analyzed_at`,
		uuid.New().String(), c.ProductID, conJSON, pointsJSON,
		c.OverallAssessment, c.TrustLevel, c.RawResponse, at,
	)
	return eris.Wrapf(err, "postgres: upsert claims analysis %s", c.ProductID)
}

func (s *PostgresStore) GetClaimsAnalysis(ctx context.Context, productID string) (*model.ClaimsAnalysis, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT product_id, contradictions, consistency_points, overall_assessment, trust_level, raw_response, analyzed_at
		FROM claims_vs_reality WHERE product_id = $1`, productID)

	var c model.ClaimsAnalysis
	var conJSON, pointsJSON string
	err := row.Scan(&c.ProductID, &conJSON, &pointsJSON,
		&c.OverallAssessment, &c.TrustLevel, &c.RawResponse, &c.AnalyzedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get claims analysis")
	}
	if err := unmarshalFindings(conJSON, pointsJSON, &c.Contradictions, &c.ConsistencyPoints); err != nil {
		return nil, err
	}
	return &c, nil
}

// helpers

func scanPgProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.URL, &p.Name, &p.Price, &p.Rating, &p.ReviewCount,
		&p.RatingDist.FiveStar, &p.RatingDist.FourStar, &p.RatingDist.ThreeStar,
		&p.RatingDist.TwoStar, &p.RatingDist.OneStar, &p.DetailedSummary, &p.ScrapedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan product")
	}
	return &p, nil
}

func collectPgImages(rows pgx.Rows) ([]model.Image, error) {
	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, eris.Wrap(err, "postgres: scan image")
		}
		images = append(images, img)
	}
	return images, eris.Wrap(rows.Err(), "postgres: images iterate")
}

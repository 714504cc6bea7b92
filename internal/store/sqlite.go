package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/trustlens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS products (
	id                         TEXT PRIMARY KEY,
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
	scraped_at                 DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS product_images (
	id         TEXT PRIMARY KEY,
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	image_url  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_reviews (
	id            TEXT PRIMARY KEY,
	product_id    TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	review_text   TEXT NOT NULL,
	review_rating TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS product_image_texts (
	id             TEXT PRIMARY KEY,
	image_id       TEXT NOT NULL UNIQUE REFERENCES product_images(id) ON DELETE CASCADE,
	product_id     TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	image_url      TEXT NOT NULL,
	extracted_text TEXT NOT NULL DEFAULT '',
	extracted_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS review_analysis (
	id              TEXT PRIMARY KEY,
	product_id      TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	sentiment_group TEXT NOT NULL,
	advantages      TEXT NOT NULL DEFAULT '[]',
	disadvantages   TEXT NOT NULL DEFAULT '[]',
	review_count    INTEGER NOT NULL DEFAULT 0,
	analyzed_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(product_id, sentiment_group)
);

CREATE TABLE IF NOT EXISTS product_evaluations (
	id                      TEXT PRIMARY KEY,
	product_id              TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
	weighted_score          REAL NOT NULL DEFAULT 0,
	contradiction_penalties REAL NOT NULL DEFAULT 0,
	final_score             REAL NOT NULL DEFAULT 0,
	grade                   TEXT NOT NULL DEFAULT '',
	evaluation_details      TEXT NOT NULL DEFAULT '{}',
	evaluated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS claims_vs_reality (
	id                 TEXT PRIMARY KEY,
	product_id         TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
	contradictions     TEXT NOT NULL DEFAULT '[]',
	consistency_points TEXT NOT NULL DEFAULT '[]',
	overall_assessment TEXT NOT NULL DEFAULT '',
	trust_level        TEXT NOT NULL DEFAULT '',
	raw_response       TEXT NOT NULL DEFAULT '',
	analyzed_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_product_images_product_id ON product_images(product_id);
CREATE INDEX IF NOT EXISTS idx_product_reviews_product_id ON product_reviews(product_id);
CREATE INDEX IF NOT EXISTS idx_product_reviews_rating ON product_reviews(product_id, review_rating);
CREATE INDEX IF NOT EXISTS idx_image_texts_product_id ON product_image_texts(product_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertProductByURL inserts the product or, when the URL already exists,
// updates the scraped fields in place. Returns the row ID either way.
func (s *SQLiteStore) UpsertProductByURL(ctx context.Context, p *model.Product) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	if !p.ScrapedAt.IsZero() {
		now = p.ScrapedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, url, name, price, rating, review_count,
			rating_dist_5_star_percent, rating_dist_4_star_percent,
			rating_dist_3_star_percent, rating_dist_2_star_percent,
			rating_dist_1_star_percent, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			rating = excluded.rating,
			review_count = excluded.review_count,
			rating_dist_5_star_percent = excluded.rating_dist_5_star_percent,
			rating_dist_4_star_percent = excluded.rating_dist_4_star_percent,
			rating_dist_3_star_percent = excluded.rating_dist_3_star_percent,
			rating_dist_2_star_percent = excluded.rating_dist_2_star_percent,
			rating_dist_1_star_percent = excluded.rating_dist_1_star_percent,
			scraped_at = excluded.scraped_at`,
		id, p.URL, p.Name, p.Price, p.Rating, p.ReviewCount,
		p.RatingDist.FiveStar, p.RatingDist.FourStar, p.RatingDist.ThreeStar,
		p.RatingDist.TwoStar, p.RatingDist.OneStar, now,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: upsert product %s", p.URL)
	}

	var rowID string
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM products WHERE url = ?`, p.URL).Scan(&rowID); err != nil {
		return "", eris.Wrap(err, "sqlite: read product id after upsert")
	}
	p.ID = rowID
	return rowID, nil
}

func (s *SQLiteStore) FindProductByURL(ctx context.Context, url string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, productSelect+` WHERE url = ? ORDER BY id DESC LIMIT 1`, url)
	p, err := scanProduct(row)
	if err == errNotFound {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, productSelect+` WHERE id = ?`, productID)
	p, err := scanProduct(row)
	if err == errNotFound {
		return nil, eris.Errorf("product not found: %s", productID)
	}
	return p, err
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, productSelect+` ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, eris.Wrap(rows.Err(), "sqlite: list products iterate")
}

// ReplaceImages deletes a product's image rows and inserts the given URLs
// in one transaction.
func (s *SQLiteStore) ReplaceImages(ctx context.Context, productID string, urls []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace images")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, productID); err != nil {
		return eris.Wrap(err, "sqlite: delete images")
	}
	for _, u := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (id, product_id, image_url) VALUES (?, ?, ?)`,
			uuid.New().String(), productID, u,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert image")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace images")
}

// ReplaceReviews deletes a product's review rows and inserts the given
// reviews in one transaction.
func (s *SQLiteStore) ReplaceReviews(ctx context.Context, productID string, reviews []model.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace reviews")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_reviews WHERE product_id = ?`, productID); err != nil {
		return eris.Wrap(err, "sqlite: delete reviews")
	}
	for _, r := range reviews {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_reviews (id, product_id, review_text, review_rating) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), productID, r.Text, r.Rating,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert review")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace reviews")
}

func (s *SQLiteStore) GetImages(ctx context.Context, productID string) ([]model.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, image_url FROM product_images WHERE product_id = ?`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get images")
	}
	defer rows.Close()
	return collectImages(rows)
}

// GetUnprocessedImages returns images that have no extracted text row
// yet. An empty productID scans every product.
func (s *SQLiteStore) GetUnprocessedImages(ctx context.Context, productID string) ([]model.Image, error) {
	query := `
		SELECT i.id, i.product_id, i.image_url
		FROM product_images i
		LEFT JOIN product_image_texts t ON t.image_id = i.id
		WHERE t.id IS NULL`
	args := []any{}
	if productID != "" {
		query += ` AND i.product_id = ?`
		args = append(args, productID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get unprocessed images")
	}
	defer rows.Close()
	return collectImages(rows)
}

func (s *SQLiteStore) GetReviewsByRating(ctx context.Context, productID string, ratings []string) ([]model.Review, error) {
	if len(ratings) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ratings)), ",")
	args := []any{productID}
	for _, r := range ratings {
		args = append(args, r)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, review_text, review_rating FROM product_reviews
		 WHERE product_id = ? AND review_rating IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get reviews by rating")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.Text, &r.Rating); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "sqlite: get reviews iterate")
}

func (s *SQLiteStore) GetReviewRatingCounts(ctx context.Context, productID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT review_rating, COUNT(*) FROM product_reviews WHERE product_id = ? GROUP BY review_rating`,
		productID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: rating counts")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var rating string
		var n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rating count")
		}
		counts[rating] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: rating counts iterate")
}

// UpsertImageText writes the extracted text for an image, replacing any
// earlier extraction for the same image.
func (s *SQLiteStore) UpsertImageText(ctx context.Context, t *model.ImageText) error {
	at := t.ExtractedAt.UTC()
	if t.ExtractedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_image_texts (id, image_id, product_id, image_url, extracted_text, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(image_id) DO UPDATE SET
			extracted_text = excluded.extracted_text,
			extracted_at = excluded.extracted_at`,
		uuid.New().String(), t.ImageID, t.ProductID, t.ImageURL, t.Text, at,
	)
	return eris.Wrapf(err, "sqlite: upsert image text %s", t.ImageID)
}

func (s *SQLiteStore) GetImageTexts(ctx context.Context, productID string) ([]model.ImageText, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT image_id, product_id, image_url, extracted_text, extracted_at
		FROM product_image_texts WHERE product_id = ?`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get image texts")
	}
	defer rows.Close()

	var texts []model.ImageText
	for rows.Next() {
		var t model.ImageText
		if err := rows.Scan(&t.ImageID, &t.ProductID, &t.ImageURL, &t.Text, &t.ExtractedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan image text")
		}
		texts = append(texts, t)
	}
	return texts, eris.Wrap(rows.Err(), "sqlite: get image texts iterate")
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, productID, summary string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET detailed_summary = ? WHERE id = ?`, summary, productID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save summary %s", productID)
	}
	return checkRowsAffected(res, "product", productID)
}

func (s *SQLiteStore) GetSummary(ctx context.Context, productID string) (string, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT detailed_summary FROM products WHERE id = ?`, productID).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", eris.Errorf("product not found: %s", productID)
	}
	return summary, eris.Wrap(err, "sqlite: get summary")
}

func (s *SQLiteStore) UpsertGroupAnalysis(ctx context.Context, a *model.GroupAnalysis) error {
	advJSON, disJSON, err := marshalFindings(a.Advantages, a.Disadvantages)
	if err != nil {
		return err
	}
	at := a.AnalyzedAt.UTC()
	if a.AnalyzedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO review_analysis (id, product_id, sentiment_group, advantages, disadvantages, review_count, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id, sentiment_group) DO UPDATE SET
			advantages = excluded.advantages,
			disadvantages = excluded.disadvantages,
			review_count = excluded.review_count,
			analyzed_at = excluded.analyzed_at`,
		uuid.New().String(), a.ProductID, string(a.Group), advJSON, disJSON, a.ReviewCount, at,
	)
	return eris.Wrapf(err, "sqlite: upsert group analysis %s/%s", a.ProductID, a.Group)
}

func (s *SQLiteStore) GetGroupAnalyses(ctx context.Context, productID string) ([]model.GroupAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, sentiment_group, advantages, disadvantages, review_count, analyzed_at
		FROM review_analysis WHERE product_id = ?`, productID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get group analyses")
	}
	defer rows.Close()

	var analyses []model.GroupAnalysis
	for rows.Next() {
		var a model.GroupAnalysis
		var advJSON, disJSON string
		if err := rows.Scan(&a.ProductID, &a.Group, &advJSON, &disJSON, &a.ReviewCount, &a.AnalyzedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan group analysis")
		}
		if err := unmarshalFindings(advJSON, disJSON, &a.Advantages, &a.Disadvantages); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, eris.Wrap(rows.Err(), "sqlite: get group analyses iterate")
}

func (s *SQLiteStore) UpsertEvaluation(ctx context.Context, e *model.Evaluation) error {
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
		return eris.Wrap(err, "sqlite: marshal evaluation details")
	}
	at := e.EvaluatedAt.UTC()
	if e.EvaluatedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO product_evaluations (id, product_id, weighted_score, contradiction_penalties, final_score, grade, evaluation_details, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET
			weighted_score = excluded.weighted_score,
			contradiction_penalties = excluded.contradiction_penalties,
			final_score = excluded.final_score,
			grade = excluded.grade,
			evaluation_details = excluded.evaluation_details,
			evaluated_at = excluded.evaluated_at`,
		uuid.New().String(), e.ProductID, e.WeightedScore, e.ContradictionPenalty,
		e.FinalScore, e.Grade, string(detailsJSON), at,
	)
	return eris.Wrapf(err, "sqlite: upsert evaluation %s", e.ProductID)
}

func (s *SQLiteStore) GetEvaluation(ctx context.Context, productID string) (*model.Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT product_id, weighted_score, contradiction_penalties, final_score, grade, evaluation_details, evaluated_at
		FROM product_evaluations WHERE product_id = ?`, productID)

	var e model.Evaluation
	var detailsJSON string
	err := row.Scan(&e.ProductID, &e.WeightedScore, &e.ContradictionPenalty,
		&e.FinalScore, &e.Grade, &detailsJSON, &e.EvaluatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get evaluation")
	}
	if err := json.Unmarshal([]byte(detailsJSON), &e.Details); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal evaluation details")
	}
	return &e, nil
}

func (s *SQLiteStore) UpsertClaimsAnalysis(ctx context.Context, c *model.ClaimsAnalysis) error {
	conJSON, pointsJSON, err := marshalFindings(c.Contradictions, c.ConsistencyPoints)
	if err != nil {
		return err
	}
	at := c.AnalyzedAt.UTC()
	if c.AnalyzedAt.IsZero() {
		at = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO claims_vs_reality (id, product_id, contradictions, consistency_points, overall_assessment, trust_level, raw_response, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET
			contradictions = excluded.contradictions,
			consistency_points = excluded.consistency_points,
			overall_assessment = excluded.overall_assessment,
			trust_level = excluded.trust_level,
			raw_response = excluded.raw_response,
			analyzed_at = excluded.analyzed_at`,
		uuid.New().String(), c.ProductID, conJSON, pointsJSON,
		c.OverallAssessment, c.TrustLevel, c.RawResponse, at,
	)
	return eris.Wrapf(err, "sqlite: upsert claims analysis %s", c.ProductID)
}

func (s *SQLiteStore) GetClaimsAnalysis(ctx context.Context, productID string) (*model.ClaimsAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT product_id, contradictions, consistency_points, overall_assessment, trust_level, raw_response, analyzed_at
		FROM claims_vs_reality WHERE product_id = ?`, productID)

	var c model.ClaimsAnalysis
	var conJSON, pointsJSON string
	err := row.Scan(&c.ProductID, &conJSON, &pointsJSON,
		&c.OverallAssessment, &c.TrustLevel, &c.RawResponse, &c.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get claims analysis")
	}
	if err := unmarshalFindings(conJSON, pointsJSON, &c.Contradictions, &c.ConsistencyPoints); err != nil {
		return nil, err
	}
	return &c, nil
}

// helpers

var errNotFound = eris.New("not found")

const productSelect = `
	SELECT id, url, name, price, rating, review_count,
		rating_dist_5_star_percent, rating_dist_4_star_percent,
		rating_dist_3_star_percent, rating_dist_2_star_percent,
		rating_dist_1_star_percent, detailed_summary, scraped_at
	FROM products`

type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.URL, &p.Name, &p.Price, &p.Rating, &p.ReviewCount,
		&p.RatingDist.FiveStar, &p.RatingDist.FourStar, &p.RatingDist.ThreeStar,
		&p.RatingDist.TwoStar, &p.RatingDist.OneStar, &p.DetailedSummary, &p.ScrapedAt)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan product")
	}
	return &p, nil
}

func collectImages(rows *sql.Rows) ([]model.Image, error) {
	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan image")
		}
		images = append(images, img)
	}
	return images, eris.Wrap(rows.Err(), "sqlite: images iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func marshalFindings(a, b []string) (string, string, error) {
	if a == nil {
		a = []string{}
	}
	if b == nil {
		b = []string{}
	}
	aJSON, err := json.Marshal(a)
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal findings")
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal findings")
	}
	return string(aJSON), string(bJSON), nil
}

func unmarshalFindings(aJSON, bJSON string, a, b *[]string) error {
	if err := json.Unmarshal([]byte(aJSON), a); err != nil {
		return eris.Wrap(err, "store: unmarshal findings")
	}
	if err := json.Unmarshal([]byte(bJSON), b); err != nil {
		return eris.Wrap(err, "store: unmarshal findings")
	}
	return nil
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trustlens/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedProduct(t *testing.T, st *SQLiteStore, url string) string {
	t.Helper()
	id, err := st.UpsertProductByURL(context.Background(), &model.Product{
		URL:         url,
		Name:        "수분 크림",
		Price:       "18,000원",
		Rating:      "4.7",
		ReviewCount: "1,234",
		RatingDist:  model.RatingDistribution{FiveStar: "72%", FourStar: "18%"},
	})
	require.NoError(t, err)
	return id
}

// --- Products ---

func TestSQLite_UpsertProduct_InsertAndFind(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id := seedProduct(t, st, "https://shop.example.com/goods/1001")
	require.NotEmpty(t, id)

	p, err := st.FindProductByURL(ctx, "https://shop.example.com/goods/1001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "수분 크림", p.Name)
	assert.Equal(t, "72%", p.RatingDist.FiveStar)
}

func TestSQLite_UpsertProduct_SameURLNoDuplicate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id1 := seedProduct(t, st, "https://shop.example.com/goods/1001")
	id2, err := st.UpsertProductByURL(ctx, &model.Product{
		URL:    "https://shop.example.com/goods/1001",
		Name:   "수분 크림 리뉴얼",
		Rating: "4.8",
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "수분 크림 리뉴얼", products[0].Name)
	assert.Equal(t, "4.8", products[0].Rating)
}

func TestSQLite_FindProductByURL_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	p, err := st.FindProductByURL(context.Background(), "https://shop.example.com/goods/none")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSQLite_GetProduct_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetProduct(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

// --- Images and reviews ---

func TestSQLite_ReplaceImages_ReplacesSet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.ReplaceImages(ctx, id, []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}))
	require.NoError(t, st.ReplaceImages(ctx, id, []string{"https://img.example.com/c.jpg"}))

	images, err := st.GetImages(ctx, id)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.example.com/c.jpg", images[0].URL)
}

func TestSQLite_ReplaceReviews_ReplacesSet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.ReplaceReviews(ctx, id, []model.Review{
		{Text: "촉촉해요", Rating: "5"},
		{Text: "그냥 그래요", Rating: "3"},
	}))
	require.NoError(t, st.ReplaceReviews(ctx, id, []model.Review{
		{Text: "re-scraped", Rating: "4"},
	}))

	reviews, err := st.GetReviewsByRating(ctx, id, []string{"4", "3"})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "re-scraped", reviews[0].Text)
}

func TestSQLite_GetReviewsByRating_FiltersByGroup(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.ReplaceReviews(ctx, id, []model.Review{
		{Text: "great", Rating: "5"},
		{Text: "fine", Rating: "4"},
		{Text: "meh", Rating: "3"},
		{Text: "bad", Rating: "2"},
		{Text: "unrated", Rating: ""},
	}))

	neutral, err := st.GetReviewsByRating(ctx, id, model.GroupNeutral.Ratings())
	require.NoError(t, err)
	assert.Len(t, neutral, 2)

	negative, err := st.GetReviewsByRating(ctx, id, model.GroupNegative.Ratings())
	require.NoError(t, err)
	assert.Len(t, negative, 1)

	none, err := st.GetReviewsByRating(ctx, id, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_GetReviewRatingCounts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.ReplaceReviews(ctx, id, []model.Review{
		{Text: "a", Rating: "5"},
		{Text: "b", Rating: "5"},
		{Text: "c", Rating: "1"},
	}))

	counts, err := st.GetReviewRatingCounts(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["5"])
	assert.Equal(t, 1, counts["1"])
}

// --- Image texts ---

func TestSQLite_UpsertImageText_UpdatesInPlace(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")
	require.NoError(t, st.ReplaceImages(ctx, id, []string{"https://img.example.com/a.jpg"}))

	images, err := st.GetImages(ctx, id)
	require.NoError(t, err)
	require.Len(t, images, 1)

	require.NoError(t, st.UpsertImageText(ctx, &model.ImageText{
		ImageID: images[0].ID, ProductID: id, ImageURL: images[0].URL, Text: "first pass",
	}))
	require.NoError(t, st.UpsertImageText(ctx, &model.ImageText{
		ImageID: images[0].ID, ProductID: id, ImageURL: images[0].URL, Text: "second pass",
	}))

	texts, err := st.GetImageTexts(ctx, id)
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "second pass", texts[0].Text)
}

func TestSQLite_GetUnprocessedImages(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")
	require.NoError(t, st.ReplaceImages(ctx, id, []string{
		"https://img.example.com/a.jpg",
		"https://img.example.com/b.jpg",
	}))

	images, err := st.GetImages(ctx, id)
	require.NoError(t, err)
	require.Len(t, images, 2)

	require.NoError(t, st.UpsertImageText(ctx, &model.ImageText{
		ImageID: images[0].ID, ProductID: id, ImageURL: images[0].URL, Text: "done",
	}))

	pending, err := st.GetUnprocessedImages(ctx, id)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, images[1].ID, pending[0].ID)
}

func TestSQLite_GetUnprocessedImages_AllProducts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	first := seedProduct(t, st, "https://shop.example.com/goods/1001")
	second := seedProduct(t, st, "https://shop.example.com/goods/1002")
	require.NoError(t, st.ReplaceImages(ctx, first, []string{"https://img.example.com/a.jpg"}))
	require.NoError(t, st.ReplaceImages(ctx, second, []string{"https://img.example.com/b.jpg"}))

	firstImages, err := st.GetImages(ctx, first)
	require.NoError(t, err)
	require.Len(t, firstImages, 1)
	require.NoError(t, st.UpsertImageText(ctx, &model.ImageText{
		ImageID: firstImages[0].ID, ProductID: first, ImageURL: firstImages[0].URL, Text: "done",
	}))

	pending, err := st.GetUnprocessedImages(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].ProductID)
}

// --- Summary ---

func TestSQLite_SaveAndGetSummary(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.SaveSummary(ctx, id, "마케팅 요약 내용"))

	summary, err := st.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "마케팅 요약 내용", summary)
}

func TestSQLite_SaveSummary_MissingProduct(t *testing.T) {
	st := newTestSQLiteStore(t)
	err := st.SaveSummary(context.Background(), "missing", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

// --- Group analysis ---

func TestSQLite_UpsertGroupAnalysis_NoDuplicatePerGroup(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.UpsertGroupAnalysis(ctx, &model.GroupAnalysis{
		ProductID: id, Group: model.GroupPositive,
		Advantages: []string{"촉촉함"}, ReviewCount: 10,
	}))
	require.NoError(t, st.UpsertGroupAnalysis(ctx, &model.GroupAnalysis{
		ProductID: id, Group: model.GroupPositive,
		Advantages: []string{"촉촉함", "순한 성분"}, ReviewCount: 12,
	}))
	require.NoError(t, st.UpsertGroupAnalysis(ctx, &model.GroupAnalysis{
		ProductID: id, Group: model.GroupNegative,
		Disadvantages: []string{"끈적임"}, ReviewCount: 3,
	}))

	analyses, err := st.GetGroupAnalyses(ctx, id)
	require.NoError(t, err)
	require.Len(t, analyses, 2)

	byGroup := make(map[model.SentimentGroup]model.GroupAnalysis)
	for _, a := range analyses {
		byGroup[a.Group] = a
	}
	assert.Equal(t, []string{"촉촉함", "순한 성분"}, byGroup[model.GroupPositive].Advantages)
	assert.Equal(t, 12, byGroup[model.GroupPositive].ReviewCount)
	assert.Equal(t, []string{"끈적임"}, byGroup[model.GroupNegative].Disadvantages)
	// Empty slices round-trip as empty, not nil JSON.
	assert.NotNil(t, byGroup[model.GroupNegative].Advantages)
}

// --- Evaluation and claims ---

func TestSQLite_UpsertEvaluation_Roundtrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.UpsertEvaluation(ctx, &model.Evaluation{
		ProductID:            id,
		WeightedScore:        86.4,
		ContradictionPenalty: 8,
		FinalScore:           78.4,
		Grade:                "B+ (양호)",
		Contradictions: []model.Contradiction{
			{Claim: "24시간 보습", Reality: "오후에 당김", Severity: model.SeverityMedium},
		},
	}))

	// Second write updates in place.
	require.NoError(t, st.UpsertEvaluation(ctx, &model.Evaluation{
		ProductID:     id,
		WeightedScore: 90,
		FinalScore:    90,
		Grade:         "A+ (우수)",
	}))

	e, err := st.GetEvaluation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.InDelta(t, 90.0, e.FinalScore, 0.001)
	assert.Equal(t, "A+ (우수)", e.Grade)
}

func TestSQLite_GetEvaluation_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	e, err := st.GetEvaluation(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestSQLite_UpsertClaimsAnalysis_Roundtrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")

	require.NoError(t, st.UpsertClaimsAnalysis(ctx, &model.ClaimsAnalysis{
		ProductID:         id,
		Contradictions:    []string{"보습 지속력 과장"},
		ConsistencyPoints: []string{"순한 성분은 사실"},
		OverallAssessment: "대체로 신뢰 가능",
		TrustLevel:        "높음",
	}))
	require.NoError(t, st.UpsertClaimsAnalysis(ctx, &model.ClaimsAnalysis{
		ProductID:   id,
		TrustLevel:  model.TrustLevelNeutral,
		RawResponse: "unparseable response text",
	}))

	c, err := st.GetClaimsAnalysis(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, model.TrustLevelNeutral, c.TrustLevel)
	assert.Equal(t, "unparseable response text", c.RawResponse)
	assert.Empty(t, c.Contradictions)
}

// --- Cascade ---

func TestSQLite_ReplaceImages_CascadesImageTexts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	id := seedProduct(t, st, "https://shop.example.com/goods/1001")
	require.NoError(t, st.ReplaceImages(ctx, id, []string{"https://img.example.com/a.jpg"}))

	images, err := st.GetImages(ctx, id)
	require.NoError(t, err)
	require.NoError(t, st.UpsertImageText(ctx, &model.ImageText{
		ImageID: images[0].ID, ProductID: id, ImageURL: images[0].URL, Text: "old",
	}))

	// Replacing images deletes the old rows; texts cascade with them.
	require.NoError(t, st.ReplaceImages(ctx, id, []string{"https://img.example.com/new.jpg"}))

	texts, err := st.GetImageTexts(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, texts)
}

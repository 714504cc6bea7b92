package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trustlens/internal/insight"
	"github.com/sells-group/trustlens/internal/model"
)

// fakeStore is an in-memory store with per-method error injection via
// failOn. Keys are the store method names.
type fakeStore struct {
	products   map[string]*model.Product
	idByURL    map[string]string
	images     map[string][]model.Image
	reviews    map[string][]model.Review
	imageTexts map[string]map[string]model.ImageText
	summaries  map[string]string
	analyses   map[string]map[model.SentimentGroup]model.GroupAnalysis
	evals      map[string]*model.Evaluation
	claims     map[string]*model.ClaimsAnalysis
	failOn     map[string]error
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   make(map[string]*model.Product),
		idByURL:    make(map[string]string),
		images:     make(map[string][]model.Image),
		reviews:    make(map[string][]model.Review),
		imageTexts: make(map[string]map[string]model.ImageText),
		summaries:  make(map[string]string),
		analyses:   make(map[string]map[model.SentimentGroup]model.GroupAnalysis),
		evals:      make(map[string]*model.Evaluation),
		claims:     make(map[string]*model.ClaimsAnalysis),
		failOn:     make(map[string]error),
	}
}

func (f *fakeStore) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeStore) UpsertProductByURL(_ context.Context, p *model.Product) (string, error) {
	if err := f.fail("UpsertProductByURL"); err != nil {
		return "", err
	}
	id, ok := f.idByURL[p.URL]
	if !ok {
		f.nextID++
		id = fmt.Sprintf("prod-%d", f.nextID)
		f.idByURL[p.URL] = id
	}
	copied := *p
	copied.ID = id
	f.products[id] = &copied
	return id, nil
}

func (f *fakeStore) FindProductByURL(_ context.Context, url string) (*model.Product, error) {
	if err := f.fail("FindProductByURL"); err != nil {
		return nil, err
	}
	id, ok := f.idByURL[url]
	if !ok {
		return nil, nil
	}
	return f.products[id], nil
}

func (f *fakeStore) GetProduct(_ context.Context, productID string) (*model.Product, error) {
	if err := f.fail("GetProduct"); err != nil {
		return nil, err
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, eris.Errorf("product not found: %s", productID)
	}
	return p, nil
}

func (f *fakeStore) ListProducts(context.Context) ([]model.Product, error) {
	if err := f.fail("ListProducts"); err != nil {
		return nil, err
	}
	var out []model.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) ReplaceImages(_ context.Context, productID string, urls []string) error {
	if err := f.fail("ReplaceImages"); err != nil {
		return err
	}
	imgs := make([]model.Image, len(urls))
	for i, u := range urls {
		imgs[i] = model.Image{ID: fmt.Sprintf("img-%d", i+1), ProductID: productID, URL: u}
	}
	f.images[productID] = imgs
	return nil
}

func (f *fakeStore) ReplaceReviews(_ context.Context, productID string, reviews []model.Review) error {
	if err := f.fail("ReplaceReviews"); err != nil {
		return err
	}
	f.reviews[productID] = reviews
	return nil
}

func (f *fakeStore) GetImages(_ context.Context, productID string) ([]model.Image, error) {
	if err := f.fail("GetImages"); err != nil {
		return nil, err
	}
	return f.images[productID], nil
}

func (f *fakeStore) GetUnprocessedImages(_ context.Context, productID string) ([]model.Image, error) {
	if err := f.fail("GetUnprocessedImages"); err != nil {
		return nil, err
	}
	ids := []string{productID}
	if productID == "" {
		ids = ids[:0]
		for id := range f.images {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}
	var out []model.Image
	for _, id := range ids {
		for _, img := range f.images[id] {
			if _, done := f.imageTexts[id][img.ID]; !done {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetReviewsByRating(_ context.Context, productID string, ratings []string) ([]model.Review, error) {
	if err := f.fail("GetReviewsByRating"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		wanted[r] = true
	}
	var out []model.Review
	for _, r := range f.reviews[productID] {
		if wanted[r.Rating] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetReviewRatingCounts(_ context.Context, productID string) (map[string]int, error) {
	if err := f.fail("GetReviewRatingCounts"); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range f.reviews[productID] {
		if r.Rating != "" {
			counts[r.Rating]++
		}
	}
	return counts, nil
}

func (f *fakeStore) UpsertImageText(_ context.Context, t *model.ImageText) error {
	if err := f.fail("UpsertImageText"); err != nil {
		return err
	}
	if f.imageTexts[t.ProductID] == nil {
		f.imageTexts[t.ProductID] = make(map[string]model.ImageText)
	}
	f.imageTexts[t.ProductID][t.ImageID] = *t
	return nil
}

func (f *fakeStore) GetImageTexts(_ context.Context, productID string) ([]model.ImageText, error) {
	if err := f.fail("GetImageTexts"); err != nil {
		return nil, err
	}
	var out []model.ImageText
	for _, img := range f.images[productID] {
		if t, ok := f.imageTexts[productID][img.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveSummary(_ context.Context, productID, summary string) error {
	if err := f.fail("SaveSummary"); err != nil {
		return err
	}
	f.summaries[productID] = summary
	return nil
}

func (f *fakeStore) GetSummary(_ context.Context, productID string) (string, error) {
	if err := f.fail("GetSummary"); err != nil {
		return "", err
	}
	return f.summaries[productID], nil
}

func (f *fakeStore) UpsertGroupAnalysis(_ context.Context, a *model.GroupAnalysis) error {
	if err := f.fail("UpsertGroupAnalysis"); err != nil {
		return err
	}
	if f.analyses[a.ProductID] == nil {
		f.analyses[a.ProductID] = make(map[model.SentimentGroup]model.GroupAnalysis)
	}
	f.analyses[a.ProductID][a.Group] = *a
	return nil
}

func (f *fakeStore) GetGroupAnalyses(_ context.Context, productID string) ([]model.GroupAnalysis, error) {
	if err := f.fail("GetGroupAnalyses"); err != nil {
		return nil, err
	}
	var out []model.GroupAnalysis
	for _, g := range model.AllGroups() {
		if a, ok := f.analyses[productID][g]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertEvaluation(_ context.Context, e *model.Evaluation) error {
	if err := f.fail("UpsertEvaluation"); err != nil {
		return err
	}
	f.evals[e.ProductID] = e
	return nil
}

func (f *fakeStore) GetEvaluation(_ context.Context, productID string) (*model.Evaluation, error) {
	if err := f.fail("GetEvaluation"); err != nil {
		return nil, err
	}
	return f.evals[productID], nil
}

func (f *fakeStore) UpsertClaimsAnalysis(_ context.Context, c *model.ClaimsAnalysis) error {
	if err := f.fail("UpsertClaimsAnalysis"); err != nil {
		return err
	}
	f.claims[c.ProductID] = c
	return nil
}

func (f *fakeStore) GetClaimsAnalysis(_ context.Context, productID string) (*model.ClaimsAnalysis, error) {
	if err := f.fail("GetClaimsAnalysis"); err != nil {
		return nil, err
	}
	return f.claims[productID], nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Close() error                  { return nil }

type fakeScraper struct {
	res   *model.ScrapeResult
	err   error
	calls int
}

func (s *fakeScraper) Scrape(_ context.Context, _ string) (*model.ScrapeResult, error) {
	s.calls++
	return s.res, s.err
}

type fakeExtractor struct {
	texts   map[string]string
	gotURLs []string
}

func (e *fakeExtractor) ExtractAll(_ context.Context, urls []string) map[string]string {
	e.gotURLs = urls
	out := make(map[string]string, len(urls))
	for _, u := range urls {
		out[u] = e.texts[u]
	}
	return out
}

type fakeAnalyzer struct {
	findings      map[model.SentimentGroup]insight.Findings
	groupInputs   map[model.SentimentGroup][]string
	summary       string
	summaryErr    error
	summaryInputs []string
}

func (a *fakeAnalyzer) AnalyzeGroup(_ context.Context, group model.SentimentGroup, reviews []string) insight.Findings {
	if a.groupInputs == nil {
		a.groupInputs = make(map[model.SentimentGroup][]string)
	}
	a.groupInputs[group] = reviews
	f, ok := a.findings[group]
	if !ok {
		return insight.Findings{Advantages: []string{}, Disadvantages: []string{}}
	}
	return f
}

func (a *fakeAnalyzer) BuildSummary(_ context.Context, texts []string) (string, error) {
	a.summaryInputs = texts
	return a.summary, a.summaryErr
}

type fakeEvaluator struct {
	eval       *model.Evaluation
	claims     *model.ClaimsAnalysis
	claimsErr  error
	gotSummary string
	gotCounts  map[string]int
	gotGroups  []model.GroupAnalysis
}

func (e *fakeEvaluator) Evaluate(_ context.Context, productID string, counts map[string]int, summary string, groups []model.GroupAnalysis) *model.Evaluation {
	e.gotCounts = counts
	e.gotSummary = summary
	e.gotGroups = groups
	if e.eval != nil {
		return e.eval
	}
	return &model.Evaluation{ProductID: productID, Grade: "D (매우 부족)"}
}

func (e *fakeEvaluator) AnalyzeClaims(_ context.Context, productID, _ string, _ []model.GroupAnalysis) (*model.ClaimsAnalysis, error) {
	if e.claimsErr != nil {
		return nil, e.claimsErr
	}
	if e.claims != nil {
		return e.claims, nil
	}
	return &model.ClaimsAnalysis{ProductID: productID, TrustLevel: model.TrustLevelNeutral}, nil
}

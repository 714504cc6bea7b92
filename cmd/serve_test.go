package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router := newRouter(newTestStore(t), func(string) {})

	rec := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_ProductsEmpty(t *testing.T) {
	router := newRouter(newTestStore(t), func(string) {})

	rec := doRequest(t, router, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Empty(t, products)
}

func TestRouter_ProductReadPath(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	id, err := st.UpsertProductByURL(ctx, &model.Product{
		URL:  "https://www.example.com/goods/detail?goodsNo=A123",
		Name: "수분 크림",
	})
	require.NoError(t, err)
	require.NoError(t, st.ReplaceReviews(ctx, id, []model.Review{
		{ID: "r1", Text: "좋아요", Rating: "5"},
	}))
	require.NoError(t, st.UpsertEvaluation(ctx, &model.Evaluation{
		ProductID: id, FinalScore: 84, Grade: "A (좋음)",
		Contradictions: []model.Contradiction{},
	}))
	require.NoError(t, st.UpsertClaimsAnalysis(ctx, &model.ClaimsAnalysis{
		ProductID: id, TrustLevel: "높음",
		Contradictions: []string{}, ConsistencyPoints: []string{},
	}))

	router := newRouter(st, func(string) {})

	rec := doRequest(t, router, http.MethodGet, "/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.ProductStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "수분 크림", stats.Name)
	assert.Equal(t, 1, stats.ReviewCount)
	require.NotNil(t, stats.FinalScore)
	assert.Equal(t, 84.0, *stats.FinalScore)

	rec = doRequest(t, router, http.MethodGet, "/products/"+id+"/evaluation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var eval model.Evaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, "A (좋음)", eval.Grade)

	rec = doRequest(t, router, http.MethodGet, "/products/"+id+"/claims", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var claims model.ClaimsAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Equal(t, "높음", claims.TrustLevel)
}

func TestRouter_NotFound(t *testing.T) {
	router := newRouter(newTestStore(t), func(string) {})

	assert.Equal(t, http.StatusNotFound,
		doRequest(t, router, http.MethodGet, "/products/missing", "").Code)
	assert.Equal(t, http.StatusNotFound,
		doRequest(t, router, http.MethodGet, "/products/missing/evaluation", "").Code)
	assert.Equal(t, http.StatusNotFound,
		doRequest(t, router, http.MethodGet, "/products/missing/claims", "").Code)
}

func TestAnalysisQueue_RunsOneAtATime(t *testing.T) {
	const runs = 5
	var active, overlapped int32
	done := make(chan struct{}, runs)

	q := &analysisQueue{run: func(_ context.Context, url string) (*model.PipelineResult, error) {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		done <- struct{}{}
		return &model.PipelineResult{URL: url}, nil
	}}

	for i := 0; i < runs; i++ {
		q.enqueue(context.Background(), "https://www.example.com/goods/detail?goodsNo=A123")
	}
	for i := 0; i < runs; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("queued run did not finish")
		}
	}
	assert.Zero(t, atomic.LoadInt32(&overlapped), "runs must not overlap")
}

func TestRouter_Analyze(t *testing.T) {
	var got string
	router := newRouter(newTestStore(t), func(url string) { got = url })

	rec := doRequest(t, router, http.MethodPost, "/analyze", `{"url":"https://www.example.com/goods/detail?goodsNo=A123"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://www.example.com/goods/detail?goodsNo=A123", got)

	rec = doRequest(t, router, http.MethodPost, "/analyze", `{"url":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "product_reviews", []string{"id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_InsertsRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"product_reviews"}, []string{"id", "product_id", "review_text"}).WillReturnResult(2)

	rows := [][]any{
		{"r1", "p1", "good"},
		{"r2", "p1", "bad"},
	}
	n, err := CopyFrom(context.Background(), mock, "product_reviews", []string{"id", "product_id", "review_text"}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"product_images"}, []string{"id"}).WillReturnError(assert.AnError)

	_, err = CopyFrom(context.Background(), mock, "product_images", []string{"id"}, [][]any{{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO product_images")
}

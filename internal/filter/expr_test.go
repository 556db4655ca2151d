package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/papergraph/pkg/schema"
)

func TestNewExprEngine(t *testing.T) {
	e := NewExprEngine()
	assert.Equal(t, "expr", e.Name())
}

// --- Paper filters ---

func paperDoc() map[string]any {
	return map[string]any{
		"paperId":       "p1",
		"title":         "Deep Residual Learning",
		"year":          2016,
		"citationCount": 120000,
		"isOpenAccess":  true,
		"authors": []any{
			map[string]any{"name": "K. He"},
			map[string]any{"name": "X. Zhang"},
		},
	}
}

func TestExpr_NumericFilter(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), "citationCount > 100 && year >= 2015", paperDoc())
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExpr_StringAndArrayOperations(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), `title contains "Residual" && len(authors) == 2`, paperDoc())
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = e.Evaluate(context.Background(), `any(authors, .name == "K. He")`, paperDoc())
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExpr_MissingFieldsEvaluateAsNil(t *testing.T) {
	e := NewExprEngine()

	// Sparse documents: fields that were not requested simply do not
	// exist, the filter should still run.
	out, err := e.Evaluate(context.Background(), "openAccessPdf == nil", paperDoc())
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = e.Evaluate(context.Background(), "(referenceCount ?? 0) < 50", paperDoc())
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

// --- Errors ---

func TestExpr_EmptyExpression(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "", nil)
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeValidation, pgErr.Code)
}

func TestExpr_CompileErrorIsValidation(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "year >", paperDoc())
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeValidation, pgErr.Code)
	assert.Equal(t, "year >", pgErr.Details["expression"])
}

func TestExpr_RuntimeErrorIsEvaluation(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "10 / divisor", map[string]any{"divisor": 0})
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeEvaluation, pgErr.Code)
}

func TestExpr_CacheReusesPrograms(t *testing.T) {
	e := NewExprEngine()

	for i := 0; i < 3; i++ {
		out, err := e.Evaluate(context.Background(), "year == 2016", paperDoc())
		require.NoError(t, err)
		assert.Equal(t, true, out)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	assert.Len(t, e.cache, 1)
}

package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/blackwell-systems/otscore/internal/association"
)

// MockQuerier is a testify mock of the association source.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Filter(ctx context.Context, f association.Filter) (association.Tabler, error) {
	args := m.Called(ctx, f)
	tabler, _ := args.Get(0).(association.Tabler)
	return tabler, args.Error(1)
}

// shapeless is a response whose payload cannot be read as associations.
type shapeless struct{}

func (shapeless) ToTable() (association.Table, error) {
	return nil, association.ErrTypeMismatch
}

func sampleTable() association.Table {
	return association.Table{
		{TargetID: "ENSG00000197386", DiseaseID: "Orphanet_399", OverallScore: 1.0},
		{TargetID: "ENSG00000197386", DiseaseID: "EFO_0000270", OverallScore: 0.25},
		{TargetID: "ENSG00000197386", DiseaseID: "EFO_0005772", OverallScore: 0.5},
		{TargetID: "ENSG00000197386", DiseaseID: "EFO_0000249", OverallScore: 0.0625},
	}
}

func TestRun_EmptyResult(t *testing.T) {
	q := new(MockQuerier)
	f := association.Filter{Kind: association.KindTarget, ID: "ENSG00000197386"}
	q.On("Filter", mock.Anything, f).Return(association.Table{}, nil)

	res, err := New(q).Run(context.Background(), association.KindTarget, "ENSG00000197386")
	require.NoError(t, err)

	assert.Equal(t, "ENSG00000197386", res.QueryTerm)
	assert.True(t, res.Empty())
	assert.Nil(t, res.Pairs)
	assert.Nil(t, res.ScoreMax)
	assert.Nil(t, res.ScoreMin)
	assert.Nil(t, res.ScoreMean)
	assert.Nil(t, res.ScoreStdDev)
	q.AssertExpectations(t)
}

func TestRun_PopulatesStatistics(t *testing.T) {
	table := sampleTable()
	q := new(MockQuerier)
	q.On("Filter", mock.Anything, association.Filter{Kind: association.KindTarget, ID: "ENSG00000197386"}).
		Return(table, nil)

	res, err := New(q).Run(context.Background(), association.KindTarget, "ENSG00000197386")
	require.NoError(t, err)

	scores := table.Scores()
	require.NotNil(t, res.ScoreMax)
	require.NotNil(t, res.ScoreMin)
	require.NotNil(t, res.ScoreMean)
	require.NotNil(t, res.ScoreStdDev)

	assert.Equal(t, len(table), res.Count())
	assert.Equal(t, table, res.Pairs)
	assert.Equal(t, 1.0, *res.ScoreMax)
	assert.Equal(t, 0.0625, *res.ScoreMin)
	assert.InDelta(t, stat.Mean(scores, nil), *res.ScoreMean, 1e-12)
	assert.InDelta(t, stat.StdDev(scores, nil), *res.ScoreStdDev, 1e-12)
}

func TestRun_SingleRecordHasNaNStdDev(t *testing.T) {
	q := new(MockQuerier)
	q.On("Filter", mock.Anything, mock.Anything).Return(association.Table{
		{TargetID: "ENSG00000139618", DiseaseID: "EFO_0000305", OverallScore: 0.9},
	}, nil)

	res, err := New(q).Run(context.Background(), association.KindDisease, "EFO_0000305")
	require.NoError(t, err)

	require.NotNil(t, res.ScoreStdDev)
	assert.True(t, math.IsNaN(*res.ScoreStdDev))
	assert.Equal(t, 0.9, *res.ScoreMean)
}

func TestRun_QuerierErrorPassesThrough(t *testing.T) {
	apiErr := errors.New("503 service unavailable")
	q := new(MockQuerier)
	q.On("Filter", mock.Anything, mock.Anything).Return(nil, apiErr)

	res, err := New(q).Run(context.Background(), association.KindDisease, "Orphanet_399")
	assert.Nil(t, res)
	assert.Same(t, apiErr, err)
}

func TestRun_TypeMismatch(t *testing.T) {
	q := new(MockQuerier)
	q.On("Filter", mock.Anything, mock.Anything).Return(shapeless{}, nil)

	_, err := New(q).Run(context.Background(), association.KindTarget, "ENSG00000197386")
	assert.ErrorIs(t, err, association.ErrTypeMismatch)
}

func TestRun_NilResponseIsTypeMismatch(t *testing.T) {
	q := new(MockQuerier)
	q.On("Filter", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := New(q).Run(context.Background(), association.KindTarget, "ENSG00000197386")
	assert.ErrorIs(t, err, association.ErrTypeMismatch)
}

func TestRun_InvalidFilterSkipsQuerier(t *testing.T) {
	q := new(MockQuerier)

	_, err := New(q).Run(context.Background(), association.KindTarget, "")
	assert.ErrorIs(t, err, association.ErrInvalidFilter)

	_, err = New(q).Run(context.Background(), association.Kind("drug"), "CHEMBL25")
	assert.ErrorIs(t, err, association.ErrInvalidFilter)

	q.AssertNotCalled(t, "Filter", mock.Anything, mock.Anything)
}

func TestRun_VerboseLogging(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantWarning bool
	}{
		{"verbose warns on empty result", true, true},
		{"quiet stays silent", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			q := new(MockQuerier)
			q.On("Filter", mock.Anything, mock.Anything).Return(association.Table{}, nil)

			_, err := New(q, WithLogger(logger), WithVerbose(tt.verbose)).
				Run(context.Background(), association.KindTarget, "cica")
			require.NoError(t, err)

			out := buf.String()
			assert.Equal(t, tt.wantWarning, strings.Contains(out, "result set is empty"), "log output: %s", out)
			assert.Equal(t, tt.verbose, strings.Contains(out, "count=0"), "log output: %s", out)
		})
	}
}

// recordingQuerier serves canned tables keyed by filter and records call order.
type recordingQuerier struct {
	mu     sync.Mutex
	tables map[association.Filter]association.Table
	calls  []association.Filter
	err    error
}

func (q *recordingQuerier) Filter(ctx context.Context, f association.Filter) (association.Tabler, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, f)
	if q.err != nil {
		return nil, q.err
	}
	return q.tables[f], nil
}

func TestRunAll(t *testing.T) {
	target := association.Filter{Kind: association.KindTarget, ID: "ENSG00000197386"}
	disease := association.Filter{Kind: association.KindDisease, ID: "Orphanet_399"}

	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			q := &recordingQuerier{tables: map[association.Filter]association.Table{
				target:  sampleTable(),
				disease: {},
			}}

			results, err := New(q).RunAll(context.Background(), []association.Filter{target, disease}, parallel)
			require.NoError(t, err)
			require.Len(t, results, 2)

			assert.Equal(t, target.ID, results[0].QueryTerm)
			assert.Equal(t, 4, results[0].Count())
			assert.Equal(t, disease.ID, results[1].QueryTerm)
			assert.True(t, results[1].Empty())
			assert.Len(t, q.calls, 2)
		})
	}
}

func TestRunAll_StopsOnError(t *testing.T) {
	boom := errors.New("connection refused")
	q := &recordingQuerier{err: boom}

	filters := []association.Filter{
		{Kind: association.KindTarget, ID: "ENSG00000197386"},
		{Kind: association.KindDisease, ID: "Orphanet_399"},
	}

	_, err := New(q).RunAll(context.Background(), filters, false)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, q.calls, 1, "sequential run should stop after the first failure")

	_, err = New(q).RunAll(context.Background(), filters, true)
	assert.ErrorIs(t, err, boom)
}

func TestResultJSON(t *testing.T) {
	t.Run("empty result keeps every key", func(t *testing.T) {
		data, err := json.Marshal(Result{QueryTerm: "cica", Kind: association.KindTarget})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, "cica", decoded["queryTerm"])
		for _, key := range []string{"target-disease-pairs", "score_max", "score_min", "score_mean", "score_std"} {
			v, ok := decoded[key]
			assert.True(t, ok, "missing key %s", key)
			assert.Nil(t, v, "key %s should be null", key)
		}
	})

	t.Run("NaN deviation is encoded as a string", func(t *testing.T) {
		score, nan := 0.9, math.NaN()
		res := Result{
			QueryTerm:   "EFO_0000305",
			Pairs:       association.Table{{TargetID: "ENSG00000139618", DiseaseID: "EFO_0000305", OverallScore: score}},
			ScoreMax:    &score,
			ScoreMin:    &score,
			ScoreMean:   &score,
			ScoreStdDev: &nan,
		}

		data, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"score_std":"NaN"`)
		assert.Contains(t, string(data), `"score_max":0.9`)
		assert.Contains(t, string(data), `"target.id":"ENSG00000139618"`)
	})
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func render(t *testing.T) []session.Outcome {
	t.Helper()
	x := []float64{0, 1, 2, 3, 4, 5}
	sess := session.New()
	require.NoError(t, sess.Draw("y = a*x + b", x, []float64{1, 3, 5, 7, 9.5, 10.5}, session.WithTitle("linear")))
	require.NoError(t, sess.Draw("y = 3x + a", x, x))
	require.NoError(t, sess.Draw("y = 2*x + 1", x, x))
	outs, err := sess.Render(context.Background())
	require.NoError(t, err)
	return outs
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ids, err := s.Save(ctx, render(t))
	require.NoError(t, err)
	require.Len(t, ids, 3)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ids[2], records[0].ID, "newest first")

	fitted := records[2]
	assert.Equal(t, "y = a*x + b", fitted.Equation)
	assert.Equal(t, "linear", fitted.Title)
	assert.Equal(t, "fitted", fitted.Status)
	assert.Equal(t, "y = 1.97*x + 1.07", fitted.Label)
	assert.True(t, fitted.CreatedAt.Equal(fixed))
	require.NotNil(t, fitted.R2)
	assert.InDelta(t, 0.9929, *fitted.R2, 1e-4)
	require.NotNil(t, fitted.Weights)
	assert.Equal(t, []string{"a", "b"}, fitted.Weights.Parameters)

	failed := records[1]
	assert.Equal(t, "failed", failed.Status)
	assert.Nil(t, failed.Weights)
	assert.Nil(t, failed.R2)
	assert.NotEmpty(t, failed.Error)

	assert.Equal(t, "no-fit", records[0].Status)
	require.NotNil(t, records[0].Weights)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetAndRestore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	outs := render(t)
	ids, err := s.Save(ctx, outs)
	require.NoError(t, err)

	rec, err := s.Get(ctx, ids[0])
	require.NoError(t, err)

	reg, err := Restore(rec)
	require.NoError(t, err)
	assert.InDeltaSlice(t, outs[0].Regressor.Values(), reg.Values(), 1e-12)
	want, _ := outs[0].Regressor.Eval(7)
	got, err := reg.Eval(7)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)

	noFit, err := s.Get(ctx, ids[2])
	require.NoError(t, err)
	reg, err = Restore(noFit)
	require.NoError(t, err)
	got, _ = reg.Eval(2)
	assert.Equal(t, 5.0, got)

	failed, err := s.Get(ctx, ids[1])
	require.NoError(t, err)
	_, err = Restore(failed)
	assert.Error(t, err)

	_, err = s.Get(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(ctx, render(t)[:1])
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prodnet/internal/ir"
)

func TestNewRecord(t *testing.T) {
	body := []byte(`{"plan":"gears"}`)
	rec := NewRecord("gears", "h1", 3, body)

	assert.Equal(t, ir.ReportID("gears", body), rec.ID)
	assert.Equal(t, ir.EngineVersion, rec.EngineVersion)
	assert.Equal(t, ir.ReportVersion, rec.ReportVersion)
	assert.Zero(t, rec.Seq)
}

func TestWriteReport_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := NewRecord("gears", "h1", 3, []byte(`{"a":1}`))
	rec.Seq = 1
	require.NoError(t, s.WriteReport(ctx, rec))
	require.NoError(t, s.WriteReport(ctx, rec))

	all, err := s.ListReports(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := s.ReadReport(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWriteReport_SeqCollision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := NewRecord("gears", "", 1, []byte(`{"a":1}`))
	a.Seq = 1
	b := NewRecord("gears", "", 1, []byte(`{"a":2}`))
	b.Seq = 1

	require.NoError(t, s.WriteReport(ctx, a))
	assert.Error(t, s.WriteReport(ctx, b))
}

func TestWriteReport_RequiresID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.WriteReport(context.Background(), Record{Seq: 1}))
}

func TestReadReport_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadReport(context.Background(), "nonexistent")
	assert.True(t, errors.Is(err, sql.ErrNoRows), "got %v", err)
}

func TestAppend(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.NextSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	first, created, err := s.Append(ctx, NewRecord("gears", "h1", 3, []byte(`{"v":1}`)))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), first.Seq)

	second, created, err := s.Append(ctx, NewRecord("circuits", "h2", 6, []byte(`{"v":2}`)))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(2), second.Seq)

	// Same content keeps its original seq.
	again, created, err := s.Append(ctx, NewRecord("gears", "h1", 3, []byte(`{"v":1}`)))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again)

	seq, err = s.NextSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestListReports(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, r := range []struct {
		plan string
		body string
	}{
		{"gears", `{"v":1}`},
		{"circuits", `{"v":1}`},
		{"gears", `{"v":2}`},
	} {
		_, _, err := s.Append(ctx, NewRecord(r.plan, "", 1, []byte(r.body)))
		require.NoError(t, err)
	}

	gears, err := s.ListReports(ctx, "gears")
	require.NoError(t, err)
	require.Len(t, gears, 2)
	assert.Equal(t, int64(1), gears[0].Seq)
	assert.Equal(t, int64(3), gears[1].Seq)
	assert.Equal(t, `{"v":2}`, string(gears[1].Body))

	all, err := s.ListReports(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.ListReports(ctx, "steel")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	latest, err := s.Latest(ctx, "gears")
	require.NoError(t, err)
	assert.Equal(t, gears[1], latest)

	_, err = s.Latest(ctx, "steel")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

package usecase_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-materiales/internal/application/inventory"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
)

type memStorage struct {
	lines    []string
	writeErr error
}

func (m *memStorage) ReadAllLines(_ context.Context) ([]string, error) {
	if m.lines == nil {
		return nil, fs.ErrNotExist
	}
	return append([]string(nil), m.lines...), nil
}

func (m *memStorage) WriteAllLines(_ context.Context, lines []string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.lines = append([]string{}, lines...)
	return nil
}

type opRecord struct {
	op  string
	err error
}

type recordingObserver struct {
	ops       []opRecord
	summaries []domaininv.Summary
}

func (r *recordingObserver) ObserveOperation(op string, err error) {
	r.ops = append(r.ops, opRecord{op: op, err: err})
}

func (r *recordingObserver) ObserveInventory(s domaininv.Summary) {
	r.summaries = append(r.summaries, s)
}

func newStore(t *testing.T, lines ...string) (*inventory.Store, *memStorage) {
	t.Helper()
	st := &memStorage{}
	if len(lines) > 0 {
		st.lines = lines
	}
	s := inventory.NewStore(st, domaininv.PipeCodec{}, zerolog.Nop())
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, st
}

func newStoreOnly(t *testing.T) *inventory.Store {
	s, _ := newStore(t)
	return s
}

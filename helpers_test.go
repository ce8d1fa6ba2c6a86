package manifest

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aweris/manifest/internal/store"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testEngine(s store.Store) *engine {
	return &engine{store: s, log: testLogger()}
}

func putBlob(t *testing.T, s store.Store, content string) Hash {
	t.Helper()
	hash, err := s.Put(context.Background(), []byte(content))
	require.NoError(t, err)
	return Hash(hash)
}

func putTree(t *testing.T, s store.Store, entries ...ListEntry) Hash {
	t.Helper()
	hash, err := s.Put(context.Background(), encodeListing(entries))
	require.NoError(t, err)
	return Hash(hash)
}

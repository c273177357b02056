package provider

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/surchef/internal/config"
	"github.com/magabrotheeeer/surchef/internal/storage/filedb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelect_LocalWhenRemoteIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		remote config.RemoteStore
	}{
		{name: "nothing configured"},
		{name: "only endpoint", remote: config.RemoteStore{Endpoint: "postgres://localhost/db"}},
		{name: "only key", remote: config.RemoteStore{AccessKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.RemoteStore = tt.remote
			cfg.LocalStore.Path = filepath.Join(t.TempDir(), "db.json")

			p, err := Select(context.Background(), cfg, discardLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = p.Close() })

			assert.Equal(t, Descriptor{RemoteEnabled: false, Label: LabelLocal}, p.Descriptor())
			_, ok := p.Store.(*filedb.Storage)
			assert.True(t, ok)
		})
	}
}

func TestSelect_RemoteFailureDoesNotFallBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.RemoteStore = config.RemoteStore{
		Endpoint:  "postgres://app@127.0.0.1:1/surchef?sslmode=disable&connect_timeout=1",
		AccessKey: "key",
	}
	cfg.LocalStore.Path = filepath.Join(t.TempDir(), "db.json")

	p, err := Select(context.Background(), cfg, discardLogger())
	assert.Nil(t, p)
	assert.Error(t, err)
}

func TestNew_Descriptor(t *testing.T) {
	p := New(nil, true)
	assert.Equal(t, Descriptor{RemoteEnabled: true, Label: LabelRemote}, p.Descriptor())
}

// Package provider выбирает хранилище при старте процесса.
//
// Если заданы и адрес, и ключ удалённого хранилища, используется PostgreSQL,
// иначе локальный JSON-файл. Выбор делается один раз и больше не меняется.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/surchef/internal/config"
	"github.com/magabrotheeeer/surchef/internal/migrations"
	"github.com/magabrotheeeer/surchef/internal/storage"
	"github.com/magabrotheeeer/surchef/internal/storage/filedb"
	"github.com/magabrotheeeer/surchef/internal/storage/postgresql"
)

const (
	// LabelRemote — метка удалённого хранилища.
	LabelRemote = "remote"
	// LabelLocal — метка локального файла.
	LabelLocal = "local"
)

// Descriptor описывает выбранное хранилище. Используется только для отображения.
type Descriptor struct {
	RemoteEnabled bool   `json:"remoteEnabled"`
	Label         string `json:"label"`
}

// Provider связывает сервисы с выбранным хранилищем.
type Provider struct {
	Store      storage.Store
	descriptor Descriptor
}

// New оборачивает готовое хранилище.
func New(store storage.Store, remote bool) *Provider {
	label := LabelLocal
	if remote {
		label = LabelRemote
	}
	return &Provider{
		Store:      store,
		descriptor: Descriptor{RemoteEnabled: remote, Label: label},
	}
}

// Select открывает хранилище согласно конфигурации. Ошибка подключения к
// удалённому хранилищу не приводит к переключению на файл.
func Select(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Provider, error) {
	const op = "provider.Select"

	if cfg.RemoteEnabled() {
		store, err := postgresql.New(ctx, cfg.RemoteStore.Endpoint, cfg.RemoteStore.AccessKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(store.DB); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("storage provider selected", slog.String("provider", LabelRemote))
		return New(store, true), nil
	}

	store, err := filedb.New(cfg.LocalStore.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("storage provider selected",
		slog.String("provider", LabelLocal),
		slog.String("path", store.Path()),
	)
	return New(store, false), nil
}

// Descriptor возвращает описание выбранного хранилища.
func (p *Provider) Descriptor() Descriptor {
	return p.descriptor
}

// Close освобождает ресурсы хранилища.
func (p *Provider) Close() error {
	return p.Store.Close()
}

package cli

import (
	"context"
	"fmt"

	"tdash/internal/backend/rest"
	"tdash/internal/commands"
	"tdash/internal/config"
	"tdash/internal/session"
)

// RestFactory opens the configured session store and builds the REST
// client over it. The same client serves tasks and authentication.
func RestFactory(ctx context.Context, cfg *config.Config) (*commands.Env, error) {
	store, err := session.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	sess := session.New(store)

	client := rest.New(cfg.Settings.APIURL, sess, rest.WithTimeout(cfg.Settings.HTTPTimeout))

	return &commands.Env{
		Config:  cfg,
		Session: sess,
		Tasks:   client,
		Auth:    client,
	}, nil
}

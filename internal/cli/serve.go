package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/essensfindung/essensfindung/internal/auth"
	"github.com/essensfindung/essensfindung/internal/config"
	"github.com/essensfindung/essensfindung/internal/gateway/geocode"
	"github.com/essensfindung/essensfindung/internal/gateway/places"
	"github.com/essensfindung/essensfindung/internal/logging"
	"github.com/essensfindung/essensfindung/internal/recipes"
	"github.com/essensfindung/essensfindung/internal/server"
	"github.com/essensfindung/essensfindung/internal/service/recipe"
	"github.com/essensfindung/essensfindung/internal/service/restaurant"
	"github.com/essensfindung/essensfindung/internal/storage/sqlite"
)

func newServeCommand(deps Dependencies) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configPath, deps)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config file.")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, deps Dependencies) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	log.Info().Str("version", resolvedVersion(deps.Version)).Msg("starting essensfindung")

	store, err := sqlite.NewStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()

	catalog, err := recipes.Load(cfg.Recipes.DatasetPath)
	if err != nil {
		return fmt.Errorf("load recipe dataset: %w", err)
	}

	placesClient := places.NewClient(cfg.Places.APIKey,
		places.WithLanguage(cfg.Places.Language),
		places.WithRequestMinInterval(cfg.Places.RequestMinInterval),
	)
	geocoder := geocode.NewClient(cfg.Places.APIKey)

	restaurantService := restaurant.NewService(placesClient, geocoder, store,
		restaurant.WithLogger(log.With().Str("component", "restaurant").Logger()),
	)
	recipeService := recipe.NewService(catalog, store,
		recipe.WithLogger(log.With().Str("component", "recipe").Logger()),
	)
	authService := auth.NewService(store)
	tokens := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	srv := server.New(cfg.Server, log, authService, tokens, restaurantService, recipeService)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

package wire

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/solen/mdkit/internal/cache"
	"github.com/solen/mdkit/internal/config"
	"github.com/solen/mdkit/pkg/markdown"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg   *viper.Viper
	Log   *log.Logger
	Conv  *markdown.Converter
	Cache *cache.Cache // nil when caching is disabled
}

// BuildApp wires dependencies from resolved configuration.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "mdkit ", log.LstdFlags)
	conv := markdown.New(config.OptionsFromConfig(v))

	app := &App{Cfg: v, Log: logger, Conv: conv}
	if v.GetBool("cache.enabled") {
		c, err := cache.Open(ctx, config.ResolveCachePath(v))
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		app.Cache = c
	}
	return app, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

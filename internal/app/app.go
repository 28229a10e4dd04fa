// Package app assembles the bot: configuration, logging, optional storage,
// the LLM gateway, the FSM and every conversation mode, and hands the result
// to the shared Telegram runtime.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kovalevdev/chatmate/core/bootstrap"
	corecmd "github.com/kovalevdev/chatmate/core/cmd"
	coreconfig "github.com/kovalevdev/chatmate/core/config"
	coredatabase "github.com/kovalevdev/chatmate/core/database"
	tg "github.com/kovalevdev/chatmate/core/telegram"
	"github.com/kovalevdev/chatmate/core/telegram/router"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/llm"
	"github.com/kovalevdev/chatmate/internal/modes"
	"github.com/kovalevdev/chatmate/internal/resources"
	"github.com/kovalevdev/chatmate/internal/storage"
)

// App is the assembled bot, ready to produce Telegram run options.
type App struct {
	cfg  *coreconfig.Config
	db   *sqlx.DB
	fsm  state.Manager
	reg  *tg.Registry
	deps *modes.Deps
}

// Carrier satisfies the runner's config contract.
type Carrier struct {
	cfg *coreconfig.Config
}

// CoreConfig implements corecmd.ConfigCarrier.
func (c *Carrier) CoreConfig() *coreconfig.Config { return c.cfg }

// LoadConfig reads and validates the YAML/env configuration.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Carrier{cfg: cfg}, nil
}

// Bootstrap initializes infrastructure and wires every mode.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	result, err := bootstrap.Run(bootstrap.Options{
		Config:       cfg,
		Database:     databaseConfig(cfg.Database),
		SkipDatabase: !cfg.Database.Enabled(),
	})
	if err != nil {
		return nil, err
	}

	res, err := resources.Load(cfg.Resources.Dir)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	fsm := state.NewMemoryManager()
	reg := tg.NewRegistry()

	deps := &modes.Deps{
		Cfg:     cfg,
		FSM:     fsm,
		Reg:     reg,
		LLM:     llm.NewClient(cfg.OpenAI),
		Res:     res,
		History: storage.NewQuizResults(result.DB),
	}
	modes.Register(deps)

	return &App{
		cfg:  cfg,
		db:   result.DB,
		fsm:  fsm,
		reg:  reg,
		deps: deps,
	}, nil
}

func databaseConfig(cfg coreconfig.DatabaseConfig) coredatabase.Config {
	return coredatabase.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		User:           cfg.User,
		Password:       cfg.Password,
		Name:           cfg.Name,
		SSLMode:        cfg.SSLMode,
		MaxConnections: cfg.MaxConnections,
	}
}

// TelegramRunOptions implements corecmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.fsm, a.reg, router.TextOptions{
		UnknownVoice: a.deps.UnexpectedVoice,
	})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, a.fsm, a.deps.OnLimited),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}, nil
}

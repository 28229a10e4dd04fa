package telegram

import (
	"strings"

	coreconfig "github.com/kovalevdev/chatmate/core/config"
	"github.com/kovalevdev/chatmate/core/guard"
	"github.com/kovalevdev/chatmate/core/telegram/middleware"
	"github.com/kovalevdev/chatmate/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared middleware chain for the bot:
// recover, per-user rate limiting, per-user serialization, logging, metrics.
func DefaultMiddlewares(cfg *coreconfig.Config, fsm state.Manager, onLimited func(c tele.Context, err *guard.LimitError) error) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil && cfg.RateLimit.MaxRequests > 0 {
		ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, t := range cfg.RateLimit.ExcludeUpdates {
			ex[strings.ToLower(t)] = struct{}{}
		}
		opts := middleware.RateLimitOptions{
			Limiter: guard.NewLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
			Exclude: ex,
		}
		if onLimited != nil {
			opts.OnLimited = onLimited
		}
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use:  middleware.RateLimitMiddleware(opts),
		})
	}

	if fsm != nil {
		mws = append(mws, Middleware{
			Name: "serialize",
			Use:  state.Serialize(fsm),
		})
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}

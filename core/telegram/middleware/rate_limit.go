package middleware

import (
	"errors"

	"github.com/kovalevdev/chatmate/core/guard"
	"github.com/kovalevdev/chatmate/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Limiter enforces the per-user window budget. Nil disables the middleware.
	Limiter   *guard.Limiter
	Exclude   map[string]struct{}
	OnLimited func(c tele.Context, err *guard.LimitError) error
}

// RateLimitMiddleware returns a middleware that caps the number of updates a
// single user may submit per window. Rejections are immediate and never
// retried; the user's conversation state is left untouched.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Limiter == nil {
				return next(c)
			}

			// Determine update kind and apply configured exclusions
			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			case upd.Query != nil:
				kind = "inline_query"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			if err := opts.Limiter.Allow(user.ID); err != nil {
				var limitErr *guard.LimitError
				if !errors.As(err, &limitErr) {
					return err
				}
				chat := c.Chat()
				if chat != nil {
					logger.TG.Warn("rate limit",
						slog.String("event", "tg.rate_limit"),
						slog.Int64("chat_id", chat.ID),
						slog.Int64("user_id", user.ID),
						slog.Int("max", limitErr.Max),
						slog.Duration("window", limitErr.Window),
					)
				} else {
					logger.TG.Warn("rate limit",
						slog.String("event", "tg.rate_limit"),
						slog.Int64("user_id", user.ID),
						slog.Int("max", limitErr.Max),
						slog.Duration("window", limitErr.Window),
					)
				}
				if opts.OnLimited != nil {
					_ = opts.OnLimited(c, limitErr)
				}
				return nil
			}

			return next(c)
		}
	}
}

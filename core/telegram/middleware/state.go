package middleware

import (
	"github.com/kovalevdev/chatmate/core/logger"
	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StateGetter is the minimal interface required from an FSM manager.
type StateGetter[S ~string] interface {
	GetState(userID int64) S
}

// State returns a middleware that only lets the update through when the user
// is in the expected FSM state. A mismatched button press is acknowledged so
// the client stops its spinner; mismatched messages are dropped.
func State[S ~string](mgr StateGetter[S], expectedState S) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			currentState := mgr.GetState(userID)
			ctx := tghelpers.BuildContext(c)
			if currentState == expectedState {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.match",
					slog.Int64("user_id", userID),
					slog.String("state", string(currentState)),
					slog.String("expected", string(expectedState)),
					slog.String("rid", logger.RIDFrom(ctx)),
				)
				return next(c)
			}
			logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.skip",
				slog.Int64("user_id", userID),
				slog.String("state", string(currentState)),
				slog.String("expected", string(expectedState)),
				slog.String("rid", logger.RIDFrom(ctx)),
			)
			// Stale button from an earlier keyboard: tell the user instead of
			// leaving the tap unanswered. State stays untouched.
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
			}
			return nil
		}
	}
}

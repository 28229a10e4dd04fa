package state

import tele "gopkg.in/telebot.v4"

// Serialize returns a middleware that runs every handler under the sender's
// mutex. Telebot dispatches each update on its own goroutine; without this
// guard two quick taps from one user can interleave inside a mode handler and
// corrupt the session (two "next question" taps racing, for example).
func Serialize(mgr Manager) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			return mgr.WithUser(sender.ID, func() error {
				return next(c)
			})
		}
	}
}

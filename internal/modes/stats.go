package modes

import (
	"fmt"
	"sort"
	"strings"

	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"github.com/kovalevdev/chatmate/internal/compose"
	"github.com/kovalevdev/chatmate/internal/resources"

	tele "gopkg.in/telebot.v4"
)

// statsHandler reports the caller's quiz history. Admin-only; registered
// only when persistence is enabled.
func (d *Deps) statsHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	totals, err := d.History.TotalsByTopic(ctx, userID)
	if err != nil {
		return d.capabilityReply(c, err, mainMenuMarkup())
	}
	if len(totals) == 0 {
		return compose.SendText(c, "No quiz rounds recorded yet.", mainMenuMarkup())
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("Quiz history by topic:\n")
	for _, id := range ids {
		title := id
		if t, ok := resources.TopicByID(id); ok {
			title = t.Title
		}
		total := totals[id]
		fmt.Fprintf(&b, "- %s: %d rounds, best score %d\n", title, total.Rounds, total.Best)
	}

	recent, err := d.History.RecentResults(ctx, userID, 5)
	if err != nil {
		return d.capabilityReply(c, err, mainMenuMarkup())
	}
	if len(recent) > 0 {
		b.WriteString("\nLatest rounds:\n")
		for _, r := range recent {
			title := r.Topic
			if t, ok := resources.TopicByID(r.Topic); ok {
				title = t.Title
			}
			fmt.Fprintf(&b, "- %s %s: %d\n", r.PlayedAt.Format("2006-01-02"), title, r.Score)
		}
	}
	return compose.SendText(c, b.String(), mainMenuMarkup())
}

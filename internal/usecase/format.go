package usecase

import (
	"fmt"
	"html"

	"JobSniper/internal/domain"
)

const summaryPreviewChars = 200

// DraftFallback is embedded in an alert when generation fails so the
// operator knows to write the proposal by hand.
const DraftFallback = "⚠️ Draft generation failed — please write this proposal manually."

// FormatAlert renders the Telegram HTML message for one posting. The link is
// left unescaped so the client keeps it tappable; everything feed-controlled
// is escaped.
func FormatAlert(job domain.Job, draft string) string {
	msg := fmt.Sprintf(`🎯 <b>NEW JOB ALERT</b>

<b>%s</b>

🔗 %s

📅 %s
📡 %s

%s`,
		html.EscapeString(job.Title),
		job.ID,
		html.EscapeString(job.Published),
		html.EscapeString(job.Source),
		html.EscapeString(truncate(job.Summary, summaryPreviewChars)),
	)

	if draft != "" {
		msg += fmt.Sprintf("\n\n✍️ <b>Draft proposal</b>\n\n%s", html.EscapeString(draft))
	}

	return msg
}

func onlineMessage() string {
	return "🔴 <b>SYSTEM ONLINE</b>\n\nJob sniper is hunting. 🎯"
}

func offlineMessage(s domain.SessionStats) string {
	return fmt.Sprintf(
		"🔵 <b>SYSTEM OFFLINE</b>\n\nCycles: %d\nFetched: %d\nFiltered out: %d\nRelevant: %d\nAlerted: %d",
		s.Cycles, s.Fetched, s.Irrelevant, s.Relevant, s.Alerted,
	)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

package notification

import (
	"fmt"
	"time"
)

// Message formatting for every event type the engine emits. These are pure
// so the copy can be unit tested without a sink.

func StartingSoonMessage(leagueName string, startDate time.Time) string {
	return fmt.Sprintf("%s tees off tomorrow, %s. Check your tee time!", leagueName, startDate.Format("Monday, Jan 2"))
}

func SeasonStartedMessage(leagueName string) string {
	return fmt.Sprintf("%s is underway: week 1 is live. Good luck out there!", leagueName)
}

func ScoreReminderMessage(leagueName string, week int) string {
	return fmt.Sprintf("Don't forget to post your week %d score for %s.", week, leagueName)
}

func WeeklyWinnerMessage(leagueName string, week int, winnerName string, net int, elevated bool, prizeCents int64, currency string) string {
	msg := fmt.Sprintf("%s won week %d of %s with a net %d", winnerName, week, leagueName, net)
	if elevated {
		msg += " (elevated week)"
	}
	if prizeCents > 0 {
		msg += fmt.Sprintf(" and takes %s", FormatAmount(prizeCents, currency))
	}
	return msg + "."
}

func TeamWeekWinnerMessage(leagueName string, week int, teamName string, elevated bool, prizeCents int64, currency string) string {
	msg := fmt.Sprintf("%s took week %d of %s", teamName, week, leagueName)
	if elevated {
		msg += " (elevated week)"
	}
	if prizeCents > 0 {
		msg += fmt.Sprintf(" and claims %s", FormatAmount(prizeCents, currency))
	}
	return msg + "."
}

func NewWeekMessage(leagueName string, week int, elevated bool) string {
	if elevated {
		return fmt.Sprintf("Week %d of %s is an elevated week: extra points and a boosted purse are on the line.", week, leagueName)
	}
	return fmt.Sprintf("Week %d of %s has started.", week, leagueName)
}

func SeasonCompleteMessage(leagueName, championName string, prizeCents int64, currency string) string {
	msg := fmt.Sprintf("%s is in the books. %s is your champion", leagueName, championName)
	if prizeCents > 0 {
		msg += fmt.Sprintf(" and wins %s", FormatAmount(prizeCents, currency))
	}
	return msg + "!"
}

// FormatAmount renders a cent amount for notification copy, e.g. "$25" or
// "$12.50". Only the currencies the mobile app sells purses in are mapped;
// anything else falls back to the ISO code.
func FormatAmount(cents int64, currency string) string {
	symbol := ""
	switch currency {
	case "", "USD":
		symbol = "$"
	case "CAD":
		symbol = "CA$"
	case "GBP":
		symbol = "£"
	case "EUR":
		symbol = "€"
	default:
		symbol = currency + " "
	}

	if cents%100 == 0 {
		return fmt.Sprintf("%s%d", symbol, cents/100)
	}
	return fmt.Sprintf("%s%d.%02d", symbol, cents/100, cents%100)
}

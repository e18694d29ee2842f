// Package banner decides whether a session is looking at a past academic year.
package banner

import (
	"fmt"
	"time"

	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
)

// Message is the cautionary text of every banner.
const Message = "You are viewing data from a past academic year. Changes may not apply to the current year."

type Banner struct {
	Message      string `json:"message"`
	SelectedYear int    `json:"selected_year"`
	CurrentYear  int    `json:"current_year"`
}

// Evaluate returns a banner only when selected is strictly earlier than the academic year at now.
func Evaluate(selected int, now time.Time) (Banner, bool) {
	current := academic.Year(now)
	if selected >= current {
		return Banner{}, false
	}
	return Banner{
		Message:      Message,
		SelectedYear: selected,
		CurrentYear:  current,
	}, true
}

func (b Banner) String() string {
	return fmt.Sprintf("%s Viewing: %d (%s). Current: %d (%s).",
		b.Message, b.SelectedYear, academic.Label(b.SelectedYear), b.CurrentYear, academic.Label(b.CurrentYear))
}

// Watch re-evaluates the banner of store on every selection change; the clock is read on each evaluation.
// fn is called once immediately with the current state.
func Watch(store *yearctx.Store, now func() time.Time, fn func(Banner, bool)) (yearctx.Subscription, error) {
	if now == nil {
		now = academic.NowFunc
	}
	selected, err := store.SelectedYear()
	if err != nil {
		return 0, err
	}
	sub := store.Subscribe(func(c yearctx.Change) {
		fn(Evaluate(c.Selected, now()))
	})
	fn(Evaluate(selected, now()))
	return sub, nil
}

package feedback

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

// PageSize is the number of messages shown per dashboard page.
const PageSize = 10

// DateRange restricts the dashboard to recent messages.
type DateRange string

const (
	AllTime   DateRange = "all"
	Today     DateRange = "today"
	PastWeek  DateRange = "week"
	PastMonth DateRange = "month"
)

var errInvalidDateRange = errors.New("invalid date filter")

func ParseDateRange(s string) (DateRange, error) {
	switch rng := DateRange(core.CleanString(s, true)); rng {
	case "":
		return AllTime, nil
	case AllTime, Today, PastWeek, PastMonth:
		return rng, nil
	default:
		return "", core.NewValidationError(errInvalidDateRange, core.FieldError{
			Field: "date",
			Error: "must be one of: all, today, week, month",
		})
	}
}

// Since returns the earliest creation time kept by the range (inclusive).
// ok is false for AllTime.
//
// "today" starts at midnight of `now`'s day in its location, "week" 7 days before `now`,
// and "month" one calendar month before `now` (AddDate normalisation: Mar 31 -> Mar 3).
func (rng DateRange) Since(now time.Time) (t time.Time, ok bool) {
	switch rng {
	case Today:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case PastWeek:
		return now.AddDate(0, 0, -7), true
	case PastMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// Matches reports whether term is found, ignoring case, in the sender's name, email,
// the subject or the message. An empty term matches everything.
func Matches(msg Message, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, fld := range []string{msg.FullName, msg.Email, msg.Subject, msg.Message} {
		if strings.Contains(strings.ToLower(fld), term) {
			return true
		}
	}
	return false
}

// Filter keeps the messages matching both term & rng, in their original order.
func Filter(msgs []Message, term string, rng DateRange, now time.Time) []Message {
	since, bounded := rng.Since(now)
	filtered := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if !Matches(msg, term) {
			continue
		}
		if bounded && msg.CreatedAt.Before(since) {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

func PageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}

// PageOf returns the messages of the 1-based `page`.
func PageOf(msgs []Message, page int) []Message {
	if page < 1 {
		return []Message{}
	}
	start := (page - 1) * PageSize
	if start >= len(msgs) {
		return []Message{}
	}
	end := start + PageSize
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[start:end]
}

type (
	// ListQuery is what the dashboard asks for.
	ListQuery struct {
		Search string `query:"search"`
		Date   string `query:"date"`
		Page   int    `query:"page"`
	}

	// Page is a snapshot of the dashboard's message list.
	Page struct {
		Messages      []Message `json:"messages"`
		Total         int       `json:"total"`
		FilteredCount int       `json:"filtered_count"`
		Page          int       `json:"page"`
		PageSize      int       `json:"page_size"`
		TotalPages    int       `json:"total_pages"`
		HasPrevious   bool      `json:"has_previous"`
		HasNext       bool      `json:"has_next"`
		Search        string    `json:"search"`
		Date          DateRange `json:"date"`
	}
)

// ListView holds the dashboard's message list state.
// Every user action goes through Dispatch; the filtered list is re-derived whenever
// the messages, the search term or the date range change, which also resets the page to 1.
type ListView struct {
	Messages   []Message
	SearchTerm string
	DateRange  DateRange
	Filtered   []Message
	Page       int
	TotalPages int

	now func() time.Time
}

func NewListView(now func() time.Time) *ListView {
	if now == nil {
		now = time.Now
	}
	v := &ListView{DateRange: AllTime, now: now}
	v.refilter()
	return v
}

type (
	ListAction interface {
		reduce(v *ListView)
	}

	Load       struct{ Messages []Message }
	Search     struct{ Term string }
	FilterDate struct{ Range DateRange }
	GoToPage   struct{ Page int }
	NextPage   struct{}
	PrevPage   struct{}
	Remove     struct{ ID string }
)

func (a Load) reduce(v *ListView) {
	v.Messages = a.Messages
	v.refilter()
}

func (a Search) reduce(v *ListView) {
	v.SearchTerm = a.Term
	v.refilter()
}

func (a FilterDate) reduce(v *ListView) {
	v.DateRange = a.Range
	v.refilter()
}

func (a GoToPage) reduce(v *ListView) {
	if a.Page >= 1 && a.Page <= v.lastPage() {
		v.Page = a.Page
	}
}

func (NextPage) reduce(v *ListView) {
	if v.HasNext() {
		v.Page++
	}
}

func (PrevPage) reduce(v *ListView) {
	if v.HasPrevious() {
		v.Page--
	}
}

func (a Remove) reduce(v *ListView) {
	msgs := make([]Message, 0, len(v.Messages))
	for _, msg := range v.Messages {
		if msg.ID != a.ID {
			msgs = append(msgs, msg)
		}
	}
	v.Messages = msgs
	v.refilter()
}

func (v *ListView) Dispatch(actions ...ListAction) {
	for _, a := range actions {
		a.reduce(v)
	}
}

func (v *ListView) refilter() {
	v.Filtered = Filter(v.Messages, v.SearchTerm, v.DateRange, v.now())
	v.TotalPages = PageCount(len(v.Filtered))
	v.Page = 1
}

func (v *ListView) lastPage() int {
	if v.TotalPages < 1 {
		return 1
	}
	return v.TotalPages
}

func (v *ListView) HasPrevious() bool { return v.Page > 1 }
func (v *ListView) HasNext() bool     { return v.Page < v.TotalPages }

// Visible returns the messages of the current page.
func (v *ListView) Visible() []Message {
	return PageOf(v.Filtered, v.Page)
}

func (v *ListView) Snapshot() Page {
	return Page{
		Messages:      v.Visible(),
		Total:         len(v.Messages),
		FilteredCount: len(v.Filtered),
		Page:          v.Page,
		PageSize:      PageSize,
		TotalPages:    v.TotalPages,
		HasPrevious:   v.HasPrevious(),
		HasNext:       v.HasNext(),
		Search:        v.SearchTerm,
		Date:          v.DateRange,
	}
}

package caselist

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

const summaryCharLimit = 45

// Row is one rendered case-list line.
type Row struct {
	ID            int64    `json:"id"`
	ChildName     string   `json:"childName"`
	Counselor     string   `json:"counselor"`
	Status        string   `json:"status"`
	Categories    []string `json:"categories"`
	OpenedDate    string   `json:"openedDate"`
	Updated       string   `json:"updated"`
	FollowUpDate  string   `json:"followUpDate,omitempty"`
	Summary       string   `json:"summary"`
	ChildIsAtRisk bool     `json:"childIsAtRisk"`
}

// BuildRows renders cases for the list view. def may be nil.
func BuildRows(cases []casework.Case, def *definition.Version, counselors map[string]string, now time.Time) []Row {
	out := make([]Row, 0, len(cases))
	for i := range cases {
		c := &cases[i]
		row := Row{
			ID:            c.ID,
			ChildName:     contact.FormatName(ChildName(c)),
			Counselor:     contact.FormatName(counselors[c.TwilioWorkerID]),
			Status:        c.Status,
			Categories:    []string{},
			OpenedDate:    c.CreatedAt.Format("Jan 2, 2006"),
			Updated:       humanize.RelTime(c.UpdatedAt, now, "ago", "from now"),
			Summary:       contact.ShortSummary(c.Info.Summary, summaryCharLimit, true),
			ChildIsAtRisk: c.Info.ChildIsAtRisk,
		}
		if def != nil {
			row.Status = def.StatusLabel(c.Status)
		}
		if followUp, ok := FollowUpTime(c); ok {
			row.FollowUpDate = followUp.Format("Jan 2, 2006")
		}
		if first, ok := c.FirstContact(); ok {
			row.Categories = contact.FormatCategories(contact.RetrieveCategories(first.RawJSON.Categories()))
			if row.Categories == nil {
				row.Categories = []string{}
			}
		}
		out = append(out, row)
	}
	return out
}

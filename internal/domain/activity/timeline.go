package activity

import (
	"sort"
	"time"

	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

// Origin describes the task whose in-progress form may supply the origin
// activity of a case that has no saved contact yet.
type Origin struct {
	Task      contact.Task
	Form      *contact.TaskEntry
	WorkerSID string
	Now       time.Time
}

// BuildTimeline returns the case activities sorted by date ascending. Equal
// dates keep extraction order: notes, referrals, then connected contacts.
// A fresh slice is built on every call.
func BuildTimeline(c *casework.Case, origin *Origin) []Activity {
	timeline := []Activity{}
	if c == nil {
		return timeline
	}
	if c.ID == 0 && (origin == nil || origin.Form == nil) {
		return timeline
	}

	timeline = append(timeline, Extract(c)...)
	if synthesized := synthesizeOrigin(timeline, origin); synthesized != nil {
		timeline = append(timeline, synthesized)
	}
	sortByDate(timeline)
	return timeline
}

// Extract reads the persisted activities of a case in extraction order.
func Extract(c *casework.Case) []Activity {
	var out []Activity
	for i, n := range c.Info.CounsellorNotes {
		out = append(out, &Note{
			Meta: Meta{
				Date:           n.CreatedAt,
				CreatedAt:      n.CreatedAt,
				TwilioWorkerID: n.TwilioWorkerID,
				Text:           n.Note,
			},
			SourceIndex: i,
		})
	}
	for i, r := range c.Info.Referrals {
		out = append(out, &Referral{
			Meta: Meta{
				Date:           referralDate(r),
				CreatedAt:      r.CreatedAt,
				TwilioWorkerID: r.TwilioWorkerID,
				Text:           r.ReferredTo,
			},
			SourceIndex: i,
			Referral:    ReferralDetails{Date: r.Date, ReferredTo: r.ReferredTo, Comments: r.Comments},
		})
	}
	for _, ct := range c.ConnectedContacts {
		id := ct.ID
		out = append(out, &ConnectedContact{
			Meta: Meta{
				Date:           ct.TimeOfContact,
				CreatedAt:      ct.CreatedAt,
				TwilioWorkerID: ct.TwilioWorkerID,
				Text:           ct.RawJSON.CallSummary(),
			},
			ContactID: &id,
			Channel:   ct.Channel,
			CallType:  ct.RawJSON.CallType,
		})
	}
	return out
}

// synthesizeOrigin builds the origin activity from the in-progress form when
// the extracted activities carry none. Standalone tasks never synthesize.
func synthesizeOrigin(extracted []Activity, origin *Origin) Activity {
	for _, a := range extracted {
		if IsOrigin(a) {
			return nil
		}
	}
	if origin == nil || origin.Form == nil || origin.Task.IsStandalone() {
		return nil
	}
	now := origin.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &ConnectedContact{
		Meta: Meta{
			Date:           origin.Form.StartedAt(origin.Task, now),
			CreatedAt:      now,
			TwilioWorkerID: origin.WorkerSID,
			Text:           origin.Form.CallSummary(),
		},
		Channel:  origin.Form.OriginChannel(origin.Task),
		CallType: origin.Form.CallType,
	}
}

func referralDate(r casework.ReferralEntry) time.Time {
	if d, err := time.Parse(casework.ReferralDateLayout, r.Date); err == nil {
		return d
	}
	if d, err := time.Parse(time.RFC3339, r.Date); err == nil {
		return d
	}
	return r.CreatedAt
}

func sortByDate(list []Activity) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Base().Date.Before(list[j].Base().Date)
	})
}

package activity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func savedCase() *casework.Case {
	return &casework.Case{
		ID: 42,
		Info: casework.Info{
			CounsellorNotes: []casework.NoteEntry{
				{Note: "late", CreatedAt: day("2021-01-05T00:00:00Z")},
				{Note: "early", CreatedAt: day("2021-01-01T00:00:00Z")},
			},
			Referrals: []casework.ReferralEntry{
				{Date: "2021-01-03", ReferredTo: "Clinic", CreatedAt: day("2021-01-03T10:00:00Z")},
			},
		},
		ConnectedContacts: []contact.Contact{{
			ID:            7,
			TimeOfContact: day("2021-01-02T00:00:00Z"),
			Channel:       contact.ChannelSMS,
			RawJSON:       contact.RawJSON{CallType: contact.CallTypeChild, CaseInformation: map[string]any{"callSummary": "first call"}},
		}},
	}
}

func texts(timeline []activity.Activity) []string {
	out := make([]string, len(timeline))
	for i, a := range timeline {
		out[i] = a.Base().Text
	}
	return out
}

func TestBuildTimeline_SortsAscending(t *testing.T) {
	timeline := activity.BuildTimeline(savedCase(), nil)

	require.Equal(t, []string{"early", "first call", "Clinic", "late"}, texts(timeline))
	for i := 1; i < len(timeline); i++ {
		require.False(t, timeline[i].Base().Date.Before(timeline[i-1].Base().Date))
	}

	origin, ok := timeline[1].(*activity.ConnectedContact)
	require.True(t, ok)
	require.Equal(t, int64(7), *origin.ContactID)
	require.Equal(t, contact.ChannelSMS, origin.Channel)
}

func TestBuildTimeline_TiesKeepExtractionOrder(t *testing.T) {
	same := day("2021-01-01T00:00:00Z")
	c := &casework.Case{
		ID: 1,
		Info: casework.Info{
			CounsellorNotes: []casework.NoteEntry{{Note: "note", CreatedAt: same}},
			Referrals:       []casework.ReferralEntry{{Date: "2021-01-01", ReferredTo: "ref"}},
		},
		ConnectedContacts: []contact.Contact{{ID: 1, TimeOfContact: same, RawJSON: contact.RawJSON{CaseInformation: map[string]any{"callSummary": "call"}}}},
	}
	require.Equal(t, []string{"note", "ref", "call"}, texts(activity.BuildTimeline(c, nil)))
}

func TestBuildTimeline_SynthesizesOrigin(t *testing.T) {
	now := day("2021-02-01T09:00:00Z")
	origin := &activity.Origin{
		Task:      contact.Task{TaskSID: "WT1", ChannelType: contact.ChannelVoice},
		Form:      &contact.TaskEntry{CallType: contact.CallTypeChild, CaseInformation: map[string]any{"callSummary": "X"}},
		WorkerSID: "WK1",
		Now:       now,
	}
	c := &casework.Case{ID: 5}

	timeline := activity.BuildTimeline(c, origin)
	require.Len(t, timeline, 1)
	got, ok := timeline[0].(*activity.ConnectedContact)
	require.True(t, ok)
	require.Equal(t, "X", got.Text)
	require.Equal(t, contact.ChannelVoice, got.Channel)
	require.Equal(t, "WK1", got.TwilioWorkerID)
	require.Equal(t, now, got.Date)
	require.Nil(t, got.ContactID)

	// No duplicate when the case already has its origin.
	withContact := savedCase()
	timeline = activity.BuildTimeline(withContact, origin)
	origins := 0
	for _, a := range timeline {
		if activity.IsOrigin(a) {
			origins++
		}
	}
	require.Equal(t, 1, origins)
}

func TestBuildTimeline_ContactlessChannel(t *testing.T) {
	origin := &activity.Origin{
		Task: contact.Task{TaskSID: "WT1", ChannelType: contact.ChannelDefault},
		Form: &contact.TaskEntry{
			ContactlessTask: contact.ContactlessTask{Channel: contact.ChannelWhatsApp, Date: "2021-01-10", Time: "08:30"},
		},
		Now: day("2021-02-01T00:00:00Z"),
	}
	timeline := activity.BuildTimeline(&casework.Case{ID: 1}, origin)
	require.Len(t, timeline, 1)
	got := timeline[0].(*activity.ConnectedContact)
	require.Equal(t, contact.ChannelWhatsApp, got.Channel)
	require.Equal(t, day("2021-01-10T08:30:00Z"), got.Date)
}

func TestBuildTimeline_EmptyCases(t *testing.T) {
	require.Empty(t, activity.BuildTimeline(nil, nil))
	require.NotNil(t, activity.BuildTimeline(nil, nil))
	require.Empty(t, activity.BuildTimeline(&casework.Case{}, nil))
	require.Empty(t, activity.BuildTimeline(&casework.Case{}, &activity.Origin{Task: contact.Task{TaskSID: "WT1"}}))

	standalone := &activity.Origin{
		Task: contact.Task{TaskSID: contact.StandaloneTaskSID},
		Form: &contact.TaskEntry{},
	}
	c := &casework.Case{ID: 3, Info: casework.Info{CounsellorNotes: []casework.NoteEntry{{Note: "n"}}}}
	require.Equal(t, []string{"n"}, texts(activity.BuildTimeline(c, standalone)))
}

func TestBuildTimeline_FreshSliceEveryCall(t *testing.T) {
	c := savedCase()
	first := activity.BuildTimeline(c, nil)
	second := activity.BuildTimeline(c, nil)
	require.Equal(t, texts(first), texts(second))
	first[0] = nil
	require.NotNil(t, second[0])
}

func TestStableIndex_UnaffectedByOtherTypes(t *testing.T) {
	c := &casework.Case{
		ID: 1,
		Info: casework.Info{CounsellorNotes: []casework.NoteEntry{
			{Note: "first", CreatedAt: day("2021-01-01T00:00:00Z")},
			{Note: "second", CreatedAt: day("2021-01-02T00:00:00Z")},
		}},
	}
	timeline := activity.BuildTimeline(c, nil)
	idx, err := activity.StableIndex(timeline[1], timeline)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	c.Info.Referrals = []casework.ReferralEntry{{Date: "2021-01-01T12:00:00Z", ReferredTo: "Clinic"}}
	timeline = activity.BuildTimeline(c, nil)
	require.Equal(t, []string{"first", "Clinic", "second"}, texts(timeline))

	idx, err = activity.StableIndex(timeline[2], timeline)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	idx, err = activity.StableIndex(timeline[0], timeline)
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	resolved, err := activity.ResolveByStableIndex(timeline, activity.TypeNote, 1)
	require.NoError(t, err)
	require.Equal(t, 1, resolved.(*activity.Note).SourceIndex)
}

func TestStableIndex_ForeignActivity(t *testing.T) {
	timeline := activity.BuildTimeline(savedCase(), nil)
	foreign := activity.BuildTimeline(savedCase(), nil)[0]

	_, err := activity.StableIndex(foreign, timeline)
	require.True(t, errors.Is(err, activity.ErrActivityNotFound))

	_, err = activity.StableIndex(nil, timeline)
	require.ErrorIs(t, err, activity.ErrActivityNotFound)

	_, err = activity.ResolveByStableIndex(timeline, activity.TypeReferral, 3)
	require.ErrorIs(t, err, activity.ErrActivityNotFound)
}

func TestViews(t *testing.T) {
	views := activity.Views(activity.BuildTimeline(savedCase(), nil))
	require.Len(t, views, 4)

	require.Equal(t, activity.TypeNote, views[0].Type)
	require.Equal(t, 0, views[0].StableIndex)
	require.Equal(t, activity.TypeConnectedContact, views[1].Type)
	require.Equal(t, "Clinic", views[2].Referral.ReferredTo)
	require.Equal(t, 1, views[3].StableIndex)
	require.Equal(t, 3, views[3].Position)
}

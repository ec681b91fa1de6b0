package contact_test

import (
	"testing"
	"time"

	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/stretchr/testify/require"
)

func TestTaskEntry_StartedAt(t *testing.T) {
	now := time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("contactless task uses entered date", func(t *testing.T) {
		form := &contact.TaskEntry{ContactlessTask: contact.ContactlessTask{Channel: "sms", Date: "2021-03-01", Time: "14:30"}}
		task := contact.Task{TaskSID: "WT1", ChannelType: contact.ChannelDefault}
		require.Equal(t, time.Date(2021, 3, 1, 14, 30, 0, 0, time.UTC), form.StartedAt(task, now))
		require.Equal(t, "sms", form.OriginChannel(task))
	})

	t.Run("metadata start", func(t *testing.T) {
		start := time.Date(2021, 3, 4, 9, 15, 0, 0, time.UTC)
		form := &contact.TaskEntry{Metadata: contact.Metadata{StartMillis: start.UnixMilli()}}
		task := contact.Task{TaskSID: "WT1", ChannelType: contact.ChannelVoice}
		require.True(t, start.Equal(form.StartedAt(task, now)))
		require.Equal(t, contact.ChannelVoice, form.OriginChannel(task))
	})

	t.Run("falls back to now", func(t *testing.T) {
		form := &contact.TaskEntry{}
		require.Equal(t, now, form.StartedAt(contact.Task{ChannelType: contact.ChannelSMS}, now))
		var missing *contact.TaskEntry
		require.Equal(t, now, missing.StartedAt(contact.Task{}, now))
	})
}

func TestNumberFromTask(t *testing.T) {
	require.Equal(t, "123", contact.NumberFromTask(contact.Task{ChannelType: contact.ChannelFacebook, DefaultFrom: "messenger:123"}))
	require.Equal(t, "+1555", contact.NumberFromTask(contact.Task{ChannelType: contact.ChannelWhatsApp, DefaultFrom: "whatsapp:+1555"}))
	require.Equal(t, "+1555", contact.NumberFromTask(contact.Task{ChannelType: contact.ChannelVoice, DefaultFrom: "+1555"}))
}

func TestTransformForm(t *testing.T) {
	form := contact.TaskEntry{
		CallType:         contact.CallTypeChild,
		ChildInformation: map[string]any{"firstName": "Ana", "lastName": "Lee", "age": "12"},
		CaseInformation:  map[string]any{"callSummary": "worried"},
		Categories:       []string{"categories.Violence.Bullying", "bogus"},
	}
	tree := map[string][]string{"Violence": {"Bullying", "Physical"}, "Health": {"Sleep"}}

	raw := contact.TransformForm(form, tree)
	require.Equal(t, contact.FormDefinitionVersion, raw.DefinitionVersion)
	name, ok := raw.ChildName()
	require.True(t, ok)
	require.Equal(t, contact.Name{FirstName: "Ana", LastName: "Lee"}, name)
	require.Equal(t, "12", raw.ChildInformation["age"])
	require.Equal(t, "worried", raw.CallSummary())

	categories := raw.Categories()
	require.True(t, categories["Violence"]["Bullying"])
	require.False(t, categories["Violence"]["Physical"])
	require.False(t, categories["Health"]["Sleep"])
	require.Equal(t, map[string][]string{"Violence": {"Bullying"}}, contact.RetrieveCategories(categories))
}

func TestBuildSaveRequest_NonDataCallTypeDropsForm(t *testing.T) {
	now := time.UnixMilli(70_000)
	form := contact.TaskEntry{
		CallType:         "Silent",
		ChildInformation: map[string]any{"firstName": "Ana"},
		Metadata:         contact.Metadata{StartMillis: 10_000},
	}
	task := contact.Task{TaskSID: "WT1", ChannelType: contact.ChannelWhatsApp, DefaultFrom: "whatsapp:+1", QueueName: "Q"}

	req := contact.BuildSaveRequest(task, form, "WK1", "Line A", nil, now)
	require.Equal(t, "Silent", req.Form.CallType)
	name, _ := req.Form.ChildName()
	require.Empty(t, name.FirstName)
	require.Equal(t, int64(60), req.ConversationDuration)
	require.Equal(t, "+1", req.Number)
	require.Equal(t, "WK1", req.TwilioWorkerID)
	require.Equal(t, int64(70_000), req.Form.Metadata.EndMillis)
}

func TestFormatters(t *testing.T) {
	require.Equal(t, "Unknown", contact.FormatName("  "))
	require.Equal(t, "Ana", contact.FormatName("Ana"))
	require.Equal(t, "1 Main St, Town 1234", contact.FormatAddress("1 Main St", "Town", "", "1234"))
	require.Equal(t, "1h 0m 5s", contact.FormatDuration(3605))
	require.Equal(t, "2m 3s", contact.FormatDuration(123))
	require.Equal(t, "9s", contact.FormatDuration(9))
	require.Equal(t, "- No call summary -", contact.ShortSummary("", 10, false))
	require.Equal(t, "- No case summary -", contact.ShortSummary("", 10, true))
	require.Equal(t, "short", contact.ShortSummary("short", 10, false))
	require.Equal(t, "the quick...", contact.ShortSummary("the quick, brown fox", 14, false))
	require.Equal(t, []string{"Unspecified/Other - Health", "Bullying"},
		contact.FormatCategories(map[string][]string{"Violence": {"Bullying"}, "Health": {"Unspecified/Other"}}))
	require.Equal(t, "report.pdf", contact.FormatFileNameAtAws("1612345-report.pdf"))
	require.Equal(t, "Mar 4, 2021 / 2:05 pm", contact.FormatDateTime(time.Date(2021, 3, 4, 14, 5, 0, 0, time.UTC)))
}

func TestToSearchContact(t *testing.T) {
	c := contact.Contact{
		ID:             7,
		Number:         "+1",
		TwilioWorkerID: "WK1",
		RawJSON: contact.RawJSON{
			CallType:         contact.CallTypeCaller,
			ChildInformation: map[string]any{"name": map[string]any{"firstName": "Ana", "lastName": "Lee"}},
			CaseInformation: map[string]any{
				"callSummary": "summary",
				"categories":  map[string]any{"Violence": map[string]any{"Bullying": true}},
			},
		},
	}
	got := contact.ToSearchContact(c)
	require.Equal(t, int64(7), got.ContactID)
	require.Equal(t, "Ana Lee", got.Overview.Name)
	require.Equal(t, "summary", got.Overview.Notes)
	require.Equal(t, map[string][]string{"Violence": {"Bullying"}}, got.Overview.Categories)
}

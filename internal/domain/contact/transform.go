package contact

import (
	"strings"
	"time"
)

// FormDefinitionVersion is stamped on every submitted contact form.
const FormDefinitionVersion = "v1"

// SaveRequest is the body posted to create a contact.
type SaveRequest struct {
	Form                 RawJSON `json:"form"`
	TwilioWorkerID       string  `json:"twilioWorkerId"`
	QueueName            string  `json:"queueName,omitempty"`
	Channel              string  `json:"channel"`
	Number               string  `json:"number,omitempty"`
	Helpline             string  `json:"helpline,omitempty"`
	ConversationDuration int64   `json:"conversationDuration"`
}

// IsNonDataCallType reports whether the call type carries no child or caller data.
func IsNonDataCallType(callType string) bool {
	return callType != CallTypeChild && callType != CallTypeCaller
}

// NumberFromTask strips channel prefixes from the task's sender address.
func NumberFromTask(task Task) string {
	switch task.ChannelType {
	case ChannelFacebook:
		return strings.TrimPrefix(task.DefaultFrom, "messenger:")
	case ChannelWhatsApp:
		return strings.TrimPrefix(task.DefaultFrom, "whatsapp:")
	default:
		return task.DefaultFrom
	}
}

// FillEndMillis stamps the end time when it has not been set yet.
func FillEndMillis(m Metadata, now time.Time) Metadata {
	if m.EndMillis == 0 {
		m.EndMillis = now.UnixMilli()
	}
	return m
}

// ConversationDuration returns the contact length in whole seconds.
func ConversationDuration(m Metadata) int64 {
	if m.StartMillis == 0 || m.EndMillis < m.StartMillis {
		return 0
	}
	return (m.EndMillis - m.StartMillis) / 1000
}

// TransformForm converts an in-progress form into the payload the HRM API stores.
// categoryTree lists every category and its subcategories; selected paths of the
// form "categories.<category>.<subcategory>" are set to true.
func TransformForm(form TaskEntry, categoryTree map[string][]string) RawJSON {
	categories := make(map[string]map[string]bool, len(categoryTree))
	for category, subs := range categoryTree {
		categories[category] = make(map[string]bool, len(subs))
		for _, sub := range subs {
			categories[category][sub] = false
		}
	}
	for _, path := range form.Categories {
		parts := strings.SplitN(path, ".", 3)
		if len(parts) != 3 || parts[0] != "categories" {
			continue
		}
		if categories[parts[1]] == nil {
			categories[parts[1]] = map[string]bool{}
		}
		categories[parts[1]][parts[2]] = true
	}

	caseInformation := make(map[string]any, len(form.CaseInformation)+1)
	for k, v := range form.CaseInformation {
		caseInformation[k] = v
	}
	caseInformation["categories"] = categories

	return RawJSON{
		DefinitionVersion: FormDefinitionVersion,
		CallType:          form.CallType,
		CallerInformation: groupName(form.CallerInformation),
		ChildInformation:  groupName(form.ChildInformation),
		CaseInformation:   caseInformation,
		Metadata:          form.Metadata,
	}
}

// BuildSaveRequest prepares the contact submission for a task. Non-data call
// types are submitted with a blank form that only keeps the call type.
func BuildSaveRequest(task Task, form TaskEntry, workerSID, helpline string, categoryTree map[string][]string, now time.Time) SaveRequest {
	metadata := FillEndMillis(form.Metadata, now)

	raw := form
	if IsNonDataCallType(form.CallType) {
		raw = TaskEntry{CallType: form.CallType}
	}
	raw.Metadata = metadata

	return SaveRequest{
		Form:                 TransformForm(raw, categoryTree),
		TwilioWorkerID:       workerSID,
		QueueName:            task.QueueName,
		Channel:              task.ChannelType,
		Number:               NumberFromTask(task),
		Helpline:             helpline,
		ConversationDuration: ConversationDuration(metadata),
	}
}

func groupName(information map[string]any) map[string]any {
	out := make(map[string]any, len(information)+1)
	name := map[string]any{"firstName": "", "lastName": ""}
	for k, v := range information {
		switch k {
		case "firstName", "lastName":
			name[k] = v
		default:
			out[k] = v
		}
	}
	out["name"] = name
	return out
}

package contact

import (
	"fmt"
	"time"
)

// StandaloneTaskSID identifies the pseudo task used by the case list view.
const StandaloneTaskSID = "standalone-task-sid"

// Channel types reported by the host runtime.
const (
	ChannelVoice     = "voice"
	ChannelSMS       = "sms"
	ChannelFacebook  = "facebook"
	ChannelWhatsApp  = "whatsapp"
	ChannelWeb       = "web"
	ChannelTwitter   = "twitter"
	ChannelInstagram = "instagram"
	ChannelLine      = "line"
	// ChannelDefault marks a contactless task recorded after the fact.
	ChannelDefault = "default"
)

// Call types that carry child/caller data. Anything else is a non-data contact.
const (
	CallTypeChild  = "Child calling about self"
	CallTypeCaller = "Someone calling about a child"
)

// Task is the host runtime's view of an agent task.
type Task struct {
	TaskSID     string `json:"taskSid"`
	ChannelType string `json:"channelType"`
	DefaultFrom string `json:"defaultFrom,omitempty"`
	QueueName   string `json:"queueName,omitempty"`
}

// IsStandalone reports whether the task is the case list pseudo task.
func (t Task) IsStandalone() bool {
	return t.TaskSID == StandaloneTaskSID
}

// ContactlessTask holds the channel and time an agent enters for a contactless task.
type ContactlessTask struct {
	Channel string `json:"channel,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// Metadata records timing for the in-progress contact.
type Metadata struct {
	StartMillis int64 `json:"startMillis,omitempty"`
	EndMillis   int64 `json:"endMillis,omitempty"`
	Recreated   bool  `json:"recreated,omitempty"`
}

// TaskEntry is the in-progress contact form for a task.
type TaskEntry struct {
	Helpline          string          `json:"helpline,omitempty"`
	CallType          string          `json:"callType"`
	CallerInformation map[string]any  `json:"callerInformation,omitempty"`
	ChildInformation  map[string]any  `json:"childInformation,omitempty"`
	CaseInformation   map[string]any  `json:"caseInformation,omitempty"`
	Categories        []string        `json:"categories,omitempty"`
	ContactlessTask   ContactlessTask `json:"contactlessTask"`
	Metadata          Metadata        `json:"metadata"`
}

// CallSummary returns the call summary field of the form.
func (e *TaskEntry) CallSummary() string {
	if e == nil {
		return ""
	}
	return stringField(e.CaseInformation, "callSummary")
}

// ChildName returns the first and last name of the child from the form.
func (e *TaskEntry) ChildName() (string, string) {
	if e == nil {
		return "", ""
	}
	return stringField(e.ChildInformation, "firstName"), stringField(e.ChildInformation, "lastName")
}

// StartedAt derives when the not yet saved contact happened. Contactless tasks
// use the date and time the agent entered; other tasks use the metadata start.
func (e *TaskEntry) StartedAt(task Task, now time.Time) time.Time {
	if e == nil {
		return now
	}
	if task.ChannelType == ChannelDefault && e.ContactlessTask.Date != "" {
		clock := e.ContactlessTask.Time
		if clock == "" {
			clock = "00:00"
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04", e.ContactlessTask.Date+" "+clock, now.Location()); err == nil {
			return t
		}
	}
	if e.Metadata.StartMillis > 0 {
		return time.UnixMilli(e.Metadata.StartMillis).In(now.Location())
	}
	return now
}

// OriginChannel returns the channel recorded for the contact.
func (e *TaskEntry) OriginChannel(task Task) string {
	if task.ChannelType == ChannelDefault && e != nil {
		return e.ContactlessTask.Channel
	}
	return task.ChannelType
}

// Name is the first/last name pair stored on saved contacts.
type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RawJSON is the form payload stored with a saved contact.
type RawJSON struct {
	DefinitionVersion string         `json:"definitionVersion,omitempty"`
	CallType          string         `json:"callType"`
	CallerInformation map[string]any `json:"callerInformation,omitempty"`
	ChildInformation  map[string]any `json:"childInformation,omitempty"`
	CaseInformation   map[string]any `json:"caseInformation,omitempty"`
	Metadata          Metadata       `json:"metadata"`
}

// ChildName returns the grouped child name of a saved contact.
func (r RawJSON) ChildName() (Name, bool) {
	name, ok := r.ChildInformation["name"].(map[string]any)
	if !ok {
		return Name{}, false
	}
	return Name{
		FirstName: stringField(name, "firstName"),
		LastName:  stringField(name, "lastName"),
	}, true
}

// CallSummary returns the saved call summary.
func (r RawJSON) CallSummary() string {
	return stringField(r.CaseInformation, "callSummary")
}

// Categories returns the saved category tree as nested booleans.
func (r RawJSON) Categories() map[string]map[string]bool {
	out := map[string]map[string]bool{}
	raw, ok := r.CaseInformation["categories"].(map[string]any)
	if !ok {
		if typed, ok := r.CaseInformation["categories"].(map[string]map[string]bool); ok {
			return typed
		}
		return out
	}
	for category, subs := range raw {
		subMap, ok := subs.(map[string]any)
		if !ok {
			continue
		}
		out[category] = map[string]bool{}
		for sub, v := range subMap {
			checked, _ := v.(bool)
			out[category][sub] = checked
		}
	}
	return out
}

// Contact is a contact record as returned by the HRM API.
type Contact struct {
	ID                   int64     `json:"id"`
	TimeOfContact        time.Time `json:"timeOfContact"`
	CreatedAt            time.Time `json:"createdAt"`
	Number               string    `json:"number,omitempty"`
	Channel              string    `json:"channel"`
	TwilioWorkerID       string    `json:"twilioWorkerId"`
	CreatedBy            string    `json:"createdBy,omitempty"`
	Helpline             string    `json:"helpline,omitempty"`
	ConversationDuration int64     `json:"conversationDuration,omitempty"`
	RawJSON              RawJSON   `json:"rawJson"`
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

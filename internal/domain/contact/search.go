package contact

import (
	"sort"
	"time"
)

// SearchParams is the body of a contact search.
type SearchParams struct {
	Helpline         string `json:"helpline,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Counselor        string `json:"counselor,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	DateFrom         string `json:"dateFrom,omitempty"`
	DateTo           string `json:"dateTo,omitempty"`
	ContactNumber    string `json:"contactNumber,omitempty"`
	OnlyDataContacts bool   `json:"onlyDataContacts,omitempty"`
}

// SearchResult is a page of contacts.
type SearchResult struct {
	Count    int       `json:"count"`
	Contacts []Contact `json:"contacts"`
}

// Overview is the summary row shown for a contact search hit.
type Overview struct {
	DateTime             time.Time           `json:"dateTime"`
	Name                 string              `json:"name"`
	CustomerNumber       string              `json:"customerNumber"`
	CallType             string              `json:"callType"`
	Categories           map[string][]string `json:"categories"`
	Counselor            string              `json:"counselor"`
	Notes                string              `json:"notes"`
	Channel              string              `json:"channel"`
	ConversationDuration int64               `json:"conversationDuration"`
	CreatedBy            string              `json:"createdBy,omitempty"`
}

// SearchContact is a contact shaped for search result views.
type SearchContact struct {
	ContactID int64    `json:"contactId"`
	Overview  Overview `json:"overview"`
	Details   RawJSON  `json:"details"`
}

// RetrieveCategories keeps only checked subcategories, dropping categories
// with none checked.
func RetrieveCategories(categories map[string]map[string]bool) map[string][]string {
	out := map[string][]string{}
	for category, subs := range categories {
		var checked []string
		for sub, ok := range subs {
			if ok {
				checked = append(checked, sub)
			}
		}
		if len(checked) == 0 {
			continue
		}
		sort.Strings(checked)
		out[category] = checked
	}
	return out
}

// ToSearchContact adapts an HRM contact for search result views.
func ToSearchContact(c Contact) SearchContact {
	name, _ := c.RawJSON.ChildName()
	return SearchContact{
		ContactID: c.ID,
		Overview: Overview{
			DateTime:             c.TimeOfContact,
			Name:                 name.FirstName + " " + name.LastName,
			CustomerNumber:       c.Number,
			CallType:             c.RawJSON.CallType,
			Categories:           RetrieveCategories(c.RawJSON.Categories()),
			Counselor:            c.TwilioWorkerID,
			Notes:                c.RawJSON.CallSummary(),
			Channel:              c.Channel,
			ConversationDuration: c.ConversationDuration,
			CreatedBy:            c.CreatedBy,
		},
		Details: c.RawJSON,
	}
}

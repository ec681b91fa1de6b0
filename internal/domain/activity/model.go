package activity

import "time"

// Type identifies the kind of timeline activity.
type Type string

const (
	TypeNote             Type = "note"
	TypeReferral         Type = "referral"
	TypeConnectedContact Type = "connected-contact"
)

// Activity is one entry of a case timeline. Implementations are *Note,
// *Referral and *ConnectedContact; activities are compared by identity.
type Activity interface {
	Type() Type
	Base() Meta
	isActivity()
}

// Meta holds the fields shared by every activity. Date orders the timeline.
type Meta struct {
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
	TwilioWorkerID string    `json:"twilioWorkerId"`
	Text           string    `json:"text"`
}

func (m Meta) Base() Meta { return m }
func (Meta) isActivity()  {}

// Note is a counsellor note. SourceIndex is its position in Info.CounsellorNotes.
type Note struct {
	Meta
	SourceIndex int `json:"sourceIndex"`
}

// Referral is a referral entry. SourceIndex is its position in Info.Referrals.
type Referral struct {
	Meta
	SourceIndex int             `json:"sourceIndex"`
	Referral    ReferralDetails `json:"referral"`
}

// ReferralDetails repeats the referral fields shown on the timeline.
type ReferralDetails struct {
	Date       string `json:"date"`
	ReferredTo string `json:"referredTo"`
	Comments   string `json:"comments,omitempty"`
}

// ConnectedContact is the contact that originated the case. ContactID is nil
// while the contact has not been saved.
type ConnectedContact struct {
	Meta
	ContactID *int64 `json:"contactId,omitempty"`
	Channel   string `json:"channel"`
	CallType  string `json:"callType,omitempty"`
}

func (*Note) Type() Type             { return TypeNote }
func (*Referral) Type() Type         { return TypeReferral }
func (*ConnectedContact) Type() Type { return TypeConnectedContact }

// IsOrigin reports whether a is the case's originating contact.
func IsOrigin(a Activity) bool {
	return a.Type() == TypeConnectedContact
}

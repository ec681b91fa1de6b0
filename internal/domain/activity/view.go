package activity

// View is the flattened form of an activity sent to clients. Position is the
// index in the timeline; StableIndex addresses the activity within its type.
type View struct {
	Type        Type `json:"type"`
	Position    int  `json:"position"`
	StableIndex int  `json:"stableIndex"`
	Meta
	Referral  *ReferralDetails `json:"referral,omitempty"`
	ContactID *int64           `json:"contactId,omitempty"`
	Channel   string           `json:"channel,omitempty"`
	CallType  string           `json:"callType,omitempty"`
}

// Views flattens a timeline, computing every stable index.
func Views(timeline []Activity) []View {
	out := make([]View, 0, len(timeline))
	stable := make(map[Activity]int, len(timeline))
	for _, typ := range []Type{TypeNote, TypeReferral, TypeConnectedContact} {
		for i, a := range partition(timeline, typ) {
			stable[a] = i
		}
	}

	for pos, a := range timeline {
		v := View{Type: a.Type(), Position: pos, StableIndex: stable[a], Meta: a.Base()}
		switch x := a.(type) {
		case *Referral:
			details := x.Referral
			v.Referral = &details
		case *ConnectedContact:
			v.ContactID = x.ContactID
			v.Channel = x.Channel
			v.CallType = x.CallType
		}
		out = append(out, v)
	}
	return out
}

package connectedcase

import (
	"fmt"
	"maps"
	"strings"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
)

// ReferralInput is the editable part of a referral.
type ReferralInput struct {
	Date       string `json:"date"`
	ReferredTo string `json:"referredTo"`
	Comments   string `json:"comments,omitempty"`
}

// AddNote appends a counsellor note to the case.
func (s *Service) AddNote(taskSID, text string) error {
	return s.saveNote(taskSID, nil, text)
}

// EditNote replaces the note at the given stable index.
func (s *Service) EditNote(taskSID string, stableIndex int, text string) error {
	return s.saveNote(taskSID, &stableIndex, text)
}

func (s *Service) saveNote(taskSID string, stableIndex *int, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: note is empty", ErrInvalidInput)
	}
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}

	index := len(view.Case.Info.CounsellorNotes)
	entry := casework.NoteEntry{Note: text, TwilioWorkerID: s.store.WorkerSID(), CreatedAt: s.now()}
	if stableIndex != nil {
		note, err := s.resolve(view, activity.TypeNote, *stableIndex)
		if err != nil {
			return err
		}
		index = note.(*activity.Note).SourceIndex
		previous := view.Case.Info.CounsellorNotes[index]
		entry.TwilioWorkerID = previous.TwilioWorkerID
		entry.CreatedAt = previous.CreatedAt
	}

	info := view.Case.Info.Clone()
	info.CounsellorNotes = casework.UpdateListByIndex(info.CounsellorNotes, index, entry)
	s.store.UpdateCaseInfo(taskSID, info)
	return nil
}

// AddReferral appends a referral to the case.
func (s *Service) AddReferral(taskSID string, in ReferralInput) error {
	return s.saveReferral(taskSID, nil, in)
}

// EditReferral replaces the referral at the given stable index.
func (s *Service) EditReferral(taskSID string, stableIndex int, in ReferralInput) error {
	return s.saveReferral(taskSID, &stableIndex, in)
}

func (s *Service) saveReferral(taskSID string, stableIndex *int, in ReferralInput) error {
	if strings.TrimSpace(in.ReferredTo) == "" {
		return fmt.Errorf("%w: referredTo is required", ErrInvalidInput)
	}
	if in.Date == "" {
		in.Date = s.now().Format(casework.ReferralDateLayout)
	}
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}

	index := len(view.Case.Info.Referrals)
	entry := casework.ReferralEntry{
		Date:           in.Date,
		ReferredTo:     in.ReferredTo,
		Comments:       in.Comments,
		TwilioWorkerID: s.store.WorkerSID(),
		CreatedAt:      s.now(),
	}
	if stableIndex != nil {
		referral, err := s.resolve(view, activity.TypeReferral, *stableIndex)
		if err != nil {
			return err
		}
		index = referral.(*activity.Referral).SourceIndex
		previous := view.Case.Info.Referrals[index]
		entry.TwilioWorkerID = previous.TwilioWorkerID
		entry.CreatedAt = previous.CreatedAt
	}

	info := view.Case.Info.Clone()
	info.Referrals = casework.UpdateListByIndex(info.Referrals, index, entry)
	s.store.UpdateCaseInfo(taskSID, info)
	return nil
}

// SaveSectionEntry adds (index nil) or edits a section entry.
func (s *Service) SaveSectionEntry(taskSID string, section casework.Section, index *int, form map[string]any) error {
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}
	list, err := view.Case.Info.SectionList(section)
	if err != nil {
		return err
	}

	worker := s.store.WorkerSID()
	now := s.now()
	target := len(list)
	entry := casework.SectionEntry{Form: maps.Clone(form), TwilioWorkerID: worker, CreatedAt: now}
	if index != nil {
		if *index < 0 || *index >= len(list) {
			return fmt.Errorf("%w: %s entry %d", ErrInvalidInput, section, *index)
		}
		target = *index
		entry.TwilioWorkerID = list[target].TwilioWorkerID
		entry.CreatedAt = list[target].CreatedAt
		entry.UpdatedAt = &now
		entry.UpdatedBy = worker
	}

	info, err := view.Case.Info.WithSectionEntry(section, target, entry)
	if err != nil {
		return err
	}
	s.store.UpdateCaseInfo(taskSID, info)
	return nil
}

// StableIndexAt returns the type and stable index of the activity at a
// timeline position.
func (s *Service) StableIndexAt(taskSID string, position int) (activity.Type, int, error) {
	timeline, err := s.Timeline(taskSID)
	if err != nil {
		return "", 0, err
	}
	if position < 0 || position >= len(timeline) {
		return "", 0, fmt.Errorf("%w: position %d", activity.ErrActivityNotFound, position)
	}
	a := timeline[position]
	index, err := activity.StableIndex(a, timeline)
	if err != nil {
		return "", 0, err
	}
	return a.Type(), index, nil
}

// ViewActivity opens the view screen of a timeline activity.
func (s *Service) ViewActivity(taskSID string, typ activity.Type, stableIndex int) (*casework.TemporaryInfo, error) {
	view, err := s.connected(taskSID)
	if err != nil {
		return nil, err
	}
	a, err := s.resolve(view, typ, stableIndex)
	if err != nil {
		return nil, err
	}

	temp := casework.TemporaryInfo{ActivityType: string(typ), StableIndex: &stableIndex}
	switch a := a.(type) {
	case *activity.Note:
		note := view.Case.Info.CounsellorNotes[a.SourceIndex]
		temp.Screen, temp.Note = casework.ScreenViewNote, &note
	case *activity.Referral:
		referral := view.Case.Info.Referrals[a.SourceIndex]
		temp.Screen, temp.Referral = casework.ScreenViewReferral, &referral
	case *activity.ConnectedContact:
		temp.Screen, temp.Contact = casework.ScreenViewContact, s.contactView(view.Case, a)
	default:
		panic(fmt.Sprintf("unhandled activity %T", a))
	}

	route := view.Route
	if route.Route == "" {
		route.Route = casework.RouteTabbedForms
	}
	route.Subroute = temp.Screen
	s.store.UpdateTempInfo(taskSID, &temp)
	s.store.ChangeRoute(taskSID, route)
	return &temp, nil
}

func (s *Service) contactView(c *casework.Case, a *activity.ConnectedContact) *casework.ContactView {
	counselor := "Unknown"
	if name, ok := s.store.Counselors()[a.TwilioWorkerID]; ok {
		counselor = name
	}
	cv := &casework.ContactView{
		DetailsExpanded: casework.DefaultDetailsExpanded(),
		CreatedAt:       a.CreatedAt,
		TimeOfContact:   a.Date,
		Counselor:       counselor,
	}
	if a.ContactID != nil {
		for i := range c.ConnectedContacts {
			if c.ConnectedContacts[i].ID == *a.ContactID {
				found := c.ConnectedContacts[i]
				cv.Contact = &found
				break
			}
		}
	}
	return cv
}

func (s *Service) resolve(view TaskView, typ activity.Type, stableIndex int) (activity.Activity, error) {
	timeline := activity.BuildTimeline(view.Case, s.origin(view))
	return activity.ResolveByStableIndex(timeline, typ, stableIndex)
}

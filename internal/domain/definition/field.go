package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind is the type tag of a form field.
type Kind string

const (
	KindInput              Kind = "input"
	KindNumericInput       Kind = "numeric-input"
	KindEmail              Kind = "email"
	KindTextarea           Kind = "textarea"
	KindSelect             Kind = "select"
	KindDependentSelect    Kind = "dependent-select"
	KindCheckbox           Kind = "checkbox"
	KindMixedCheckbox      Kind = "mixed-checkbox"
	KindListboxMultiselect Kind = "listbox-multiselect"
	KindDateInput          Kind = "date-input"
	KindTimeInput          Kind = "time-input"
	KindFileUpload         Kind = "file-upload"
)

// Field is one form field. The set of implementations is closed; each kind
// has its own concrete type.
type Field interface {
	FieldName() string
	FieldLabel() string
	Kind() Kind
	isField()
}

// Base holds the attributes every field kind shares.
type Base struct {
	Type     Kind   `yaml:"type" json:"type"`
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

func (b Base) FieldName() string  { return b.Name }
func (b Base) FieldLabel() string { return b.Label }
func (Base) isField()             {}

// Option is a selectable value of a select-like field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Input struct {
	Base `yaml:",inline"`
}

type NumericInput struct {
	Base `yaml:",inline"`
}

type Email struct {
	Base `yaml:",inline"`
}

type Textarea struct {
	Base `yaml:",inline"`
}

type Select struct {
	Base    `yaml:",inline"`
	Options []Option `yaml:"options" json:"options"`
}

// DependentSelect offers options keyed by the value of another field.
type DependentSelect struct {
	Base          `yaml:",inline"`
	DependsOn     string              `yaml:"dependsOn" json:"dependsOn"`
	DefaultOption Option              `yaml:"defaultOption" json:"defaultOption"`
	Options       map[string][]Option `yaml:"options" json:"options"`
}

type Checkbox struct {
	Base `yaml:",inline"`
}

// MixedCheckbox is a tri-state checkbox; a null value means unknown.
type MixedCheckbox struct {
	Base `yaml:",inline"`
}

type ListboxMultiselect struct {
	Base    `yaml:",inline"`
	Options []Option `yaml:"options" json:"options"`
	Height  int      `yaml:"height,omitempty" json:"height,omitempty"`
}

type DateInput struct {
	Base `yaml:",inline"`
}

type TimeInput struct {
	Base `yaml:",inline"`
}

type FileUpload struct {
	Base        `yaml:",inline"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

func (*Input) Kind() Kind              { return KindInput }
func (*NumericInput) Kind() Kind       { return KindNumericInput }
func (*Email) Kind() Kind              { return KindEmail }
func (*Textarea) Kind() Kind           { return KindTextarea }
func (*Select) Kind() Kind             { return KindSelect }
func (*DependentSelect) Kind() Kind    { return KindDependentSelect }
func (*Checkbox) Kind() Kind           { return KindCheckbox }
func (*MixedCheckbox) Kind() Kind      { return KindMixedCheckbox }
func (*ListboxMultiselect) Kind() Kind { return KindListboxMultiselect }
func (*DateInput) Kind() Kind          { return KindDateInput }
func (*TimeInput) Kind() Kind          { return KindTimeInput }
func (*FileUpload) Kind() Kind         { return KindFileUpload }

// FieldList decodes a sequence of fields, dispatching on each item's type tag.
type FieldList []Field

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *FieldList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: field list at line %d is not a sequence", ErrInvalidDocument, value.Line)
	}
	out := make(FieldList, 0, len(value.Content))
	for _, item := range value.Content {
		field, err := decodeField(item)
		if err != nil {
			return err
		}
		out = append(out, field)
	}
	*l = out
	return nil
}

func decodeField(node *yaml.Node) (Field, error) {
	var head struct {
		Type Kind `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	field, err := newField(head.Type)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	if err := node.Decode(field); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return field, nil
}

func newField(kind Kind) (Field, error) {
	switch kind {
	case KindInput:
		return &Input{}, nil
	case KindNumericInput:
		return &NumericInput{}, nil
	case KindEmail:
		return &Email{}, nil
	case KindTextarea:
		return &Textarea{}, nil
	case KindSelect:
		return &Select{}, nil
	case KindDependentSelect:
		return &DependentSelect{}, nil
	case KindCheckbox:
		return &Checkbox{}, nil
	case KindMixedCheckbox:
		return &MixedCheckbox{}, nil
	case KindListboxMultiselect:
		return &ListboxMultiselect{}, nil
	case KindDateInput:
		return &DateInput{}, nil
	case KindTimeInput:
		return &TimeInput{}, nil
	case KindFileUpload:
		return &FileUpload{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, kind)
	}
}

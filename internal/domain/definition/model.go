package definition

// StatusOpen is the status every new case starts in.
const StatusOpen = "open"

// StatusDefinition describes one case status and the statuses reachable from it.
type StatusDefinition struct {
	Value       string   `yaml:"value" json:"value"`
	Label       string   `yaml:"label" json:"label"`
	Color       string   `yaml:"color,omitempty" json:"color,omitempty"`
	Transitions []string `yaml:"transitions" json:"transitions"`
}

// CategoryDefinition lists the subcategories of an issue category.
type CategoryDefinition struct {
	Color         string   `yaml:"color,omitempty" json:"color,omitempty"`
	Subcategories []string `yaml:"subcategories" json:"subcategories"`
}

// HelplineEntry is an office or helpline a case can be assigned to.
type HelplineEntry struct {
	Label   string `yaml:"label" json:"label"`
	Value   string `yaml:"value" json:"value"`
	Manager string `yaml:"manager,omitempty" json:"manager,omitempty"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// Layout controls which fields of a case section are previewed in lists.
type Layout struct {
	PreviewFields []string `yaml:"previewFields" json:"previewFields"`
}

// Version is a versioned form definition: statuses, categories, helplines and
// the field lists of every case section.
type Version struct {
	ID         string                        `yaml:"id" json:"id"`
	CaseStatus map[string]StatusDefinition   `yaml:"caseStatus" json:"caseStatus"`
	Categories map[string]CategoryDefinition `yaml:"categories" json:"categories"`
	Helplines  []HelplineEntry               `yaml:"helplines" json:"helplines"`
	CaseForms  map[string]FieldList          `yaml:"caseForms" json:"caseForms"`
	Layouts    map[string]Layout             `yaml:"layouts,omitempty" json:"layouts,omitempty"`
}

// CategoryTree returns each category with its subcategories.
func (v *Version) CategoryTree() map[string][]string {
	out := make(map[string][]string, len(v.Categories))
	for name, def := range v.Categories {
		out[name] = append([]string(nil), def.Subcategories...)
	}
	return out
}

// DefaultHelpline returns the helpline flagged as default, or the first one.
func (v *Version) DefaultHelpline() (HelplineEntry, bool) {
	for _, h := range v.Helplines {
		if h.Default {
			return h, true
		}
	}
	if len(v.Helplines) > 0 {
		return v.Helplines[0], true
	}
	return HelplineEntry{}, false
}

// Form returns the field list of a case section.
func (v *Version) Form(section string) FieldList {
	return v.CaseForms[section]
}

// Package caseprint exports a case as a printable PDF.
package caseprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

const fontFamily = "Helvetica"

// Render writes the case details and timeline as a PDF document.
func Render(w io.Writer, details casework.Details, timeline []activity.Activity, counselors map[string]string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle(fmt.Sprintf("Case #%d", details.ID), false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p := &printer{pdf: pdf, tr: tr}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("Case #%d", details.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	pdf.CellFormat(0, 7, tr(fullName(details.Name)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	p.section("Overview")
	p.kv("Status", details.StatusLabel)
	p.kv("Counselor", contact.FormatName(details.CaseCounselor))
	p.kv("Opened", contact.FormatDateTime(details.OpenedDate))
	p.kv("Last updated", contact.FormatDateTime(details.LastUpdatedDate))
	p.kv("Follow up", details.FollowUpDate)
	p.kv("Child at risk", yesNo(details.ChildIsAtRisk))
	if details.Office != nil {
		p.kv("Office", details.Office.Label)
	}
	p.kv("Summary", details.Summary)
	pdf.Ln(2)

	p.section("Categories")
	p.lines(contact.FormatCategories(details.Categories))

	for _, section := range casework.Sections {
		p.section(sectionTitle(section))
		entries := details.SectionViews[section]
		if len(entries) == 0 {
			p.empty()
			continue
		}
		for _, e := range entries {
			pdf.SetFont(fontFamily, "B", 10)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("#%d  %s", e.Index+1, contact.FormatDateTime(e.CreatedAt))), "", 1, "L", false, 0, "")
			for _, f := range e.Fields {
				p.kv(f.Label, f.Value)
			}
			pdf.Ln(1)
		}
	}

	p.section("Timeline")
	if len(timeline) == 0 {
		p.empty()
	}
	for _, a := range timeline {
		meta := a.Base()
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetTextColor(20, 20, 20)
		heading := fmt.Sprintf("%s  %s  %s", meta.Date.Format(casework.ReferralDateLayout), activityLabel(a), contact.FormatName(counselors[meta.TwilioWorkerID]))
		pdf.MultiCell(0, 5, tr(heading), "", "L", false)
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 4.5, tr(activityText(a)), "", "L", false)
		pdf.Ln(1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

type printer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (p *printer) section(title string) {
	p.pdf.SetFont(fontFamily, "B", 12)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	p.pdf.SetDrawColor(200, 200, 200)
	p.pdf.Line(p.pdf.GetX(), p.pdf.GetY(), 196, p.pdf.GetY())
	p.pdf.Ln(2)
}

func (p *printer) kv(key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	p.pdf.SetFont(fontFamily, "B", 10)
	p.pdf.SetTextColor(30, 30, 30)
	p.pdf.CellFormat(36, 5.2, p.tr(key+":"), "", 0, "L", false, 0, "")
	p.pdf.SetFont(fontFamily, "", 10)
	p.pdf.SetTextColor(20, 20, 20)
	p.pdf.MultiCell(0, 5.2, p.tr(value), "", "L", false)
}

func (p *printer) lines(values []string) {
	if len(values) == 0 {
		p.empty()
		return
	}
	p.pdf.SetFont(fontFamily, "", 10)
	p.pdf.SetTextColor(20, 20, 20)
	for _, v := range values {
		p.pdf.MultiCell(0, 5, p.tr("- "+v), "", "L", false)
	}
	p.pdf.Ln(2)
}

func (p *printer) empty() {
	p.pdf.SetFont(fontFamily, "", 10)
	p.pdf.SetTextColor(90, 90, 90)
	p.pdf.MultiCell(0, 5, "(none)", "", "L", false)
	p.pdf.Ln(2)
}

func activityLabel(a activity.Activity) string {
	switch x := a.(type) {
	case *activity.Note:
		return "Note"
	case *activity.Referral:
		return "Referral"
	case *activity.ConnectedContact:
		return "Contact (" + x.Channel + ")"
	}
	return string(a.Type())
}

func activityText(a activity.Activity) string {
	if r, ok := a.(*activity.Referral); ok && r.Referral.Comments != "" {
		return r.Referral.ReferredTo + ": " + r.Referral.Comments
	}
	return a.Base().Text
}

func fullName(n contact.Name) string {
	return strings.TrimSpace(n.FirstName + " " + n.LastName)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func sectionTitle(s casework.Section) string {
	switch s {
	case casework.SectionHouseholds:
		return "Households"
	case casework.SectionPerpetrators:
		return "Perpetrators"
	case casework.SectionIncidents:
		return "Incidents"
	case casework.SectionDocuments:
		return "Documents"
	}
	return string(s)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <case.json>",
	Short: "Print the activity timeline of an exported case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		f, err := loadCaseFile(cmd.Context(), args[0], logger)
		if err != nil {
			return err
		}
		timeline := activity.BuildTimeline(&f.Case, nil)
		return renderTimeline(cmd.OutOrStdout(), f.details(), activity.Views(timeline), f.Counselors)
	},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)
	typeStyles = map[activity.Type]lipgloss.Style{
		activity.TypeNote:             lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		activity.TypeReferral:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		activity.TypeConnectedContact: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	dateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle  = lipgloss.NewStyle().PaddingLeft(4)
	emptyStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

// renderTimeline writes one block per activity, oldest first.
func renderTimeline(w io.Writer, details casework.Details, views []activity.View, counselors map[string]string) error {
	var b strings.Builder
	name := strings.TrimSpace(details.Name.FirstName + " " + details.Name.LastName)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Case #%d  %s  [%s]", details.ID, name, details.StatusLabel)))
	b.WriteString("\n")

	if len(views) == 0 {
		b.WriteString(emptyStyle.Render("No activities"))
		b.WriteString("\n")
	}
	for _, v := range views {
		label := fmt.Sprintf("%-17s #%d", v.Type, v.StableIndex)
		line := fmt.Sprintf("%s  %s  %s",
			dateStyle.Render(v.Date.Format(casework.ReferralDateLayout)),
			typeStyles[v.Type].Render(label),
			contact.FormatName(counselors[v.TwilioWorkerID]),
		)
		b.WriteString(line)
		b.WriteString("\n")
		if text := viewText(v); text != "" {
			b.WriteString(textStyle.Render(text))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func viewText(v activity.View) string {
	switch {
	case v.Referral != nil && v.Referral.Comments != "":
		return v.Referral.ReferredTo + ": " + v.Referral.Comments
	case v.Referral != nil:
		return v.Referral.ReferredTo
	case v.Type == activity.TypeConnectedContact:
		summary := contact.ShortSummary(v.Text, 120, false)
		if v.Channel == "" {
			return summary
		}
		return v.Channel + " contact. " + summary
	default:
		return v.Text
	}
}

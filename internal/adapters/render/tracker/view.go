package tracker

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderOptions tunes prompt rendering. ControlPrefix is prepended to the
// control hints ("!" in the chat channel); an empty prefix hides them.
type RenderOptions struct {
	Now           time.Time
	ControlPrefix string
}

func Prompt(prompt application.Prompt, opts RenderOptions) (string, error) {
	return render(func(s styles) string { return promptView(prompt, opts, s) })
}

func Outcome(outcome application.CaptureOutcome) (string, error) {
	return render(func(s styles) string { return outcomeView(outcome, s) })
}

func Refusal(err error) (string, error) {
	return render(func(s styles) string { return refusalView(err, s) })
}

func Info(info application.Info) (string, error) {
	return render(func(s styles) string { return infoView(info, s) })
}

func Saved(item domain.TrackedItem) (string, error) {
	return render(func(s styles) string {
		line := fmt.Sprintf("Saved %s at chapter %d.", s.item.Render(item.Title), item.Progress)
		return s.success.Render("✓") + " " + line
	})
}

func Granted(grant domain.PermissionGrant) (string, error) {
	return render(func(s styles) string {
		return s.success.Render("✓") + " " + fmt.Sprintf("%s can now use the tracker.", grant.User)
	})
}

func Readers(grants []domain.PermissionGrant) (string, error) {
	return render(func(s styles) string {
		lines := []string{s.title.Render("Readers")}
		for _, grant := range grants {
			line := string(grant.User)
			if grant.GrantedBy != "" && grant.GrantedBy != grant.User {
				line += s.meta.Render(fmt.Sprintf(" (added by %s)", grant.GrantedBy))
			}
			lines = append(lines, line)
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func promptView(prompt application.Prompt, opts RenderOptions, s styles) string {
	switch prompt.Kind {
	case application.PromptPage:
		return pageView(prompt, opts, s)
	case application.PromptDetail:
		return detailView(prompt, opts, s)
	case application.PromptCapture:
		return captureView(prompt, opts, s)
	default:
		return s.empty.Render("Nothing to show.")
	}
}

func pageView(prompt application.Prompt, opts RenderOptions, s styles) string {
	page := prompt.Page
	lines := []string{
		s.title.Render(fmt.Sprintf("Series of %s", prompt.Owner)),
		s.header.Render(fmt.Sprintf("page %d/%d · %d total", page.PageIndex+1, page.TotalPages, page.Total)),
	}

	if len(page.Items) == 0 {
		lines = append(lines, s.empty.Render("No series saved yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	body := make([]string, 0, len(page.Items))
	for i, item := range page.Items {
		body = append(body, itemLine(i+1, item, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, body...)))

	if controls := pageControls(prompt, opts); controls != "" {
		lines = append(lines, s.section.Render(s.control.Render(controls)))
	}
	if expiry := expiryLine(prompt.ExpiresAt, opts.Now); expiry != "" {
		lines = append(lines, s.meta.Render(expiry))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func itemLine(position int, item domain.TrackedItem, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.position.Render(fmt.Sprintf("%2d.", position)),
		" ",
		s.item.Render(item.Title),
		" ",
		s.progress.Render(fmt.Sprintf("chapter %d", item.Progress)),
	)
}

func pageControls(prompt application.Prompt, opts RenderOptions) string {
	if opts.ControlPrefix == "" {
		return ""
	}

	p := opts.ControlPrefix
	var controls []string
	if prompt.Page.HasPrev() {
		controls = append(controls, fmt.Sprintf("%sprev %s", p, prompt.Handle))
	}
	if prompt.Page.HasNext() {
		controls = append(controls, fmt.Sprintf("%snext %s", p, prompt.Handle))
	}
	controls = append(controls, fmt.Sprintf("%spick %s <n>", p, prompt.Handle))

	return strings.Join(controls, "  ")
}

func detailView(prompt application.Prompt, opts RenderOptions, s styles) string {
	item := prompt.Item
	lines := []string{
		s.item.Render(item.Title),
		s.progress.Render(fmt.Sprintf("chapter %d", item.Progress)),
	}
	if item.HasLink() {
		lines = append(lines, s.link.Render(item.Link))
	}
	if saved := savedLine(item.SavedAt, opts.Now); saved != "" {
		lines = append(lines, s.meta.Render(saved))
	}
	if prompt.OtherMatches > 0 {
		verb := "match"
		if prompt.OtherMatches == 1 {
			verb = "matches"
		}
		lines = append(lines, s.meta.Render(fmt.Sprintf("%d other series %s this search.", prompt.OtherMatches, verb)))
	}
	if opts.ControlPrefix != "" {
		lines = append(lines, s.section.Render(s.control.Render(fmt.Sprintf("%supdate %s", opts.ControlPrefix, prompt.Handle))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func captureView(prompt application.Prompt, opts RenderOptions, s styles) string {
	lines := []string{
		fmt.Sprintf("Send the new chapter for %s (currently %d).", s.item.Render(prompt.Item.Title), prompt.Item.Progress),
	}
	if expiry := expiryLine(prompt.ExpiresAt, opts.Now); expiry != "" {
		lines = append(lines, s.meta.Render(expiry))
	}
	if opts.ControlPrefix != "" {
		lines = append(lines, s.control.Render(fmt.Sprintf("%scancel %s", opts.ControlPrefix, prompt.Handle)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func outcomeView(outcome application.CaptureOutcome, s styles) string {
	switch outcome.Result {
	case domain.CaptureApplied:
		return s.success.Render("✓") + " " + fmt.Sprintf("%s updated to chapter %d.", s.item.Render(outcome.Item.Title), outcome.Item.Progress)
	case domain.CaptureTimedOut:
		return s.warning.Render(fmt.Sprintf("Time is up for %s. Nothing was changed.", outcome.Item.Title))
	default:
		err := outcome.Err
		if err == nil {
			err = errors.New(string(outcome.Result))
		}
		return refusalView(err, s)
	}
}

func refusalView(err error, s styles) string {
	lines := []string{s.warning.Render(application.RefusalMessage(err))}

	var notFound *application.NotFoundError
	if errors.As(err, &notFound) && len(notFound.Suggestions) > 0 {
		lines = append(lines, s.meta.Render("Did you mean: "+strings.Join(notFound.Suggestions, ", ")+"?"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func infoView(info application.Info, s styles) string {
	width := 0
	for _, cmd := range info.Commands {
		if len(cmd.Usage) > width {
			width = len(cmd.Usage)
		}
	}

	lines := []string{s.title.Render(info.Name), s.header.Render(info.Summary)}
	body := make([]string, 0, len(info.Commands))
	for _, cmd := range info.Commands {
		body = append(body, s.control.Render(fmt.Sprintf("%-*s", width, cmd.Usage))+"  "+cmd.Description)
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, body...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func expiryLine(expiresAt, now time.Time) string {
	if expiresAt.IsZero() || now.IsZero() {
		return ""
	}
	if !expiresAt.After(now) {
		return "expired"
	}

	return "expires in " + formatDuration(expiresAt.Sub(now))
}

func savedLine(savedAt, now time.Time) string {
	if savedAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return "saved " + savedAt.Format("15:04 on 02 Jan 2006")
	}
	if savedAt.After(now) {
		return "saved just now"
	}

	return "saved " + formatDuration(now.Sub(savedAt)) + " ago"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		seconds := int(math.Ceil(d.Seconds()))
		return plural(seconds, "second")
	case d < time.Hour:
		return plural(int(math.Round(d.Minutes())), "minute")
	case d < 24*time.Hour:
		return plural(int(math.Round(d.Hours())), "hour")
	default:
		return plural(int(math.Round(d.Hours()/24)), "day")
	}
}

func plural(n int, unit string) string {
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Inline renders views for callers that already run a bubbletea program and
// must not start a nested one.
type Inline struct {
	styles styles
}

func NewInline() Inline {
	return Inline{styles: newStyles()}
}

func (v Inline) Prompt(prompt application.Prompt, opts RenderOptions) string {
	return promptView(prompt, opts, v.styles)
}

func (v Inline) Outcome(outcome application.CaptureOutcome) string {
	return outcomeView(outcome, v.styles)
}

func (v Inline) Refusal(err error) string {
	return refusalView(err, v.styles)
}

func (v Inline) Hint(text string) string {
	return v.styles.meta.Render(text)
}

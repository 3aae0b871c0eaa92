package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	trackerview "github.com/bnema/shelf/internal/adapters/render/tracker"
	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/spf13/cobra"
)

func newInfoCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the tracker can do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := application.NewTrackerService(nil, nil, nil, app.clock, app.logger)
			rendered, err := trackerview.Info(svc.Info())
			if err != nil {
				return fmt.Errorf("render info: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newSaveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "guardar <title>,<chapter>[,<link>]",
		Aliases: []string{"save"},
		Short:   "Save a series with the chapter you are on",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}

			t, err := app.start(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			item, err := t.service.Save(cmd.Context(), application.SaveItemCommand{Owner: actor, Raw: strings.Join(args, " ")})
			if err != nil {
				return refuse(cmd, err)
			}

			rendered, err := trackerview.Saved(item)
			if err != nil {
				return fmt.Errorf("render saved item: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newListCmd(app *app) *cobra.Command {
	var (
		page   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "listar [title]",
		Aliases: []string{"list"},
		Short:   "List your series, or find one by title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be 1 or more, got %d", page)
			}

			actor, err := app.actor()
			if err != nil {
				return err
			}

			t, err := app.start(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			ctx := cmd.Context()
			prompt, err := t.coordinator.List(ctx, application.ListCommand{Owner: actor, TitleFilter: strings.Join(args, " ")})
			if err != nil {
				return refuse(cmd, err)
			}

			for prompt.Kind == application.PromptPage && prompt.Page.PageIndex+1 < page && prompt.Page.HasNext() {
				prompt, err = t.coordinator.Navigate(ctx, application.NavigatePageCommand{
					Handle:    prompt.Handle,
					Actor:     actor,
					Direction: domain.PageNext,
				})
				if err != nil {
					return refuse(cmd, err)
				}
			}

			if asJSON {
				return writeJSON(cmd, promptPayload(prompt))
			}

			rendered, err := trackerview.Prompt(prompt, trackerview.RenderOptions{Now: app.clock.Now()})
			if err != nil {
				return fmt.Errorf("render list: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to show (1-based, clamped to the last page)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// newUpdateCmd runs the select and capture steps in one go: the matched
// series is selected for update and value is submitted to the capture.
func newUpdateCmd(app *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:     "actualizar <title>",
		Aliases: []string{"update"},
		Short:   "Set the chapter of a saved series",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}

			t, err := app.start(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			ctx := cmd.Context()
			detail, err := t.coordinator.List(ctx, application.ListCommand{Owner: actor, TitleFilter: strings.Join(args, " ")})
			if err != nil {
				return refuse(cmd, err)
			}
			if detail.Kind != application.PromptDetail {
				return refuse(cmd, fmt.Errorf("%w: a title is required", domain.ErrMalformedInput))
			}

			capture, err := t.coordinator.SelectForUpdate(ctx, application.SelectForUpdateCommand{Actor: actor, Target: detail.Item.ID})
			if err != nil {
				return refuse(cmd, err)
			}

			outcome, err := t.coordinator.SubmitValue(ctx, application.SubmitValueCommand{Handle: capture.Handle, Actor: actor, Raw: value})
			if err != nil {
				return refuse(cmd, err)
			}

			rendered, err := trackerview.Outcome(outcome)
			if err != nil {
				return fmt.Errorf("render outcome: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&value, "to", "", "New chapter")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newGrantCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "lector [user]",
		Aliases: []string{"grant"},
		Short:   "Allow another user to use the tracker, or list who can",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}

			t, err := app.start(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			if len(args) == 0 {
				readers, err := t.service.Readers(cmd.Context(), actor)
				if err != nil {
					return refuse(cmd, err)
				}
				rendered, err := trackerview.Readers(readers)
				if err != nil {
					return fmt.Errorf("render readers: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return err
			}

			grant, err := t.service.GrantReader(cmd.Context(), application.GrantReaderCommand{Actor: actor, User: domain.UserID(args[0])})
			if err != nil {
				return refuse(cmd, err)
			}

			rendered, err := trackerview.Granted(grant)
			if err != nil {
				return fmt.Errorf("render grant: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

// refuse prints the refusal the way the chat channel would and still returns
// err so the exit code reflects it.
func refuse(cmd *cobra.Command, err error) error {
	rendered, renderErr := trackerview.Refusal(err)
	if renderErr != nil {
		return fmt.Errorf("render refusal: %w", renderErr)
	}

	if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), rendered); writeErr != nil {
		return writeErr
	}
	return err
}

type itemPayload struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Owner    string    `json:"owner"`
	Progress int       `json:"progress"`
	Link     string    `json:"link,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

type pagePayload struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	Items      []itemPayload `json:"items"`
}

type detailPayload struct {
	Item         itemPayload `json:"item"`
	OtherMatches int         `json:"other_matches"`
}

func newItemPayload(item domain.TrackedItem) itemPayload {
	return itemPayload{
		ID:       string(item.ID),
		Title:    item.Title,
		Owner:    string(item.Owner),
		Progress: item.Progress,
		Link:     item.Link,
		SavedAt:  item.SavedAt,
	}
}

func promptPayload(prompt application.Prompt) any {
	if prompt.Kind == application.PromptDetail {
		return detailPayload{Item: newItemPayload(prompt.Item), OtherMatches: prompt.OtherMatches}
	}

	items := make([]itemPayload, 0, len(prompt.Page.Items))
	for _, item := range prompt.Page.Items {
		items = append(items, newItemPayload(item))
	}

	return pagePayload{
		Page:       prompt.Page.PageIndex + 1,
		TotalPages: prompt.Page.TotalPages,
		Total:      prompt.Page.Total,
		Items:      items,
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

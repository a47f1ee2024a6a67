package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emote-tools/emotesync/internal/auth"
	"github.com/emote-tools/emotesync/internal/config"
	"github.com/emote-tools/emotesync/internal/logging"
	"github.com/emote-tools/emotesync/internal/model"
	"github.com/emote-tools/emotesync/internal/sync"
	"github.com/emote-tools/emotesync/internal/ui"
)

// fetcher is the read-only slice of the API the session setup needs.
// Satisfied by *seventv.Client.
type fetcher interface {
	FetchSet(ctx context.Context, setID string) (*model.EmoteSet, error)
}

// prompter asks the user questions. Satisfied by *ui.Prompter.
type prompter interface {
	Ask(prompt string) (string, error)
	AskSecret(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
	ConfirmDefault(prompt string, def bool) (bool, error)
}

// policyOverrides carries policy decisions supplied via flags. A nil
// field means the corresponding question is asked interactively when
// it becomes relevant.
type policyOverrides struct {
	ReplaceConflicts *bool
	TrimToCapacity   *bool
}

// session gathers everything a copy run needs before execution: a
// valid token, the origin and target snapshots, and the two policy
// decisions. All prompt loops mirror each other: warn and re-ask until
// the answer holds up.
type session struct {
	cfg    *config.Config
	client fetcher
	prompt prompter
	out    io.Writer
	now    func() time.Time
}

func newSession(cfg *config.Config, client fetcher, prompt prompter, out io.Writer) *session {
	return &session{
		cfg:    cfg,
		client: client,
		prompt: prompt,
		out:    out,
		now:    time.Now,
	}
}

// credentials returns a valid token and the user id it belongs to.
// A saved token is tried first; otherwise the user is prompted, with
// an offer to persist the token for the next run.
func (s *session) credentials(preset string) (token, userID string, err error) {
	if preset != "" {
		userID, err = auth.UserID(preset, s.now())
		if err != nil {
			return "", "", fmt.Errorf("provided token is unusable: %w", err)
		}
		return preset, userID, nil
	}

	tokenFile := s.cfg.Auth.TokenFile
	saved, err := auth.Load(tokenFile)
	if err != nil {
		logging.Warn("could not read token file", logging.Err(err))
	}
	if saved != "" {
		fmt.Fprintln(s.out, ui.Info(fmt.Sprintf("Loading token from %s...", tokenFile)))
		userID, err = auth.UserID(saved, s.now())
		if err == nil {
			fmt.Fprintln(s.out, ui.StatusSuccess(fmt.Sprintf("Token loaded from %s.", tokenFile)))
			return saved, userID, nil
		}
		fmt.Fprintln(s.out, ui.StatusWarning(err.Error()))
	}

	for {
		token, err = s.prompt.AskSecret("What is your 7TV token?")
		if err != nil {
			return "", "", err
		}
		if token == "" {
			fmt.Fprintln(s.out, ui.StatusWarning("Please provide a token."))
			continue
		}

		userID, err = auth.UserID(token, s.now())
		if err != nil {
			fmt.Fprintln(s.out, ui.StatusWarning(err.Error()))
			continue
		}

		save, err := s.prompt.Confirm(fmt.Sprintf("Save the token to %s for easy access?", tokenFile))
		if err != nil {
			return "", "", err
		}
		if save {
			if err := auth.Save(tokenFile, token); err != nil {
				fmt.Fprintln(s.out, ui.StatusWarning(fmt.Sprintf("Could not save token: %v", err)))
			} else {
				fmt.Fprintln(s.out, ui.StatusSuccess(fmt.Sprintf("Token saved to %s.", tokenFile)))
			}
		} else {
			fmt.Fprintln(s.out, ui.Info("Token not saved."))
		}

		return token, userID, nil
	}
}

// originSet resolves the set to copy from. It must exist and must not
// be empty. A preset id (from a flag) is tried as the first answer.
func (s *session) originSet(ctx context.Context, preset string) (*model.EmoteSet, error) {
	id := preset
	for {
		if id == "" {
			var err error
			id, err = s.prompt.Ask("What is the ID of the emote set you want to copy?")
			if err != nil {
				return nil, err
			}
		}

		if !model.ValidID(id) {
			fmt.Fprintln(s.out, ui.StatusWarning("Invalid ID format. Please provide a valid ID."))
			id = ""
			continue
		}

		set, err := s.client.FetchSet(ctx, id)
		if err != nil {
			return nil, err
		}
		if set == nil {
			fmt.Fprintln(s.out, ui.StatusWarning("Origin emote set was not found. Please provide a valid ID."))
			id = ""
			continue
		}
		if set.Emotes.TotalCount == 0 {
			fmt.Fprintln(s.out, ui.StatusWarning("Origin emote set has no emotes. Please provide a different ID."))
			id = ""
			continue
		}

		fmt.Fprintln(s.out, ui.StatusSuccess(fmt.Sprintf("Found origin emote set: '%s' (%d/%d)",
			set.Name, set.Emotes.TotalCount, set.Capacity)))
		return set, nil
	}
}

// targetSet resolves the set to copy into. It must exist, differ from
// the origin, and be editable by the authenticated user.
func (s *session) targetSet(ctx context.Context, preset string, origin *model.EmoteSet, userID string) (*model.EmoteSet, error) {
	id := preset
	for {
		if id == "" {
			var err error
			id, err = s.prompt.Ask("What is the ID of the emote set you want to copy into?")
			if err != nil {
				return nil, err
			}
		}

		if !model.ValidID(id) {
			fmt.Fprintln(s.out, ui.StatusWarning("Invalid ID format. Please provide a valid ID."))
			id = ""
			continue
		}

		set, err := s.client.FetchSet(ctx, id)
		if err != nil {
			return nil, err
		}
		if set == nil {
			fmt.Fprintln(s.out, ui.StatusWarning("Target emote set was not found. Please provide a valid ID."))
			id = ""
			continue
		}
		if set.ID == origin.ID {
			fmt.Fprintln(s.out, ui.StatusWarning("Target emote set cannot be the same as the origin emote set. Please provide a different ID."))
			id = ""
			continue
		}
		if !set.EditableBy(userID) {
			fmt.Fprintln(s.out, ui.StatusWarning("You are not an editor of the target emote set. Please provide a different ID or ask the owner to add you as an editor."))
			id = ""
			continue
		}

		fmt.Fprintln(s.out, ui.StatusSuccess(fmt.Sprintf("Found target emote set: '%s' (%d/%d)",
			set.Name, set.Emotes.TotalCount, set.Capacity)))
		return set, nil
	}
}

// planTransfer narrates the filtering stages and resolves the two
// policy questions, asking each only when it actually applies. It
// returns the final plan.
func (s *session) planTransfer(origin, target *model.EmoteSet, overrides policyOverrides) (sync.Plan, error) {
	// A preview with conflicts kept exposes the stage counts before
	// the policy decisions are made. BuildPlan is pure, so rebuilding
	// after each answer is free.
	preview := sync.BuildPlan(origin, target, sync.Options{ReplaceConflicts: true})

	if preview.Private > 0 {
		fmt.Fprintln(s.out, ui.Info(fmt.Sprintf("Found %d private emote%s in the origin emote set. They will be ignored.",
			preview.Private, plural(preview.Private))))
	}
	if preview.Duplicates > 0 {
		fmt.Fprintln(s.out, ui.Info(fmt.Sprintf("Found %d emote%s that are exactly the same in the target emote set. They will be ignored.",
			preview.Duplicates, plural(preview.Duplicates))))
	}

	opts := sync.Options{}
	if preview.Conflicts > 0 {
		fmt.Fprintln(s.out, ui.Info(fmt.Sprintf("Found %d conflicting emote%s in the target emote set.",
			preview.Conflicts, plural(preview.Conflicts))))
		if overrides.ReplaceConflicts != nil {
			opts.ReplaceConflicts = *overrides.ReplaceConflicts
		} else {
			question := "Do you want to replace them with the copied emotes?"
			if preview.Conflicts == 1 {
				question = "Do you want to replace it with the copied emote?"
			}
			replace, err := s.prompt.Confirm(question)
			if err != nil {
				return sync.Plan{}, err
			}
			opts.ReplaceConflicts = replace
		}
	}

	untrimmed := sync.BuildPlan(origin, target, opts)
	space := untrimmed.AvailableSpace
	if space < 0 {
		space = 0
	}
	if len(untrimmed.Items) > space {
		fmt.Fprintln(s.out, ui.Info(fmt.Sprintf("The number of emotes to be copied exceeds the space available in the target emote set (%d>%d).",
			len(untrimmed.Items), untrimmed.AvailableSpace)))
		if overrides.TrimToCapacity != nil {
			opts.TrimToCapacity = *overrides.TrimToCapacity
		} else {
			trim, err := s.prompt.ConfirmDefault("Only add emotes that fit?", true)
			if err != nil {
				return sync.Plan{}, err
			}
			opts.TrimToCapacity = trim
		}
	}

	return sync.BuildPlan(origin, target, opts), nil
}

// plural returns the plural suffix for a count.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

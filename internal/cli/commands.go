package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/emote-tools/emotesync/internal/config"
	"github.com/emote-tools/emotesync/internal/model"
	"github.com/emote-tools/emotesync/internal/progress"
	"github.com/emote-tools/emotesync/internal/seventv"
	"github.com/emote-tools/emotesync/internal/sync"
	"github.com/emote-tools/emotesync/internal/ui"
)

func copyCommand() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy the emotes of one emote set into another",
		UsageText: "emotesync copy [options]",
		Description: `Copy all eligible emotes from an origin emote set into a target
   emote set you own or edit. Private emotes and exact duplicates are
   skipped; alias conflicts and capacity overflow are resolved by two
   session-wide decisions, asked interactively unless given as flags.

   Examples:
     emotesync copy
     emotesync copy --origin 01H0000000000000000000000 --target global
     emotesync copy --replace-conflicts --trim-to-capacity --yes`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "origin",
				Aliases: []string{"o"},
				Usage:   "ID of the emote set to copy from",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "ID of the emote set to copy into",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "7TV token (overrides the saved token file)",
			},
			&cli.BoolFlag{
				Name:  "replace-conflicts",
				Usage: "Replace target emotes whose alias conflicts with a copied emote",
			},
			&cli.BoolFlag{
				Name:  "trim-to-capacity",
				Usage: "Only copy as many emotes as fit in the target set",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the start confirmation",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to an alternate config file",
			},
		},
		Action: runCopy,
	}
}

func runCopy(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := os.Stdout
	client := seventv.New(cfg.API.Endpoint, cfg.API.Timeout)
	sess := newSession(cfg, client, ui.NewPrompter(), out)

	token, userID, err := sess.credentials(cmd.String("token"))
	if err != nil {
		return err
	}

	origin, err := sess.originSet(ctx, cmd.String("origin"))
	if err != nil {
		return err
	}
	target, err := sess.targetSet(ctx, cmd.String("target"), origin, userID)
	if err != nil {
		return err
	}

	var overrides policyOverrides
	if cmd.IsSet("replace-conflicts") {
		v := cmd.Bool("replace-conflicts")
		overrides.ReplaceConflicts = &v
	}
	if cmd.IsSet("trim-to-capacity") {
		v := cmd.Bool("trim-to-capacity")
		overrides.TrimToCapacity = &v
	}

	plan, err := sess.planTransfer(origin, target, overrides)
	if err != nil {
		return err
	}
	if plan.Empty() {
		fmt.Fprintln(out, ui.StatusWarning("There are no valid emotes left to copy."))
		return nil
	}

	if !cmd.Bool("yes") {
		start, err := sess.prompt.ConfirmDefault(
			fmt.Sprintf("There are %d emote%s to copy. Start the copying process?",
				len(plan.Items), plural(len(plan.Items))), true)
		if err != nil {
			return err
		}
		if !start {
			return nil
		}
	}

	executor := sync.NewExecutor(sync.ExecutorConfig{
		Client:      client,
		Reporter:    progress.NewReporter("Copying emotes"),
		MaxAttempts: cfg.Retry.MaxAttempts,
		FirstDelay:  cfg.Retry.FirstDelay,
		LaterDelay:  cfg.Retry.LaterDelay,
	})

	result, err := executor.Run(ctx, token, plan, target.ID)
	if err != nil {
		return err
	}
	result.OriginID = origin.ID

	switch result.Outcome {
	case sync.OutcomeCompleted:
		fmt.Fprintln(out, ui.StatusSuccess("All emotes successfully copied!"))
		fmt.Fprint(out, result.Summary())
		return nil
	case sync.OutcomeAbortedGraceful:
		fmt.Fprintln(out, ui.StatusWarning("Target emote set is full. Cannot add more emotes."))
		fmt.Fprint(out, result.Summary())
		return nil
	default:
		fmt.Fprint(out, result.Summary())
		return fmt.Errorf("copy aborted: %w", result.Err)
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Fetch and display an emote set",
		UsageText: "emotesync inspect <set-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to an alternate config file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("usage: emotesync inspect <set-id>")
			}
			if !model.ValidID(id) {
				return fmt.Errorf("invalid emote set ID: %s", id)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client := seventv.New(cfg.API.Endpoint, cfg.API.Timeout)
			set, err := client.FetchSet(ctx, id)
			if err != nil {
				return err
			}
			if set == nil {
				return fmt.Errorf("emote set %s was not found", id)
			}

			fmt.Printf("%s (%s)\n", ui.Bold(set.Name), set.ID)
			fmt.Printf("  capacity: %d/%d\n", set.Emotes.TotalCount, set.Capacity)
			fmt.Printf("  owner: %s\n", set.Owner.ID)
			if len(set.Owner.Editors) > 0 {
				fmt.Printf("  editors: %d\n", len(set.Owner.Editors))
			}
			fmt.Println()
			for _, e := range set.Emotes.Items {
				marker := ""
				if e.Private() {
					marker = " " + ui.Dim("(private)")
				}
				fmt.Printf("  %s %s%s\n", e.Alias, ui.Dim(e.ID), marker)
			}
			return nil
		},
	}
}

// loadConfig honors the --config flag, falling back to the default
// config file location.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

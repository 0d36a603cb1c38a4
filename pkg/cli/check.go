package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/cli/config"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdCheck() *cli.Command {
	var userID string
	var riskID string
	var actionNames []string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to evaluate",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "risk",
			Aliases:     []string{"r"},
			Usage:       "Risk ID to evaluate",
			Required:    true,
			Destination: &riskID,
		},
		&cli.StringSliceFlag{
			Name:        "action",
			Aliases:     []string{"a"},
			Usage:       "Action to evaluate (read, update, delete). All actions when omitted",
			Destination: &actionNames,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "check",
		Usage: "Show whether a user may read, update or delete a risk and which rule decided it",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			actions := []types.Action{types.ActionRead, types.ActionUpdate, types.ActionDelete}
			if len(actionNames) > 0 {
				actions = actions[:0]
				for _, name := range actionNames {
					action, err := types.ParseAction(name)
					if err != nil {
						return err
					}
					actions = append(actions, action)
				}
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			return runCheck(ctx, c.Root().Writer, repo, userID, riskID, actions)
		},
	}
}

// runCheck evaluates every action concurrently and prints one line per action
func runCheck(ctx context.Context, w io.Writer, repo interfaces.Repository, userID, riskID string, actions []types.Action) error {
	user, err := repo.User().Get(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up user", goerr.V(model.UserIDKey, userID))
	}

	permission := usecase.NewPermissionUseCase(repo)
	decisions := make([]model.Decision, len(actions))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, action := range actions {
		eg.Go(func() error {
			d, err := permission.CanPerform(egCtx, user, riskID, action)
			if err != nil {
				return err
			}
			decisions[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to evaluate permission", goerr.V(model.RiskIDKey, riskID))
	}

	allow := color.New(color.FgGreen, color.Bold)
	deny := color.New(color.FgRed, color.Bold)
	faint := color.New(color.Faint)

	if _, err := fmt.Fprintf(w, "user %s (role %s, department %q) on risk %s\n", user.ID, user.Role, user.Department, riskID); err != nil {
		return goerr.Wrap(err, "failed to write result")
	}
	for i, action := range actions {
		d := decisions[i]
		verdict := deny.Sprint("DENY ")
		if d.Allowed {
			verdict = allow.Sprint("ALLOW")
		}
		if _, err := fmt.Fprintf(w, "  %-6s %s %s\n", action, verdict, faint.Sprintf("rule=%s", d.Rule)); err != nil {
			return goerr.Wrap(err, "failed to write result")
		}
	}
	return nil
}

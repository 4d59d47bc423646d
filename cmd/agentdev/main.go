// Copyright 2026 AgentDev Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentrix/agentdev/internal/engine/bootstrap"
	"github.com/agentrix/agentdev/internal/pkg/controller"
	"github.com/agentrix/agentdev/pkg/env"
	"github.com/agentrix/agentdev/pkg/version"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "agentdev",
		Short: "Autonomous fix-loop engine: plan, execute, verify, refine",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "conf",
		env.GetEnvString("AGENTDEV_CONF", "conf.d/config.toml"), "config file path")

	root.AddCommand(
		newRunCmd(),
		newResumeCmd(),
		newCancelCmd(),
		newStatusCmd(),
		newGCCmd(),
		version.VersionCmd,
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp wires the application and tears it down after fn returns.
func withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := app.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	return fn(ctx, app)
}

func newRunCmd() *cobra.Command {
	var (
		problem        string
		jobType        string
		createdBy      string
		maxRefinements int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create a job for a problem and drive it to a terminal state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				job, err := app.Controller.CreateJob(ctx, controller.CreateJobRequest{
					Problem:        problem,
					JobType:        jobType,
					CreatedBy:      createdBy,
					MaxRefinements: maxRefinements,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %s created\n", job.JobID)
				return app.Controller.Run(ctx, job.JobID)
			})
		},
	}
	cmd.Flags().StringVar(&problem, "problem", "", "problem description (required)")
	cmd.Flags().StringVar(&jobType, "type", "fix", "job type, selects the plan template")
	cmd.Flags().StringVar(&createdBy, "created-by", "cli", "requester recorded on the job")
	cmd.Flags().IntVar(&maxRefinements, "max-refinements", 0, "plan refinement budget, 0 uses the configured default")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

func newResumeCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "resume [job-id]",
		Short: "Resume an interrupted job from its latest checkpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("a job id or --all is required")
			}
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				if all {
					return app.Controller.ResumeAll(ctx)
				}
				return app.Controller.Resume(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "resume every non-terminal job")
	return cmd
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				return app.Controller.Cancel(ctx, args[0])
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	var showEvents bool
	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a job's state, plan progress and audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				job, err := app.Store.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				summary, err := app.Store.StepSummary(ctx, job.JobID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "job:      %s\n", job.JobID)
				fmt.Fprintf(out, "type:     %s\n", job.JobType)
				fmt.Fprintf(out, "status:   %s\n", job.Status)
				if job.FinalReason != "" {
					fmt.Fprintf(out, "reason:   %s\n", job.FinalReason)
				}
				fmt.Fprintf(out, "refines:  %d/%d\n", job.RefineCount, job.MaxRefinements)
				fmt.Fprintf(out, "steps:    %d total, %d completed, %d failed, %d pending, %d running\n",
					summary.Total, summary.Completed, summary.Failed, summary.Pending, summary.Running)
				if !showEvents {
					return nil
				}
				events, err := app.Store.ListEvents(ctx, job.JobID)
				if err != nil {
					return err
				}
				for _, one := range events {
					fmt.Fprintf(out, "%s  %-16s %s %s\n",
						one.CreatedAt.Format("2006-01-02 15:04:05"), one.EventType, one.StepID, one.EventData)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showEvents, "events", false, "print the job's event trail")
	return cmd
}

func newGCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Delete expired checkpoints and artifact references",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				result, err := controller.Sweep(ctx, app.Store)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d checkpoints, %d artifacts\n",
					result.Checkpoints, result.Artifacts)
				return nil
			})
		},
	}
}

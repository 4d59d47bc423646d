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

package gitsvc

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/agentrix/agentdev/pkg/log"
)

// CLIService drives the git binary in the job workspace.
type CLIService struct {
	Workdir string
}

// NewCLIService creates a git CLI service rooted at workdir.
func NewCLIService(workdir string) *CLIService {
	return &CLIService{Workdir: workdir}
}

func (s *CLIService) CreateBranch(ctx context.Context, jobID string) (string, error) {
	branch := "agentdev/" + jobID
	if _, err := s.run(ctx, "checkout", "-b", branch); err != nil {
		return "", err
	}
	log.Infow("created working branch", "jobId", jobID, "branch", branch)
	return branch, nil
}

func (s *CLIService) Commit(ctx context.Context, jobID, message string) error {
	if _, err := s.run(ctx, "add", "-A"); err != nil {
		return err
	}
	status, err := s.run(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		log.Infow("nothing to commit", "jobId", jobID)
		return nil
	}
	_, err = s.run(ctx, "commit", "-m", message)
	return err
}

func (s *CLIService) Revert(ctx context.Context, jobID string) error {
	if _, err := s.run(ctx, "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	_, err := s.run(ctx, "clean", "-fd")
	return err
}

func (s *CLIService) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.Workdir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "git %s failed: %s",
			strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

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

package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
	"github.com/agentrix/agentdev/internal/pkg/verifier"
	"github.com/agentrix/agentdev/pkg/log"
)

// CommandExecutor runs command steps through the sandbox runner and
// verifies the captured result.
type CommandExecutor struct {
	runner   sandbox.Runner
	verifier verifier.Verifier
}

// NewCommandExecutor wires a sandbox runner to the default verifier.
func NewCommandExecutor(runner sandbox.Runner, v verifier.Verifier) *CommandExecutor {
	return &CommandExecutor{runner: runner, verifier: v}
}

func (e *CommandExecutor) Name() string {
	return "command"
}

func (e *CommandExecutor) CanExecute(req *ExecutionRequest) bool {
	if req == nil || req.Step == nil {
		return false
	}
	return req.Step.StepType == model.StepTypeCommand
}

func (e *CommandExecutor) Execute(ctx context.Context, req *ExecutionRequest) (*StepResult, error) {
	if req.Step == nil {
		return nil, fmt.Errorf("step is nil")
	}

	workdir := req.Step.WorkingDirectory
	if workdir == "" {
		workdir = req.Workspace
	}
	execResult, err := e.runner.Execute(ctx, sandbox.ExecRequest{
		Command: req.Step.Command,
		Env:     req.Step.EnvironmentMap(),
		Workdir: workdir,
		Timeout: req.Step.Timeout(),
	})
	if err != nil {
		// Sandbox broke before the command could produce a verdict.
		return &StepResult{Outcome: OutcomeInfraError, ExitCode: -1, Reason: err.Error()}, nil
	}

	result := &StepResult{
		ExitCode: execResult.ExitCode,
		Stdout:   execResult.Stdout,
		Stderr:   execResult.Stderr,
		Duration: execResult.Duration,
		Raw:      execResult,
	}
	if execResult.TimedOut {
		result.Outcome = OutcomeTimeout
		result.Reason = fmt.Sprintf("step timed out after %s", req.Step.Timeout())
		return result, nil
	}

	verdict := e.verifier.Check(req.Step, execResult)
	if !verdict.Passed {
		result.Outcome = OutcomeFailed
		result.Reason = verdict.Reason
		return result, nil
	}

	result.Outcome = OutcomeSuccess
	result.Artifacts = collectArtifacts(req.Step, workdir)
	return result, nil
}

// collectArtifacts resolves declared artifact paths against the workdir
// and checksums what exists. Missing paths are logged, not fatal.
func collectArtifacts(step *model.JobStep, workdir string) []CollectedArtifact {
	declared := declaredArtifacts(step)
	if len(declared) == 0 {
		return nil
	}
	var collected []CollectedArtifact
	for _, relative := range declared {
		path := relative
		if !filepath.IsAbs(path) {
			path = filepath.Join(workdir, relative)
		}
		info, err := os.Stat(path)
		if err != nil {
			log.Warnw("declared artifact missing", "step", step.StepID, "path", relative)
			continue
		}
		one := CollectedArtifact{
			Name: filepath.Base(path),
			Path: path,
			Type: model.ArtifactTypeFile,
		}
		if info.IsDir() {
			one.Type = model.ArtifactTypeDirectory
		} else {
			one.Size = info.Size()
			if sum, err := checksumFile(path); err == nil {
				one.Checksum = sum
			}
		}
		collected = append(collected, one)
	}
	return collected
}

func declaredArtifacts(step *model.JobStep) []string {
	if len(step.Artifacts) == 0 {
		return nil
	}
	var paths []string
	if err := sonic.Unmarshal(step.Artifacts, &paths); err != nil {
		return nil
	}
	return paths
}

func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

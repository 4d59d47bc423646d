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

// Package verifier decides whether a finished step execution counts as
// success. Verification is a pure function over the step definition and
// the captured execution result; it never re-runs anything.
package verifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/expr-lang/expr"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
)

// Verdict is the outcome of verifying one execution.
type Verdict struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// Verifier checks execution results against step expectations.
type Verifier interface {
	Check(step *model.JobStep, result *sandbox.ExecResult) Verdict
}

type verifier struct{}

// New returns the default verifier.
func New() Verifier {
	return verifier{}
}

// failurePatterns flag test-runner output that reports failure even when
// the process exits zero (some runners swallow exit codes in wrappers).
var failurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^FAIL\b`),
	regexp.MustCompile(`(?m)^--- FAIL:`),
	regexp.MustCompile(`(?i)\b\d+ (test[s]?|spec[s]?) failed\b`),
	regexp.MustCompile(`(?i)^error[s]?: \d+`),
}

func (verifier) Check(step *model.JobStep, result *sandbox.ExecResult) Verdict {
	if result == nil {
		return Verdict{Passed: false, Reason: "no execution result"}
	}
	if result.TimedOut {
		return Verdict{Passed: false, Reason: "execution timed out"}
	}
	if result.ExitCode != 0 {
		return Verdict{Passed: false, Reason: fmt.Sprintf("exit code %d", result.ExitCode)}
	}

	if step.StepType == model.StepTypeTest {
		combined := result.Stdout + "\n" + result.Stderr
		for _, pattern := range failurePatterns {
			if pattern.MatchString(combined) {
				return Verdict{
					Passed: false,
					Reason: fmt.Sprintf("test output reports failure: %q", pattern.String()),
				}
			}
		}
	}

	if assertion := assertionOf(step); assertion != "" {
		return checkAssertion(assertion, result)
	}
	return Verdict{Passed: true}
}

// assertionOf reads an optional "assert" expression from step metadata.
func assertionOf(step *model.JobStep) string {
	if len(step.Metadata) == 0 {
		return ""
	}
	meta := map[string]any{}
	if err := sonic.Unmarshal(step.Metadata, &meta); err != nil {
		return ""
	}
	assertion, _ := meta["assert"].(string)
	return strings.TrimSpace(assertion)
}

// checkAssertion evaluates a boolean expression over the execution result.
// The expression sees exitCode, stdout, stderr and durationMs.
func checkAssertion(assertion string, result *sandbox.ExecResult) Verdict {
	env := map[string]any{
		"exitCode":   result.ExitCode,
		"stdout":     result.Stdout,
		"stderr":     result.Stderr,
		"durationMs": result.Duration.Milliseconds(),
	}
	program, err := expr.Compile(assertion, expr.Env(env), expr.AsBool())
	if err != nil {
		return Verdict{Passed: false, Reason: fmt.Sprintf("bad assertion %q: %v", assertion, err)}
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return Verdict{Passed: false, Reason: fmt.Sprintf("assertion %q: %v", assertion, err)}
	}
	if passed, ok := out.(bool); ok && passed {
		return Verdict{Passed: true}
	}
	return Verdict{Passed: false, Reason: fmt.Sprintf("assertion %q not satisfied", assertion)}
}

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

package verifier

import (
	"testing"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
)

func TestCheck_ZeroExitPasses(t *testing.T) {
	v := New()
	verdict := v.Check(&model.JobStep{StepType: model.StepTypeCommand},
		&sandbox.ExecResult{ExitCode: 0, Stdout: "ok"})
	if !verdict.Passed {
		t.Fatalf("expected pass, got %+v", verdict)
	}
}

func TestCheck_NonZeroExitFails(t *testing.T) {
	v := New()
	verdict := v.Check(&model.JobStep{StepType: model.StepTypeCommand},
		&sandbox.ExecResult{ExitCode: 2})
	if verdict.Passed {
		t.Fatalf("expected failure for exit code 2")
	}
}

func TestCheck_TimeoutFails(t *testing.T) {
	v := New()
	verdict := v.Check(&model.JobStep{StepType: model.StepTypeCommand},
		&sandbox.ExecResult{ExitCode: -1, TimedOut: true})
	if verdict.Passed {
		t.Fatalf("expected failure for timeout")
	}
}

func TestCheck_TestStepScansOutput(t *testing.T) {
	v := New()
	step := &model.JobStep{StepType: model.StepTypeTest}

	verdict := v.Check(step, &sandbox.ExecResult{
		ExitCode: 0,
		Stdout:   "--- FAIL: TestSomething (0.01s)\nFAIL\n",
	})
	if verdict.Passed {
		t.Fatalf("zero exit with failing test output must not pass")
	}

	verdict = v.Check(step, &sandbox.ExecResult{ExitCode: 0, Stdout: "ok\tpkg\t0.1s\n"})
	if !verdict.Passed {
		t.Fatalf("clean test output should pass, got %+v", verdict)
	}
}

func TestCheck_CommandStepIgnoresFailWords(t *testing.T) {
	v := New()
	verdict := v.Check(&model.JobStep{StepType: model.StepTypeCommand},
		&sandbox.ExecResult{ExitCode: 0, Stdout: "FAIL is just a word here\n--- FAIL: nope"})
	if !verdict.Passed {
		t.Fatalf("command steps only check exit code, got %+v", verdict)
	}
}

func TestCheck_Assertion(t *testing.T) {
	v := New()
	step := &model.JobStep{
		StepType: model.StepTypeCommand,
		Metadata: []byte(`{"assert": "stdout contains \"patched\" && exitCode == 0"}`),
	}

	verdict := v.Check(step, &sandbox.ExecResult{ExitCode: 0, Stdout: "file patched ok"})
	if !verdict.Passed {
		t.Fatalf("assertion should pass, got %+v", verdict)
	}

	verdict = v.Check(step, &sandbox.ExecResult{ExitCode: 0, Stdout: "nothing changed"})
	if verdict.Passed {
		t.Fatalf("assertion should fail when stdout lacks the marker")
	}
}

func TestCheck_AssertionOverDuration(t *testing.T) {
	v := New()
	step := &model.JobStep{
		StepType: model.StepTypeCommand,
		Metadata: []byte(`{"assert": "durationMs < 5000"}`),
	}
	verdict := v.Check(step, &sandbox.ExecResult{ExitCode: 0, Duration: time.Second})
	if !verdict.Passed {
		t.Fatalf("duration assertion should pass, got %+v", verdict)
	}
}

func TestCheck_BadAssertionFails(t *testing.T) {
	v := New()
	step := &model.JobStep{
		StepType: model.StepTypeCommand,
		Metadata: []byte(`{"assert": "this is not ((("}`),
	}
	verdict := v.Check(step, &sandbox.ExecResult{ExitCode: 0})
	if verdict.Passed {
		t.Fatalf("malformed assertion must fail the step")
	}
}

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

package bugmemory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// PriorAttempt records one approach that was tried for a failure signature.
type PriorAttempt struct {
	Command  string    `json:"command"`
	StepType string    `json:"stepType"`
	Outcome  string    `json:"outcome"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Memory is the failure-signature cache consulted during plan refinement.
// It is advisory: the controller never enforces its contents.
type Memory interface {
	Lookup(ctx context.Context, signature string) ([]PriorAttempt, error)
	Record(ctx context.Context, signature string, attempt PriorAttempt) error
}

var (
	hexPattern    = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	numberPattern = regexp.MustCompile(`\b\d+\b`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// Signature derives a deterministic failure signature from the job type,
// the failing command and the error text. Addresses, line numbers and
// whitespace runs are normalized so repeated failures across jobs hash
// to the same signature.
func Signature(jobType, command, errText string) string {
	normalized := strings.ToLower(strings.TrimSpace(errText))
	normalized = hexPattern.ReplaceAllString(normalized, "0x?")
	normalized = numberPattern.ReplaceAllString(normalized, "#")
	normalized = spacePattern.ReplaceAllString(normalized, " ")

	h := sha256.New()
	h.Write([]byte(jobType))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(command)))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}

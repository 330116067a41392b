// Package statestore persists and loads per-workflow env to a stable
// on-disk JSON file, atomically, so a crash mid-write never corrupts the
// next load.
package statestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/retry"
)

// State is the persisted document written after every env mutation.
type State struct {
	LastUpdated   time.Time              `json:"last_updated"`
	LastStepID    string                 `json:"last_step_id"`
	LastStepIndex int                    `json:"last_step_index"`
	WorkflowID    string                 `json:"workflow_id"`
	WorkflowFile  string                 `json:"workflow_file"`
	Env           map[string]interface{} `json:"env"`
}

// Store reads and writes State documents under a root directory, one
// subdirectory per workflow id.
type Store struct {
	root  string
	retry *retry.Coordinator
}

// New constructs a Store rooted at root (typically
// "{local_data_dir}/mediar/workflows").
func New(root string) *Store {
	return &Store{
		root:  root,
		retry: retry.New(retry.Policy{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond, BackoffStrategy: retry.ExponentialBackoff, Multiplier: 2}),
	}
}

// ResolveWorkflowID returns id unchanged if non-empty, otherwise a
// deterministic hash of workflowFile, matching §4.6's fallback key.
func ResolveWorkflowID(id, workflowFile string) string {
	if id != "" {
		return id
	}
	sum := sha256.Sum256([]byte(workflowFile))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Store) path(workflowID string) string {
	return filepath.Join(s.root, workflowID, "state.json")
}

// Save atomically writes state to disk via a temp-file-then-rename,
// retrying transient write failures (e.g. a busy/full filesystem) with
// backoff before surfacing InternalError.
func (s *Store) Save(state State) error {
	state.LastUpdated = time.Now()
	dir := filepath.Dir(s.path(state.WorkflowID))

	return errWrap(s.retry.Execute(context.Background(), "state_store_save", func(_ context.Context) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		tmp, err := os.CreateTemp(dir, "state-*.tmp")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName)
			return err
		}
		return os.Rename(tmpName, s.path(state.WorkflowID))
	}))
}

// Load reads the persisted State for workflowID. A missing file returns
// (State{}, false, nil) so callers can distinguish "nothing to resume
// from" from a genuine read failure.
func (s *Store) Load(workflowID string) (State, bool, error) {
	data, err := os.ReadFile(s.path(workflowID))
	if os.IsNotExist(err) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, errs.Wrap(errs.InternalError, "reading state file", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, errs.Wrap(errs.InternalError, "decoding state file", err)
	}
	return state, true, nil
}

func errWrap(err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.InternalError, "persisting workflow state", err)
}

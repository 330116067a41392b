package scriptexec

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/mediar-ai/deskflow/pkg/errs"
)

// ShellExecutor runs "shell" language scripts via os/exec, grounded in
// the teacher's heavy os/exec usage for invoking external binaries with
// captured stdout/stderr and context-based cancellation (pkg/docker,
// pkg/k8s). node-js/node-ts/python all return ScriptExecutionFailed
// unless an external binary is configured via WithInterpreter.
type ShellExecutor struct {
	interpreters map[Language]string
}

// NewShellExecutor constructs a ShellExecutor. By default only Shell is
// runnable (via "sh -c"); call WithInterpreter to wire an external
// node/python binary for the other languages.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{interpreters: map[Language]string{}}
}

// WithInterpreter registers the binary to invoke for language, e.g.
// WithInterpreter(NodeJS, "node").
func (s *ShellExecutor) WithInterpreter(lang Language, bin string) *ShellExecutor {
	s.interpreters[lang] = bin
	return s
}

// Execute plumbs step variables (§4.4) into the underlying run. For
// shell, env keys are exported as process environment variables by
// buildShellEnv and no preamble is added; for the other languages, env is
// marshalled by buildPreamble into a target-language preamble prepended
// to source before it runs.
func (s *ShellExecutor) Execute(ctx context.Context, language Language, source string, cwd string, env map[string]interface{}) (Result, <-chan Event, error) {
	switch language {
	case Shell:
		return s.runShell(ctx, source, cwd, env)
	default:
		bin, ok := s.interpreters[language]
		if !ok {
			return Result{}, nil, errs.New(errs.ScriptExecutionFailed, "no runtime configured for language").
				Context("language", string(language)).
				Suggest("configure an external interpreter via ShellExecutor.WithInterpreter").
				Build()
		}
		preamble, err := buildPreamble(language, env)
		if err != nil {
			return Result{}, nil, errs.Wrap(errs.ScriptExecutionFailed, "building script variable preamble", err)
		}
		return s.runInterpreter(ctx, bin, preamble+source, cwd)
	}
}

func (s *ShellExecutor) runShell(ctx context.Context, source string, cwd string, env map[string]interface{}) (Result, <-chan Event, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", source)
	if exports := buildShellEnv(env); len(exports) > 0 {
		cmd.Env = append(os.Environ(), exports...)
	}
	return s.run(cmd, cwd)
}

func (s *ShellExecutor) runInterpreter(ctx context.Context, bin, source, cwd string) (Result, <-chan Event, error) {
	cmd := exec.CommandContext(ctx, bin, "-e", source)
	return s.run(cmd, cwd)
}

func (s *ShellExecutor) run(cmd *exec.Cmd, cwd string) (Result, <-chan Event, error) {
	if cwd != "" {
		cmd.Dir = cwd
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := Result{Status: "success"}
	trimmed := strings.TrimSpace(stdout.String())
	if trimmed != "" {
		var parsed interface{}
		if json.Unmarshal([]byte(trimmed), &parsed) == nil {
			result.Result = parsed
		} else {
			result.Result = trimmed
		}
	}
	result.Stderr = stderr.String()

	if runErr != nil {
		result.Status = "error"
		return result, nil, errs.Wrap(errs.ScriptExecutionFailed, "shell command exited non-zero", runErr)
	}
	return result, nil, nil
}

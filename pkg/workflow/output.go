package workflow

import (
	"context"
	"encoding/json"

	"github.com/mediar-ai/deskflow/pkg/errs"
	"github.com/mediar-ai/deskflow/pkg/scriptexec"
)

// runOutputParser implements §4.1.3: pass the run summary through the
// Script Executor and unwrap a single {result, logs} wrapper if present.
func (e *Engine) runOutputParser(ctx context.Context, doc Document, summary Summary) (interface{}, error) {
	if e.Scripts == nil || doc.OutputParser == nil || doc.OutputParser.Source == "" {
		return nil, nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}
	env := map[string]interface{}{"summary": json.RawMessage(raw)}

	language := scriptexec.Language(doc.OutputParser.Language)
	if language == "" {
		language = scriptexec.Shell
	}

	result, events, err := e.Scripts.Execute(ctx, language, doc.OutputParser.Source, doc.ScriptsBasePath, env)
	if events != nil {
		for range events {
		}
	}
	if err != nil {
		return nil, err
	}
	if result.Status == "failed" || result.Status == "error" {
		return nil, errs.New(errs.ScriptExecutionFailed, "output parser reported failure").Build()
	}
	if wrapper, ok := result.Result.(map[string]interface{}); ok {
		if inner, has := wrapper["result"]; has && len(wrapper) <= 2 {
			return inner, nil
		}
	}
	return result.Result, nil
}

package scriptexec

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/mediar-ai/deskflow/pkg/substitution"
)

// reservedEnvNames are never exposed as top-level script variables even
// when they are otherwise valid identifiers, since the name is already
// bound by the preamble itself or by the target runtime (§4.4 item 2).
var reservedEnvNames = map[string]bool{
	"env": true, "variables": true, "desktop": true, "console": true,
	"log": true, "sleep": true, "require": true, "process": true,
	"global": true, "window": true, "document": true, "alert": true,
	"prompt": true,
}

// jsKeywords and pyKeywords are the target-language keyword sets §4.4
// item 2 folds into the reserved set. node-js/node-ts/execute-browser-script
// share the JS set; python uses the Python set; shell has no identifier
// grammar to collide with, so it gets no keyword guard.
var jsKeywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"let": true, "static": true, "await": true, "async": true, "of": true,
	"true": true, "false": true, "null": true, "undefined": true,
}

var pyKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

var jsIdentifierRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
var pyIdentifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// isExposable reports whether name may be exposed as a top-level
// variable for language (§4.4 item 2): a valid identifier in that
// language's grammar, not one of its keywords, and not already claimed
// by the preamble/runtime.
func isExposable(language Language, name string) bool {
	if reservedEnvNames[name] {
		return false
	}
	switch language {
	case NodeJS, NodeTS:
		return jsIdentifierRE.MatchString(name) && !jsKeywords[name]
	case Python:
		return pyIdentifierRE.MatchString(name) && !pyKeywords[name]
	case Shell:
		return pyIdentifierRE.MatchString(name)
	default:
		return false
	}
}

// mergedScriptEnv splits the env argument the engine injected
// (§4.1.2 step 4) into the accumulated/workflow-variable maps and the
// explicit per-step env, then folds them into the single merged env
// object §4.4 item 1 requires (explicit per-step keys win over
// accumulated ones), pre-parsing any JSON-shaped string value exactly
// once (§4.4 item 3) so it is not double-encoded when the preamble
// marshals it back into the target language.
func mergedScriptEnv(env map[string]interface{}) (merged, variables map[string]interface{}) {
	merged = map[string]interface{}{}
	variables = map[string]interface{}{}
	if env == nil {
		return merged, variables
	}
	if accumulated, ok := env["_accumulated_env"].(map[string]interface{}); ok {
		for k, v := range accumulated {
			merged[k] = v
		}
	}
	if vars, ok := env["_workflow_variables"].(map[string]interface{}); ok {
		for k, v := range vars {
			variables[k] = v
		}
	}
	for k, v := range env {
		if k == "_accumulated_env" || k == "_workflow_variables" {
			continue
		}
		merged[k] = v
	}
	for k, v := range merged {
		if s, ok := v.(string); ok {
			merged[k] = substitution.ParseIfJSONShaped(s)
		}
	}
	return merged, variables
}

// buildPreamble renders the target-language preamble §4.4 names as the
// "bidirectional" half of scripted-step variable plumbing: it declares
// env and variables, then exposes every exposable merged-env key as a
// top-level binding so the user's script can reference it directly.
func buildPreamble(language Language, env map[string]interface{}) (string, error) {
	merged, variables := mergedScriptEnv(env)

	envJSON, err := json.Marshal(merged)
	if err != nil {
		return "", err
	}
	varsJSON, err := json.Marshal(variables)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(merged))
	for k := range merged {
		if isExposable(language, k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	switch language {
	case NodeJS, NodeTS:
		preamble := "const env = " + string(envJSON) + ";\nconst variables = " + string(varsJSON) + ";\n"
		for _, name := range names {
			preamble += "const " + name + " = env[" + quoteString(name) + "];\n"
		}
		return preamble, nil
	case Python:
		preamble := "import json\nenv = json.loads(" + quoteString(string(envJSON)) + ")\nvariables = json.loads(" + quoteString(string(varsJSON)) + ")\n"
		for _, name := range names {
			preamble += name + " = env[" + quoteString(name) + "]\n"
		}
		return preamble, nil
	default:
		return "", nil
	}
}

// buildShellEnv exposes the merged script env as process environment
// variables for the "shell" language, the POSIX equivalent of a
// top-level binding (§4.4 item 2): each exposable key becomes KEY=value,
// JSON-encoding any non-string value so the child process still receives
// it as a single argument.
func buildShellEnv(env map[string]interface{}) []string {
	merged, _ := mergedScriptEnv(env)
	names := make([]string, 0, len(merged))
	for k := range merged {
		if isExposable(Shell, k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	exports := make([]string, 0, len(names))
	for _, name := range names {
		v := merged[name]
		var text string
		if s, ok := v.(string); ok {
			text = s
		} else if raw, err := json.Marshal(v); err == nil {
			text = string(raw)
		}
		exports = append(exports, name+"="+text)
	}
	return exports
}

// quoteString renders s as a JSON/JS/Python-compatible double-quoted
// string literal; all three grammars accept the same escaping rules.
func quoteString(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

// rewriteBrowserDeclarations implements §4.4's closing paragraph for
// execute-browser-script: any var|let|const declaration naming an
// already-injected variable is rewritten to a plain assignment so the
// user's script doesn't redeclare a binding the preamble already made.
func rewriteBrowserDeclarations(source string, names []string) string {
	for _, name := range names {
		re := regexp.MustCompile(`\b(?:var|let|const)\s+` + regexp.QuoteMeta(name) + `\b`)
		source = re.ReplaceAllString(source, name)
	}
	return source
}

// PrepareBrowserScript implements §4.4's closing paragraph for
// execute-browser-script: it builds the same JS preamble run-command
// scripts get, then rewrites any var|let|const in code that redeclares
// an injected name into a plain assignment, and returns the combined
// source ready for Bridge.Eval.
func PrepareBrowserScript(code string, env map[string]interface{}) (string, error) {
	preamble, err := buildPreamble(NodeJS, env)
	if err != nil {
		return "", err
	}
	merged, _ := mergedScriptEnv(env)
	names := make([]string, 0, len(merged))
	for k := range merged {
		if isExposable(NodeJS, k) {
			names = append(names, k)
		}
	}
	return preamble + rewriteBrowserDeclarations(code, names), nil
}

// Package workflow implements the Workflow Engine (§4.1): a stateful step
// interpreter over a declarative document of tool calls, jumps, retries,
// and fallbacks.
package workflow

// VariableDefinition describes one entry of a document's variables map
// (§3). Types: string | number | boolean | enum | array | object.
type VariableDefinition struct {
	Type        string                         `yaml:"type" json:"type"`
	Default     interface{}                    `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool                           `yaml:"required,omitempty" json:"required,omitempty"`
	Options     []string                       `yaml:"options,omitempty" json:"options,omitempty"`
	ItemSchema  *VariableDefinition            `yaml:"item_schema,omitempty" json:"item_schema,omitempty"`
	Properties  map[string]VariableDefinition  `yaml:"properties,omitempty" json:"properties,omitempty"`
	ValueSchema *VariableDefinition            `yaml:"value_schema,omitempty" json:"value_schema,omitempty"`
}

// Jump is one entry of a step's ordered jumps list, evaluated on success.
type Jump struct {
	Condition string `yaml:"condition" json:"condition"`
	ToID      string `yaml:"to_id" json:"to_id"`
	Reason    string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Step is one document step: either a tool call or a group of sub-steps.
type Step struct {
	ID              string                 `yaml:"id,omitempty" json:"id,omitempty"`
	ToolName        string                 `yaml:"tool_name,omitempty" json:"tool_name,omitempty"`
	Arguments       map[string]interface{} `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	GroupName       string                 `yaml:"group_name,omitempty" json:"group_name,omitempty"`
	Steps           []Step                 `yaml:"steps,omitempty" json:"steps,omitempty"`
	If              string                 `yaml:"if,omitempty" json:"if,omitempty"`
	Retries         int                    `yaml:"retries,omitempty" json:"retries,omitempty"`
	FallbackID      string                 `yaml:"fallback_id,omitempty" json:"fallback_id,omitempty"`
	Jumps           []Jump                 `yaml:"jumps,omitempty" json:"jumps,omitempty"`
	Delay           string                 `yaml:"delay,omitempty" json:"delay,omitempty"`
	DelayMS         int                    `yaml:"delay_ms,omitempty" json:"delay_ms,omitempty"`
	ContinueOnError bool                   `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
}

// IsGroup reports whether this step is a mini-sequence rather than a tool
// call.
func (s Step) IsGroup() bool { return s.GroupName != "" }

// WindowManagementOptions mirrors §6.7's window-management config object.
type WindowManagementOptions struct {
	Enable              *bool `yaml:"enable,omitempty" json:"enable,omitempty"`
	MinimizeAlwaysOnTop *bool `yaml:"minimize_always_on_top,omitempty" json:"minimize_always_on_top,omitempty"`
	MaximizeTarget      *bool `yaml:"maximize_target,omitempty" json:"maximize_target,omitempty"`
	BringToFront        *bool `yaml:"bring_to_front,omitempty" json:"bring_to_front,omitempty"`
}

// OutputParser is the document's optional post-processing descriptor
// (§4.1.3): a script run over the run summary after completion.
type OutputParser struct {
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Source   string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Document is a full workflow document (§3, §6.4).
type Document struct {
	Variables          map[string]VariableDefinition `yaml:"variables,omitempty" json:"variables,omitempty"`
	Inputs             map[string]interface{}        `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Selectors          map[string]interface{}        `yaml:"selectors,omitempty" json:"selectors,omitempty"`
	Steps              []Step                        `yaml:"steps,omitempty" json:"steps,omitempty"`
	Troubleshooting    []Step                        `yaml:"troubleshooting,omitempty" json:"troubleshooting,omitempty"`
	Output             map[string]interface{}        `yaml:"output,omitempty" json:"output,omitempty"`
	OutputParser       *OutputParser                 `yaml:"output_parser,omitempty" json:"output_parser,omitempty"`
	ScriptsBasePath    string                        `yaml:"scripts_base_path,omitempty" json:"scripts_base_path,omitempty"`
	WorkflowID         string                        `yaml:"workflow_id,omitempty" json:"workflow_id,omitempty"`
	FollowFallback     bool                          `yaml:"follow_fallback,omitempty" json:"follow_fallback,omitempty"`
	ExecuteJumpsAtEnd  bool                          `yaml:"execute_jumps_at_end,omitempty" json:"execute_jumps_at_end,omitempty"`
	StartFromStep      string                        `yaml:"start_from_step,omitempty" json:"start_from_step,omitempty"`
	EndAtStep          string                        `yaml:"end_at_step,omitempty" json:"end_at_step,omitempty"`
	Verbosity          string                        `yaml:"verbosity,omitempty" json:"verbosity,omitempty"`
	IncludeDetailed    bool                          `yaml:"include_detailed_results,omitempty" json:"include_detailed_results,omitempty"`
	SkipPreflightCheck bool                          `yaml:"skip_preflight_check,omitempty" json:"skip_preflight_check,omitempty"`
	StopOnError        bool                          `yaml:"stop_on_error,omitempty" json:"stop_on_error,omitempty"`
	WindowManagement   WindowManagementOptions       `yaml:"window_management,omitempty" json:"window_management,omitempty"`
	TraceID            string                        `yaml:"trace_id,omitempty" json:"trace_id,omitempty"`
	ExecutionID        string                        `yaml:"execution_id,omitempty" json:"execution_id,omitempty"`

	// SourceURL is not part of the document body; the loader stamps it
	// with the url a document was fetched from, so the State Store can
	// fall back to hashing it when workflow_id is absent (§4.6).
	SourceURL string `yaml:"-" json:"-"`
}

// Overrides is the caller-supplied override set merged over a remotely
// loaded document (§4.1.1 step 2).
type Overrides struct {
	Steps           []Step
	Variables       map[string]VariableDefinition
	Selectors       map[string]interface{}
	Inputs          map[string]interface{}
	ScriptsBasePath string
	Output          map[string]interface{}
}

// Range selects a partial-execution window by step id.
type Range struct {
	StartFromStep string
	EndAtStep     string
}

// StepResult is one entry of a run's results array.
type StepResult struct {
	StepID   string      `json:"step_id,omitempty"`
	Index    int         `json:"index"`
	Status   string      `json:"status"` // "success" | "failed" | "skipped"
	Result   interface{} `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
	Duration int64       `json:"duration_ms"`
}

// Summary is the Engine's public return value (§4.1, public contract).
type Summary struct {
	Status       string                 `json:"status"` // "success" | "failed" | "cancelled"
	Results      []StepResult           `json:"results"`
	Env          map[string]interface{} `json:"env"`
	DurationMS   int64                  `json:"duration_ms"`
	UsedFallback bool                   `json:"used_fallback"`
	ParsedOutput interface{}            `json:"parsed_output,omitempty"`
}

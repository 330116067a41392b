package transport

// selectorProperties is shared by every selector-bearing tool: a primary
// selector plus ordered alternative/fallback selectors for the retry+
// fallback search algorithm (§4.2).
var selectorProperties = map[string]interface{}{
	"selector": map[string]interface{}{
		"type":        "object",
		"description": "primary element selector",
	},
	"alternatives": map[string]interface{}{
		"type":        "array",
		"description": "ordered alternative selectors tried if the primary does not resolve",
	},
	"fallbacks": map[string]interface{}{
		"type":        "array",
		"description": "ordered fallback selectors tried after alternatives are exhausted",
	},
}

func withSelector(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{}
	for k, v := range selectorProperties {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func prop(kind, description string) map[string]interface{} {
	return map[string]interface{}{"type": kind, "description": description}
}

// DefaultCatalogue returns the MCP-visible descriptors for every tool the
// catalogue in pkg/tools registers, grouped per §4.2's nine families.
func DefaultCatalogue() []Descriptor {
	return []Descriptor{
		{Name: "enumerate-applications", Description: "list running applications and their windows"},
		{Name: "enumerate-windows", Description: "list all top-level windows"},
		{Name: "get-accessibility-tree", Description: "get the accessibility tree of a process, populating index caches",
			Properties: map[string]interface{}{"process": prop("number", "target process id")}},

		{Name: "click", Description: "click an element", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "double-click", Description: "double-click an element", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "right-click", Description: "right-click an element", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "invoke", Description: "invoke an element's default action", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "type-text", Description: "type text into an element",
			Properties: withSelector(map[string]interface{}{"text": prop("string", "text to type"), "clear": prop("boolean", "clear existing value first")}),
			Required:   []string{"selector", "text"}},
		{Name: "press-key", Description: "press a key on an element or process",
			Properties: withSelector(map[string]interface{}{"key": prop("string", "key name")}), Required: []string{"key"}},
		{Name: "set-value", Description: "set an element's value",
			Properties: withSelector(map[string]interface{}{"value": prop("string", "new value")}), Required: []string{"selector", "value"}},
		{Name: "set-toggled", Description: "set a toggleable element's state",
			Properties: withSelector(map[string]interface{}{"toggled": prop("boolean", "desired toggled state")}), Required: []string{"selector", "toggled"}},
		{Name: "set-selected", Description: "set a selectable element's state",
			Properties: withSelector(map[string]interface{}{"selected": prop("boolean", "desired selected state")}), Required: []string{"selector", "selected"}},
		{Name: "set-range-value", Description: "set a slider/range element's value",
			Properties: withSelector(map[string]interface{}{"value": prop("number", "desired numeric value")}), Required: []string{"selector", "value"}},
		{Name: "select-option", Description: "select an option in a list/combobox element",
			Properties: withSelector(map[string]interface{}{"option": prop("string", "option to select")}), Required: []string{"selector", "option"}},
		{Name: "scroll", Description: "scroll an element by a relative offset",
			Properties: withSelector(map[string]interface{}{"dx": prop("number", "horizontal delta"), "dy": prop("number", "vertical delta")})},
		{Name: "mouse-drag", Description: "drag from one element to another",
			Properties: map[string]interface{}{"from": prop("object", "source selector"), "to": prop("object", "destination selector")},
			Required:   []string{"from", "to"}},
		{Name: "activate-window", Description: "bring a window to the foreground",
			Properties: map[string]interface{}{"window": prop("string", "window handle")}, Required: []string{"window"}},
		{Name: "maximise-window", Description: "maximise a window",
			Properties: map[string]interface{}{"window": prop("string", "window handle")}, Required: []string{"window"}},
		{Name: "minimise-window", Description: "minimise a window",
			Properties: map[string]interface{}{"window": prop("string", "window handle")}, Required: []string{"window"}},
		{Name: "set-zoom", Description: "set a browser element's zoom level",
			Properties: withSelector(map[string]interface{}{"level": prop("number", "zoom level")}), Required: []string{"selector", "level"}},

		{Name: "is-toggled", Description: "query whether an element is toggled", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "is-selected", Description: "query whether an element is selected", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "get-range-value", Description: "read a slider/range element's current value", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "list-options", Description: "list the options of a list/combobox element", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "validate-element", Description: "check whether an element exists, without throwing", Properties: withSelector(nil), Required: []string{"selector"}},

		{Name: "wait-for-element", Description: "wait until an element satisfies a condition",
			Properties: withSelector(map[string]interface{}{
				"condition":  prop("string", "exists | visible | enabled | focused"),
				"timeout_ms": prop("number", "maximum time to wait"),
			}), Required: []string{"selector"}},
		{Name: "delay", Description: "pause for a fixed duration",
			Properties: map[string]interface{}{"duration_ms": prop("number", "milliseconds to pause")}, Required: []string{"duration_ms"}},
		{Name: "capture-element-screenshot", Description: "capture a screenshot of an element", Properties: withSelector(nil), Required: []string{"selector"}},
		{Name: "highlight-element", Description: "highlight an element", Properties: withSelector(nil)},
		{Name: "stop-highlighting", Description: "remove any active highlight overlays"},
		{Name: "hide-inspect-overlay", Description: "hide the inspect overlay"},

		{Name: "open-application", Description: "launch an application",
			Properties: map[string]interface{}{"path": prop("string", "executable path"), "args": prop("array", "command-line arguments")},
			Required:   []string{"path"}},
		{Name: "navigate-browser", Description: "navigate a browser to a URL",
			Properties: map[string]interface{}{"browser": prop("string", "browser identifier"), "url": prop("string", "destination URL")},
			Required:   []string{"url"}},

		{Name: "run-command", Description: "run a shell command or embedded-engine script",
			Properties: map[string]interface{}{
				"language": prop("string", "shell | node-js | node-ts | python"),
				"source":   prop("string", "script source"),
				"cwd":      prop("string", "working directory"),
				"env":      prop("object", "additional environment variables"),
			}, Required: []string{"source"}},
		{Name: "execute-browser-script", Description: "evaluate JavaScript in the browser extension's active tab",
			Properties: map[string]interface{}{"code": prop("string", "JavaScript source"), "timeout_ms": prop("number", "evaluation timeout")},
			Required:   []string{"code"}},

		{Name: "execute-sequence", Description: "run a nested sequence of steps",
			Properties: map[string]interface{}{"steps": prop("array", "ordered nested steps")}, Required: []string{"steps"}},

		{Name: "click-by-index", Description: "click the Nth entry from a prior scan's index cache",
			Properties: map[string]interface{}{
				"source": prop("string", "ui_tree | ocr | dom | omniparser"),
				"index":  prop("number", "zero-based index into the cache"),
			}, Required: []string{"index"}},

		{Name: "stop-execution", Description: "cancel every in-flight request"},
	}
}

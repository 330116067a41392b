package workflow

// deepMergeMaps merges override into base, recursing into nested
// map[string]interface{} values and letting override win leaf conflicts
// (§4.1.1 step 2's "inputs is deep-merged with caller winning leaf
// conflicts").
func deepMergeMaps(base, override map[string]interface{}) map[string]interface{} {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if existing, ok := out[k]; ok {
			if existingMap, ok1 := existing.(map[string]interface{}); ok1 {
				if overrideMap, ok2 := v.(map[string]interface{}); ok2 {
					out[k] = deepMergeMaps(existingMap, overrideMap)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

// applyOverrides merges caller-supplied overrides onto a loaded document,
// per §4.1.1 step 2: caller steps/variables/selectors/inputs/
// scripts_base_path/output take precedence over remote when both present.
func applyOverrides(doc Document, ov Overrides) Document {
	if len(ov.Steps) > 0 {
		doc.Steps = ov.Steps
	}
	if len(ov.Variables) > 0 {
		if doc.Variables == nil {
			doc.Variables = map[string]VariableDefinition{}
		}
		for name, def := range ov.Variables {
			doc.Variables[name] = def
		}
	}
	if len(ov.Selectors) > 0 {
		doc.Selectors = deepMergeMaps(doc.Selectors, ov.Selectors)
	}
	doc.Inputs = deepMergeMaps(doc.Inputs, ov.Inputs)
	if ov.ScriptsBasePath != "" {
		doc.ScriptsBasePath = ov.ScriptsBasePath
	}
	if len(ov.Output) > 0 {
		doc.Output = ov.Output
	}
	return doc
}

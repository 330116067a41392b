package workflow

import (
	"fmt"

	"github.com/mediar-ai/deskflow/pkg/errs"
)

// validateVariables validates every input recursively against its
// VariableDefinition (§4.1.1 step 3): type match, enum membership,
// required-property presence, array/object element schemas. Fails with
// InvalidInput on the first mismatch.
func validateVariables(defs map[string]VariableDefinition, inputs map[string]interface{}) error {
	for name, def := range defs {
		value, present := inputs[name]
		if !present {
			if def.Required {
				return errs.New(errs.InvalidInput, "required variable missing").Context("variable", name).Build()
			}
			continue
		}
		if err := validateValue(name, def, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(path string, def VariableDefinition, value interface{}) error {
	switch def.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return typeMismatch(path, "string", value)
		}
	case "number":
		switch value.(type) {
		case float64, int:
		default:
			return typeMismatch(path, "number", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeMismatch(path, "boolean", value)
		}
	case "enum":
		s, ok := value.(string)
		if !ok {
			return typeMismatch(path, "enum (string)", value)
		}
		for _, opt := range def.Options {
			if opt == s {
				return nil
			}
		}
		return errs.New(errs.InvalidInput, "value is not a member of the enum's options").
			Context("variable", path).Context("value", s).Context("options", def.Options).Build()
	case "array":
		arr, ok := value.([]interface{})
		if !ok {
			return typeMismatch(path, "array", value)
		}
		if def.ItemSchema != nil {
			for i, item := range arr {
				if err := validateValue(fmt.Sprintf("%s[%d]", path, i), *def.ItemSchema, item); err != nil {
					return err
				}
			}
		}
	case "object":
		obj, ok := value.(map[string]interface{})
		if !ok {
			return typeMismatch(path, "object", value)
		}
		for propName, propDef := range def.Properties {
			propValue, present := obj[propName]
			if !present {
				if propDef.Required {
					return errs.New(errs.InvalidInput, "required property missing").
						Context("variable", path+"."+propName).Build()
				}
				continue
			}
			if err := validateValue(path+"."+propName, propDef, propValue); err != nil {
				return err
			}
		}
		if def.ValueSchema != nil {
			for key, propValue := range obj {
				if _, declared := def.Properties[key]; declared {
					continue
				}
				if err := validateValue(path+"."+key, *def.ValueSchema, propValue); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func typeMismatch(path, wantType string, value interface{}) error {
	return errs.New(errs.InvalidInput, "variable does not match declared type").
		Context("variable", path).Context("expected_type", wantType).Context("value", value).Build()
}

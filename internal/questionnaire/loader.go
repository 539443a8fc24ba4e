package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format selects the wire encoding of a definition document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported definition file %q: expected .json, .yaml or .yml", filepath.Base(path))
}

// definitionValidate checks struct tags on decoded documents.
var definitionValidate *validator.Validate

func init() {
	definitionValidate = validator.New()
	_ = definitionValidate.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		return validTypes[ItemType(fl.Field().String())]
	})
	_ = definitionValidate.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
		return validOperators[Operator(fl.Field().String())]
	})
}

// LoadFile reads and validates a definition document from disk.
func LoadFile(path string) (*Questionnaire, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}
	q, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return q, nil
}

// Parse decodes and validates a definition document. The returned tree
// satisfies every precondition the session core relies on: unique linkIds
// and enablement rules that only reference items of the same document.
func Parse(data []byte, format Format) (*Questionnaire, error) {
	var q Questionnaire
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("%w: decoding json: %v", ErrInvalidDefinition, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("%w: decoding yaml: %v", ErrInvalidDefinition, err)
		}
	default:
		return nil, fmt.Errorf("unknown definition format %q", format)
	}

	if err := definitionValidate.Struct(&q); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, describeValidation(err))
	}
	if err := checkStructure(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "itemtype":
			msgs = append(msgs, ValidateType(ItemType(fmt.Sprint(fe.Value()))).Error())
		case "operator":
			msgs = append(msgs, ValidateOperator(Operator(fmt.Sprint(fe.Value()))).Error())
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// checkStructure enforces the cross-item invariants struct tags cannot express.
func checkStructure(q *Questionnaire) error {
	seen := make(map[string]bool)
	var errs []string

	Walk(q.Items, func(it *Item, _ int) bool {
		if seen[it.LinkID] {
			errs = append(errs, fmt.Sprintf("duplicate linkId %q", it.LinkID))
		}
		seen[it.LinkID] = true

		if it.Type == TypeDisplay && len(it.Items) > 0 {
			errs = append(errs, fmt.Sprintf("display item %q cannot have children", it.LinkID))
		}
		if it.Type == TypeChoice && len(it.AnswerOption) == 0 {
			errs = append(errs, fmt.Sprintf("choice item %q has no answerOption", it.LinkID))
		}
		for i, rule := range it.EnableWhen {
			if err := checkRule(rule); err != nil {
				errs = append(errs, fmt.Sprintf("item %q enableWhen[%d]: %v", it.LinkID, i, err))
			}
		}
		return true
	})

	// References are resolved after the walk so rules may point forward.
	Walk(q.Items, func(it *Item, _ int) bool {
		for i, rule := range it.EnableWhen {
			if !seen[rule.Question] {
				errs = append(errs, fmt.Sprintf("item %q enableWhen[%d] references unknown linkId %q", it.LinkID, i, rule.Question))
			}
		}
		return true
	})

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(errs, "; "))
	}
	return nil
}

func checkRule(rule EnableWhen) error {
	switch n := rule.Answer.fieldCount(); {
	case n == 0:
		return errors.New("answer is required")
	case n > 1:
		return errors.New("answer must set exactly one value field")
	}
	if rule.Operator == OpExists && rule.Answer.Kind() != KindBoolean {
		return errors.New("operator exists requires a valueBoolean answer")
	}
	return nil
}

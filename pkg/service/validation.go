package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/hashicorp/go-multierror"
)

var (
	codePattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	branchNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s_-]+$`)
	currencyPattern   = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

const missingField = "Missing data for required field."

// Input types carry their shape rules in two struct tags: `create` is
// checked when a row is created and `update` when one is changed.
// `present` means non-nil and not blank.
var (
	createRules = newValidate("create")
	updateRules = newValidate("update")
)

func newValidate(tagName string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tagName)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	v.RegisterAlias("present", "required,notblank")
	mustRegister(v, "code", matches(codePattern))
	mustRegister(v, "branchname", matches(branchNamePattern))
	mustRegister(v, "currency", isCurrency)
	mustRegister(v, "joinedmax", joinedMax)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// matches accepts the empty string so that blankness is reported by
// present or notblank alone
func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || re.MatchString(s)
	}
}

func isCurrency(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return s == "" || currencyPattern.MatchString(s)
}

// joinedMax limits the length of a value's String form, for lists stored
// as one delimited column
func joinedMax(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	s, ok := fl.Field().Interface().(fmt.Stringer)
	return !ok || len(s.String()) <= limit
}

// FieldError is one field-level validation problem
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// report collects field problems so they are reported together
type report struct {
	errs    *multierror.Error
	missing []string
}

// checkInput runs the create or update rules of in
func checkInput(in interface{}, update bool) *report {
	rules := createRules
	if update {
		rules = updateRules
	}

	r := &report{}
	err := rules.Struct(in)
	if err == nil {
		return r
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		r.add("input", err.Error())
		return r
	}
	for _, fe := range fields {
		message, missing := describe(fe)
		if missing {
			r.missing = append(r.missing, fe.Field())
		}
		r.add(fe.Field(), message)
	}
	return r
}

func describe(fe validator.FieldError) (message string, missing bool) {
	switch fe.Tag() {
	case "required", "present":
		return missingField, true
	case "notblank":
		return "Must not be blank.", false
	case "max", "joinedmax":
		return fmt.Sprintf("Length must be at most %s.", fe.Param()), false
	case "min":
		return fmt.Sprintf("Length must be at least %s.", fe.Param()), false
	case "gte":
		return "Must not be negative.", false
	case "gt":
		return "Must be a positive integer.", false
	case "code":
		return "Code may contain only letters, digits, underscores and hyphens.", false
	case "branchname":
		return "Name may contain only letters, digits, spaces, underscores and hyphens.", false
	case "currency":
		return "Must be a 3-letter currency code.", false
	}
	return "Invalid value.", false
}

func (r *report) add(field, message string) {
	r.errs = multierror.Append(r.errs, &FieldError{Field: field, Message: message})
}

// check records message for field unless ok
func (r *report) check(field string, ok bool, message string) {
	if !ok {
		r.add(field, message)
	}
}

// err returns nil when nothing was recorded. Otherwise the message lists
// the missing fields, or is the generic invalid-data message.
func (r *report) err() error {
	if r.errs.ErrorOrNil() == nil {
		return nil
	}

	message := "Invalid data provided."
	if len(r.missing) > 0 {
		message = "Missing fields: " + strings.Join(r.missing, ", ")
	}

	details := map[string]string{}
	for _, e := range r.errs.Errors {
		var fe *FieldError
		if errors.As(e, &fe) {
			if _, seen := details[fe.Field]; !seen {
				details[fe.Field] = fe.Message
			}
		}
	}

	out := &Error{
		Kind:    ErrValidation,
		Message: message,
		Details: details,
		Err:     r.errs,
	}
	if len(details) == 1 {
		for field := range details {
			out.Field = field
		}
	}
	return out
}

func oneOf(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return "Must be one of: " + strings.Join(sorted, ", ") + "."
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/go-playground/validator/v10"
)

// MobilePattern accepts Australian mobile and landline numbers with an
// optional +61 prefix, bracketed area code and space or dash grouping.
const MobilePattern = `^(?:\+?(61))? ?(?:\((?=.*\)))?(0?[2-57-8])\)? ?(\d\d(?:[- ](?=\d{3})|(?!\d\d[- ]?\d[- ]))\d\d[- ]?\d[- ]?\d{3})$`

const mobileMatchTimeout = 50 * time.Millisecond

var mobileRegexp = func() *regexp2.Regexp {
	re := regexp2.MustCompile(MobilePattern, regexp2.ECMAScript)
	re.MatchTimeout = mobileMatchTimeout
	return re
}()

// MatchMobile reports whether s has the shape of a phone number.
func MatchMobile(s string) bool {
	ok, err := mobileRegexp.MatchString(s)
	return err == nil && ok
}

// messages maps validator tags to display messages.
var messages = map[string]string{
	"required": MsgRequired,
	"email":    MsgInvalidEmail,
	"mobile":   MsgInvalidMobile,
	"service":  MsgInvalidService,
	"max":      MsgTooLong,
}

// fieldTags holds the validate tag of every field, read once from Values.
var fieldTags = func() map[Field]string {
	tags := make(map[Field]string)
	t := reflect.TypeOf(Values{})
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tags[Field(sf.Tag.Get("form"))] = sf.Tag.Get("validate")
	}
	return tags
}()

// RuleSet validates booking values.
type RuleSet struct {
	validate *validator.Validate
	services map[string]struct{}
	titles   []string
}

// NewRuleSet builds the rules for a site offering services. With no services
// any non-empty service is accepted.
func NewRuleSet(services []string) (*RuleSet, error) {
	rs := &RuleSet{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		services: make(map[string]struct{}, len(services)),
		titles:   append([]string(nil), services...),
	}
	for _, s := range services {
		rs.services[s] = struct{}{}
	}

	rs.validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := rs.validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return MatchMobile(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register mobile rule: %w", err)
	}
	if err := rs.validate.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return rs.offers(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register service rule: %w", err)
	}

	return rs, nil
}

// Services returns the service titles the rule set accepts.
func (rs *RuleSet) Services() []string {
	return append([]string(nil), rs.titles...)
}

func (rs *RuleSet) offers(service string) bool {
	if len(rs.services) == 0 {
		return service != ""
	}
	_, ok := rs.services[service]
	return ok
}

// Field validates a single value. It returns nil when the value is valid.
func (rs *RuleSet) Field(f Field, value string) *FieldError {
	tag, ok := fieldTags[f]
	if !ok || tag == "" {
		return nil
	}
	err := rs.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	fe := toFieldError(f, err)
	return &fe
}

// Struct validates every field and returns the flags in display order.
func (rs *RuleSet) Struct(v Values) ValidationErrors {
	err := rs.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "", Rule: "internal", Message: err.Error()}}
	}

	byField := make(map[Field]FieldError, len(verrs))
	for _, e := range verrs {
		f := Field(e.Field())
		if _, seen := byField[f]; !seen {
			byField[f] = FieldError{Field: f, Rule: e.Tag(), Message: message(e.Tag())}
		}
	}

	out := make(ValidationErrors, 0, len(byField))
	for _, f := range Fields {
		if fe, ok := byField[f]; ok {
			out = append(out, fe)
		}
	}
	return out
}

func toFieldError(f Field, err error) FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FieldError{Field: f, Rule: verrs[0].Tag(), Message: message(verrs[0].Tag())}
	}
	return FieldError{Field: f, Rule: "internal", Message: err.Error()}
}

func message(tag string) string {
	if m, ok := messages[tag]; ok {
		return m
	}
	return "Invalid value"
}

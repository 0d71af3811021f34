package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testServices = []string{
	"Wellness and Career Life Coaching",
	"Corporate Team Building",
	"Leadership and Resilience Programs",
}

func newTestRules(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet(testServices)
	require.NoError(t, err)
	return rs
}

func TestMatchMobile(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0412345678", true},
		{"0412 345 678", true},
		{"0412-345-678", true},
		{"+61 412 345 678", true},
		{"+61412345678", true},
		{"61412345678", true},
		{"(02) 9876 5432", true},
		{"02 9876 5432", true},
		{"0298765432", true},
		{"12345", false},
		{"0612345678", false},
		{"04123456789", false},
		{"041234567", false},
		{"abc", false},
		{"", false},
		{"0412345678 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MatchMobile(tt.input); got != tt.want {
				t.Errorf("MatchMobile(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRuleSetField(t *testing.T) {
	rs := newTestRules(t)

	tests := []struct {
		name    string
		field   Field
		value   string
		wantMsg string
	}{
		{"valid mobile", FieldMobile, "0412345678", ""},
		{"short mobile", FieldMobile, "12345", "Invailid mobile number"},
		{"empty mobile", FieldMobile, "", MsgRequired},
		{"valid email", FieldEmail, "jo@example.com", ""},
		{"bad email", FieldEmail, "jo@", MsgInvalidEmail},
		{"first name", FieldFirstName, "Jo", ""},
		{"missing last name", FieldLastName, "", MsgRequired},
		{"offered service", FieldService, "Corporate Team Building", ""},
		{"unknown service", FieldService, "Astrology", MsgInvalidService},
		{"empty message", FieldMessage, "", ""},
		{"unknown field", Field("fax"), "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rs.Field(tt.field, tt.value)
			if tt.wantMsg == "" {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.wantMsg, fe.Message)
		})
	}
}

func TestRuleSetStructOrder(t *testing.T) {
	rs := newTestRules(t)

	errs := rs.Struct(Values{Email: "nope", Mobile: "12345"})
	require.Len(t, errs, 5)

	var got []Field
	for _, e := range errs {
		got = append(got, e.Field)
	}
	assert.Equal(t, []Field{FieldService, FieldFirstName, FieldLastName, FieldEmail, FieldMobile}, got)

	fe, ok := errs.For(FieldMobile)
	require.True(t, ok)
	assert.Equal(t, "mobile", fe.Rule)
	assert.Equal(t, "Invailid mobile number", errs.Messages()["mobile"])
	assert.Contains(t, errs.Error(), "mobile: Invailid mobile number")
}

func TestRuleSetWithoutServices(t *testing.T) {
	rs, err := NewRuleSet(nil)
	require.NoError(t, err)
	assert.Nil(t, rs.Field(FieldService, "Anything"))
	assert.NotNil(t, rs.Field(FieldService, ""))
}

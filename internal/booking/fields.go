package booking

// Field names a booking form field. The string value is the form key used in
// HTML forms, JSON and YAML.
type Field string

const (
	FieldService   Field = "service"
	FieldFirstName Field = "firstname"
	FieldLastName  Field = "lastname"
	FieldEmail     Field = "email"
	FieldMobile    Field = "mobile"
	FieldMessage   Field = "message"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldService,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldMobile,
	FieldMessage,
}

// FieldSpec describes how a field is presented.
type FieldSpec struct {
	Field        Field
	Label        string
	AutoComplete string
	Required     bool
	// Select fields offer a fixed set of choices instead of free text.
	Select bool
	// Rows is the height of a multiline field; zero means single line.
	Rows int
}

// Multiline reports whether the field is a text area.
func (s FieldSpec) Multiline() bool { return s.Rows > 0 }

var specs = map[Field]FieldSpec{
	FieldService:   {Field: FieldService, Label: "Select a service", Required: true, Select: true},
	FieldFirstName: {Field: FieldFirstName, Label: "First name", AutoComplete: "given-name", Required: true},
	FieldLastName:  {Field: FieldLastName, Label: "Last name", AutoComplete: "family-name", Required: true},
	FieldEmail:     {Field: FieldEmail, Label: "Email", AutoComplete: "email", Required: true},
	FieldMobile:    {Field: FieldMobile, Label: "Mobile", AutoComplete: "tel", Required: true},
	FieldMessage:   {Field: FieldMessage, Label: "Message (optional)", AutoComplete: "off", Rows: 6},
}

// Spec returns the presentation of f.
func Spec(f Field) (FieldSpec, bool) {
	s, ok := specs[f]
	return s, ok
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	_, ok := specs[f]
	return ok
}

// Values holds one string per field. The zero value is an empty form.
type Values struct {
	Service   string `form:"service" json:"service" yaml:"service" validate:"required,service"`
	FirstName string `form:"firstname" json:"firstname" yaml:"firstname" validate:"required"`
	LastName  string `form:"lastname" json:"lastname" yaml:"lastname" validate:"required"`
	Email     string `form:"email" json:"email" yaml:"email" validate:"required,email"`
	Mobile    string `form:"mobile" json:"mobile" yaml:"mobile" validate:"required,mobile"`
	Message   string `form:"message" json:"message" yaml:"message" validate:"max=4000"`
}

func (v *Values) ref(f Field) *string {
	switch f {
	case FieldService:
		return &v.Service
	case FieldFirstName:
		return &v.FirstName
	case FieldLastName:
		return &v.LastName
	case FieldEmail:
		return &v.Email
	case FieldMobile:
		return &v.Mobile
	case FieldMessage:
		return &v.Message
	default:
		return nil
	}
}

// Get returns the value of f, or "" for an unknown field.
func (v Values) Get(f Field) string {
	if p := v.ref(f); p != nil {
		return *p
	}
	return ""
}

// Empty reports whether every field is "".
func (v Values) Empty() bool {
	return v == Values{}
}

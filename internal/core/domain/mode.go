package domain

// AuthMode represents which face of the authentication workflow is active.
type AuthMode string

const (
	ModeLogin    AuthMode = "login"
	ModeRegister AuthMode = "register"
	ModeForgot   AuthMode = "forgot"
)

// validTransitions defines the allowed workflow transitions. Login and
// register link both ways; forgot is reachable only from login and always
// returns there.
var validTransitions = map[AuthMode][]AuthMode{
	ModeLogin:    {ModeRegister, ModeForgot},
	ModeRegister: {ModeLogin},
	ModeForgot:   {ModeLogin},
}

// CanTransitionTo reports whether switching from the current mode to next is valid.
func (m AuthMode) CanTransitionTo(next AuthMode) bool {
	for _, allowed := range validTransitions[m] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether m is one of the three known modes.
func (m AuthMode) Valid() bool {
	switch m {
	case ModeLogin, ModeRegister, ModeForgot:
		return true
	}
	return false
}

// Field identifies an input field of the authentication form.
type Field string

const (
	FieldIdentifier      Field = "identifier"
	FieldDisplayName     Field = "display_name"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
)

// modeFields lists the fields visible in each mode.
var modeFields = map[AuthMode][]Field{
	ModeLogin:    {FieldIdentifier, FieldPassword},
	ModeRegister: {FieldIdentifier, FieldDisplayName, FieldPassword, FieldConfirmPassword},
	ModeForgot:   {FieldIdentifier},
}

// Fields returns the fields visible in mode m.
func (m AuthMode) Fields() []Field {
	return modeFields[m]
}

// HasField reports whether field f is visible in mode m.
func (m AuthMode) HasField(f Field) bool {
	for _, visible := range modeFields[m] {
		if visible == f {
			return true
		}
	}
	return false
}

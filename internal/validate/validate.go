// Package validate implements the client-side input rules. Every failure
// is reported locally, before any request is sent, and failures are
// aggregated so all failing fields can be shown at once.
package validate

import (
	"strings"
	"unicode/utf8"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
)

const (
	// MinUsernameLength applies to the trimmed username.
	MinUsernameLength = 8

	// MinPasswordLength applies to signup passwords.
	MinPasswordLength = 8

	// MinDescriptionLength applies to the trimmed task description.
	MinDescriptionLength = 10
)

// NormalizeUsername trims and lower-cases a username.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// Username checks the username length rule used by signup and signin.
func Username(u string) *errors.FieldError {
	if utf8.RuneCountInString(strings.TrimSpace(u)) < MinUsernameLength {
		return &errors.FieldError{Field: "username", Message: "Username must be at least 8 characters"}
	}
	return nil
}

// PasswordChecks holds the result of each signup password requirement.
type PasswordChecks struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// CheckPassword evaluates every password requirement independently.
// Letter and digit classes are ASCII only; any other rune, accented
// letters included, counts as special.
func CheckPassword(p string) PasswordChecks {
	c := PasswordChecks{Length: utf8.RuneCountInString(p) >= MinPasswordLength}
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		default:
			c.Special = true
		}
	}
	return c
}

// Valid reports whether all five requirements hold.
func (c PasswordChecks) Valid() bool {
	return c.Length && c.Uppercase && c.Lowercase && c.Number && c.Special
}

// Failures returns one FieldError per unmet requirement.
func (c PasswordChecks) Failures() []errors.FieldError {
	var out []errors.FieldError
	add := func(ok bool, msg string) {
		if !ok {
			out = append(out, errors.FieldError{Field: "password", Message: msg})
		}
	}
	add(c.Length, "Password must be at least 8 characters")
	add(c.Uppercase, "Password must contain an uppercase letter")
	add(c.Lowercase, "Password must contain a lowercase letter")
	add(c.Number, "Password must contain a number")
	add(c.Special, "Password must contain a special character")
	return out
}

// SignUp validates signup credentials and returns them normalized.
func SignUp(creds service.Credentials) (service.Credentials, error) {
	var fields []errors.FieldError
	if fe := Username(creds.Username); fe != nil {
		fields = append(fields, *fe)
	}
	fields = append(fields, CheckPassword(creds.Password).Failures()...)
	if err := errors.Validation(fields...); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{
		Username: NormalizeUsername(creds.Username),
		Password: creds.Password,
	}, nil
}

// SignIn requires both fields and applies the username length rule; the
// password shape is not checked.
func SignIn(creds service.Credentials) (service.Credentials, error) {
	var fields []errors.FieldError
	if strings.TrimSpace(creds.Username) == "" {
		fields = append(fields, errors.FieldError{Field: "username", Message: "Username is required"})
	} else if fe := Username(creds.Username); fe != nil {
		fields = append(fields, *fe)
	}
	if creds.Password == "" {
		fields = append(fields, errors.FieldError{Field: "password", Message: "Password is required"})
	}
	if err := errors.Validation(fields...); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{
		Username: NormalizeUsername(creds.Username),
		Password: creds.Password,
	}, nil
}

// NewTask validates a task and returns it with title and description trimmed.
func NewTask(in service.NewTask) (service.NewTask, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)

	var fields []errors.FieldError
	if title == "" {
		fields = append(fields, errors.FieldError{Field: "title", Message: "Title is required"})
	}
	if utf8.RuneCountInString(desc) < MinDescriptionLength {
		fields = append(fields, errors.FieldError{Field: "description", Message: "Description must be at least 10 characters"})
	}
	if err := errors.Validation(fields...); err != nil {
		return service.NewTask{}, err
	}
	return service.NewTask{Title: title, Description: desc}, nil
}

// Status checks that s is a known task status.
func Status(s service.Status) error {
	if !s.Valid() {
		return errors.Validation(errors.FieldError{
			Field:   "status",
			Message: "Invalid status: " + string(s) + " (expected OPEN, IN_PROGRESS or DONE)",
		})
	}
	return nil
}

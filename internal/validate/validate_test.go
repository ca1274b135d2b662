package validate

import (
	"testing"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"ab", false},
		{"validuser", true},
		{"  short  ", false},
		{"exactly8", true},
		{"   exactly8   ", true},
	}
	for _, tt := range tests {
		got := Username(tt.in) == nil
		if got != tt.ok {
			t.Errorf("Username(%q) valid=%v, want %v", tt.in, got, tt.ok)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername("  ValidUser "); got != "validuser" {
		t.Errorf("expected validuser, got %q", got)
	}
}

func TestCheckPassword(t *testing.T) {
	c := CheckPassword("alllowercase1!")
	if c.Valid() {
		t.Error("password without uppercase must fail")
	}
	if c.Uppercase {
		t.Error("expected Uppercase check to fail")
	}
	if !c.Length || !c.Lowercase || !c.Number || !c.Special {
		t.Errorf("expected other checks to pass: %+v", c)
	}

	if !CheckPassword("Valid1Pass!").Valid() {
		t.Errorf("expected Valid1Pass! to pass all checks: %+v", CheckPassword("Valid1Pass!"))
	}
}

func TestCheckPassword_EachRequirement(t *testing.T) {
	tests := []struct {
		name string
		pwd  string
		want PasswordChecks
	}{
		{"too short", "Aa1!", PasswordChecks{Uppercase: true, Lowercase: true, Number: true, Special: true}},
		{"no lowercase", "ALLUPPER1!", PasswordChecks{Length: true, Uppercase: true, Number: true, Special: true}},
		{"no digit", "NoDigits!!", PasswordChecks{Length: true, Uppercase: true, Lowercase: true, Special: true}},
		{"no special", "NoSpecial12", PasswordChecks{Length: true, Uppercase: true, Lowercase: true, Number: true}},
		{"accented uppercase is not uppercase", "Äbcdefg1!", PasswordChecks{Length: true, Lowercase: true, Number: true, Special: true}},
		{"non-ascii digit is not a number", "Abcdefgh١!", PasswordChecks{Length: true, Uppercase: true, Lowercase: true, Special: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPassword(tt.pwd)
			if got != tt.want {
				t.Errorf("CheckPassword(%q) = %+v, want %+v", tt.pwd, got, tt.want)
			}
			if got.Valid() {
				t.Error("expected invalid")
			}
		})
	}
}

func TestCheckPassword_NonASCIICountsAsSpecial(t *testing.T) {
	for _, pwd := range []string{"abcdefG1é", "Passwört1", "Secret12€"} {
		c := CheckPassword(pwd)
		if !c.Special {
			t.Errorf("CheckPassword(%q): expected non-ASCII rune to count as special", pwd)
		}
		if !c.Valid() {
			t.Errorf("CheckPassword(%q) = %+v, want valid", pwd, c)
		}
	}
}

func TestSignUp_AggregatesAllFailures(t *testing.T) {
	_, err := SignUp(service.Credentials{Username: "ab", Password: "short"})
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Kind != errors.KindValidation {
		t.Errorf("expected validation kind, got %v", e.Kind)
	}
	// username + length + uppercase + number + special
	if len(e.Fields) != 5 {
		t.Errorf("expected 5 failing checks, got %d: %+v", len(e.Fields), e.Fields)
	}
	if e.Fields[0].Field != "username" {
		t.Errorf("expected username first, got %q", e.Fields[0].Field)
	}
}

func TestSignUp_Normalizes(t *testing.T) {
	creds, err := SignUp(service.Credentials{Username: "  ValidUser ", Password: "Valid1Pass!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "validuser" {
		t.Errorf("expected normalized username, got %q", creds.Username)
	}
	if creds.Password != "Valid1Pass!" {
		t.Errorf("password must be sent unchanged, got %q", creds.Password)
	}
}

func TestSignIn_NoPasswordShapeCheck(t *testing.T) {
	creds, err := SignIn(service.Credentials{Username: "Someone_Else ", Password: "x"})
	if err != nil {
		t.Fatalf("signin must not check password shape: %v", err)
	}
	if creds.Username != "someone_else" {
		t.Errorf("expected normalized username, got %q", creds.Username)
	}

	if _, err := SignIn(service.Credentials{}); errors.KindOf(err) != errors.KindValidation {
		t.Errorf("expected validation error for empty credentials, got %v", err)
	}
}

func TestSignIn_UsernameLength(t *testing.T) {
	_, err := SignIn(service.Credentials{Username: "  alice ", Password: "Secret#123"})
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(e.Fields) != 1 || e.Fields[0].Message != "Username must be at least 8 characters" {
		t.Errorf("unexpected fields: %+v", e.Fields)
	}

	_, err = SignIn(service.Credentials{Password: "x"})
	if !errors.As(err, &e) || len(e.Fields) != 1 || e.Fields[0].Message != "Username is required" {
		t.Errorf("empty username should only report required, got %v", err)
	}
}

func TestNewTask(t *testing.T) {
	in, err := NewTask(service.NewTask{Title: " Buy milk ", Description: " Get 2% milk from store "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Title != "Buy milk" || in.Description != "Get 2% milk from store" {
		t.Errorf("expected trimmed input, got %+v", in)
	}

	_, err = NewTask(service.NewTask{Title: "Buy milk", Description: "short"})
	if errors.KindOf(err) != errors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = NewTask(service.NewTask{Title: "   ", Description: "   123456789   "})
	var e *errors.Error
	if !errors.As(err, &e) || len(e.Fields) != 2 {
		t.Fatalf("expected both fields to fail, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	for _, s := range service.Statuses {
		if err := Status(s); err != nil {
			t.Errorf("Status(%q) unexpected error: %v", s, err)
		}
	}
	if err := Status("ARCHIVED"); errors.KindOf(err) != errors.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// First returns one message for surfaces that show a single line.
func (v ValidationErrors) First() string {
	for _, msg := range v {
		return msg
	}
	return ""
}

var (
	startsWithLetterRegex = regexp.MustCompile(`^[a-zA-Z]`)
	usernameCharsRegex    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	trailingDigitsRegex   = regexp.MustCompile(`[0-9]{5,}$`)
	letterRegex           = regexp.MustCompile(`[a-zA-Z]`)
)

// UsernameMessage returns the reason the username is invalid, or "" when it
// passes. Rules, in order: length 3-30, starts with a letter, letters/digits/
// underscore only, at most 4 trailing digits, and at least 2 letters total
// once longer than 5 characters.
func UsernameMessage(username string) string {
	switch {
	case len(username) < 3:
		return "Username must be at least 3 characters"
	case len(username) > 30:
		return "Username must be less than 30 characters"
	case !startsWithLetterRegex.MatchString(username):
		return "Username must start with a letter"
	case !usernameCharsRegex.MatchString(username):
		return "Username can only contain letters, numbers, and underscores"
	case trailingDigitsRegex.MatchString(username):
		return "Username cannot end with more than 4 consecutive digits"
	}

	if len(username) > 5 && len(letterRegex.FindAllString(username, -1)) < 2 {
		return "Username must contain at least 2 letters"
	}

	return ""
}

// ValidateProfileEdit checks a profile edit form. An empty username means
// "no rename" and skips the username rules.
func ValidateProfileEdit(username string) ValidationErrors {
	errs := make(ValidationErrors)

	if username != "" {
		if msg := UsernameMessage(username); msg != "" {
			errs.Add("username", msg)
		}
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateRegister(username, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if msg := UsernameMessage(username); msg != "" {
		errs.Add("username", msg)
	}

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

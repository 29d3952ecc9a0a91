package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
)

const (
	MAX_LENGTH_NAME     = 100
	MAX_LENGTH_EMAIL    = 150
	MIN_PASSWORD_LENGTH = 8
	MAX_PASSWORD_LENGTH = 72 // bcrypt input limit
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	PasswordHashed string
}

type NewUser struct {
	FirstName     string
	LastName      string
	Email         string
	PasswordPlain string
}

type Credentials struct {
	Email         string
	PasswordPlain string
}

func (newUser NewUser) ValidateUserFields() error {
	if newUser.FirstName == "" || newUser.LastName == "" || newUser.Email == "" || newUser.PasswordPlain == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Please provide all required fields",
		}
	}
	if !emailRegex.MatchString(newUser.Email) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid email format",
		}
	}
	if len(newUser.Email) > MAX_LENGTH_EMAIL {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Email so long, maximum length is %d", MAX_LENGTH_EMAIL),
		}
	}
	if len(newUser.FirstName) > MAX_LENGTH_NAME || len(newUser.LastName) > MAX_LENGTH_NAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Name so long, maximum length is %d", MAX_LENGTH_NAME),
		}
	}
	if len(newUser.PasswordPlain) < MIN_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Password must be at least 8 characters",
		}
	}
	if len(newUser.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so long, maximum length is %d", MAX_PASSWORD_LENGTH),
		}
	}
	return nil
}

func (c Credentials) Validate() error {
	if c.Email == "" || c.PasswordPlain == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Please provide email and password",
		}
	}
	return nil
}

type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

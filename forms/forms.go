// Package forms holds the client-side input checks that run before anything
// is sent to the network. Validation failures surface per-field messages and
// never become HTTP requests.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Providers the gateway can route to, with the secret prefix each provider
// issues.
var providerKeyPrefixes = map[string]string{
	"openai":    "sk-",
	"anthropic": "sk-ant-",
	"google":    "AIza",
	"mistral":   "",
}

// ProviderNames returns the supported provider identifiers for help text.
func ProviderNames() []string {
	return []string{"anthropic", "google", "mistral", "openai"}
}

// SignUpForm checks new-account input.
type SignUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Validate returns a human-readable message per failing field, or nil.
func (f SignUpForm) Validate() error {
	return checkStruct(f)
}

// APIKeyForm checks a provider-connection creation.
type APIKeyForm struct {
	Name     string `validate:"required,max=64"`
	Provider string `validate:"required,oneof=openai anthropic google mistral"`
	Secret   string `validate:"required"`
}

// Validate checks struct tags plus the provider-specific secret prefix.
func (f APIKeyForm) Validate() error {
	if err := checkStruct(f); err != nil {
		return err
	}
	prefix := providerKeyPrefixes[f.Provider]
	if prefix != "" && !strings.HasPrefix(f.Secret, prefix) {
		return fmt.Errorf("secret does not look like a %s key (expected %q prefix)", f.Provider, prefix)
	}
	return nil
}

// AccessTokenForm checks a personal-access-token creation.
type AccessTokenForm struct {
	Name string `validate:"required,max=64"`
}

func (f AccessTokenForm) Validate() error {
	return checkStruct(f)
}

func checkStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

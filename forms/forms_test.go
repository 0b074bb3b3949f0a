package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignUpForm(t *testing.T) {
	cases := map[string]struct {
		form    SignUpForm
		wantErr string
	}{
		"Valid": {
			form: SignUpForm{Email: "a@b.co", Password: "longenough"},
		},
		"BadEmail": {
			form:    SignUpForm{Email: "nope", Password: "longenough"},
			wantErr: "email must be a valid email",
		},
		"ShortPassword": {
			form:    SignUpForm{Email: "a@b.co", Password: "short"},
			wantErr: "password must be at least 8 characters",
		},
		"Empty": {
			form:    SignUpForm{},
			wantErr: "email is required; password is required",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := c.form.Validate()
			if c.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, c.wantErr)
			}
		})
	}
}

func TestAPIKeyForm(t *testing.T) {
	cases := map[string]struct {
		form      APIKeyForm
		expectErr bool
	}{
		"ValidOpenAI": {
			form: APIKeyForm{Name: "prod", Provider: "openai", Secret: "sk-abc123"},
		},
		"ValidAnthropic": {
			form: APIKeyForm{Name: "prod", Provider: "anthropic", Secret: "sk-ant-abc123"},
		},
		"WrongPrefix": {
			form:      APIKeyForm{Name: "prod", Provider: "anthropic", Secret: "sk-abc123"},
			expectErr: true,
		},
		"UnknownProvider": {
			form:      APIKeyForm{Name: "prod", Provider: "acme-llm", Secret: "xyz"},
			expectErr: true,
		},
		"MissingName": {
			form:      APIKeyForm{Provider: "openai", Secret: "sk-abc"},
			expectErr: true,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := c.form.Validate()
			if c.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccessTokenForm(t *testing.T) {
	assert.NoError(t, AccessTokenForm{Name: "ci"}.Validate())
	assert.Error(t, AccessTokenForm{}.Validate())
}

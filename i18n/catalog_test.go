package i18n

import (
	"testing"

	"golang.org/x/text/language"

	apperrors "github.com/kbukum/signup/errors"
)

func TestSpanishMessagesAreExact(t *testing.T) {
	l := Spanish()
	tests := []struct {
		code apperrors.ErrorCode
		want string
	}{
		{apperrors.ErrCodeEmailEmpty, "El email no puede estar vacío."},
		{apperrors.ErrCodeEmailInvalid, "Esta no es una dirección de correo electrónico válida."},
		{apperrors.ErrCodePasswordEmpty, "El password no puede estar vacío."},
		{apperrors.ErrCodePasswordMismatch, "Los passwords no coinciden."},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			if got := l.Text(string(tc.code)); got != tc.want {
				t.Errorf("Text(%s) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}

func TestSuccessText(t *testing.T) {
	want := "Registro Exitoso!, revisa tu correo para activar tu cuenta."
	if got := Spanish().Text(KeyRegistrationSucceeded); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnglishLocalizer(t *testing.T) {
	l := Default().Localizer(language.English)
	if got := l.Text(string(apperrors.ErrCodePasswordMismatch)); got != "Passwords do not match." {
		t.Errorf("unexpected english message %q", got)
	}
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	if got := Spanish().Text("NO_SUCH_KEY"); got != "NO_SUCH_KEY" {
		t.Errorf("expected key echo, got %q", got)
	}
}

func TestMatch(t *testing.T) {
	c := Default()
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.Spanish},
		{"en-US,en;q=0.9", language.English},
		{"es-MX,es;q=0.8", language.Spanish},
		{"ja", language.Spanish},
		{";;;", language.Spanish},
	}
	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			if got := c.Match(tc.header); got != tc.want {
				t.Errorf("Match(%q) = %v, want %v", tc.header, got, tc.want)
			}
		})
	}
}

func TestEveryLocaleHasEveryKey(t *testing.T) {
	base := messages[BaseLanguage]
	for tag, table := range messages {
		for key := range base {
			if _, ok := table[key]; !ok {
				t.Errorf("locale %s is missing %s", tag, key)
			}
		}
	}
}

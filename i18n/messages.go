package i18n

import (
	"golang.org/x/text/language"

	apperrors "github.com/kbukum/signup/errors"
)

// Message keys that are not error codes.
const (
	KeyRegistrationSucceeded = "REGISTRATION_SUCCEEDED"
	KeyRegisterTitle         = "REGISTER_TITLE"
	KeyRegisterButton        = "REGISTER_BUTTON"
	KeyLoginLink             = "LOGIN_LINK"
	KeyLoginTitle            = "LOGIN_TITLE"
)

var messages = map[language.Tag]map[string]string{
	language.Spanish: {
		string(apperrors.ErrCodeEmailEmpty):       "El email no puede estar vacío.",
		string(apperrors.ErrCodeEmailInvalid):     "Esta no es una dirección de correo electrónico válida.",
		string(apperrors.ErrCodePasswordEmpty):    "El password no puede estar vacío.",
		string(apperrors.ErrCodePasswordMismatch): "Los passwords no coinciden.",
		string(apperrors.ErrCodeSignupRejected):   "No se pudo completar el registro. Inténtalo de nuevo más tarde.",
		string(apperrors.ErrCodeEmailTaken):       "Ya existe una cuenta con este email.",
		string(apperrors.ErrCodeWeakPassword):     "El password es demasiado débil.",
		string(apperrors.ErrCodeRateLimited):      "Demasiados intentos. Espera un momento e inténtalo de nuevo.",
		KeyRegistrationSucceeded:                  "Registro Exitoso!, revisa tu correo para activar tu cuenta.",
		KeyRegisterTitle:                          "Registro",
		KeyRegisterButton:                         "Register",
		KeyLoginLink:                              "Login",
		KeyLoginTitle:                             "Iniciar sesión",
	},
	language.English: {
		string(apperrors.ErrCodeEmailEmpty):       "Email cannot be empty.",
		string(apperrors.ErrCodeEmailInvalid):     "This is not a valid email address.",
		string(apperrors.ErrCodePasswordEmpty):    "Password cannot be empty.",
		string(apperrors.ErrCodePasswordMismatch): "Passwords do not match.",
		string(apperrors.ErrCodeSignupRejected):   "Registration could not be completed. Please try again later.",
		string(apperrors.ErrCodeEmailTaken):       "An account with this email already exists.",
		string(apperrors.ErrCodeWeakPassword):     "The password is too weak.",
		string(apperrors.ErrCodeRateLimited):      "Too many attempts. Wait a moment and try again.",
		KeyRegistrationSucceeded:                  "Registration successful! Check your email to activate your account.",
		KeyRegisterTitle:                          "Sign up",
		KeyRegisterButton:                         "Register",
		KeyLoginLink:                              "Login",
		KeyLoginTitle:                             "Log in",
	},
}

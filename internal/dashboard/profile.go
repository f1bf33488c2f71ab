package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultProfileSaveDelay mirrors the round-trip the form pretends to make.
const DefaultProfileSaveDelay = time.Second

// ErrProfileSaving is returned when a save is already running for the instance.
var ErrProfileSaving = errors.New("profile save already in progress")

// Profile is the editable personal information form.
type Profile struct {
	FirstName string `json:"first_name" form:"firstName" validate:"required,max=80"`
	LastName  string `json:"last_name" form:"lastName" validate:"required,max=80"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	Address   string `json:"address" form:"address" validate:"omitempty,max=200"`
	Bio       string `json:"bio" form:"bio" validate:"omitempty,max=1000"`
	Role      string `json:"role" validate:"-"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Initials returns up to two uppercase initials for the avatar.
func (p Profile) Initials() string {
	var b strings.Builder
	for _, part := range []string{p.FirstName, p.LastName} {
		for _, r := range part {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

// DefaultProfile is the demo user every page instance starts with.
func DefaultProfile() Profile {
	return Profile{
		FirstName: "João",
		LastName:  "Silva",
		Email:     "joao.silva@email.com",
		Phone:     "(11) 98765-4321",
		Address:   "São Paulo, SP",
		Bio:       "Desenvolvedor e entusiasta de tecnologia.",
		Role:      "Administrador",
	}
}

// Toast is the transient confirmation shown after a save.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ValidationErrors maps form field names to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProfile trims p in place and reports field errors keyed by form name.
func ValidateProfile(p *Profile) ValidationErrors {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	p.Bio = strings.TrimSpace(p.Bio)

	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{"form": err.Error()}
	}

	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[formName(fe.StructField())] = fieldMessage(fe)
	}
	return out
}

func formName(structField string) string {
	switch structField {
	case "FirstName":
		return "firstName"
	case "LastName":
		return "lastName"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Email inválido."
	case "max":
		return "Máximo de " + fe.Param() + " caracteres."
	default:
		return "Valor inválido."
	}
}

// ProfileForm is the profile state of one page instance.
type ProfileForm struct {
	delay time.Duration

	mu      sync.Mutex
	current Profile
	saving  bool
}

// NewProfileForm starts from DefaultProfile. A negative delay uses the default.
func NewProfileForm(delay time.Duration) *ProfileForm {
	if delay < 0 {
		delay = DefaultProfileSaveDelay
	}
	return &ProfileForm{delay: delay, current: DefaultProfile()}
}

// Current returns the saved profile.
func (f *ProfileForm) Current() Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Saving reports whether a save is in flight (the form is disabled).
func (f *ProfileForm) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// Save validates p, waits the configured delay and stores it. The role is
// not editable and is kept from the current profile.
func (f *ProfileForm) Save(ctx context.Context, p Profile) (Toast, error) {
	if errs := ValidateProfile(&p); errs != nil {
		return Toast{}, errs
	}

	f.mu.Lock()
	if f.saving {
		f.mu.Unlock()
		return Toast{}, ErrProfileSaving
	}
	f.saving = true
	p.Role = f.current.Role
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.saving = false
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Toast{}, ctx.Err()
		case <-timer.C:
		}
	}

	f.mu.Lock()
	f.current = p
	f.mu.Unlock()

	return Toast{
		Title:       "Perfil atualizado!",
		Description: "Suas informações foram salvas com sucesso.",
	}, nil
}

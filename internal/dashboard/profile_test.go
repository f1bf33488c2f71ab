package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   ValidationErrors
	}{
		{"default is valid", func(*Profile) {}, nil},
		{"empty optional fields", func(p *Profile) { p.Phone, p.Address, p.Bio = "", "", "" }, nil},
		{"blank first name", func(p *Profile) { p.FirstName = "   " }, ValidationErrors{"firstName": "Campo obrigatório."}},
		{"missing email", func(p *Profile) { p.Email = "" }, ValidationErrors{"email": "Campo obrigatório."}},
		{"bad email", func(p *Profile) { p.Email = "joao" }, ValidationErrors{"email": "Email inválido."}},
		{"long phone", func(p *Profile) { p.Phone = string(make([]byte, 40)) + "1" }, ValidationErrors{"phone": "Máximo de 32 caracteres."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			got := ValidateProfile(&p)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateProfile_Trims(t *testing.T) {
	p := DefaultProfile()
	p.FirstName = "  Maria "
	require.Nil(t, ValidateProfile(&p))
	assert.Equal(t, "Maria", p.FirstName)
}

func TestProfile_Names(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "João Silva", p.FullName())
	assert.Equal(t, "JS", p.Initials())
	assert.Equal(t, "", Profile{}.Initials())
}

func TestProfileForm_Save(t *testing.T) {
	f := NewProfileForm(0)
	p := DefaultProfile()
	p.FirstName = "Maria"
	p.Role = "Convidado"

	toast, err := f.Save(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Perfil atualizado!", toast.Title)
	assert.Equal(t, "Suas informações foram salvas com sucesso.", toast.Description)

	saved := f.Current()
	assert.Equal(t, "Maria", saved.FirstName)
	assert.Equal(t, "Administrador", saved.Role)
	assert.False(t, f.Saving())
}

func TestProfileForm_SaveInvalidKeepsCurrent(t *testing.T) {
	f := NewProfileForm(0)
	p := DefaultProfile()
	p.Email = "not-an-email"

	_, err := f.Save(context.Background(), p)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "email")
	assert.Equal(t, DefaultProfile(), f.Current())
}

func TestProfileForm_SaveWaitsDelay(t *testing.T) {
	f := NewProfileForm(40 * time.Millisecond)

	start := time.Now()
	_, err := f.Save(context.Background(), DefaultProfile())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestProfileForm_ConcurrentSaveRejected(t *testing.T) {
	f := NewProfileForm(100 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.Save(context.Background(), DefaultProfile())
	}()

	require.Eventually(t, f.Saving, time.Second, 5*time.Millisecond)
	_, err := f.Save(context.Background(), DefaultProfile())
	assert.ErrorIs(t, err, ErrProfileSaving)

	wg.Wait()
	assert.False(t, f.Saving())
}

func TestProfileForm_SaveCanceled(t *testing.T) {
	f := NewProfileForm(time.Second)
	p := DefaultProfile()
	p.FirstName = "Maria"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Save(ctx, p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "João", f.Current().FirstName)
	assert.False(t, f.Saving())
}

func TestNewProfileForm_NegativeDelay(t *testing.T) {
	assert.Equal(t, DefaultProfileSaveDelay, NewProfileForm(-1).delay)
}

package mailer

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutHostOrFrom(t *testing.T) {
    m, err := New("", 587, "", "", "noreply@ritmofit.com")
    require.NoError(t, err)
    assert.Nil(t, m)

    m, err = New("smtp.example.com", 587, "", "", "")
    require.NoError(t, err)
    assert.Nil(t, m)
}

func TestSend_NilMailerIsNoop(t *testing.T) {
    var m *Mailer
    assert.NoError(t, m.Send(context.Background(), "ana@example.com", "subject", "body"))
}

func TestOTPBody_RendersConfiguredTTL(t *testing.T) {
    subject, body := OTPBody("204853", 10)
    assert.Equal(t, "Your RitmoFit access code", subject)
    assert.Contains(t, body, "204853")
    assert.Contains(t, body, "expires in 10 minutes")
}

func TestOTPBody_FallsBackOnBadTTL(t *testing.T) {
    _, body := OTPBody("204853", 0)
    assert.Contains(t, body, "expires in 5 minutes")
}

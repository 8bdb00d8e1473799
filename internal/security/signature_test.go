package security_test

import (
	"testing"

	"github.com/Rrens/reply-assistant/internal/security"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"destination":"U0","events":[]}`)
	secret := "channel-secret"
	sig := security.Sign(secret, body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
		want      bool
	}{
		{"valid", secret, body, sig, true},
		{"tampered body", secret, []byte(`{"destination":"U1","events":[]}`), sig, false},
		{"wrong secret", "other", body, sig, false},
		{"missing signature", secret, body, "", false},
		{"not base64", secret, body, "%%%", false},
		{"empty secret", "", body, sig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, security.VerifySignature(tt.secret, tt.body, tt.signature))
		})
	}
}

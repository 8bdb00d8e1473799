package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/Rrens/reply-assistant/internal/api/response"
	"github.com/Rrens/reply-assistant/internal/security"
	"github.com/rs/zerolog/log"
)

// SignatureHeader carries the HMAC of the webhook body
const SignatureHeader = "X-Line-Signature"

// maxWebhookBody bounds the webhook payload read into memory
const maxWebhookBody = 1 << 20

// VerifySignature rejects webhook deliveries whose body was not signed with
// the channel secret. The body is restored for the next handler.
func VerifySignature(channelSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				response.BadRequest(w, "failed to read request body")
				return
			}
			r.Body.Close()

			if !security.VerifySignature(channelSecret, body, r.Header.Get(SignatureHeader)) {
				log.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook signature mismatch")
				response.Unauthorized(w, "invalid signature")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

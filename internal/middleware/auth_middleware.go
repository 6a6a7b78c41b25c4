package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"jobboard/internal/entity"
)

type contextKey string

const participantKey contextKey = "participant"

// Session cookie name and the keys stored inside it.
const (
	SessionName            = "jobboard-session"
	SessionParticipantType = "participant-type"
	SessionParticipantID   = "participant-id"
)

// Auth resolves the calling participant from the session cookie and stores it
// in the request context. Requests without a valid session are rejected.
func Auth(store *sessions.CookieStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				http.Error(w, "could not read session", http.StatusInternalServerError)
				return
			}

			participantType, okType := session.Values[SessionParticipantType].(string)
			participantID, okID := session.Values[SessionParticipantID].(string)
			if !okType || !okID {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			p := entity.Participant{Type: participantType, ID: participantID}
			if p.Validate() != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithParticipant(r.Context(), p)))
		})
	}
}

// WithParticipant returns a context carrying the given participant.
func WithParticipant(ctx context.Context, p entity.Participant) context.Context {
	return context.WithValue(ctx, participantKey, p)
}

// ParticipantFromContext extracts the participant placed by Auth.
func ParticipantFromContext(ctx context.Context) (entity.Participant, bool) {
	p, ok := ctx.Value(participantKey).(entity.Participant)
	return p, ok
}

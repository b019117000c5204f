package app

import "net/http"

type sessionKey string

const (
	SessionKeyUserId = sessionKey("userID")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *Application) contextGetUserId(r *http.Request) int64 {
	userId, ok := r.Context().Value(SessionKeyUserId).(int64)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

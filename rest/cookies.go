package rest

import "net/http"

// Cookie names used by deployments that deliver tokens via Set-Cookie
// instead of the JSON body.
const (
	AccessCookieName  = "token"
	RefreshCookieName = "refreshToken"
)

// TokensFromCookies extracts the access and refresh tokens from a cookie
// set. Absent cookies yield empty strings.
func TokensFromCookies(cookies []*http.Cookie) (access, refresh string) {
	for _, c := range cookies {
		switch c.Name {
		case AccessCookieName:
			access = c.Value
		case RefreshCookieName:
			refresh = c.Value
		}
	}
	return access, refresh
}

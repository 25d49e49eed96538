package gohris

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session manager.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is an exported constant or variable used by the session manager.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTwoFactorRequired is an exported constant or variable used by the session manager.
	ErrTwoFactorRequired = errors.New("two-factor verification required")
	// ErrTwoFactorInvalid is an exported constant or variable used by the session manager.
	ErrTwoFactorInvalid = errors.New("invalid two-factor code")
	// ErrTwoFactorExpired is an exported constant or variable used by the session manager.
	ErrTwoFactorExpired = errors.New("two-factor challenge expired")
	// ErrTwoFactorAttemptsExceeded is an exported constant or variable used by the session manager.
	ErrTwoFactorAttemptsExceeded = errors.New("two-factor attempts exceeded")
	// ErrNoPendingChallenge is an exported constant or variable used by the session manager.
	ErrNoPendingChallenge = errors.New("no pending two-factor challenge")
	// ErrManagerNotReady is an exported constant or variable used by the session manager.
	ErrManagerNotReady = errors.New("session manager not initialized")
	// ErrNoStoredSession is an exported constant or variable used by the session manager.
	ErrNoStoredSession = errors.New("no restorable session")
	// ErrSessionExpired is an exported constant or variable used by the session manager.
	ErrSessionExpired = errors.New("stored session expired")
)

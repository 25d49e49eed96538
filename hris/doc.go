// Package hris holds the domain data-access clients built on top of the
// session Manager: attendance, leave, shift handover and profile. Each
// service routes through the REST API for regular users and through the
// SOAP passthrough for an administrator session, normalizes every
// response document, and publishes the result to a shared State store.
//
// # Architecture boundaries
//
// Services never authenticate. They read the active session from the
// Manager and refuse to issue requests without one; role-gated
// operations check the session role before the request goes out. All
// record shaping is delegated to the normalize package.
//
// # What this package must NOT do
//
// It must not cache across sessions: State is cleared wholesale when
// the session ends, and a service result is only as fresh as its last
// fetch. It holds no retry or reauthentication logic of its own; 401
// handling lives in the rest client.
package hris

// Package session provides cookie-based session management for the blog API.
// It offers pluggable storage back-ends, automatic expiry and token rotation
// on login, exposed through composable interfaces.
//
// The package is storage-agnostic: any datastore that satisfies the Store
// interface can be plugged in. A concurrent in-memory implementation ships
// for tests and local development; RedisStore backs production deployments
// and lets Redis enforce the idle timeout through key TTLs.
//
// # Architecture
//
// A Manager orchestrates the session life-cycle. It relies on a Transport to
// extract / set the session token on every request and on a Store to persist
// session state. A Config struct defines idle / max timeouts for anonymous
// and authenticated sessions.
//
// Per request the state machine is: resolve the cookie-carried token against
// the Store; if absent, unknown or expired, synthesize a fresh anonymous
// session and deliver its token as a signed cookie. A successful login
// upgrades the session in place (with token rotation); logout destroys it.
// If the Store itself is unreachable the request fails; a request is never
// silently downgraded to anonymous.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{"signing-secret-of-32-or-more-chars"})
//	manager := session.New(
//	    session.WithStore(session.NewRedisStore(redisClient)),
//	    session.WithCookieManager(cookieMgr),
//	)
//
//	r.Use(manager.EnsureSession)
//	r.With(manager.RequireAuth).Post("/posts", createPost)
//
// Concurrent mutations of one session id are last-write-wins; the Store does
// no compare-and-set.
package session

// Package auth provides operator authentication for the admin portal.
//
// # Login
//
// The portal has a single operator identity configured in auth.username.
// CheckUsername compares a submitted name against it in constant time.
// There is no password store and no user database.
//
// # Sessions
//
// A successful login issues an HS256-signed JWT that is stored in an
// HTTP-only cookie. Sessions are stateless: the token carries the
// subject, issue time and expiry, and is verified on every request.
//
//	sessions := auth.NewSessionManager([]byte(secret), 24*time.Hour)
//	token, err := sessions.Issue("ram")
//	sess, err := sessions.Verify(token)
//
// # Context
//
// Protected handlers receive the verified session through the request
// context:
//
//	ctx = auth.WithSession(ctx, sess)
//	sess := auth.FromContext(ctx)
package auth

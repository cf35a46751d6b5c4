// Package session implements the client side of the Velocity authentication
// API: it acquires, refreshes and revokes a single time-limited authkey and
// keeps it alive in the background.
//
//	client, err := session.New("http://localhost:8090", session.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer client.Close(context.Background())
//
//	if _, err := client.Authenticate(ctx, "root", password, true); err != nil {
//	    return err
//	}
//
// Endpoints, all on /u/auth with JSON bodies:
//
//	POST   {username, password} -> 200 {authkey, expires}
//	PATCH  {authkey}            -> 200 {authkey, expires}
//	DELETE {authkey}            -> ignored
//
// Every call is bounded by the request timeout (10s by default) and never
// retried. A rejected or failed PATCH drops the session, including transient
// 5xx answers; the caller has to authenticate again.
//
// The refresher started by New wakes every refresh interval (50s by default)
// and silently renews a held authkey. Close stops it.
package session

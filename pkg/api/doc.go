// Package api implements the typed HTTP client for the vlogging platform's
// REST API. It is the single place in the SDK that knows about endpoints,
// wire shapes and HTTP status codes; everything above it works with the
// normalized Go types defined here.
//
// Two normalization duties live at this boundary:
//
//   - Credential field names vary across API deployments (access_token,
//     accessToken, token, …). The client resolves whichever variant the
//     server sent into a single Credentials struct, so callers never branch
//     on field names.
//   - Error payloads ({"error": …} or {"message": …}) are folded into
//     *APIError carrying the HTTP status and the server-supplied message.
//
// The client owns the shared default credential header: SetAuthToken installs
// a bearer token applied to every subsequent request, ClearAuthToken removes
// it. Request-level timeouts are enforced here via the underlying
// http.Client; callers additionally cancel individual calls through context.
//
// Usage:
//
//	client, err := api.New(api.Config{BaseURL: "https://api.example.com"})
//	creds, profile, err := client.Login(ctx, "a@b.com", "secret")
//	client.SetAuthToken(creds.Access)
package api

/*
Package rostersdk is a client for the Roster directory service.

The service keeps a single shared session: logging in through any client
makes that account active for every caller until someone logs out.

	client := rostersdk.NewClient("http://localhost:8080")

	// Create an account. A taken email (ignoring case) is ErrDuplicateEmail.
	acc, err := client.Register(ctx, "Ana", "ana@x.com", "123")
	if errors.Is(err, rostersdk.ErrDuplicateEmail) {
		// show "this email is already registered"
	}

	// Start the session. A bad pair is ErrInvalidCredentials.
	session, err := client.Login(ctx, "ana@x.com", "123")

	// The account list requires an active session, otherwise ErrLoginRequired.
	accounts, err := client.ListAccounts(ctx)

	// End the session.
	err = client.Logout(ctx)

Every non-2xx response is returned as an *APIError. Compare it against the
predefined errors with errors.Is, which matches on the error code.
*/
package rostersdk

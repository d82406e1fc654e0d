/*
Package authsdk provides a client SDK for the auth service.

# Overview

Client wraps the JSON endpoints of the service. Request and response types
are shared with the server so both sides agree on the wire format.

	client := authsdk.NewClient("https://auth.example.com")

	err := client.Signup(ctx, authsdk.SignupRequest{
		Email:       "user@example.com",
		Password:    "password123",
		Requires2FA: true,
	})

# Login and 2FA

Login returns either a token or a 2FA challenge. The challenge is completed
with the code the service emailed to the user:

	res, err := client.Login(ctx, authsdk.LoginRequest{Email: email, Password: pw})
	if err != nil {
		return err
	}
	token := res.Token
	if res.TwoFactor != nil {
		token, err = client.Verify2FA(ctx, authsdk.Verify2FARequest{
			Email:          email,
			LoginAttemptID: res.TwoFactor.LoginAttemptID,
			TwoFACode:      code,
		})
	}

The server hands tokens out in the "jwt" cookie; the client lifts the value
out of the cookie for you.

# Error Handling

Every non-success response becomes an *APIError. The predefined values match
with errors.Is:

	if errors.Is(err, authsdk.ErrIncorrectCredentials) {
		// wrong email, password or code
	}
*/
package authsdk

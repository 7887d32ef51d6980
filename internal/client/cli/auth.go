package cli

import (
	"context"
	"fmt"
)

// The interactive input helpers, swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getWithDefault = GetWithDefault
	getPassword    = GetPassword
)

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res, err := a.api.Register(ctx, email, password, name)
	if err != nil {
		return err
	}
	if err := a.startSession(ctx, res); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", res.User.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.startSession(ctx, res); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
	return nil
}

// Logout forgets the stored token. Tokens are stateless, so the server is
// not told.
func (a *App) Logout(ctx context.Context) error {
	a.endSession(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI asks the server who the current token belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.session.User = *u
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
	return nil
}

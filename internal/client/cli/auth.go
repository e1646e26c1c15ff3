package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dkovalev-net/vizlab/internal/client/session"
	"github.com/dkovalev-net/vizlab/internal/common"
)

// getSimpleText, getPassword and getID are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getID = GetID
var getCommaList = GetCommaList

// Register prompts for account details and attempts to create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, username, password); err != nil {
		return err
	}

	printlnFn("Success! You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates. Failures are reported
// inline with the backend's own message; the command itself only errors on
// input problems. The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, email, password)
	if !res.Success {
		printlnFn("Login failed:", res.Error)
		return nil
	}

	if u := a.sessions.User(); u != nil {
		printlnFn(fmt.Sprintf("Logged in as %s", u.Username))
	} else {
		printlnFn("Logged in")
	}
	return nil
}

// Logout ends the backend session and clears the persisted one.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out")
	return nil
}

// Whoami prints the signed-in account record.
func (a *App) Whoami(ctx context.Context) error {
	u := a.sessions.User()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("#%d %s <%s> active=%v", u.ID, u.Username, u.Email, u.IsActive))
	if a.sessions.DevBypass() {
		printlnFn("Development auth bypass is ON")
	}
	return nil
}

// DevBypass flips the development auth bypass and re-initializes the session,
// mirroring a full application restart.
func (a *App) DevBypass(ctx context.Context) error {
	next := !a.sessions.DevBypass()
	if err := a.auth.ToggleDevBypass(next); err != nil {
		printlnFn("Cannot toggle:", err.Error())
		return err
	}
	if !next {
		// Drop the fabricated session before re-initializing.
		if err := a.sessions.Clear(); err != nil {
			return err
		}
	}
	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore after toggle", "error", err)
	}
	if next {
		printlnFn("Development auth bypass enabled")
	} else {
		printlnFn("Development auth bypass disabled")
	}
	if a.sessions.State() == session.StateAuthenticated {
		if u := a.sessions.User(); u != nil {
			printlnFn(fmt.Sprintf("Session active as %s", u.Username))
		}
	}
	return nil
}

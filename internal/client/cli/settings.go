package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
)

// Profile shows the current account and optionally updates username or
// email; empty answers leave the field unchanged.
func (a *App) Profile(ctx context.Context) error {
	u := a.sessions.User()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("Current profile: %s <%s>", u.Username, u.Email))

	username, err := getSimpleText(a.reader, "New username (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	var upd models.ProfileUpdate
	if username != "" {
		upd.Username = &username
	}
	if email != "" {
		upd.Email = &email
	}
	if upd.Username == nil && upd.Email == nil {
		printlnFn("Nothing to change")
		return nil
	}

	fresh, err := a.settings.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	// Keep the cached session record in step with the backend.
	if err := a.sessions.SetUser(&fresh); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Profile is now %s <%s>", fresh.Username, fresh.Email))
	return nil
}

// Passwd changes the account password. Both secrets are wiped before
// returning.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword(os.Stdout, "Enter current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	return a.settings.ChangePassword(ctx, current, next)
}

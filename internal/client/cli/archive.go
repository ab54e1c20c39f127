package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/autobody/internal/client/archive"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/shared"
)

const archivePageSize = 20

func (a *App) Login(ctx context.Context) error {
	user, err := GetSimpleText(a.reader, fmt.Sprintf("-Archive user [%s]", a.config.ArchiveUser), a.out)
	if err != nil {
		return err
	}
	if user == "" {
		user = a.config.ArchiveUser
	}

	password, err := GetPassword("Archive password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.archive.Login(ctx, user, password); err != nil {
		switch {
		case errors.Is(err, archive.ErrUnauthorized):
			fmt.Fprintln(a.out, "Login unsuccessful: wrong user or password")
		case errors.Is(err, archive.ErrUnavailable):
			fmt.Fprintln(a.out, "Archive server unavailable")
		default:
			a.log.Error(ctx, "login", "error", err)
		}
		return err
	}

	a.loggedIn = true
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.archive.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		return err
	}
	a.loggedIn = false
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	rep, err := a.archive.Sync(ctx)
	if errors.Is(err, archive.ErrUnauthorized) {
		a.loggedIn = false
		fmt.Fprintln(a.out, "Session expired, please login again")
	} else if errors.Is(err, archive.ErrUnavailable) {
		fmt.Fprintln(a.out, "Archive server unavailable")
	} else if err != nil {
		a.log.Error(ctx, "sync", "error", err)
	}
	fmt.Fprintf(a.out, "Archived %d, failed %d, pending %d\n", rep.Uploaded, rep.Failed, rep.Pending)
	return err
}

// Archive browses the server side: "archive list [page]" and
// "archive url <id>".
func (a *App) Archive(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: archive list [page] | archive url <id>")
		return errUsage
	}

	switch args[0] {
	case "list":
		page := 1
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
				page = n
			}
		}
		list, err := a.archive.Remote(ctx, archivePageSize, (page-1)*archivePageSize)
		if err != nil {
			return a.archiveError(ctx, err)
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, "Nothing archived on this page")
			return nil
		}
		for _, inv := range list {
			total := "NaN"
			if inv.Total.Valid {
				total = inv.Total.Decimal.StringFixed(2)
			}
			uploaded := ""
			if !inv.Uploaded {
				uploaded = " (pdf missing)"
			}
			fmt.Fprintf(a.out, "%s  %s  %-28s %10s%s\n", inv.ID, inv.Number, inv.ClientName, total, uploaded)
		}
		return nil

	case "url":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "Usage: archive url <id>")
			return errUsage
		}
		url, err := a.archive.DownloadURL(ctx, args[1])
		if err != nil {
			return a.archiveError(ctx, err)
		}
		fmt.Fprintln(a.out, url)
		return nil

	default:
		fmt.Fprintln(a.out, "Usage: archive list [page] | archive url <id>")
		return errUsage
	}
}

func (a *App) archiveError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, archive.ErrUnauthorized):
		a.loggedIn = false
		fmt.Fprintln(a.out, "Session expired, please login again")
	case errors.Is(err, archive.ErrUnavailable):
		fmt.Fprintln(a.out, "Archive server unavailable")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Not found in the archive")
	default:
		a.log.Error(ctx, "archive", "error", err)
	}
	return err
}

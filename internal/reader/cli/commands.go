package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/reader/api"
)

const defaultLastRecords = 10

func (a *App) Scan(ctx context.Context, raw string) error {
	res, err := a.scanner.Scan(ctx, raw)
	switch {
	case errors.Is(err, common.ErrScanTooSoon):
		// a second read of the same code, stay quiet
		a.logger.Debug(ctx, "scan ignored", "error", err)
		return nil
	case errors.Is(err, common.ErrMalformedPayload):
		fmt.Fprintln(a.out, "DENIED: invalid QR format")
		return nil
	case err != nil:
		a.setMode(ctx, ModeOffline)
		return err
	}

	a.setMode(ctx, ModeOnline)
	fmt.Fprintln(a.out, verdict(res))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.backend.Stats(ctx)
	if err != nil {
		return err
	}
	if !s.Success {
		return fmt.Errorf("%w: %s", common.ErrBackend, s.Error)
	}
	fmt.Fprintf(a.out, "Stats for %s\n", s.Date)
	fmt.Fprintf(a.out, "  students: %d entries, %d exits\n", s.Students.Entries, s.Students.Exits)
	fmt.Fprintf(a.out, "  helpers:  %d entries, %d exits\n", s.Helpers.Entries, s.Helpers.Exits)
	return nil
}

func (a *App) Last(ctx context.Context, arg string) error {
	limit := defaultLastRecords
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid count %q", arg)
		}
		limit = n
	}

	recs, err := a.backend.LastRecords(ctx, limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No records.")
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(a.out, "%s %s  %-7s %-10s %s %s <%s>\n", r.Date, r.Time, r.Kind, r.UserType, r.Name, r.Surname, r.Email)
	}
	return nil
}

func (a *App) Health(ctx context.Context) error {
	a.probe(ctx)
	fmt.Fprintf(a.out, "Backend is %s.\n", a.Mode())
	return nil
}

func (a *App) VerifyStudent(ctx context.Context, email string) error {
	v, err := a.backend.VerifyStudent(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, describeVerification("student", email, v))
	return nil
}

func (a *App) VerifyHelper(ctx context.Context, email string) error {
	v, err := a.backend.VerifyHelper(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, describeVerification("helper", email, v))
	return nil
}

func verdict(res api.ValidationResult) string {
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "access denied"
		}
		if res.Expired {
			return "DENIED (expired): " + msg
		}
		return "DENIED: " + msg
	}
	return fmt.Sprintf("GRANTED: %s %s %s (%s) at %s", res.Kind, res.Name, res.Surname, res.UserType, res.Time)
}

func describeVerification(kind, email string, v api.Verification) string {
	switch {
	case !v.Success:
		return fmt.Sprintf("Could not verify %s: %s", email, v.Error)
	case !v.Exists:
		return fmt.Sprintf("%s is not a registered %s.", email, kind)
	case !v.Active:
		return fmt.Sprintf("%s is a registered %s but inactive.", email, kind)
	default:
		return fmt.Sprintf("%s is an active %s.", email, kind)
	}
}

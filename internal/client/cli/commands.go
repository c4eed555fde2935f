package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/labaccess/internal/client/render"
	"github.com/dmitrijs2005/labaccess/internal/prompt"
	"github.com/dmitrijs2005/labaccess/internal/qr"
)

func (a *App) New(ctx context.Context) error {
	name, err := prompt.GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	surname, err := prompt.GetSimpleText(a.reader, "Surname", a.out)
	if err != nil {
		return err
	}
	email, err := prompt.GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	if _, err := a.gen.Generate(ctx, name, surname, email); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) Saved(ctx context.Context) error {
	rows, err := a.gen.Saved(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No saved identities.")
		return nil
	}
	for i, r := range rows {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, r.Identity)
	}
	return nil
}

func (a *App) Use(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid position %q", arg)
	}
	if _, err := a.gen.Select(ctx, n-1); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) ToggleAuto(ctx context.Context) error {
	on, err := a.gen.ToggleAutoRenew()
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintln(a.out, "Auto-renewal enabled.")
	} else {
		fmt.Fprintln(a.out, "Auto-renewal disabled.")
	}
	if _, ok := a.gen.Current(); ok {
		return a.Show(ctx)
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	t, payload, err := a.gen.Snapshot()
	if err != nil {
		return err
	}

	code, err := render.Terminal(payload)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, code)
	fmt.Fprintf(a.out, "%s\n%s\n", t.Identity, describe(t))
	return nil
}

func (a *App) Payload(ctx context.Context) error {
	payload, err := a.gen.Payload()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, payload)
	return nil
}

func describe(t qr.Token) string {
	switch t.State() {
	case qr.StateAutoRenewing:
		return "Auto-renewal enabled: the code never expires."
	case qr.StateExpired:
		return "QR code expired."
	default:
		return fmt.Sprintf("Valid until %s.", t.ExpiresAt.Format("15:04:05"))
	}
}

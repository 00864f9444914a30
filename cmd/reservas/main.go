// Command reservas is the terminal front-end for the reservation API.
//
//	reservas [-api URL] [-strict] [-timeout D] list
//	reservas [flags] add NAME DATE TIME
//	reservas [flags] edit ID [NAME [DATE [TIME]]]
//	reservas [flags] delete ID
//
// DATE is YYYY-MM-DD and TIME is HH:MM, both in local time. edit starts
// from the stored record; an omitted field or "-" keeps its current value.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/reservas/internal/client"
	"github.com/iliyamo/reservas/internal/form"
	"github.com/iliyamo/reservas/internal/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now, time.Local))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time, loc *time.Location) int {
	fs := flag.NewFlagSet("reservas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("RESERVAS_API", client.DefaultBaseURL), "base URL of the reservation API")
	strict := fs.Bool("strict", false, "require names of 3+ characters and dates from today on")
	timeout := fs.Duration("timeout", 10*time.Second, "per-command timeout (0 for none)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: reservas [flags] list | add NAME DATE TIME | edit ID [NAME [DATE [TIME]]] | delete ID")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	state := client.NewState(client.New(*apiURL, nil))
	f := &form.Form{Location: loc}

	var err error
	switch cmd, rest := fs.Arg(0), fs.Args(); {
	case cmd == "list" && len(rest) == 1:
		err = state.Refresh(ctx)
	case cmd == "add" && len(rest) == 4:
		f.Name, f.Date, f.Time = rest[1], rest[2], rest[3]
		err = f.Submit(ctx, state, *strict, now())
	case cmd == "edit" && len(rest) >= 2 && len(rest) <= 5:
		id, perr := strconv.ParseUint(rest[1], 10, 64)
		if perr != nil || id == 0 {
			fmt.Fprintf(stderr, "invalid id %q\n", rest[1])
			return 2
		}
		if err = state.Refresh(ctx); err != nil {
			break
		}
		loadForEdit(f, state.Snapshot().Records, id)
		overlay(&f.Name, rest, 2)
		overlay(&f.Date, rest, 3)
		overlay(&f.Time, rest, 4)
		err = f.Submit(ctx, state, *strict, now())
	case cmd == "delete" && len(rest) == 2:
		id, perr := strconv.ParseUint(rest[1], 10, 64)
		if perr != nil {
			fmt.Fprintf(stderr, "invalid id %q\n", rest[1])
			return 2
		}
		err = state.Remove(ctx, id)
	default:
		fs.Usage()
		return 2
	}

	if err != nil {
		var verr form.ValidationError
		snap := state.Snapshot()
		switch {
		case errors.As(err, &verr):
			fmt.Fprintln(stderr, verr.Error())
		case snap.Err != "":
			fmt.Fprintf(stderr, "%s: %v\n", snap.Err, err)
		default:
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	snap := state.Snapshot()
	if err := form.RenderList(stdout, snap.Records, snap.Loading, loc); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// loadForEdit fills f from the record with id. An id missing from the list
// still puts f in edit mode so the API reports it.
func loadForEdit(f *form.Form, records []model.Reservation, id uint64) {
	for _, r := range records {
		if r.ID == id {
			f.Edit(r)
			return
		}
	}
	f.EditingID = id
}

// overlay replaces *field with args[i] when given and not "-".
func overlay(field *string, args []string, i int) {
	if i < len(args) && args[i] != "-" {
		*field = args[i]
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

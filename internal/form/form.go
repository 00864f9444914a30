// Package form holds the reservation form the terminal front-end fills in:
// field validation, edit mode and submission through client.State.
package form

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/service"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minNameLen = 3
)

// ValidationError is a message meant for the person filling the form.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrIncomplete      ValidationError = "Please fill in all fields."
	ErrNameTooShort    ValidationError = "Name must be at least 3 characters long."
	ErrDateInPast      ValidationError = "Date cannot be earlier than today."
	ErrInvalidDateTime ValidationError = "Please enter a valid date and time."
)

// Submitter is implemented by *client.State.
type Submitter interface {
	Create(ctx context.Context, in service.ReservationInput) error
	Update(ctx context.Context, id uint64, in service.ReservationInput) error
}

// Form mirrors the three input fields plus the id of the record being
// edited (0 when creating). Date and Time are read in Location, which
// defaults to time.Local.
type Form struct {
	Name      string
	Date      string
	Time      string
	EditingID uint64
	Location  *time.Location
}

func (f *Form) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Editing reports whether Submit will update instead of create.
func (f *Form) Editing() bool { return f.EditingID != 0 }

// Validate checks that every field is filled and combines Date and Time
// into the payload sent to the API.
func (f *Form) Validate() (service.ReservationInput, error) {
	in, _, err := f.validate()
	return in, err
}

// ValidateStrict is Validate plus a minimum name length and a date that is
// not before today. Only the calendar day is compared, so any time today
// passes.
func (f *Form) ValidateStrict(now time.Time) (service.ReservationInput, error) {
	in, at, err := f.validate()
	if err != nil {
		return service.ReservationInput{}, err
	}
	if utf8.RuneCountInString(in.Name) < minNameLen {
		return service.ReservationInput{}, ErrNameTooShort
	}
	loc := f.location()
	local := at.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return service.ReservationInput{}, ErrDateInPast
	}
	return in, nil
}

func (f *Form) validate() (service.ReservationInput, time.Time, error) {
	name := strings.TrimSpace(f.Name)
	date := strings.TrimSpace(f.Date)
	clock := strings.TrimSpace(f.Time)
	if name == "" || date == "" || clock == "" {
		return service.ReservationInput{}, time.Time{}, ErrIncomplete
	}
	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, f.location())
	if err != nil {
		return service.ReservationInput{}, time.Time{}, ErrInvalidDateTime
	}
	return service.ReservationInput{
		Name:     name,
		Datetime: model.NewTimestamp(at).String(),
	}, at, nil
}

// Edit fills the form from r and switches it to edit mode.
func (f *Form) Edit(r model.Reservation) {
	local := r.Datetime.In(f.location())
	f.Name = r.Name
	f.Date = local.Format(DateLayout)
	f.Time = local.Format(TimeLayout)
	f.EditingID = r.ID
}

// Reset clears the fields and leaves edit mode. Location is kept.
func (f *Form) Reset() {
	f.Name, f.Date, f.Time = "", "", ""
	f.EditingID = 0
}

// Submit validates the form and sends it through s, updating when in edit
// mode and creating otherwise. The form is reset only on success.
func (f *Form) Submit(ctx context.Context, s Submitter, strict bool, now time.Time) error {
	var (
		in  service.ReservationInput
		err error
	)
	if strict {
		in, err = f.ValidateStrict(now)
	} else {
		in, err = f.Validate()
	}
	if err != nil {
		return err
	}

	if f.Editing() {
		err = s.Update(ctx, f.EditingID, in)
	} else {
		err = s.Create(ctx, in)
	}
	if err != nil {
		return err
	}
	f.Reset()
	return nil
}

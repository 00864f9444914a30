package form

import (
	"fmt"
	"io"
	"time"

	"github.com/iliyamo/reservas/internal/model"
)

// DisplayLayout is how RenderList prints a reservation's datetime.
const DisplayLayout = "2006-01-02 15:04"

// RenderList writes the reservation list the way the front-end shows it:
// a loading line, an empty marker, or one "#id name - datetime" line per
// record with the datetime in loc (time.Local when nil).
func RenderList(w io.Writer, records []model.Reservation, loading bool, loc *time.Location) error {
	if loading {
		_, err := fmt.Fprintln(w, "Loading reservations...")
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No reservations")
		return err
	}
	if loc == nil {
		loc = time.Local
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "#%d %s - %s\n", r.ID, r.Name, r.Datetime.In(loc).Format(DisplayLayout)); err != nil {
			return err
		}
	}
	return nil
}

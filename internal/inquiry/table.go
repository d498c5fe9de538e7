package inquiry

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// WriteTable prints records as aligned columns, newest first as given.
func WriteTable(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RECEIVED\tNAME\tEMAIL\tPACKAGE\tBUDGET")
	_, _ = fmt.Fprintln(tw, "--------\t----\t-----\t-------\t------")

	for _, rec := range records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.UTC().Format(time.DateTime),
			rec.Name,
			rec.Email,
			rec.PackageName,
			rec.Budget,
		)
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
)

// year prints the academic year `date` belongs to, and the dates it spans.
func (cli *commandLine) year(date string) error {
	t := academic.NowFunc()
	if date != "" {
		var err error
		if t, err = time.Parse("2006-01-02", date); err != nil {
			return errors.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}

	year := academic.Year(t)
	start, end := academic.Bounds(year, t.Location())
	fmt.Fprintf(cli.out, "%d (%s): %s to %s\n",
		year, academic.Label(year), start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	return nil
}

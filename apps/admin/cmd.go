package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out      io.Writer
	validate *validator.Validate
	// connect opens the database lazily; `year` never needs it.
	connect func() (*sqlx.DB, internship.Repository, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the database")
	fmt.Fprintln(cli.out, "  year [-date YYYY-MM-DD] - print the academic year of a date (today by default)")
	fmt.Fprintln(cli.out, "  seed-teacher -name NAME -email EMAIL - add a teacher")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	yearCmd := flag.NewFlagSet("year", flag.ContinueOnError)
	yearCmd.SetOutput(cli.out)
	yearDate := yearCmd.String("date", "", "The date to resolve, formatted as YYYY-MM-DD.")

	seedTeacherCmd := flag.NewFlagSet("seed-teacher", flag.ContinueOnError)
	seedTeacherCmd.SetOutput(cli.out)
	seedTeacherName := seedTeacherCmd.String("name", "", "The teacher's full name.")
	seedTeacherEmail := seedTeacherCmd.String("email", "", "The teacher's email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "year":
		if err := yearCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.year(*yearDate)
	case "seed-teacher":
		if err := seedTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedTeacherName == "" || *seedTeacherEmail == "" {
			seedTeacherCmd.Usage()
			return errHelp
		}
		return cli.seedTeacher(*seedTeacherName, *seedTeacherEmail)
	default:
		cli.printUsage()
		return errHelp
	}
}

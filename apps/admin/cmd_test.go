package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	inmemdb "github.com/NathJo212/Overd-OSE-sub001/storage/database/inmem"
	testutil "github.com/NathJo212/Overd-OSE-sub001/tests"
)

func setup(t *testing.T) (*commandLine, internship.Repository, *bytes.Buffer) {
	repo := inmemdb.NewInternshipRepository(inmemdb.Open())
	validate, _ := testutil.NewValidator()
	out := new(bytes.Buffer)

	return &commandLine{
		out:      out,
		validate: validate,
		connect: func() (*sqlx.DB, internship.Repository, error) {
			return nil, repo, nil
		},
	}, repo, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func (tt cliTest) check(t *testing.T, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Equal(t, tt.wantErrStr, err.Error())
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	origRunFunc := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = origRunFunc })

	var ran []string
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
	assert.Equal(t, []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version"}, ran)
}

func Test_commandLine_year(t *testing.T) {
	cli, _, out := setup(t)
	academic.NowFunc = func() time.Time { return time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { academic.NowFunc = time.Now })

	tests := []cliTest{
		{name: "today", args: []string{"year"}, wantOut: "2025 (2024-2025): 2024-08-01 to 2025-07-31\n"},
		{name: "first day", args: []string{"year", "-date", "2025-08-01"}, wantOut: "2026 (2025-2026): 2025-08-01 to 2026-07-31\n"},
		{name: "last day", args: []string{"year", "-date", "2025-07-31"}, wantOut: "2025 (2024-2025): 2024-08-01 to 2025-07-31\n"},
		{name: "invalid date", args: []string{"year", "-date", "31/07/2025"}, wantErrStr: `invalid date "31/07/2025", expected YYYY-MM-DD`},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args))
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, out.String())
			}
		})
	}
}

func Test_commandLine_seedTeacher(t *testing.T) {
	cli, repo, out := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"seed-teacher"}, wantErr: errHelp},
		{name: "no email", args: []string{"seed-teacher", "-name", "Mme Tremblay"}, wantErr: errHelp},
		{name: "created", args: []string{"seed-teacher", "-name", " Mme Tremblay ", "-email", "Tremblay@College.ca"},
			wantOut: "teacher #1 created: Mme Tremblay <tremblay@college.ca>\n"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args))
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, out.String())
			}
		})
	}

	err := cli.run([]string{"admin", "seed-teacher", "-name", "X", "-email", "not-an-email"})
	_, ok := err.(validator.ValidationErrors)
	assert.True(t, ok)

	teachers, err := repo.QueryTeachers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []internship.Teacher{{ID: 1, Name: "Mme Tremblay", Email: "tremblay@college.ca"}}, teachers)
}

package main

import (
	"database/sql"

	"github.com/NathJo212/Overd-OSE-sub001/storage/database"
)

var gooseRunFunc = database.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	db, _, err := cli.connect()
	if err != nil {
		return err
	}

	var sqlDB *sql.DB
	if db != nil {
		sqlDB = db.DB
		defer func() { _ = db.Close() }()
	}
	return gooseRunFunc(args[0], sqlDB, args[1:]...)
}

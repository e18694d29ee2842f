package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	logsvc "github.com/NathJo212/Overd-OSE-sub001/services/logger"
	"github.com/NathJo212/Overd-OSE-sub001/storage/database"
	sqlxrepos "github.com/NathJo212/Overd-OSE-sub001/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	internship.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		validate: validate,
		connect: func() (*sqlx.DB, internship.Repository, error) {
			db, err := database.Open(conf)
			if err != nil {
				return nil, nil, err
			}
			return db, sqlxrepos.NewInternshipRepository(db), nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

func (cli *commandLine) seedTeacher(name, email string) error {
	data := internship.NewTeacher{Name: name, Email: email}
	if err := data.Validate(cli.validate); err != nil {
		return err
	}

	db, repo, err := cli.connect()
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	teacher, err := internship.NewService(repo).CreateTeacher(context.Background(), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "teacher #%d created: %s <%s>\n", teacher.ID, teacher.Name, teacher.Email)
	return nil
}

package main

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
)

var migrateRunFunc = database.MigrateCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrateRunFunc(cli.db, &core.Conf, args[0], arguments...)
}

package main

import (
	"context"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
)

// seed migrates then loads the demo data set. Safe to run repeatedly.
func (cli *commandLine) seed() error {
	if err := database.Migrate(cli.db, &core.Conf); err != nil {
		return err
	}
	return database.Seed(context.Background(), cli.db)
}

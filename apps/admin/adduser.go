package main

import (
	"context"
	"fmt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// addUser creates a user with the given role.
func (cli *commandLine) addUser(uname, name, role, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	name = core.CleanString(name)
	role = core.CleanString(role, true /* lower */)

	var known bool
	for _, r := range user.AllRoles {
		if role == r {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown role %q", role)
	}
	if name == "" {
		name = uname
	}

	if _, err := cli.usrSvc.GetByUsername(ctx, uname); err == nil {
		return fmt.Errorf("user %q already exists", uname)
	} else if err != user.ErrNotFound {
		return err
	}

	_, err := cli.usrSvc.Create(ctx, user.User{
		Username: uname,
		Role:     role,
		Name:     name,
	}, pwd)
	return err
}

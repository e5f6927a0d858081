package main

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
	testutil "github.com/trezcool/shule/tests"
)

type cliTest struct {
	name       string
	args       []string
	wantErr    error
	wantErrStr string
	extra      func(t *testing.T)
}

func newTestCLI(t *testing.T) *commandLine {
	t.Helper()
	db := testutil.PrepareDB(t)
	return &commandLine{
		db:     db,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db)),
	}
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func Test_commandLine_run(t *testing.T) {
	cli := newTestCLI(t)

	tests := []cliTest{
		{name: "no command", args: []string{"admin"}, wantErr: errHelp},
		{name: "unknown command", args: []string{"admin", "destroy"}, wantErr: errHelp},
		{name: "migrate without a command", args: []string{"admin", "migrate"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, cli.run(tt.args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := newTestCLI(t)

	var gotCommand string
	var gotArgs []string
	orig := migrateRunFunc
	migrateRunFunc = func(db *sqlx.DB, conf *core.Config, command string, args ...string) error {
		gotCommand = command
		gotArgs = args
		return nil
	}
	t.Cleanup(func() { migrateRunFunc = orig })

	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
	assert.Equal(t, "up", gotCommand)
	assert.Empty(t, gotArgs)

	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "3"}))
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, []string{"3"}, gotArgs)
}

func Test_commandLine_addUser(t *testing.T) {
	ctx := context.Background()
	cli := newTestCLI(t)

	testutil.CreateUser(t, sqlxrepos.NewUserRepository(cli.db), "Taken", "taken", "pwd123", user.RoleAdmin)

	tests := []cliTest{
		{
			name: "username required", args: []string{"admin", "adduser"},
			wantErr: errHelp,
			extra:   func(t *testing.T) { mockPassword(t, "s3cret") },
		},
		{
			name: "empty password", args: []string{"admin", "adduser", "-username", "joe"},
			wantErr: errHelp,
			extra:   func(t *testing.T) { mockPassword(t, "") },
		},
		{
			name: "unknown role", args: []string{"admin", "adduser", "-username", "joe", "-role", "principal"},
			wantErrStr: `unknown role "principal"`,
			extra:      func(t *testing.T) { mockPassword(t, "s3cret") },
		},
		{
			name: "existing user", args: []string{"admin", "adduser", "-username", "Taken"},
			wantErrStr: `user "taken" already exists`,
			extra:      func(t *testing.T) { mockPassword(t, "s3cret") },
		},
		{
			name: "ok", args: []string{"admin", "adduser", "-username", "Joe", "-name", "Joe Admin"},
			extra: func(t *testing.T) { mockPassword(t, "s3cret") },
		},
		{
			name: "name defaults to username", args: []string{"admin", "adduser", "-username", "amy", "-role", "teacher"},
			extra: func(t *testing.T) { mockPassword(t, "s3cret") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.extra != nil {
				tt.extra(t)
			}
			err := cli.run(tt.args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				require.NoError(t, err)
			}
		})
	}

	joe, err := cli.usrSvc.GetByUsername(ctx, "joe")
	require.NoError(t, err)
	assert.Equal(t, "Joe Admin", joe.Name)
	assert.Equal(t, user.RoleAdmin, joe.Role)
	assert.NoError(t, joe.CheckPassword("s3cret"))

	amy, err := cli.usrSvc.GetByUsername(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, "amy", amy.Name)
	assert.Equal(t, user.RoleTeacher, amy.Role)
}

func Test_commandLine_seed(t *testing.T) {
	ctx := context.Background()
	cli := newTestCLI(t)

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	// running it again must not blow up on existing rows
	require.NoError(t, cli.run([]string{"admin", "seed"}))

	admin, err := cli.usrSvc.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
}

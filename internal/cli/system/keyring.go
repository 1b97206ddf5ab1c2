package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/keyring"
	"github.com/julianstephens/studyflow/internal/storage"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store."`
}

func (c *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgresConnString(c.ConnectionString) && !strings.Contains(c.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if storage.HasEmbeddedCredentials(c.ConnectionString) {
		// The keyring is encrypted, so embedded credentials are tolerated
		// here even though the --config flag rejects them.
		fmt.Println("Warning: connection string contains an embedded password.")
		fmt.Println("It will be stored in the encrypted OS keyring; consider .pgpass or PGPASSWORD if you prefer.")
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	fmt.Println("Connection string stored in OS keyring.")
	return nil
}

// KeyringGetCmd shows the stored connection string with the password masked.
type KeyringGetCmd struct{}

func (c *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring; use 'keyring set' to store one")
		}
		return err
	}
	fmt.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes the stored connection string.
type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Println("Connection string removed from OS keyring.")
	return nil
}

func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	if _, isSet := u.User.Password(); isSet {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/passc/internal/config"
	"github.com/atinyakov/passc/internal/logger"
	"github.com/atinyakov/passc/internal/models"
	"github.com/atinyakov/passc/internal/prompt"
	"github.com/atinyakov/passc/internal/service"
	"github.com/atinyakov/passc/internal/storage"
)

var (
	boldFmt = color.New(color.Bold).SprintFunc()
	okFmt   = color.New(color.FgGreen).SprintFunc()
	dimFmt  = color.New(color.Faint).SprintFunc()
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	in   *os.File
	out  io.Writer
	copy func(string) error

	storeOpts []storage.Option

	opts  *config.Options
	log   *logger.Logger
	store service.Store
}

// setup loads the configuration and logger. It runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	opts, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.opts = opts

	a.log = logger.New()
	if err := a.log.Init(opts.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.store = storage.New(a.log.Log, a.storeOpts...)
	return nil
}

func (a *app) teardown() {
	if a.log != nil {
		_ = a.log.Log.Sync()
	}
}

// withVault prompts for the master password, opens the store, runs fn and
// commits the store when fn succeeds and commit is set.
func (a *app) withVault(commit bool, fn func(v *service.Vault) error) error {
	pw, err := prompt.MasterPassword(a.in, a.out)
	if err != nil {
		return err
	}

	v, err := service.Open(a.store, a.opts.StorePath(), pw, a.log.Log)
	if err != nil {
		return err
	}
	defer v.Close()

	if err := fn(v); err != nil {
		return err
	}
	if !commit {
		return nil
	}

	created := v.Created()
	if err := v.Commit(); err != nil {
		return err
	}
	if created {
		fmt.Fprintln(a.out, okFmt("Master password and storage have been created"))
	}
	a.log.Log.Debug("store committed", zap.String("path", a.opts.StorePath()))
	return nil
}

func (a *app) printEntries(entries []models.Entry) {
	for i, e := range entries {
		branch, last := "├──", "├──"
		if i == len(entries)-1 {
			last = "└──"
		}
		fmt.Fprintln(a.out, "│")
		fmt.Fprintf(a.out, "%s %s     %s\n", branch, boldFmt("name:"), e.Name)
		fmt.Fprintf(a.out, "%s %s %s\n", branch, boldFmt("password:"), e.Password)
		fmt.Fprintf(a.out, "%s %s     %s\n", last, boldFmt("info:"), e.Info)
	}
}

func versionString() string {
	return fmt.Sprintf("passc\nVersion: %s\nBuild Date: %s", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
}

// describeError turns an error into the message shown to the user.
func describeError(err error) string {
	var (
		ne *models.NameError
		ie *storage.ImportError
	)
	switch {
	case errors.Is(err, storage.ErrAuthenticationFailure):
		return "Incorrect master password!"
	case errors.Is(err, service.ErrWeakMasterPassword):
		return "Master password must have at least 6 characters"
	case errors.Is(err, storage.ErrTruncatedFile), errors.Is(err, storage.ErrMalformedStore):
		return fmt.Sprintf("Store is corrupted: %v", err)
	case errors.As(err, &ie) && errors.Is(err, storage.ErrMalformedImport):
		return fmt.Sprintf("Import file %s is not a valid export", ie.Path)
	case errors.As(err, &ne) && errors.Is(err, models.ErrNotFound):
		return fmt.Sprintf("Entry '%s' does not exist!", ne.Name)
	case errors.As(err, &ne) && errors.Is(err, models.ErrDuplicateName):
		return fmt.Sprintf("Entry '%s' already exists", ne.Name)
	case errors.As(err, &ne) && errors.Is(err, models.ErrInternalDuplicate):
		return fmt.Sprintf("Entry with name '%s' is repeated in the file", ne.Name)
	case errors.As(err, &ne) && errors.Is(err, models.ErrCrossDuplicate):
		return fmt.Sprintf("Entry with name '%s' already exists in the current storage!", ne.Name)
	}
	return fmt.Sprintf("Error: %v", err)
}

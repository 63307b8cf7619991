package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atinyakov/passc/internal/config"
	"github.com/atinyakov/passc/internal/password"
	"github.com/atinyakov/passc/internal/service"
	"github.com/atinyakov/passc/internal/storage"
)

func newRootCmd(in *os.File, out io.Writer, copyFn func(string) error, storeOpts ...storage.Option) *cobra.Command {
	a := &app{in: in, out: out, copy: copyFn, storeOpts: storeOpts}

	root := &cobra.Command{
		Use:           "passc",
		Short:         "Local password store encrypted under a master password",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}
	root.SetOut(out)
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		addCmd(a),
		editCmd(a),
		listCmd(a),
		copyCmd(a),
		passwordCmd(a),
		exportCmd(a),
		importCmd(a),
		removeCmd(a),
		versionCmd(a),
	)
	return root
}

func addCmd(a *app) *cobra.Command {
	var pass, info string
	cmd := &cobra.Command{
		Use:     "add NAME",
		Short:   "Add a new entry to the store",
		Example: `passc add acme -p 'p4$$w0rd' -i "acme.com page"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			return a.withVault(true, func(v *service.Vault) error {
				if _, err := v.Add(name, pass, info); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Entry %s created\n", boldFmt(name))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&pass, "password", "p", "", "leave empty to generate a strong password")
	cmd.Flags().StringVarP(&info, "info", "i", "", "optional info (user, url, etc.)")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var pass, info string
	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit the password or info of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newPass, newInfo *string
			if cmd.Flags().Changed("password") {
				newPass = &pass
			}
			if cmd.Flags().Changed("info") {
				newInfo = &info
			}
			name := args[0]
			return a.withVault(true, func(v *service.Vault) error {
				if _, err := v.Edit(name, newPass, newInfo); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Entry %s has been edited\n", boldFmt(name))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&pass, "password", "p", "", "new password")
	cmd.Flags().StringVarP(&info, "info", "i", "", "new info")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [FILTER]",
		Short: "List entries, optionally those whose name contains FILTER",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return a.withVault(false, func(v *service.Vault) error {
				entries := v.List(filter)
				switch {
				case filter != "" && len(entries) == 0:
					fmt.Fprintf(a.out, "Entry name %s not found.\n", boldFmt(filter))
				case len(entries) == 0:
					fmt.Fprintln(a.out, dimFmt("No data stored yet."))
				case filter != "":
					fmt.Fprintln(a.out, boldFmt("Matches"))
					a.printEntries(entries)
				default:
					fmt.Fprintln(a.out, boldFmt("Storage"))
					a.printEntries(entries)
				}
				return nil
			})
		},
	}
}

func copyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy NAME",
		Short: "Copy the password of an entry to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withVault(false, func(v *service.Vault) error {
				e, err := v.Get(args[0])
				if err != nil {
					return err
				}
				if err := a.copy(e.Password); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(a.out, "Password of entry %s copied to clipboard\n", boldFmt(e.Name))
				return nil
			})
		},
	}
}

func passwordCmd(a *app) *cobra.Command {
	var charset string
	cmd := &cobra.Command{
		Use:   "password LENGTH",
		Short: "Generate a random password without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			length, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid length %q: %w", args[0], err)
			}
			pw, err := password.Generate(length, password.ParseCharset(charset))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Password generated: %s\n", pw)
			return nil
		},
	}
	cmd.Flags().StringVarP(&charset, "charset", "c", "",
		"a, c, n, an or anc: alphabetic, capital, numeric, alphanumeric, alphanumeric and capital; empty adds symbols")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [PATH]",
		Short: "Export all entries unencrypted (JSON, or YAML for .yaml/.yml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.opts.ExportFile
			if len(args) == 1 {
				path = args[0]
			}
			return a.withVault(false, func(v *service.Vault) error {
				if err := v.Export(path); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Data exported to %s\n", boldFmt(path))
				return nil
			})
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Import entries from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			return a.withVault(true, func(v *service.Vault) error {
				n, err := v.Import(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s has been imported (%d entries).\n", boldFmt(path), n)
				return nil
			})
		},
	}
}

func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withVault(true, func(v *service.Vault) error {
				e, err := v.Remove(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Entry %s has been removed.\n", boldFmt(e.Name))
				return nil
			})
		},
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version and date",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(a.out, versionString())
		},
	}
}

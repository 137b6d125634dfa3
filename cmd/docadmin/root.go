package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/docflow-admin/client"
	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/internal/config"
	"github.com/jrsteele09/docflow-admin/internal/logging"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	root := &cobra.Command{
		Use:          "docadmin",
		Short:        "Administer organizations, members, templates and contracts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			banner(cmd.OutOrStdout(), a.cfg.GetAppName())
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this .env file")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newLangCmd(a),
		newOrgsCmd(a),
		newUsersCmd(a),
		newTemplatesCmd(a),
		newContractsCmd(a),
		newPermissionsCmd(a),
		newDownloadsCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, envFile string) error {
	if envFile != "" {
		a.cfg = config.Load(envFile)
	} else {
		a.cfg = config.Load()
	}
	a.logger = logging.New(a.cfg.GetLogLevel(), "DEV", cmd.ErrOrStderr())

	c, err := client.New(a.cfg, client.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

// requireSession fails fast when there is no stored login.
func (a *app) requireSession() error {
	if !a.client.Auth.CheckAuth() {
		return fmt.Errorf("not logged in, run: docadmin login")
	}
	return nil
}

// withSession makes every subcommand of cmd require a stored login.
func (a *app) withSession(cmd *cobra.Command) *cobra.Command {
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if err := c.Root().PersistentPreRunE(c, args); err != nil {
			return err
		}
		return a.requireSession()
	}
	return cmd
}

func banner(w io.Writer, name string) {
	fig := figure.NewFigure(name, "cybermedium", true)
	fmt.Fprintln(w, fig.String())
}

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func pageFooter(w io.Writer, page, totalPages, total int) {
	fmt.Fprintf(w, "page %d of %d, %d total\n", page+1, max(totalPages, 1), total)
}

// save writes a downloaded object next to the other downloads.
func (a *app) save(cmd *cobra.Command, obj *download.Object) error {
	path, err := a.client.Saver.Save(obj)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

type pageFlags struct {
	page   int
	size   int
	search string
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 0, "zero based page index")
	cmd.Flags().IntVar(&p.size, "size", 10, "page size")
	cmd.Flags().StringVar(&p.search, "search", "", "search text")
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

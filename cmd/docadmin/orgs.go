package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/docflow-admin/organizations"
)

func newOrgsCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations"},
		Short:   "Manage organizations",
	})

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Organizations.List(ctxOf(cmd), pf.page, pf.size, pf.search)
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "NAME", "INN", "USERS")
			for _, o := range page.Items {
				row(tw, o.ID, o.Name, o.IdentifierNumber, o.UsersCount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page.Page, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pf.bind(list)

	var form organizations.Form
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, err := a.client.Organizations.Create(ctxOf(cmd), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", org.ID)
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "organization name")
	create.Flags().StringVar(&form.IdentifierNumber, "inn", "", "taxpayer identification number")

	var updateForm organizations.Form
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.client.Organizations.Update(ctxOf(cmd), args[0], updateForm)
			return err
		},
	}
	update.Flags().StringVar(&updateForm.Name, "name", "", "organization name")
	update.Flags().StringVar(&updateForm.IdentifierNumber, "inn", "", "taxpayer identification number")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Organizations.Delete(ctxOf(cmd), args[0])
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

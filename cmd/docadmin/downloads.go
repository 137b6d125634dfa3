package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/docflow-admin/downloads"
	"github.com/jrsteele09/docflow-admin/permissions"
)

func newDownloadsCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:   "downloads",
		Short: "Package contracts into archives",
	})

	var (
		pf     pageFlags
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List download jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Downloads.List(ctxOf(cmd), pf.page, pf.size, status)
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "TYPE", "STATUS", "DATE", "DOCUMENTS")
			for _, j := range page.Items {
				row(tw, j.ID, j.FileType, j.Status, j.Date, len(j.DocumentationIDs))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page.Page, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	list.Flags().IntVar(&pf.page, "page", 0, "zero based page index")
	list.Flags().IntVar(&pf.size, "size", 10, "page size")
	list.Flags().StringVar(&status, "status", "", "only jobs with this status")

	var fileType string
	create := &cobra.Command{
		Use:   "create <contract-id>...",
		Short: "Queue an archive of contracts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Downloads.Create(ctxOf(cmd), downloads.Request{DocumentationIDs: args, FileType: fileType})
		},
	}
	create.Flags().StringVar(&fileType, "type", "PDF", "PDF or DOCX")

	var format string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Save a finished archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.client.Downloads.Download(ctxOf(cmd), args[0], format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	get.Flags().StringVar(&format, "format", "zip", "archive format")

	docs := &cobra.Command{
		Use:   "documents <id>",
		Short: "List the contracts in a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client.Downloads.Documents(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "NAME", "STATUS")
			for _, d := range list {
				row(tw, d.ID, d.Name, d.Status)
			}
			return tw.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a download job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Downloads.Delete(ctxOf(cmd), args[0])
		},
	}

	cmd.AddCommand(list, create, get, docs, del)
	return cmd
}

func newPermissionsCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:     "permissions",
		Aliases: []string{"perms"},
		Short:   "Control who can see contracts and templates",
	})

	members := &cobra.Command{
		Use:   "members <contract-id>",
		Short: "List members with their access to a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.client.Permissions.ContractUsers(ctxOf(cmd), args[0], permissions.Filter{Size: 100})
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "USERNAME", "NAME", "ACCESS")
			for _, m := range page.Items {
				row(tw, m.ID, m.Username, m.DisplayName(), m.HasPermission)
			}
			return tw.Flush()
		},
	}

	grant := &cobra.Command{
		Use:   "grant <contract-id> <user-id>...",
		Short: "Give members access to a contract",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Permissions.GrantContract(ctxOf(cmd), permissions.ContractGrant{DocumentationID: args[0], UserIDs: args[1:]})
		},
	}

	grantTemplate := &cobra.Command{
		Use:   "grant-template <template-id> <user-id>...",
		Short: "Give members access to a template",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Permissions.GrantTemplate(ctxOf(cmd), permissions.TemplateGrant{SampleID: args[0], UserIDs: args[1:]})
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <user-id> <contract-id>",
		Short: "Remove a member's access to a contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Contracts.DeletePermission(ctxOf(cmd), args[0], args[1])
		},
	}

	cmd.AddCommand(members, grant, grantTemplate, revoke)
	return cmd
}

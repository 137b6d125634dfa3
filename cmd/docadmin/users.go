package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/users"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:     "users",
		Aliases: []string{"members"},
		Short:   "Manage organization members",
	})

	var (
		pf     pageFlags
		role   string
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Users.List(ctxOf(cmd), users.Filter{
				Page:   pf.page,
				Size:   pf.size,
				Search: pf.search,
				Role:   users.RoleType(role),
				Status: users.StatusFilter(status),
			})
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "USERNAME", "NAME", "ROLE", "STATUS")
			for _, u := range page.Items {
				row(tw, u.ID, u.Username, u.DisplayName(), u.Role, u.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page.Page, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pf.bind(list)
	list.Flags().StringVar(&role, "role", "", "only this role, e.g. ROLE_OPERATOR")
	list.Flags().StringVar(&status, "status", "", "ACTIVE or INACTIVE")

	var nu users.NewUser
	var newRole string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nu.Role = users.RoleType(newRole)
			u, err := a.client.Users.Create(ctxOf(cmd), nu)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&nu.Username, "username", "", "login name")
	create.Flags().StringVar(&nu.Password, "password", "", "initial password")
	create.Flags().StringVar(&nu.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&nu.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&newRole, "role", string(users.RoleOperator), "role")
	create.Flags().StringVar(&nu.Status, "status", store.StatusActive, "ACTIVE or INACTIVE")

	var firstName, lastName string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a member's name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := store.Patch{}
			if cmd.Flags().Changed("first-name") {
				patch["firstName"] = firstName
			}
			if cmd.Flags().Changed("last-name") {
				patch["lastName"] = lastName
			}
			_, err := a.client.Users.Update(ctxOf(cmd), args[0], patch)
			return err
		},
	}
	update.Flags().StringVar(&firstName, "first-name", "", "first name")
	update.Flags().StringVar(&lastName, "last-name", "", "last name")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Users.Delete(ctxOf(cmd), args[0])
		},
	}

	setRole := &cobra.Command{
		Use:   "role <id> <role>",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Users.ChangeRole(ctxOf(cmd), args[0], users.RoleType(args[1]))
		},
	}

	block := &cobra.Command{
		Use:   "block <id>",
		Short: "Deactivate a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Users.ChangeStatus(ctxOf(cmd), args[0], false)
		},
	}
	unblock := &cobra.Command{
		Use:   "unblock <id>",
		Short: "Reactivate a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Users.ChangeStatus(ctxOf(cmd), args[0], true)
		},
	}

	passwd := &cobra.Command{
		Use:   "passwd <username> <password>",
		Short: "Set a member's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Users.SetPassword(ctxOf(cmd), args[0], args[1])
		},
	}

	cmd.AddCommand(list, create, update, del, setRole, block, unblock, passwd)
	return cmd
}

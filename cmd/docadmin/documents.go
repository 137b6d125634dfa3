package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/templates"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:     "templates",
		Aliases: []string{"samples"},
		Short:   "Manage document templates",
	})

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Templates.List(ctxOf(cmd), pf.page, pf.size, pf.search)
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "NAME", "FILE")
			for _, t := range page.Items {
				row(tw, t.ID, t.Name, t.FileName)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page.Page, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pf.bind(list)

	var name string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a new template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := afero.ReadFile(a.client.Fs, args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			t, err := a.client.Templates.Create(ctxOf(cmd), templates.Upload{Name: name, FileName: filepath.Base(args[0]), Content: content})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", t.ID)
			return nil
		},
	}
	upload.Flags().StringVar(&name, "name", "", "template name, defaults to the file name")

	fields := &cobra.Command{
		Use:   "fields <id>",
		Short: "Show a template's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Templates.Fields(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "KEY", "NAME", "TYPE", "REQUIRED")
			for _, f := range t.SampleFields {
				row(tw, f.Key, f.Name, f.Type, f.Required)
			}
			return tw.Flush()
		},
	}

	open := &cobra.Command{
		Use:   "open <id>",
		Short: "Download a template's file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := a.client.Templates.OpenFile(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			return a.save(cmd, obj)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Templates.Delete(ctxOf(cmd), args[0])
		},
	}

	cmd.AddCommand(list, upload, fields, open, del)
	return cmd
}

// parseFields turns key=value pairs into a contract form.
func parseFields(pairs []string) (contracts.Form, error) {
	form := contracts.Form{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", p)
		}
		form[k] = v
	}
	return form, nil
}

func newContractsCmd(a *app) *cobra.Command {
	cmd := a.withSession(&cobra.Command{
		Use:     "contracts",
		Aliases: []string{"documentations"},
		Short:   "Manage contracts",
	})

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Contracts.List(ctxOf(cmd), pf.page, pf.size, pf.search)
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout(), "ID", "NAME", "TEMPLATE", "STATUS", "CREATED")
			for _, c := range page.Items {
				row(tw, c.ID, c.Name, c.SampleName, c.Status, c.CreatedAt)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page.Page, page.TotalPages, page.TotalElements)
			return nil
		},
	}
	pf.bind(list)

	var (
		name     string
		sampleID string
		fields   []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a contract from a template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := parseFields(fields)
			if err != nil {
				return err
			}
			form["name"] = name
			form["sampleId"] = sampleID
			c, err := a.client.Contracts.Create(ctxOf(cmd), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", c.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "contract name")
	create.Flags().StringVar(&sampleID, "template", "", "template id")
	create.Flags().StringSliceVar(&fields, "field", nil, "template field as key=value, repeatable")

	var genFields []string
	generate := &cobra.Command{
		Use:   "generate <id>...",
		Short: "Generate documents for contracts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := parseFields(genFields)
			if err != nil {
				return err
			}
			return a.client.Contracts.Generate(ctxOf(cmd), args, form)
		},
	}
	generate.Flags().StringSliceVar(&genFields, "field", nil, "form value as key=value, repeatable")

	var format string
	open := &cobra.Command{
		Use:   "open <id>",
		Short: "Download a contract rendered as pdf or docx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := a.client.Contracts.OpenFile(ctxOf(cmd), args[0], format)
			if err != nil {
				return err
			}
			return a.save(cmd, obj)
		},
	}
	open.Flags().StringVar(&format, "format", "docx", "pdf or docx")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Contracts.Delete(ctxOf(cmd), args[0])
		},
	}

	cmd.AddCommand(list, create, generate, open, del)
	return cmd
}

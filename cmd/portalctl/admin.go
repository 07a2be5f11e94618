package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WailSalutem-Health-Care/care-portal/internal/admin"
	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/pagination"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage doctor, patient and admin accounts",
	}
	cmd.AddCommand(
		c.adminListCmd(),
		c.adminAddCmd("add-doctor", admin.TabDoctors),
		c.adminAddCmd("add-patient", admin.TabPatients),
		c.adminUpdateCmd("update-doctor", admin.TabDoctors),
		c.adminUpdateCmd("update-patient", admin.TabPatients),
		c.adminDeleteCmd(),
	)
	return cmd
}

func (c *cli) adminScreen(ctx context.Context, permission string) (*admin.Screen, error) {
	sc, _, err := c.requirePermission(ctx, permission)
	if err != nil {
		return nil, err
	}
	return admin.NewScreen(c.backend(sc), messaging.NopPublisher{}), nil
}

func (c *cli) printRows(scr *admin.Screen, params pagination.Params) {
	snap := scr.Snapshot()
	page, meta := pagination.Slice(snap.Visible, params)

	rows := make([][]string, 0, len(page))
	for _, row := range admin.Rows(snap.Tab, page) {
		rows = append(rows, []string{row.ID.String(), row.Name, row.Email, row.Info})
	}
	table(c.out, []string{"ID", "NAME", "EMAIL", "INFO"}, rows)
	c.printf("page %d/%d, %d %s\n", meta.CurrentPage, meta.TotalPages, meta.TotalRecords, snap.Tab)
}

func (c *cli) adminListCmd() *cobra.Command {
	var (
		tab    string
		search string
		params pagination.Params
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts of a tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := admin.ParseTab(tab)
			if err != nil {
				return err
			}
			scr, err := c.adminScreen(cmd.Context(), auth.PermAccountsView)
			if err != nil {
				return err
			}
			if err := scr.SwitchTab(cmd.Context(), t); err != nil {
				return explain(err)
			}
			scr.SetSearch(search)
			params.Normalize()
			c.printRows(scr, params)
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(admin.TabDoctors), "doctors, patients or admins")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or email")
	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", pagination.DefaultLimit, "rows per page")
	return cmd
}

// applyDraft decodes the flag fields into the open modal's draft.
func applyDraft(scr *admin.Screen, tab admin.Tab, fields map[string]string) error {
	var err error
	if tab == admin.TabDoctors {
		scr.EditDoctor(func(d *shape.DoctorDraft) { err = applyFields(fields, d) })
	} else {
		scr.EditPatient(func(p *shape.PatientDraft) { err = applyFields(fields, p) })
	}
	return err
}

func (c *cli) adminAddCmd(use string, tab admin.Tab) *cobra.Command {
	var fields map[string]string
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Add a %s", tab.Role()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, err := c.adminScreen(cmd.Context(), auth.PermAccountsCreate)
			if err != nil {
				return err
			}
			if err := scr.Open(tab); err != nil {
				return err
			}
			if err := scr.OpenAdd(); err != nil {
				return err
			}
			if err := applyDraft(scr, tab, fields); err != nil {
				return fmt.Errorf("invalid field: %w", err)
			}
			if err := scr.Save(cmd.Context()); err != nil {
				return explain(err)
			}
			c.printf("Added %s\n", tab.Role())
			c.printRows(scr, pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit})
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "form field as key=value (repeatable)")
	return cmd
}

func (c *cli) adminUpdateCmd(use string, tab admin.Tab) *cobra.Command {
	var fields map[string]string
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Update a %s; omitted fields keep their current value", tab.Role()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := entity.ParseID(args[0])
			if err != nil {
				return err
			}
			scr, err := c.adminScreen(cmd.Context(), auth.PermAccountsUpdate)
			if err != nil {
				return err
			}
			if err := scr.SwitchTab(cmd.Context(), tab); err != nil {
				return explain(err)
			}
			rec, ok := scr.FindRecord(id)
			if !ok {
				return fmt.Errorf("no %s with id %s", tab.Role(), id)
			}
			if err := scr.OpenEdit(rec); err != nil {
				return err
			}
			if err := applyDraft(scr, tab, fields); err != nil {
				return fmt.Errorf("invalid field: %w", err)
			}
			if err := scr.Save(cmd.Context()); err != nil {
				return explain(err)
			}
			c.printf("Updated %s %s\n", tab.Role(), id)
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "form field as key=value (repeatable)")
	return cmd
}

func (c *cli) adminDeleteCmd() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := admin.ParseTab(tab)
			if err != nil {
				return err
			}
			id, err := entity.ParseID(args[0])
			if err != nil {
				return err
			}
			scr, err := c.adminScreen(cmd.Context(), auth.PermAccountsDelete)
			if err != nil {
				return err
			}
			if err := scr.Open(t); err != nil {
				return err
			}
			if err := scr.Delete(cmd.Context(), id); err != nil {
				return explain(err)
			}
			c.printf("Deleted %s %s\n", t.Role(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(admin.TabDoctors), "doctors, patients or admins")
	return cmd
}

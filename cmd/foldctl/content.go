package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	contentCmd := &cobra.Command{Use: "content", Short: "Content record operations"}

	// create
	var valuesJSON, status string
	createCmd := &cobra.Command{
		Use:   "create CONTENTTYPE",
		Short: "Create a content record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]interface{}{}
			if valuesJSON != "" {
				if err := json.Unmarshal([]byte(valuesJSON), &values); err != nil {
					return fmt.Errorf("--values must be a JSON object: %w", err)
				}
			}
			payload := map[string]interface{}{"values": values}
			if status != "" {
				payload["status"] = status
			}
			data, err := doPostJSON("/api/content/"+args[0], payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&valuesJSON, "values", "v", "", "Field values as a JSON object")
	createCmd.Flags().StringVarP(&status, "status", "s", "", "Initial status (draft when omitted)")
	contentCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get CONTENTTYPE ID",
		Short: "Get a content record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("/api/content/%s/%s", args[0], args[1]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	contentCmd.AddCommand(getCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete CONTENTTYPE ID",
		Short: "Delete a content record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doDelete(fmt.Sprintf("/api/content/%s/%s", args[0], args[1]))
		},
	}
	contentCmd.AddCommand(deleteCmd)

	// edit
	var duplicate bool
	editCmd := &cobra.Command{
		Use:   "edit CONTENTTYPE [ID]",
		Short: "Fetch the edit-form context for a record (or a blank one)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/content/" + args[0] + "/edit"
			if len(args) == 2 {
				path = fmt.Sprintf("/api/content/%s/%s/edit", args[0], args[1])
			}
			if duplicate {
				path += "?duplicate=1"
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	editCmd.Flags().BoolVarP(&duplicate, "duplicate", "d", false, "Serve a cleared copy of the record")
	contentCmd.AddCommand(editCmd)

	// relate
	var relationsJSON string
	relateCmd := &cobra.Command{
		Use:   "relate CONTENTTYPE ID",
		Short: "Replace the outgoing relations of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var relations []map[string]interface{}
			if err := json.Unmarshal([]byte(relationsJSON), &relations); err != nil {
				return fmt.Errorf("--relations must be a JSON array: %w", err)
			}
			_, err := doPutJSON(fmt.Sprintf("/api/content/%s/%s/relations", args[0], args[1]),
				map[string]interface{}{"relations": relations})
			return err
		},
	}
	relateCmd.Flags().StringVarP(&relationsJSON, "relations", "r", "", "Relation edges as a JSON array (required)")
	_ = relateCmd.MarkFlagRequired("relations")
	contentCmd.AddCommand(relateCmd)

	rootCmd.AddCommand(contentCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	ctCmd := &cobra.Command{Use: "contenttypes", Short: "Content type schema operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured content types",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/contenttypes")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	ctCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get one content type by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/contenttypes/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	ctCmd.AddCommand(getCmd)

	rootCmd.AddCommand(ctCmd)
}

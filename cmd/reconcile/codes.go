package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/errors"
)

func codesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "codes [CODE...]",
		Short: "List error codes",
		Long: `List the registered error codes with their category and message.

Pass one or more codes to show only those; -v adds the explanation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := args
			if len(codes) == 0 {
				codes = errors.GetAllCodes()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, code := range codes {
				code = strings.ToUpper(code)
				tmpl, ok := errors.GetTemplate(code)
				if !ok {
					tw.Flush()
					return errors.Newf(errors.CategoryCLI, "unknown error code %q", code).
						WithSuggestion("run 'reconcile codes' to list every code")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", code, tmpl.Category, tmpl.Message)
				if verbose && tmpl.Detail != "" {
					fmt.Fprintf(tw, "\t\t%s\n", tmpl.Detail)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the explanation for each code")

	return cmd
}

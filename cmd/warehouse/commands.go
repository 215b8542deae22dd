package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/export"
	"github.com/ivanoskov/warehouse/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products with their category and value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := c.app.Catalog.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := c.app.Catalog.FetchCategories(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
			}
			return w.Flush()
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <quantity> <price> <category>",
		Short: "Add a product to a category",
		Example: `  warehouse add Bolt 100 0.5 Hardware
  warehouse add "Duct tape" 3 2.50 Tools`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			price, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[2], err)
			}

			snapshot, err := c.app.Catalog.InsertProduct(cmd.Context(), service.ProductInput{
				Name:     args[0],
				Quantity: quantity,
				Price:    price,
				Category: args[3],
			})
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}

			snapshot, err := c.app.Catalog.DeleteProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products as CSV or XLSX",
		Long: `Writes the current record set to a file named products_YYYYMMDD_HHMMSS.<format>
in the working directory, or to --output. Use --output - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := c.app.Catalog.Load(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case export.FormatCSV:
				err = export.WriteCSV(&buf, snapshot.Records)
			case export.FormatXLSX:
				err = export.WriteXLSX(&buf, snapshot.Records)
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = export.FileName(format, time.Now())
			}
			return writeOutput(cmd.OutOrStdout(), output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func (c *cli) chartCmd() *cobra.Command {
	var kind, output string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a PNG chart of the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := c.app.Catalog.Load(cmd.Context())
			if err != nil {
				return err
			}

			png, err := charts.NewChartGenerator().Generate(kind, snapshot.Summary)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("chart_%s.png", kind)
			}
			return writeOutput(cmd.OutOrStdout(), output, png)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", charts.KindValue, "value or quantity")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "written %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

func printSnapshot(out io.Writer, snapshot service.Snapshot) error {
	if len(snapshot.Records) == 0 {
		_, err := fmt.Fprintln(out, "store is empty")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tQUANTITY\tPRICE\tVALUE")
	for _, r := range snapshot.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Category,
			humanize.Ftoa(r.Quantity),
			humanize.CommafWithDigits(r.Price, 2),
			humanize.CommafWithDigits(r.Value, 2))
	}
	fmt.Fprintf(w, "\t\t\t\tTOTAL\t%s\n", humanize.CommafWithDigits(snapshot.Summary.TotalValue, 2))
	return w.Flush()
}

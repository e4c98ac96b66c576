// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"needles/cli/internal/boutique"
)

var catalogueCmd = &cobra.Command{
	Use:     "catalogue",
	Aliases: []string{"catalog"},
	Short:   "Manage catalogue items and dress types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showCatalogue(cmd)
	},
}

var catalogueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showCatalogue(cmd)
	},
}

var catalogueAddCmd = &cobra.Command{
	Use:   "add <name=price>...",
	Short: "Add catalogue items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := parseItems(args)
		if err != nil {
			return err
		}
		return mutate(cmd, "/catalogue", "adding catalogue items", fmt.Sprintf("Added %d item(s)", len(items)),
			func(a *app) (boutique.Record, error) { return a.boutique.AddCatalogueItems(cmd.Context(), items) })
	},
}

var catalogueDeleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Delete catalogue items by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "/catalogue", "deleting catalogue items", fmt.Sprintf("Deleted %d item(s)", len(args)),
			func(a *app) (boutique.Record, error) { return a.boutique.DeleteCatalogueItems(cmd.Context(), args) })
	},
}

var dressTypesCmd = &cobra.Command{
	Use:   "dress-types",
	Short: "List dress types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/catalogue")
		if err != nil {
			return err
		}
		defer a.Close()

		var types []boutique.Record
		err = withSpinner("Fetching dress types", func() error {
			types, err = a.boutique.DressTypes(cmd.Context())
			return err
		})
		if err != nil {
			return a.fail(err, "fetching dress types")
		}
		return renderRecords("dress types", types, []string{"dressType", "measurementRequirements", "sampleImages"})
	},
}

var (
	dressTypeFields []string
	dressTypeImages []string
)

var addDressTypeCmd = &cobra.Command{
	Use:   "add-dress-type <dress-type>",
	Short: "Add a dress type with optional sample images",
	Long: `Add a dress type. Extra form fields are passed with --field key=value,
for example --field 'measurementRequirements=["bust","waist"]'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFormFields(dressTypeFields)
		if err != nil {
			return err
		}
		fields["dressType"] = args[0]
		images, closeImages, err := openImages(dressTypeImages)
		defer closeImages()
		if err != nil {
			return err
		}
		return mutate(cmd, "/catalogue", "adding the dress type", "Dress type added",
			func(a *app) (boutique.Record, error) { return a.boutique.AddDressType(cmd.Context(), fields, images) })
	},
}

var deleteDressTypeCmd = &cobra.Command{
	Use:   "delete-dress-type <dress-type>",
	Short: "Delete a dress type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "/catalogue", "deleting the dress type", "Dress type deleted",
			func(a *app) (boutique.Record, error) {
				return a.boutique.DeleteDressType(cmd.Context(), a.auth.BoutiqueID(), args[0])
			})
	},
}

func showCatalogue(cmd *cobra.Command) error {
	a, err := newApp(cmd, "/catalogue")
	if err != nil {
		return err
	}
	defer a.Close()

	var c *boutique.Catalogue
	err = withSpinner("Fetching catalogue", func() error {
		c, err = a.boutique.Catalogue(cmd.Context())
		return err
	})
	if err != nil {
		return a.fail(err, "fetching the catalogue")
	}
	return renderRecords(c.BoutiqueName+" catalogue", c.Items, []string{"itemName", "price"})
}

// mutate runs one write operation at route and reports the result.
func mutate(cmd *cobra.Command, route, action, success string, op func(*app) (boutique.Record, error)) error {
	a, err := newApp(cmd, route)
	if err != nil {
		return err
	}
	defer a.Close()

	var res boutique.Record
	err = withSpinner("Working", func() error {
		res, err = op(a)
		return err
	})
	if err != nil {
		return a.fail(err, action)
	}
	return printResult(res, success)
}

func init() {
	addDressTypeCmd.Flags().StringArrayVar(&dressTypeFields, "field", nil, "Extra form field as key=value (repeatable)")
	addDressTypeCmd.Flags().StringArrayVar(&dressTypeImages, "image", nil, "Sample image file (repeatable)")
	catalogueCmd.AddCommand(catalogueListCmd, catalogueAddCmd, catalogueDeleteCmd, dressTypesCmd, addDressTypeCmd, deleteDressTypeCmd)
	rootCmd.AddCommand(catalogueCmd)
}

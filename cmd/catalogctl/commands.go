package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"catalogcore/pkg/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage products, stock, recommendations and suppliers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.persist(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (default $CATALOGCORE_CONFIG)")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "write one JSON trace line per operation to stderr")
	root.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print operation counters to stderr on exit")

	root.AddCommand(
		newProductCmd(a),
		newSearchCmd(a),
		newStockCmd(a),
		newOrderCmd(a),
		newRecommendCmd(a),
		newSupplierCmd(a),
	)
	return root
}

func mutating(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[mutatingAnnotation] = "true"
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Manage catalog products"}

	var (
		product domain.Product
		stock   int
	)
	add := mutating(&cobra.Command{
		Use:   "add",
		Short: "Add a product with its initial stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(product.ID) == "" {
				product.ID = uuid.NewString()
			}
			added, err := a.svc.AddProduct(cmd.Context(), product, stock)
			if err != nil {
				return err
			}
			return printJSON(cmd, added)
		},
	})
	add.Flags().StringVar(&product.ID, "id", "", "product id (generated when empty)")
	add.Flags().StringVar(&product.Name, "name", "", "product name")
	add.Flags().StringVar(&product.Description, "description", "", "product description")
	add.Flags().Float64Var(&product.Price, "price", 0, "unit price")
	add.Flags().StringVar(&product.Category, "category", "", "category (default "+domain.DefaultCategory+")")
	add.Flags().IntVar(&stock, "stock", 0, "initial quantity on hand")
	_ = add.MarkFlagRequired("name")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}

	var (
		name, description, category string
		price                       float64
	)
	update := mutating(&cobra.Command{
		Use:   "update ID",
		Short: "Change product fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u domain.ProductUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &name
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("price") {
				u.Price = &price
			}
			if flags.Changed("category") {
				u.Category = &category
			}
			if u.IsEmpty() {
				return fmt.Errorf("nothing to update: set at least one of --name, --description, --price, --category")
			}
			p, err := a.svc.UpdateProduct(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	})
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&description, "description", "", "new description")
	update.Flags().Float64Var(&price, "price", 0, "new price")
	update.Flags().StringVar(&category, "category", "", "new category")

	remove := mutating(&cobra.Command{
		Use:   "remove ID",
		Short: "Remove a product and its stock entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.RemoveProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	})

	list := &cobra.Command{
		Use:   "list",
		Short: "List products in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, a.svc.ListProducts(cmd.Context()))
		},
	}

	cmd.AddCommand(add, get, update, remove, list)
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [PREFIX]",
		Short: "Find products whose name starts with PREFIX",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return printJSON(cmd, a.svc.SearchProducts(cmd.Context(), prefix))
		},
	}
}

func newStockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Inspect and change stock levels"}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show the quantity on hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.svc.GetStock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, domain.StockEntry{ProductID: args[0], Quantity: q})
		},
	}

	set := mutating(&cobra.Command{
		Use:   "set ID QUANTITY",
		Short: "Overwrite the quantity on hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			if err := a.svc.SetStock(cmd.Context(), args[0], q); err != nil {
				return err
			}
			return printJSON(cmd, domain.StockEntry{ProductID: args[0], Quantity: q})
		},
	})

	var delta int
	adjust := mutating(&cobra.Command{
		Use:   "adjust ID --delta N",
		Short: "Add (or with a negative delta, withdraw) stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.svc.AdjustStock(cmd.Context(), args[0], delta)
			if err != nil {
				return err
			}
			return printJSON(cmd, domain.StockEntry{ProductID: args[0], Quantity: q})
		},
	})
	adjust.Flags().IntVar(&delta, "delta", 0, "quantity change")
	_ = adjust.MarkFlagRequired("delta")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stock entries ordered by product id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, a.svc.ListStock(cmd.Context()))
		},
	}

	cmd.AddCommand(get, set, adjust, list)
	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "order", Short: "Record purchases"}

	record := mutating(&cobra.Command{
		Use:   "record ID...",
		Short: "Record products bought together without touching stock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.RecordOrder(cmd.Context(), args); err != nil {
				return err
			}
			return printJSON(cmd, map[string][]string{"recorded": args})
		},
	})

	place := mutating(&cobra.Command{
		Use:   "place ID:QTY...",
		Short: "Withdraw stock for every line and record the purchase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseOrderLines(args)
			if err != nil {
				return err
			}
			remaining, err := a.svc.PlaceOrder(cmd.Context(), lines)
			if err != nil {
				return err
			}
			return printJSON(cmd, remaining)
		},
	})

	cmd.AddCommand(record, place)
	return cmd
}

// parseOrderLines reads "id:qty" pairs. A bare id orders one unit.
func parseOrderLines(args []string) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0, len(args))
	for _, arg := range args {
		id, qty, found := strings.Cut(arg, ":")
		line := domain.OrderLine{ProductID: id, Quantity: 1}
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil {
				return nil, fmt.Errorf("order line %q: %w", arg, err)
			}
			line.Quantity = n
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func newRecommendCmd(a *app) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "recommend ID",
		Short: "Show products most often bought with ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, a.svc.Recommendations(cmd.Context(), args[0], k))
		},
	}
	cmd.Flags().IntVarP(&k, "top", "k", 5, "maximum number of recommendations")
	return cmd
}

func newSupplierCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "supplier", Short: "Manage suppliers and what they supply"}

	var supplier domain.Supplier
	add := mutating(&cobra.Command{
		Use:   "add",
		Short: "Register a supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(supplier.ID) == "" {
				supplier.ID = uuid.NewString()
			}
			added, err := a.svc.AddSupplier(cmd.Context(), supplier)
			if err != nil {
				return err
			}
			return printJSON(cmd, added)
		},
	})
	add.Flags().StringVar(&supplier.ID, "id", "", "supplier id (generated when empty)")
	add.Flags().StringVar(&supplier.Name, "name", "", "supplier name")
	add.Flags().StringVar(&supplier.ContactInfo, "contact", "", "contact details")
	_ = add.MarkFlagRequired("name")

	link := mutating(&cobra.Command{
		Use:   "link SUPPLIER_ID PRODUCT_ID",
		Short: "Record that a supplier provides a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.LinkSupplier(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return printJSON(cmd, domain.SupplyLink{SupplierID: args[0], ProductID: args[1]})
		},
	})

	list := &cobra.Command{
		Use:   "list",
		Short: "List suppliers in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, a.svc.ListSuppliers(cmd.Context()))
		},
	}

	products := &cobra.Command{
		Use:   "products SUPPLIER_ID",
		Short: "List product ids a supplier provides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, a.svc.ProductsForSupplier(cmd.Context(), args[0]))
		},
	}

	forProduct := &cobra.Command{
		Use:   "for-product PRODUCT_ID",
		Short: "List suppliers of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, a.svc.SuppliersForProduct(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(add, link, list, products, forProduct)
	return cmd
}

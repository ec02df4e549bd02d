package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"go-restaurant/cart"
	"go-restaurant/models"
	"go-restaurant/pricing"
	"go-restaurant/storage"
)

var (
	cartSession string
	itemName    string
	itemPrice   string
	delta       int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and edit a cart kept in the data directory",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add one unit of a dish; menu ids need no --name or --price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := resolveItem(models.DefaultMenu(), args[0], itemName, itemPrice)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		store, err := openCLICart(cmd.Context(), out)
		if err != nil {
			return err
		}
		if err := store.Add(cmd.Context(), item); err != nil {
			return err
		}
		printView(out, store.View())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCLICart(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := store.Remove(cmd.Context(), models.ItemID(args[0])); err != nil {
			return err
		}
		printView(cmd.OutOrStdout(), store.View())
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a line's quantity by --delta",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCLICart(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := store.UpdateQuantity(cmd.Context(), models.ItemID(args[0]), delta); err != nil {
			return err
		}
		printView(cmd.OutOrStdout(), store.View())
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCLICart(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		printView(cmd.OutOrStdout(), store.View())
		return nil
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart and its totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCLICart(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		printView(cmd.OutOrStdout(), store.View())
		return nil
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Hand the cart to the booking flow and empty it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCLICart(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		snapshot, err := store.Checkout(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checkout ready: %d line(s), total %s\nContinue at %s\n",
			len(snapshot.Items), pricing.Format(snapshot.Total), cart.CheckoutRedirect)
		return nil
	},
}

func init() {
	cartCmd.PersistentFlags().StringVar(&cartSession, "session", "cli", "session whose cart is edited")
	cartAddCmd.Flags().StringVar(&itemName, "name", "", "dish name for items not on the menu")
	cartAddCmd.Flags().StringVar(&itemPrice, "price", "", "dish price for items not on the menu")
	cartUpdateCmd.Flags().IntVar(&delta, "delta", 1, "quantity change, negative to decrease")

	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartUpdateCmd, cartClearCmd, cartShowCmd, cartCheckoutCmd)
}

func openCLICart(ctx context.Context, out io.Writer) (*cart.Store, error) {
	kv, err := storage.NewFileKV(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	repo := storage.NewCartRepository(kv, cartSession, logger)
	return cart.Open(ctx, repo,
		cart.WithLogger(logger),
		cart.WithAddedHook(func(line models.LineItem) {
			fmt.Fprintln(out, cart.AddedMessage(line))
		}),
	)
}

// resolveItem looks id up on the menu unless name and price describe a
// custom dish. Menu ids keep the menu's price either way.
func resolveItem(menu models.Menu, id, name, price string) (models.CatalogItem, error) {
	if name == "" && price == "" {
		dish, ok := menu.Find(models.ItemID(id))
		if !ok {
			return models.CatalogItem{}, fmt.Errorf("no menu item with id %q; pass --name and --price for custom items", id)
		}
		return dish.CatalogItem, nil
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("price %q: %w", price, err)
	}
	item := models.CatalogItem{ID: models.ItemID(id), Name: name, Price: amount}
	if err := item.Validate(); err != nil {
		return models.CatalogItem{}, err
	}
	return menu.Resolve(item)
}

func printView(out io.Writer, view cart.ViewModel) {
	if view.Empty {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tPRICE\tTOTAL")
	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", row.ID, row.Name, row.Quantity, row.PriceText, row.LineTotalText)
	}
	tw.Flush()

	fmt.Fprintf(out, "Items: %d\n", view.BadgeCount)
	fmt.Fprintf(out, "Subtotal: %s\n", view.SubtotalText)
	if view.DiscountVisible {
		fmt.Fprintf(out, "Discount (10%%): %s\n", view.DiscountText)
	}
	fmt.Fprintf(out, "Total: %s\n", view.TotalText)
}

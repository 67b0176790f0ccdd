// Command shopctl is a small terminal client for the ecomstore API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ecomstore/internal/client"
	"ecomstore/internal/model"
)

const usage = `usage: shopctl [-addr URL] [-token TOKEN] <command> [flags]

commands:
  login      -email -password      print a bearer token
  products   [-search -min -max -category]
  buy        -product -qty -address
  orders
  cancel     -id
  dashboard  products and orders side by side

admin commands:
  product-add   -name -price -stock [-description -category]
  product-edit  -id [-name -price -stock -description -category]
  product-rm    -id
  status        -id -status Pending|Shipped|Delivered
`

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	fs := flag.NewFlagSet("shopctl", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	addr := fs.String("addr", envOr("SHOPCTL_ADDR", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("SHOPCTL_TOKEN"), "bearer token")
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.NewClient(client.Config{BaseURL: *addr, Token: *token})
	if err := dispatch(ctx, c, os.Stdout, fs.Arg(0), fs.Args()[1:]); err != nil {
		log.Error().Err(err).Str("command", fs.Arg(0)).Msg("command failed")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dispatch(ctx context.Context, c *client.Client, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "login":
		return runLogin(ctx, c, out, args)
	case "products":
		return runProducts(ctx, c, out, args)
	case "buy":
		return runBuy(ctx, c, out, args)
	case "orders":
		orders, err := c.ListOrders(ctx)
		if err != nil {
			return err
		}
		printOrders(out, orders)
		return nil
	case "cancel":
		return runCancel(ctx, c, out, args)
	case "product-add":
		return runProductAdd(ctx, c, out, args)
	case "product-edit":
		return runProductEdit(ctx, c, out, args)
	case "product-rm":
		return runProductRemove(ctx, c, out, args)
	case "status":
		return runStatus(ctx, c, out, args)
	case "dashboard":
		d, err := c.Dashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "PRODUCTS")
		printProducts(out, d.Products)
		fmt.Fprintln(out, "\nORDERS")
		printOrders(out, d.Orders)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runLogin(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s (%s)\n", res.User.Name, res.User.Role)
	fmt.Fprintln(out, res.Token)
	return nil
}

func runProducts(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	search := fs.String("search", "", "name or description contains")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	category := fs.String("category", "", "exact category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := model.ProductFilter{Search: *search, Category: *category}
	var err error
	if f.MinPrice, err = parsePrice(*minPrice); err != nil {
		return fmt.Errorf("-min: %w", err)
	}
	if f.MaxPrice, err = parsePrice(*maxPrice); err != nil {
		return fmt.Errorf("-max: %w", err)
	}

	products, err := c.ListProducts(ctx, f)
	if err != nil {
		return err
	}
	printProducts(out, products)
	return nil
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func runBuy(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	product := fs.Int("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	address := fs.String("address", "", "delivery address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.PlaceOrder(ctx, client.OrderRequest{
		ProductID:       *product,
		Quantity:        *qty,
		DeliveryAddress: *address,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: #%d %s x%d = %s (%s)\n",
		res.Message, res.OrderID, res.Product, res.Quantity, res.TotalPrice.StringFixed(2), res.Status)
	return nil
}

func runCancel(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	id := fs.Int("id", 0, "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := c.CancelOrder(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}

func runProductAdd(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("product-add", flag.ContinueOnError)
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "unit price")
	stock := fs.Int("stock", 0, "units in stock")
	category := fs.String("category", "", "category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := parsePrice(*price)
	if err != nil {
		return fmt.Errorf("-price: %w", err)
	}
	if p == nil {
		return errors.New("-price is required")
	}

	created, err := c.CreateProduct(ctx, client.ProductRequest{
		Name:        *name,
		Description: *description,
		Price:       *p,
		Stock:       *stock,
		Category:    *category,
	})
	if err != nil {
		return err
	}
	printProducts(out, []model.Product{*created})
	return nil
}

// runProductEdit sends only the flags given on the command line.
func runProductEdit(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("product-edit", flag.ContinueOnError)
	id := fs.Int("id", 0, "product id")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "unit price")
	stock := fs.Int("stock", 0, "units in stock")
	category := fs.String("category", "", "category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var u model.ProductUpdate
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			u.Name = name
		case "description":
			u.Description = description
		case "stock":
			u.Stock = stock
		case "category":
			u.Category = category
		case "price":
			u.Price, err = parsePrice(*price)
		}
	})
	if err != nil {
		return fmt.Errorf("-price: %w", err)
	}

	p, err := c.UpdateProduct(ctx, *id, u)
	if err != nil {
		return err
	}
	printProducts(out, []model.Product{*p})
	return nil
}

func runProductRemove(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("product-rm", flag.ContinueOnError)
	id := fs.Int("id", 0, "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := c.DeleteProduct(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}

func runStatus(ctx context.Context, c *client.Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	id := fs.Int("id", 0, "order id")
	status := fs.String("status", "", "Pending, Shipped or Delivered")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := c.UpdateOrderStatus(ctx, *id, model.OrderStatus(*status))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}

func printProducts(out io.Writer, products []model.Product) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Stock)
	}
	tw.Flush()
}

func printOrders(out io.Writer, orders []model.OrderView) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPRODUCT\tQTY\tTOTAL\tSTATUS\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			o.OrderID, o.Customer, o.Product, o.Quantity, o.TotalPrice.StringFixed(2), o.Status,
			o.CreatedAt.Format(time.DateTime))
	}
	tw.Flush()
}

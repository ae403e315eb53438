package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/shop"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("invalid usage, run storefront -h")

type command struct {
	manager  *shop.Manager
	out      io.Writer
	currency string
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {

	switch name {
	case "products":
		return c.products()
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.manager.Logout(ctx)
	case "whoami":
		return c.whoami()
	case "cart":
		return c.cart()
	case "add":
		return c.add(ctx, args)
	case "set":
		return c.set(ctx, args)
	case "remove":
		return c.remove(ctx, args)
	case "checkout":
		return c.checkout(ctx, args)
	case "orders":
		return c.orders(ctx, args)
	case "cancel":
		return c.cancel(ctx, args)
	default:
		return fmt.Errorf("unknown command %q: %w", name, errUsage)
	}
}

func (c *command) money(d decimal.Decimal) string {
	return c.currency + d.StringFixed(2)
}

func (c *command) products() error {

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSIZES")

	for _, p := range c.manager.Products() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, c.money(p.Price), strings.Join(p.Sizes, ","))
	}

	return w.Flush()
}

func (c *command) register(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password, at least 8 characters")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" || *password == "" {
		return errUsage
	}

	if err := c.manager.Register(ctx, *name, *email, *password); err != nil {
		return err
	}

	return c.whoami()
}

func (c *command) login(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	if err := c.manager.Login(ctx, *email, *password); err != nil {
		return err
	}

	return c.whoami()
}

func (c *command) whoami() error {

	sess := c.manager.Session()
	if sess == nil || sess.User == nil {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}

	fmt.Fprintf(c.out, "%s <%s> (%s)\n", sess.User.Name, sess.User.Email, c.manager.State())
	return nil
}

func (c *command) cart() error {

	lines := c.manager.Lines()
	if len(lines) == 0 {
		fmt.Fprintf(c.out, "cart is empty (%s)\n", c.manager.State())
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tSIZE\tQTY\tPRICE")

	for _, line := range lines {
		name, price := "(unavailable)", "-"
		if p, ok := c.manager.Product(line.ProductID); ok {
			name, price = p.Name, c.money(p.Price)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", line.ID, name, line.Size, line.Quantity, price)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\nitems: %d\nsubtotal: %s\ndelivery: %s\ntotal: %s\n",
		c.manager.Count(), c.money(c.manager.Amount()), c.money(c.manager.DeliveryFee()), c.money(c.manager.Total()))

	return nil
}

func (c *command) add(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	product := fs.String("product", "", "product id")
	size := fs.String("size", "", "size")
	qty := fs.Int("qty", 1, "quantity")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*product)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	if err := c.manager.AddItem(ctx, id, *size, *qty); err != nil {
		return err
	}

	return c.cart()
}

func (c *command) set(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	line := fs.String("line", "", "cart line id")
	qty := fs.Int("qty", 1, "new quantity")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*line)
	if err != nil {
		return fmt.Errorf("invalid line id: %w", err)
	}

	if err := c.manager.SetQuantity(ctx, id, *qty); err != nil {
		return err
	}

	return c.cart()
}

func (c *command) remove(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	line := fs.String("line", "", "cart line id")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*line)
	if err != nil {
		return fmt.Errorf("invalid line id: %w", err)
	}

	if err := c.manager.RemoveItem(ctx, id); err != nil {
		return err
	}

	return c.cart()
}

func (c *command) checkout(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var addr models.ShippingAddress
	fs.StringVar(&addr.Name, "name", "", "recipient name")
	fs.StringVar(&addr.Address, "address", "", "street address")
	fs.StringVar(&addr.City, "city", "", "city")
	fs.StringVar(&addr.State, "state", "", "state")
	fs.StringVar(&addr.PostalCode, "postal", "", "postal code")
	fs.StringVar(&addr.Country, "country", "", "country")
	fs.StringVar(&addr.Phone, "phone", "", "phone")
	fs.StringVar(&addr.Email, "email", "", "contact email")
	payment := fs.String("payment", string(models.PaymentMethodCOD), "COD, CARD or PAYPAL")

	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.manager.Checkout(ctx, addr, models.PaymentMethod(strings.ToUpper(*payment)))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s\norder: %s\ntotal: %s\n", resp.Message, resp.OrderID, c.money(resp.TotalAmount))
	return nil
}

func (c *command) orders(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 10, "page size")

	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.manager.Orders(ctx, *page, *size)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPLACED\tSTATUS\tPAYMENT\tTOTAL")

	for _, o := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%s\n",
			o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, o.PaymentMethod, o.PaymentStatus, c.money(o.TotalAmount))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if result.HasMore {
		fmt.Fprintf(c.out, "\nmore orders: -page %d\n", result.Page+1)
	}

	return nil
}

func (c *command) cancel(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	order := fs.String("order", "", "order id")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*order)
	if err != nil {
		return fmt.Errorf("invalid order id: %w", err)
	}

	cancelled, err := c.manager.CancelOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "order %s is %s\n", cancelled.ID, cancelled.Status)
	return nil
}

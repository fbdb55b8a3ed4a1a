// Package application runs the interactive inventory menu.
package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/csvio"
	"github.com/JonMunkholm/inventory/internal/importer"
	"github.com/JonMunkholm/inventory/internal/inventory"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/dustin/go-humanize"
)

const (
	bannerRule = "########################################"
	rule       = "-----------------------------------"
)

// Searcher lists products whose id contains a search token.
type Searcher interface {
	List(ctx context.Context, search string) ([]inventory.Product, error)
}

// Importer reloads the inventory CSV into the store.
type Importer interface {
	Run(ctx context.Context) (importer.Result, error)
	Path() string
}

// Exporter writes the backup snapshot.
type Exporter interface {
	Run(ctx context.Context) (int, error)
	CSVPath() string
}

// Session is one interactive run of the main menu over a line-based
// input and output.
type Session struct {
	products Searcher
	importer Importer
	exporter Exporter

	in    *bufio.Scanner
	out   io.Writer
	now   func() time.Time
	clear func()

	menu []MenuItem
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for dates and relative ages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithClear sets the screen clear hook. The default does nothing.
func WithClear(clear func()) Option {
	return func(s *Session) { s.clear = clear }
}

// New builds a session reading commands from in and writing to out.
func New(products Searcher, im Importer, ex Exporter, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		products: products,
		importer: im,
		exporter: ex,
		in:       bufio.NewScanner(in),
		out:      out,
		now:      time.Now,
		clear:    func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.menu = buildMenu(s)
	return s
}

// Menu returns the main menu entries in display order.
func (s *Session) Menu() []MenuItem { return s.menu }

// Run loops on the main menu until the user quits or input ends.
// Errors from the store, importer or exporter end the session.
func (s *Session) Run(ctx context.Context) error {
	ctx, _ = logging.WithRunID(ctx)
	log := logging.FromContext(ctx)
	log.Info("session started")

	s.clear()
	fmt.Fprintln(s.out, bannerRule)
	fmt.Fprintf(s.out, "%15s  Main Menu\n", "")
	fmt.Fprintln(s.out, bannerRule)
	fmt.Fprintln(s.out, "Welcome to the store inventory.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out, "\nEnter 'q' to quit.")
		fmt.Fprintln(s.out)
		for _, item := range s.menu {
			if item.Action == ActionQuit {
				continue
			}
			fmt.Fprintf(s.out, "%s) %s\n", item.Key, item.Label)
		}

		choice, err := s.prompt("\nAction: ")
		if errors.Is(err, io.EOF) {
			log.Info("session ended", "reason", "eof")
			return nil
		}
		if err != nil {
			return err
		}

		item, ok := lookup(s.menu, strings.ToLower(strings.TrimSpace(choice)))
		if !ok {
			continue
		}
		if item.Action == ActionQuit {
			log.Info("session ended", "reason", "quit")
			return nil
		}

		log.Debug("menu action", "action", item.Action.String())
		s.clear()
		if err := item.Run(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("session ended", "reason", "eof")
				return nil
			}
			log.Error("menu action failed", "action", item.Action.String(), "error", err)
			return fmt.Errorf("%s: %w", item.Action, err)
		}
	}
}

// prompt writes label and reads one line. It returns io.EOF once input
// is exhausted.
func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

/* ----------------------------------------
	ADD
---------------------------------------- */

func (s *Session) add(ctx context.Context) error {
	fmt.Fprintln(s.out, rule)

	var name string
	for {
		line, err := s.prompt("\nWhat is your product name: ")
		if err != nil {
			return err
		}
		if name = strings.TrimSpace(line); name != "" {
			break
		}
		fmt.Fprintln(s.out, "Enter a valid product name.")
		fmt.Fprintln(s.out, "You might've hit the enter key on accident.")
	}

	var price int64
	for {
		line, err := s.prompt("Price of the product: ")
		if err != nil {
			return err
		}
		if price, err = inventory.ParseDollars(line); err == nil {
			break
		}
		fmt.Fprintln(s.out, "Try again, format: (0.00)")
	}

	var qty int
	for {
		line, err := s.prompt("Quantity of product: ")
		if err != nil {
			return err
		}
		if qty, err = inventory.ParseWholeQuantity(line); err == nil {
			break
		}
		fmt.Fprintln(s.out, "Please enter an integer.")
	}

	record := []string{
		name,
		strconv.FormatInt(price, 10),
		strconv.Itoa(qty),
		inventory.FormatCSVDate(s.now()),
	}

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "%s | price: %s | quantity: %d\n", name, inventory.FormatPrice(price), qty)
	fmt.Fprintln(s.out, strings.Join(record, ","))
	answer, err := s.prompt("Save Entry? [Yn] ")
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(answer), "n") {
		fmt.Fprintln(s.out, "Entry discarded.")
		return nil
	}

	if err := csvio.AppendRecord(s.importer.Path(), record); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	fmt.Fprintln(s.out, "Saved successfully!")

	if _, err := s.importer.Run(ctx); err != nil {
		return err
	}
	return nil
}

/* ----------------------------------------
	VIEW
---------------------------------------- */

func (s *Session) view(ctx context.Context) error {
	token, err := s.prompt("Search: ")
	if err != nil {
		return err
	}

	products, err := s.products.List(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products found.")
		return nil
	}

	for _, p := range products {
		s.clear()
		s.printProduct(p)

		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "n) next entry")
		fmt.Fprintln(s.out, "q) return to main menu")
		fmt.Fprintln(s.out, rule)

		next, err := s.prompt("Action: [Nq] ")
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(next), "q") {
			return nil
		}
	}
	return nil
}

func (s *Session) printProduct(p inventory.Product) {
	stamp := inventory.FormatTimestamp(p.UpdatedAt)
	underline := strings.Repeat("=", len(stamp))

	fmt.Fprintln(s.out, stamp)
	fmt.Fprintln(s.out, underline)
	fmt.Fprintf(s.out, "%d %s | price: %s | quantity: %d\n",
		p.ID, p.Name, inventory.FormatPrice(p.Price), p.Quantity)
	fmt.Fprintln(s.out, underline)
	fmt.Fprintf(s.out, "updated %s\n", humanize.RelTime(p.UpdatedAt, s.now(), "ago", "from now"))
}

/* ----------------------------------------
	BACKUP
---------------------------------------- */

func (s *Session) backup(ctx context.Context) error {
	fmt.Fprintln(s.out, "Loading...")

	if _, err := s.exporter.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Sync completed. %s uploaded.\n", filepath.Base(s.exporter.CSVPath()))
	fmt.Fprintln(s.out, inventory.FormatCSVDate(s.now()))
	return nil
}

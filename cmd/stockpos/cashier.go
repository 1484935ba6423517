package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openpoint/stockpos/internal/app"
	"github.com/openpoint/stockpos/internal/pos"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// cmdCashier runs the interactive checkout session. Plain lines are treated
// as barcode detections from a manual-entry sensor; session commands steer
// the cart and the commit.
func cmdCashier(ctx context.Context, a *app.Application) error {
	cfg := a.Config()
	gate := pos.NewScanGate(cfg.DebounceWindow(), cfg.CooldownWindow())
	cart := pos.NewCart(a.Store(), gate)
	committer := pos.NewCommitter(a.Store(), a.Store())
	session := pos.NewSession(a.Bus(), cart, committer)

	if err := session.Attach(); err != nil {
		return err
	}
	defer func() { _ = session.Detach() }()

	if err := a.Bus().Subscribe(pos.TopicScanOutcome, printOutcome); err != nil {
		return err
	}
	defer func() { _ = a.Bus().Unsubscribe(pos.TopicScanOutcome, printOutcome) }()

	fmt.Println("cashier session: scan a barcode, or: cart, total, qty <id> <n>, remove <id>, clear, checkout, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "quit", "exit":
			return nil

		case "cart":
			for _, l := range cart.Lines() {
				fmt.Printf("  %-30s x%-3d  @%8s  = %8s  (stock %d)\n",
					l.Name, l.Quantity, l.Price.StringFixed(2), l.LineTotal().StringFixed(2), l.AvailableStock)
			}
			fmt.Printf("  %d items, total %s\n", cart.ItemCount(), cart.Total().StringFixed(2))

		case "total":
			fmt.Printf("  total %s (%d items)\n", cart.Total().StringFixed(2), cart.ItemCount())

		case "qty":
			if len(fields) != 3 {
				fmt.Println("  usage: qty <product-id> <quantity>")
				continue
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("  usage: qty <product-id> <quantity>")
				continue
			}
			res := cart.AdjustQuantity(fields[1], n)
			printOutcome(res, nil)

		case "remove":
			if len(fields) != 2 {
				fmt.Println("  usage: remove <product-id>")
				continue
			}
			cart.Remove(fields[1])
			fmt.Println("  removed")

		case "clear":
			cart.Clear()
			fmt.Println("  cart cleared")

		case "checkout":
			receipt, err := session.Checkout(ctx)
			switch {
			case errors.Is(err, pos.ErrEmptyCart):
				fmt.Println("  cart is empty; scan some items first")
			case errors.Is(err, pos.ErrStockConflict):
				fmt.Printf("  stock changed since scanning: %v\n  adjust the cart and retry\n", err)
			case err != nil:
				fmt.Printf("  checkout failed: %v\n  nothing was charged; retry\n", err)
			default:
				fmt.Printf("  payment successful, total %s (receipt %s)\n",
					receipt.Total.StringFixed(2), receipt.ID)
			}

		default:
			// Anything else is a barcode from the manual-entry sensor.
			a.Bus().Publish(pos.TopicScanDetected, pos.Detection{
				Symbology: "manual",
				RawText:   line,
				At:        time.Now(),
			})
			// Resolution is async; flush the outcome before the next prompt.
			a.Bus().WaitAsync()
		}
	}
}

func printOutcome(res pos.ScanResult, err error) {
	if err != nil {
		fmt.Printf("  lookup failed: %v, scan again\n", err)
		return
	}
	switch res.Outcome {
	case pos.OutcomeAdded:
		fmt.Printf("  added %s @%s\n", res.Line.Name, res.Line.Price.StringFixed(2))
	case pos.OutcomeIncremented, pos.OutcomeAdjusted:
		fmt.Printf("  %s x%d\n", res.Line.Name, res.Line.Quantity)
	case pos.OutcomeRemoved:
		fmt.Printf("  removed %s\n", res.Line.Name)
	case pos.OutcomeNotFound:
		if res.Barcode == "" {
			fmt.Println("  not in cart")
		} else {
			fmt.Printf("  no product with barcode %q\n", res.Barcode)
		}
	case pos.OutcomeOutOfStock:
		fmt.Println("  out of stock")
	case pos.OutcomeInsufficientStock:
		if res.Line != nil {
			fmt.Printf("  only %d available for %s\n", res.Line.AvailableStock, res.Line.Name)
		} else {
			fmt.Println("  insufficient stock")
		}
	}
}

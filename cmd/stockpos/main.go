// Command stockpos is the terminal surface over the inventory core: catalog
// management, import/export, reporting and the interactive cashier loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openpoint/stockpos/config"
	"github.com/openpoint/stockpos/internal/app"
	"github.com/openpoint/stockpos/internal/domain"
	"github.com/openpoint/stockpos/internal/portability"
	"github.com/openpoint/stockpos/internal/report"
	"github.com/openpoint/stockpos/internal/seed"
)

const usage = `usage: stockpos [-conf file] <command> [args]

commands:
  init [-sample]          create the workdir and database, optionally seeded
  list                    print the catalog
  get <id>                print one product
  add [flags]             create a product (see add -h)
  del <id>                delete a product
  search <query>          substring search over name/description/category/barcode
  export [-csv] [-o file] write the catalog document
  import [-csv] [-y] -i f replace the catalog from a document (destructive)
  report                  inventory summary
  receipts                print the sales journal
  snapshot                write a backup snapshot now
  cashier                 interactive scan/checkout session
`

func main() {
	confPath := flag.String("conf", "/etc/stockpos.yml", "configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	a := app.NewApplication(cfg)
	if err := a.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer a.Release()

	ctx := context.Background()
	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, a, cmd, args); err != nil {
		zap.L().Error("command failed", zap.String("command", cmd), zap.Error(err))
		fmt.Fprintf(os.Stderr, "stockpos %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.Application, cmd string, args []string) error {
	switch cmd {
	case "init":
		return cmdInit(ctx, a, args)
	case "list":
		return cmdList(ctx, a)
	case "get":
		return cmdGet(ctx, a, args)
	case "add":
		return cmdAdd(ctx, a, args)
	case "del":
		return cmdDel(ctx, a, args)
	case "search":
		return cmdSearch(ctx, a, args)
	case "export":
		return cmdExport(ctx, a, args)
	case "import":
		return cmdImport(ctx, a, args)
	case "report":
		return cmdReport(ctx, a)
	case "receipts":
		return cmdReceipts(ctx, a)
	case "snapshot":
		return a.RunSnapshotNow()
	case "cashier":
		return cmdCashier(ctx, a)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdInit(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	sample := fs.Bool("sample", false, "seed the demo catalog")
	_ = fs.Parse(args)

	if *sample {
		for _, p := range seed.Products() {
			p := p
			if err := a.Store().Upsert(ctx, &p); err != nil {
				return err
			}
		}
		fmt.Printf("seeded %d products\n", len(seed.Products()))
	}
	fmt.Printf("workdir %s ready\n", a.Config().System.Workdir)
	return nil
}

func cmdList(ctx context.Context, a *app.Application) error {
	products, err := a.Store().ListAll(ctx)
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func cmdGet(ctx context.Context, a *app.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <id>")
	}
	p, err := a.Store().GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	printProducts([]domain.Product{*p})
	return nil
}

func cmdAdd(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "product name (required)")
	price := fs.String("price", "0", "unit price")
	qty := fs.Int("qty", 0, "stock quantity")
	barcode := fs.String("barcode", "", "barcode (optional)")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category")
	_ = fs.Parse(args)

	priceDec, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("invalid price %q", *price)
	}
	p := domain.Product{
		Name:        strings.TrimSpace(*name),
		Barcode:     strings.TrimSpace(*barcode),
		Price:       priceDec,
		Quantity:    *qty,
		Description: *desc,
		Category:    *category,
	}
	if errs := domain.ValidateFields(&p); errs != nil {
		for field, msg := range errs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return fmt.Errorf("validation failed")
	}
	if p.Barcode != "" {
		// Duplicate barcodes are allowed but worth flagging: lookup is
		// first-match, so the new product may be shadowed.
		if existing, err := a.Store().GetByBarcode(ctx, p.Barcode); err == nil {
			zap.L().Warn("barcode already in use",
				zap.String("barcode", p.Barcode), zap.String("existing", existing.ID))
		}
	}
	if err := a.Store().Upsert(ctx, &p); err != nil {
		return err
	}
	fmt.Printf("created %s\n", p.ID)
	return nil
}

func cmdDel(ctx context.Context, a *app.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: del <id>")
	}
	if err := a.Store().Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func cmdSearch(ctx context.Context, a *app.Application, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <query>")
	}
	hits, err := a.Store().Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printProducts(hits)
	return nil
}

func cmdExport(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	asCSV := fs.Bool("csv", false, "export CSV instead of the JSON document")
	out := fs.String("o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	products, err := a.Store().ListAll(ctx)
	if err != nil {
		return err
	}
	var data []byte
	if *asCSV {
		data, err = portability.ExportCSV(products)
	} else {
		data, err = portability.Export(products, nowUTC())
	}
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*out, data, 0644)
}

func cmdImport(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	asCSV := fs.Bool("csv", false, "input is CSV")
	in := fs.String("i", "", "input file (required)")
	yes := fs.Bool("y", false, "skip the confirmation prompt")
	_ = fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("usage: import [-csv] [-y] -i <file>")
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	var products []domain.Product
	if *asCSV {
		products, err = portability.ParseCSV(data, nowUTC())
	} else {
		products, err = portability.ParseDocument(data, nowUTC())
	}
	if err != nil {
		return err
	}
	if !*yes {
		fmt.Printf("This will REPLACE the entire catalog with %d products. Continue? [y/N] ", len(products))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("aborted")
			return nil
		}
	}
	if err := portability.Import(ctx, a.Store(), products); err != nil {
		return err
	}
	fmt.Printf("imported %d products\n", len(products))
	return nil
}

func cmdReport(ctx context.Context, a *app.Application) error {
	products, err := a.Store().ListAll(ctx)
	if err != nil {
		return err
	}
	s := report.Summarize(products)
	fmt.Printf("SKUs:            %d\n", s.SKUCount)
	fmt.Printf("Units in stock:  %d\n", s.TotalUnits)
	fmt.Printf("Out of stock:    %d\n", s.OutOfStock)
	fmt.Printf("Inventory value: %s\n", s.InventoryValue.StringFixed(2))
	fmt.Printf("Mean price:      %.2f\n", s.MeanPrice)
	fmt.Printf("Median price:    %.2f\n", s.MedianPrice)
	for category, n := range s.Categories {
		fmt.Printf("  %-20s %d\n", category, n)
	}
	return nil
}

func cmdReceipts(ctx context.Context, a *app.Application) error {
	receipts, err := a.Store().ListReceipts(ctx)
	if err != nil {
		return err
	}
	for _, r := range receipts {
		fmt.Printf("%s  %s  %d lines  total %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, len(r.Lines), r.Total.StringFixed(2))
	}
	return nil
}

func printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("(empty)")
		return
	}
	for _, p := range products {
		fmt.Printf("%-16s  %-30s  %-14s  %8s  x%d\n",
			p.ID, p.Name, p.Barcode, p.Price.StringFixed(2), p.Quantity)
	}
}

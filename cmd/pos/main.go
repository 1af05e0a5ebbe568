// Command pos is the point-of-sale toolchain for a single shop: it
// runs the local backend, manages the item catalog, and turns a bill
// file into a submitted, printed invoice.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/shopbill/pos/internal/api"
	"github.com/shopbill/pos/internal/billing"
	"github.com/shopbill/pos/internal/config"
	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/internal/receipt"
	"github.com/shopbill/pos/internal/search"
	"github.com/shopbill/pos/internal/server"
	"github.com/shopbill/pos/pkg/printer"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "pos",
		Usage: "billing and inventory for a single shop",
		Commands: []*cli.Command{
			serveCommand(cfg),
			itemsCommand(cfg),
			billCommand(cfg),
			creditCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(api.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})
}

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local backend API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.Server.Port, Usage: "port to listen on"},
			&cli.StringFlag{Name: "db", Value: cfg.Server.DBPath, Usage: "sqlite database path"},
		},
		Action: func(c *cli.Context) error {
			db, err := server.OpenDB(c.String("db"))
			if err != nil {
				return err
			}
			r := server.NewRouter(db)
			log.Printf("Listening on :%s", c.String("port"))
			return r.Run(":" + c.String("port"))
		},
	}
}

func itemsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "manage the item catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list all catalog items",
				Action: func(c *cli.Context) error {
					items, err := newClient(cfg).ListItems(context.Background())
					if err != nil {
						return err
					}
					for _, item := range items {
						fmt.Printf("%-30s %-12s %s%s  stock %s %s\n",
							item.ItemName, item.Category, cfg.App.Currency,
							item.SellPrice.StringFixed(2), item.CurrentStock, item.Unit)
					}
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "search items by name or category (no argument starts an interactive session)",
				ArgsUsage: "[query]",
				Action: func(c *cli.Context) error {
					client := newClient(cfg)
					if c.NArg() == 0 {
						fmt.Println("Type to search; blank line clears, Ctrl-D exits.")
						return search.Run(os.Stdin, os.Stdout, client.SearchItems,
							cfg.Search.DebounceWindow, cfg.App.Currency)
					}
					items, err := client.SearchItems(context.Background(), c.Args().First())
					if err != nil {
						return err
					}
					for _, item := range items {
						fmt.Printf("%-30s %s%s  stock %s\n",
							item.ItemName, cfg.App.Currency,
							item.SellPrice.StringFixed(2), item.CurrentStock)
					}
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "add a catalog item from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "item JSON file"},
				},
				Action: func(c *cli.Context) error {
					var item entity.CatalogItem
					if err := readJSONFile(c.String("file"), &item); err != nil {
						return err
					}
					created, err := newClient(cfg).CreateItem(context.Background(), &item)
					if err != nil {
						return err
					}
					fmt.Printf("Created %s (%s)\n", created.ItemName, created.ID)
					return nil
				},
			},
		},
	}
}

// billLine is one entry of a bill file. An item is resolved by barcode
// when present, otherwise by the first search hit for query.
type billLine struct {
	Barcode         string `json:"barcode,omitempty"`
	Query           string `json:"query,omitempty"`
	Quantity        string `json:"quantity"`
	SellPrice       string `json:"sellPrice,omitempty"`
	DiscountPercent string `json:"discountPercent,omitempty"`
	TaxPercent      string `json:"taxPercent,omitempty"`
}

// billFile is the JSON input for `pos bill`.
type billFile struct {
	BillNumber string `json:"billNumber,omitempty"`
	Customer   struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"customer"`
	Type            string     `json:"type"`
	Items           []billLine `json:"items"`
	InvoiceDiscount string     `json:"invoiceDiscount,omitempty"`
	ReceivedAmount  string     `json:"receivedAmount,omitempty"`
}

func billCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "bill",
		Usage: "build and submit a bill from a bill file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "bill JSON file"},
			&cli.BoolFlag{Name: "print", Usage: "send the receipt to the configured printer"},
			&cli.StringFlag{Name: "pdf", Usage: "write the receipt PDF to this path"},
		},
		Action: func(c *cli.Context) error {
			var bf billFile
			if err := readJSONFile(c.String("file"), &bf); err != nil {
				return err
			}
			if len(bf.Items) == 0 {
				return cli.Exit("bill file has no items", 1)
			}

			ctx := context.Background()
			client := newClient(cfg)
			eng := billing.New()
			eng.SetCustomer(bf.Customer.Name, bf.Customer.Phone, bf.Customer.Address)
			if bf.BillNumber != "" {
				eng.SetBillNumber(bf.BillNumber)
			}

			id := eng.Lines()[0].ID()
			for i, line := range bf.Items {
				if i > 0 {
					id = eng.AddLine()
				}
				item, err := resolveItem(ctx, client, line)
				if err != nil {
					return err
				}
				if err := eng.SelectCatalogItem(id, *item); err != nil {
					return err
				}
				if err := applyLine(eng, id, line); err != nil {
					return err
				}
				if eng.Lines()[i].AtStockCeiling() {
					log.Printf("Quantity for %s limited to available stock (%s)",
						item.ItemName, eng.Lines()[i].Quantity())
				}
			}

			if bf.InvoiceDiscount != "" {
				if err := eng.SetInvoiceDiscount(bf.InvoiceDiscount); err != nil {
					return err
				}
			}
			if bf.ReceivedAmount != "" {
				if err := eng.SetReceivedAmount(bf.ReceivedAmount); err != nil {
					return err
				}
			}

			payload := eng.SubmissionPayload(bf.Type)
			bill, err := client.CreateBill(ctx, payload)
			if err != nil {
				return err
			}

			t := eng.Totals()
			fmt.Printf("Bill %s submitted\n", bill.BillNumber)
			fmt.Printf("  Subtotal  %s%s\n", cfg.App.Currency, t.SubTotal.StringFixed(2))
			fmt.Printf("  GST       %s%s\n", cfg.App.Currency, t.TotalTax.StringFixed(2))
			if t.InvoiceDiscount.IsPositive() {
				fmt.Printf("  Discount  %s%s\n", cfg.App.Currency, t.InvoiceDiscount.StringFixed(2))
			}
			fmt.Printf("  TOTAL     %s%s\n", cfg.App.Currency, t.GrandTotal.StringFixed(2))
			if !t.Balance.IsZero() {
				fmt.Printf("  Balance   %s%s\n", cfg.App.Currency, t.Balance.StringFixed(2))
			}

			return renderOutputs(c, cfg, payload)
		},
	}
}

func resolveItem(ctx context.Context, client *api.Client, line billLine) (*entity.CatalogItem, error) {
	if line.Barcode != "" {
		return client.GetItemByBarcode(ctx, line.Barcode)
	}
	if line.Query != "" {
		items, err := client.SearchItems(ctx, line.Query)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("no item matches %q", line.Query)
		}
		return &items[0], nil
	}
	return nil, fmt.Errorf("bill line needs a barcode or a query")
}

func applyLine(eng *billing.Engine, id billing.LineID, line billLine) error {
	set := func(f billing.Field, v string) error {
		if v == "" {
			return nil
		}
		return eng.SetLineField(id, f, v)
	}
	if err := set(billing.FieldQuantity, line.Quantity); err != nil {
		return err
	}
	if err := set(billing.FieldPrice, line.SellPrice); err != nil {
		return err
	}
	if err := set(billing.FieldDiscount, line.DiscountPercent); err != nil {
		return err
	}
	return set(billing.FieldTax, line.TaxPercent)
}

// renderOutputs prints and/or writes the PDF for a submitted bill.
func renderOutputs(c *cli.Context, cfg *config.Config, payload *entity.BillPayload) error {
	if !c.Bool("print") && c.String("pdf") == "" {
		return nil
	}

	r := receipt.FromBill(payload)
	header := entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
		GSTIN:     cfg.Store.GSTIN,
	}

	if c.Bool("print") {
		p, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.Device, cfg.Printer.Address)
		if err != nil {
			return err
		}
		defer p.Close()
		data := receipt.FormatESCPOS(r, header, cfg.Printer.Width, cfg.App.Currency)
		if err := p.Print(data); err != nil {
			return err
		}
		log.Println("Receipt sent to printer")
	}

	if path := c.String("pdf"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := receipt.RenderPDF(r, header, cfg.App.Currency, f); err != nil {
			return err
		}
		log.Printf("Receipt PDF written to %s", path)
	}
	return nil
}

func creditCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "credit",
		Usage: "manage credit bills",
		Subcommands: []*cli.Command{
			{
				Name:  "pay",
				Usage: "record a payment against a credit bill",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bill", Required: true, Usage: "bill ID"},
					&cli.StringFlag{Name: "amount", Required: true, Usage: "payment amount"},
				},
				Action: func(c *cli.Context) error {
					amount, err := decimal.NewFromString(c.String("amount"))
					if err != nil {
						return fmt.Errorf("invalid amount %q", c.String("amount"))
					}
					bill, err := newClient(cfg).PayCredit(context.Background(), c.String("bill"), amount)
					if err != nil {
						return err
					}
					fmt.Printf("Bill %s: paid %s%s, outstanding %s%s",
						bill.BillNumber,
						cfg.App.Currency, bill.Paid.StringFixed(2),
						cfg.App.Currency, bill.Outstanding.StringFixed(2))
					if bill.Settled {
						fmt.Print("  (settled)")
					}
					fmt.Println()
					return nil
				},
			},
			{
				Name:      "find",
				Usage:     "search bills by number or customer",
				ArgsUsage: "<query>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("usage: pos credit find <query>", 1)
					}
					bills, err := newClient(cfg).SearchBills(context.Background(), c.Args().First())
					if err != nil {
						return err
					}
					for _, bill := range bills {
						status := "settled"
						if !bill.Settled {
							status = "outstanding " + cfg.App.Currency + bill.Outstanding.StringFixed(2)
						}
						fmt.Printf("%-14s %-20s %s%s  %s\n",
							bill.BillNumber, bill.CustomerName,
							cfg.App.Currency, bill.GrandTotal.StringFixed(2), status)
					}
					return nil
				},
			},
		},
	}
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/Spok95/estoque/internal/client"
	"github.com/Spok95/estoque/internal/config"
	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/sheet"
)

const usage = `usage: estoquectl [flags] <command> [args]

commands:
  itens                              list stock items
  compras                            show the purchase list
  dashboard                          totals and monthly cost
  solicitacoes                       list material requests
  funcionario <matricula>            look up an employee
  entrada <idItem> <quantidade>      record an inbound movement
  saida <idItem> <quantidade>        record an outbound movement
  solicitar <idItem> <quantidade>    raise a material request
  status <idSolicitacao> <Aprovado|Rejeitado>

flags:
`

type app struct {
	gw      *client.Gateway
	dir     *client.EmployeeDirectory
	session *client.Session
	out     io.Writer

	supplier, invoice, badge, notes string
}

func main() {
	fs := pflag.NewFlagSet("estoquectl", pflag.ContinueOnError)
	cfgPath := fs.StringP("config", "c", "", "YAML config file")
	fs.String("endpoint", "", "API endpoint (proxy or backend)")
	fs.Duration("timeout", 0, "request timeout")
	fs.String("redis", "", "redis address for the employee cache")
	user := fs.StringP("user", "u", "", "login before running the command")
	password := fs.StringP("password", "p", "", "password for --user")
	a := &app{out: os.Stdout}
	fs.StringVar(&a.supplier, "fornecedor", "", "supplier (entrada)")
	fs.StringVar(&a.invoice, "nf", "", "invoice number (entrada)")
	fs.StringVarP(&a.badge, "matricula", "m", "", "requester badge (saida, solicitar)")
	fs.StringVar(&a.notes, "obs", "", "notes (solicitar)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	v := config.New()
	_ = v.BindPFlag("client.endpoint", fs.Lookup("endpoint"))
	_ = v.BindPFlag("client.timeout", fs.Lookup("timeout"))
	_ = v.BindPFlag("client.redis_addr", fs.Lookup("redis"))
	cfg, err := config.LoadWith(v, *cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Client.Timeout+5*time.Second)
	defer cancel()

	a.gw = client.NewGateway(cfg.Client.Endpoint, cfg.Client.Timeout)
	var cache client.Cache = client.NewMemoryCache(cfg.Client.CacheTTL, nil)
	if cfg.Client.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Client.RedisAddr})
		defer func() { _ = rdb.Close() }()
		cache = client.NewRedisCache(rdb, cfg.Client.CacheTTL)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a.dir = client.NewEmployeeDirectory(a.gw, cache, log)
	a.session = &client.Session{}

	if *user != "" {
		a.session, err = a.gw.Login(ctx, *user, *password)
		if err != nil {
			fail(err)
		}
	}

	if err := a.run(ctx, fs.Args()); err != nil {
		fail(err)
	}
}

func fail(err error) {
	switch {
	case errors.Is(err, client.ErrTransport):
		fmt.Fprintln(os.Stderr, "connection problem:", err)
	case errors.Is(err, client.ErrRemote):
		fmt.Fprintln(os.Stderr, "server refused:", err)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing command, see --help")
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "itens":
		list, err := a.gw.Items(ctx)
		if err != nil {
			return err
		}
		return a.table(list, "iddoitem", "nomedoitem", "saldoatual", "estoqueminimo", "unidade", "localizacao")
	case "compras":
		list, err := a.gw.PurchaseList(ctx)
		if err != nil {
			return err
		}
		return a.table(list, "iddoitem", "nomedoitem", "saldoatual", "quantidadeacomprar", "prioridade")
	case "solicitacoes":
		list, err := a.gw.Requests(ctx)
		if err != nil {
			return err
		}
		return a.table(list, "iddasolicitacao", "nomedosolicitante", "iddoitem", "quantidadesolicitada", "status")
	case "dashboard":
		s, err := a.gw.Dashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "itens: %d\nvalor total: %.2f\nabaixo do mínimo: %d\ncusto mensal: %.2f\n",
			s.TotalItems, s.StockValue, s.BelowMinimum, s.MonthlyCost)
		return nil
	case "funcionario":
		if len(args) != 1 {
			return errors.New("usage: funcionario <matricula>")
		}
		e, err := a.dir.Lookup(ctx, employees.ParseBadge(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", e.Badge, e.Name, e.Department)
		return nil
	case "entrada", "saida", "solicitar":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <idItem> <quantidade>", cmd)
		}
		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("quantidade: %w", err)
		}
		return a.record(ctx, cmd, args[0], qty)
	case "status":
		if len(args) != 2 {
			return errors.New("usage: status <idSolicitacao> <Aprovado|Rejeitado>")
		}
		if !a.session.IsStock() {
			return errors.New("status changes need a stock user (--user)")
		}
		st, err := requests.ParseStatus(args[1])
		if err != nil {
			return err
		}
		matched, err := a.gw.UpdateRequestStatus(ctx, args[0], st, a.session.Username())
		if err != nil {
			return err
		}
		if !matched {
			fmt.Fprintln(a.out, "no request with id", args[0])
			return nil
		}
		fmt.Fprintln(a.out, args[0], "→", st)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) record(ctx context.Context, cmd, itemID string, qty float64) error {
	badge := employees.ParseBadge(a.badge)
	var name, dept string
	if badge != "" {
		if e, err := a.dir.Lookup(ctx, badge); err == nil {
			name, dept = e.Name, e.Department
		}
	}

	var (
		mv  client.Movement
		err error
	)
	switch cmd {
	case "entrada":
		mv, err = a.gw.AddInbound(ctx, inventory.Inbound{
			ItemID: itemID, Quantity: qty, Supplier: a.supplier,
			InvoiceRef: a.invoice, RecordedBy: a.session.Username(),
		})
	case "saida":
		mv, err = a.gw.AddOutbound(ctx, inventory.Outbound{
			ItemID: itemID, Quantity: qty, RequesterBadge: badge,
			RequesterName: name, RequesterDept: dept, RecordedBy: a.session.Username(),
		})
	default:
		var id string
		id, err = a.gw.AddRequest(ctx, requests.Request{
			ItemID: itemID, Quantity: qty, RequesterBadge: badge,
			RequesterName: name, RequesterDept: dept, Notes: a.notes,
		})
		mv = client.Movement{ID: id, Matched: true}
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "created", mv.ID)
	if !mv.Matched {
		fmt.Fprintf(a.out, "warning: no item %s, balance unchanged\n", itemID)
	}
	return nil
}

func (a *app) table(rows []map[string]any, cols ...string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, r := range rows {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, sheet.Text(r[c]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

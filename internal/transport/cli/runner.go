package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/internal/worker"
)

type commerceClient interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	InitiateDeal(ctx context.Context, productID value.ProductID) (entity.InitiatedDeal, error)
	GetStatus(ctx context.Context, dealID value.DealID) (entity.DealStatusReport, error)
	ScanToken(ctx context.Context, token value.Token) (entity.ScanResult, error)
	GenerateVendorToken(ctx context.Context, dealID value.DealID) (entity.VendorToken, error)
}

// Runner executes dealctl commands against the commerce backend.
type Runner struct {
	client        commerceClient
	submitter     *vendor.Submitter
	renderer      qrcode.Renderer
	mobileBaseURL string
	interval      time.Duration
	clock         clock.Clock
	out           io.Writer
}

func NewRunner(client commerceClient, out io.Writer) *Runner {
	return &Runner{
		client:    client,
		submitter: vendor.NewSubmitter(client),
		renderer:  qrcode.NewRenderer(),
		interval:  worker.DefaultPollInterval,
		clock:     clock.New(),
		out:       out,
	}
}

func (r *Runner) WithRenderer(renderer qrcode.Renderer) *Runner {
	r.renderer = renderer
	return r
}

func (r *Runner) WithMobileBaseURL(baseURL string) *Runner {
	r.mobileBaseURL = baseURL
	return r
}

func (r *Runner) WithInterval(interval time.Duration) *Runner {
	if interval > 0 {
		r.interval = interval
	}
	return r
}

func (r *Runner) WithClock(c clock.Clock) *Runner {
	r.clock = c
	return r
}

func (r *Runner) Run(ctx context.Context, cmd Command) error {
	p := printer{out: r.out, format: cmd.Output}

	switch cmd.Name {
	case CommandProducts:
		return r.products(ctx, p)
	case CommandInitiate:
		return r.initiate(ctx, p, cmd)
	case CommandStatus:
		return r.status(ctx, p, cmd.Arg)
	case CommandScan:
		return r.scan(ctx, p, cmd.Arg)
	case CommandVendorToken:
		return r.vendorToken(ctx, p, cmd)
	case CommandWatch:
		return r.watch(ctx, p, cmd.Arg)
	case CommandQR:
		return r.qr(p, cmd)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd.Name, ErrUsage)
	}
}

func (r *Runner) products(ctx context.Context, p printer) error {
	products, err := r.client.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("client.ListProducts: %w", err)
	}

	out := lo.Map(products, func(product entity.Product, _ int) productOutput {
		return newProductOutput(product)
	})

	return p.print(out, func(w io.Writer) {
		for _, product := range out {
			fmt.Fprintf(w, "%s\t%s\t%s\n", product.ID, product.Title, product.Price)
		}
	})
}

func (r *Runner) initiate(ctx context.Context, p printer, cmd Command) error {
	productID, err := value.ParseProductID(cmd.Arg)
	if err != nil {
		return fmt.Errorf("value.ParseProductID: %w", err)
	}

	deal, err := r.client.InitiateDeal(ctx, productID)
	if err != nil {
		return fmt.Errorf("client.InitiateDeal: %w", err)
	}

	deepLink := ""
	if r.mobileBaseURL != "" {
		deepLink = qrcode.DeepLink(r.mobileBaseURL, deal.Token)
	}

	out := newInitiatedOutput(deal, deepLink)

	if err = p.print(out, func(w io.Writer) {
		fmt.Fprintf(w, "deal:   %s\nstatus: %s\ntoken:  %s\n", out.DealID, out.Status, out.TokenValue)
		if deepLink != "" {
			fmt.Fprintf(w, "link:   %s\n", deepLink)
		}
	}); err != nil {
		return err
	}

	return r.showQR(p, deal.Token.String(), cmd.PNGPath)
}

func (r *Runner) status(ctx context.Context, p printer, arg string) error {
	dealID, err := value.ParseDealID(arg)
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	report, err := r.client.GetStatus(ctx, dealID)
	if err != nil {
		return fmt.Errorf("client.GetStatus: %w", err)
	}

	out := newStatusOutput(report)

	return p.print(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", out.DealID, out.Status, out.Product, out.Amount)
	})
}

func (r *Runner) scan(ctx context.Context, p printer, raw string) error {
	outcome, err := r.submitter.Submit(ctx, raw)
	if err != nil {
		return fmt.Errorf("submitter.Submit: %w", err)
	}

	out := newScanOutput(outcome)

	return p.print(out, func(w io.Writer) {
		fmt.Fprintln(w, out.Message)
		if out.CanGenerateConfirmation {
			fmt.Fprintf(w, "next: dealctl vendor-token %s\n", out.DealID)
		}
	})
}

func (r *Runner) vendorToken(ctx context.Context, p printer, cmd Command) error {
	dealID, err := value.ParseDealID(cmd.Arg)
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	token, err := r.submitter.GenerateConfirmation(ctx, dealID)
	if err != nil {
		return fmt.Errorf("submitter.GenerateConfirmation: %w", err)
	}

	if token.DealID.IsZero() {
		token.DealID = dealID
	}

	out := newVendorTokenOutput(token)

	if err = p.print(out, func(w io.Writer) {
		fmt.Fprintf(w, "deal:  %s\ntoken: %s\n", out.DealID, out.TokenValue)
	}); err != nil {
		return err
	}

	return r.showQR(p, token.Token.String(), cmd.PNGPath)
}

// watch печатает каждый переход, пока сделка не станет терминальной.
func (r *Runner) watch(ctx context.Context, p printer, arg string) error {
	dealID, err := value.ParseDealID(arg)
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	report, err := r.client.GetStatus(ctx, dealID)
	if err != nil {
		return fmt.Errorf("client.GetStatus: %w", err)
	}

	initial := entity.Transition{DealID: dealID, To: report.Status, Report: report, ObservedAt: r.clock.Now()}
	if err = r.printTransition(p, initial); err != nil {
		return err
	}

	var printErr error

	poller := worker.NewStatusPoller(r.client, dealID, report.Status, func(_ context.Context, t entity.Transition) {
		if err := r.printTransition(p, t); err != nil && printErr == nil {
			printErr = err
		}
	}).WithInterval(r.interval).WithClock(r.clock)

	if err = poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("poller.Run: %w", err)
	}

	return printErr
}

func (r *Runner) printTransition(p printer, t entity.Transition) error {
	out := newTransitionOutput(t)

	return p.print(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", out.ObservedAt.Format(time.TimeOnly), out.DealID, out.To)
	})
}

func (r *Runner) qr(p printer, cmd Command) error {
	if p.format != OutputText {
		code, err := r.renderer.Render(cmd.Arg)
		if err != nil {
			return fmt.Errorf("renderer.Render: %w", err)
		}

		if err = p.print(qrOutput{Value: code.Value, Size: code.Size}, nil); err != nil {
			return err
		}
	}

	return r.showQR(p, cmd.Arg, cmd.PNGPath)
}

// showQR draws the code in text mode and writes the PNG when asked to.
func (r *Runner) showQR(p printer, s, pngPath string) error {
	if pngPath != "" {
		code, err := r.renderer.Render(s)
		if err != nil {
			return fmt.Errorf("renderer.Render: %w", err)
		}

		if err = os.WriteFile(pngPath, code.PNG, 0o600); err != nil {
			return fmt.Errorf("os.WriteFile: %w", err)
		}
	}

	if p.format != OutputText {
		return nil
	}

	terminal, err := r.renderer.Terminal(s)
	if err != nil {
		return fmt.Errorf("renderer.Terminal: %w", err)
	}

	_, err = io.WriteString(p.out, terminal)

	return err
}
